package email

import (
	"fmt"
	"strings"

	"github.com/codr1/courtside/internal/payments"
)

type Message struct {
	Subject string
	Body    string
}

type ReceiptDetails struct {
	AppName              string
	DomainKind           payments.DomainKind
	TargetEntityID       string
	AmountCents          int64
	Currency             string
	PlatformFeeCents     *int64
	OrganizerAmountCents *int64
	PaymentReference     string
}

func PurchaseLabel(kind payments.DomainKind) string {
	switch kind {
	case payments.KindBooking:
		return "Court Booking"
	case payments.KindTournamentRegistration:
		return "Tournament Registration"
	case payments.KindAdUpgrade:
		return "Listing Upgrade"
	}
	return "Purchase"
}

func BuildPaymentReceipt(details ReceiptDetails) Message {
	appName := strings.TrimSpace(details.AppName)
	if appName == "" {
		appName = "Courtside"
	}
	label := PurchaseLabel(details.DomainKind)
	currency := strings.ToUpper(strings.TrimSpace(details.Currency))

	amount := payments.FormatMajor(details.AmountCents)
	if currency != "" {
		amount = currency + " " + amount
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Thanks for your payment.\n\n")
	fmt.Fprintf(&b, "Item: %s\n", label)
	if details.TargetEntityID != "" {
		fmt.Fprintf(&b, "Reference: %s\n", details.TargetEntityID)
	}
	fmt.Fprintf(&b, "Amount paid: %s\n", amount)
	if details.PlatformFeeCents != nil && details.OrganizerAmountCents != nil {
		fmt.Fprintf(&b, "Organizer receives: %s\n", payments.FormatMajor(*details.OrganizerAmountCents))
		fmt.Fprintf(&b, "Platform fee: %s\n", payments.FormatMajor(*details.PlatformFeeCents))
	}
	if details.PaymentReference != "" {
		fmt.Fprintf(&b, "Payment ID: %s\n", details.PaymentReference)
	}
	fmt.Fprintf(&b, "\n%s\n", appName)

	return Message{
		Subject: fmt.Sprintf("%s: %s payment received", appName, label),
		Body:    b.String(),
	}
}
