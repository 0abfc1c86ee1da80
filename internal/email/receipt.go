package email

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtside/internal/payments"
)

const receiptEmailTimeout = 10 * time.Second

// ReceiptNotifier e-mails the payer once a payment has been applied.
type ReceiptNotifier struct {
	sender  EmailSender
	appName string
	wg      sync.WaitGroup
}

func NewReceiptNotifier(sender EmailSender, appName string) *ReceiptNotifier {
	return &ReceiptNotifier{sender: sender, appName: appName}
}

// PaymentConfirmed queues the receipt and returns immediately.
func (n *ReceiptNotifier) PaymentConfirmed(ctx context.Context, result payments.Result, session payments.Session) {
	if n == nil || n.sender == nil {
		return
	}
	recipient := strings.TrimSpace(session.CustomerEmail)
	if recipient == "" {
		return
	}

	message := BuildPaymentReceipt(ReceiptDetails{
		AppName:              n.appName,
		DomainKind:           result.DomainKind,
		TargetEntityID:       result.TargetEntityID,
		AmountCents:          result.AmountCents,
		Currency:             session.Currency,
		PlatformFeeCents:     result.PlatformFeeCents,
		OrganizerAmountCents: result.OrganizerAmountCents,
		PaymentReference:     session.PaymentReference,
	})

	logger := log.Ctx(ctx).With().Str("session_id", result.SessionID).Logger()
	sendCtx, cancel := newEmailContext(ctx, receiptEmailTimeout)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer cancel()
		if err := n.sender.Send(sendCtx, recipient, message.Subject, message.Body); err != nil {
			logger.Error().Err(err).Msg("Failed to send payment receipt")
		}
	}()
}

// Wait blocks until queued receipts have been sent or have failed.
func (n *ReceiptNotifier) Wait() {
	n.wg.Wait()
}
