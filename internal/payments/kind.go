package payments

import (
	"fmt"
	"strings"
)

// DomainKind names the effect a confirmed payment produces.
type DomainKind string

const (
	KindBooking                DomainKind = "booking"
	KindTournamentRegistration DomainKind = "tournament_registration"
	KindAdUpgrade              DomainKind = "ad_upgrade"
)

// ParseDomainKind accepts only the three known kinds.
func ParseDomainKind(raw string) (DomainKind, error) {
	switch kind := DomainKind(strings.TrimSpace(raw)); kind {
	case KindBooking, KindTournamentRegistration, KindAdUpgrade:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDomainKind, raw)
	}
}

// AdType names the advertisable entity an ad upgrade targets.
type AdType string

const (
	AdTypePartnerSearch AdType = "partner_search"
	AdTypeCourt         AdType = "court"
	AdTypeInstructor    AdType = "instructor"
)

func ParseAdType(raw string) (AdType, error) {
	switch adType := AdType(strings.TrimSpace(raw)); adType {
	case AdTypePartnerSearch, AdTypeCourt, AdTypeInstructor:
		return adType, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAdType, raw)
	}
}

type RecordStatus string

const (
	RecordPending RecordStatus = "pending"
	RecordPaid    RecordStatus = "paid"
	RecordFailed  RecordStatus = "failed"
)

// AdTarget is the payment record target for an ad upgrade, e.g. "court:c1".
func AdTarget(adType AdType, entityID string) string {
	return string(adType) + ":" + entityID
}

// ParseAdTarget splits an ad upgrade record target into its ad type and entity id.
func ParseAdTarget(target string) (AdType, string, error) {
	rawType, entityID, ok := strings.Cut(strings.TrimSpace(target), ":")
	if !ok || strings.TrimSpace(entityID) == "" {
		return "", "", fmt.Errorf("%w: ad upgrade target %q must be <ad_type>:<entity_id>", ErrInvalidMetadata, target)
	}
	adType, err := ParseAdType(rawType)
	if err != nil {
		return "", "", err
	}
	return adType, strings.TrimSpace(entityID), nil
}
