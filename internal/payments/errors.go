package payments

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSession      = errors.New("session id is required")
	ErrVerifierUnreachable = errors.New("payment verifier unreachable")
	ErrPaymentNotConfirmed = errors.New("payment not confirmed")
	ErrUnknownSession      = errors.New("unknown payment session")
	ErrDuplicateSession    = errors.New("payment record already exists for session")
	ErrMissingMetadata     = errors.New("missing payment metadata")
	ErrInvalidMetadata     = errors.New("invalid payment metadata")
	ErrMetadataMismatch    = errors.New("payment metadata does not match payment record")
	ErrUnknownAdType       = errors.New("unknown ad type")
	ErrUnknownDomainKind   = errors.New("unknown domain kind")
	ErrTargetNotFound      = errors.New("payment target not found")
	ErrAlreadyPaid         = errors.New("payment record already paid with a different effect")
	ErrStoreUnavailable    = errors.New("payment store unavailable")
)

// MissingMetadataError lists the metadata keys a session was created without.
type MissingMetadataError struct {
	Fields []string
}

func (e *MissingMetadataError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingMetadata, strings.Join(e.Fields, ", "))
}

func (e *MissingMetadataError) Unwrap() error {
	return ErrMissingMetadata
}

// IsRetryable reports whether calling Confirm again with the same session id may succeed
// without anything changing upstream.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrVerifierUnreachable) || errors.Is(err, ErrStoreUnavailable)
}

func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
