package payments

import (
	"fmt"
	"strings"
)

// Metadata keys written by the payment initiation flow.
const (
	MetaUserID       = "user_id"
	MetaCourtID      = "court_id"
	MetaBookingDate  = "booking_date"
	MetaStartTime    = "start_time"
	MetaEndTime      = "end_time"
	MetaTournamentID = "tournament_id"
	MetaAdType       = "ad_type"
	MetaEntityID     = "entity_id"
	MetaPlan         = "plan"
)

// requireMetadata returns the trimmed values of keys, or a MissingMetadataError naming
// every key that is absent or blank.
func requireMetadata(metadata map[string]string, keys ...string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	var missing []string
	for _, key := range keys {
		value := strings.TrimSpace(metadata[key])
		if value == "" {
			missing = append(missing, key)
			continue
		}
		values[key] = value
	}
	if len(missing) > 0 {
		return nil, &MissingMetadataError{Fields: missing}
	}
	return values, nil
}

// checkTarget rejects metadata that names a different target than the payment record.
func checkTarget(req EffectRequest, key, value string) error {
	if req.TargetEntityID == "" || value == req.TargetEntityID {
		return nil
	}
	return fmt.Errorf("%w: %s is %q, record target is %q", ErrMetadataMismatch, key, value, req.TargetEntityID)
}
