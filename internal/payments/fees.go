package payments

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultPlatformFeeRate is the share of a tournament entry fee kept by the platform.
var DefaultPlatformFeeRate = decimal.RequireFromString("0.15")

var minorUnitsPerMajor = decimal.NewFromInt(100)

// SplitPlatformFee splits a captured amount in minor units into the platform fee and the
// organizer's share. The fee is rounded to the nearest minor unit (half away from zero) and
// the organizer amount is always the remainder, so the two sum to the captured amount.
func SplitPlatformFee(capturedCents int64, rate decimal.Decimal) (platformFeeCents, organizerCents int64, err error) {
	if capturedCents < 0 {
		return 0, 0, fmt.Errorf("captured amount must be 0 or greater, got %d", capturedCents)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return 0, 0, fmt.Errorf("platform fee rate must be between 0 and 1, got %s", rate)
	}
	fee := decimal.NewFromInt(capturedCents).Mul(rate).Round(0).IntPart()
	return fee, capturedCents - fee, nil
}

// FormatMajor renders minor units as a major-unit amount with two decimals.
func FormatMajor(cents int64) string {
	return decimal.NewFromInt(cents).Div(minorUnitsPerMajor).StringFixed(2)
}
