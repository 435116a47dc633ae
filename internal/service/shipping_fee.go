package service

import (
	"strings"

	"github.com/thread-next/internal/constants"

	"github.com/shopspring/decimal"
)

// ShippingQuote is the result of a shipping fee calculation.
// FinalFee = BaseFee - Discount.
type ShippingQuote struct {
	BaseFee  decimal.Decimal
	Discount decimal.Decimal
	FinalFee decimal.Decimal
}

// City markers matched case-insensitively as substrings of the
// destination text. Both diacritic and plain spellings are listed since
// customers type either.
var (
	hcmcMarkers = []string{
		"hồ chí minh",
		"ho chi minh",
		"hcm",
		"sài gòn",
		"sai gon",
		"saigon",
	}
	hanoiMarkers = []string{
		"hà nội",
		"ha noi",
		"hanoi",
	}
)

// CalculateShippingFee maps a destination city and the order subtotal to
// a shipping quote. Pure: no lookups, no side effects.
//
// Base fee tiers: Ho Chi Minh City 50,000; Hanoi 100,000; everywhere
// else 120,000 VND. Orders at or above 1,000,000 VND earn a shipping
// discount of min(baseFee, 100,000).
func CalculateShippingFee(subtotal decimal.Decimal, city string) ShippingQuote {
	baseFee := decimal.NewFromInt(constants.ShippingFeeDefault)
	normalized := strings.ToLower(strings.TrimSpace(city))

	if matchesAny(normalized, hcmcMarkers) {
		baseFee = decimal.NewFromInt(constants.ShippingFeeHCMC)
	} else if matchesAny(normalized, hanoiMarkers) {
		baseFee = decimal.NewFromInt(constants.ShippingFeeHanoi)
	}

	discount := decimal.Zero
	if subtotal.GreaterThanOrEqual(decimal.NewFromInt(constants.ShippingFreeThreshold)) {
		discount = decimal.NewFromInt(constants.ShippingDiscountCap)
		if discount.GreaterThan(baseFee) {
			discount = baseFee
		}
	}

	return ShippingQuote{
		BaseFee:  baseFee,
		Discount: discount,
		FinalFee: baseFee.Sub(discount),
	}
}

func matchesAny(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
