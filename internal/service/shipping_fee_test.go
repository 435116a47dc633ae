package service

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCalculateShippingFeeByCity(t *testing.T) {
	subtotal := decimal.NewFromInt(500_000)

	cases := []struct {
		city string
		want int64
	}{
		{"Hồ Chí Minh", 50_000},
		{"ho chi minh", 50_000},
		{"TP. HCM", 50_000},
		{"Sài Gòn", 50_000},
		{"Hà Nội", 100_000},
		{"ha noi", 100_000},
		{"Đà Nẵng", 120_000},
		{"Cần Thơ", 120_000},
		{"", 120_000},
	}
	for _, tc := range cases {
		quote := CalculateShippingFee(subtotal, tc.city)
		if !quote.BaseFee.Equal(decimal.NewFromInt(tc.want)) {
			t.Fatalf("city %q: expected base fee %d, got %s", tc.city, tc.want, quote.BaseFee)
		}
		if !quote.Discount.IsZero() {
			t.Fatalf("city %q: expected no discount below threshold, got %s", tc.city, quote.Discount)
		}
		if !quote.FinalFee.Equal(quote.BaseFee) {
			t.Fatalf("city %q: final fee %s != base fee %s", tc.city, quote.FinalFee, quote.BaseFee)
		}
	}
}

func TestCalculateShippingFeeDiscountAtThreshold(t *testing.T) {
	subtotal := decimal.NewFromInt(1_000_000)

	// Hanoi: base 100k, discount capped at 100k -> free shipping.
	quote := CalculateShippingFee(decimal.NewFromInt(1_200_000), "Hà Nội")
	if !quote.FinalFee.IsZero() {
		t.Fatalf("expected free shipping at 1200000, got %s", quote.FinalFee)
	}

	quote = CalculateShippingFee(subtotal, "Hà Nội")
	if !quote.Discount.Equal(decimal.NewFromInt(100_000)) {
		t.Fatalf("expected discount 100000, got %s", quote.Discount)
	}
	if !quote.FinalFee.IsZero() {
		t.Fatalf("expected free shipping, got %s", quote.FinalFee)
	}

	// HCMC: base 50k is below the cap, discount clamps to the base fee.
	quote = CalculateShippingFee(subtotal, "Hồ Chí Minh")
	if !quote.Discount.Equal(decimal.NewFromInt(50_000)) {
		t.Fatalf("expected discount 50000, got %s", quote.Discount)
	}
	if !quote.FinalFee.IsZero() {
		t.Fatalf("expected free shipping, got %s", quote.FinalFee)
	}

	// Elsewhere: base 120k minus the 100k cap.
	quote = CalculateShippingFee(subtotal, "Huế")
	if !quote.FinalFee.Equal(decimal.NewFromInt(20_000)) {
		t.Fatalf("expected final fee 20000, got %s", quote.FinalFee)
	}
}

func TestCalculateShippingFeeBelowThreshold(t *testing.T) {
	quote := CalculateShippingFee(decimal.NewFromInt(999_999), "Hà Nội")
	if !quote.Discount.IsZero() {
		t.Fatalf("expected no discount at 999999, got %s", quote.Discount)
	}
	if !quote.FinalFee.Equal(decimal.NewFromInt(100_000)) {
		t.Fatalf("expected final fee 100000, got %s", quote.FinalFee)
	}
}
