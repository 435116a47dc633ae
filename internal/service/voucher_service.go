package service

import (
	"strings"
	"time"

	"github.com/thread-next/internal/constants"
	"github.com/thread-next/internal/models"
	"github.com/thread-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VoucherService validates and applies voucher codes at checkout.
type VoucherService struct {
	voucherRepo repository.VoucherRepository
	now         func() time.Time
}

// NewVoucherService creates a voucher service.
func NewVoucherService(voucherRepo repository.VoucherRepository) *VoucherService {
	return &VoucherService{
		voucherRepo: voucherRepo,
		now:         time.Now,
	}
}

// WithClock overrides the clock, for tests.
func (s *VoucherService) WithClock(now func() time.Time) *VoucherService {
	if now != nil {
		s.now = now
	}
	return s
}

// ApplyTx resolves a voucher code against the subtotal, computes the
// discount and consumes one usage, all inside tx. The lookup query
// filters status, expiration and minimum order value in one shot, so a
// voucher that comes back non-nil is applicable by definition.
//
// Consuming the usage is guarded against concurrent exhaustion: two
// checkouts racing on the last usage will see exactly one succeed.
// Reaching the limit flips the voucher to inactive within the same
// transaction, so the order write and the deactivation commit together.
func (s *VoucherService) ApplyTx(tx *gorm.DB, code string, subtotal decimal.Decimal) (*models.Voucher, decimal.Decimal, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, decimal.Zero, nil
	}
	voucherRepo := s.voucherRepo.WithTx(tx)

	voucher, err := voucherRepo.GetActiveByCode(trimmed, subtotal, s.now())
	if err != nil {
		return nil, decimal.Zero, err
	}
	if voucher == nil {
		return nil, decimal.Zero, ErrVoucherInvalid
	}

	discount := CalculateVoucherDiscount(voucher, subtotal)

	consumed, err := voucherRepo.IncrementUsage(voucher.ID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if !consumed {
		return nil, decimal.Zero, ErrVoucherExhausted
	}
	voucher.UsageCount++

	if voucher.UsageLimit > 0 && voucher.UsageCount >= voucher.UsageLimit {
		if err := voucherRepo.Deactivate(voucher.ID); err != nil {
			return nil, decimal.Zero, err
		}
		voucher.Status = constants.VoucherStatusInactive
	}

	return voucher, discount, nil
}

// CalculateVoucherDiscount computes the discount a voucher grants on a
// subtotal, clamped so the discount never exceeds the subtotal.
func CalculateVoucherDiscount(voucher *models.Voucher, subtotal decimal.Decimal) decimal.Decimal {
	if voucher == nil {
		return decimal.Zero
	}
	var discount decimal.Decimal
	switch voucher.Type {
	case constants.VoucherTypePercentage:
		discount = subtotal.Mul(voucher.Value.Decimal).Div(decimal.NewFromInt(100))
	case constants.VoucherTypeFixed:
		discount = voucher.Value.Decimal
	default:
		return decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		return decimal.Zero
	}
	return discount.Round(2)
}
