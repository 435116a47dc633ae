package service

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the order services. Handlers map these to
// HTTP status codes via errors.Is.
var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrProductNotFound       = errors.New("product not found")
	ErrVariantNotFound       = errors.New("product variant not found")
	ErrSizeNotFound          = errors.New("size not available for variant")
	ErrVoucherInvalid        = errors.New("voucher invalid, expired or below minimum order value")
	ErrVoucherExhausted      = errors.New("voucher usage limit reached")
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	ErrEmptyItems            = errors.New("order must contain at least one item")
	ErrInvalidQuantity       = errors.New("item quantity must be positive")
	ErrInvalidPhone          = errors.New("invalid shipping phone number")
	ErrMissingAddress        = errors.New("shipping address is incomplete")
	ErrInvalidTransition     = errors.New("illegal order status transition")
	ErrCannotCancelDelivered = errors.New("delivered orders cannot be cancelled")
	ErrOrderCancelled        = errors.New("order is cancelled")
	ErrRefundNotPaid         = errors.New("refund requires a paid order")
	ErrInvalidRefundAmount   = errors.New("invalid refund amount")
)

// InsufficientStockError reports a failed stock reservation together
// with what was available at the time of the attempt.
type InsufficientStockError struct {
	ProductID uint
	Color     string
	Size      string
	Requested int
	Available int
}

// Error implements the error interface.
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d %s/%s: requested %d, available %d",
		e.ProductID, e.Color, e.Size, e.Requested, e.Available)
}

// IsInsufficientStock reports whether err wraps an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}
