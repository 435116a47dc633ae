package constants

// Order status constants
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipping   = "shipping"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment status identifiers (independent axis from order status)
const (
	PaymentStatusPending   = 1
	PaymentStatusPaid      = 2
	PaymentStatusFailed    = 3
	PaymentStatusRefunded  = 4
	PaymentStatusCancelled = 5
)

// Payment method codes
const (
	PaymentMethodCOD          = "cod"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodMomo         = "momo"
	PaymentMethodVNPay        = "vnpay"
)

// Product status constants
const (
	ProductStatusDraft      = "draft"
	ProductStatusActive     = "active"
	ProductStatusOutOfStock = "outofstock"
)

// Voucher type constants
const (
	VoucherTypePercentage = "percentage"
	VoucherTypeFixed      = "fixed"
)

// Voucher status constants
const (
	VoucherStatusActive   = "active"
	VoucherStatusInactive = "inactive"
)

// Shipping fee tiers (VND)
const (
	ShippingFeeHCMC       int64 = 50_000
	ShippingFeeHanoi      int64 = 100_000
	ShippingFeeDefault    int64 = 120_000
	ShippingFreeThreshold int64 = 1_000_000
	ShippingDiscountCap   int64 = 100_000
)

// Auto-cancel sweep defaults
const (
	AutoCancelAfterHours       = 24
	AutoCancelSweepIntervalMin = 5
	AutoCancelNote             = "Order cancelled automatically: payment not received within 24 hours"
)

// Queue constants
const (
	QueueDefault             = "default"
	TaskOrderConfirmation    = "order:confirmation_email"
	TaskOrderStatusEmail     = "order:status_email"
	TaskOrderAutoCancelSweep = "order:auto_cancel_sweep"
)

// Cache key defaults
const (
	RedisPrefixDefault = "tn"
	SweepGateKey       = "order:auto_cancel:last_run"
)
