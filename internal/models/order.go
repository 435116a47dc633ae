package models

import (
	"time"

	"gorm.io/gorm"
)

// Order is the financial and fulfillment record of a checkout.
// All money columns are immutable snapshots taken at creation time;
// later price or voucher edits never touch existing orders.
//
// Total = Subtotal - VoucherDiscount + ShippingFee, where
// ShippingFee = ShippingBasePrice - ShippingDiscount.
type Order struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	OrderNo         string `gorm:"uniqueIndex;not null" json:"order_no"`
	UserID          *uint  `gorm:"index" json:"user_id,omitempty"` // nil for guest checkout
	Status          string `gorm:"index;not null;default:'pending'" json:"status"`
	PaymentMethodID uint   `gorm:"index;not null" json:"payment_method_id"`
	PaymentStatusID int    `gorm:"index;not null;default:1" json:"payment_status_id"`

	Subtotal          Money `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`
	VoucherDiscount   Money `gorm:"type:decimal(20,2);not null;default:0" json:"voucher_discount"`
	ShippingBasePrice Money `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_base_price"`
	ShippingDiscount  Money `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_discount"`
	ShippingFee       Money `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_fee"`
	Total             Money `gorm:"type:decimal(20,2);not null;default:0" json:"total"`

	VoucherID   *uint  `gorm:"index" json:"voucher_id,omitempty"`
	VoucherCode string `gorm:"type:varchar(64)" json:"voucher_code,omitempty"`

	// Shipping address snapshot.
	ReceiverName string `gorm:"not null" json:"receiver_name"`
	Phone        string `gorm:"type:varchar(20);not null" json:"phone"`
	AddressLine  string `gorm:"type:varchar(500);not null" json:"address_line"`
	Ward         string `gorm:"type:varchar(120)" json:"ward"`
	District     string `gorm:"type:varchar(120)" json:"district"`
	City         string `gorm:"type:varchar(120);not null" json:"city"`
	Note         string `gorm:"type:varchar(500)" json:"note,omitempty"`

	CancelNote   string `gorm:"type:varchar(500)" json:"cancel_note,omitempty"`
	RefundAmount Money  `gorm:"type:decimal(20,2);not null;default:0" json:"refund_amount"`
	RefundReason string `gorm:"type:varchar(500)" json:"refund_reason,omitempty"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Details       []OrderDetail  `gorm:"foreignKey:OrderID" json:"details,omitempty"`
	PaymentMethod *PaymentMethod `gorm:"foreignKey:PaymentMethodID" json:"payment_method,omitempty"`
	User          *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName sets the table name.
func (Order) TableName() string {
	return "orders"
}
