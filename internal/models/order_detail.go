package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderDetail is a line item. Price, color, size and image are snapshots
// of the variant at purchase time; they survive catalog edits and
// variant deletion. ProductDetailID may go stale if the variant is
// removed, which is why restitution recreates inventory rows on demand.
type OrderDetail struct {
	ID              uint  `gorm:"primarykey" json:"id"`
	OrderID         uint  `gorm:"index;not null" json:"order_id"`
	ProductID       uint  `gorm:"index;not null" json:"product_id"`
	ProductDetailID *uint `gorm:"index" json:"product_detail_id,omitempty"`

	ProductName     string `gorm:"not null" json:"product_name"`
	Color           string `gorm:"type:varchar(64);not null" json:"color"`
	Size            string `gorm:"type:varchar(16);not null" json:"size"`
	Quantity        int    `gorm:"not null" json:"quantity"`
	OriginalPrice   Money  `gorm:"type:decimal(20,2);not null;default:0" json:"original_price"`
	DiscountPrice   Money  `gorm:"type:decimal(20,2);not null;default:0" json:"discount_price"`
	DiscountPercent int    `gorm:"not null;default:0" json:"discount_percent"`
	ImageURL        string `gorm:"type:varchar(500)" json:"image_url"`
	VoucherID       *uint  `gorm:"index" json:"voucher_id,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (OrderDetail) TableName() string {
	return "order_details"
}
