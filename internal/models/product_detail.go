package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductDetail is a color variant of a product. Unique per (product, color).
type ProductDetail struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	ProductID     uint           `gorm:"not null;index;uniqueIndex:idx_product_color" json:"product_id"`
	Color         string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_product_color" json:"color"`
	Price         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`          // selling price
	OriginalPrice Money          `gorm:"type:decimal(20,2);not null;default:0" json:"original_price"` // list price before discount
	ImageURL      string         `gorm:"type:varchar(500)" json:"image_url"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Product     *Product           `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Inventories []ProductInventory `gorm:"foreignKey:ProductDetailID" json:"inventories,omitempty"`
}

// TableName sets the table name.
func (ProductDetail) TableName() string {
	return "product_details"
}

// ProductInventory is the per-size stock counter of a variant. It is the
// single source of truth for availability: mutated only by order creation
// (decrement) and cancellation/restitution (increment).
type ProductInventory struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	ProductDetailID uint           `gorm:"not null;index;uniqueIndex:idx_detail_size" json:"product_detail_id"`
	Size            string         `gorm:"type:varchar(16);not null;uniqueIndex:idx_detail_size" json:"size"`
	Stock           int            `gorm:"not null;default:0" json:"stock"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (ProductInventory) TableName() string {
	return "product_inventories"
}
