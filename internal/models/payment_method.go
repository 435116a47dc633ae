package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentMethod is a configured payment channel (cod, bank_transfer, ...).
// The auto-cancel sweep skips orders whose method is cod.
type PaymentMethod struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Code      string         `gorm:"uniqueIndex;not null" json:"code"`
	Name      string         `gorm:"not null" json:"name"`
	Enabled   bool           `gorm:"not null;default:true" json:"enabled"`
	SortOrder int            `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (PaymentMethod) TableName() string {
	return "payment_methods"
}
