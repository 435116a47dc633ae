package models

import (
	"time"

	"gorm.io/gorm"
)

// Voucher is a discount code. Once usage_count reaches usage_limit
// (limit > 0) the voucher flips to inactive and stays unusable until an
// admin re-enables it, even if the limit is later raised.
type Voucher struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	Code           string         `gorm:"uniqueIndex;not null" json:"code"`
	Type           string         `gorm:"not null" json:"type"` // percentage / fixed
	Value          Money          `gorm:"type:decimal(20,2);not null" json:"value"`
	MinOrderValue  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_order_value"`
	ExpirationDate time.Time      `gorm:"index;not null" json:"expiration_date"`
	Status         string         `gorm:"index;not null;default:'active'" json:"status"` // active / inactive
	UsageCount     int            `gorm:"not null;default:0" json:"usage_count"`
	UsageLimit     int            `gorm:"not null;default:0" json:"usage_limit"` // 0 means unlimited
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Voucher) TableName() string {
	return "vouchers"
}
