package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a catalog entry. Status is derived from variant inventory:
// outofstock holds exactly when every inventory row across every variant
// has zero stock; active otherwise once published.
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"index" json:"category"`
	Images      StringArray    `gorm:"type:json" json:"images"`
	Status      string         `gorm:"index;not null;default:'draft'" json:"status"` // draft / active / outofstock
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Details []ProductDetail `gorm:"foreignKey:ProductID" json:"details,omitempty"`
}

// TableName sets the table name.
func (Product) TableName() string {
	return "products"
}
