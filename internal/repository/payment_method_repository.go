package repository

import (
	"errors"

	"github.com/thread-next/internal/models"

	"gorm.io/gorm"
)

// PaymentMethodRepository is the payment method data access interface.
type PaymentMethodRepository interface {
	GetByID(id uint) (*models.PaymentMethod, error)
	GetByCode(code string) (*models.PaymentMethod, error)
	ListEnabled() ([]models.PaymentMethod, error)
	Create(method *models.PaymentMethod) error
	WithTx(tx *gorm.DB) *GormPaymentMethodRepository
}

// GormPaymentMethodRepository is the GORM implementation.
type GormPaymentMethodRepository struct {
	db *gorm.DB
}

// NewPaymentMethodRepository creates a payment method repository.
func NewPaymentMethodRepository(db *gorm.DB) *GormPaymentMethodRepository {
	return &GormPaymentMethodRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormPaymentMethodRepository) WithTx(tx *gorm.DB) *GormPaymentMethodRepository {
	if tx == nil {
		return r
	}
	return &GormPaymentMethodRepository{db: tx}
}

// GetByID loads a payment method.
func (r *GormPaymentMethodRepository) GetByID(id uint) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	if err := r.db.First(&method, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &method, nil
}

// GetByCode loads a payment method by code.
func (r *GormPaymentMethodRepository) GetByCode(code string) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	if err := r.db.Where("code = ?", code).First(&method).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &method, nil
}

// ListEnabled returns enabled payment methods in display order.
func (r *GormPaymentMethodRepository) ListEnabled() ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	if err := r.db.Where("enabled = ?", true).
		Order("sort_order asc, id asc").Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}

// Create persists a payment method.
func (r *GormPaymentMethodRepository) Create(method *models.PaymentMethod) error {
	return r.db.Create(method).Error
}
