package repository

import (
	"errors"
	"time"

	"github.com/thread-next/internal/constants"
	"github.com/thread-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VoucherRepository is the voucher data access interface.
type VoucherRepository interface {
	GetByID(id uint) (*models.Voucher, error)
	GetByCode(code string) (*models.Voucher, error)
	GetActiveByCode(code string, subtotal decimal.Decimal, now time.Time) (*models.Voucher, error)
	Create(voucher *models.Voucher) error
	Update(voucher *models.Voucher) error
	IncrementUsage(id uint) (bool, error)
	Deactivate(id uint) error
	WithTx(tx *gorm.DB) *GormVoucherRepository
}

// GormVoucherRepository is the GORM implementation.
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewVoucherRepository creates a voucher repository.
func NewVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormVoucherRepository) WithTx(tx *gorm.DB) *GormVoucherRepository {
	if tx == nil {
		return r
	}
	return &GormVoucherRepository{db: tx}
}

// GetByID loads a voucher.
func (r *GormVoucherRepository) GetByID(id uint) (*models.Voucher, error) {
	var voucher models.Voucher
	if err := r.db.First(&voucher, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

// GetByCode loads a voucher by code.
func (r *GormVoucherRepository) GetByCode(code string) (*models.Voucher, error) {
	var voucher models.Voucher
	if err := r.db.Where("code = ?", code).First(&voucher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

// GetActiveByCode resolves a voucher that is applicable right now: active,
// not expired, and with a minimum order value at or below the subtotal.
// Expiration is filtered here once; callers must not re-check it.
func (r *GormVoucherRepository) GetActiveByCode(code string, subtotal decimal.Decimal, now time.Time) (*models.Voucher, error) {
	var voucher models.Voucher
	if err := r.db.
		Where("code = ?", code).
		Where("status = ?", constants.VoucherStatusActive).
		Where("min_order_value <= ?", subtotal).
		Where("expiration_date >= ?", now).
		First(&voucher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

// Create persists a voucher.
func (r *GormVoucherRepository) Create(voucher *models.Voucher) error {
	return r.db.Create(voucher).Error
}

// Update saves a voucher.
func (r *GormVoucherRepository) Update(voucher *models.Voucher) error {
	return r.db.Save(voucher).Error
}

// IncrementUsage bumps usage_count with a guard against concurrent
// exhaustion: the update only matches while the limit is not reached.
// Returns false when the voucher was already used up.
func (r *GormVoucherRepository) IncrementUsage(id uint) (bool, error) {
	result := r.db.Model(&models.Voucher{}).
		Where("id = ?", id).
		Where("usage_limit = 0 OR usage_count < usage_limit").
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Deactivate flips a voucher to inactive.
func (r *GormVoucherRepository) Deactivate(id uint) error {
	return r.db.Model(&models.Voucher{}).Where("id = ?", id).
		UpdateColumn("status", constants.VoucherStatusInactive).Error
}
