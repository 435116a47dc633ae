package repository

import (
	"errors"

	"github.com/thread-next/internal/models"

	"gorm.io/gorm"
)

// ProductDetailRepository is the variant data access interface.
type ProductDetailRepository interface {
	GetByID(id uint) (*models.ProductDetail, error)
	GetByProductAndColor(productID uint, color string) (*models.ProductDetail, error)
	Create(detail *models.ProductDetail) error
	WithTx(tx *gorm.DB) *GormProductDetailRepository
}

// GormProductDetailRepository is the GORM implementation.
type GormProductDetailRepository struct {
	db *gorm.DB
}

// NewProductDetailRepository creates a variant repository.
func NewProductDetailRepository(db *gorm.DB) *GormProductDetailRepository {
	return &GormProductDetailRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormProductDetailRepository) WithTx(tx *gorm.DB) *GormProductDetailRepository {
	if tx == nil {
		return r
	}
	return &GormProductDetailRepository{db: tx}
}

// GetByID loads a variant.
func (r *GormProductDetailRepository) GetByID(id uint) (*models.ProductDetail, error) {
	var detail models.ProductDetail
	if err := r.db.First(&detail, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &detail, nil
}

// GetByProductAndColor resolves a variant by its (product, color) key.
func (r *GormProductDetailRepository) GetByProductAndColor(productID uint, color string) (*models.ProductDetail, error) {
	var detail models.ProductDetail
	if err := r.db.Where("product_id = ? AND color = ?", productID, color).
		First(&detail).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &detail, nil
}

// Create persists a variant.
func (r *GormProductDetailRepository) Create(detail *models.ProductDetail) error {
	return r.db.Create(detail).Error
}
