package repository

import (
	"errors"

	"github.com/thread-next/internal/models"

	"gorm.io/gorm"
)

// InventoryRepository is the per-size stock data access interface.
type InventoryRepository interface {
	GetByDetailAndSize(detailID uint, size string) (*models.ProductInventory, error)
	DeductStock(detailID uint, size string, quantity int) (bool, error)
	RestoreStock(detailID uint, size string, quantity int) error
	SumStockByProduct(productID uint) (int64, error)
	Create(inventory *models.ProductInventory) error
	WithTx(tx *gorm.DB) *GormInventoryRepository
}

// GormInventoryRepository is the GORM implementation.
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository creates an inventory repository.
func NewInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormInventoryRepository) WithTx(tx *gorm.DB) *GormInventoryRepository {
	if tx == nil {
		return r
	}
	return &GormInventoryRepository{db: tx}
}

// GetByDetailAndSize loads the stock row for a (variant, size) pair.
func (r *GormInventoryRepository) GetByDetailAndSize(detailID uint, size string) (*models.ProductInventory, error) {
	var inventory models.ProductInventory
	if err := r.db.Where("product_detail_id = ? AND size = ?", detailID, size).
		First(&inventory).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inventory, nil
}

// DeductStock decrements stock with a guarded conditional update. The
// WHERE stock >= quantity clause makes concurrent checkouts race on the
// row itself, so overselling cannot slip through between a read and a
// write. Returns false when stock was insufficient (zero rows matched).
func (r *GormInventoryRepository) DeductStock(detailID uint, size string, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, nil
	}
	result := r.db.Model(&models.ProductInventory{}).
		Where("product_detail_id = ? AND size = ? AND stock >= ?", detailID, size, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RestoreStock increments stock, recreating the row when the size was
// removed from the catalog after the order was placed.
func (r *GormInventoryRepository) RestoreStock(detailID uint, size string, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	result := r.db.Model(&models.ProductInventory{}).
		Where("product_detail_id = ? AND size = ?", detailID, size).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.db.Create(&models.ProductInventory{
			ProductDetailID: detailID,
			Size:            size,
			Stock:           quantity,
		}).Error
	}
	return nil
}

// SumStockByProduct totals remaining stock across all variants and sizes
// of a product. Used to derive the product's availability status.
func (r *GormInventoryRepository) SumStockByProduct(productID uint) (int64, error) {
	var total int64
	err := r.db.Model(&models.ProductInventory{}).
		Joins("JOIN product_details ON product_details.id = product_inventories.product_detail_id").
		Where("product_details.product_id = ?", productID).
		Select("COALESCE(SUM(product_inventories.stock), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Create persists a stock row.
func (r *GormInventoryRepository) Create(inventory *models.ProductInventory) error {
	return r.db.Create(inventory).Error
}
