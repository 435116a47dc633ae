package service

import (
	"github.com/thread-next/internal/constants"
	"github.com/thread-next/internal/repository"

	"gorm.io/gorm"
)

// StockStatusService derives a product's availability status from its
// remaining inventory. Every path that mutates inventory (checkout,
// cancellation, sweep) goes through Recompute so the derived status is
// maintained in one place.
type StockStatusService struct {
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
}

// NewStockStatusService creates a stock status service.
func NewStockStatusService(productRepo repository.ProductRepository, inventoryRepo repository.InventoryRepository) *StockStatusService {
	return &StockStatusService{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
	}
}

// RecomputeTx recomputes one product's status inside tx and persists it
// when it changed. Returns the resulting status. Draft products stay
// draft; the derived axis only toggles active <-> outofstock.
func (s *StockStatusService) RecomputeTx(tx *gorm.DB, productID uint) (string, error) {
	productRepo := s.productRepo.WithTx(tx)
	inventoryRepo := s.inventoryRepo.WithTx(tx)

	product, err := productRepo.GetByID(productID)
	if err != nil {
		return "", err
	}
	if product == nil {
		return "", ErrProductNotFound
	}
	if product.Status == constants.ProductStatusDraft {
		return product.Status, nil
	}

	total, err := inventoryRepo.SumStockByProduct(productID)
	if err != nil {
		return "", err
	}

	next := product.Status
	if total == 0 {
		next = constants.ProductStatusOutOfStock
	} else if product.Status == constants.ProductStatusOutOfStock {
		next = constants.ProductStatusActive
	}

	if next != product.Status {
		if err := productRepo.UpdateStatus(productID, next); err != nil {
			return "", err
		}
	}
	return next, nil
}

// RecomputeAllTx recomputes a set of touched products inside tx.
func (s *StockStatusService) RecomputeAllTx(tx *gorm.DB, productIDs map[uint]struct{}) error {
	for productID := range productIDs {
		if _, err := s.RecomputeTx(tx, productID); err != nil {
			return err
		}
	}
	return nil
}
