package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/thread-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openInventoryTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.ProductDetail{}, &models.ProductInventory{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func seedVariantWithStock(t *testing.T, db *gorm.DB, stock int) models.ProductDetail {
	t.Helper()
	product := models.Product{Name: "Tee", Slug: "tee", Status: "active"}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	detail := models.ProductDetail{
		ProductID: product.ID,
		Color:     "black",
		Price:     models.NewMoneyFromInt(200_000),
	}
	if err := db.Create(&detail).Error; err != nil {
		t.Fatalf("create detail failed: %v", err)
	}
	inventory := models.ProductInventory{ProductDetailID: detail.ID, Size: "M", Stock: stock}
	if err := db.Create(&inventory).Error; err != nil {
		t.Fatalf("create inventory failed: %v", err)
	}
	return detail
}

func TestDeductStockGuard(t *testing.T) {
	db := openInventoryTestDB(t, "inventory_deduct")
	detail := seedVariantWithStock(t, db, 5)
	repo := NewInventoryRepository(db)

	ok, err := repo.DeductStock(detail.ID, "M", 3)
	if err != nil {
		t.Fatalf("deduct failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected deduct of 3 from 5 to succeed")
	}

	// Only 2 left: a deduct of 3 must match zero rows, not go negative.
	ok, err = repo.DeductStock(detail.ID, "M", 3)
	if err != nil {
		t.Fatalf("deduct failed: %v", err)
	}
	if ok {
		t.Fatalf("expected guarded deduct to refuse oversell")
	}

	inventory, err := repo.GetByDetailAndSize(detail.ID, "M")
	if err != nil {
		t.Fatalf("get inventory failed: %v", err)
	}
	if inventory == nil || inventory.Stock != 2 {
		t.Fatalf("expected stock 2, got %+v", inventory)
	}

	// Draining to exactly zero is allowed.
	ok, err = repo.DeductStock(detail.ID, "M", 2)
	if err != nil || !ok {
		t.Fatalf("expected drain to zero to succeed, ok=%v err=%v", ok, err)
	}
}

func TestDeductStockUnknownRow(t *testing.T) {
	db := openInventoryTestDB(t, "inventory_deduct_missing")
	detail := seedVariantWithStock(t, db, 5)
	repo := NewInventoryRepository(db)

	ok, err := repo.DeductStock(detail.ID, "XL", 1)
	if err != nil {
		t.Fatalf("deduct failed: %v", err)
	}
	if ok {
		t.Fatalf("expected deduct on missing size to match zero rows")
	}
}

func TestRestoreStockRecreatesMissingRow(t *testing.T) {
	db := openInventoryTestDB(t, "inventory_restore")
	detail := seedVariantWithStock(t, db, 1)
	repo := NewInventoryRepository(db)

	if err := repo.RestoreStock(detail.ID, "M", 2); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	inventory, err := repo.GetByDetailAndSize(detail.ID, "M")
	if err != nil {
		t.Fatalf("get inventory failed: %v", err)
	}
	if inventory == nil || inventory.Stock != 3 {
		t.Fatalf("expected stock 3 after restore, got %+v", inventory)
	}

	// A size whose row was removed comes back with the restored quantity.
	if err := repo.RestoreStock(detail.ID, "L", 4); err != nil {
		t.Fatalf("restore missing row failed: %v", err)
	}
	recreated, err := repo.GetByDetailAndSize(detail.ID, "L")
	if err != nil {
		t.Fatalf("get recreated inventory failed: %v", err)
	}
	if recreated == nil || recreated.Stock != 4 {
		t.Fatalf("expected recreated row with stock 4, got %+v", recreated)
	}
}

func TestSumStockByProduct(t *testing.T) {
	db := openInventoryTestDB(t, "inventory_sum")
	detail := seedVariantWithStock(t, db, 5)
	repo := NewInventoryRepository(db)

	second := models.ProductInventory{ProductDetailID: detail.ID, Size: "L", Stock: 7}
	if err := db.Create(&second).Error; err != nil {
		t.Fatalf("create second inventory failed: %v", err)
	}

	total, err := repo.SumStockByProduct(detail.ProductID)
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if total != 12 {
		t.Fatalf("expected total 12, got %d", total)
	}

	missing, err := repo.SumStockByProduct(9999)
	if err != nil {
		t.Fatalf("sum for unknown product failed: %v", err)
	}
	if missing != 0 {
		t.Fatalf("expected 0 for unknown product, got %d", missing)
	}
}
