package main

import (
	"time"

	"github.com/thread-next/internal/config"
	"github.com/thread-next/internal/logger"
	"github.com/thread-next/internal/models"

	"github.com/shopspring/decimal"
)

// Seeds a minimal catalog for local development: payment methods, one
// product with two color variants, per-size stock and a demo voucher.
func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns: cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns: cfg.Database.Pool.MaxIdleConns,
	}); err != nil {
		stdLog.Fatalf("database init failed: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("database migration failed: %v", err)
	}

	db := models.DB

	methods := []models.PaymentMethod{
		{Code: "cod", Name: "Cash on delivery", Enabled: true, SortOrder: 1},
		{Code: "bank_transfer", Name: "Bank transfer", Enabled: true, SortOrder: 2},
		{Code: "momo", Name: "Momo wallet", Enabled: true, SortOrder: 3},
	}
	for i := range methods {
		var existing models.PaymentMethod
		if err := db.Where("code = ?", methods[i].Code).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&methods[i]).Error; err != nil {
			stdLog.Fatalf("seed payment method failed: %v", err)
		}
	}

	var productCount int64
	db.Model(&models.Product{}).Count(&productCount)
	if productCount == 0 {
		product := models.Product{
			Name:        "Oversized Cotton Tee",
			Slug:        "oversized-cotton-tee",
			Description: "Heavyweight 250gsm cotton, boxy fit.",
			Category:    "t-shirts",
			Status:      "active",
			Images:      models.StringArray{"/uploads/tee-front.jpg", "/uploads/tee-back.jpg"},
		}
		if err := db.Create(&product).Error; err != nil {
			stdLog.Fatalf("seed product failed: %v", err)
		}

		details := []models.ProductDetail{
			{
				ProductID:     product.ID,
				Color:         "black",
				Price:         models.NewMoneyFromInt(350_000),
				OriginalPrice: models.NewMoneyFromInt(450_000),
				ImageURL:      "/uploads/tee-black.jpg",
			},
			{
				ProductID:     product.ID,
				Color:         "white",
				Price:         models.NewMoneyFromInt(350_000),
				OriginalPrice: models.NewMoneyFromInt(350_000),
				ImageURL:      "/uploads/tee-white.jpg",
			},
		}
		for i := range details {
			if err := db.Create(&details[i]).Error; err != nil {
				stdLog.Fatalf("seed variant failed: %v", err)
			}
			for _, size := range []string{"S", "M", "L", "XL"} {
				inv := models.ProductInventory{
					ProductDetailID: details[i].ID,
					Size:            size,
					Stock:           20,
				}
				if err := db.Create(&inv).Error; err != nil {
					stdLog.Fatalf("seed inventory failed: %v", err)
				}
			}
		}
	}

	var voucherCount int64
	db.Model(&models.Voucher{}).Count(&voucherCount)
	if voucherCount == 0 {
		voucher := models.Voucher{
			Code:           "WELCOME10",
			Type:           "percentage",
			Value:          models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			MinOrderValue:  models.NewMoneyFromInt(500_000),
			ExpirationDate: time.Now().AddDate(0, 3, 0),
			Status:         "active",
			UsageLimit:     100,
		}
		if err := db.Create(&voucher).Error; err != nil {
			stdLog.Fatalf("seed voucher failed: %v", err)
		}
	}

	logger.Infow("seed_done")
}
