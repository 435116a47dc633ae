package service

import (
	"errors"
	"testing"

	"github.com/thread-next/internal/constants"
	"github.com/thread-next/internal/models"
	"github.com/thread-next/internal/queue"
	"github.com/thread-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newTestStatusService(t *testing.T, db *gorm.DB) *OrderStatusService {
	t.Helper()
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	return NewOrderStatusService(
		repository.NewOrderRepository(db),
		repository.NewInventoryRepository(db),
		NewStockStatusService(repository.NewProductRepository(db), repository.NewInventoryRepository(db)),
		queueClient,
	)
}

// createOrder places a real order through the checkout path so the
// status tests operate on the same rows production would.
func createOrder(t *testing.T, db *gorm.DB, fixture checkoutFixture, quantity int) *models.Order {
	t.Helper()
	order, err := newTestOrderService(t, db).CreateOrder(CreateOrderInput{
		Items: []CreateOrderItem{
			{ProductID: fixture.product.ID, Color: "black", Size: "M", Quantity: quantity},
		},
		PaymentMethodCode: "bank_transfer",
		Shipping:          testShippingAddress(),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func stockOf(t *testing.T, db *gorm.DB, detailID uint) int {
	t.Helper()
	var inventory models.ProductInventory
	if err := db.Where("product_detail_id = ? AND size = ?", detailID, "M").First(&inventory).Error; err != nil {
		t.Fatalf("load inventory failed: %v", err)
	}
	return inventory.Stock
}

func TestUpdateStatusForwardTransitions(t *testing.T) {
	db := openTestDB(t, "status_forward")
	fixture := seedCheckoutFixture(t, db, 10)
	svc := newTestStatusService(t, db)
	order := createOrder(t, db, fixture, 1)

	updated, err := svc.UpdateStatus(order.ID, UpdateStatusInput{Status: constants.OrderStatusShipping})
	if err != nil {
		t.Fatalf("pending -> shipping failed: %v", err)
	}
	if updated.Status != constants.OrderStatusShipping {
		t.Fatalf("expected shipping, got %s", updated.Status)
	}

	if _, err := svc.UpdateStatus(order.ID, UpdateStatusInput{Status: constants.OrderStatusProcessing}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition shipping -> processing, got: %v", err)
	}

	updated, err = svc.UpdateStatus(order.ID, UpdateStatusInput{Status: constants.OrderStatusDelivered})
	if err != nil {
		t.Fatalf("shipping -> delivered failed: %v", err)
	}
	if updated.Status != constants.OrderStatusDelivered {
		t.Fatalf("expected delivered, got %s", updated.Status)
	}
}

func TestUpdateStatusPaidWhilePendingAdvances(t *testing.T) {
	db := openTestDB(t, "status_paid_advance")
	fixture := seedCheckoutFixture(t, db, 10)
	svc := newTestStatusService(t, db)
	order := createOrder(t, db, fixture, 1)

	updated, err := svc.UpdateStatus(order.ID, UpdateStatusInput{PaymentStatusID: constants.PaymentStatusPaid})
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if updated.Status != constants.OrderStatusProcessing {
		t.Fatalf("expected auto-advance to processing, got %s", updated.Status)
	}
	if updated.PaymentStatusID != constants.PaymentStatusPaid {
		t.Fatalf("expected paid, got %d", updated.PaymentStatusID)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusProcessing || reloaded.PaymentStatusID != constants.PaymentStatusPaid {
		t.Fatalf("persisted state mismatch: %s / %d", reloaded.Status, reloaded.PaymentStatusID)
	}
}

func TestCancelUnpaidRestoresStock(t *testing.T) {
	db := openTestDB(t, "status_cancel_unpaid")
	fixture := seedCheckoutFixture(t, db, 10)
	svc := newTestStatusService(t, db)
	order := createOrder(t, db, fixture, 3)

	if got := stockOf(t, db, fixture.detail.ID); got != 7 {
		t.Fatalf("expected stock 7 after order, got %d", got)
	}

	cancelled, err := svc.Cancel(order.ID, "changed my mind")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if cancelled.PaymentStatusID != constants.PaymentStatusCancelled {
		t.Fatalf("expected payment cancelled, got %d", cancelled.PaymentStatusID)
	}
	if !cancelled.RefundAmount.IsZero() {
		t.Fatalf("unpaid cancel must not set refund amount, got %s", cancelled.RefundAmount)
	}
	if cancelled.CancelNote != "changed my mind" {
		t.Fatalf("expected cancel note kept, got %q", cancelled.CancelNote)
	}
	if got := stockOf(t, db, fixture.detail.ID); got != 10 {
		t.Fatalf("expected stock restored to 10, got %d", got)
	}
}

func TestCancelPaidMarksRefund(t *testing.T) {
	db := openTestDB(t, "status_cancel_paid")
	fixture := seedCheckoutFixture(t, db, 10)
	svc := newTestStatusService(t, db)
	order := createOrder(t, db, fixture, 2)

	if _, err := svc.UpdateStatus(order.ID, UpdateStatusInput{PaymentStatusID: constants.PaymentStatusPaid}); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	cancelled, err := svc.Cancel(order.ID, "")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.PaymentStatusID != constants.PaymentStatusRefunded {
		t.Fatalf("expected refunded, got %d", cancelled.PaymentStatusID)
	}
	if !cancelled.RefundAmount.Equal(order.Total.Decimal) {
		t.Fatalf("expected refund of full total %s, got %s", order.Total, cancelled.RefundAmount)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if !reloaded.RefundAmount.Equal(order.Total.Decimal) {
		t.Fatalf("persisted refund amount %s != total %s", reloaded.RefundAmount, order.Total)
	}
	if got := stockOf(t, db, fixture.detail.ID); got != 10 {
		t.Fatalf("expected stock restored to 10, got %d", got)
	}
}

func TestCancelDeliveredRejected(t *testing.T) {
	db := openTestDB(t, "status_cancel_delivered")
	fixture := seedCheckoutFixture(t, db, 10)
	svc := newTestStatusService(t, db)
	order := createOrder(t, db, fixture, 1)

	if _, err := svc.UpdateStatus(order.ID, UpdateStatusInput{Status: constants.OrderStatusDelivered}); err != nil {
		t.Fatalf("mark delivered failed: %v", err)
	}
	if _, err := svc.Cancel(order.ID, ""); !errors.Is(err, ErrCannotCancelDelivered) {
		t.Fatalf("expected cannot cancel delivered, got: %v", err)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	db := openTestDB(t, "status_cancel_idempotent")
	fixture := seedCheckoutFixture(t, db, 10)
	svc := newTestStatusService(t, db)
	order := createOrder(t, db, fixture, 4)

	if _, err := svc.Cancel(order.ID, ""); err != nil {
		t.Fatalf("first cancel failed: %v", err)
	}
	if got := stockOf(t, db, fixture.detail.ID); got != 10 {
		t.Fatalf("expected stock 10 after cancel, got %d", got)
	}

	// Second cancel is a no-op, stock is not restored twice.
	again, err := svc.Cancel(order.ID, "again")
	if err != nil {
		t.Fatalf("re-cancel failed: %v", err)
	}
	if again.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", again.Status)
	}
	if got := stockOf(t, db, fixture.detail.ID); got != 10 {
		t.Fatalf("expected stock still 10 after re-cancel, got %d", got)
	}
}

func TestCancelRevivesOutOfStockProduct(t *testing.T) {
	db := openTestDB(t, "status_cancel_revive")
	fixture := seedCheckoutFixture(t, db, 2)
	svc := newTestStatusService(t, db)
	order := createOrder(t, db, fixture, 2)

	var product models.Product
	if err := db.First(&product, fixture.product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if product.Status != constants.ProductStatusOutOfStock {
		t.Fatalf("expected outofstock after drain, got %s", product.Status)
	}

	if _, err := svc.Cancel(order.ID, ""); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if err := db.First(&product, fixture.product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if product.Status != constants.ProductStatusActive {
		t.Fatalf("expected active after restitution, got %s", product.Status)
	}
}

func TestUpdateStatusOnCancelledOrder(t *testing.T) {
	db := openTestDB(t, "status_after_cancel")
	fixture := seedCheckoutFixture(t, db, 10)
	svc := newTestStatusService(t, db)
	order := createOrder(t, db, fixture, 1)

	if _, err := svc.Cancel(order.ID, ""); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := svc.UpdateStatus(order.ID, UpdateStatusInput{Status: constants.OrderStatusShipping}); !errors.Is(err, ErrOrderCancelled) {
		t.Fatalf("expected order cancelled, got: %v", err)
	}
}

func TestUpdateStatusCancelledDelegatesToCancel(t *testing.T) {
	db := openTestDB(t, "status_cancel_via_update")
	fixture := seedCheckoutFixture(t, db, 10)
	svc := newTestStatusService(t, db)
	order := createOrder(t, db, fixture, 2)

	updated, err := svc.UpdateStatus(order.ID, UpdateStatusInput{Status: constants.OrderStatusCancelled})
	if err != nil {
		t.Fatalf("cancel via update failed: %v", err)
	}
	if updated.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", updated.Status)
	}
	if got := stockOf(t, db, fixture.detail.ID); got != 10 {
		t.Fatalf("expected stock restored through delegation, got %d", got)
	}
}

func TestProcessRefund(t *testing.T) {
	db := openTestDB(t, "status_refund")
	fixture := seedCheckoutFixture(t, db, 10)
	svc := newTestStatusService(t, db)
	order := createOrder(t, db, fixture, 2)

	if _, err := svc.ProcessRefund(order.ID, decimal.NewFromInt(100_000), "damaged"); !errors.Is(err, ErrRefundNotPaid) {
		t.Fatalf("expected refund not paid, got: %v", err)
	}

	if _, err := svc.UpdateStatus(order.ID, UpdateStatusInput{PaymentStatusID: constants.PaymentStatusPaid}); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	tooMuch := order.Total.Add(decimal.NewFromInt(1))
	if _, err := svc.ProcessRefund(order.ID, tooMuch, "damaged"); !errors.Is(err, ErrInvalidRefundAmount) {
		t.Fatalf("expected invalid refund amount, got: %v", err)
	}
	if _, err := svc.ProcessRefund(order.ID, decimal.Zero, "damaged"); !errors.Is(err, ErrInvalidRefundAmount) {
		t.Fatalf("expected invalid refund amount for zero, got: %v", err)
	}

	refunded, err := svc.ProcessRefund(order.ID, decimal.NewFromInt(100_000), "damaged sleeve")
	if err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	if refunded.PaymentStatusID != constants.PaymentStatusRefunded {
		t.Fatalf("expected refunded, got %d", refunded.PaymentStatusID)
	}
	if !refunded.RefundAmount.Equal(decimal.NewFromInt(100_000)) {
		t.Fatalf("expected refund 100000, got %s", refunded.RefundAmount)
	}
	if refunded.RefundReason != "damaged sleeve" {
		t.Fatalf("expected refund reason kept, got %q", refunded.RefundReason)
	}
}
