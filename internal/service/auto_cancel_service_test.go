package service

import (
	"context"
	"testing"
	"time"

	"github.com/thread-next/internal/cache"
	"github.com/thread-next/internal/constants"
	"github.com/thread-next/internal/models"
	"github.com/thread-next/internal/repository"

	"gorm.io/gorm"
)

func backdateOrder(t *testing.T, db *gorm.DB, orderID uint, age time.Duration) {
	t.Helper()
	past := time.Now().Add(-age)
	if err := db.Model(&models.Order{}).Where("id = ?", orderID).
		UpdateColumn("created_at", past).Error; err != nil {
		t.Fatalf("backdate order failed: %v", err)
	}
}

func orderStatusOf(t *testing.T, db *gorm.DB, orderID uint) string {
	t.Helper()
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	return order.Status
}

func TestRunSweepCancelsStaleUnpaidOrders(t *testing.T) {
	db := openTestDB(t, "sweep_cancels_stale")
	fixture := seedCheckoutFixture(t, db, 20)
	orderSvc := newTestOrderService(t, db)
	statusSvc := newTestStatusService(t, db)

	// Stale unpaid bank transfer order: the sweep target.
	stale := createOrder(t, db, fixture, 1)
	backdateOrder(t, db, stale.ID, 25*time.Hour)

	// Fresh unpaid order: inside the window.
	fresh := createOrder(t, db, fixture, 1)
	backdateOrder(t, db, fresh.ID, time.Hour)

	// Stale COD order: COD settles on delivery, never swept.
	cod, err := orderSvc.CreateOrder(CreateOrderInput{
		Items: []CreateOrderItem{
			{ProductID: fixture.product.ID, Color: "black", Size: "M", Quantity: 1},
		},
		PaymentMethodCode: "cod",
		Shipping:          testShippingAddress(),
	})
	if err != nil {
		t.Fatalf("create cod order failed: %v", err)
	}
	backdateOrder(t, db, cod.ID, 25*time.Hour)

	// Stale but already paid: not a candidate.
	paid := createOrder(t, db, fixture, 1)
	backdateOrder(t, db, paid.ID, 25*time.Hour)
	if err := db.Model(&models.Order{}).Where("id = ?", paid.ID).
		UpdateColumn("payment_status_id", constants.PaymentStatusPaid).Error; err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}

	sweep := NewAutoCancelService(
		repository.NewOrderRepository(db),
		statusSvc,
		cache.NewMemorySweepGate(),
		24,
		5,
	)

	result, err := sweep.RunSweep(context.Background())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if !result.Ran {
		t.Fatalf("expected sweep to run")
	}
	if result.Scanned != 1 || result.Cancelled != 1 || result.Failed != 0 {
		t.Fatalf("expected 1 scanned 1 cancelled, got %+v", result)
	}

	if got := orderStatusOf(t, db, stale.ID); got != constants.OrderStatusCancelled {
		t.Fatalf("expected stale order cancelled, got %s", got)
	}
	if got := orderStatusOf(t, db, fresh.ID); got != constants.OrderStatusPending {
		t.Fatalf("expected fresh order untouched, got %s", got)
	}
	if got := orderStatusOf(t, db, cod.ID); got != constants.OrderStatusPending {
		t.Fatalf("expected cod order untouched, got %s", got)
	}
	if got := orderStatusOf(t, db, paid.ID); got != constants.OrderStatusPending {
		t.Fatalf("expected paid order untouched, got %s", got)
	}

	var cancelled models.Order
	if err := db.First(&cancelled, stale.ID).Error; err != nil {
		t.Fatalf("reload cancelled order failed: %v", err)
	}
	if cancelled.PaymentStatusID != constants.PaymentStatusCancelled {
		t.Fatalf("expected payment cancelled, got %d", cancelled.PaymentStatusID)
	}
	if cancelled.CancelNote != constants.AutoCancelNote {
		t.Fatalf("expected auto cancel note, got %q", cancelled.CancelNote)
	}

	// Four orders took 4 units, the sweep returned one of them.
	if got := stockOf(t, db, fixture.detail.ID); got != 17 {
		t.Fatalf("expected stock 17 after restitution, got %d", got)
	}
}

func TestRunSweepIntervalGate(t *testing.T) {
	db := openTestDB(t, "sweep_interval_gate")
	seedCheckoutFixture(t, db, 20)
	statusSvc := newTestStatusService(t, db)

	current := time.Now()
	clock := func() time.Time { return current }

	sweep := NewAutoCancelService(
		repository.NewOrderRepository(db),
		statusSvc,
		cache.NewMemorySweepGateWithClock(clock),
		24,
		5,
	).WithClock(clock)

	result, err := sweep.RunSweep(context.Background())
	if err != nil {
		t.Fatalf("first sweep failed: %v", err)
	}
	if !result.Ran {
		t.Fatalf("expected first sweep to run")
	}

	// Inside the 5 minute interval the gate refuses.
	result, err = sweep.RunSweep(context.Background())
	if err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if result.Ran {
		t.Fatalf("expected second sweep gated")
	}

	current = current.Add(6 * time.Minute)
	result, err = sweep.RunSweep(context.Background())
	if err != nil {
		t.Fatalf("third sweep failed: %v", err)
	}
	if !result.Ran {
		t.Fatalf("expected sweep after interval to run")
	}
}
