package service

import (
	"strings"

	"github.com/thread-next/internal/constants"
	"github.com/thread-next/internal/logger"
	"github.com/thread-next/internal/models"
	"github.com/thread-next/internal/queue"
	"github.com/thread-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultRefundReason = "Order cancelled after payment"

// Forward transitions. Cancellation is handled separately because it
// carries the compensating inventory restitution.
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusProcessing: true,
		constants.OrderStatusShipping:   true,
		constants.OrderStatusDelivered:  true,
	},
	constants.OrderStatusProcessing: {
		constants.OrderStatusShipping:  true,
		constants.OrderStatusDelivered: true,
	},
	constants.OrderStatusShipping: {
		constants.OrderStatusDelivered: true,
	},
}

// OrderStatusService drives the order status state machine, including
// the compensating transaction for cancellation.
type OrderStatusService struct {
	orderRepo     repository.OrderRepository
	inventoryRepo repository.InventoryRepository
	stockStatus   *StockStatusService
	queueClient   *queue.Client
}

// NewOrderStatusService creates an order status service.
func NewOrderStatusService(
	orderRepo repository.OrderRepository,
	inventoryRepo repository.InventoryRepository,
	stockStatus *StockStatusService,
	queueClient *queue.Client,
) *OrderStatusService {
	return &OrderStatusService{
		orderRepo:     orderRepo,
		inventoryRepo: inventoryRepo,
		stockStatus:   stockStatus,
		queueClient:   queueClient,
	}
}

// UpdateStatusInput carries the requested changes. Empty status and
// zero payment status mean "leave unchanged".
type UpdateStatusInput struct {
	Status          string
	PaymentStatusID int
}

// UpdateStatus applies a status and/or payment status change. Marking
// the payment paid while the order is still pending auto-advances the
// order to processing. Requesting cancelled delegates to Cancel so the
// compensating transaction always runs.
func (s *OrderStatusService) UpdateStatus(orderID uint, input UpdateStatusInput) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if input.Status == constants.OrderStatusCancelled {
		return s.Cancel(orderID, "")
	}

	if order.Status == constants.OrderStatusCancelled {
		return nil, ErrOrderCancelled
	}

	updates := map[string]interface{}{}
	nextStatus := order.Status

	if input.Status != "" && input.Status != order.Status {
		if !allowedTransitions[order.Status][input.Status] {
			return nil, ErrInvalidTransition
		}
		nextStatus = input.Status
	}

	if input.PaymentStatusID != 0 && input.PaymentStatusID != order.PaymentStatusID {
		updates["payment_status_id"] = input.PaymentStatusID
		// Payment confirmation implies fulfillment has started.
		if input.PaymentStatusID == constants.PaymentStatusPaid &&
			order.Status == constants.OrderStatusPending &&
			nextStatus == constants.OrderStatusPending {
			nextStatus = constants.OrderStatusProcessing
		}
	}

	if nextStatus == order.Status && len(updates) == 0 {
		return order, nil
	}

	if err := s.orderRepo.UpdateStatus(order.ID, nextStatus, updates); err != nil {
		return nil, err
	}

	statusChanged := nextStatus != order.Status
	order.Status = nextStatus
	if v, ok := updates["payment_status_id"]; ok {
		order.PaymentStatusID = v.(int)
	}

	if statusChanged {
		s.notifyStatusChange(order.ID, nextStatus)
	}

	logger.Infow("order_status_updated",
		"order_id", order.ID,
		"status", order.Status,
		"payment_status_id", order.PaymentStatusID,
	)
	return order, nil
}

// Cancel runs the compensating transaction for order creation: status
// flips to cancelled, a paid order is marked refunded for its full
// total, every line item's quantity returns to inventory, and affected
// product statuses are recomputed. Re-cancelling an already cancelled
// order is an idempotent no-op; a delivered order cannot be cancelled.
func (s *OrderStatusService) Cancel(orderID uint, note string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == constants.OrderStatusCancelled {
		return order, nil
	}
	if order.Status == constants.OrderStatusDelivered {
		return nil, ErrCannotCancelDelivered
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		return s.cancelTx(tx, order, note)
	})
	if err != nil {
		return nil, err
	}

	s.notifyStatusChange(order.ID, constants.OrderStatusCancelled)

	logger.Infow("order_cancelled",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"refunded", order.PaymentStatusID == constants.PaymentStatusRefunded,
	)
	return order, nil
}

func (s *OrderStatusService) cancelTx(tx *gorm.DB, order *models.Order, note string) error {
	orderRepo := s.orderRepo.WithTx(tx)
	inventoryRepo := s.inventoryRepo.WithTx(tx)

	trimmedNote := strings.TrimSpace(note)
	if trimmedNote == "" {
		trimmedNote = "Order cancelled"
	}

	updates := map[string]interface{}{
		"cancel_note": trimmedNote,
	}
	if order.PaymentStatusID == constants.PaymentStatusPaid {
		updates["payment_status_id"] = constants.PaymentStatusRefunded
		updates["refund_amount"] = order.Total
		updates["refund_reason"] = trimmedNote
	} else {
		updates["payment_status_id"] = constants.PaymentStatusCancelled
	}

	if err := orderRepo.UpdateStatus(order.ID, constants.OrderStatusCancelled, updates); err != nil {
		return err
	}

	touchedProducts := make(map[uint]struct{}, len(order.Details))
	for _, detail := range order.Details {
		if detail.ProductDetailID == nil {
			// Legacy line without a variant reference. Nothing to
			// restore; the stock row never existed for it.
			continue
		}
		if err := inventoryRepo.RestoreStock(*detail.ProductDetailID, detail.Size, detail.Quantity); err != nil {
			return err
		}
		touchedProducts[detail.ProductID] = struct{}{}
	}

	if err := s.stockStatus.RecomputeAllTx(tx, touchedProducts); err != nil {
		return err
	}

	order.Status = constants.OrderStatusCancelled
	order.CancelNote = trimmedNote
	if order.PaymentStatusID == constants.PaymentStatusPaid {
		order.PaymentStatusID = constants.PaymentStatusRefunded
		order.RefundAmount = order.Total
		order.RefundReason = trimmedNote
	} else {
		order.PaymentStatusID = constants.PaymentStatusCancelled
	}
	return nil
}

// ProcessRefund marks a paid order refunded for a caller-supplied
// amount, independent of the order status axis.
func (s *OrderStatusService) ProcessRefund(orderID uint, amount decimal.Decimal, reason string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.PaymentStatusID != constants.PaymentStatusPaid {
		return nil, ErrRefundNotPaid
	}
	if !amount.IsPositive() || amount.GreaterThan(order.Total.Decimal) {
		return nil, ErrInvalidRefundAmount
	}

	trimmedReason := strings.TrimSpace(reason)
	if trimmedReason == "" {
		trimmedReason = defaultRefundReason
	}

	updates := map[string]interface{}{
		"payment_status_id": constants.PaymentStatusRefunded,
		"refund_amount":     models.NewMoneyFromDecimal(amount),
		"refund_reason":     trimmedReason,
	}
	if err := s.orderRepo.UpdateStatus(order.ID, order.Status, updates); err != nil {
		return nil, err
	}

	order.PaymentStatusID = constants.PaymentStatusRefunded
	order.RefundAmount = models.NewMoneyFromDecimal(amount)
	order.RefundReason = trimmedReason

	logger.Infow("order_refund_processed",
		"order_id", order.ID,
		"amount", amount.StringFixed(2),
	)
	return order, nil
}

func (s *OrderStatusService) notifyStatusChange(orderID uint, status string) {
	if err := s.queueClient.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{
		OrderID: orderID,
		Status:  status,
	}); err != nil {
		logger.Warnw("order_status_email_enqueue_failed",
			"order_id", orderID,
			"status", status,
			"error", err,
		)
	}
}
