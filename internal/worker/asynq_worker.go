package worker

import (
	"context"
	"encoding/json"

	"github.com/thread-next/internal/logger"
	"github.com/thread-next/internal/provider"
	"github.com/thread-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer handles async tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates a consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register wires task handlers into the mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderConfirmation, c.handleOrderConfirmation)
	mux.HandleFunc(queue.TaskOrderStatusEmail, c.handleOrderStatusEmail)
	mux.HandleFunc(queue.TaskOrderAutoCancelSweep, c.handleAutoCancelSweep)
}

func (c *Consumer) handleOrderConfirmation(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderConfirmationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_confirmation_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_confirmation_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if err := c.NotificationService.NotifyOrderConfirmation(payload.OrderID); err != nil {
		logger.Warnw("worker_order_confirmation_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleOrderStatusEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_email_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if err := c.NotificationService.NotifyOrderStatus(payload.OrderID, payload.Status); err != nil {
		logger.Warnw("worker_order_status_email_failed",
			"order_id", payload.OrderID,
			"status", payload.Status,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleAutoCancelSweep(ctx context.Context, _ *asynq.Task) error {
	if c == nil {
		return nil
	}
	result, err := c.AutoCancelService.RunSweep(ctx)
	if err != nil {
		logger.Errorw("worker_auto_cancel_sweep_failed", "error", err)
		return err
	}
	if result.Ran {
		logger.Infow("worker_auto_cancel_sweep_done",
			"scanned", result.Scanned,
			"cancelled", result.Cancelled,
			"failed", result.Failed,
		)
	}
	return nil
}
