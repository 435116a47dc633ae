package queue

import (
	"encoding/json"

	"github.com/thread-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderConfirmation is the post-checkout confirmation email task.
	TaskOrderConfirmation = constants.TaskOrderConfirmation
	// TaskOrderStatusEmail is the status-change email task.
	TaskOrderStatusEmail = constants.TaskOrderStatusEmail
	// TaskOrderAutoCancelSweep triggers one auto-cancel sweep run.
	TaskOrderAutoCancelSweep = constants.TaskOrderAutoCancelSweep
)

// OrderConfirmationPayload is the confirmation email task payload.
type OrderConfirmationPayload struct {
	OrderID uint `json:"order_id"`
}

// OrderStatusEmailPayload is the status email task payload.
type OrderStatusEmailPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// NewOrderConfirmationTask creates a confirmation email task.
func NewOrderConfirmationTask(payload OrderConfirmationPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderConfirmation, body), nil
}

// NewOrderStatusEmailTask creates a status email task.
func NewOrderStatusEmailTask(payload OrderStatusEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusEmail, body), nil
}

// NewOrderAutoCancelSweepTask creates a sweep trigger task.
func NewOrderAutoCancelSweepTask() *asynq.Task {
	return asynq.NewTask(TaskOrderAutoCancelSweep, nil)
}
