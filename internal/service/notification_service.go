package service

import (
	"errors"

	"github.com/thread-next/internal/logger"
	"github.com/thread-next/internal/repository"
)

// NotificationService resolves the receiver of an order notification
// and delivers it. Best effort: a disabled mailer or an order without a
// reachable address is not an error worth retrying.
type NotificationService struct {
	orderRepo    repository.OrderRepository
	userRepo     repository.UserRepository
	emailService *EmailService
}

// NewNotificationService creates a notification service.
func NewNotificationService(orderRepo repository.OrderRepository, userRepo repository.UserRepository, emailService *EmailService) *NotificationService {
	return &NotificationService{
		orderRepo:    orderRepo,
		userRepo:     userRepo,
		emailService: emailService,
	}
}

// NotifyOrderConfirmation sends the post-checkout confirmation email.
func (s *NotificationService) NotifyOrderConfirmation(orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		logger.Warnw("notification_order_missing", "order_id", orderID)
		return nil
	}
	email, err := s.resolveReceiverEmail(order.UserID)
	if err != nil {
		return err
	}
	if email == "" {
		return nil
	}
	return s.swallowConfigErrors(s.emailService.SendOrderConfirmation(email, order), orderID)
}

// NotifyOrderStatus sends a status-change email.
func (s *NotificationService) NotifyOrderStatus(orderID uint, status string) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		logger.Warnw("notification_order_missing", "order_id", orderID)
		return nil
	}
	email, err := s.resolveReceiverEmail(order.UserID)
	if err != nil {
		return err
	}
	if email == "" {
		return nil
	}
	return s.swallowConfigErrors(s.emailService.SendOrderStatusEmail(email, order.OrderNo, status), orderID)
}

func (s *NotificationService) resolveReceiverEmail(userID *uint) (string, error) {
	if userID == nil {
		// Guest checkout leaves no address to notify.
		return "", nil
	}
	user, err := s.userRepo.GetByID(*userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}
	return user.Email, nil
}

// Configuration problems are permanent for this deployment; retrying
// the task would only churn the queue.
func (s *NotificationService) swallowConfigErrors(err error, orderID uint) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrEmailDisabled) || errors.Is(err, ErrEmailNotConfigured) || errors.Is(err, ErrInvalidEmail) {
		logger.Debugw("notification_skipped", "order_id", orderID, "reason", err.Error())
		return nil
	}
	return err
}
