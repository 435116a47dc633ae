package admin

import (
	"errors"
	"strconv"
	"time"

	"github.com/thread-next/internal/http/response"
	"github.com/thread-next/internal/logger"
	"github.com/thread-next/internal/repository"
	"github.com/thread-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ListOrders returns the paginated admin order list.
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
		OrderNo:  c.Query("order_no"),
		Phone:    c.Query("phone"),
		City:     c.Query("city"),
	}
	if v, err := strconv.Atoi(c.Query("payment_status_id")); err == nil {
		filter.PaymentStatusID = v
	}
	if v, err := strconv.ParseUint(c.Query("user_id"), 10, 32); err == nil {
		userID := uint(v)
		filter.UserID = userID
	}
	if v, err := time.Parse(time.RFC3339, c.Query("created_from")); err == nil {
		filter.CreatedFrom = &v
	}
	if v, err := time.Parse(time.RFC3339, c.Query("created_to")); err == nil {
		filter.CreatedTo = &v
	}

	orders, total, err := h.OrderService.ListOrders(filter)
	if err != nil {
		logger.Errorw("admin_order_list_failed", "error", err)
		response.Error(c, response.CodeInternal, "order list failed")
		return
	}

	totalPage := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPage++
	}
	response.SuccessWithPage(c, orders, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// UpdateOrderStatusRequest carries the requested changes.
type UpdateOrderStatusRequest struct {
	Status          string `json:"status"`
	PaymentStatusID int    `json:"payment_status_id"`
}

// UpdateOrderStatus applies a status and/or payment status change.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if req.Status == "" && req.PaymentStatusID == 0 {
		response.BadRequest(c, "nothing to update")
		return
	}

	order, err := h.OrderStatusService.UpdateStatus(id, service.UpdateStatusInput{
		Status:          req.Status,
		PaymentStatusID: req.PaymentStatusID,
	})
	if err != nil {
		respondOrderStatusError(c, err)
		return
	}
	response.Success(c, order)
}

// ProcessRefundRequest is the refund request body.
type ProcessRefundRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason"`
}

// ProcessRefund marks a paid order refunded.
func (h *Handler) ProcessRefund(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	var req ProcessRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	order, err := h.OrderStatusService.ProcessRefund(id, req.Amount, req.Reason)
	if err != nil {
		respondOrderStatusError(c, err)
		return
	}
	response.Success(c, order)
}

// RunAutoCancelSweep triggers one sweep run on demand.
func (h *Handler) RunAutoCancelSweep(c *gin.Context) {
	result, err := h.AutoCancelService.RunSweep(c.Request.Context())
	if err != nil {
		logger.Errorw("admin_auto_cancel_sweep_failed", "error", err)
		response.Error(c, response.CodeInternal, "sweep failed")
		return
	}
	response.Success(c, result)
}

func respondOrderStatusError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		response.NotFound(c, "order not found")
	case errors.Is(err, service.ErrOrderCancelled):
		response.Conflict(c, "order is cancelled")
	case errors.Is(err, service.ErrInvalidTransition):
		response.Conflict(c, "illegal status transition")
	case errors.Is(err, service.ErrCannotCancelDelivered):
		response.Conflict(c, "delivered orders cannot be cancelled")
	case errors.Is(err, service.ErrRefundNotPaid):
		response.Conflict(c, "refund requires a paid order")
	case errors.Is(err, service.ErrInvalidRefundAmount):
		response.BadRequest(c, "invalid refund amount")
	default:
		logger.Errorw("admin_order_status_error", "error", err)
		response.Error(c, response.CodeInternal, "order update failed")
	}
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
