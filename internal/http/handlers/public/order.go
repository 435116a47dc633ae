package public

import (
	"strconv"

	"github.com/thread-next/internal/http/response"
	"github.com/thread-next/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderItemRequest is one requested line item.
type OrderItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Color     string `json:"color" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// ShippingAddressRequest is the address snapshot for the order.
type ShippingAddressRequest struct {
	ReceiverName string `json:"receiver_name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	AddressLine  string `json:"address_line" binding:"required"`
	Ward         string `json:"ward"`
	District     string `json:"district"`
	City         string `json:"city" binding:"required"`
	Note         string `json:"note"`
}

// CreateOrderRequest is the checkout request body.
type CreateOrderRequest struct {
	UserID          *uint                  `json:"user_id"`
	Items           []OrderItemRequest     `json:"items" binding:"required"`
	VoucherCode     string                 `json:"voucher_code"`
	PaymentMethod   string                 `json:"payment_method" binding:"required"`
	ShippingAddress ShippingAddressRequest `json:"shipping_address" binding:"required"`
}

// CreateOrder handles checkout.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	items := make([]service.CreateOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CreateOrderItem{
			ProductID: item.ProductID,
			Color:     item.Color,
			Size:      item.Size,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		UserID:            req.UserID,
		Items:             items,
		VoucherCode:       req.VoucherCode,
		PaymentMethodCode: req.PaymentMethod,
		Shipping: service.ShippingAddressInput{
			ReceiverName: req.ShippingAddress.ReceiverName,
			Phone:        req.ShippingAddress.Phone,
			AddressLine:  req.ShippingAddress.AddressLine,
			Ward:         req.ShippingAddress.Ward,
			District:     req.ShippingAddress.District,
			City:         req.ShippingAddress.City,
			Note:         req.ShippingAddress.Note,
		},
	})
	if err != nil {
		respondWithMappedError(c, err, orderCreateErrorRules, "order creation failed")
		return
	}

	response.Success(c, gin.H{
		"order_id": order.ID,
		"order_no": order.OrderNo,
		"total":    order.Total,
	})
}

// GetOrder returns one order by ID.
func (h *Handler) GetOrder(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	order, err := h.OrderService.GetOrder(id)
	if err != nil {
		respondWithMappedError(c, err, orderCancelErrorRules, "order lookup failed")
		return
	}
	response.Success(c, order)
}

// CancelOrderRequest is the cancel request body.
type CancelOrderRequest struct {
	Note string `json:"note"`
}

// CancelOrder cancels an order, restoring its inventory.
func (h *Handler) CancelOrder(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	var req CancelOrderRequest
	_ = c.ShouldBindJSON(&req)

	order, err := h.OrderStatusService.Cancel(id, req.Note)
	if err != nil {
		respondWithMappedError(c, err, orderCancelErrorRules, "order cancel failed")
		return
	}
	response.Success(c, gin.H{
		"order_id":          order.ID,
		"status":            order.Status,
		"payment_status_id": order.PaymentStatusID,
	})
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
