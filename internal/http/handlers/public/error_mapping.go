package public

import (
	"errors"

	"github.com/thread-next/internal/http/response"
	"github.com/thread-next/internal/logger"
	"github.com/thread-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError maps a service error to an API error response.
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

var orderCreateErrorRules = []mappedHandlerError{
	{target: service.ErrEmptyItems, code: response.CodeBadRequest, msg: "order must contain at least one item"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, msg: "item quantity must be positive"},
	{target: service.ErrInvalidPhone, code: response.CodeBadRequest, msg: "invalid shipping phone number"},
	{target: service.ErrMissingAddress, code: response.CodeBadRequest, msg: "shipping address is incomplete"},
	{target: service.ErrPaymentMethodNotFound, code: response.CodeBadRequest, msg: "payment method not available"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrVariantNotFound, code: response.CodeNotFound, msg: "product variant not found"},
	{target: service.ErrSizeNotFound, code: response.CodeNotFound, msg: "size not available"},
	{target: service.ErrVoucherInvalid, code: response.CodeBadRequest, msg: "voucher invalid, expired or below minimum order value"},
	{target: service.ErrVoucherExhausted, code: response.CodeConflict, msg: "voucher usage limit reached"},
}

var orderCancelErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrCannotCancelDelivered, code: response.CodeConflict, msg: "delivered orders cannot be cancelled"},
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackMsg string) {
	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		response.ErrorWithData(c, response.CodeConflict, "insufficient stock", gin.H{
			"product_id": stockErr.ProductID,
			"color":      stockErr.Color,
			"size":       stockErr.Size,
			"requested":  stockErr.Requested,
			"available":  stockErr.Available,
		})
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			response.Error(c, rule.code, rule.msg)
			return
		}
	}
	logger.Errorw("handler_unmapped_error", "error", err)
	response.Error(c, response.CodeInternal, fallbackMsg)
}
