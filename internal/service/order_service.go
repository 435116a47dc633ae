package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/thread-next/internal/constants"
	"github.com/thread-next/internal/logger"
	"github.com/thread-next/internal/models"
	"github.com/thread-next/internal/queue"
	"github.com/thread-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService creates orders atomically: stock validation, pricing,
// voucher application, shipping fee and inventory decrement all commit
// or roll back together.
type OrderService struct {
	orderRepo         repository.OrderRepository
	productRepo       repository.ProductRepository
	detailRepo        repository.ProductDetailRepository
	inventoryRepo     repository.InventoryRepository
	paymentMethodRepo repository.PaymentMethodRepository
	voucherService    *VoucherService
	stockStatus       *StockStatusService
	queueClient       *queue.Client
}

// NewOrderService creates an order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	detailRepo repository.ProductDetailRepository,
	inventoryRepo repository.InventoryRepository,
	paymentMethodRepo repository.PaymentMethodRepository,
	voucherService *VoucherService,
	stockStatus *StockStatusService,
	queueClient *queue.Client,
) *OrderService {
	return &OrderService{
		orderRepo:         orderRepo,
		productRepo:       productRepo,
		detailRepo:        detailRepo,
		inventoryRepo:     inventoryRepo,
		paymentMethodRepo: paymentMethodRepo,
		voucherService:    voucherService,
		stockStatus:       stockStatus,
		queueClient:       queueClient,
	}
}

// CreateOrderInput is the checkout request.
type CreateOrderInput struct {
	UserID            *uint
	Items             []CreateOrderItem
	VoucherCode       string
	PaymentMethodCode string
	Shipping          ShippingAddressInput
}

// CreateOrderItem is one requested line.
type CreateOrderItem struct {
	ProductID uint
	Color     string
	Size      string
	Quantity  int
}

// ShippingAddressInput is the address snapshot captured on the order.
type ShippingAddressInput struct {
	ReceiverName string
	Phone        string
	AddressLine  string
	Ward         string
	District     string
	City         string
	Note         string
}

// Accepts Vietnamese numbers: leading 0 or +84, then 9-10 digits.
var phonePattern = regexp.MustCompile(`^(\+84|0)[0-9]{9,10}$`)

// CreateOrder runs the checkout transaction. Validation happens before
// the transaction opens; everything that touches rows happens inside it.
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if err := validateCreateOrderInput(input); err != nil {
		return nil, err
	}

	method, err := s.paymentMethodRepo.GetByCode(strings.TrimSpace(input.PaymentMethodCode))
	if err != nil {
		return nil, err
	}
	if method == nil || !method.Enabled {
		return nil, ErrPaymentMethodNotFound
	}

	var order *models.Order
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		created, txErr := s.createOrderTx(tx, input, method)
		if txErr != nil {
			return txErr
		}
		order = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Confirmation is fire-and-forget: scheduled only after commit,
	// never awaited, never fails the order.
	if order.UserID != nil {
		if enqueueErr := s.queueClient.EnqueueOrderConfirmation(queue.OrderConfirmationPayload{
			OrderID: order.ID,
		}); enqueueErr != nil {
			logger.Warnw("order_confirmation_enqueue_failed",
				"order_id", order.ID,
				"error", enqueueErr,
			)
		}
	}

	return order, nil
}

func (s *OrderService) createOrderTx(tx *gorm.DB, input CreateOrderInput, method *models.PaymentMethod) (*models.Order, error) {
	orderRepo := s.orderRepo.WithTx(tx)
	productRepo := s.productRepo.WithTx(tx)
	detailRepo := s.detailRepo.WithTx(tx)
	inventoryRepo := s.inventoryRepo.WithTx(tx)

	type plannedLine struct {
		detail *models.ProductDetail
		item   models.OrderDetail
		qty    int
	}

	subtotal := decimal.Zero
	lines := make([]plannedLine, 0, len(input.Items))
	touchedProducts := make(map[uint]struct{}, len(input.Items))

	for _, item := range input.Items {
		product, err := productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, ErrProductNotFound
		}

		detail, err := detailRepo.GetByProductAndColor(item.ProductID, item.Color)
		if err != nil {
			return nil, err
		}
		if detail == nil {
			return nil, fmt.Errorf("%w: product %d color %q", ErrVariantNotFound, item.ProductID, item.Color)
		}

		inventory, err := inventoryRepo.GetByDetailAndSize(detail.ID, item.Size)
		if err != nil {
			return nil, err
		}
		if inventory == nil {
			return nil, fmt.Errorf("%w: product %d color %q size %q", ErrSizeNotFound, item.ProductID, item.Color, item.Size)
		}
		if inventory.Stock < item.Quantity {
			return nil, &InsufficientStockError{
				ProductID: item.ProductID,
				Color:     item.Color,
				Size:      item.Size,
				Requested: item.Quantity,
				Available: inventory.Stock,
			}
		}

		lineTotal := detail.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		detailID := detail.ID
		lines = append(lines, plannedLine{
			detail: detail,
			qty:    item.Quantity,
			item: models.OrderDetail{
				ProductID:       item.ProductID,
				ProductDetailID: &detailID,
				ProductName:     product.Name,
				Color:           item.Color,
				Size:            item.Size,
				Quantity:        item.Quantity,
				OriginalPrice:   detail.OriginalPrice,
				DiscountPrice:   detail.Price,
				DiscountPercent: discountPercent(detail.Price.Decimal, detail.OriginalPrice.Decimal),
				ImageURL:        detail.ImageURL,
			},
		})
		touchedProducts[item.ProductID] = struct{}{}
	}

	voucher, voucherDiscount, err := s.voucherService.ApplyTx(tx, input.VoucherCode, subtotal)
	if err != nil {
		return nil, err
	}

	shippingQuote := CalculateShippingFee(subtotal, input.Shipping.City)
	total := subtotal.Sub(voucherDiscount).Add(shippingQuote.FinalFee)

	order := &models.Order{
		OrderNo:           generateOrderNo(),
		UserID:            input.UserID,
		Status:            constants.OrderStatusPending,
		PaymentMethodID:   method.ID,
		PaymentStatusID:   constants.PaymentStatusPending,
		Subtotal:          models.NewMoneyFromDecimal(subtotal),
		VoucherDiscount:   models.NewMoneyFromDecimal(voucherDiscount),
		ShippingBasePrice: models.NewMoneyFromDecimal(shippingQuote.BaseFee),
		ShippingDiscount:  models.NewMoneyFromDecimal(shippingQuote.Discount),
		ShippingFee:       models.NewMoneyFromDecimal(shippingQuote.FinalFee),
		Total:             models.NewMoneyFromDecimal(total),
		ReceiverName:      strings.TrimSpace(input.Shipping.ReceiverName),
		Phone:             normalizePhone(input.Shipping.Phone),
		AddressLine:       strings.TrimSpace(input.Shipping.AddressLine),
		Ward:              strings.TrimSpace(input.Shipping.Ward),
		District:          strings.TrimSpace(input.Shipping.District),
		City:              strings.TrimSpace(input.Shipping.City),
		Note:              strings.TrimSpace(input.Shipping.Note),
	}
	if voucher != nil {
		voucherID := voucher.ID
		order.VoucherID = &voucherID
		order.VoucherCode = voucher.Code
	}

	details := make([]models.OrderDetail, 0, len(lines))
	for i := range lines {
		if voucher != nil {
			voucherID := voucher.ID
			lines[i].item.VoucherID = &voucherID
		}
		details = append(details, lines[i].item)
	}

	if err := orderRepo.Create(order, details); err != nil {
		return nil, err
	}
	order.Details = details

	// The guarded decrement is the oversell barrier: a concurrent
	// checkout that drained the row between the read above and here
	// matches zero rows and aborts the whole transaction.
	for _, line := range lines {
		ok, err := inventoryRepo.DeductStock(line.detail.ID, line.item.Size, line.qty)
		if err != nil {
			return nil, err
		}
		if !ok {
			remaining, readErr := inventoryRepo.GetByDetailAndSize(line.detail.ID, line.item.Size)
			available := 0
			if readErr == nil && remaining != nil {
				available = remaining.Stock
			}
			return nil, &InsufficientStockError{
				ProductID: line.item.ProductID,
				Color:     line.item.Color,
				Size:      line.item.Size,
				Requested: line.qty,
				Available: available,
			}
		}
	}

	if err := s.stockStatus.RecomputeAllTx(tx, touchedProducts); err != nil {
		return nil, err
	}

	logger.Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"items", len(details),
		"subtotal", subtotal.StringFixed(2),
		"total", total.StringFixed(2),
	)
	return order, nil
}

// GetOrder loads an order by ID.
func (s *OrderService) GetOrder(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrderByNo loads an order by its public number.
func (s *OrderService) GetOrderByNo(orderNo string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(strings.TrimSpace(orderNo))
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders returns the admin order list.
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

func validateCreateOrderInput(input CreateOrderInput) error {
	if len(input.Items) == 0 {
		return ErrEmptyItems
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	if strings.TrimSpace(input.Shipping.ReceiverName) == "" ||
		strings.TrimSpace(input.Shipping.AddressLine) == "" ||
		strings.TrimSpace(input.Shipping.City) == "" {
		return ErrMissingAddress
	}
	if !phonePattern.MatchString(normalizePhone(input.Shipping.Phone)) {
		return ErrInvalidPhone
	}
	return nil
}

func normalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", ".", "").Replace(strings.TrimSpace(phone))
}

// discountPercent derives the display discount from the price pair.
func discountPercent(price, originalPrice decimal.Decimal) int {
	if !originalPrice.IsPositive() {
		return 0
	}
	ratio := decimal.NewFromInt(1).Sub(price.Div(originalPrice))
	return int(ratio.Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("TN%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		fmt.Fprintf(&b, "%d", n.Int64())
	}
	return b.String()
}
