package service

import (
	"context"
	"strings"

	"github.com/cloud-wave-best-zizon/battery-store/internal/cart"
	"github.com/cloud-wave-best-zizon/battery-store/internal/clock"
	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/cloud-wave-best-zizon/battery-store/internal/events"
	"github.com/cloud-wave-best-zizon/battery-store/internal/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StorefrontContent is what checkout needs from content management.
type StorefrontContent interface {
	ActivePaymentMethod(ctx context.Context, id string) (domain.PaymentMethod, error)
	DeliveryArea(code string) (domain.DeliveryArea, bool)
}

// CheckoutService turns a cart into a recorded order. No payment is taken;
// the shopper's reference number is stored as given.
type CheckoutService struct {
	carts      CartStore
	orders     RecordStore[domain.Order]
	content    StorefrontContent
	publisher  events.Publisher
	taxRate    decimal.Decimal
	clock      clock.Clock
	metrics    *metrics.Metrics
	instanceID string
	logger     *zap.Logger
}

func NewCheckoutService(
	carts CartStore,
	orders RecordStore[domain.Order],
	content StorefrontContent,
	publisher events.Publisher,
	taxRate decimal.Decimal,
	clk clock.Clock,
	m *metrics.Metrics,
	instanceID string,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:      carts,
		orders:     orders,
		content:    content,
		publisher:  publisher,
		taxRate:    taxRate,
		clock:      clk,
		metrics:    m,
		instanceID: instanceID,
		logger:     logger.Named("checkout"),
	}
}

func (s *CheckoutService) Checkout(ctx context.Context, cartID string, req domain.CheckoutRequest) (domain.Order, error) {
	if err := requireCartID(cartID); err != nil {
		return domain.Order{}, err
	}
	if err := s.validate(ctx, req); err != nil {
		return domain.Order{}, err
	}

	c, err := s.carts.Load(ctx, cartID)
	if err != nil {
		return domain.Order{}, domain.NewBackendError("load cart", err)
	}
	if c.IsEmpty() {
		return domain.Order{}, domain.ErrEmptyCart
	}

	order := s.newOrder(c, req)
	if err := s.orders.Create(ctx, &order); err != nil {
		s.logger.Error("Failed to save order", zap.String("cart_id", cartID), zap.Error(err))
		return domain.Order{}, domain.NewBackendError("place order", err)
	}
	s.metrics.Checkout()
	s.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("cart_id", cartID),
		zap.String("total", order.Total.StringFixed(2)))

	if err := s.carts.Delete(ctx, cartID); err != nil {
		s.logger.Warn("Failed to clear cart after checkout", zap.String("cart_id", cartID), zap.Error(err))
	}
	s.publish(ctx, order)
	return order, nil
}

// Orders returns recorded orders newest first.
func (s *CheckoutService) Orders(ctx context.Context) ([]domain.Order, error) {
	list, err := s.orders.List(ctx, "created_at DESC")
	if err != nil {
		return nil, domain.NewBackendError("list orders", err)
	}
	return list, nil
}

func (s *CheckoutService) validate(ctx context.Context, req domain.CheckoutRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return domain.NewValidationError("customer_name", "is required")
	}
	if strings.TrimSpace(req.ContactNumber) == "" {
		return domain.NewValidationError("contact_number", "is required")
	}
	switch req.ServiceType {
	case domain.FulfillmentPickup:
	case domain.FulfillmentDelivery:
		if strings.TrimSpace(req.Address) == "" {
			return domain.NewValidationError("address", "is required for delivery")
		}
		if _, ok := s.content.DeliveryArea(req.DeliveryArea); !ok {
			return domain.NewValidationError("delivery_area", "is not a delivery area we serve")
		}
	case domain.FulfillmentInstallation:
		if strings.TrimSpace(req.InstallationDate) == "" {
			return domain.NewValidationError("installation_date", "is required for installation")
		}
	default:
		return domain.NewValidationError("service_type", "must be pickup, delivery or installation")
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return domain.NewValidationError("payment_method", "is required")
	}
	if _, err := s.content.ActivePaymentMethod(ctx, req.PaymentMethod); err != nil {
		if domain.IsNotFound(err) {
			return domain.NewValidationError("payment_method", "is not accepted")
		}
		return err
	}
	return nil
}

func (s *CheckoutService) newOrder(c *cart.Cart, req domain.CheckoutRequest) domain.Order {
	summary := cart.Summarize(c, s.taxRate)
	lines := make([]domain.OrderLine, 0, len(c.Lines))
	for _, line := range c.Lines {
		lines = append(lines, domain.OrderLine{
			ProductID:  line.ID,
			Name:       line.Name,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			TotalPrice: line.TotalPrice,
		})
	}
	return domain.Order{
		ID:               uuid.NewString(),
		CartID:           c.ID,
		Lines:            lines,
		CustomerName:     strings.TrimSpace(req.CustomerName),
		ContactNumber:    strings.TrimSpace(req.ContactNumber),
		Email:            strings.TrimSpace(req.Email),
		ServiceType:      req.ServiceType,
		Address:          req.Address,
		DeliveryArea:     strings.ToLower(req.DeliveryArea),
		DeliveryDate:     req.DeliveryDate,
		DeliveryTime:     req.DeliveryTime,
		InstallationDate: req.InstallationDate,
		Vehicle:          req.Vehicle,
		PaymentMethod:    req.PaymentMethod,
		ReferenceNumber:  strings.TrimSpace(req.ReferenceNumber),
		Notes:            req.Notes,
		Subtotal:         summary.Subtotal,
		Tax:              summary.Tax,
		Shipping:         summary.Shipping,
		Total:            summary.Total,
		CreatedAt:        s.clock.Now(),
	}
}

func (s *CheckoutService) publish(ctx context.Context, order domain.Order) {
	items := make([]events.OrderItem, 0, len(order.Lines))
	for _, line := range order.Lines {
		items = append(items, events.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.Name,
			Quantity:    line.Quantity,
			Price:       line.UnitPrice,
		})
	}
	event, err := events.New(events.TypeOrderPlaced, order.ID, s.instanceID, events.OrderPlaced{
		OrderID:       order.ID,
		CartID:        order.CartID,
		ServiceType:   order.ServiceType,
		PaymentMethod: order.PaymentMethod,
		Total:         order.Total,
		Items:         items,
	}, order.CreatedAt)
	if err == nil {
		err = s.publisher.Publish(ctx, event)
	}
	if err != nil {
		s.logger.Warn("Failed to publish order event", zap.String("order_id", order.ID), zap.Error(err))
	}
}
