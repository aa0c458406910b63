package service

import (
	"context"
	"strings"

	"github.com/cloud-wave-best-zizon/battery-store/internal/cart"
	"github.com/cloud-wave-best-zizon/battery-store/internal/clock"
	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/cloud-wave-best-zizon/battery-store/internal/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartStore persists carts by id. Load of an unknown id yields an empty cart
// and Update applies fn atomically with respect to other updates of that cart.
type CartStore interface {
	Load(ctx context.Context, id string) (*cart.Cart, error)
	Update(ctx context.Context, id string, fn func(*cart.Cart) error) (*cart.Cart, error)
	Delete(ctx context.Context, id string) error
}

// ProductLookup reads a product from the catalog snapshot.
type ProductLookup interface {
	Get(productID string) (domain.Product, error)
}

// CartView is a cart with its checkout breakdown.
type CartView struct {
	*cart.Cart
	Summary cart.Summary `json:"summary"`
}

type CartService struct {
	store   CartStore
	catalog ProductLookup
	taxRate decimal.Decimal
	clock   clock.Clock
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewCartService(store CartStore, catalog ProductLookup, taxRate decimal.Decimal, clk clock.Clock, m *metrics.Metrics, logger *zap.Logger) *CartService {
	return &CartService{
		store:   store,
		catalog: catalog,
		taxRate: taxRate,
		clock:   clk,
		metrics: m,
		logger:  logger.Named("cart"),
	}
}

func (s *CartService) Create(ctx context.Context) (CartView, error) {
	id := uuid.NewString()
	c, err := s.store.Update(ctx, id, func(c *cart.Cart) error {
		c.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		return CartView{}, domain.NewBackendError("create cart", err)
	}
	s.metrics.CartOperation("create")
	return s.view(c), nil
}

func (s *CartService) Get(ctx context.Context, cartID string) (CartView, error) {
	if err := requireCartID(cartID); err != nil {
		return CartView{}, err
	}
	c, err := s.store.Load(ctx, cartID)
	if err != nil {
		return CartView{}, domain.NewBackendError("load cart", err)
	}
	return s.view(c), nil
}

// AddItem prices the product at the current time and merges it into the cart.
// Products that are unavailable or out of stock are refused.
func (s *CartService) AddItem(ctx context.Context, cartID, productID string, quantity int) (CartView, error) {
	if err := requireCartID(cartID); err != nil {
		return CartView{}, err
	}
	product, err := s.catalog.Get(productID)
	if err != nil {
		return CartView{}, err
	}
	if !product.Available || !product.InStock {
		return CartView{}, domain.NewValidationError("product_id", "product is not available")
	}

	c, err := s.update(ctx, "add", cartID, func(c *cart.Cart) error {
		c.Add(product, quantity, s.clock.Now())
		return nil
	})
	if err != nil {
		return CartView{}, err
	}
	s.logger.Debug("Item added to cart",
		zap.String("cart_id", cartID),
		zap.String("product_id", productID),
		zap.Int("quantity", quantity))
	return s.view(c), nil
}

// UpdateItem sets a line quantity; zero or less removes the line.
func (s *CartService) UpdateItem(ctx context.Context, cartID, productID string, quantity int) (CartView, error) {
	if err := requireCartID(cartID); err != nil {
		return CartView{}, err
	}
	c, err := s.update(ctx, "update", cartID, func(c *cart.Cart) error {
		if !c.UpdateQuantity(productID, quantity) {
			return domain.NewNotFoundError("cart item", productID)
		}
		c.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		return CartView{}, err
	}
	return s.view(c), nil
}

// RemoveItem drops a line. Removing an absent product is not an error.
func (s *CartService) RemoveItem(ctx context.Context, cartID, productID string) (CartView, error) {
	if err := requireCartID(cartID); err != nil {
		return CartView{}, err
	}
	c, err := s.update(ctx, "remove", cartID, func(c *cart.Cart) error {
		c.Remove(productID)
		c.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		return CartView{}, err
	}
	return s.view(c), nil
}

func (s *CartService) Clear(ctx context.Context, cartID string) error {
	if err := requireCartID(cartID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, cartID); err != nil {
		return domain.NewBackendError("clear cart", err)
	}
	s.metrics.CartOperation("clear")
	return nil
}

func (s *CartService) Summarize(c *cart.Cart) cart.Summary {
	return cart.Summarize(c, s.taxRate)
}

func (s *CartService) update(ctx context.Context, op, cartID string, fn func(*cart.Cart) error) (*cart.Cart, error) {
	c, err := s.store.Update(ctx, cartID, fn)
	if err != nil {
		if domain.IsNotFound(err) || domain.IsValidation(err) {
			return nil, err
		}
		s.logger.Error("Failed to update cart",
			zap.String("cart_id", cartID),
			zap.String("op", op),
			zap.Error(err))
		return nil, domain.NewBackendError(op+" cart item", err)
	}
	s.metrics.CartOperation(op)
	return c, nil
}

func (s *CartService) view(c *cart.Cart) CartView {
	return CartView{Cart: c, Summary: s.Summarize(c)}
}

func requireCartID(id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewValidationError("cart_id", "is required")
	}
	return nil
}
