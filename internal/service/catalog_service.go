package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/cloud-wave-best-zizon/battery-store/internal/catalog"
	"github.com/cloud-wave-best-zizon/battery-store/internal/clock"
	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/cloud-wave-best-zizon/battery-store/internal/events"
	"github.com/cloud-wave-best-zizon/battery-store/internal/metrics"
	"github.com/cloud-wave-best-zizon/battery-store/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductRepository is the durable owner of the catalog.
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, productID string) error
}

// CatalogService holds the product snapshot served to shoppers. Every write
// goes to the repository first and is followed by a full reload; the snapshot
// is replaced whole, never patched.
type CatalogService struct {
	repo       ProductRepository
	publisher  events.Publisher
	clock      clock.Clock
	metrics    *metrics.Metrics
	instanceID string
	logger     *zap.Logger

	mu       sync.RWMutex
	products []domain.Product
}

func NewCatalogService(
	repo ProductRepository,
	publisher events.Publisher,
	clk clock.Clock,
	m *metrics.Metrics,
	instanceID string,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		repo:       repo,
		publisher:  publisher,
		clock:      clk,
		metrics:    m,
		instanceID: instanceID,
		logger:     logger.Named("catalog"),
		products:   []domain.Product{},
	}
}

// List returns the current snapshot. An empty catalog is an empty slice.
func (s *CatalogService) List() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Product{}, s.products...)
}

// Browse runs the filter and sort pipeline over the snapshot at the current time.
func (s *CatalogService) Browse(criteria catalog.Criteria) []catalog.Item {
	return catalog.Apply(s.List(), criteria, s.clock.Now())
}

func (s *CatalogService) Get(productID string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == productID {
			return p, nil
		}
	}
	return domain.Product{}, domain.NewNotFoundError("product", productID)
}

// Item is Get with the price resolved for now.
func (s *CatalogService) Item(productID string) (catalog.Item, error) {
	p, err := s.Get(productID)
	if err != nil {
		return catalog.Item{}, err
	}
	items := catalog.Apply([]domain.Product{p}, catalog.Criteria{}, s.clock.Now())
	return items[0], nil
}

// Refresh replaces the snapshot with the repository's full product list.
func (s *CatalogService) Refresh(ctx context.Context) error {
	products, err := s.repo.ListProducts(ctx)
	s.metrics.CatalogRefresh(err)
	if err != nil {
		s.logger.Error("Failed to load products", zap.Error(err))
		return domain.NewBackendError("refresh", err)
	}

	s.mu.Lock()
	s.products = products
	s.mu.Unlock()

	s.logger.Debug("Catalog refreshed", zap.Int("products", len(products)))
	return nil
}

func (s *CatalogService) Create(ctx context.Context, draft domain.ProductDraft) (domain.Product, error) {
	if err := validateDraft(draft); err != nil {
		return domain.Product{}, err
	}

	product := domain.NewProduct(uuid.NewString(), draft, s.clock.Now())
	if err := s.repo.CreateProduct(ctx, &product); err != nil {
		s.logger.Error("Failed to save product",
			zap.String("product_id", product.ID),
			zap.Error(err))
		return domain.Product{}, translateProductError("create", product.ID, err)
	}

	s.logger.Info("Product created successfully",
		zap.String("product_id", product.ID),
		zap.String("name", product.Name))

	if err := s.Refresh(ctx); err != nil {
		return domain.Product{}, err
	}
	s.publish(ctx, events.TypeProductCreated, product)
	return product, nil
}

// Update merges patch into the stored record and writes the whole record back.
func (s *CatalogService) Update(ctx context.Context, productID string, patch domain.ProductPatch) (domain.Product, error) {
	current, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, translateProductError("update", productID, err)
	}

	updated := *current
	patch.ApplyTo(&updated)
	if err := validateProduct(updated); err != nil {
		return domain.Product{}, err
	}
	updated.ID = productID
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateProduct(ctx, &updated); err != nil {
		s.logger.Error("Failed to update product",
			zap.String("product_id", productID),
			zap.Error(err))
		return domain.Product{}, translateProductError("update", productID, err)
	}

	s.logger.Info("Product updated successfully", zap.String("product_id", productID))

	if err := s.Refresh(ctx); err != nil {
		return domain.Product{}, err
	}
	s.publish(ctx, events.TypeProductUpdated, updated)
	return updated, nil
}

func (s *CatalogService) Delete(ctx context.Context, productID string) error {
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		if !errors.Is(err, repository.ErrProductNotFound) {
			s.logger.Error("Failed to delete product",
				zap.String("product_id", productID),
				zap.Error(err))
		}
		return translateProductError("delete", productID, err)
	}

	s.logger.Info("Product deleted successfully", zap.String("product_id", productID))

	if err := s.Refresh(ctx); err != nil {
		return err
	}
	s.publish(ctx, events.TypeProductDeleted, domain.Product{ID: productID})
	return nil
}

// publish reports catalog changes to other instances. Failures are logged only.
func (s *CatalogService) publish(ctx context.Context, eventType string, p domain.Product) {
	event, err := events.New(eventType, p.ID, s.instanceID, events.ProductChanged{
		ProductID: p.ID,
		Name:      p.Name,
		Category:  p.Category,
	}, s.clock.Now())
	if err == nil {
		err = s.publisher.Publish(ctx, event)
	}
	if err != nil {
		s.logger.Warn("Failed to publish catalog event",
			zap.String("type", eventType),
			zap.String("product_id", p.ID),
			zap.Error(err))
	}
}

func validateDraft(d domain.ProductDraft) error {
	if strings.TrimSpace(d.Name) == "" {
		return domain.NewValidationError("name", "is required")
	}
	if strings.TrimSpace(d.Description) == "" {
		return domain.NewValidationError("description", "is required")
	}
	if !d.BasePrice.IsPositive() {
		return domain.NewValidationError("base_price", "must be greater than zero")
	}
	return validateDiscount(domain.Discount{
		DiscountPrice:     d.DiscountPrice,
		DiscountStartDate: d.DiscountStartDate,
		DiscountEndDate:   d.DiscountEndDate,
	})
}

func validateProduct(p domain.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return domain.NewValidationError("name", "must not be empty")
	}
	if p.BasePrice.IsNegative() {
		return domain.NewValidationError("base_price", "must not be negative")
	}
	return validateDiscount(p.Discount)
}

func validateDiscount(d domain.Discount) error {
	if d.DiscountPrice != nil && d.DiscountPrice.IsNegative() {
		return domain.NewValidationError("discount_price", "must not be negative")
	}
	if d.DiscountStartDate != nil && d.DiscountEndDate != nil && d.DiscountEndDate.Before(*d.DiscountStartDate) {
		return domain.NewValidationError("discount_end_date", "must not be before the start date")
	}
	return nil
}

func translateProductError(op, productID string, err error) error {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		return domain.NewNotFoundError("product", productID)
	case errors.Is(err, repository.ErrProductExists):
		return domain.NewValidationError("id", "product already exists")
	}
	return domain.NewBackendError(op, err)
}
