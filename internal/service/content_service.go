package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/cloud-wave-best-zizon/battery-store/internal/clock"
	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/cloud-wave-best-zizon/battery-store/internal/repository"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// ContentService manages the storefront's categories, banners, payment
// methods, site settings and delivery areas.
type ContentService struct {
	categories RecordStore[domain.Category]
	banners    RecordStore[domain.Banner]
	payments   RecordStore[domain.PaymentMethod]
	settings   RecordStore[domain.SiteSetting]
	areas      []domain.DeliveryArea
	clock      clock.Clock
	logger     *zap.Logger
}

func NewContentService(
	categories RecordStore[domain.Category],
	banners RecordStore[domain.Banner],
	payments RecordStore[domain.PaymentMethod],
	settings RecordStore[domain.SiteSetting],
	areas []domain.DeliveryArea,
	clk clock.Clock,
	logger *zap.Logger,
) *ContentService {
	return &ContentService{
		categories: categories,
		banners:    banners,
		payments:   payments,
		settings:   settings,
		areas:      areas,
		clock:      clk,
		logger:     logger.Named("content"),
	}
}

func (s *ContentService) Categories(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	var where []any
	if activeOnly {
		where = []any{"active = ?", true}
	}
	list, err := s.categories.List(ctx, "sort_order ASC, name ASC", where...)
	if err != nil {
		return nil, domain.NewBackendError("list categories", err)
	}
	return list, nil
}

// CreateCategory derives the category id from its name.
func (s *ContentService) CreateCategory(ctx context.Context, in domain.CategoryInput) (domain.Category, error) {
	name := trimmed(in.Name)
	if name == "" {
		return domain.Category{}, domain.NewValidationError("name", "is required")
	}
	id := slug.Make(name)
	if id == "" {
		return domain.Category{}, domain.NewValidationError("name", "must contain letters or digits")
	}
	if _, err := s.categories.Get(ctx, id); err == nil {
		return domain.Category{}, domain.NewValidationError("name", "category already exists")
	} else if !errors.Is(err, repository.ErrRecordNotFound) {
		return domain.Category{}, domain.NewBackendError("create category", err)
	}

	category := domain.Category{ID: id, Name: name, Active: true}
	applyCategory(&category, in)
	if err := s.categories.Create(ctx, &category); err != nil {
		return domain.Category{}, domain.NewBackendError("create category", err)
	}
	s.logger.Info("Category created", zap.String("category_id", id))
	return category, nil
}

func (s *ContentService) UpdateCategory(ctx context.Context, id string, in domain.CategoryInput) (domain.Category, error) {
	if in.Name != nil && trimmed(in.Name) == "" {
		return domain.Category{}, domain.NewValidationError("name", "must not be empty")
	}
	current, err := s.categories.Get(ctx, id)
	if err != nil {
		return domain.Category{}, translateRecordError("update category", "category", id, err)
	}
	applyCategory(current, in)
	if err := s.categories.Replace(ctx, id, current); err != nil {
		return domain.Category{}, translateRecordError("update category", "category", id, err)
	}
	return *current, nil
}

func (s *ContentService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return translateRecordError("delete category", "category", id, err)
	}
	s.logger.Info("Category deleted", zap.String("category_id", id))
	return nil
}

func applyCategory(c *domain.Category, in domain.CategoryInput) {
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Icon != nil {
		c.Icon = *in.Icon
	}
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	}
	if in.Active != nil {
		c.Active = *in.Active
	}
}

func (s *ContentService) Banners(ctx context.Context, activeOnly bool) ([]domain.Banner, error) {
	var where []any
	if activeOnly {
		where = []any{"is_active = ?", true}
	}
	list, err := s.banners.List(ctx, "sort_order ASC, created_at ASC", where...)
	if err != nil {
		return nil, domain.NewBackendError("list banners", err)
	}
	return list, nil
}

// CreateBanner appends the banner after the existing ones unless a sort
// order is given.
func (s *ContentService) CreateBanner(ctx context.Context, in domain.BannerInput) (domain.Banner, error) {
	if trimmed(in.Title) == "" {
		return domain.Banner{}, domain.NewValidationError("title", "is required")
	}
	existing, err := s.banners.List(ctx, "")
	if err != nil {
		return domain.Banner{}, domain.NewBackendError("create banner", err)
	}

	now := s.clock.Now()
	banner := domain.Banner{
		ID:         uuid.NewString(),
		IsActive:   true,
		SortOrder:  len(existing),
		ButtonText: "Learn More",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	applyBanner(&banner, in)
	if err := s.banners.Create(ctx, &banner); err != nil {
		return domain.Banner{}, domain.NewBackendError("create banner", err)
	}
	s.logger.Info("Banner created", zap.String("banner_id", banner.ID))
	return banner, nil
}

func (s *ContentService) UpdateBanner(ctx context.Context, id string, in domain.BannerInput) (domain.Banner, error) {
	if in.Title != nil && trimmed(in.Title) == "" {
		return domain.Banner{}, domain.NewValidationError("title", "must not be empty")
	}
	current, err := s.banners.Get(ctx, id)
	if err != nil {
		return domain.Banner{}, translateRecordError("update banner", "banner", id, err)
	}
	applyBanner(current, in)
	current.UpdatedAt = s.clock.Now()
	if err := s.banners.Replace(ctx, id, current); err != nil {
		return domain.Banner{}, translateRecordError("update banner", "banner", id, err)
	}
	return *current, nil
}

func (s *ContentService) DeleteBanner(ctx context.Context, id string) error {
	if err := s.banners.Delete(ctx, id); err != nil {
		return translateRecordError("delete banner", "banner", id, err)
	}
	return nil
}

// ReorderBanners gives each id its position as sort order, one write at a
// time, then returns the reloaded list. A failure stops at that id; earlier
// writes are kept.
func (s *ContentService) ReorderBanners(ctx context.Context, ids []string) ([]domain.Banner, error) {
	if len(ids) == 0 {
		return nil, domain.NewValidationError("ids", "is required")
	}
	now := s.clock.Now()
	for i, id := range ids {
		err := s.banners.UpdateColumns(ctx, id, map[string]any{"sort_order": i, "updated_at": now})
		if err != nil {
			return nil, translateRecordError("reorder banners", "banner", id, err)
		}
	}
	return s.Banners(ctx, false)
}

func applyBanner(b *domain.Banner, in domain.BannerInput) {
	if in.Title != nil {
		b.Title = strings.TrimSpace(*in.Title)
	}
	if in.Subtitle != nil {
		b.Subtitle = *in.Subtitle
	}
	if in.ImageURL != nil {
		b.ImageURL = *in.ImageURL
	}
	if in.ButtonText != nil {
		b.ButtonText = *in.ButtonText
	}
	if in.ButtonLink != nil {
		b.ButtonLink = *in.ButtonLink
	}
	if in.IsActive != nil {
		b.IsActive = *in.IsActive
	}
	if in.SortOrder != nil {
		b.SortOrder = *in.SortOrder
	}
}

func (s *ContentService) PaymentMethods(ctx context.Context, activeOnly bool) ([]domain.PaymentMethod, error) {
	var where []any
	if activeOnly {
		where = []any{"active = ?", true}
	}
	list, err := s.payments.List(ctx, "sort_order ASC, name ASC", where...)
	if err != nil {
		return nil, domain.NewBackendError("list payment methods", err)
	}
	return list, nil
}

func (s *ContentService) CreatePaymentMethod(ctx context.Context, in domain.PaymentMethodInput) (domain.PaymentMethod, error) {
	if trimmed(in.Name) == "" {
		return domain.PaymentMethod{}, domain.NewValidationError("name", "is required")
	}
	now := s.clock.Now()
	method := domain.PaymentMethod{
		ID:        uuid.NewString(),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyPaymentMethod(&method, in)
	if err := s.payments.Create(ctx, &method); err != nil {
		return domain.PaymentMethod{}, domain.NewBackendError("create payment method", err)
	}
	s.logger.Info("Payment method created", zap.String("payment_method_id", method.ID))
	return method, nil
}

func (s *ContentService) UpdatePaymentMethod(ctx context.Context, id string, in domain.PaymentMethodInput) (domain.PaymentMethod, error) {
	if in.Name != nil && trimmed(in.Name) == "" {
		return domain.PaymentMethod{}, domain.NewValidationError("name", "must not be empty")
	}
	current, err := s.payments.Get(ctx, id)
	if err != nil {
		return domain.PaymentMethod{}, translateRecordError("update payment method", "payment method", id, err)
	}
	applyPaymentMethod(current, in)
	current.UpdatedAt = s.clock.Now()
	if err := s.payments.Replace(ctx, id, current); err != nil {
		return domain.PaymentMethod{}, translateRecordError("update payment method", "payment method", id, err)
	}
	return *current, nil
}

func (s *ContentService) DeletePaymentMethod(ctx context.Context, id string) error {
	if err := s.payments.Delete(ctx, id); err != nil {
		return translateRecordError("delete payment method", "payment method", id, err)
	}
	return nil
}

// ActivePaymentMethod looks up an enabled payment method by id.
func (s *ContentService) ActivePaymentMethod(ctx context.Context, id string) (domain.PaymentMethod, error) {
	method, err := s.payments.Get(ctx, id)
	if err != nil {
		return domain.PaymentMethod{}, translateRecordError("get payment method", "payment method", id, err)
	}
	if !method.Active {
		return domain.PaymentMethod{}, domain.NewNotFoundError("payment method", id)
	}
	return *method, nil
}

func applyPaymentMethod(m *domain.PaymentMethod, in domain.PaymentMethodInput) {
	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.AccountName != nil {
		m.AccountName = *in.AccountName
	}
	if in.AccountNumber != nil {
		m.AccountNumber = *in.AccountNumber
	}
	if in.QRCodeURL != nil {
		m.QRCodeURL = *in.QRCodeURL
	}
	if in.Active != nil {
		m.Active = *in.Active
	}
	if in.SortOrder != nil {
		m.SortOrder = *in.SortOrder
	}
}

func (s *ContentService) Settings(ctx context.Context) ([]domain.SiteSetting, error) {
	list, err := s.settings.List(ctx, "id ASC")
	if err != nil {
		return nil, domain.NewBackendError("list settings", err)
	}
	return list, nil
}

// SettingValues flattens the settings into key/value pairs for the storefront.
func (s *ContentService) SettingValues(ctx context.Context) (map[string]string, error) {
	list, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(list))
	for _, setting := range list {
		values[setting.ID] = setting.Value
	}
	return values, nil
}

// PutSetting creates or overwrites one setting. Boolean and number values
// must parse as such.
func (s *ContentService) PutSetting(ctx context.Context, id string, in domain.SettingInput) (domain.SiteSetting, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.SiteSetting{}, domain.NewValidationError("id", "is required")
	}

	current, err := s.settings.Get(ctx, id)
	exists := err == nil
	if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		return domain.SiteSetting{}, domain.NewBackendError("put setting", err)
	}

	setting := domain.SiteSetting{ID: id, Type: domain.SettingText}
	if exists {
		setting = *current
	}
	setting.Value = in.Value
	if in.Type != "" {
		setting.Type = in.Type
	}
	if in.Description != "" {
		setting.Description = in.Description
	}
	if err := validateSetting(setting); err != nil {
		return domain.SiteSetting{}, err
	}
	setting.UpdatedAt = s.clock.Now()

	if exists {
		err = s.settings.Replace(ctx, id, &setting)
	} else {
		err = s.settings.Create(ctx, &setting)
	}
	if err != nil {
		return domain.SiteSetting{}, domain.NewBackendError("put setting", err)
	}
	return setting, nil
}

func validateSetting(setting domain.SiteSetting) error {
	switch setting.Type {
	case domain.SettingText, domain.SettingImage:
		return nil
	case domain.SettingBoolean:
		if _, err := strconv.ParseBool(setting.Value); err != nil {
			return domain.NewValidationError("value", "must be true or false")
		}
	case domain.SettingNumber:
		if _, err := strconv.ParseFloat(setting.Value, 64); err != nil {
			return domain.NewValidationError("value", "must be a number")
		}
	default:
		return domain.NewValidationError("type", "must be one of text, image, boolean, number")
	}
	return nil
}

func (s *ContentService) DeliveryAreas() []domain.DeliveryArea {
	return append([]domain.DeliveryArea{}, s.areas...)
}

// DeliveryArea finds an area by code, case-insensitively.
func (s *ContentService) DeliveryArea(code string) (domain.DeliveryArea, bool) {
	for _, area := range s.areas {
		if strings.EqualFold(area.Code, code) {
			return area, true
		}
	}
	return domain.DeliveryArea{}, false
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
