package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SQLProductRepository keeps the catalog in a relational table.
type SQLProductRepository struct {
	db *gorm.DB
}

func NewSQLProductRepository(db *gorm.DB) *SQLProductRepository {
	return &SQLProductRepository{db: db}
}

type productRow struct {
	ID                string `gorm:"primaryKey;type:varchar(64)"`
	Name              string `gorm:"type:varchar(255);not null"`
	Description       string `gorm:"type:text"`
	Category          string `gorm:"type:varchar(64);index"`
	Brand             string `gorm:"type:varchar(128)"`
	Image             string `gorm:"type:text"`
	Popular           bool   `gorm:"not null;default:false"`
	Available         bool   `gorm:"not null"`
	Voltage           int    `gorm:"not null"`
	Capacity          float64
	CCA               int
	Dimensions        datatypes.JSONType[domain.Dimensions]
	Weight            float64
	TerminalType      string `gorm:"type:varchar(16)"`
	BatteryType       string `gorm:"type:varchar(16)"`
	Compatibilities   datatypes.JSONSlice[domain.Compatibility]
	Specifications    datatypes.JSONSlice[domain.Specification]
	BasePrice         decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	DiscountPrice     decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	DiscountActive    bool                `gorm:"not null;default:false"`
	DiscountStartDate *time.Time
	DiscountEndDate   *time.Time
	Warranty          int
	FreeShipping      bool
	InStock           bool
	StockQuantity     int
	Rating            float64
	DeliveryAreas     datatypes.JSONSlice[string]
	CreatedAt         time.Time `gorm:"index;autoCreateTime:false"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime:false"`
}

func (productRow) TableName() string { return "products" }

func (r *SQLProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	if err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toDomain())
	}
	return products, nil
}

func (r *SQLProductRepository) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	var row productRow
	if err := r.db.WithContext(ctx).Where("id = ?", productID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	product := row.toDomain()
	return &product, nil
}

func (r *SQLProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&productRow{}).Where("id = ?", product.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check product: %w", err)
	}
	if count > 0 {
		return ErrProductExists
	}
	row := rowFromDomain(*product)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (r *SQLProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	row := rowFromDomain(*product)
	res := r.db.WithContext(ctx).Model(&productRow{}).Where("id = ?", product.ID).Select("*").Omit("created_at").Updates(&row)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return r.missing(ctx, product.ID)
	}
	return nil
}

// missing tells an absent row from an update that changed nothing, which
// MySQL reports as zero rows affected.
func (r *SQLProductRepository) missing(ctx context.Context, productID string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&productRow{}).Where("id = ?", productID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check product: %w", err)
	}
	if count == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *SQLProductRepository) DeleteProduct(ctx context.Context, productID string) error {
	res := r.db.WithContext(ctx).Where("id = ?", productID).Delete(&productRow{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func rowFromDomain(p domain.Product) productRow {
	row := productRow{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		Category:          p.Category,
		Brand:             p.Brand,
		Image:             p.Image,
		Popular:           p.Popular,
		Available:         p.Available,
		Voltage:           p.Voltage,
		Capacity:          p.Capacity,
		CCA:               p.CCA,
		Dimensions:        datatypes.NewJSONType(p.Dimensions),
		Weight:            p.Weight,
		TerminalType:      p.TerminalType,
		BatteryType:       p.BatteryType,
		Compatibilities:   datatypes.JSONSlice[domain.Compatibility](p.Compatibilities),
		Specifications:    datatypes.JSONSlice[domain.Specification](p.Specifications),
		BasePrice:         p.BasePrice,
		DiscountActive:    p.DiscountActive,
		DiscountStartDate: p.DiscountStartDate,
		DiscountEndDate:   p.DiscountEndDate,
		Warranty:          p.Warranty,
		FreeShipping:      p.FreeShipping,
		InStock:           p.InStock,
		StockQuantity:     p.StockQuantity,
		Rating:            p.Rating,
		DeliveryAreas:     datatypes.JSONSlice[string](p.DeliveryAreas),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if p.DiscountPrice != nil {
		row.DiscountPrice = decimal.NewNullDecimal(*p.DiscountPrice)
	}
	return row
}

func (row productRow) toDomain() domain.Product {
	p := domain.Product{
		ID:              row.ID,
		Name:            row.Name,
		Description:     row.Description,
		Category:        row.Category,
		Brand:           row.Brand,
		Image:           row.Image,
		Popular:         row.Popular,
		Available:       row.Available,
		Voltage:         row.Voltage,
		Capacity:        row.Capacity,
		CCA:             row.CCA,
		Dimensions:      row.Dimensions.Data(),
		Weight:          row.Weight,
		TerminalType:    row.TerminalType,
		BatteryType:     row.BatteryType,
		Compatibilities: []domain.Compatibility(row.Compatibilities),
		Specifications:  []domain.Specification(row.Specifications),
		BasePrice:       row.BasePrice,
		Discount: domain.Discount{
			DiscountActive:    row.DiscountActive,
			DiscountStartDate: row.DiscountStartDate,
			DiscountEndDate:   row.DiscountEndDate,
		},
		Warranty:      row.Warranty,
		FreeShipping:  row.FreeShipping,
		InStock:       row.InStock,
		StockQuantity: row.StockQuantity,
		Rating:        row.Rating,
		DeliveryAreas: []string(row.DeliveryAreas),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if row.DiscountPrice.Valid {
		price := row.DiscountPrice.Decimal
		p.DiscountPrice = &price
	}
	if p.Compatibilities == nil {
		p.Compatibilities = []domain.Compatibility{}
	}
	return p
}
