package repository

import (
	"context"
	"testing"
	"time"

	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSQLProductRoundTrip(t *testing.T) {
	repo := NewSQLProductRepository(newTestDB(t))
	ctx := context.Background()

	p := battery("b1", created)
	sale := decimal.RequireFromString("4999.5")
	p.DiscountPrice = &sale
	p.DiscountActive = true
	p.Compatibilities = []domain.Compatibility{{Make: "Honda", Model: "City", Year: "2020", Engine: "1.5L"}}
	p.DeliveryAreas = []string{"cdo"}
	require.NoError(t, repo.CreateProduct(ctx, p))

	got, err := repo.GetProduct(ctx, "b1")

	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.True(t, p.BasePrice.Equal(got.BasePrice))
	require.NotNil(t, got.DiscountPrice)
	assert.True(t, sale.Equal(*got.DiscountPrice))
	assert.Equal(t, p.Compatibilities, got.Compatibilities)
	assert.Equal(t, p.Dimensions, got.Dimensions)
	assert.Equal(t, []string{"cdo"}, got.DeliveryAreas)
	assert.Nil(t, got.DiscountStartDate)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestSQLProductKeepsFalseFlags(t *testing.T) {
	repo := NewSQLProductRepository(newTestDB(t))
	ctx := context.Background()
	p := battery("b1", created)
	p.Available = false
	p.InStock = false
	require.NoError(t, repo.CreateProduct(ctx, p))

	got, err := repo.GetProduct(ctx, "b1")

	require.NoError(t, err)
	assert.False(t, got.Available)
	assert.False(t, got.InStock)
}

func TestSQLProductCreateDuplicate(t *testing.T) {
	repo := NewSQLProductRepository(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.CreateProduct(ctx, battery("b1", created)))

	assert.ErrorIs(t, repo.CreateProduct(ctx, battery("b1", created)), ErrProductExists)
}

func TestSQLProductUpdateClearsDiscount(t *testing.T) {
	repo := NewSQLProductRepository(newTestDB(t))
	ctx := context.Background()
	p := battery("b1", created)
	sale := decimal.NewFromInt(10)
	p.DiscountPrice = &sale
	require.NoError(t, repo.CreateProduct(ctx, p))

	p.DiscountPrice = nil
	p.Popular = true
	p.UpdatedAt = created.Add(time.Hour)
	require.NoError(t, repo.UpdateProduct(ctx, p))

	got, err := repo.GetProduct(ctx, "b1")
	require.NoError(t, err)
	assert.Nil(t, got.DiscountPrice)
	assert.True(t, got.Popular)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestSQLProductUpdateWithNoRowsChanged(t *testing.T) {
	db := newTestDB(t)
	// MySQL counts changed rows, not matched ones.
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("test:changed_rows", func(tx *gorm.DB) {
		tx.RowsAffected = 0
	}))
	repo := NewSQLProductRepository(db)
	ctx := context.Background()
	p := battery("b1", created)
	require.NoError(t, repo.CreateProduct(ctx, p))

	assert.NoError(t, repo.UpdateProduct(ctx, p))
	assert.ErrorIs(t, repo.UpdateProduct(ctx, battery("nope", created)), ErrProductNotFound)
}

func TestSQLProductMissing(t *testing.T) {
	repo := NewSQLProductRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.GetProduct(ctx, "nope")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, repo.UpdateProduct(ctx, battery("nope", created)), ErrProductNotFound)
	assert.ErrorIs(t, repo.DeleteProduct(ctx, "nope"), ErrProductNotFound)
}

func TestSQLProductListOrdersByCreation(t *testing.T) {
	repo := NewSQLProductRepository(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.CreateProduct(ctx, battery("late", created.Add(2*time.Hour))))
	require.NoError(t, repo.CreateProduct(ctx, battery("early", created)))
	require.NoError(t, repo.CreateProduct(ctx, battery("mid", created.Add(time.Hour))))
	require.NoError(t, repo.DeleteProduct(ctx, "mid"))

	products, err := repo.ListProducts(ctx)

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "early", products[0].ID)
	assert.Equal(t, "late", products[1].ID)
}
