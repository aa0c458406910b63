package service

import (
	"context"
	"testing"
	"time"

	"github.com/cloud-wave-best-zizon/battery-store/internal/cart"
	"github.com/cloud-wave-best-zizon/battery-store/internal/clock"
	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/cloud-wave-best-zizon/battery-store/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type productLookup map[string]domain.Product

func (l productLookup) Get(id string) (domain.Product, error) {
	p, ok := l[id]
	if !ok {
		return domain.Product{}, domain.NewNotFoundError("product", id)
	}
	return p, nil
}

func newCartService(products ...domain.Product) (*CartService, *clock.Fake) {
	lookup := productLookup{}
	for _, p := range products {
		lookup[p.ID] = p
	}
	clk := clock.NewFake(testNow)
	return NewCartService(repository.NewMemoryCartStore(), lookup, cart.DefaultTaxRate, clk, nil, zap.NewNop()), clk
}

func TestCartService_AddAndSummarize(t *testing.T) {
	svc, _ := newCartService(battery("a", "Alpha", "100", testNow), battery("b", "Beta", "150", testNow))
	ctx := context.Background()

	created, err := svc.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Empty(t, created.Lines)

	_, err = svc.AddItem(ctx, created.ID, "a", 2)
	require.NoError(t, err)
	view, err := svc.AddItem(ctx, created.ID, "b", 1)
	require.NoError(t, err)

	assert.Equal(t, 3, view.Summary.Items)
	assert.Equal(t, "350.00", view.Summary.Subtotal.StringFixed(2))
	assert.Equal(t, "28.00", view.Summary.Tax.StringFixed(2))
	assert.Equal(t, "378.00", view.Summary.Total.StringFixed(2))
	assert.True(t, view.Summary.Shipping.IsZero())
}

func TestCartService_AddMergesAndKeepsOrder(t *testing.T) {
	svc, _ := newCartService(battery("a", "Alpha", "100", testNow), battery("b", "Beta", "150", testNow))
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "cart-1", "a", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "cart-1", "b", 1)
	require.NoError(t, err)
	view, err := svc.AddItem(ctx, "cart-1", "a", 2)
	require.NoError(t, err)

	require.Len(t, view.Lines, 2)
	assert.Equal(t, "a", view.Lines[0].ID)
	assert.Equal(t, 3, view.Lines[0].Quantity)
	assert.Equal(t, "300", view.Lines[0].TotalPrice.String())
}

func TestCartService_AddCapturesDiscountedPrice(t *testing.T) {
	p := battery("a", "Alpha", "100", testNow)
	p.DiscountPrice = ptr(price("80"))
	p.DiscountActive = true
	p.DiscountEndDate = ptr(testNow.Add(time.Hour))
	svc, clk := newCartService(p)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "cart-1", "a", 1)
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)
	view, err := svc.Get(ctx, "cart-1")
	require.NoError(t, err)
	assert.Equal(t, "80", view.Lines[0].UnitPrice.String())
}

func TestCartService_AddRejectsUnavailable(t *testing.T) {
	soldOut := battery("a", "Alpha", "100", testNow)
	soldOut.InStock = false
	hidden := battery("b", "Beta", "100", testNow)
	hidden.Available = false
	svc, _ := newCartService(soldOut, hidden)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "cart-1", "a", 1)
	assert.True(t, domain.IsValidation(err))
	_, err = svc.AddItem(ctx, "cart-1", "b", 1)
	assert.True(t, domain.IsValidation(err))
	_, err = svc.AddItem(ctx, "cart-1", "missing", 1)
	assert.True(t, domain.IsNotFound(err))

	view, err := svc.Get(ctx, "cart-1")
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}

func TestCartService_UpdateItem(t *testing.T) {
	svc, _ := newCartService(battery("a", "Alpha", "100", testNow))
	ctx := context.Background()
	_, err := svc.AddItem(ctx, "cart-1", "a", 1)
	require.NoError(t, err)

	view, err := svc.UpdateItem(ctx, "cart-1", "a", 4)
	require.NoError(t, err)
	assert.Equal(t, "400", view.Lines[0].TotalPrice.String())

	_, err = svc.UpdateItem(ctx, "cart-1", "missing", 1)
	assert.True(t, domain.IsNotFound(err))

	view, err = svc.UpdateItem(ctx, "cart-1", "missing", 0)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 1)

	view, err = svc.UpdateItem(ctx, "cart-1", "a", 0)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}

func TestCartService_RemoveAndClear(t *testing.T) {
	svc, _ := newCartService(battery("a", "Alpha", "100", testNow), battery("b", "Beta", "150", testNow))
	ctx := context.Background()
	_, err := svc.AddItem(ctx, "cart-1", "a", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "cart-1", "b", 1)
	require.NoError(t, err)

	view, err := svc.RemoveItem(ctx, "cart-1", "a")
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "b", view.Lines[0].ID)

	_, err = svc.RemoveItem(ctx, "cart-1", "not-there")
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "cart-1"))
	view, err = svc.Get(ctx, "cart-1")
	require.NoError(t, err)
	assert.True(t, view.IsEmpty())
}

func TestCartService_RequiresCartID(t *testing.T) {
	svc, _ := newCartService(battery("a", "Alpha", "100", testNow))

	_, err := svc.AddItem(context.Background(), " ", "a", 1)
	assert.True(t, domain.IsValidation(err))
}
