package cart

import (
	"testing"
	"time"

	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func product(id string, price int64) domain.Product {
	return domain.Product{ID: id, Name: "Battery " + id, BasePrice: decimal.NewFromInt(price)}
}

func TestAddMergesRepeatedProduct(t *testing.T) {
	c := New("c1")

	c.Add(product("x", 100), 1, now)
	c.Add(product("x", 100), 1, now)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.Equal(t, 2, c.TotalItems())
	assert.True(t, decimal.NewFromInt(200).Equal(c.Lines[0].TotalPrice))
}

func TestAddDefaultsQuantityToOne(t *testing.T) {
	c := New("c1")

	line := c.Add(product("x", 100), 0, now)

	assert.Equal(t, 1, line.Quantity)
}

func TestAddUsesDiscountedPrice(t *testing.T) {
	c := New("c1")
	p := product("x", 100)
	sale := decimal.NewFromInt(80)
	p.DiscountPrice = &sale
	p.DiscountActive = true

	line := c.Add(p, 3, now)

	assert.True(t, decimal.NewFromInt(80).Equal(line.UnitPrice))
	assert.True(t, decimal.NewFromInt(240).Equal(line.TotalPrice))
}

func TestPriceIsSnapshottedAtAdd(t *testing.T) {
	c := New("c1")
	p := product("x", 100)
	c.Add(p, 1, now)

	// an operator starts a sale after the item is already in the cart
	sale := decimal.NewFromInt(50)
	p.DiscountPrice = &sale
	p.DiscountActive = true

	require.True(t, c.UpdateQuantity("x", 2))
	line, ok := c.Line("x")
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(200).Equal(line.TotalPrice))
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	c := New("c1")
	c.Add(product("x", 100), 2, now)
	c.Add(product("y", 50), 1, now)

	assert.True(t, c.UpdateQuantity("x", 0))

	_, ok := c.Line("x")
	assert.False(t, ok)
	assert.Equal(t, 1, c.TotalItems())
}

func TestUpdateQuantityUnknownProduct(t *testing.T) {
	c := New("c1")

	assert.False(t, c.UpdateQuantity("missing", 3))
	assert.True(t, c.IsEmpty())
}

func TestUpdateQuantityZeroForAbsentProductIsRemove(t *testing.T) {
	c := New("c1")
	c.Add(product("x", 100), 1, now)

	assert.True(t, c.UpdateQuantity("missing", 0))
	assert.True(t, c.UpdateQuantity("missing", -2))
	assert.Equal(t, 1, c.TotalItems())
}

func TestRemoveIsNoOpWhenAbsent(t *testing.T) {
	c := New("c1")
	c.Add(product("x", 100), 1, now)

	c.Remove("missing")
	c.Remove("x")
	c.Remove("x")

	assert.True(t, c.IsEmpty())
}

func TestLinesKeepInsertionOrder(t *testing.T) {
	c := New("c1")
	c.Add(product("b", 1), 1, now)
	c.Add(product("a", 1), 1, now)
	c.Add(product("b", 1), 1, now)

	require.Len(t, c.Lines, 2)
	assert.Equal(t, "b", c.Lines[0].ID)
	assert.Equal(t, "a", c.Lines[1].ID)
}

func TestClear(t *testing.T) {
	c := New("c1")
	c.Add(product("x", 100), 4, now)

	c.Clear()

	assert.Equal(t, 0, c.TotalItems())
	assert.True(t, c.TotalPrice().IsZero())
}

func TestTotalPriceIsSumOfLines(t *testing.T) {
	c := New("c1")
	assert.True(t, c.TotalPrice().IsZero())

	c.Add(product("x", 100), 2, now)
	c.Add(product("y", 50), 3, now)

	sum := decimal.Zero
	for _, line := range c.Lines {
		sum = sum.Add(line.TotalPrice)
	}
	assert.True(t, sum.Equal(c.TotalPrice()))
	assert.True(t, decimal.NewFromInt(350).Equal(c.TotalPrice()))
}

func TestSummarize(t *testing.T) {
	c := New("c1")
	c.Add(product("x", 100), 2, now)
	c.Add(product("y", 50), 3, now)

	s := Summarize(c, DefaultTaxRate)

	assert.Equal(t, 5, s.Items)
	assert.Equal(t, "350.00", s.Subtotal.StringFixed(2))
	assert.Equal(t, "28.00", s.Tax.StringFixed(2))
	assert.True(t, s.Shipping.IsZero())
	assert.Equal(t, "378.00", s.Total.StringFixed(2))
}

func TestSummarizeRoundsToCents(t *testing.T) {
	c := New("c1")
	c.Add(domain.Product{ID: "x", BasePrice: decimal.RequireFromString("19.99")}, 1, now)

	s := Summarize(c, DefaultTaxRate)

	assert.Equal(t, "1.60", s.Tax.StringFixed(2))
	assert.Equal(t, "21.59", s.Total.StringFixed(2))
}
