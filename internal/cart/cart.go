// Package cart aggregates selected products into priced lines.
package cart

import (
	"time"

	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/cloud-wave-best-zizon/battery-store/internal/pricing"
	"github.com/shopspring/decimal"
)

// Line is one product in the cart. UnitPrice is the effective price captured
// when the product was last added; it is not re-resolved afterwards.
type Line struct {
	domain.Product
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Cart keeps one line per product id in insertion order. It is not safe for
// concurrent use; CartStore implementations serialize access.
type Cart struct {
	ID        string    `json:"id"`
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updated_at"`
}

func New(id string) *Cart {
	return &Cart{ID: id, Lines: []Line{}}
}

// Add merges quantity into the product's line, pricing it at now.
func (c *Cart) Add(p domain.Product, quantity int, now time.Time) Line {
	if quantity <= 0 {
		quantity = 1
	}
	unit := pricing.Resolve(p, now).EffectivePrice

	if i := c.index(p.ID); i >= 0 {
		line := &c.Lines[i]
		line.Product = p
		line.Quantity += quantity
		line.UnitPrice = unit
		line.TotalPrice = unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
		c.UpdatedAt = now
		return *line
	}

	line := Line{
		Product:    p,
		Quantity:   quantity,
		UnitPrice:  unit,
		TotalPrice: unit.Mul(decimal.NewFromInt(int64(quantity))),
	}
	c.Lines = append(c.Lines, line)
	c.UpdatedAt = now
	return line
}

// UpdateQuantity sets the line quantity. Zero or less is Remove, so it
// succeeds whether or not the line exists. A positive quantity for a
// product not in the cart reports false.
func (c *Cart) UpdateQuantity(id string, quantity int) bool {
	if quantity <= 0 {
		c.Remove(id)
		return true
	}
	i := c.index(id)
	if i < 0 {
		return false
	}
	line := &c.Lines[i]
	line.Quantity = quantity
	line.TotalPrice = line.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	return true
}

// Remove drops the line for id. Missing ids are ignored.
func (c *Cart) Remove(id string) {
	if i := c.index(id); i >= 0 {
		c.removeAt(i)
	}
}

func (c *Cart) Clear() {
	c.Lines = []Line{}
}

func (c *Cart) Line(id string) (Line, bool) {
	if i := c.index(id); i >= 0 {
		return c.Lines[i], true
	}
	return Line{}, false
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) TotalItems() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice is the pre-tax subtotal.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.TotalPrice)
	}
	return total
}

func (c *Cart) index(id string) int {
	for i := range c.Lines {
		if c.Lines[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
}
