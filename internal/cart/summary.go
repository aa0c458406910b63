package cart

import "github.com/shopspring/decimal"

// DefaultTaxRate is the flat storefront tax.
var DefaultTaxRate = decimal.RequireFromString("0.08")

// Summary is the checkout breakdown. Shipping is always free.
type Summary struct {
	Items    int             `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

func Summarize(c *Cart, taxRate decimal.Decimal) Summary {
	subtotal := c.TotalPrice()
	return Summary{
		Items:    c.TotalItems(),
		Subtotal: subtotal.Round(2),
		Tax:      subtotal.Mul(taxRate).Round(2),
		Shipping: decimal.Zero,
		Total:    subtotal.Mul(decimal.NewFromInt(1).Add(taxRate)).Round(2),
	}
}
