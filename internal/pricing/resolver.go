// Package pricing derives the price a shopper pays from a product's base price
// and its discount window.
package pricing

import (
	"time"

	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/shopspring/decimal"
)

type Result struct {
	EffectivePrice decimal.Decimal `json:"effective_price"`
	IsOnDiscount   bool            `json:"is_on_discount"`
}

// Resolve reports whether p's discount is honored at now and the resulting unit
// price. A discount only counts when it is active, inside its window and has a
// price. Inputs are not validated.
func Resolve(p domain.Product, now time.Time) Result {
	if !InWindow(p.Discount, now) || p.DiscountPrice == nil {
		return Result{EffectivePrice: p.BasePrice}
	}
	return Result{EffectivePrice: *p.DiscountPrice, IsOnDiscount: true}
}

// InWindow checks the active flag and the optional [start, end] bounds, both inclusive.
func InWindow(d domain.Discount, now time.Time) bool {
	if !d.DiscountActive {
		return false
	}
	if d.DiscountStartDate != nil && now.Before(*d.DiscountStartDate) {
		return false
	}
	if d.DiscountEndDate != nil && now.After(*d.DiscountEndDate) {
		return false
	}
	return true
}
