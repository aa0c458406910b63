// Package catalog filters and orders product listings for the storefront.
package catalog

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/cloud-wave-best-zizon/battery-store/internal/pricing"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// All disables a string criterion, as does the empty string.
const All = "all"

type SortKey string

const (
	SortNone      SortKey = ""
	SortName      SortKey = "name"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortPopular   SortKey = "popular"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortNone, SortName, SortPriceLow, SortPriceHigh, SortPopular:
		return true
	}
	return false
}

// Criteria are independent predicates ANDed together. Zero values and All
// leave a dimension unfiltered.
type Criteria struct {
	Query        string
	Category     string
	Brand        string
	BatteryType  string
	Voltage      string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	MinWarranty  int
	MinRating    float64
	DeliveryArea string
	InStock      bool
	OnSale       bool
	Vehicle      Vehicle
	Sort         SortKey
}

// Vehicle narrows a listing to batteries listed as fitting a vehicle. Make
// and model compare case-insensitively, year exactly. A product with no
// compatibility entries fits only when Type names its category and it is
// available.
type Vehicle struct {
	Make  string
	Model string
	Year  string
	Type  string
}

func (v Vehicle) isSet() bool {
	return isSet(v.Make) || isSet(v.Model) || isSet(v.Year)
}

func (v Vehicle) fits(p domain.Product) bool {
	if len(p.Compatibilities) == 0 {
		return isSet(v.Type) && p.Category == strings.TrimSpace(v.Type) && p.Available
	}
	return slices.ContainsFunc(p.Compatibilities, func(c domain.Compatibility) bool {
		return matchFold(v.Make, c.Make) && matchFold(v.Model, c.Model) &&
			(!isSet(v.Year) || strings.TrimSpace(v.Year) == c.Year)
	})
}

func matchFold(want, got string) bool {
	return !isSet(want) || strings.EqualFold(strings.TrimSpace(want), got)
}

// Item is a product with its price resolved for the listing time.
type Item struct {
	domain.Product
	pricing.Result
}

// Apply filters products by c, then stable-sorts the survivors by c.Sort.
// Relative input order is kept for ties and when no sort key is set.
func Apply(products []domain.Product, c Criteria, now time.Time) []Item {
	m := newMatcher(c)
	items := make([]Item, 0, len(products))
	for _, p := range products {
		price := pricing.Resolve(p, now)
		if m.match(p, price) {
			items = append(items, Item{Product: p, Result: price})
		}
	}
	sortItems(items, c.Sort)
	return items
}

type matcher struct {
	c          Criteria
	query      string
	voltage    int
	voltageBad bool
}

func newMatcher(c Criteria) matcher {
	c.Category = normalize(c.Category)
	c.Brand = normalize(c.Brand)
	c.BatteryType = normalize(c.BatteryType)
	c.Voltage = normalize(c.Voltage)
	c.DeliveryArea = normalize(c.DeliveryArea)
	m := matcher{c: c, query: strings.ToLower(strings.TrimSpace(c.Query))}
	if c.Voltage != "" {
		v, err := strconv.Atoi(c.Voltage)
		m.voltage = v
		m.voltageBad = err != nil
	}
	return m
}

func (m matcher) match(p domain.Product, price pricing.Result) bool {
	c := m.c
	if m.query != "" && !containsFold(m.query, p.Name, p.Description, p.Brand, p.Category) {
		return false
	}
	if c.Category != "" && p.Category != c.Category {
		return false
	}
	if c.Brand != "" && p.Brand != c.Brand {
		return false
	}
	if c.BatteryType != "" && p.BatteryType != c.BatteryType {
		return false
	}
	if c.Voltage != "" && (m.voltageBad || p.Voltage != m.voltage) {
		return false
	}
	if c.MinPrice != nil && price.EffectivePrice.LessThan(*c.MinPrice) {
		return false
	}
	if c.MaxPrice != nil && price.EffectivePrice.GreaterThan(*c.MaxPrice) {
		return false
	}
	if c.MinWarranty > 0 && p.Warranty < c.MinWarranty {
		return false
	}
	if c.MinRating > 0 && p.Rating < c.MinRating {
		return false
	}
	if c.DeliveryArea != "" && !slices.ContainsFunc(p.DeliveryAreas, func(code string) bool {
		return strings.EqualFold(strings.TrimSpace(code), c.DeliveryArea)
	}) {
		return false
	}
	if c.Vehicle.isSet() && !c.Vehicle.fits(p) {
		return false
	}
	if c.InStock && !p.InStock {
		return false
	}
	if c.OnSale && !price.IsOnDiscount {
		return false
	}
	return true
}

func isSet(v string) bool {
	return normalize(v) != ""
}

// normalize trims v and maps the All sentinel to the empty string.
func normalize(v string) string {
	v = strings.TrimSpace(v)
	if v == All {
		return ""
	}
	return v
}

func containsFold(query string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

func sortItems(items []Item, key SortKey) {
	switch key {
	case SortName:
		col := collate.New(language.English)
		slices.SortStableFunc(items, func(a, b Item) int {
			return col.CompareString(a.Name, b.Name)
		})
	case SortPriceLow:
		slices.SortStableFunc(items, func(a, b Item) int {
			return a.EffectivePrice.Cmp(b.EffectivePrice)
		})
	case SortPriceHigh:
		slices.SortStableFunc(items, func(a, b Item) int {
			return b.EffectivePrice.Cmp(a.EffectivePrice)
		})
	case SortPopular:
		slices.SortStableFunc(items, func(a, b Item) int {
			return popularRank(a) - popularRank(b)
		})
	}
}

func popularRank(it Item) int {
	if it.Popular {
		return 0
	}
	return 1
}
