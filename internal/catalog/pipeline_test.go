package catalog

import (
	"net/url"
	"testing"
	"time"

	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func item(id, name string, price int64) domain.Product {
	return domain.Product{
		ID:          id,
		Name:        name,
		Category:    "car",
		BatteryType: domain.BatteryLeadAcid,
		Voltage:     12,
		BasePrice:   decimal.NewFromInt(price),
		Warranty:    12,
		InStock:     true,
	}
}

func ids(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestApplyWithoutCriteriaKeepsOrder(t *testing.T) {
	products := []domain.Product{item("a", "Zeta", 10), item("b", "Alpha", 5)}

	got := Apply(products, Criteria{}, now)

	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestApplyEmptyInput(t *testing.T) {
	got := Apply(nil, Criteria{Sort: SortName}, now)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestApplyPriceRangeIsInclusiveAndOrderPreserving(t *testing.T) {
	products := []domain.Product{
		item("p50", "Fifty", 50),
		item("p150", "OneFifty", 150),
		item("p250", "TwoFifty", 250),
		item("p100", "Hundred", 100),
		item("p200", "TwoHundred", 200),
	}

	got := Apply(products, Criteria{MinPrice: decPtr(100), MaxPrice: decPtr(200)}, now)

	assert.Equal(t, []string{"p150", "p100", "p200"}, ids(got))
}

func TestApplyPriceRangeUsesEffectivePrice(t *testing.T) {
	sale := item("sale", "Sale", 300)
	sale.DiscountPrice = decPtr(150)
	sale.DiscountActive = true

	got := Apply([]domain.Product{sale}, Criteria{MaxPrice: decPtr(200)}, now)

	require.Len(t, got, 1)
	assert.True(t, got[0].IsOnDiscount)
	assert.True(t, decimal.NewFromInt(150).Equal(got[0].EffectivePrice))
}

func TestApplyNameSortIsStable(t *testing.T) {
	products := []domain.Product{item("b1", "B", 1), item("a", "A", 1), item("b2", "B", 1)}

	got := Apply(products, Criteria{Sort: SortName}, now)

	assert.Equal(t, []string{"a", "b1", "b2"}, ids(got))
}

func TestApplyPriceSorts(t *testing.T) {
	products := []domain.Product{item("m", "M", 200), item("l", "L", 100), item("h", "H", 300), item("l2", "L2", 100)}

	assert.Equal(t, []string{"l", "l2", "m", "h"}, ids(Apply(products, Criteria{Sort: SortPriceLow}, now)))
	assert.Equal(t, []string{"h", "m", "l", "l2"}, ids(Apply(products, Criteria{Sort: SortPriceHigh}, now)))
}

func TestApplyPopularFirst(t *testing.T) {
	a, b, c := item("a", "A", 1), item("b", "B", 1), item("c", "C", 1)
	b.Popular = true
	c.Popular = true

	got := Apply([]domain.Product{a, b, c}, Criteria{Sort: SortPopular}, now)

	assert.Equal(t, []string{"b", "c", "a"}, ids(got))
}

func TestApplyFilters(t *testing.T) {
	agm := item("agm", "Motolite Gold", 6000)
	agm.BatteryType = domain.BatteryAGM
	agm.Brand = "Motolite"
	agm.Warranty = 24
	agm.Rating = 4.8
	agm.DeliveryAreas = []string{"mnl"}

	moto := item("moto", "Small cell", 1500)
	moto.Category = "motorcycle"
	moto.Voltage = 6
	moto.Description = "Compact AGM-free battery"
	moto.InStock = false

	plain := item("plain", "Outlast", 4000)
	plain.Brand = "Outlast"

	products := []domain.Product{agm, moto, plain}

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"all sentinel", Criteria{Category: All, Brand: All, BatteryType: All, Voltage: All}, []string{"agm", "moto", "plain"}},
		{"query matches name case-insensitively", Criteria{Query: "GOLD"}, []string{"agm"}},
		{"query matches description", Criteria{Query: "compact"}, []string{"moto"}},
		{"query matches brand", Criteria{Query: "outlast"}, []string{"plain"}},
		{"category", Criteria{Category: "motorcycle"}, []string{"moto"}},
		{"brand", Criteria{Brand: "Motolite"}, []string{"agm"}},
		{"battery type", Criteria{BatteryType: domain.BatteryAGM}, []string{"agm"}},
		{"voltage", Criteria{Voltage: "6"}, []string{"moto"}},
		{"unparseable voltage matches nothing", Criteria{Voltage: "twelve"}, []string{}},
		{"minimum warranty", Criteria{MinWarranty: 18}, []string{"agm"}},
		{"minimum rating", Criteria{MinRating: 4.5}, []string{"agm"}},
		{"delivery area", Criteria{DeliveryArea: "mnl"}, []string{"agm"}},
		{"delivery area ignores case", Criteria{DeliveryArea: " MNL "}, []string{"agm"}},
		{"padded category", Criteria{Category: " motorcycle "}, []string{"moto"}},
		{"padded sentinel", Criteria{Brand: " all ", Voltage: " 6 "}, []string{"moto"}},
		{"in stock", Criteria{InStock: true}, []string{"agm", "plain"}},
		{"on sale with none discounted", Criteria{OnSale: true}, []string{}},
		{"predicates combine", Criteria{Category: "car", Brand: "Outlast"}, []string{"plain"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(products, tt.criteria, now)))
		})
	}
}

func TestApplyVehicleFit(t *testing.T) {
	vios := item("vios", "NS40", 4500)
	vios.Compatibilities = []domain.Compatibility{
		{Make: "Toyota", Model: "Vios", Year: "2020"},
		{Make: "Honda", Model: "City", Year: "2019"},
	}
	hilux := item("hilux", "NS70", 7800)
	hilux.Compatibilities = []domain.Compatibility{{Make: "Toyota", Model: "Hilux", Year: "2020"}}
	generic := item("generic", "Universal", 3000)
	generic.Available = true
	retired := item("retired", "Old stock", 2000)

	products := []domain.Product{vios, hilux, generic, retired}

	tests := []struct {
		name    string
		vehicle Vehicle
		want    []string
	}{
		{"make and model ignore case", Vehicle{Make: "toyota", Model: "VIOS", Year: "2020"}, []string{"vios"}},
		{"year must match exactly", Vehicle{Make: "Toyota", Model: "Vios", Year: "2021"}, []string{}},
		{"any listed vehicle fits", Vehicle{Make: "Honda", Model: "City", Year: "2019"}, []string{"vios"}},
		{"make alone", Vehicle{Make: "Toyota"}, []string{"vios", "hilux"}},
		{"vehicle type admits unlisted available products", Vehicle{Make: "Ford", Model: "Ranger", Year: "2020", Type: "car"}, []string{"generic"}},
		{"sentinel values disable the filter", Vehicle{Make: All, Model: All, Year: All}, []string{"vios", "hilux", "generic", "retired"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(products, Criteria{Vehicle: tt.vehicle}, now)))
		})
	}
}

func TestParseCriteriaVehicle(t *testing.T) {
	c, err := ParseCriteria(url.Values{
		"make":         {"Toyota"},
		"model":        {"Vios"},
		"year":         {"2020"},
		"vehicle_type": {"car"},
	})

	require.NoError(t, err)
	assert.Equal(t, Vehicle{Make: "Toyota", Model: "Vios", Year: "2020", Type: "car"}, c.Vehicle)
}

func TestParseCriteriaSkipsSentinel(t *testing.T) {
	q := url.Values{}
	for _, key := range []string{"min_price", "max_price", "warranty", "rating", "in_stock", "on_sale"} {
		q.Set(key, All)
	}

	c, err := ParseCriteria(q)

	require.NoError(t, err)
	assert.Nil(t, c.MinPrice)
	assert.Nil(t, c.MaxPrice)
	assert.Zero(t, c.MinWarranty)
	assert.Zero(t, c.MinRating)
	assert.False(t, c.InStock)
	assert.False(t, c.OnSale)
}

func TestParseCriteria(t *testing.T) {
	q := url.Values{}
	q.Set("q", "  gold ")
	q.Set("category", "car")
	q.Set("min_price", "100")
	q.Set("max_price", "200.50")
	q.Set("warranty", "24")
	q.Set("rating", "4")
	q.Set("in_stock", "true")
	q.Set("sort", "price-low")

	c, err := ParseCriteria(q)

	require.NoError(t, err)
	assert.Equal(t, "gold", c.Query)
	assert.Equal(t, "car", c.Category)
	require.NotNil(t, c.MinPrice)
	assert.True(t, decimal.NewFromInt(100).Equal(*c.MinPrice))
	assert.True(t, decimal.RequireFromString("200.50").Equal(*c.MaxPrice))
	assert.Equal(t, 24, c.MinWarranty)
	assert.Equal(t, 4.0, c.MinRating)
	assert.True(t, c.InStock)
	assert.False(t, c.OnSale)
	assert.Equal(t, SortPriceLow, c.Sort)
}

func TestParseCriteriaRejectsBadInput(t *testing.T) {
	for key, value := range map[string]string{
		"min_price": "cheap",
		"warranty":  "long",
		"rating":    "great",
		"in_stock":  "maybe",
		"sort":      "random",
	} {
		t.Run(key, func(t *testing.T) {
			_, err := ParseCriteria(url.Values{key: {value}})
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
		})
	}
}
