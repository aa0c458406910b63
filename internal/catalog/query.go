package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/shopspring/decimal"
)

// ParseCriteria reads listing criteria from query parameters.
func ParseCriteria(q url.Values) (Criteria, error) {
	c := Criteria{
		Query:        strings.TrimSpace(q.Get("q")),
		Category:     q.Get("category"),
		Brand:        q.Get("brand"),
		BatteryType:  q.Get("battery_type"),
		Voltage:      q.Get("voltage"),
		DeliveryArea: q.Get("delivery_area"),
		Sort:         SortKey(strings.TrimSpace(q.Get("sort"))),
	}
	c.Vehicle = Vehicle{
		Make:  q.Get("make"),
		Model: q.Get("model"),
		Year:  q.Get("year"),
		Type:  q.Get("vehicle_type"),
	}
	if !c.Sort.Valid() {
		return Criteria{}, domain.NewValidationError("sort", "unknown sort key")
	}

	var err error
	if c.MinPrice, err = parseDecimal(q, "min_price"); err != nil {
		return Criteria{}, err
	}
	if c.MaxPrice, err = parseDecimal(q, "max_price"); err != nil {
		return Criteria{}, err
	}
	if v := strings.TrimSpace(q.Get("warranty")); isSet(v) {
		if c.MinWarranty, err = strconv.Atoi(v); err != nil {
			return Criteria{}, domain.NewValidationError("warranty", "must be a number of months")
		}
	}
	if v := strings.TrimSpace(q.Get("rating")); isSet(v) {
		if c.MinRating, err = strconv.ParseFloat(v, 64); err != nil {
			return Criteria{}, domain.NewValidationError("rating", "must be a number")
		}
	}
	if c.InStock, err = parseBool(q, "in_stock"); err != nil {
		return Criteria{}, err
	}
	if c.OnSale, err = parseBool(q, "on_sale"); err != nil {
		return Criteria{}, err
	}
	return c, nil
}

func parseDecimal(q url.Values, key string) (*decimal.Decimal, error) {
	v := strings.TrimSpace(q.Get(key))
	if !isSet(v) {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, domain.NewValidationError(key, "must be a decimal number")
	}
	return &d, nil
}

func parseBool(q url.Values, key string) (bool, error) {
	v := strings.TrimSpace(q.Get(key))
	if !isSet(v) {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, domain.NewValidationError(key, "must be true or false")
	}
	return b, nil
}
