package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TerminalTopPost  = "top-post"
	TerminalSidePost = "side-post"
	TerminalBoth     = "both"

	BatteryLeadAcid = "lead-acid"
	BatteryAGM      = "agm"
	BatteryGel      = "gel"
	BatteryLithium  = "lithium"
)

type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit"`
}

type Compatibility struct {
	Make   string `json:"make"`
	Model  string `json:"model"`
	Year   string `json:"year"`
	Engine string `json:"engine,omitempty"`
}

type Specification struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

// Discount is the operator-controlled sale record embedded in a Product.
// Nil dates leave the window open on that side.
type Discount struct {
	DiscountPrice     *decimal.Decimal `json:"discount_price,omitempty"`
	DiscountActive    bool             `json:"discount_active"`
	DiscountStartDate *time.Time       `json:"discount_start_date,omitempty"`
	DiscountEndDate   *time.Time       `json:"discount_end_date,omitempty"`
}

type Product struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Brand           string          `json:"brand,omitempty"`
	Image           string          `json:"image,omitempty"`
	Popular         bool            `json:"popular"`
	Available       bool            `json:"available"`
	Voltage         int             `json:"voltage"`
	Capacity        float64         `json:"capacity"`
	CCA             int             `json:"cca"`
	Dimensions      Dimensions      `json:"dimensions"`
	Weight          float64         `json:"weight"`
	TerminalType    string          `json:"terminal_type"`
	BatteryType     string          `json:"battery_type"`
	Compatibilities []Compatibility `json:"compatibilities"`
	Specifications  []Specification `json:"specifications,omitempty"`
	BasePrice       decimal.Decimal `json:"base_price"`
	Discount
	Warranty      int       `json:"warranty"`
	FreeShipping  bool      `json:"free_shipping"`
	InStock       bool      `json:"in_stock"`
	StockQuantity int       `json:"stock_quantity"`
	Rating        float64   `json:"rating"`
	DeliveryAreas []string  `json:"delivery_areas,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProductDraft is a product without its server-assigned fields.
type ProductDraft struct {
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	Category          string           `json:"category"`
	Brand             string           `json:"brand"`
	Image             string           `json:"image"`
	Popular           bool             `json:"popular"`
	Available         *bool            `json:"available"`
	Voltage           int              `json:"voltage"`
	Capacity          float64          `json:"capacity"`
	CCA               int              `json:"cca"`
	Dimensions        Dimensions       `json:"dimensions"`
	Weight            float64          `json:"weight"`
	TerminalType      string           `json:"terminal_type"`
	BatteryType       string           `json:"battery_type"`
	Compatibilities   []Compatibility  `json:"compatibilities"`
	Specifications    []Specification  `json:"specifications"`
	BasePrice         decimal.Decimal  `json:"base_price"`
	DiscountPrice     *decimal.Decimal `json:"discount_price"`
	DiscountActive    bool             `json:"discount_active"`
	DiscountStartDate *time.Time       `json:"discount_start_date"`
	DiscountEndDate   *time.Time       `json:"discount_end_date"`
	Warranty          int              `json:"warranty"`
	FreeShipping      bool             `json:"free_shipping"`
	InStock           *bool            `json:"in_stock"`
	StockQuantity     int              `json:"stock_quantity"`
	Rating            float64          `json:"rating"`
	DeliveryAreas     []string         `json:"delivery_areas"`
}

// NewProduct fills the storefront defaults for fields the draft leaves empty.
func NewProduct(id string, d ProductDraft, now time.Time) Product {
	p := Product{
		ID:              id,
		Name:            d.Name,
		Description:     d.Description,
		Category:        d.Category,
		Brand:           d.Brand,
		Image:           d.Image,
		Popular:         d.Popular,
		Available:       true,
		Voltage:         d.Voltage,
		Capacity:        d.Capacity,
		CCA:             d.CCA,
		Dimensions:      d.Dimensions,
		Weight:          d.Weight,
		TerminalType:    d.TerminalType,
		BatteryType:     d.BatteryType,
		Compatibilities: d.Compatibilities,
		Specifications:  d.Specifications,
		BasePrice:       d.BasePrice,
		Discount: Discount{
			DiscountPrice:     d.DiscountPrice,
			DiscountActive:    d.DiscountActive,
			DiscountStartDate: d.DiscountStartDate,
			DiscountEndDate:   d.DiscountEndDate,
		},
		Warranty:      d.Warranty,
		FreeShipping:  d.FreeShipping,
		InStock:       true,
		StockQuantity: d.StockQuantity,
		Rating:        d.Rating,
		DeliveryAreas: d.DeliveryAreas,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if d.Available != nil {
		p.Available = *d.Available
	}
	if d.InStock != nil {
		p.InStock = *d.InStock
	}
	if p.Voltage == 0 {
		p.Voltage = 12
	}
	if p.Warranty == 0 {
		p.Warranty = 12
	}
	if p.TerminalType == "" {
		p.TerminalType = TerminalTopPost
	}
	if p.BatteryType == "" {
		p.BatteryType = BatteryLeadAcid
	}
	if p.Dimensions.Unit == "" {
		p.Dimensions.Unit = "inches"
	}
	if p.Compatibilities == nil {
		p.Compatibilities = []Compatibility{}
	}
	return p
}

// Fields a patch can reset to empty through ProductPatch.Unset.
const (
	FieldBrand             = "brand"
	FieldImage             = "image"
	FieldDiscountPrice     = "discount_price"
	FieldDiscountStartDate = "discount_start_date"
	FieldDiscountEndDate   = "discount_end_date"
)

// ProductPatch carries a partial update. Nil fields are left untouched.
type ProductPatch struct {
	Name              *string          `json:"name"`
	Description       *string          `json:"description"`
	Category          *string          `json:"category"`
	Brand             *string          `json:"brand"`
	Image             *string          `json:"image"`
	Popular           *bool            `json:"popular"`
	Available         *bool            `json:"available"`
	Voltage           *int             `json:"voltage"`
	Capacity          *float64         `json:"capacity"`
	CCA               *int             `json:"cca"`
	Dimensions        *Dimensions      `json:"dimensions"`
	Weight            *float64         `json:"weight"`
	TerminalType      *string          `json:"terminal_type"`
	BatteryType       *string          `json:"battery_type"`
	Compatibilities   *[]Compatibility `json:"compatibilities"`
	Specifications    *[]Specification `json:"specifications"`
	BasePrice         *decimal.Decimal `json:"base_price"`
	DiscountPrice     *decimal.Decimal `json:"discount_price"`
	DiscountActive    *bool            `json:"discount_active"`
	DiscountStartDate *time.Time       `json:"discount_start_date"`
	DiscountEndDate   *time.Time       `json:"discount_end_date"`
	Warranty          *int             `json:"warranty"`
	FreeShipping      *bool            `json:"free_shipping"`
	InStock           *bool            `json:"in_stock"`
	StockQuantity     *int             `json:"stock_quantity"`
	Rating            *float64         `json:"rating"`
	DeliveryAreas     *[]string        `json:"delivery_areas"`
	Unset             []string         `json:"unset"`
}

// ApplyTo merges the patch into a full product record.
func (pp ProductPatch) ApplyTo(p *Product) {
	setString(&p.Name, pp.Name)
	setString(&p.Description, pp.Description)
	setString(&p.Category, pp.Category)
	setString(&p.Brand, pp.Brand)
	setString(&p.Image, pp.Image)
	setString(&p.TerminalType, pp.TerminalType)
	setString(&p.BatteryType, pp.BatteryType)
	setBool(&p.Popular, pp.Popular)
	setBool(&p.Available, pp.Available)
	setBool(&p.DiscountActive, pp.DiscountActive)
	setBool(&p.FreeShipping, pp.FreeShipping)
	setBool(&p.InStock, pp.InStock)
	setInt(&p.Voltage, pp.Voltage)
	setInt(&p.CCA, pp.CCA)
	setInt(&p.Warranty, pp.Warranty)
	setInt(&p.StockQuantity, pp.StockQuantity)
	if pp.Capacity != nil {
		p.Capacity = *pp.Capacity
	}
	if pp.Weight != nil {
		p.Weight = *pp.Weight
	}
	if pp.Rating != nil {
		p.Rating = *pp.Rating
	}
	if pp.Dimensions != nil {
		p.Dimensions = *pp.Dimensions
	}
	if pp.Compatibilities != nil {
		p.Compatibilities = *pp.Compatibilities
	}
	if pp.Specifications != nil {
		p.Specifications = *pp.Specifications
	}
	if pp.DeliveryAreas != nil {
		p.DeliveryAreas = *pp.DeliveryAreas
	}
	if pp.BasePrice != nil {
		p.BasePrice = *pp.BasePrice
	}
	if pp.DiscountPrice != nil {
		price := *pp.DiscountPrice
		p.DiscountPrice = &price
	}
	if pp.DiscountStartDate != nil {
		start := *pp.DiscountStartDate
		p.DiscountStartDate = &start
	}
	if pp.DiscountEndDate != nil {
		end := *pp.DiscountEndDate
		p.DiscountEndDate = &end
	}

	for _, field := range pp.Unset {
		switch field {
		case FieldBrand:
			p.Brand = ""
		case FieldImage:
			p.Image = ""
		case FieldDiscountPrice:
			p.DiscountPrice = nil
		case FieldDiscountStartDate:
			p.DiscountStartDate = nil
		case FieldDiscountEndDate:
			p.DiscountEndDate = nil
		}
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
