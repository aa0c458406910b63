package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	FulfillmentPickup       = "pickup"
	FulfillmentDelivery     = "delivery"
	FulfillmentInstallation = "installation"
)

type OrderLine struct {
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Order records a submitted checkout form. Payment happens outside the system;
// only the customer's reference number is kept.
type Order struct {
	ID               string                         `json:"id" gorm:"primaryKey;type:varchar(64)"`
	CartID           string                         `json:"cart_id" gorm:"type:varchar(64);index"`
	Lines            datatypes.JSONSlice[OrderLine] `json:"lines"`
	CustomerName     string                         `json:"customer_name" gorm:"type:varchar(128);not null"`
	ContactNumber    string                         `json:"contact_number" gorm:"type:varchar(32);not null"`
	Email            string                         `json:"email,omitempty" gorm:"type:varchar(128)"`
	ServiceType      string                         `json:"service_type" gorm:"type:varchar(16);not null"`
	Address          string                         `json:"address,omitempty" gorm:"type:text"`
	DeliveryArea     string                         `json:"delivery_area,omitempty" gorm:"type:varchar(16)"`
	DeliveryDate     string                         `json:"delivery_date,omitempty" gorm:"type:varchar(32)"`
	DeliveryTime     string                         `json:"delivery_time,omitempty" gorm:"type:varchar(32)"`
	InstallationDate string                         `json:"installation_date,omitempty" gorm:"type:varchar(32)"`
	Vehicle          Vehicle                        `json:"vehicle" gorm:"embedded;embeddedPrefix:vehicle_"`
	PaymentMethod    string                         `json:"payment_method" gorm:"type:varchar(64);not null"`
	ReferenceNumber  string                         `json:"reference_number,omitempty" gorm:"type:varchar(64)"`
	Notes            string                         `json:"notes,omitempty" gorm:"type:text"`
	Subtotal         decimal.Decimal                `json:"subtotal" gorm:"type:decimal(12,2)"`
	Tax              decimal.Decimal                `json:"tax" gorm:"type:decimal(12,2)"`
	Shipping         decimal.Decimal                `json:"shipping" gorm:"type:decimal(12,2)"`
	Total            decimal.Decimal                `json:"total" gorm:"type:decimal(12,2)"`
	CreatedAt        time.Time                      `json:"created_at" gorm:"index"`
}

func (Order) TableName() string { return "orders" }

type CheckoutRequest struct {
	CustomerName     string  `json:"customer_name"`
	ContactNumber    string  `json:"contact_number"`
	Email            string  `json:"email"`
	ServiceType      string  `json:"service_type"`
	Address          string  `json:"address"`
	DeliveryArea     string  `json:"delivery_area"`
	DeliveryDate     string  `json:"delivery_date"`
	DeliveryTime     string  `json:"delivery_time"`
	InstallationDate string  `json:"installation_date"`
	Vehicle          Vehicle `json:"vehicle"`
	PaymentMethod    string  `json:"payment_method"`
	ReferenceNumber  string  `json:"reference_number"`
	Notes            string  `json:"notes"`
}
