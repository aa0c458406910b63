package domain

import "time"

const (
	ServiceRoadsideRescue     = "roadside-rescue"
	ServiceBatteryHealthCheck = "battery-health-check"

	BookingStatusPending = "pending"
)

type Vehicle struct {
	Make        string `json:"make" gorm:"type:varchar(64)"`
	Model       string `json:"model" gorm:"type:varchar(64)"`
	Year        string `json:"year" gorm:"type:varchar(16)"`
	PlateNumber string `json:"plate_number,omitempty" gorm:"type:varchar(32)"`
	Engine      string `json:"engine,omitempty" gorm:"type:varchar(64)"`
}

type Location struct {
	Address string `json:"address" gorm:"type:text"`
	Area    string `json:"area" gorm:"type:varchar(64)"`
}

// ServiceBooking is a roadside-assistance lead captured from the storefront.
type ServiceBooking struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	ServiceType   string    `json:"service_type" gorm:"type:varchar(32);not null;index"`
	CustomerName  string    `json:"customer_name" gorm:"type:varchar(128);not null"`
	ContactNumber string    `json:"contact_number" gorm:"type:varchar(32);not null"`
	Email         string    `json:"email,omitempty" gorm:"type:varchar(128)"`
	Vehicle       Vehicle   `json:"vehicle" gorm:"embedded;embeddedPrefix:vehicle_"`
	Location      Location  `json:"location" gorm:"embedded;embeddedPrefix:location_"`
	PreferredTime string    `json:"preferred_time,omitempty" gorm:"type:varchar(64)"`
	Emergency     bool      `json:"emergency" gorm:"not null;default:false"`
	Notes         string    `json:"notes,omitempty" gorm:"type:text"`
	Status        string    `json:"status" gorm:"type:varchar(16);not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
}

func (ServiceBooking) TableName() string { return "service_bookings" }

type BookingRequest struct {
	ServiceType   string   `json:"service_type"`
	CustomerName  string   `json:"customer_name"`
	ContactNumber string   `json:"contact_number"`
	Email         string   `json:"email"`
	Vehicle       Vehicle  `json:"vehicle"`
	Location      Location `json:"location"`
	PreferredTime string   `json:"preferred_time"`
	Emergency     bool     `json:"emergency"`
	Notes         string   `json:"notes"`
}
