package domain

import "time"

type Category struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name      string `json:"name" gorm:"type:varchar(128);not null"`
	Icon      string `json:"icon" gorm:"type:varchar(32)"`
	SortOrder int    `json:"sort_order" gorm:"not null;default:0;index"`
	Active    bool   `json:"active" gorm:"not null"`
}

func (Category) TableName() string { return "categories" }

type Banner struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Title      string    `json:"title" gorm:"type:varchar(255);not null"`
	Subtitle   string    `json:"subtitle" gorm:"type:text"`
	ImageURL   string    `json:"image_url" gorm:"type:text"`
	ButtonText string    `json:"button_text" gorm:"type:varchar(64)"`
	ButtonLink string    `json:"button_link" gorm:"type:text"`
	IsActive   bool      `json:"is_active" gorm:"not null"`
	SortOrder  int       `json:"sort_order" gorm:"not null;default:0;index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Banner) TableName() string { return "banners" }

type PaymentMethod struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name          string    `json:"name" gorm:"type:varchar(128);not null"`
	AccountName   string    `json:"account_name" gorm:"type:varchar(128)"`
	AccountNumber string    `json:"account_number" gorm:"type:varchar(64)"`
	QRCodeURL     string    `json:"qr_code_url" gorm:"type:text"`
	Active        bool      `json:"active" gorm:"not null"`
	SortOrder     int       `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (PaymentMethod) TableName() string { return "payment_methods" }

const (
	SettingText    = "text"
	SettingImage   = "image"
	SettingBoolean = "boolean"
	SettingNumber  = "number"
)

type SiteSetting struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Value       string    `json:"value" gorm:"type:text"`
	Type        string    `json:"type" gorm:"type:varchar(16);not null;default:'text'"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (SiteSetting) TableName() string { return "site_settings" }

// DeliveryArea is static reference data loaded from configuration.
type DeliveryArea struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Code           string   `json:"code" yaml:"code"`
	IsFreeDelivery bool     `json:"is_free_delivery" yaml:"is_free_delivery"`
	DeliveryFee    float64  `json:"delivery_fee,omitempty" yaml:"delivery_fee"`
	DeliveryTime   string   `json:"delivery_time" yaml:"delivery_time"`
	Coverage       []string `json:"coverage" yaml:"coverage"`
}

// CategoryInput creates or partially updates a category. Nil fields are left
// unchanged on update.
type CategoryInput struct {
	Name      *string `json:"name"`
	Icon      *string `json:"icon"`
	SortOrder *int    `json:"sort_order"`
	Active    *bool   `json:"active"`
}

type BannerInput struct {
	Title      *string `json:"title"`
	Subtitle   *string `json:"subtitle"`
	ImageURL   *string `json:"image_url"`
	ButtonText *string `json:"button_text"`
	ButtonLink *string `json:"button_link"`
	IsActive   *bool   `json:"is_active"`
	SortOrder  *int    `json:"sort_order"`
}

type PaymentMethodInput struct {
	Name          *string `json:"name"`
	AccountName   *string `json:"account_name"`
	AccountNumber *string `json:"account_number"`
	QRCodeURL     *string `json:"qr_code_url"`
	Active        *bool   `json:"active"`
	SortOrder     *int    `json:"sort_order"`
}

type SettingInput struct {
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description"`
}
