package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TypeProductCreated   = "product.created"
	TypeProductUpdated   = "product.updated"
	TypeProductDeleted   = "product.deleted"
	TypeOrderPlaced      = "order.placed"
	TypeBookingSubmitted = "booking.submitted"
)

// Event is the envelope written to the storefront topic. Source names the
// instance that produced it.
type Event struct {
	EventID     string          `json:"event_id"`
	Type        string          `json:"type"`
	AggregateID string          `json:"aggregate_id"`
	Source      string          `json:"source"`
	Timestamp   time.Time       `json:"timestamp"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

func (e Event) IsProductEvent() bool {
	return strings.HasPrefix(e.Type, "product.")
}

type ProductChanged struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name,omitempty"`
	Category  string `json:"category,omitempty"`
}

type OrderPlaced struct {
	OrderID       string          `json:"order_id"`
	CartID        string          `json:"cart_id"`
	ServiceType   string          `json:"service_type"`
	PaymentMethod string          `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	Items         []OrderItem     `json:"items"`
}

type OrderItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type BookingSubmitted struct {
	BookingID   string `json:"booking_id"`
	ServiceType string `json:"service_type"`
	Emergency   bool   `json:"emergency"`
	Area        string `json:"area,omitempty"`
}

func New(eventType, aggregateID, source string, payload any, now time.Time) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Event{
		EventID:     uuid.NewString(),
		Type:        eventType,
		AggregateID: aggregateID,
		Source:      source,
		Timestamp:   now,
		Payload:     raw,
	}, nil
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops events when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
