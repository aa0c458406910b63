package service

import (
	"context"
	"strings"

	"github.com/cloud-wave-best-zizon/battery-store/internal/clock"
	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/cloud-wave-best-zizon/battery-store/internal/events"
	"github.com/cloud-wave-best-zizon/battery-store/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingService records roadside-rescue and health-check requests for
// follow-up by staff.
type BookingService struct {
	store      RecordStore[domain.ServiceBooking]
	publisher  events.Publisher
	clock      clock.Clock
	metrics    *metrics.Metrics
	instanceID string
	logger     *zap.Logger
}

func NewBookingService(store RecordStore[domain.ServiceBooking], publisher events.Publisher, clk clock.Clock, m *metrics.Metrics, instanceID string, logger *zap.Logger) *BookingService {
	return &BookingService{
		store:      store,
		publisher:  publisher,
		clock:      clk,
		metrics:    m,
		instanceID: instanceID,
		logger:     logger.Named("booking"),
	}
}

func (s *BookingService) Submit(ctx context.Context, req domain.BookingRequest) (domain.ServiceBooking, error) {
	if err := validateBooking(req); err != nil {
		return domain.ServiceBooking{}, err
	}

	booking := domain.ServiceBooking{
		ID:            uuid.NewString(),
		ServiceType:   req.ServiceType,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		ContactNumber: strings.TrimSpace(req.ContactNumber),
		Email:         strings.TrimSpace(req.Email),
		Vehicle:       req.Vehicle,
		Location:      req.Location,
		PreferredTime: req.PreferredTime,
		Emergency:     req.Emergency,
		Notes:         req.Notes,
		Status:        domain.BookingStatusPending,
		CreatedAt:     s.clock.Now(),
	}
	if err := s.store.Create(ctx, &booking); err != nil {
		s.logger.Error("Failed to save booking", zap.Error(err))
		return domain.ServiceBooking{}, domain.NewBackendError("submit booking", err)
	}

	s.metrics.Booking(booking.ServiceType)
	s.logger.Info("Booking submitted",
		zap.String("booking_id", booking.ID),
		zap.String("service_type", booking.ServiceType),
		zap.Bool("emergency", booking.Emergency))

	event, err := events.New(events.TypeBookingSubmitted, booking.ID, s.instanceID, events.BookingSubmitted{
		BookingID:   booking.ID,
		ServiceType: booking.ServiceType,
		Emergency:   booking.Emergency,
		Area:        booking.Location.Area,
	}, booking.CreatedAt)
	if err == nil {
		err = s.publisher.Publish(ctx, event)
	}
	if err != nil {
		s.logger.Warn("Failed to publish booking event", zap.String("booking_id", booking.ID), zap.Error(err))
	}
	return booking, nil
}

// List returns bookings newest first.
func (s *BookingService) List(ctx context.Context) ([]domain.ServiceBooking, error) {
	list, err := s.store.List(ctx, "created_at DESC")
	if err != nil {
		return nil, domain.NewBackendError("list bookings", err)
	}
	return list, nil
}

func validateBooking(req domain.BookingRequest) error {
	switch req.ServiceType {
	case domain.ServiceRoadsideRescue, domain.ServiceBatteryHealthCheck:
	default:
		return domain.NewValidationError("service_type", "must be roadside-rescue or battery-health-check")
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return domain.NewValidationError("customer_name", "is required")
	}
	if strings.TrimSpace(req.ContactNumber) == "" {
		return domain.NewValidationError("contact_number", "is required")
	}
	if strings.TrimSpace(req.Location.Address) == "" {
		return domain.NewValidationError("location.address", "is required")
	}
	return nil
}
