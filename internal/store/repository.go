package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"barberq/backend/internal/domain"
)

type AvailabilityRepository interface {
	// UpsertAvailability replaces any window stored for (w.ProviderID, w.Weekday).
	UpsertAvailability(ctx context.Context, w domain.AvailabilityWindow) error
	ListAvailability(ctx context.Context, providerID string) ([]domain.AvailabilityWindow, error)
}

type ServiceCatalog interface {
	CreateService(ctx context.Context, svc domain.Service) (domain.Service, error)
	// GetService returns ErrNotFound when serviceID does not belong to providerID.
	GetService(ctx context.Context, providerID string, serviceID uuid.UUID) (domain.Service, error)
	ListServices(ctx context.Context, providerID string) ([]domain.Service, error)
}

type BookingRepository interface {
	// CreateConfirmedBooking inserts b with status confirmed. The insert is conditional:
	// if another booking live at now already holds (ProviderID, Date, StartTime) it fails
	// with ErrConflict and nothing is written.
	CreateConfirmedBooking(ctx context.Context, b domain.Booking, now time.Time) (domain.Booking, error)
	HasConfirmedBooking(ctx context.Context, providerID, date, startTime string, now time.Time) (bool, error)
	// ListConfirmedBookings returns bookings live at now with fromDate <= date <= toDate,
	// ordered by date and start time. An empty toDate leaves the range open.
	ListConfirmedBookings(ctx context.Context, providerID, fromDate, toDate string, now time.Time) ([]domain.Booking, error)
	// ExpireBookings marks every confirmed booking with ExpiresAt <= now as expired.
	ExpireBookings(ctx context.Context, now time.Time) (int64, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}
