package scheduling

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"barberq/backend/internal/domain"
	"barberq/backend/internal/store"
)

type CreateBookingInput struct {
	ProviderID string
	ClientID   string
	ServiceID  string
	Date       string
	StartTime  string
	EndTime    string
}

// CreateBooking reserves (ProviderID, Date, StartTime) for ClientID. A slot already held by a
// live booking yields store.ErrConflict, both from the pre-check and from the store's
// conditional insert when two requests race; an unknown service yields store.ErrNotFound.
func (s *Service) CreateBooking(ctx context.Context, in CreateBookingInput) (domain.Booking, error) {
	in.ProviderID = strings.TrimSpace(in.ProviderID)
	in.ClientID = strings.TrimSpace(in.ClientID)
	in.ServiceID = strings.TrimSpace(in.ServiceID)
	if in.ProviderID == "" || in.ClientID == "" || in.ServiceID == "" ||
		in.Date == "" || in.StartTime == "" || in.EndTime == "" {
		return domain.Booking{}, validationError("missing required fields")
	}
	if _, err := domain.ParseDate(in.Date); err != nil {
		return domain.Booking{}, validationError("invalid date")
	}
	start, err := domain.ParseClock(in.StartTime)
	if err != nil {
		return domain.Booking{}, validationError("invalid startTime")
	}
	end, err := domain.ParseClock(in.EndTime)
	if err != nil {
		return domain.Booking{}, validationError("invalid endTime")
	}
	if end <= start {
		return domain.Booking{}, validationError("endTime must be after startTime")
	}
	expiresAt, err := domain.At(in.Date, in.EndTime)
	if err != nil {
		return domain.Booking{}, validationError("invalid endTime")
	}

	now := s.clock()

	taken, err := s.bookings.HasConfirmedBooking(ctx, in.ProviderID, in.Date, in.StartTime, now)
	if err != nil {
		return domain.Booking{}, err
	}
	if taken {
		return domain.Booking{}, store.ErrConflict
	}

	serviceID, err := uuid.Parse(in.ServiceID)
	if err != nil {
		return domain.Booking{}, store.ErrNotFound
	}
	svc, err := s.catalog.GetService(ctx, in.ProviderID, serviceID)
	if err != nil {
		return domain.Booking{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return domain.Booking{}, err
	}
	b, err := s.bookings.CreateConfirmedBooking(ctx, domain.Booking{
		ID:              id,
		ProviderID:      in.ProviderID,
		ClientID:        in.ClientID,
		ServiceID:       svc.ID,
		ServiceName:     svc.Name,
		Date:            in.Date,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		DurationMinutes: svc.DurationMinutes,
		Status:          domain.BookingStatusConfirmed,
		CreatedAt:       now,
		ExpiresAt:       expiresAt,
	}, now)
	if err != nil {
		return domain.Booking{}, err
	}

	s.invalidateSlots(ctx, in.ProviderID)
	return b, nil
}

// ListProviderBookings returns the provider's live bookings from today on.
func (s *Service) ListProviderBookings(ctx context.Context, providerID string) ([]domain.Booking, error) {
	if providerID == "" {
		return nil, validationError("provider_id is required")
	}
	now := s.clock()
	return s.bookings.ListConfirmedBookings(ctx, providerID, domain.FormatDate(now), "", now)
}

func (s *Service) ExpireBookings(ctx context.Context) (int64, error) {
	return s.bookings.ExpireBookings(ctx, s.clock())
}
