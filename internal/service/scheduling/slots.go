package scheduling

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"barberq/backend/internal/domain"
	"barberq/backend/internal/store"
)

// ListSlots returns the earliest open slots for serviceID over the booking horizon,
// starting tomorrow.
func (s *Service) ListSlots(ctx context.Context, providerID, serviceID string) ([]domain.Slot, error) {
	if providerID == "" || serviceID == "" {
		return nil, validationError("missing businessId or serviceId")
	}
	id, err := uuid.Parse(serviceID)
	if err != nil {
		return nil, store.ErrNotFound
	}
	svc, err := s.catalog.GetService(ctx, providerID, id)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	today := domain.FormatDate(now)

	var cacheKey string
	if s.cache != nil {
		slots, key, ok, err := s.cache.Get(ctx, providerID, svc.ID.String(), today)
		switch {
		case err != nil:
			s.log.Warn("slot cache read failed", slog.String("provider_id", providerID), slog.Any("err", err))
		case ok:
			return slots, nil
		default:
			cacheKey = key
		}
	}

	windows, err := s.availability.ListAvailability(ctx, providerID)
	if err != nil {
		return nil, err
	}
	from, to := domain.HorizonDates(now, s.horizonDays)
	booked, err := s.bookings.ListConfirmedBookings(ctx, providerID, from, to, now)
	if err != nil {
		return nil, err
	}

	slots, err := domain.GenerateSlots(windows, domain.NewBookedStarts(booked, now), domain.SlotQuery{
		Today:           now,
		DurationMinutes: svc.DurationMinutes,
		HorizonDays:     s.horizonDays,
		Limit:           s.slotLimit,
	})
	if err != nil {
		return nil, err
	}

	if cacheKey != "" {
		if err := s.cache.Put(ctx, cacheKey, slots); err != nil {
			s.log.Warn("slot cache write failed", slog.String("provider_id", providerID), slog.Any("err", err))
		}
	}
	return slots, nil
}
