package scheduling

import (
	"context"
	"fmt"

	"barberq/backend/internal/domain"
)

type AvailabilityEntry struct {
	Day         string
	StartTime   string
	EndTime     string
	IsAvailable bool
}

// SetAvailability upserts each entry in order. Entries are independent: when one is rejected,
// the ones before it stay applied.
func (s *Service) SetAvailability(ctx context.Context, providerID string, schedule []AvailabilityEntry) error {
	if providerID == "" {
		return validationError("provider_id is required")
	}
	if len(schedule) == 0 {
		return validationError("missing schedule")
	}

	applied := 0
	defer func() {
		if applied > 0 {
			s.invalidateSlots(ctx, providerID)
		}
	}()

	for _, e := range schedule {
		w, err := windowFromEntry(providerID, e)
		if err != nil {
			return err
		}
		if err := s.availability.UpsertAvailability(ctx, w); err != nil {
			return fmt.Errorf("upsert %s: %w", w.Weekday, err)
		}
		applied++
	}
	return nil
}

func windowFromEntry(providerID string, e AvailabilityEntry) (domain.AvailabilityWindow, error) {
	invalid := validationError("invalid entry for day: " + e.Day)

	wd, err := domain.ParseWeekday(e.Day)
	if err != nil {
		return domain.AvailabilityWindow{}, invalid
	}
	if e.StartTime == "" || e.EndTime == "" {
		return domain.AvailabilityWindow{}, invalid
	}

	// Clocks are stored as given; windows that never parse are skipped by the slot engine.
	return domain.AvailabilityWindow{
		ProviderID:  providerID,
		Weekday:     wd,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		IsAvailable: e.IsAvailable,
	}, nil
}

func (s *Service) GetAvailability(ctx context.Context, providerID string) ([]domain.AvailabilityWindow, error) {
	if providerID == "" {
		return nil, validationError("provider_id is required")
	}
	return s.availability.ListAvailability(ctx, providerID)
}
