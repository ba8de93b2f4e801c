// Package scheduling implements availability management, slot listing and reservations
// for a single bookable resource per provider.
package scheduling

import (
	"context"
	"log/slog"
	"time"

	"barberq/backend/internal/domain"
	"barberq/backend/internal/store"
)

// SlotCache stores generated slot lists. Get returns the key Put must use so a list computed
// before an Invalidate is never served after it.
type SlotCache interface {
	Get(ctx context.Context, providerID, serviceID, today string) ([]domain.Slot, string, bool, error)
	Put(ctx context.Context, key string, slots []domain.Slot) error
	Invalidate(ctx context.Context, providerID string) error
}

type Service struct {
	availability store.AvailabilityRepository
	catalog      store.ServiceCatalog
	bookings     store.BookingRepository
	cache        SlotCache
	now          func() time.Time
	log          *slog.Logger
	horizonDays  int
	slotLimit    int
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithSlotCache(c SlotCache) Option {
	return func(s *Service) { s.cache = c }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

func NewService(
	availability store.AvailabilityRepository,
	catalog store.ServiceCatalog,
	bookings store.BookingRepository,
	opts ...Option,
) *Service {
	s := &Service{
		availability: availability,
		catalog:      catalog,
		bookings:     bookings,
		now:          time.Now,
		log:          slog.Default(),
		horizonDays:  domain.DefaultHorizonDays,
		slotLimit:    domain.DefaultSlotLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

func (s *Service) invalidateSlots(ctx context.Context, providerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, providerID); err != nil {
		s.log.Warn("slot cache invalidate failed", slog.String("provider_id", providerID), slog.Any("err", err))
	}
}
