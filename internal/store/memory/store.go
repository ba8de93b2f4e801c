// Package memory is an in-process store with the same conditional-write contract as the
// postgres store. State lives only as long as the process.
package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"

	"barberq/backend/internal/domain"
	"barberq/backend/internal/store"
)

type availabilityKey struct {
	providerID string
	weekday    domain.Weekday
}

type serviceKey struct {
	providerID string
	serviceID  uuid.UUID
}

type slotKey struct {
	providerID string
	date       string
	startTime  string
}

type Store struct {
	availability *xsync.MapOf[availabilityKey, domain.AvailabilityWindow]
	services     *xsync.MapOf[serviceKey, domain.Service]
	bookings     *xsync.MapOf[uuid.UUID, domain.Booking]
	// claims maps a slot to the booking that holds it. Entries are only
	// ever replaced inside Compute, which serializes writers per key.
	claims *xsync.MapOf[slotKey, uuid.UUID]
}

var (
	_ store.AvailabilityRepository = (*Store)(nil)
	_ store.ServiceCatalog         = (*Store)(nil)
	_ store.BookingRepository      = (*Store)(nil)
	_ store.Pinger                 = (*Store)(nil)
)

func New() *Store {
	return &Store{
		availability: xsync.NewMapOf[availabilityKey, domain.AvailabilityWindow](),
		services:     xsync.NewMapOf[serviceKey, domain.Service](),
		bookings:     xsync.NewMapOf[uuid.UUID, domain.Booking](),
		claims:       xsync.NewMapOf[slotKey, uuid.UUID](),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) UpsertAvailability(ctx context.Context, w domain.AvailabilityWindow) error {
	w.UpdatedAt = time.Now().UTC()
	s.availability.Store(availabilityKey{providerID: w.ProviderID, weekday: w.Weekday}, w)
	return nil
}

func (s *Store) ListAvailability(ctx context.Context, providerID string) ([]domain.AvailabilityWindow, error) {
	out := make([]domain.AvailabilityWindow, 0, len(domain.Weekdays))
	for _, wd := range domain.Weekdays {
		if w, ok := s.availability.Load(availabilityKey{providerID: providerID, weekday: wd}); ok {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *Store) CreateService(ctx context.Context, svc domain.Service) (domain.Service, error) {
	if svc.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return domain.Service{}, err
		}
		svc.ID = id
	}
	if svc.CreatedAt.IsZero() {
		svc.CreatedAt = time.Now().UTC()
	}
	s.services.Store(serviceKey{providerID: svc.ProviderID, serviceID: svc.ID}, svc)
	return svc, nil
}

func (s *Store) GetService(ctx context.Context, providerID string, serviceID uuid.UUID) (domain.Service, error) {
	svc, ok := s.services.Load(serviceKey{providerID: providerID, serviceID: serviceID})
	if !ok {
		return domain.Service{}, store.ErrNotFound
	}
	return svc, nil
}

func (s *Store) ListServices(ctx context.Context, providerID string) ([]domain.Service, error) {
	var out []domain.Service
	s.services.Range(func(k serviceKey, svc domain.Service) bool {
		if k.providerID == providerID {
			out = append(out, svc)
		}
		return true
	})
	slices.SortFunc(out, func(a, b domain.Service) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

func (s *Store) CreateConfirmedBooking(ctx context.Context, b domain.Booking, now time.Time) (domain.Booking, error) {
	if b.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return domain.Booking{}, err
		}
		b.ID = id
	}
	b.Status = domain.BookingStatusConfirmed

	conflict := false
	s.claims.Compute(slotKey{providerID: b.ProviderID, date: b.Date, startTime: b.StartTime},
		func(held uuid.UUID, loaded bool) (uuid.UUID, bool) {
			if loaded {
				if prev, ok := s.bookings.Load(held); ok {
					if prev.IsLive(now) {
						conflict = true
						return held, false
					}
					prev.Status = domain.BookingStatusExpired
					s.bookings.Store(prev.ID, prev)
				}
			}
			s.bookings.Store(b.ID, b)
			return b.ID, false
		})
	if conflict {
		return domain.Booking{}, store.ErrConflict
	}
	return b, nil
}

func (s *Store) HasConfirmedBooking(ctx context.Context, providerID, date, startTime string, now time.Time) (bool, error) {
	held, ok := s.claims.Load(slotKey{providerID: providerID, date: date, startTime: startTime})
	if !ok {
		return false, nil
	}
	b, ok := s.bookings.Load(held)
	return ok && b.IsLive(now), nil
}

func (s *Store) ListConfirmedBookings(ctx context.Context, providerID, fromDate, toDate string, now time.Time) ([]domain.Booking, error) {
	var out []domain.Booking
	s.bookings.Range(func(_ uuid.UUID, b domain.Booking) bool {
		if b.ProviderID != providerID || !b.IsLive(now) {
			return true
		}
		if b.Date < fromDate || (toDate != "" && b.Date > toDate) {
			return true
		}
		out = append(out, b)
		return true
	})
	slices.SortFunc(out, func(a, b domain.Booking) int {
		if c := strings.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.StartTime, b.StartTime)
	})
	return out, nil
}

func (s *Store) ExpireBookings(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	s.bookings.Range(func(id uuid.UUID, b domain.Booking) bool {
		if b.Status != domain.BookingStatusConfirmed || now.Before(b.ExpiresAt) {
			return true
		}
		key := slotKey{providerID: b.ProviderID, date: b.Date, startTime: b.StartTime}
		s.claims.Compute(key, func(held uuid.UUID, loaded bool) (uuid.UUID, bool) {
			cur, ok := s.bookings.Load(id)
			if !ok || cur.Status != domain.BookingStatusConfirmed {
				return held, !loaded
			}
			cur.Status = domain.BookingStatusExpired
			s.bookings.Store(id, cur)
			n++
			return held, !loaded || held == id
		})
		return true
	})
	return n, nil
}
