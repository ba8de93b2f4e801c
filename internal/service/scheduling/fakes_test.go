package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"barberq/backend/internal/domain"
)

type fakeAvailability struct {
	upsertFn func(ctx context.Context, w domain.AvailabilityWindow) error
	listFn   func(ctx context.Context, providerID string) ([]domain.AvailabilityWindow, error)
}

func (f *fakeAvailability) UpsertAvailability(ctx context.Context, w domain.AvailabilityWindow) error {
	if f.upsertFn == nil {
		panic("UpsertAvailability not configured")
	}
	return f.upsertFn(ctx, w)
}

func (f *fakeAvailability) ListAvailability(ctx context.Context, providerID string) ([]domain.AvailabilityWindow, error) {
	if f.listFn == nil {
		panic("ListAvailability not configured")
	}
	return f.listFn(ctx, providerID)
}

type fakeCatalog struct {
	createFn func(ctx context.Context, svc domain.Service) (domain.Service, error)
	getFn    func(ctx context.Context, providerID string, serviceID uuid.UUID) (domain.Service, error)
	listFn   func(ctx context.Context, providerID string) ([]domain.Service, error)
}

func (f *fakeCatalog) CreateService(ctx context.Context, svc domain.Service) (domain.Service, error) {
	if f.createFn == nil {
		panic("CreateService not configured")
	}
	return f.createFn(ctx, svc)
}

func (f *fakeCatalog) GetService(ctx context.Context, providerID string, serviceID uuid.UUID) (domain.Service, error) {
	if f.getFn == nil {
		panic("GetService not configured")
	}
	return f.getFn(ctx, providerID, serviceID)
}

func (f *fakeCatalog) ListServices(ctx context.Context, providerID string) ([]domain.Service, error) {
	if f.listFn == nil {
		panic("ListServices not configured")
	}
	return f.listFn(ctx, providerID)
}

type fakeBookings struct {
	createFn func(ctx context.Context, b domain.Booking, now time.Time) (domain.Booking, error)
	hasFn    func(ctx context.Context, providerID, date, startTime string, now time.Time) (bool, error)
	listFn   func(ctx context.Context, providerID, fromDate, toDate string, now time.Time) ([]domain.Booking, error)
	expireFn func(ctx context.Context, now time.Time) (int64, error)
}

func (f *fakeBookings) CreateConfirmedBooking(ctx context.Context, b domain.Booking, now time.Time) (domain.Booking, error) {
	if f.createFn == nil {
		panic("CreateConfirmedBooking not configured")
	}
	return f.createFn(ctx, b, now)
}

func (f *fakeBookings) HasConfirmedBooking(ctx context.Context, providerID, date, startTime string, now time.Time) (bool, error) {
	if f.hasFn == nil {
		panic("HasConfirmedBooking not configured")
	}
	return f.hasFn(ctx, providerID, date, startTime, now)
}

func (f *fakeBookings) ListConfirmedBookings(ctx context.Context, providerID, fromDate, toDate string, now time.Time) ([]domain.Booking, error) {
	if f.listFn == nil {
		panic("ListConfirmedBookings not configured")
	}
	return f.listFn(ctx, providerID, fromDate, toDate, now)
}

func (f *fakeBookings) ExpireBookings(ctx context.Context, now time.Time) (int64, error) {
	if f.expireFn == nil {
		panic("ExpireBookings not configured")
	}
	return f.expireFn(ctx, now)
}

type fakeCache struct {
	getFn        func(ctx context.Context, providerID, serviceID, today string) ([]domain.Slot, string, bool, error)
	putFn        func(ctx context.Context, key string, slots []domain.Slot) error
	invalidateFn func(ctx context.Context, providerID string) error
}

func (f *fakeCache) Get(ctx context.Context, providerID, serviceID, today string) ([]domain.Slot, string, bool, error) {
	if f.getFn == nil {
		panic("Get not configured")
	}
	return f.getFn(ctx, providerID, serviceID, today)
}

func (f *fakeCache) Put(ctx context.Context, key string, slots []domain.Slot) error {
	if f.putFn == nil {
		panic("Put not configured")
	}
	return f.putFn(ctx, key, slots)
}

func (f *fakeCache) Invalidate(ctx context.Context, providerID string) error {
	if f.invalidateFn == nil {
		panic("Invalidate not configured")
	}
	return f.invalidateFn(ctx, providerID)
}
