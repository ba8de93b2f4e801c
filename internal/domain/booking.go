package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusExpired   BookingStatus = "expired"
)

type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID              uuid.UUID     `bun:"id,pk,type:uuid"`
	ProviderID      string        `bun:"provider_id,pk"`
	ClientID        string        `bun:"client_id,notnull"`
	ServiceID       uuid.UUID     `bun:"service_id,notnull,type:uuid"`
	ServiceName     string        `bun:"service_name,notnull"`
	Date            string        `bun:"date,notnull"`
	StartTime       string        `bun:"start_time,notnull"`
	EndTime         string        `bun:"end_time,notnull"`
	DurationMinutes int           `bun:"duration_minutes,notnull"`
	Status          BookingStatus `bun:"status,notnull"`
	CreatedAt       time.Time     `bun:"created_at,notnull"`
	ExpiresAt       time.Time     `bun:"expires_at,notnull"`
}

func (b *Booking) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); !ok {
		return nil
	}
	if b.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		b.ID = id
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	return nil
}

// IsLive reports whether b still holds its slot at now.
// A confirmed booking past ExpiresAt is dead even if the sweep has not marked it yet.
func (b Booking) IsLive(now time.Time) bool {
	return b.Status == BookingStatusConfirmed && now.Before(b.ExpiresAt)
}

type BookedStarts map[string]map[string]struct{}

func NewBookedStarts(bookings []Booking, now time.Time) BookedStarts {
	out := make(BookedStarts)
	for _, b := range bookings {
		if !b.IsLive(now) {
			continue
		}
		starts, ok := out[b.Date]
		if !ok {
			starts = make(map[string]struct{})
			out[b.Date] = starts
		}
		starts[b.StartTime] = struct{}{}
	}
	return out
}

func (s BookedStarts) Has(date, start string) bool {
	_, ok := s[date][start]
	return ok
}
