package domain

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// AvailabilityWindow is a provider's recurring opening hours for one weekday.
// (ProviderID, Weekday) is the key; a later write for the same key replaces the earlier one.
type AvailabilityWindow struct {
	bun.BaseModel `bun:"table:availability_windows"`

	ProviderID  string    `bun:"provider_id,pk"`
	Weekday     Weekday   `bun:"weekday,pk"`
	StartTime   string    `bun:"start_time,notnull"`
	EndTime     string    `bun:"end_time,notnull"`
	IsAvailable bool      `bun:"is_available,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

func (w *AvailabilityWindow) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery, *bun.UpdateQuery:
		w.UpdatedAt = time.Now().UTC()
	}
	return nil
}

// Bounds returns the window as minutes of day. ok is false when either clock is malformed.
func (w AvailabilityWindow) Bounds() (start, end int, ok bool) {
	start, err := ParseWindowClock(w.StartTime)
	if err != nil {
		return 0, 0, false
	}
	end, err = ParseWindowClock(w.EndTime)
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}
