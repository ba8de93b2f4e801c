package domain

import (
	"errors"
	"iter"
	"time"
)

const (
	DefaultHorizonDays = 14
	DefaultSlotLimit   = 10
)

var ErrInvalidDuration = errors.New("invalid duration")

type Slot struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type SlotQuery struct {
	// Today is the current calendar day; generation starts the day after.
	Today           time.Time
	DurationMinutes int
	HorizonDays     int
	Limit           int
}

func (q SlotQuery) normalized() SlotQuery {
	if q.HorizonDays <= 0 {
		q.HorizonDays = DefaultHorizonDays
	}
	if q.Limit <= 0 {
		q.Limit = DefaultSlotLimit
	}
	q.Today = DateOf(q.Today)
	return q
}

// Slots yields open slots ordered by date then start time, for day offsets 1..HorizonDays.
// Candidates start at the window start and advance by the service duration; a trailing
// remainder shorter than the duration is dropped. Starts present in booked are skipped.
// The sequence does not apply Limit; callers stop pulling when they have enough.
func Slots(windows []AvailabilityWindow, booked BookedStarts, q SlotQuery) iter.Seq[Slot] {
	q = q.normalized()
	byDay := make(map[Weekday]AvailabilityWindow, len(windows))
	for _, w := range windows {
		byDay[w.Weekday] = w
	}

	return func(yield func(Slot) bool) {
		if q.DurationMinutes <= 0 {
			return
		}
		for offset := 1; offset <= q.HorizonDays; offset++ {
			day := q.Today.AddDate(0, 0, offset)
			w, ok := byDay[WeekdayOf(day)]
			if !ok || !w.IsAvailable {
				continue
			}
			start, end, ok := w.Bounds()
			if !ok {
				continue
			}

			date := FormatDate(day)
			for t := start; t+q.DurationMinutes <= end; t += q.DurationMinutes {
				slotStart := FormatClock(t)
				if booked.Has(date, slotStart) {
					continue
				}
				if !yield(Slot{Date: date, StartTime: slotStart, EndTime: FormatClock(t + q.DurationMinutes)}) {
					return
				}
			}
		}
	}
}

func GenerateSlots(windows []AvailabilityWindow, booked BookedStarts, q SlotQuery) ([]Slot, error) {
	if q.DurationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	q = q.normalized()

	out := make([]Slot, 0, q.Limit)
	for s := range Slots(windows, booked, q) {
		out = append(out, s)
		if len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

func HorizonDates(today time.Time, horizonDays int) (from, to string) {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	d := DateOf(today)
	return FormatDate(d.AddDate(0, 0, 1)), FormatDate(d.AddDate(0, 0, horizonDays))
}
