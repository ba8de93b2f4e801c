package domain

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DateLayout is the calendar-day format used on the wire and in storage.
	DateLayout = "2006-01-02"

	minutesPerDay = 24 * 60
)

var (
	ErrInvalidClock = errors.New("invalid time of day")
	ErrInvalidDate  = errors.New("invalid date")
)

// ParseClock converts "HH:MM" into a minute-of-day in [0, 1440).
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, ErrInvalidClock
	}
	h, ok := twoDigits(s[0], s[1])
	if !ok || h > 23 {
		return 0, ErrInvalidClock
	}
	m, ok := twoDigits(s[3], s[4])
	if !ok || m > 59 {
		return 0, ErrInvalidClock
	}
	return h*60 + m, nil
}

// ParseWindowClock is ParseClock that also accepts a single-digit hour ("9:00").
func ParseWindowClock(s string) (int, error) {
	if len(s) == 4 {
		s = "0" + s
	}
	return ParseClock(s)
}

func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOf truncates t to its calendar day in t's own location, returned as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// At returns the UTC instant of date + "HH:MM". Times carry no zone of their own and are read as UTC.
func At(date, clock string) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	m, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(time.Duration(m) * time.Minute), nil
}
