package domain

import (
	"errors"
	"time"
)

type Weekday string

const (
	Monday    Weekday = "MON"
	Tuesday   Weekday = "TUE"
	Wednesday Weekday = "WED"
	Thursday  Weekday = "THU"
	Friday    Weekday = "FRI"
	Saturday  Weekday = "SAT"
	Sunday    Weekday = "SUN"
)

var ErrInvalidWeekday = errors.New("invalid weekday")

var Weekdays = [7]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// indexed by time.Weekday, which starts at Sunday
var weekdayByStd = [7]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

func ParseWeekday(s string) (Weekday, error) {
	for _, wd := range Weekdays {
		if string(wd) == s {
			return wd, nil
		}
	}
	return "", ErrInvalidWeekday
}

func WeekdayOf(t time.Time) Weekday {
	return weekdayByStd[t.Weekday()]
}

func (wd Weekday) Index() int {
	for i, w := range Weekdays {
		if w == wd {
			return i
		}
	}
	return -1
}
