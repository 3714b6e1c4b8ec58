package timeutil

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

// DayKey names the calendar day of value in loc, sortable as text.
func DayKey(value time.Time, loc *time.Location) string {
	return value.In(loc).Format(dayLayout)
}

// ParseDay reads a YYYY-MM-DD day as midnight in loc.
func ParseDay(value string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(dayLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q (want YYYY-MM-DD): %w", value, err)
	}
	return day, nil
}

// FormatMinutes renders a minute count as h:mm.
func FormatMinutes(minutes int) string {
	sign := ""
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("%s%d:%02d", sign, minutes/60, minutes%60)
}
