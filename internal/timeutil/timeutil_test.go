package timeutil

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	t.Parallel()

	input := time.Date(2026, 3, 1, 14, 37, 9, 123, time.Local)
	got := StartOfDay(input)

	if got.Year() != 2026 || got.Month() != time.March || got.Day() != 1 {
		t.Fatalf("unexpected date: %v", got)
	}
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
}

func TestDayKey(t *testing.T) {
	t.Parallel()

	berlin := time.FixedZone("CET", 3600)
	value := time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)

	if got := DayKey(value, time.UTC); got != "2026-03-01" {
		t.Fatalf("expected 2026-03-01, got %s", got)
	}
	if got := DayKey(value, berlin); got != "2026-03-02" {
		t.Fatalf("expected 2026-03-02 in CET, got %s", got)
	}
}

func TestParseDay(t *testing.T) {
	t.Parallel()

	got, err := ParseDay("2026-03-02", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected day: %v", got)
	}
	if _, err := ParseDay("02.03.2026", time.UTC); err == nil {
		t.Fatalf("expected error for non ISO day")
	}
}

func TestFormatMinutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		minutes int
		want    string
	}{
		{minutes: 0, want: "0:00"},
		{minutes: 5, want: "0:05"},
		{minutes: 90, want: "1:30"},
		{minutes: 605, want: "10:05"},
		{minutes: -45, want: "-0:45"},
	}

	for _, tc := range tests {
		if got := FormatMinutes(tc.minutes); got != tc.want {
			t.Fatalf("FormatMinutes(%d): expected %q, got %q", tc.minutes, tc.want, got)
		}
	}
}
