package output

import (
	"slices"
	"time"

	"sheetmap/internal/timeutil"
	"sheetmap/worklog"
)

// DailySummary aggregates the worklogs starting on one calendar day.
type DailySummary struct {
	Date            string
	StartDateTime   time.Time
	EndDateTime     time.Time
	WorkedMinutes   int
	BillableMinutes int
	BreakMinutes    int
	WorklogCount    int
}

type interval struct {
	start time.Time
	end   time.Time
}

// BuildDailySummaries groups entries by their start day in loc, oldest first.
// Overlapping entries count once toward the covered time of a day.
func BuildDailySummaries(entries []worklog.Entry, loc *time.Location) []DailySummary {
	byDay := make(map[string][]worklog.Entry)
	for _, entry := range entries {
		day := timeutil.DayKey(entry.StartDateTime, loc)
		byDay[day] = append(byDay[day], entry)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	slices.Sort(days)

	summaries := make([]DailySummary, 0, len(days))
	for _, day := range days {
		summaries = append(summaries, summarizeDay(day, byDay[day]))
	}
	return summaries
}

func summarizeDay(day string, entries []worklog.Entry) DailySummary {
	slices.SortFunc(entries, func(a, b worklog.Entry) int {
		if c := a.StartDateTime.Compare(b.StartDateTime); c != 0 {
			return c
		}
		return a.EndDateTime.Compare(b.EndDateTime)
	})

	summary := DailySummary{
		Date:          day,
		StartDateTime: entries[0].StartDateTime,
		EndDateTime:   entries[0].EndDateTime,
		WorklogCount:  len(entries),
	}

	intervals := make([]interval, 0, len(entries))
	for _, entry := range entries {
		summary.BillableMinutes += entry.Billable
		if entry.EndDateTime.After(summary.EndDateTime) {
			summary.EndDateTime = entry.EndDateTime
		}
		if entry.EndDateTime.After(entry.StartDateTime) {
			intervals = append(intervals, interval{start: entry.StartDateTime, end: entry.EndDateTime})
		}
	}

	covered := mergedCoverage(intervals)
	summary.WorkedMinutes = int(covered.Minutes())
	if span := summary.EndDateTime.Sub(summary.StartDateTime); span > covered {
		summary.BreakMinutes = int((span - covered).Minutes())
	}
	return summary
}

// mergedCoverage returns the length of the union of sorted intervals.
func mergedCoverage(intervals []interval) time.Duration {
	if len(intervals) == 0 {
		return 0
	}

	current := intervals[0]
	var covered time.Duration
	for _, candidate := range intervals[1:] {
		if candidate.start.After(current.end) {
			covered += current.end.Sub(current.start)
			current = candidate
			continue
		}
		if candidate.end.After(current.end) {
			current.end = candidate.end
		}
	}
	return covered + current.end.Sub(current.start)
}
