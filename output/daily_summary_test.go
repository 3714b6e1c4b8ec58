package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"sheetmap/worklog"
)

var cet = time.FixedZone("CET", 3600)

func TestBuildDailySummaries_CalculatesWorkedBillableAndBreak(t *testing.T) {
	entries := []worklog.Entry{
		{
			StartDateTime: mustParse(t, "2026-01-05T11:00:00+01:00"),
			EndDateTime:   mustParse(t, "2026-01-05T12:00:00+01:00"),
			Billable:      60,
		},
		{
			StartDateTime: mustParse(t, "2026-01-05T08:00:00+01:00"),
			EndDateTime:   mustParse(t, "2026-01-05T09:00:00+01:00"),
			Billable:      60,
		},
		{
			StartDateTime: mustParse(t, "2026-01-05T09:30:00+01:00"),
			EndDateTime:   mustParse(t, "2026-01-05T10:30:00+01:00"),
			Billable:      45,
		},
	}

	summaries := BuildDailySummaries(entries, cet)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}

	summary := summaries[0]
	assertTimeEqual(t, mustParse(t, "2026-01-05T08:00:00+01:00"), summary.StartDateTime, "start time")
	assertTimeEqual(t, mustParse(t, "2026-01-05T12:00:00+01:00"), summary.EndDateTime, "end time")
	if summary.WorkedMinutes != 180 || summary.BillableMinutes != 165 || summary.BreakMinutes != 60 {
		t.Fatalf("unexpected minutes: %+v", summary)
	}
	if summary.WorklogCount != 3 {
		t.Fatalf("expected 3 worklogs, got %d", summary.WorklogCount)
	}
}

func TestBuildDailySummaries_MergesOverlaps(t *testing.T) {
	entries := []worklog.Entry{
		{
			StartDateTime: mustParse(t, "2026-01-06T08:00:00+01:00"),
			EndDateTime:   mustParse(t, "2026-01-06T17:00:00+01:00"),
			Billable:      120,
		},
		{
			StartDateTime: mustParse(t, "2026-01-06T09:00:00+01:00"),
			EndDateTime:   mustParse(t, "2026-01-06T10:00:00+01:00"),
			Billable:      60,
		},
	}

	summary := BuildDailySummaries(entries, cet)[0]
	if summary.WorkedMinutes != 540 || summary.BreakMinutes != 0 {
		t.Fatalf("expected overlap to count once, got %+v", summary)
	}
	assertTimeEqual(t, mustParse(t, "2026-01-06T17:00:00+01:00"), summary.EndDateTime, "end time")
}

func TestBuildDailySummaries_GroupsByDayInLocation(t *testing.T) {
	entries := []worklog.Entry{
		{
			StartDateTime: mustParse(t, "2026-01-07T23:30:00Z"),
			EndDateTime:   mustParse(t, "2026-01-08T00:30:00Z"),
			Billable:      60,
		},
		{
			StartDateTime: mustParse(t, "2026-01-07T08:00:00Z"),
			EndDateTime:   mustParse(t, "2026-01-07T09:00:00Z"),
			Billable:      60,
		},
	}

	summaries := BuildDailySummaries(entries, cet)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Date != "2026-01-07" || summaries[1].Date != "2026-01-08" {
		t.Fatalf("unexpected days: %s, %s", summaries[0].Date, summaries[1].Date)
	}

	if got := BuildDailySummaries(nil, cet); len(got) != 0 {
		t.Fatalf("expected no summaries for no entries, got %d", len(got))
	}
}

func TestWriteDailySummaries_RendersTotals(t *testing.T) {
	summaries := []DailySummary{
		{Date: "2026-01-05", StartDateTime: mustParse(t, "2026-01-05T08:00:00+01:00"), EndDateTime: mustParse(t, "2026-01-05T12:00:00+01:00"), WorkedMinutes: 180, BillableMinutes: 165, BreakMinutes: 60, WorklogCount: 3},
		{Date: "2026-01-06", StartDateTime: mustParse(t, "2026-01-06T08:00:00+01:00"), EndDateTime: mustParse(t, "2026-01-06T09:30:00+01:00"), WorkedMinutes: 90, BillableMinutes: 90, WorklogCount: 1},
	}

	var buf bytes.Buffer
	if err := WriteDailySummaries(&buf, summaries, cet); err != nil {
		t.Fatalf("write summaries: %v", err)
	}

	text := buf.String()
	for _, want := range []string{"Date", "2026-01-05", "08:00", "2:45", "Total", "4:30", "4:15"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
}

func TestWriteEntries_RendersRows(t *testing.T) {
	entries := []worklog.Entry{{
		ID:            7,
		StartDateTime: mustParse(t, "2026-01-05T08:00:00+01:00"),
		EndDateTime:   mustParse(t, "2026-01-05T09:30:00+01:00"),
		Billable:      90,
		Description:   "Planning",
		SourceProfile: "hours",
		SourceFile:    "hours.csv",
	}}

	var buf bytes.Buffer
	if err := WriteEntries(&buf, entries, cet); err != nil {
		t.Fatalf("write entries: %v", err)
	}

	text := buf.String()
	for _, want := range []string{"Description", "2026-01-05 08:00", "1:30", "Planning", "hours.csv"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
}

func TestWriteHeaders_RendersIndexes(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHeaders(&buf, []SheetHeader{
		{Sheet: "Entries", Cells: []string{"Start", "End"}},
		{Sheet: "Empty"},
	})
	if err != nil {
		t.Fatalf("write headers: %v", err)
	}

	text := buf.String()
	for _, want := range []string{"Entries", "Start", "End", "1", "Empty", "(empty)"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
}

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return parsed
}

func assertTimeEqual(t *testing.T, expected, actual time.Time, field string) {
	t.Helper()
	if !expected.Equal(actual) {
		t.Fatalf("unexpected %s: expected %s, got %s", field, expected, actual)
	}
}
