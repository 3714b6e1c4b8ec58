package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sheetmap/config"
	"sheetmap/importer"
	"sheetmap/mapping"
	"sheetmap/source"
	"sheetmap/storage"
	"sheetmap/worklog"
)

func TestCollectHeaders(t *testing.T) {
	src := source.NewMemory(
		source.Sheet{Name: "Entries", Rows: [][]any{{"Start", "End", nil, "Hours"}, {"x", "y", nil, 1}}},
		source.Sheet{Name: "Empty"},
	)

	headers, err := collectHeaders(src)
	if err != nil {
		t.Fatalf("collect headers: %v", err)
	}
	if len(headers) != 2 {
		t.Fatalf("expected 2 sheets, got %d", len(headers))
	}
	if headers[0].Sheet != "Entries" || strings.Join(headers[0].Cells, "|") != "Start|End||Hours" {
		t.Fatalf("unexpected first sheet: %+v", headers[0])
	}
	if headers[1].Sheet != "Empty" || len(headers[1].Cells) != 0 {
		t.Fatalf("unexpected second sheet: %+v", headers[1])
	}
}

func TestPreviewRecords(t *testing.T) {
	start := time.Date(2026, 3, 3, 8, 30, 0, 0, time.UTC)
	src := source.NewMemory(source.Sheet{Name: "Sheet1", Rows: [][]any{
		{"StartDateTime", "EndDateTime", "Billable", "Description", "Project", "Activity", "Skill"},
		{start, start.Add(time.Hour), 60, "Planning", "Apollo", "Dev", "Go"},
		{start, start.Add(time.Hour), 60, "Review", "Apollo", "Dev", "Go"},
	}})

	builder, err := importer.NewBuilder(config.Profile{Name: "plain"})
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}
	it := mapping.Create(src, builder.Build())
	defer it.Close()

	var out bytes.Buffer
	if err := previewRecords(&out, it, 1); err != nil {
		t.Fatalf("preview records: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "Row 2:") || !strings.Contains(text, `"Planning"`) {
		t.Fatalf("expected first record in dump, got:\n%s", text)
	}
	if strings.Contains(text, `"Review"`) {
		t.Fatalf("expected limit to stop after one record, got:\n%s", text)
	}
	if !strings.Contains(text, "Records shown: 1") {
		t.Fatalf("expected record count, got:\n%s", text)
	}
}

func TestPreviewRecordsReturnsMappingError(t *testing.T) {
	src := source.NewMemory(source.Sheet{Name: "Sheet1", Rows: [][]any{
		{"StartDateTime", "EndDateTime", "Billable", "Description"},
		{"not a time", nil, 60, "Planning"},
	}})

	builder, err := importer.NewBuilder(config.Profile{Name: "plain"})
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}
	it := mapping.Create(src, builder.Build())
	defer it.Close()

	var out bytes.Buffer
	err = previewRecords(&out, it, 5)
	var convErr *mapping.ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("expected ConversionError, got %v", err)
	}
}

func TestBuildListFilter(t *testing.T) {
	loc := time.FixedZone("CET", 3600)

	filter, err := buildListFilter("timesheet", "a.csv", "2026-03-01", "2026-03-31", loc)
	if err != nil {
		t.Fatalf("build filter: %v", err)
	}
	if filter.Profile != "timesheet" || filter.SourceFile != "a.csv" {
		t.Fatalf("unexpected filter: %+v", filter)
	}
	if !filter.From.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, loc)) {
		t.Fatalf("unexpected from: %s", filter.From)
	}
	if !filter.To.Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, loc)) {
		t.Fatalf("expected exclusive upper bound on the next day, got %s", filter.To)
	}

	if _, err := buildListFilter("", "", "03/01/2026", "", loc); err == nil {
		t.Fatalf("expected error for malformed day")
	}
	if _, err := buildListFilter("", "", "2026-03-02", "2026-03-01", loc); err == nil {
		t.Fatalf("expected error for reversed range")
	}
	if _, err := buildListFilter("", "", "2026-03-01", "2026-03-01", loc); err != nil {
		t.Fatalf("single day range should be valid: %v", err)
	}
}

func TestListWorklogs(t *testing.T) {
	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "sheetmap.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	var out bytes.Buffer
	if err := listWorklogs(&out, store, storage.ListFilter{}, false, time.UTC); err != nil {
		t.Fatalf("list empty store: %v", err)
	}
	if !strings.Contains(out.String(), "No worklogs found.") {
		t.Fatalf("unexpected output for empty store: %q", out.String())
	}

	start := time.Date(2026, 3, 5, 8, 0, 0, 0, time.UTC)
	entries := []worklog.Entry{
		{StartDateTime: start, EndDateTime: start.Add(90 * time.Minute), Billable: 90, Description: "Planning", SourceProfile: "timesheet", SourceFile: "a.csv"},
		{StartDateTime: start.Add(2 * time.Hour), EndDateTime: start.Add(3 * time.Hour), Billable: 60, Description: "Review", SourceProfile: "timesheet", SourceFile: "a.csv"},
	}
	if _, err := store.InsertWorklogs(entries); err != nil {
		t.Fatalf("insert worklogs: %v", err)
	}

	out.Reset()
	if err := listWorklogs(&out, store, storage.ListFilter{}, false, time.UTC); err != nil {
		t.Fatalf("list worklogs: %v", err)
	}
	if !strings.Contains(out.String(), "Planning") || !strings.Contains(out.String(), "1:30") {
		t.Fatalf("expected entry table, got:\n%s", out.String())
	}

	out.Reset()
	if err := listWorklogs(&out, store, storage.ListFilter{}, true, time.UTC); err != nil {
		t.Fatalf("list daily: %v", err)
	}
	if !strings.Contains(out.String(), "2026-03-05") || !strings.Contains(out.String(), "2:30") {
		t.Fatalf("expected daily totals, got:\n%s", out.String())
	}
}
