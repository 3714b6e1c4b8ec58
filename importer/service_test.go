package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sheetmap/config"
	"sheetmap/mapping"
	"sheetmap/worklog"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeWorkbook(t *testing.T, dir, name, sheet string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet(sheet)
	require.NoError(t, err)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func boolPtr(v bool) *bool { return &v }

func intPtr(v int) *int { return &v }

func TestRun_CSVWithProfileDefaults(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeFile(t, dir, "hours-2026-03.csv",
		"Start,End,Hours,Description,Project\n"+
			"03.03.2026 08:30,,\"1,5\",Planning,Apollo\n"+
			"03.03.2026 10:00,03.03.2026 11:00,,Review,\n"+
			"03.03.2026 12:00,03.03.2026 13:00,,   ,\n")

	cfg := config.Config{Profiles: []config.Profile{{
		Name:         "hours",
		FileTemplate: "hours-*.csv",
		Project:      "Internal",
		Activity:     "Development",
		Columns: []config.Column{
			{Field: "StartDateTime", Name: "Start", Converter: "datetime"},
			{Field: "EndDateTime", Name: "End", Converter: "datetime"},
			{Field: "Billable", Name: "Hours", Converter: "hours"},
			{Field: "Activity", Ignore: true},
			{Field: "Skill", Ignore: true},
		},
	}}}

	result, err := Run(context.Background(), []string{path}, cfg, RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.FilesProcessed)
	assert.Equal(t, 3, result.RowsRead)
	assert.Equal(t, 2, result.RowsMapped)
	assert.Equal(t, 1, result.RowsSkipped)
	require.Len(t, result.Entries, 2)

	first := result.Entries[0]
	assert.Equal(t, "Planning", first.Description)
	assert.Equal(t, "Apollo", first.Project)
	assert.Equal(t, "Development", first.Activity)
	assert.Equal(t, 90, first.Billable)
	assert.Equal(t, first.StartDateTime.Add(90*time.Minute), first.EndDateTime)
	assert.Equal(t, "csv", first.SourceFormat)
	assert.Equal(t, "hours", first.SourceProfile)
	assert.Equal(t, path, first.SourceFile)

	second := result.Entries[1]
	assert.Equal(t, "Internal", second.Project)
	assert.Equal(t, 60, second.Billable)
}

func TestRun_ExcelByIndexWithoutHeader(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeWorkbook(t, dir, "export.xlsx", "Data", [][]any{
		{"Fix login", "2026-03-03 09:00", "2026-03-03 09:45"},
		{"Deploy", "2026-03-03 10:00", "2026-03-03 10:30"},
	})

	cfg := config.Config{Profiles: []config.Profile{{
		Name:             "raw",
		Sheet:            "data",
		FirstRowIsHeader: boolPtr(false),
		Columns: []config.Column{
			{Field: "Description", Index: intPtr(0)},
			{Field: "StartDateTime", Index: intPtr(1), Converter: "datetime"},
			{Field: "EndDateTime", Index: intPtr(2), Converter: "datetime"},
			{Field: "Billable", Ignore: true},
			{Field: "Project", Ignore: true},
			{Field: "Activity", Ignore: true},
			{Field: "Skill", Ignore: true},
		},
	}}}

	result, err := Run(context.Background(), []string{path}, cfg, RunOptions{Profile: "RAW"})
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)

	assert.Equal(t, "Fix login", result.Entries[0].Description)
	assert.Equal(t, 45, result.Entries[0].Billable)
	assert.Equal(t, "excel", result.Entries[0].SourceFormat)
	assert.Equal(t, 30, result.Entries[1].Billable)
}

func TestRun_RejectsEndBeforeStart(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.csv",
		"StartDateTime,EndDateTime,Billable,Description,Project,Activity,Skill\n"+
			"2026-03-03 10:00,2026-03-03 09:00,,Oops,,,\n")

	cfg := config.Config{Profiles: []config.Profile{{
		Name:    "plain",
		Columns: datetimeColumns(),
	}}}

	_, err := Run(context.Background(), []string{path}, cfg, RunOptions{Profile: "plain"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "end datetime must be after start datetime")
}

func TestRun_KeepsMappingErrorTypes(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeFile(t, dir, "missing.csv", "Description\nSomething\n")

	cfg := config.Config{Profiles: []config.Profile{{Name: "plain"}}}

	_, err := Run(context.Background(), []string{path}, cfg, RunOptions{Profile: "plain"})
	require.Error(t, err)

	var notFound *mapping.ColumnNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "StartDateTime", notFound.Field)
	assert.Contains(t, err.Error(), "profile plain")
}

func TestRun_NoMatchingProfile(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), []string{"unknown.csv"}, config.Config{}, RunOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no profile matches file")

	_, err = Run(context.Background(), []string{"unknown.csv"}, config.Config{}, RunOptions{Profile: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown profile "nope"`)
}

func TestRun_StopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, []string{"a.csv"}, config.Config{}, RunOptions{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestMatchProfile(t *testing.T) {
	t.Parallel()

	profiles := []config.Profile{
		{Name: "none"},
		{Name: "epm", FileTemplate: "EPMExport*.xlsx"},
		{Name: "full", FileTemplate: "/data/*/report.csv"},
	}

	profile, ok := MatchProfile("/tmp/EPMExportRZ202601.xlsx", profiles)
	require.True(t, ok)
	assert.Equal(t, "epm", profile.Name)

	profile, ok = MatchProfile("/data/2026/report.csv", profiles)
	require.True(t, ok)
	assert.Equal(t, "full", profile.Name)

	_, ok = MatchProfile("other.csv", profiles)
	assert.False(t, ok)
}

func TestNewBuilder_AppliesProfile(t *testing.T) {
	t.Parallel()

	b, err := NewBuilder(config.Profile{
		Name:                        "p",
		Sheet:                       "Entries",
		SkipEmptyHeaderNames:        boolPtr(false),
		TrimWhitespaceInHeaderNames: true,
		Columns: []config.Column{
			{Field: "Billable", Name: "Hours", Converter: "hours"},
			{Field: "Skill", Ignore: true},
			{Field: "Project", Index: intPtr(4)},
		},
	})
	require.NoError(t, err)

	cfg := b.Build()
	assert.Equal(t, "Entries", cfg.SheetName())
	assert.True(t, cfg.FirstRowIsHeader())
	assert.False(t, cfg.SkipEmptyHeaderNames())
	assert.True(t, cfg.TrimWhitespaceInHeaderNames())

	byField := make(map[string]mapping.FieldMap[worklog.Entry])
	for _, fm := range cfg.FieldMaps() {
		byField[fm.Field.Name()] = fm
	}
	assert.Equal(t, "Hours", byField["Billable"].ColumnName)
	assert.IsType(t, HoursConverter{}, byField["Billable"].Converter)
	assert.True(t, byField["Skill"].Ignored)
	assert.Equal(t, mapping.ByIndex, byField["Project"].Strategy)
	assert.Equal(t, 4, byField["Project"].ColumnIndex)
}

func TestNewBuilder_RejectsUnknownField(t *testing.T) {
	t.Parallel()

	_, err := NewBuilder(config.Profile{Columns: []config.Column{{Field: "Nope"}}})
	require.Error(t, err)
}

func datetimeColumns() []config.Column {
	return []config.Column{
		{Field: "StartDateTime", Converter: "datetime"},
		{Field: "EndDateTime", Converter: "datetime"},
	}
}
