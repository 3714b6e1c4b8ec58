package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"sheetmap/config"
	"sheetmap/mapping"
	"sheetmap/source"
	"sheetmap/worklog"
)

type Result struct {
	FilesProcessed int
	RowsRead       int
	RowsMapped     int
	RowsSkipped    int
	Entries        []worklog.Entry
}

type RunOptions struct {
	// Profile forces one profile for every file instead of file_template matching.
	Profile string
	// Format overrides the profile format and the file extension.
	Format string
	Logger *zap.Logger
}

// Run maps every file in paths into worklog entries. The first failing row
// aborts the run; mapping errors keep their types for errors.As.
func Run(ctx context.Context, paths []string, cfg config.Config, options RunOptions) (*Result, error) {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	result := &Result{Entries: make([]worklog.Entry, 0, 256)}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		profile, err := ResolveProfile(path, cfg, options.Profile)
		if err != nil {
			return nil, err
		}
		fileLogger := logger.With(zap.String("file", path), zap.String("profile", profile.Name))

		stats, err := importFile(ctx, path, profile, options.Format, result, fileLogger)
		if err != nil {
			return nil, fmt.Errorf("import %s (profile %s): %w", path, profile.Name, err)
		}
		fileLogger.Debug("file imported",
			zap.Int("rows", stats.RowsRead),
			zap.Int("mapped", stats.RowsMapped),
			zap.Int("skipped", stats.RowsSkipped),
		)

		result.FilesProcessed++
		result.RowsRead += stats.RowsRead
		result.RowsMapped += stats.RowsMapped
		result.RowsSkipped += stats.RowsSkipped
	}

	logger.Info("import finished",
		zap.Int("files", result.FilesProcessed),
		zap.Int("rows", result.RowsRead),
		zap.Int("mapped", result.RowsMapped),
		zap.Int("skipped", result.RowsSkipped),
	)
	return result, nil
}

// importFile appends the entries of one file to result and returns the row
// counts of that file.
func importFile(
	ctx context.Context,
	path string,
	profile config.Profile,
	format string,
	result *Result,
	logger *zap.Logger,
) (Result, error) {
	var stats Result

	sourceFormat, err := source.InferFormat(path, firstNonEmpty(format, profile.Format))
	if err != nil {
		return stats, err
	}

	builder, err := NewBuilder(profile)
	if err != nil {
		return stats, err
	}

	src, err := source.Open(path, sourceFormat, source.OpenOptions{Password: profile.Password})
	if err != nil {
		return stats, err
	}

	it := mapping.Create(src, builder.Build())
	defer func() {
		if closeErr := it.Close(); closeErr != nil {
			logger.Warn("close source", zap.Error(closeErr))
		}
	}()

	rows := it.Rows()
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.RowsRead++

		entry := rows.Record()
		ok, err := finalizeEntry(&entry, profile)
		if err != nil {
			return stats, fmt.Errorf("row %d: %w", rows.RowNumber(), err)
		}
		if !ok {
			logger.Debug("row skipped", zap.Int("row", rows.RowNumber()))
			stats.RowsSkipped++
			continue
		}

		entry.SourceFormat = sourceFormat
		entry.SourceProfile = profile.Name
		entry.SourceFile = path
		result.Entries = append(result.Entries, entry)
		stats.RowsMapped++
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	return stats, nil
}

// finalizeEntry completes a mapped entry. It reports false for rows without
// a description.
func finalizeEntry(entry *worklog.Entry, profile config.Profile) (bool, error) {
	entry.Description = strings.TrimSpace(entry.Description)
	if entry.Description == "" {
		return false, nil
	}

	if entry.StartDateTime.IsZero() {
		return false, fmt.Errorf("start datetime is missing")
	}
	if entry.Billable < 0 {
		return false, fmt.Errorf("billable minutes must not be negative")
	}
	if entry.EndDateTime.IsZero() && entry.Billable > 0 {
		entry.EndDateTime = entry.StartDateTime.Add(time.Duration(entry.Billable) * time.Minute)
	}
	if !entry.EndDateTime.After(entry.StartDateTime) {
		return false, fmt.Errorf("end datetime must be after start datetime")
	}
	if entry.Billable == 0 {
		entry.Billable = int(entry.EndDateTime.Sub(entry.StartDateTime).Minutes())
	}

	entry.Project = firstNonEmpty(entry.Project, profile.Project)
	entry.Activity = firstNonEmpty(entry.Activity, profile.Activity)
	entry.Skill = firstNonEmpty(entry.Skill, profile.Skill)
	return true, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
