package importer

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"sheetmap/config"
	"sheetmap/mapping"
	"sheetmap/worklog"
)

// NewBuilder turns a profile into a mapping builder for worklog entries.
func NewBuilder(profile config.Profile) (*mapping.Builder[worklog.Entry], error) {
	b := mapping.Default[worklog.Entry]()
	if strings.TrimSpace(profile.Sheet) != "" {
		if err := b.UseSheet(profile.Sheet); err != nil {
			return nil, err
		}
	}
	b.FirstRowIsHeader(profile.HeaderRow())
	b.SkipEmptyHeaderNames(profile.SkipEmptyHeaders())
	b.TrimWhitespaceInHeaderNames(profile.TrimWhitespaceInHeaderNames)

	if profile.TimeLayout != "" {
		layout := DateTimeConverter{Layout: profile.TimeLayout}
		for _, field := range []mapping.Field[worklog.Entry]{worklog.StartDateTime, worklog.EndDateTime} {
			if err := b.ConvertWith(field, layout); err != nil {
				return nil, err
			}
		}
	}

	for _, column := range profile.Columns {
		field, err := b.Lookup(column.Field)
		if err != nil {
			return nil, err
		}

		switch {
		case column.Ignore:
			err = b.Ignore(field)
		case column.Index != nil:
			err = b.MapByIndex(field, *column.Index)
		case strings.TrimSpace(column.Name) != "":
			err = b.MapByName(field, column.Name)
		}
		if err != nil {
			return nil, err
		}

		converter, err := converterFor(column.Converter, field, profile)
		if err != nil {
			return nil, err
		}
		if converter != nil {
			if err := b.ConvertWith(field, converter); err != nil {
				return nil, err
			}
		}
	}

	return b, nil
}

// converterFor returns nil when the column keeps its current converter.
func converterFor(name string, field mapping.Field[worklog.Entry], profile config.Profile) (mapping.ValueConverter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return nil, nil
	case "default":
		return field.DefaultConverter(), nil
	case "hours":
		return HoursConverter{}, nil
	case "minutes":
		return MinutesConverter{}, nil
	case "datetime":
		return DateTimeConverter{Layout: profile.TimeLayout, Location: time.Local}, nil
	default:
		return nil, fmt.Errorf("unsupported converter %q for field %s", name, field.Name())
	}
}

// MatchProfile returns the first profile whose file_template matches the
// base name or the full path.
func MatchProfile(path string, profiles []config.Profile) (config.Profile, bool) {
	baseName := filepath.Base(path)
	for _, profile := range profiles {
		template := strings.TrimSpace(profile.FileTemplate)
		if template == "" {
			continue
		}
		matchesBase, err := filepath.Match(template, baseName)
		if err == nil && matchesBase {
			return profile, true
		}
		matchesFull, err := filepath.Match(template, path)
		if err == nil && matchesFull {
			return profile, true
		}
	}
	return config.Profile{}, false
}

// ResolveProfile picks the named profile, or the first one whose
// file_template matches path when explicit is empty.
func ResolveProfile(path string, cfg config.Config, explicit string) (config.Profile, error) {
	if strings.TrimSpace(explicit) != "" {
		profile, ok := cfg.ProfileByName(explicit)
		if !ok {
			return config.Profile{}, fmt.Errorf("unknown profile %q", explicit)
		}
		return profile, nil
	}

	profile, ok := MatchProfile(path, cfg.Profiles)
	if !ok {
		return config.Profile{}, fmt.Errorf(
			"no profile matches file %s; pass --profile or add a profile with a matching file_template",
			path,
		)
	}
	return profile, nil
}
