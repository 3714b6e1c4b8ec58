package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// HoursConverter reads decimal hours, in German ("1,5") or English ("1.5")
// notation, and yields whole minutes.
type HoursConverter struct{}

func (HoursConverter) Convert(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case string:
		return parseGermanDecimalHoursToMinutes(v)
	case float64:
		return roundMinutes(v*60, "hours")
	case int:
		return roundMinutes(float64(v)*60, "hours")
	default:
		return nil, fmt.Errorf("parse hours: unsupported value %v (%T)", value, value)
	}
}

// MinutesConverter reads decimal minutes and rounds them to whole minutes.
type MinutesConverter struct{}

func (MinutesConverter) Convert(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case string:
		return parseMinutes(v)
	case float64:
		return roundMinutes(v, "minutes")
	case int:
		return roundMinutes(float64(v), "minutes")
	default:
		return nil, fmt.Errorf("parse minutes: unsupported value %v (%T)", value, value)
	}
}

// DateTimeConverter reads timestamps. Layout, when set, is tried before the
// common layouts; numeric cells are Excel serial dates. Wall clock values are
// placed in Location (time.Local when nil).
type DateTimeConverter struct {
	Layout   string
	Location *time.Location
}

func (c DateTimeConverter) Convert(value any) (any, error) {
	location := c.Location
	if location == nil {
		location = time.Local
	}

	switch v := value.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	case float64:
		return serialToTime(v, location)
	case string:
		if serial, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return serialToTime(serial, location)
		}
		return parseDateTime(v, c.Layout, location)
	default:
		return nil, fmt.Errorf("parse datetime: unsupported value %v (%T)", value, value)
	}
}

func serialToTime(serial float64, location *time.Location) (time.Time, error) {
	parsed, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse excel date %v: %w", serial, err)
	}
	parsed = parsed.Round(time.Second)
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0, location), nil
}

func roundMinutes(minutes float64, unit string) (int, error) {
	rounded := int(math.Round(minutes))
	if rounded < 0 {
		return 0, fmt.Errorf("%s must not be negative", unit)
	}
	return rounded, nil
}

func parseGermanDecimalHoursToMinutes(raw string) (int, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, nil
	}
	if strings.Contains(cleaned, ",") {
		if strings.Contains(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	hours, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse hours %q: %w", raw, err)
	}

	return roundMinutes(hours*60, "hours")
}

func parseMinutes(raw string) (int, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, nil
	}

	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	minutes, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse minutes %q: %w", raw, err)
	}

	return roundMinutes(minutes, "minutes")
}

func parseDateTime(value, layout string, location *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty datetime")
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04",
		"2006-01-02 15:04:05",
		"02.01.2006 15:04",
		"02.01.2006 03:04 PM",
	}
	if layout != "" {
		layouts = append([]string{layout}, layouts...)
	}

	for _, candidate := range layouts {
		if parsed, err := time.ParseInLocation(candidate, value, location); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported datetime format: %q", value)
}
