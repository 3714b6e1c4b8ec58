// Package source provides the raw tabular sources the mapping iterator reads:
// Excel workbooks, delimited text files and in-memory sheets.
package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"sheetmap/mapping"
)

var (
	_ mapping.Source = (*Excel)(nil)
	_ mapping.Source = (*CSV)(nil)
	_ mapping.Source = (*Memory)(nil)
)

const (
	FormatCSV   = "csv"
	FormatTSV   = "tsv"
	FormatExcel = "excel"
)

// OpenOptions carries the settings Open passes on to the concrete source.
type OpenOptions struct {
	Password        string
	FormattedValues bool
}

// Open opens path as a source of the given format. An empty format is
// inferred from the file extension.
func Open(path, format string, options OpenOptions) (mapping.Source, error) {
	resolved, err := InferFormat(path, format)
	if err != nil {
		return nil, err
	}

	switch resolved {
	case FormatCSV:
		return OpenCSV(path)
	case FormatTSV:
		return OpenCSV(path, WithComma('\t'))
	default:
		var opts []ExcelOption
		if options.Password != "" {
			opts = append(opts, WithPassword(options.Password))
		}
		if options.FormattedValues {
			opts = append(opts, WithFormattedValues())
		}
		return OpenExcel(path, opts...)
	}
}

// InferFormat normalizes an explicit format name or derives one from the
// extension of path.
func InferFormat(path, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		switch normalizeFormat(format) {
		case "csv":
			return FormatCSV, nil
		case "tsv", "tab":
			return FormatTSV, nil
		case "excel", "xlsx", "xlsm", "xltx", "xltm":
			return FormatExcel, nil
		default:
			return "", fmt.Errorf("unsupported input format: %s", format)
		}
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "csv":
		return FormatCSV, nil
	case "tsv", "tab":
		return FormatTSV, nil
	case "xlsx", "xlsm", "xltx", "xltm":
		return FormatExcel, nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}

func normalizeFormat(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	trimmed = strings.ReplaceAll(trimmed, ".", "")
	return trimmed
}
