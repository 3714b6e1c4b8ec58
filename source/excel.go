package source

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Excel streams the sheets of a workbook in workbook order.
type Excel struct {
	file    *excelize.File
	sheets  []string
	sheet   int
	rows    *excelize.Rows
	cells   []string
	columns excelize.Options
	closed  bool
}

type excelSettings struct {
	password    string
	hasPassword bool
	formatted   bool
}

// ExcelOption configures an Excel source.
type ExcelOption func(*excelSettings)

// WithPassword opens an encrypted workbook.
func WithPassword(password string) ExcelOption {
	return func(s *excelSettings) {
		s.password = password
		s.hasPassword = true
	}
}

// WithFormattedValues returns cells as displayed by the number format
// instead of their raw stored values.
func WithFormattedValues() ExcelOption {
	return func(s *excelSettings) { s.formatted = true }
}

// OpenExcel opens the workbook at path.
func OpenExcel(path string, opts ...ExcelOption) (*Excel, error) {
	settings, err := applyExcelOptions(opts)
	if err != nil {
		return nil, err
	}
	file, err := excelize.OpenFile(path, excelize.Options{Password: settings.password})
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", path, err)
	}
	return newExcel(file, settings)
}

// NewExcel reads a workbook from r.
func NewExcel(r io.Reader, opts ...ExcelOption) (*Excel, error) {
	settings, err := applyExcelOptions(opts)
	if err != nil {
		return nil, err
	}
	file, err := excelize.OpenReader(r, excelize.Options{Password: settings.password})
	if err != nil {
		return nil, fmt.Errorf("open excel workbook: %w", err)
	}
	return newExcel(file, settings)
}

func applyExcelOptions(opts []ExcelOption) (excelSettings, error) {
	var settings excelSettings
	for _, opt := range opts {
		opt(&settings)
	}
	if settings.hasPassword && strings.TrimSpace(settings.password) == "" {
		return settings, errors.New("configured workbook password is empty")
	}
	return settings, nil
}

func newExcel(file *excelize.File, settings excelSettings) (*Excel, error) {
	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		_ = file.Close()
		return nil, errors.New("excel workbook has no sheets")
	}
	x := &Excel{
		file:    file,
		sheets:  sheets,
		columns: excelize.Options{RawCellValue: !settings.formatted},
	}
	if err := x.openRows(0); err != nil {
		_ = file.Close()
		return nil, err
	}
	return x, nil
}

// Sheets lists the sheet names in workbook order.
func (x *Excel) Sheets() []string {
	return append([]string(nil), x.sheets...)
}

func (x *Excel) Reset() error {
	if x.closed {
		return ErrClosed
	}
	return x.openRows(0)
}

func (x *Excel) SheetName() string {
	if x.sheet >= len(x.sheets) {
		return ""
	}
	return x.sheets[x.sheet]
}

func (x *Excel) NextSheet() (bool, error) {
	if x.sheet+1 >= len(x.sheets) {
		return false, nil
	}
	if err := x.openRows(x.sheet + 1); err != nil {
		return false, err
	}
	return true, nil
}

func (x *Excel) NextRow() (bool, error) {
	x.cells = nil
	if x.rows == nil {
		return false, nil
	}
	if !x.rows.Next() {
		if err := x.rows.Error(); err != nil {
			return false, fmt.Errorf("read rows from sheet %s: %w", x.SheetName(), err)
		}
		return false, nil
	}
	cells, err := x.rows.Columns(x.columns)
	if err != nil {
		return false, fmt.Errorf("read row from sheet %s: %w", x.SheetName(), err)
	}
	x.cells = cells
	return true, nil
}

func (x *Excel) FieldCount() int {
	return len(x.cells)
}

func (x *Excel) StringValue(col int) string {
	if col < 0 || col >= len(x.cells) {
		return ""
	}
	return x.cells[col]
}

// Value returns the cell text, or nil for an empty cell.
func (x *Excel) Value(col int) any {
	if value := x.StringValue(col); value != "" {
		return value
	}
	return nil
}

func (x *Excel) Close() error {
	if x.closed {
		return nil
	}
	x.closed = true
	return errors.Join(x.closeRows(), x.file.Close())
}

// openRows switches to sheet index. On failure the current sheet stays
// selected but has no rows left.
func (x *Excel) openRows(index int) error {
	if err := x.closeRows(); err != nil {
		return err
	}
	x.cells = nil
	rows, err := x.file.Rows(x.sheets[index])
	if err != nil {
		return fmt.Errorf("open rows of sheet %s: %w", x.sheets[index], err)
	}
	x.sheet = index
	x.rows = rows
	return nil
}

func (x *Excel) closeRows() error {
	if x.rows == nil {
		return nil
	}
	err := x.rows.Close()
	x.rows = nil
	return err
}
