package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const defaultCSVSheet = "Sheet1"

// CSV serves a delimited text file as a single sheet. UTF-16 input with a
// byte order mark is decoded to UTF-8.
type CSV struct {
	input    io.Reader
	closer   io.Closer
	name     string
	comma    rune
	reader   *csv.Reader
	record   []string
	row      int
	consumed bool
	closed   bool
}

// CSVOption configures a CSV source.
type CSVOption func(*CSV)

// WithComma sets the field delimiter.
func WithComma(comma rune) CSVOption {
	return func(c *CSV) { c.comma = comma }
}

// WithSheetName sets the name the single sheet reports.
func WithSheetName(name string) CSVOption {
	return func(c *CSV) { c.name = name }
}

// OpenCSV opens the file at path. The sheet is named after the file.
func OpenCSV(path string, opts ...CSVOption) (*CSV, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	base := filepath.Base(path)
	opts = append([]CSVOption{WithSheetName(strings.TrimSuffix(base, filepath.Ext(base)))}, opts...)
	c := NewCSV(file, opts...)
	c.closer = file
	return c, nil
}

// NewCSV reads from r. Readers that are not io.Seeker support a single
// traversal only.
func NewCSV(r io.Reader, opts ...CSVOption) *CSV {
	c := &CSV{input: r, name: defaultCSVSheet, comma: ','}
	for _, opt := range opts {
		opt(c)
	}
	if closer, ok := r.(io.Closer); ok {
		c.closer = closer
	}
	c.reader = c.newReader()
	return c
}

func (c *CSV) newReader() *csv.Reader {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := csv.NewReader(transform.NewReader(c.input, decoder))
	reader.Comma = c.comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

func (c *CSV) Reset() error {
	if c.closed {
		return ErrClosed
	}
	c.record = nil
	c.row = 0
	if !c.consumed {
		return nil
	}
	seeker, ok := c.input.(io.Seeker)
	if !ok {
		return errors.New("csv stream cannot be re-read")
	}
	if _, err := seeker.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind csv stream: %w", err)
	}
	c.reader = c.newReader()
	c.consumed = false
	return nil
}

func (c *CSV) SheetName() string {
	return c.name
}

func (c *CSV) NextSheet() (bool, error) {
	return false, nil
}

func (c *CSV) NextRow() (bool, error) {
	c.consumed = true
	c.record = nil
	record, err := c.reader.Read()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read csv row %d: %w", c.row+1, err)
	}
	c.row++
	c.record = record
	return true, nil
}

func (c *CSV) FieldCount() int {
	return len(c.record)
}

func (c *CSV) StringValue(col int) string {
	if col < 0 || col >= len(c.record) {
		return ""
	}
	return c.record[col]
}

// Value returns the cell text, or nil for an empty cell.
func (c *CSV) Value(col int) any {
	if value := c.StringValue(col); value != "" {
		return value
	}
	return nil
}

func (c *CSV) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}
