package source

import (
	"errors"
	"fmt"
)

// ErrClosed is returned when a closed source is reset.
var ErrClosed = errors.New("source is closed")

// Sheet is one named table of a Memory source.
type Sheet struct {
	Name string
	Rows [][]any
}

// Memory serves cells from in-memory sheets.
type Memory struct {
	sheets []Sheet
	sheet  int
	row    int
	closed bool
}

func NewMemory(sheets ...Sheet) *Memory {
	return &Memory{sheets: sheets, row: -1}
}

func (m *Memory) Reset() error {
	if m.closed {
		return ErrClosed
	}
	m.sheet = 0
	m.row = -1
	return nil
}

func (m *Memory) SheetName() string {
	if m.sheet >= len(m.sheets) {
		return ""
	}
	return m.sheets[m.sheet].Name
}

func (m *Memory) NextSheet() (bool, error) {
	if m.sheet+1 >= len(m.sheets) {
		return false, nil
	}
	m.sheet++
	m.row = -1
	return true, nil
}

func (m *Memory) NextRow() (bool, error) {
	if m.sheet >= len(m.sheets) {
		return false, nil
	}
	rows := m.sheets[m.sheet].Rows
	if m.row < len(rows) {
		m.row++
	}
	return m.row < len(rows), nil
}

func (m *Memory) FieldCount() int {
	return len(m.current())
}

func (m *Memory) StringValue(col int) string {
	value := m.Value(col)
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

func (m *Memory) Value(col int) any {
	cells := m.current()
	if col < 0 || col >= len(cells) {
		return nil
	}
	return cells[col]
}

func (m *Memory) Close() error {
	m.closed = true
	return nil
}

func (m *Memory) current() []any {
	if m.sheet >= len(m.sheets) {
		return nil
	}
	rows := m.sheets[m.sheet].Rows
	if m.row < 0 || m.row >= len(rows) {
		return nil
	}
	return rows[m.row]
}
