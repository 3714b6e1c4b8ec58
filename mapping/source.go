package mapping

// Source is a cursor over the sheets and rows of a tabular document. It
// yields untyped cells and does no mapping of its own. A Source is a single
// mutable cursor and must be driven by one iterator at a time.
type Source interface {
	// Reset rewinds to the first sheet and before its first row.
	Reset() error
	// SheetName returns the name of the current sheet.
	SheetName() string
	// NextSheet moves to the next sheet. It reports false when there is none.
	NextSheet() (bool, error)
	// NextRow moves to the next row of the current sheet. It reports false
	// when the sheet is exhausted.
	NextRow() (bool, error)
	// FieldCount returns the number of cells in the current row.
	FieldCount() int
	// StringValue returns the text of a cell in the current row.
	StringValue(col int) string
	// Value returns the raw cell value, nil for empty or missing cells.
	Value(col int) any
	Close() error
}
