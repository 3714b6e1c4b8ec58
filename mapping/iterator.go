package mapping

import (
	"iter"
	"strings"
	"unicode"
)

type state int

const (
	stateUnstarted state = iota
	stateSheetSelecting
	stateHeaderResolving
	stateStreaming
	stateExhausted
	stateFailed
)

// Iterator maps the rows of one Source into records of type T. It owns the
// source until Close. Every traversal started with Rows or All rewinds the
// source, so the sequence can be read any number of times, one traversal at
// a time.
type Iterator[T any] struct {
	src    Source
	cfg    *Configuration[T]
	gen    uint64
	closed bool

	// columns maps folded header names to column indexes. It is rebuilt at
	// the start of every traversal.
	columns map[string]int
}

// Create binds src and cfg. Nothing is read until the first record is pulled.
func Create[T any](src Source, cfg *Configuration[T]) *Iterator[T] {
	return &Iterator[T]{src: src, cfg: cfg}
}

// CreateWith builds the configuration from T's default builder and configure.
// A configure error is returned before the source is touched.
func CreateWith[T any, PT Describer[T]](src Source, configure func(*Builder[T]) error) (*Iterator[T], error) {
	b := Default[T, PT]()
	if configure != nil {
		if err := configure(b); err != nil {
			return nil, err
		}
	}
	return Create(src, b.Build()), nil
}

// Configuration returns the configuration the iterator maps with.
func (it *Iterator[T]) Configuration() *Configuration[T] {
	return it.cfg
}

// Rows begins a new traversal. Any earlier traversal of this iterator stops
// being usable.
func (it *Iterator[T]) Rows() *Rows[T] {
	it.gen++
	return &Rows[T]{it: it, gen: it.gen}
}

// All returns the records as a sequence. Each range over it is a new
// traversal; a failure is yielded once with the zero record and ends it.
func (it *Iterator[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		rows := it.Rows()
		for rows.Next() {
			if !yield(rows.Record(), nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			var zero T
			yield(zero, err)
		}
	}
}

// Collect reads one full traversal.
func (it *Iterator[T]) Collect() ([]T, error) {
	var records []T
	rows := it.Rows()
	for rows.Next() {
		records = append(records, rows.Record())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Close releases the source. Calling Close again is a no-op.
func (it *Iterator[T]) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.columns = nil
	return it.src.Close()
}

// Rows is one traversal of an Iterator.
type Rows[T any] struct {
	it     *Iterator[T]
	gen    uint64
	state  state
	row    int
	record T
	err    error
}

// Next materializes the next record. It returns false when the sheet is
// exhausted or an error occurred; see Err.
func (r *Rows[T]) Next() bool {
	switch r.state {
	case stateExhausted, stateFailed:
		return false
	}
	if r.it.closed {
		return r.fail(ErrClosed)
	}
	if r.gen != r.it.gen {
		return r.fail(ErrTraversalSuperseded)
	}
	if r.state == stateUnstarted {
		if err := r.begin(); err != nil {
			return r.fail(err)
		}
	}

	ok, err := r.it.src.NextRow()
	if err != nil {
		return r.fail(&SourceError{Op: "read row", Err: err})
	}
	if !ok {
		var zero T
		r.record = zero
		r.state = stateExhausted
		return false
	}
	r.row++

	record, err := r.it.materialize(r.row)
	if err != nil {
		return r.fail(err)
	}
	r.record = record
	return true
}

// Record returns the record materialized by the last successful Next.
func (r *Rows[T]) Record() T {
	return r.record
}

// RowNumber returns the one-based position of the current row in its sheet,
// counting the header row.
func (r *Rows[T]) RowNumber() int {
	return r.row
}

// Err returns the error that ended the traversal, if any.
func (r *Rows[T]) Err() error {
	return r.err
}

func (r *Rows[T]) fail(err error) bool {
	var zero T
	r.record = zero
	r.err = err
	r.state = stateFailed
	return false
}

func (r *Rows[T]) begin() error {
	it := r.it
	it.columns = nil
	if err := it.src.Reset(); err != nil {
		return &SourceError{Op: "reset", Err: err}
	}

	r.state = stateSheetSelecting
	if err := it.selectSheet(); err != nil {
		return err
	}

	r.state = stateHeaderResolving
	resolved, err := it.resolveColumns()
	if err != nil {
		return err
	}
	if resolved {
		r.row++
	}

	r.state = stateStreaming
	return nil
}

// selectSheet advances to the configured sheet. Names match ignoring case.
func (it *Iterator[T]) selectSheet() error {
	name := it.cfg.sheetName
	if name == "" {
		return nil
	}
	for !strings.EqualFold(it.src.SheetName(), name) {
		ok, err := it.src.NextSheet()
		if err != nil {
			return &SourceError{Op: "select sheet", Err: err}
		}
		if !ok {
			return &SheetNotFoundError{Sheet: name}
		}
	}
	return nil
}

// resolveColumns reads the header row, if there is one, and reports whether
// a row was consumed. Later duplicates of a name win.
func (it *Iterator[T]) resolveColumns() (bool, error) {
	it.columns = make(map[string]int)
	if !it.cfg.firstRowIsHeader {
		return false, nil
	}

	ok, err := it.src.NextRow()
	if err != nil {
		return false, &SourceError{Op: "read header", Err: err}
	}
	if !ok || it.src.FieldCount() == 0 {
		return false, &HeaderReadError{Sheet: it.src.SheetName()}
	}

	for col := 0; col < it.src.FieldCount(); col++ {
		name := it.src.StringValue(col)
		if strings.TrimSpace(name) == "" {
			if it.cfg.skipEmptyHeaderNames {
				continue
			}
			return true, &EmptyHeaderNameError{Sheet: it.src.SheetName(), Column: col}
		}
		it.columns[it.columnKey(name)] = col
	}
	return true, nil
}

func (it *Iterator[T]) columnKey(name string) string {
	if it.cfg.trimWhitespaceInHeaderNames {
		name = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, name)
	}
	return strings.ToLower(name)
}

func (it *Iterator[T]) materialize(row int) (T, error) {
	var record T
	for _, fm := range it.cfg.fieldMaps {
		if fm.Ignored {
			continue
		}

		col := fm.ColumnIndex
		if fm.Strategy == ByName {
			var ok bool
			col, ok = it.columns[it.columnKey(fm.ColumnName)]
			if !ok {
				var zero T
				return zero, &ColumnNotFoundError{
					Sheet:  it.src.SheetName(),
					Column: fm.ColumnName,
					Field:  fm.Field.name,
					Row:    row,
				}
			}
		}

		value, err := fm.Converter.Convert(it.src.Value(col))
		if err != nil {
			// Errors of user converters are returned as they are.
			if _, ok := fm.Converter.(builtinConverter); ok {
				err = it.locate(err, fm.Field.name, row, col)
			}
			var zero T
			return zero, err
		}
		if err := fm.Field.assign(&record, value); err != nil {
			var zero T
			return zero, it.locate(err, fm.Field.name, row, col)
		}
	}
	return record, nil
}

// locate returns a copy of a ConversionError carrying the cell position.
// Other errors pass through.
func (it *Iterator[T]) locate(err error, field string, row, col int) error {
	convErr, ok := err.(*ConversionError)
	if !ok || convErr.Field != "" {
		return err
	}
	located := *convErr
	located.Sheet = it.src.SheetName()
	located.Row = row
	located.Column = col
	located.Field = field
	return &located
}
