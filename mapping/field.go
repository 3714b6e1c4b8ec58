package mapping

import "errors"

var errAssign = errors.New("converted value does not match the field type")

// Strategy selects how a field finds its source column.
type Strategy int

const (
	// ByName resolves the column through the header row.
	ByName Strategy = iota
	// ByIndex uses a fixed zero-based column index.
	ByIndex
)

func (s Strategy) String() string {
	switch s {
	case ByName:
		return "by-name"
	case ByIndex:
		return "by-index"
	default:
		return "unknown"
	}
}

// Field is a typed handle for one settable field of T. Handles are created
// once per field and passed to Builder methods to pick the field to change.
type Field[T any] struct {
	name      string
	typ       string
	converter func() ValueConverter
	assign    func(rec *T, value any) error
}

// NewField describes the field of T reached through ref. The field's default
// converter is DefaultConverter[V].
func NewField[T, V any](name string, ref func(*T) *V) Field[T] {
	return newField(name, ref, DefaultConverter[V])
}

// NewEnumField describes a field whose values are looked up by name.
func NewEnumField[T, V any](name string, ref func(*T) *V, names map[string]V) Field[T] {
	return newField(name, ref, func() ValueConverter { return EnumConverter(names) })
}

func newField[T, V any](name string, ref func(*T) *V, converter func() ValueConverter) Field[T] {
	return Field[T]{
		name:      name,
		typ:       typeName[V](),
		converter: converter,
		assign: func(rec *T, value any) error {
			if value == nil {
				var zero V
				*ref(rec) = zero
				return nil
			}
			v, ok := value.(V)
			if !ok {
				return &ConversionError{Type: typeName[V](), Value: value, Err: errAssign}
			}
			*ref(rec) = v
			return nil
		},
	}
}

// Name returns the field name, which is also its default column name.
func (f Field[T]) Name() string {
	return f.name
}

// Type returns the name of the field's static type.
func (f Field[T]) Type() string {
	return f.typ
}

// DefaultConverter returns a new instance of the field's default converter.
func (f Field[T]) DefaultConverter() ValueConverter {
	return f.converter()
}

func (f Field[T]) valid() bool {
	return f.name != "" && f.assign != nil
}

// Describer is implemented by destination record types (on the pointer
// receiver). Fields lists the mapped fields in declaration order.
type Describer[T any] interface {
	*T
	Fields() []Field[T]
}

// FieldMap binds one destination field to a source column and converter.
// ColumnIndex is used when Strategy is ByIndex, ColumnName when ByName.
type FieldMap[T any] struct {
	Field       Field[T]
	Strategy    Strategy
	ColumnIndex int
	ColumnName  string
	Ignored     bool
	Converter   ValueConverter
}

func defaultFieldMap[T any](field Field[T]) FieldMap[T] {
	return FieldMap[T]{
		Field:      field,
		Strategy:   ByName,
		ColumnName: field.name,
		Converter:  field.converter(),
	}
}
