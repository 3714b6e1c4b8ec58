package mapping

import (
	"fmt"
	"slices"
	"strings"
)

// Builder stages a Configuration for records of type T.
type Builder[T any] struct {
	sheetName                   string
	firstRowIsHeader            bool
	skipEmptyHeaderNames        bool
	trimWhitespaceInHeaderNames bool
	fieldMaps                   []FieldMap[T]
}

// Default returns a builder seeded from the fields T describes. Every field
// is mapped by its own name with the default converter; the first row is a
// header, blank header cells are skipped and header whitespace is kept.
func Default[T any, PT Describer[T]]() *Builder[T] {
	return NewBuilder(PT(new(T)).Fields()...)
}

// NewBuilder returns a builder seeded from an explicit field list. It panics
// on an unnamed or duplicated field, which is a bug in the field list.
func NewBuilder[T any](fields ...Field[T]) *Builder[T] {
	b := &Builder[T]{
		firstRowIsHeader:     true,
		skipEmptyHeaderNames: true,
		fieldMaps:            make([]FieldMap[T], 0, len(fields)),
	}
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if !field.valid() {
			panic(fmt.Sprintf("mapping: invalid field in description of %s", typeName[T]()))
		}
		if _, dup := seen[field.name]; dup {
			panic(fmt.Sprintf("mapping: field %q described twice for %s", field.name, typeName[T]()))
		}
		seen[field.name] = struct{}{}
		b.fieldMaps = append(b.fieldMaps, defaultFieldMap(field))
	}
	return b
}

// UseSheet selects the sheet to read by name.
func (b *Builder[T]) UseSheet(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ConfigError{Reason: "configured sheet name is empty"}
	}
	b.sheetName = name
	return nil
}

// FirstRowIsHeader sets whether the first row holds column names. Without a
// header every field has to be mapped by index.
func (b *Builder[T]) FirstRowIsHeader(flag bool) {
	b.firstRowIsHeader = flag
}

// SkipEmptyHeaderNames sets whether blank header cells are ignored instead
// of failing the read.
func (b *Builder[T]) SkipEmptyHeaderNames(flag bool) {
	b.skipEmptyHeaderNames = flag
}

// TrimWhitespaceInHeaderNames sets whether all whitespace is removed from
// header names (and configured column names) before matching.
func (b *Builder[T]) TrimWhitespaceInHeaderNames(flag bool) {
	b.trimWhitespaceInHeaderNames = flag
}

// MapByIndex reads field from the zero-based column index.
func (b *Builder[T]) MapByIndex(field Field[T], index int) error {
	if index < 0 {
		return &ConfigError{Field: field.name, Reason: fmt.Sprintf("configured column index %d is invalid", index)}
	}
	fm, err := b.fieldMap(field)
	if err != nil {
		return err
	}
	fm.Strategy = ByIndex
	fm.ColumnIndex = index
	return nil
}

// MapByName reads field from the column whose header matches name,
// ignoring case.
func (b *Builder[T]) MapByName(field Field[T], name string) error {
	if strings.TrimSpace(name) == "" {
		return &ConfigError{Field: field.name, Reason: fmt.Sprintf("configured column name %q is invalid", name)}
	}
	fm, err := b.fieldMap(field)
	if err != nil {
		return err
	}
	fm.Strategy = ByName
	fm.ColumnName = name
	return nil
}

// ConvertWith replaces the converter of field.
func (b *Builder[T]) ConvertWith(field Field[T], converter ValueConverter) error {
	if isNilConverter(converter) {
		return &ConfigError{Field: field.name, Reason: "converter is nil"}
	}
	fm, err := b.fieldMap(field)
	if err != nil {
		return err
	}
	fm.Converter = converter
	return nil
}

// ConvertFunc replaces the converter of field with fn.
func (b *Builder[T]) ConvertFunc(field Field[T], fn func(value any) (any, error)) error {
	if fn == nil {
		return &ConfigError{Field: field.name, Reason: "converter function is nil"}
	}
	return b.ConvertWith(field, ConverterFunc(fn))
}

// Ignore excludes field from mapping; it keeps its zero value.
func (b *Builder[T]) Ignore(field Field[T]) error {
	fm, err := b.fieldMap(field)
	if err != nil {
		return err
	}
	fm.Ignored = true
	return nil
}

// Lookup returns the handle of the field called name.
func (b *Builder[T]) Lookup(name string) (Field[T], error) {
	for _, fm := range b.fieldMaps {
		if fm.Field.name == name {
			return fm.Field, nil
		}
	}
	return Field[T]{}, &ConfigError{Field: name, Reason: fmt.Sprintf("field cannot be found for type %s", typeName[T]())}
}

// Build freezes the current state. The builder stays usable and later
// changes do not affect configurations already built.
func (b *Builder[T]) Build() *Configuration[T] {
	return &Configuration[T]{
		sheetName:                   b.sheetName,
		firstRowIsHeader:            b.firstRowIsHeader,
		skipEmptyHeaderNames:        b.skipEmptyHeaderNames,
		trimWhitespaceInHeaderNames: b.trimWhitespaceInHeaderNames,
		fieldMaps:                   slices.Clone(b.fieldMaps),
	}
}

func (b *Builder[T]) fieldMap(field Field[T]) (*FieldMap[T], error) {
	if !field.valid() {
		return nil, &ConfigError{Reason: "invalid field reference"}
	}
	for i := range b.fieldMaps {
		if b.fieldMaps[i].Field.name == field.name {
			return &b.fieldMaps[i], nil
		}
	}
	return nil, &ConfigError{Field: field.name, Reason: fmt.Sprintf("field cannot be found for type %s", typeName[T]())}
}

// isNilConverter also catches a nil ConverterFunc wrapped in the interface.
func isNilConverter(converter ValueConverter) bool {
	if converter == nil {
		return true
	}
	fn, ok := converter.(ConverterFunc)
	return ok && fn == nil
}
