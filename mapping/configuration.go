package mapping

import "slices"

// Configuration is the frozen result of a Builder. It is safe to share
// between iterators.
type Configuration[T any] struct {
	sheetName                   string
	firstRowIsHeader            bool
	skipEmptyHeaderNames        bool
	trimWhitespaceInHeaderNames bool
	fieldMaps                   []FieldMap[T]
}

// SheetName is the sheet to read; empty means the source's current sheet.
func (c *Configuration[T]) SheetName() string {
	return c.sheetName
}

func (c *Configuration[T]) FirstRowIsHeader() bool {
	return c.firstRowIsHeader
}

func (c *Configuration[T]) SkipEmptyHeaderNames() bool {
	return c.skipEmptyHeaderNames
}

func (c *Configuration[T]) TrimWhitespaceInHeaderNames() bool {
	return c.trimWhitespaceInHeaderNames
}

// FieldMaps returns a copy of the field maps in declaration order.
func (c *Configuration[T]) FieldMaps() []FieldMap[T] {
	return slices.Clone(c.fieldMaps)
}
