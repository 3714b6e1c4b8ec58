package mapping

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ValueConverter turns one untyped source cell into a destination value.
// Implementations are bound to their destination type when constructed.
type ValueConverter interface {
	Convert(value any) (any, error)
}

// ConverterFunc adapts an ordinary function to a ValueConverter.
// Errors returned by the function reach the caller unchanged.
type ConverterFunc func(value any) (any, error)

func (f ConverterFunc) Convert(value any) (any, error) {
	return f(value)
}

// Typed adapts a function producing V to a ValueConverter. A nil fn yields a
// nil converter, which the builder rejects.
func Typed[V any](fn func(value any) (V, error)) ValueConverter {
	if fn == nil {
		return nil
	}
	return ConverterFunc(func(value any) (any, error) {
		out, err := fn(value)
		if err != nil {
			return nil, err
		}
		return out, nil
	})
}

var (
	errUnsupported = errors.New("no conversion rule for this source type")
	errFraction    = errors.New("value has a fractional part")
	errOverflow    = errors.New("value out of range")
)

// builtinConverter marks the converters of this package, whose
// ConversionErrors get the cell position filled in.
type builtinConverter interface {
	builtin()
}

type defaultConverter[V any] struct{}

func (defaultConverter[V]) builtin() {}

// DefaultConverter returns the generic converter for V. A nil source value
// becomes V's zero value; a value already of type V passes through; other
// values go through a fixed table of coercion rules.
func DefaultConverter[V any]() ValueConverter {
	return defaultConverter[V]{}
}

func (defaultConverter[V]) Convert(value any) (any, error) {
	var out V
	if value == nil {
		return out, nil
	}
	if v, ok := value.(V); ok {
		return v, nil
	}

	var err error
	switch p := any(&out).(type) {
	case *string:
		*p, err = toString(value)
	case *bool:
		*p, err = toBool(value)
	case *int:
		*p, err = toSigned[int](value, strconv.IntSize)
	case *int8:
		*p, err = toSigned[int8](value, 8)
	case *int16:
		*p, err = toSigned[int16](value, 16)
	case *int32:
		*p, err = toSigned[int32](value, 32)
	case *int64:
		*p, err = toSigned[int64](value, 64)
	case *uint:
		*p, err = toUnsigned[uint](value, strconv.IntSize)
	case *uint8:
		*p, err = toUnsigned[uint8](value, 8)
	case *uint16:
		*p, err = toUnsigned[uint16](value, 16)
	case *uint32:
		*p, err = toUnsigned[uint32](value, 32)
	case *uint64:
		*p, err = toUnsigned[uint64](value, 64)
	case *float32:
		var f float64
		f, err = toFloat(value)
		if err == nil && !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
			err = errOverflow
		}
		*p = float32(f)
	case *float64:
		*p, err = toFloat(value)
	case *time.Time:
		*p, err = toTime(value)
	default:
		err = errUnsupported
	}
	if err != nil {
		return nil, &ConversionError{Type: typeName[V](), Value: value, Err: err}
	}
	return out, nil
}

type enumConverter[V any] struct {
	names map[string]V
}

func (enumConverter[V]) builtin() {}

// EnumConverter resolves string cells to values of V by name. Names match
// case-insensitively after trimming.
func EnumConverter[V any](names map[string]V) ValueConverter {
	folded := make(map[string]V, len(names))
	for name, value := range names {
		folded[strings.ToLower(strings.TrimSpace(name))] = value
	}
	return enumConverter[V]{names: folded}
}

func (c enumConverter[V]) Convert(value any) (any, error) {
	var out V
	switch v := value.(type) {
	case nil:
		return out, nil
	case V:
		return v, nil
	case string:
		if resolved, ok := c.names[strings.ToLower(strings.TrimSpace(v))]; ok {
			return resolved, nil
		}
		return nil, &ConversionError{Type: typeName[V](), Value: value, Err: fmt.Errorf("unknown name %q", v)}
	default:
		return nil, &ConversionError{Type: typeName[V](), Value: value, Err: errUnsupported}
	}
}

func typeName[V any]() string {
	var zero V
	return strings.TrimPrefix(fmt.Sprintf("%T", &zero), "*")
}

func toString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case time.Time:
		return v.Format(time.RFC3339), nil
	}
	if i, ok := exactInt(value); ok {
		return strconv.FormatInt(i, 10), nil
	}
	if u, ok := exactUint(value); ok {
		return strconv.FormatUint(u, 10), nil
	}
	return "", errUnsupported
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true, nil
		case "0", "false", "f", "no", "n", "off":
			return false, nil
		}
		return false, fmt.Errorf("invalid bool %q", v)
	}
	f, err := toFloat(value)
	if err != nil {
		return false, err
	}
	return f != 0, nil
}

type signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

func toSigned[N signed](value any, bits int) (N, error) {
	i, err := toInt64(value)
	if err != nil {
		return 0, err
	}
	lo, hi := int64(-1)<<(bits-1), int64(1)<<(bits-1)-1
	if bits == 64 {
		lo, hi = math.MinInt64, math.MaxInt64
	}
	if i < lo || i > hi {
		return 0, errOverflow
	}
	return N(i), nil
}

func toUnsigned[N unsigned](value any, bits int) (N, error) {
	u, err := toUint64(value)
	if err != nil {
		return 0, err
	}
	if bits < 64 && u > uint64(1)<<bits-1 {
		return 0, errOverflow
	}
	return N(u), nil
}

func toInt64(value any) (int64, error) {
	if i, ok := exactInt(value); ok {
		return i, nil
	}
	if u, ok := exactUint(value); ok {
		if u > math.MaxInt64 {
			return 0, errOverflow
		}
		return int64(u), nil
	}
	if s, ok := value.(string); ok {
		s = strings.TrimSpace(s)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("parse integer %q: %w", s, err)
		}
		return floatToInt64(f)
	}
	f, err := toFloat(value)
	if err != nil {
		return 0, err
	}
	return floatToInt64(f)
}

func toUint64(value any) (uint64, error) {
	if u, ok := exactUint(value); ok {
		return u, nil
	}
	if s, ok := value.(string); ok {
		s = strings.TrimSpace(s)
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return u, nil
		}
	}
	if f, ok := value.(float64); ok && f >= 0 {
		return floatToUint64(f)
	}
	i, err := toInt64(value)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, errOverflow
	}
	return uint64(i), nil
}

func floatToUint64(f float64) (uint64, error) {
	// 2^64 is exactly representable; anything at or above it overflows.
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.Ldexp(1, 64) {
		return 0, errOverflow
	}
	if f != math.Trunc(f) {
		return 0, errFraction
	}
	return uint64(f), nil
}

func floatToInt64(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errOverflow
	}
	if f != math.Trunc(f) {
		return 0, errFraction
	}
	return int64(f), nil
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("parse number %q: %w", v, err)
		}
		return f, nil
	}
	if i, ok := exactInt(value); ok {
		return float64(i), nil
	}
	if u, ok := exactUint(value); ok {
		return float64(u), nil
	}
	return 0, errUnsupported
}

func exactInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

func exactUint(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint:
		return uint64(v), true
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint64:
		return v, true
	}
	return 0, false
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02.01.2006",
	"02.01.2006 15:04",
	"01/02/2006",
}

// toTime reads numbers as Excel serial dates in the 1900 date system and
// strings in a fixed list of layouts. Results are in UTC.
func toTime(value any) (time.Time, error) {
	if t, ok := value.(time.Time); ok {
		return t, nil
	}
	if s, ok := value.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return time.Time{}, fmt.Errorf("empty time")
		}
		if serial, err := strconv.ParseFloat(s, 64); err == nil {
			return serialTime(serial)
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("unsupported time format %q", s)
	}
	serial, err := toFloat(value)
	if err != nil {
		return time.Time{}, err
	}
	return serialTime(serial)
}

func serialTime(serial float64) (time.Time, error) {
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, err
	}
	return t.Round(time.Millisecond), nil
}
