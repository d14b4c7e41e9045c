package convert

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrUnsupported is returned when no conversion path exists between two types.
var ErrUnsupported = errors.New("unsupported conversion")

// converterFunc converts a value of a fixed source type into a fixed
// destination type. ok is false when this particular value cannot be
// represented (overflow, unparsable string, ...).
type converterFunc func(v reflect.Value) (out reflect.Value, ok bool)

type converterKey struct {
	src, dst reflect.Type
}

// Built once per type pair and reused.
var converterCache sync.Map // map[converterKey]converterFunc

var timeType = reflect.TypeOf(time.Time{})

var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// To converts value into a reflect.Value of type t.
//
// Resolution order:
//  1. nil yields the zero value of t.
//  2. A value assignable to t is returned as is.
//  3. Pointers are bridged in both directions (*V -> T, V -> *T).
//  4. Scalar conversions between basic kinds, strings and time.Time.
//  5. The Default serializer round-trip (Marshal then Unmarshal into t).
func To(value any, t reflect.Type) (reflect.Value, error) {
	if t == nil {
		return reflect.Value{}, fmt.Errorf("%w: nil target type", ErrUnsupported)
	}
	if value == nil {
		return reflect.Zero(t), nil
	}
	return convertValue(reflect.ValueOf(value), t)
}

func convertValue(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Zero(t), nil
	}
	if v.Type().AssignableTo(t) {
		return v, nil
	}

	// Unwrap pointer sources
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Zero(t), nil
		}
		return convertValue(v.Elem(), t)
	}

	// Wrap into pointer targets
	if t.Kind() == reflect.Pointer {
		inner, err := convertValue(v, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(inner)
		return ptr, nil
	}

	if fn := lookupConverter(v.Type(), t); fn != nil {
		if out, ok := fn(v); ok {
			return out, nil
		}
	}

	return roundTrip(v, t)
}

func roundTrip(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	s := Default()
	data, err := s.Marshal(v.Interface())
	if err != nil {
		return reflect.Value{}, fmt.Errorf("convert %s to %s: %w", v.Type(), t, err)
	}
	out := reflect.New(t)
	if err := s.Unmarshal(data, out.Interface()); err != nil {
		return reflect.Value{}, fmt.Errorf("convert %s to %s: %w", v.Type(), t, err)
	}
	return out.Elem(), nil
}

func lookupConverter(src, dst reflect.Type) converterFunc {
	key := converterKey{src: src, dst: dst}
	if cached, ok := converterCache.Load(key); ok {
		return cached.(converterFunc)
	}
	fn := buildConverter(src, dst)
	actual, _ := converterCache.LoadOrStore(key, fn)
	return actual.(converterFunc)
}

// buildConverter picks a scalar converter for a type pair. A nil result means
// the pair is left to the serializer.
func buildConverter(src, dst reflect.Type) converterFunc {
	switch {
	case dst == timeType:
		return buildTimeConverter(src)
	case src == timeType && dst.Kind() == reflect.String:
		return func(v reflect.Value) (reflect.Value, bool) {
			return reflect.ValueOf(v.Interface().(time.Time).Format(time.RFC3339Nano)).Convert(dst), true
		}
	case isNumber(dst.Kind()):
		return buildNumberConverter(src, dst)
	case dst.Kind() == reflect.String:
		return buildStringConverter(src, dst)
	case dst.Kind() == reflect.Bool:
		return buildBoolConverter(src, dst)
	case dst.Kind() == reflect.Slice && dst.Elem().Kind() == reflect.Uint8 && src.Kind() == reflect.String:
		return func(v reflect.Value) (reflect.Value, bool) {
			return reflect.ValueOf([]byte(v.String())).Convert(dst), true
		}
	case src.Kind() == dst.Kind() && src.ConvertibleTo(dst) && src.Kind() != reflect.Interface:
		// Named/unnamed variants of the same shape (type Tags []string <- []string).
		return func(v reflect.Value) (reflect.Value, bool) {
			return v.Convert(dst), true
		}
	}
	return nil
}

// ===================
// NUMBER CONVERTERS
// ===================
func buildNumberConverter(src, dst reflect.Type) converterFunc {
	switch {
	case isNumber(src.Kind()):
		return func(v reflect.Value) (reflect.Value, bool) {
			if overflows(v, dst) {
				return reflect.Value{}, false
			}
			return v.Convert(dst), true
		}
	case src.Kind() == reflect.String:
		return func(v reflect.Value) (reflect.Value, bool) {
			return parseNumber(strings.TrimSpace(v.String()), dst)
		}
	case src.Kind() == reflect.Bool:
		return func(v reflect.Value) (reflect.Value, bool) {
			n := 0
			if v.Bool() {
				n = 1
			}
			return reflect.ValueOf(n).Convert(dst), true
		}
	}
	return nil
}

func parseNumber(s string, dst reflect.Type) (reflect.Value, bool) {
	out := reflect.New(dst).Elem()
	switch {
	case isInt(dst.Kind()):
		n, err := strconv.ParseInt(s, 10, dst.Bits())
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetInt(n)
	case isUint(dst.Kind()):
		n, err := strconv.ParseUint(s, 10, dst.Bits())
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetUint(n)
	case isFloat(dst.Kind()):
		f, err := strconv.ParseFloat(s, dst.Bits())
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetFloat(f)
	default:
		return reflect.Value{}, false
	}
	return out, true
}

// overflows reports whether v cannot be represented in dst without loss of
// integral range. Float truncation towards zero is accepted. As float64,
// math.MaxInt64 and math.MaxUint64 round up to 1<<63 and 1<<64, which are
// themselves out of range.
func overflows(v reflect.Value, dst reflect.Type) bool {
	switch {
	case isInt(dst.Kind()):
		switch {
		case isInt(v.Kind()):
			return reflect.New(dst).Elem().OverflowInt(v.Int())
		case isUint(v.Kind()):
			return v.Uint() > math.MaxInt64 || reflect.New(dst).Elem().OverflowInt(int64(v.Uint()))
		case isFloat(v.Kind()):
			f := v.Float()
			return math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 || reflect.New(dst).Elem().OverflowInt(int64(f))
		}
	case isUint(dst.Kind()):
		switch {
		case isInt(v.Kind()):
			return v.Int() < 0 || reflect.New(dst).Elem().OverflowUint(uint64(v.Int()))
		case isUint(v.Kind()):
			return reflect.New(dst).Elem().OverflowUint(v.Uint())
		case isFloat(v.Kind()):
			f := v.Float()
			return math.IsNaN(f) || f < 0 || f >= math.MaxUint64 || reflect.New(dst).Elem().OverflowUint(uint64(f))
		}
	case dst.Kind() == reflect.Float32:
		if isFloat(v.Kind()) {
			return reflect.New(dst).Elem().OverflowFloat(v.Float())
		}
	}
	return false
}

// ===================
// STRING CONVERTERS
// ===================
func buildStringConverter(src, dst reflect.Type) converterFunc {
	switch {
	case src.Kind() == reflect.String:
		// Enumerations declared as named string types.
		return func(v reflect.Value) (reflect.Value, bool) {
			return v.Convert(dst), true
		}
	case isInt(src.Kind()):
		return func(v reflect.Value) (reflect.Value, bool) {
			return reflect.ValueOf(strconv.FormatInt(v.Int(), 10)).Convert(dst), true
		}
	case isUint(src.Kind()):
		return func(v reflect.Value) (reflect.Value, bool) {
			return reflect.ValueOf(strconv.FormatUint(v.Uint(), 10)).Convert(dst), true
		}
	case isFloat(src.Kind()):
		return func(v reflect.Value) (reflect.Value, bool) {
			return reflect.ValueOf(strconv.FormatFloat(v.Float(), 'f', -1, src.Bits())).Convert(dst), true
		}
	case src.Kind() == reflect.Bool:
		return func(v reflect.Value) (reflect.Value, bool) {
			return reflect.ValueOf(strconv.FormatBool(v.Bool())).Convert(dst), true
		}
	case src.Kind() == reflect.Slice && src.Elem().Kind() == reflect.Uint8:
		return func(v reflect.Value) (reflect.Value, bool) {
			return reflect.ValueOf(string(v.Bytes())).Convert(dst), true
		}
	}
	if src.Implements(stringerType) {
		return func(v reflect.Value) (reflect.Value, bool) {
			return reflect.ValueOf(v.Interface().(fmt.Stringer).String()).Convert(dst), true
		}
	}
	return nil
}

var stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()

// ===================
// BOOL CONVERTERS
// ===================
func buildBoolConverter(src, dst reflect.Type) converterFunc {
	switch {
	case src.Kind() == reflect.Bool:
		return func(v reflect.Value) (reflect.Value, bool) {
			return v.Convert(dst), true
		}
	case src.Kind() == reflect.String:
		return func(v reflect.Value) (reflect.Value, bool) {
			b, err := strconv.ParseBool(strings.TrimSpace(v.String()))
			if err != nil {
				return reflect.Value{}, false
			}
			return reflect.ValueOf(b).Convert(dst), true
		}
	case isInt(src.Kind()):
		return func(v reflect.Value) (reflect.Value, bool) {
			return reflect.ValueOf(v.Int() != 0).Convert(dst), true
		}
	case isUint(src.Kind()):
		return func(v reflect.Value) (reflect.Value, bool) {
			return reflect.ValueOf(v.Uint() != 0).Convert(dst), true
		}
	}
	return nil
}

// ===================
// TIME CONVERTERS
// ===================
func buildTimeConverter(src reflect.Type) converterFunc {
	switch {
	case src.Kind() == reflect.String:
		return func(v reflect.Value) (reflect.Value, bool) {
			s := strings.TrimSpace(v.String())
			for _, format := range timeFormats {
				if t, err := time.Parse(format, s); err == nil {
					return reflect.ValueOf(t), true
				}
			}
			return reflect.Value{}, false
		}
	case isInt(src.Kind()):
		return func(v reflect.Value) (reflect.Value, bool) {
			return reflect.ValueOf(time.Unix(v.Int(), 0).UTC()), true
		}
	}
	return nil
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isNumber(k reflect.Kind) bool {
	return isInt(k) || isUint(k) || isFloat(k)
}
