package convert

import (
	"reflect"
)

// As coerces value to T. Conversions are best-effort: a nil value or a failed
// conversion yields the zero T and false, never an error.
func As[T any](value any) (T, bool) {
	var zero T
	if value == nil {
		return zero, false
	}
	if tv, ok := value.(T); ok {
		return tv, true
	}
	out, err := To(value, reflect.TypeFor[T]())
	if err != nil || !out.IsValid() {
		return zero, false
	}
	tv, ok := out.Interface().(T)
	if !ok {
		return zero, false
	}
	return tv, true
}

// AsType is the non-generic form of As. It returns nil when value cannot be
// represented as t.
func AsType(value any, t reflect.Type) any {
	if value == nil || t == nil {
		return nil
	}
	if reflect.TypeOf(value).AssignableTo(t) {
		return value
	}
	out, err := To(value, t)
	if err != nil || !out.IsValid() {
		return nil
	}
	return out.Interface()
}

// ChangeType converts value to t using only scalar rules, without the
// serializer round-trip. Named string types accept any string, which is how
// string-backed enumerations are parsed. Failures yield nil.
func ChangeType(value any, t reflect.Type) any {
	if value == nil || t == nil {
		return nil
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(t) {
		return value
	}
	fn := lookupConverter(v.Type(), t)
	if fn == nil {
		return nil
	}
	out, ok := fn(v)
	if !ok {
		return nil
	}
	return out.Interface()
}
