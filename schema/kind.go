package schema

import (
	"fmt"
	"reflect"
)

// Kind is the classification bucket of a type.
type Kind uint8

const (
	// Unknown types are opaque leaves: compared with their own equality and
	// never decomposed. Maps, channels and funcs land here.
	Unknown Kind = iota
	// Primitive covers scalars: basic kinds, enumerations, registered
	// primitive types and pointers to any of those.
	Primitive
	// Collection covers slices and arrays.
	Collection
	// Complex covers structs and interfaces.
	Complex
)

func (k Kind) String() string {
	switch k {
	case Primitive:
		return "primitive"
	case Collection:
		return "collection"
	case Complex:
		return "complex"
	default:
		return "unknown"
	}
}

// Classify maps t to its Kind. The rules are applied in fixed priority order
// and the first match wins: primitive, collection, complex, unknown.
// It has no side effects.
func Classify(t reflect.Type) Kind {
	if t == nil {
		return Unknown
	}
	if IsPrimitiveType(t) {
		return Primitive
	}
	base := indirectType(t)
	if isCollectionType(base) {
		return Collection
	}
	switch base.Kind() {
	case reflect.Struct, reflect.Interface:
		return Complex
	}
	return Unknown
}

func isCollectionType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return true
	}
	return false
}

// ElementType returns the element type of a slice or array type, looking
// through pointers. It returns nil for any other type.
func ElementType(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}
	base := indirectType(t)
	if !isCollectionType(base) {
		return nil
	}
	return base.Elem()
}

// IsNullableOf reports whether nullable is the pointer form of t.
func IsNullableOf(nullable, t reflect.Type) bool {
	return nullable != nil && t != nil && nullable.Kind() == reflect.Pointer && nullable.Elem() == t
}

// HasInterface reports whether t, or a pointer to t, implements iface.
// iface must be an interface type.
func HasInterface(t, iface reflect.Type) (bool, error) {
	if iface == nil || iface.Kind() != reflect.Interface {
		return false, fmt.Errorf("%w: %v", ErrNotInterface, iface)
	}
	if t == nil {
		return false, nil
	}
	if t.Implements(iface) {
		return true, nil
	}
	if t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface {
		return reflect.PointerTo(t).Implements(iface), nil
	}
	return false, nil
}

// indirectType strips every pointer level from t.
func indirectType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
