package typemeta

import (
	"reflect"

	"github.com/Konsultn-Engineering/typemeta/convert"
	"github.com/Konsultn-Engineering/typemeta/deep"
	"github.com/Konsultn-Engineering/typemeta/objpath"
	"github.com/Konsultn-Engineering/typemeta/schema"
)

type Kind = schema.Kind
type TypeDescriptor = schema.TypeDescriptor
type PropertyDescriptor = schema.PropertyDescriptor
type Attribute = schema.Attribute

const (
	Unknown    = schema.Unknown
	Primitive  = schema.Primitive
	Collection = schema.Collection
	Complex    = schema.Complex
)

// Describe returns the cached descriptor of t.
func Describe(t reflect.Type) *TypeDescriptor {
	return schema.Describe(t)
}

// DescribeOf returns the cached descriptor of T.
func DescribeOf[T any]() *TypeDescriptor {
	return schema.Describe(reflect.TypeFor[T]())
}

// Get reads the value at a dotted path and converts it to T.
func Get[T any](root any, path string) T {
	return objpath.Get[T](root, path)
}

// Lookup is Get with an ok flag.
func Lookup[T any](root any, path string) (T, bool) {
	return objpath.Lookup[T](root, path)
}

// Set writes value at a dotted path.
func Set(root any, path string, value any) error {
	return objpath.Set(root, path, value)
}

// Equal reports whether a and b are logically equal over their shared
// properties.
func Equal(a, b any) bool {
	return deep.Equal(a, b)
}

// ToMap converts obj into nested map[string]any values.
func ToMap(obj any, opts ...deep.Option) any {
	return deep.ToMap(obj, opts...)
}

// As coerces value to T.
func As[T any](value any) (T, bool) {
	return convert.As[T](value)
}
