// Package objpath reads and writes nested properties addressed by dotted
// paths such as "Customer.Address.City".
//
// A missing segment is an absence, not an error: reads yield the zero value
// and writes become no-ops. Intermediate objects are never created.
package objpath

import (
	"reflect"

	"github.com/Konsultn-Engineering/typemeta/cache"
	"github.com/Konsultn-Engineering/typemeta/convert"
	"github.com/Konsultn-Engineering/typemeta/dynamic"
	"github.com/Konsultn-Engineering/typemeta/schema"
	"github.com/Konsultn-Engineering/typemeta/utils"
)

// DefaultCacheSize bounds the number of compiled paths kept per navigator.
const DefaultCacheSize = 1024

// Navigator walks object graphs along dotted paths. It is safe for
// concurrent use.
type Navigator struct {
	registry  *schema.Registry
	cacheSize int
	paths     *cache.Memo[string, []string]
}

type Option func(*Navigator)

// WithRegistry sets the registry properties are described with.
func WithRegistry(r *schema.Registry) Option {
	return func(n *Navigator) {
		if r != nil {
			n.registry = r
		}
	}
}

// WithCacheSize sets how many compiled paths are kept.
func WithCacheSize(size int) Option {
	return func(n *Navigator) { n.cacheSize = size }
}

// New creates a navigator over schema.Default unless configured otherwise.
func New(options ...Option) *Navigator {
	n := &Navigator{
		registry:  schema.Default,
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range options {
		opt(n)
	}

	paths, err := cache.NewMemo[string, []string](n.cacheSize, nil)
	if err != nil {
		n.cacheSize = DefaultCacheSize
		paths, _ = cache.NewMemo[string, []string](DefaultCacheSize, nil)
	}
	n.paths = paths
	return n
}

var defaultNavigator = New()

// Value reads the single property name of obj.
func Value(obj any, name string) (any, bool) {
	return defaultNavigator.Value(obj, name)
}

// SetValue writes the single property name of obj.
func SetValue(obj any, name string, value any) error {
	return defaultNavigator.SetValue(obj, name, value)
}

// Get reads the value at path and converts it to T. Absent values and failed
// conversions yield the zero T.
func Get[T any](root any, path string) T {
	v, _ := Lookup[T](root, path)
	return v
}

// Lookup is Get with an ok flag, false when the path is absent or the value
// cannot be converted to T.
func Lookup[T any](root any, path string) (T, bool) {
	v, ok := defaultNavigator.Lookup(root, path)
	if !ok {
		var zero T
		return zero, false
	}
	return convert.As[T](v)
}

// Set writes value at path. root must be a pointer, or a dynamic map, for
// the write to be visible to the caller.
func Set(root any, path string, value any) error {
	return defaultNavigator.Set(root, path, value)
}

// Value reads the single property name of obj, through map operations when
// obj is a dynamic map and through its type descriptor otherwise.
func (n *Navigator) Value(obj any, name string) (any, bool) {
	v, ok := n.step(reflect.ValueOf(obj), name)
	if !ok || isNil(v) {
		return nil, false
	}
	return v.Interface(), true
}

// SetValue writes the single property name of obj. Unknown properties are
// ignored.
func (n *Navigator) SetValue(obj any, name string, value any) error {
	return n.assign(reflect.ValueOf(obj), name, value)
}

// Lookup returns the value at path without conversion. A nil value at the
// end of the path reads as absent.
func (n *Navigator) Lookup(root any, path string) (any, bool) {
	segments := n.segments(path)
	if len(segments) == 0 {
		return nil, false
	}

	cur := reflect.ValueOf(root)
	for _, name := range segments {
		next, ok := n.step(cur, name)
		if !ok || isNil(next) {
			return nil, false
		}
		cur = next
	}
	return cur.Interface(), true
}

// Set writes value at path. Missing or nil intermediates make it a no-op;
// the returned errors come from the terminal write only.
func (n *Navigator) Set(root any, path string, value any) error {
	segments := n.segments(path)
	if len(segments) == 0 {
		return nil
	}

	cur := reflect.ValueOf(root)
	last := len(segments) - 1
	for _, name := range segments[:last] {
		next, ok := n.step(cur, name)
		if !ok || isNil(next) {
			return nil
		}
		cur = next
	}
	return n.assign(cur, segments[last], value)
}

func (n *Navigator) segments(path string) []string {
	segments, _ := n.paths.GetOrCompute(path, func(p string) ([]string, error) {
		return utils.Segments(p), nil
	})
	return segments
}

// step resolves one property of cur. Struct fields come back addressable
// whenever cur is, so later writes land in the caller's object.
func (n *Navigator) step(cur reflect.Value, name string) (reflect.Value, bool) {
	if capability, m := dynamic.ResolveValue(cur); capability == dynamic.DynamicMap {
		v, ok := m.Get(name)
		if !ok {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(v), true
	}

	cur = indirect(cur)
	if !cur.IsValid() || cur.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	prop, ok := n.registry.Describe(cur.Type()).Property(name)
	if !ok {
		return reflect.Value{}, false
	}
	return prop.Get(cur)
}

func (n *Navigator) assign(cur reflect.Value, name string, value any) error {
	if capability, m := dynamic.ResolveValue(cur); capability == dynamic.DynamicMap {
		return dynamic.Store(m, name, value)
	}

	cur = indirect(cur)
	if !cur.IsValid() || cur.Kind() != reflect.Struct {
		return nil
	}
	prop, ok := n.registry.Describe(cur.Type()).Property(name)
	if !ok {
		return nil
	}
	return prop.Set(cur, value)
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	}
	return false
}
