// Package dynamic models values that behave as string-keyed maps. Such
// values are accessed through map operations instead of classified property
// accessors.
package dynamic

import (
	"reflect"
	"sort"

	"github.com/Konsultn-Engineering/typemeta/convert"
)

// Map is the dynamic-map capability.
type Map interface {
	HasKey(key string) bool
	Get(key string) (any, bool)
	Set(key string, value any)
	// Keys returns the keys in a stable order.
	Keys() []string
}

// Storer is implemented by maps whose writes can fail, such as typed Go maps
// that convert values to their element type.
type Storer interface {
	Store(key string, value any) error
}

// Store writes value under key, reporting conversion failures when m
// supports it.
func Store(m Map, key string, value any) error {
	if s, ok := m.(Storer); ok {
		return s.Store(key, value)
	}
	m.Set(key, value)
	return nil
}

// Capability tells how a value exposes its members.
type Capability uint8

const (
	// ClassifiedComplex values are read through their type descriptor.
	ClassifiedComplex Capability = iota
	// DynamicMap values are read through Map operations.
	DynamicMap
)

func (c Capability) String() string {
	if c == DynamicMap {
		return "dynamic-map"
	}
	return "classified-complex"
}

var mapType = reflect.TypeFor[Map]()

// Resolve determines the capability of v once, at the entry point of property
// access. A value implementing Map is used as is; a Go map with a string key
// kind, or a pointer to one, is adapted through reflection.
func Resolve(v any) (Capability, Map) {
	if m, ok := v.(Map); ok {
		return DynamicMap, m
	}
	if v == nil {
		return ClassifiedComplex, nil
	}
	return ResolveValue(reflect.ValueOf(v))
}

// ResolveValue is Resolve for a reflect.Value.
func ResolveValue(v reflect.Value) (Capability, Map) {
	for v.IsValid() {
		if v.CanInterface() && v.Type().Implements(mapType) && !isNilRef(v) {
			return DynamicMap, v.Interface().(Map)
		}
		switch v.Kind() {
		case reflect.Pointer, reflect.Interface:
			if v.IsNil() {
				return ClassifiedComplex, nil
			}
			v = v.Elem()
		case reflect.Map:
			if v.Type().Key().Kind() == reflect.String {
				return DynamicMap, &mapAdapter{v: v}
			}
			return ClassifiedComplex, nil
		default:
			return ClassifiedComplex, nil
		}
	}
	return ClassifiedComplex, nil
}

func isNilRef(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// IsMap reports whether t is adapted as a dynamic map.
func IsMap(t reflect.Type) bool {
	for t != nil {
		if t.Implements(mapType) {
			return true
		}
		switch t.Kind() {
		case reflect.Pointer:
			t = t.Elem()
		case reflect.Map:
			return t.Key().Kind() == reflect.String
		default:
			return false
		}
	}
	return false
}

// mapAdapter exposes a Go map with a string key kind as a Map. Writes to a
// nil map are dropped.
type mapAdapter struct {
	v reflect.Value
}

func (m *mapAdapter) key(k string) reflect.Value {
	return reflect.ValueOf(k).Convert(m.v.Type().Key())
}

func (m *mapAdapter) HasKey(key string) bool {
	return m.v.MapIndex(m.key(key)).IsValid()
}

func (m *mapAdapter) Get(key string) (any, bool) {
	e := m.v.MapIndex(m.key(key))
	if !e.IsValid() {
		return nil, false
	}
	return e.Interface(), true
}

func (m *mapAdapter) Set(key string, value any) {
	_ = m.Store(key, value)
}

func (m *mapAdapter) Store(key string, value any) error {
	if m.v.IsNil() {
		return nil
	}
	cv, err := convert.To(value, m.v.Type().Elem())
	if err != nil {
		return err
	}
	m.v.SetMapIndex(m.key(key), cv)
	return nil
}

func (m *mapAdapter) Keys() []string {
	keys := make([]string, 0, m.v.Len())
	iter := m.v.MapRange()
	for iter.Next() {
		keys = append(keys, iter.Key().String())
	}
	sort.Strings(keys)
	return keys
}

// Object is a ready-made Map backed by map[string]any.
type Object map[string]any

// NewObject creates an empty Object.
func NewObject() Object {
	return make(Object)
}

func (o Object) HasKey(key string) bool {
	_, ok := o[key]
	return ok
}

func (o Object) Get(key string) (any, bool) {
	v, ok := o[key]
	return v, ok
}

func (o Object) Set(key string, value any) {
	o[key] = value
}

func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
