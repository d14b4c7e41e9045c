package deep

import (
	"reflect"

	"github.com/Konsultn-Engineering/typemeta/dynamic"
	"github.com/Konsultn-Engineering/typemeta/schema"
)

// members exposes the named members of a Complex value, either the
// properties of a struct or the keys of a dynamic map.
type members struct {
	m dynamic.Map
	d *schema.TypeDescriptor
	v reflect.Value
}

func newMembers(r *schema.Registry, v reflect.Value, m dynamic.Map) members {
	if m != nil {
		return members{m: m}
	}
	if v.Kind() != reflect.Struct {
		return members{}
	}
	return members{d: r.Describe(v.Type()), v: v}
}

func (ms members) names() []string {
	switch {
	case ms.m != nil:
		return ms.m.Keys()
	case ms.d != nil:
		return ms.d.PropertyNames()
	}
	return nil
}

func (ms members) has(name string) bool {
	switch {
	case ms.m != nil:
		return ms.m.HasKey(name)
	case ms.d != nil:
		return ms.d.HasProperty(name)
	}
	return false
}

// get returns the member value, or the invalid Value when it cannot be
// reached, which compares as null.
func (ms members) get(name string) reflect.Value {
	if ms.m != nil {
		v, _ := ms.m.Get(name)
		return reflect.ValueOf(v)
	}
	if ms.d == nil {
		return reflect.Value{}
	}
	p, ok := ms.d.Property(name)
	if !ok {
		return reflect.Value{}
	}
	f, _ := p.Get(ms.v)
	return f
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

// isNull reports whether v stands for no value: invalid, or a nil slice or map.
func isNull(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Map:
		return v.IsNil()
	}
	return false
}

func isLivePointer(v reflect.Value) bool {
	return v.IsValid() && v.Kind() == reflect.Pointer && !v.IsNil()
}
