// Package deep implements structural algorithms over classified object
// graphs: logical equality and conversion into generic maps.
package deep

import (
	"math"
	"reflect"

	"github.com/Konsultn-Engineering/typemeta/dynamic"
	"github.com/Konsultn-Engineering/typemeta/schema"
)

// Equal reports whether a and b are logically equal.
//
// Both null is equal and exactly one null is not; pointers and interfaces
// are looked through and nil ones count as null. Values of different kinds
// are unequal. Primitive and Unknown values use their own equality: an
// Equal(T) bool method when the type has one, == when comparable,
// reflect.DeepEqual otherwise. NaN equals NaN and funcs compare by identity,
// so Equal(x, x) always holds. Collections are equal when they have the same
// length and pairwise equal elements in order.
//
// Complex values are compared over the properties present on both sides
// only. Properties, or dynamic map keys, that exist on one side are ignored,
// which makes Equal a name-intersecting comparison rather than a structural
// diff, and not transitive:
//
//	Equal(Person{Name: "A", Age: 3}, Named{Name: "A"}) // true
//	Equal(Named{Name: "A"}, Person{Name: "A", Age: 4}) // true
//	Equal(Person{Name: "A", Age: 3}, Person{Name: "A", Age: 4}) // false
func Equal(a, b any) bool {
	c := &comparer{registry: schema.Default, seen: map[visit]bool{}}
	return c.equal(reflect.ValueOf(a), reflect.ValueOf(b))
}

// EqualWith is Equal over descriptors from r.
func EqualWith(r *schema.Registry, a, b any) bool {
	c := &comparer{registry: r, seen: map[visit]bool{}}
	return c.equal(reflect.ValueOf(a), reflect.ValueOf(b))
}

// visit is a pair of pointers already under comparison. Meeting it again
// means a cycle, which is assumed equal.
type visit struct {
	a, b   uintptr
	ta, tb reflect.Type
}

type comparer struct {
	registry *schema.Registry
	seen     map[visit]bool
}

func (c *comparer) equal(a, b reflect.Value) bool {
	if isLivePointer(a) && isLivePointer(b) {
		if a.Pointer() == b.Pointer() && a.Type() == b.Type() {
			return true
		}
		v := visit{a.Pointer(), b.Pointer(), a.Type(), b.Type()}
		if c.seen[v] {
			return true
		}
		c.seen[v] = true
	}

	a, b = indirect(a), indirect(b)
	aNull, bNull := isNull(a), isNull(b)
	if aNull || bNull {
		return aNull && bNull
	}

	ma, ka := c.classify(a)
	mb, kb := c.classify(b)
	if ka != kb {
		return false
	}

	switch ka {
	case schema.Collection:
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !c.equal(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case schema.Complex:
		return c.equalMembers(newMembers(c.registry, a, ma), newMembers(c.registry, b, mb))
	default:
		return scalarEqual(a, b)
	}
}

// classify returns the kind of v, with dynamic maps counted as Complex.
func (c *comparer) classify(v reflect.Value) (dynamic.Map, schema.Kind) {
	if capability, m := dynamic.ResolveValue(v); capability == dynamic.DynamicMap {
		return m, schema.Complex
	}
	return nil, schema.Classify(v.Type())
}

func (c *comparer) equalMembers(a, b members) bool {
	for _, name := range a.names() {
		if !b.has(name) {
			continue
		}
		if !c.equal(a.get(name), b.get(name)) {
			return false
		}
	}
	return true
}

const equalMethodName = "Equal"

// scalarEqual compares values of the same type by value. NaN equals NaN, and
// funcs and chans are equal when they are the same one, so every value is
// equal to itself.
func scalarEqual(a, b reflect.Value) bool {
	if a.Type() != b.Type() {
		return false
	}
	t := a.Type()
	if m, ok := t.MethodByName(equalMethodName); ok {
		mt := m.Type
		if mt.NumIn() == 2 && mt.In(1) == t && mt.NumOut() == 1 && mt.Out(0).Kind() == reflect.Bool {
			return a.Method(m.Index).Call([]reflect.Value{b})[0].Bool()
		}
	}

	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		return floatEqual(a.Float(), b.Float())
	case reflect.Complex64, reflect.Complex128:
		ca, cb := a.Complex(), b.Complex()
		return floatEqual(real(ca), real(cb)) && floatEqual(imag(ca), imag(cb))
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	}

	if t.Comparable() {
		return a.Equal(b)
	}
	return reflect.DeepEqual(a.Interface(), b.Interface())
}

func floatEqual(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}
