package deep

import (
	"reflect"

	"github.com/Konsultn-Engineering/typemeta/dynamic"
	"github.com/Konsultn-Engineering/typemeta/schema"
)

type mapper struct {
	registry *schema.Registry
	naming   schema.NamingStrategy
	omitNil  bool
	active   map[visit]bool
}

type Option func(*mapper)

// WithKeyNaming names property keys with strategy instead of the property
// name. Dynamic map keys are kept as they are.
func WithKeyNaming(strategy schema.NamingStrategy) Option {
	return func(m *mapper) { m.naming = strategy }
}

// WithOmitNil drops keys whose converted value is nil.
func WithOmitNil() Option {
	return func(m *mapper) { m.omitNil = true }
}

// WithRegistry describes types with r instead of schema.Default.
func WithRegistry(r *schema.Registry) Option {
	return func(m *mapper) {
		if r != nil {
			m.registry = r
		}
	}
}

// ToMap converts obj into generic values:
//
//   - Complex values become map[string]any, one key per property.
//   - Dynamic maps become a new map[string]any whose values are converted.
//   - Collections of Primitive elements are returned unchanged.
//   - Other collections become []any of converted elements.
//   - Primitive and Unknown values are returned unchanged.
//
// A pointer met again while it is being converted, a cycle, becomes nil.
func ToMap(obj any, opts ...Option) any {
	m := &mapper{
		registry: schema.Default,
		active:   map[visit]bool{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m.convert(reflect.ValueOf(obj))
}

func (m *mapper) convert(v reflect.Value) any {
	if isLivePointer(v) {
		key := visit{a: v.Pointer(), ta: v.Type()}
		if m.active[key] {
			return nil
		}
		m.active[key] = true
		defer delete(m.active, key)
	}

	iv := indirect(v)
	if !iv.IsValid() {
		return nil
	}

	if capability, dm := dynamic.ResolveValue(iv); capability == dynamic.DynamicMap {
		return m.convertMap(dm)
	}

	switch schema.Classify(iv.Type()) {
	case schema.Complex:
		if iv.Kind() == reflect.Struct {
			return m.convertStruct(iv)
		}
	case schema.Collection:
		if m.registry.Describe(iv.Type()).IsPrimitiveCollection() {
			return v.Interface()
		}
		if iv.Kind() == reflect.Slice && iv.IsNil() {
			return nil
		}
		out := make([]any, iv.Len())
		for i := range out {
			out[i] = m.convert(iv.Index(i))
		}
		return out
	}
	return v.Interface()
}

func (m *mapper) convertStruct(v reflect.Value) map[string]any {
	d := m.registry.Describe(v.Type())
	out := make(map[string]any, len(d.Properties()))
	for _, p := range d.Properties() {
		var value any
		if f, ok := p.Get(v); ok {
			value = m.convert(f)
		}
		if value == nil && m.omitNil {
			continue
		}
		out[m.keyName(p)] = value
	}
	return out
}

func (m *mapper) convertMap(dm dynamic.Map) map[string]any {
	keys := dm.Keys()
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		raw, _ := dm.Get(k)
		value := m.convert(reflect.ValueOf(raw))
		if value == nil && m.omitNil {
			continue
		}
		out[k] = value
	}
	return out
}

func (m *mapper) keyName(p *schema.PropertyDescriptor) string {
	if m.naming == nil {
		return p.Name()
	}
	return m.naming.KeyName(p)
}
