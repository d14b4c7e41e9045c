package schema

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
	"time"
	"unsafe"

	"github.com/google/uuid"

	"github.com/Konsultn-Engineering/typemeta/convert"
)

// typedAccessor reads and writes a field of one exact type through a raw
// field pointer, skipping reflection entirely.
type typedAccessor struct {
	load  func(field unsafe.Pointer) any
	store func(field unsafe.Pointer, value any) bool
}

var accessorCreators = sync.Map{} // map[reflect.Type]typedAccessor

func registerAccessor[T any]() {
	accessorCreators.Store(reflect.TypeFor[T](), typedAccessor{
		load: func(field unsafe.Pointer) any {
			return *(*T)(field)
		},
		store: func(field unsafe.Pointer, value any) bool {
			tv, ok := value.(T)
			if ok {
				*(*T)(field) = tv
			}
			return ok
		},
	})
}

func init() {
	registerAccessor[string]()
	registerAccessor[*string]()
	registerAccessor[bool]()
	registerAccessor[int]()
	registerAccessor[int32]()
	registerAccessor[int64]()
	registerAccessor[*int]()
	registerAccessor[*int64]()
	registerAccessor[uint]()
	registerAccessor[uint64]()
	registerAccessor[float32]()
	registerAccessor[float64]()
	registerAccessor[time.Time]()
	registerAccessor[*time.Time]()
	registerAccessor[time.Duration]()
	registerAccessor[[]byte]()
	registerAccessor[json.RawMessage]()
	registerAccessor[uuid.UUID]()
	registerAccessor[[]string]()
	registerAccessor[[]int]()
	registerAccessor[map[string]any]()
	registerAccessor[any]()
	registerAccessor[sql.NullString]()
	registerAccessor[sql.NullInt64]()
	registerAccessor[sql.NullTime]()
}

// CompileGetter returns the shared getter of property name on t, from the
// Default registry.
func CompileGetter(t reflect.Type, name string) (GetterFunc, error) {
	return Default.CompileGetter(t, name)
}

// CompileSetter returns the shared setter of property name on t, from the
// Default registry.
func CompileSetter(t reflect.Type, name string) (SetterFunc, error) {
	return Default.CompileSetter(t, name)
}

func (r *Registry) CompileGetter(t reflect.Type, name string) (GetterFunc, error) {
	p, err := r.lookupProperty(t, name)
	if err != nil {
		return nil, err
	}
	return p.compiledGetter(), nil
}

func (r *Registry) CompileSetter(t reflect.Type, name string) (SetterFunc, error) {
	p, err := r.lookupProperty(t, name)
	if err != nil {
		return nil, err
	}
	return p.compiledSetter()
}

func (r *Registry) lookupProperty(t reflect.Type, name string) (*PropertyDescriptor, error) {
	d := r.Describe(t)
	p, ok := d.Property(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrPropertyNotFound, d.Name(), name)
	}
	return p, nil
}

func (p *PropertyDescriptor) compiledGetter() GetterFunc {
	p.getOnce.Do(func() {
		p.read = compileRead(p)
		p.getter = compileGetter(p)
	})
	return p.getter
}

func (p *PropertyDescriptor) compiledSetter() (SetterFunc, error) {
	p.setOnce.Do(func() {
		if p.readOnly {
			p.setterErr = fmt.Errorf("%w: %s", ErrReadOnly, p.name)
			return
		}
		p.write = compileWrite(p)
		p.setter = compileSetter(p)
	})
	return p.setter, p.setterErr
}

// compileRead builds the reflect level reader. Direct paths on addressable
// structs use the precomputed offset; paths through embedded pointers go
// through FieldByIndexErr so that a nil embed reads as absent.
//
// Fields promoted from unexported embedded structs come back from reflect
// marked read-only; the reader re-exposes them through their address.
func compileRead(p *PropertyDescriptor) func(reflect.Value) (reflect.Value, bool) {
	fieldType, offset, index := p.typ, p.offset, p.index

	if p.direct {
		return func(v reflect.Value) (reflect.Value, bool) {
			if !v.CanAddr() {
				if f := v.FieldByIndex(index); f.CanInterface() {
					return f, true
				}
				c := reflect.New(v.Type()).Elem()
				c.Set(v)
				v = c
			}
			return reflect.NewAt(fieldType, unsafe.Add(v.Addr().UnsafePointer(), offset)).Elem(), true
		}
	}

	return func(v reflect.Value) (reflect.Value, bool) {
		f, err := v.FieldByIndexErr(index)
		if err != nil {
			return reflect.Value{}, false
		}
		if !f.CanInterface() && f.CanAddr() {
			f = reflect.NewAt(fieldType, unsafe.Pointer(f.UnsafeAddr())).Elem()
		}
		return f, true
	}
}

func compileGetter(p *PropertyDescriptor) GetterFunc {
	owner, offset, read := p.owner, p.offset, p.read

	if p.direct {
		if acc, ok := accessorCreators.Load(p.typ); ok {
			load := acc.(typedAccessor).load
			return func(instance any) (any, bool) {
				v, ok := ownerValue(owner, reflect.ValueOf(instance))
				if !ok {
					return nil, false
				}
				if v.CanAddr() {
					return load(unsafe.Add(v.Addr().UnsafePointer(), offset)), true
				}
				f, _ := read(v)
				return f.Interface(), true
			}
		}
	}

	return func(instance any) (any, bool) {
		v, ok := ownerValue(owner, reflect.ValueOf(instance))
		if !ok {
			return nil, false
		}
		f, ok := read(v)
		if !ok {
			return nil, false
		}
		return f.Interface(), true
	}
}

// compileWrite builds the reflect level writer. v is an addressable struct
// of the owning type.
func compileWrite(p *PropertyDescriptor) func(reflect.Value, any) error {
	name, fieldType, offset, index := p.name, p.typ, p.offset, p.index

	assign := func(target reflect.Value, value any) error {
		cv, err := convert.To(value, fieldType)
		if err != nil {
			return &ConversionError{Property: name, Target: fieldType, Value: value, Err: err}
		}
		target.Set(cv)
		return nil
	}

	if p.direct {
		var store func(unsafe.Pointer, any) bool
		if acc, ok := accessorCreators.Load(fieldType); ok {
			store = acc.(typedAccessor).store
		}
		return func(v reflect.Value, value any) error {
			field := unsafe.Add(v.Addr().UnsafePointer(), offset)
			if store != nil && store(field, value) {
				return nil
			}
			return assign(reflect.NewAt(fieldType, field).Elem(), value)
		}
	}

	return func(v reflect.Value, value any) error {
		f, err := v.FieldByIndexErr(index)
		if err != nil {
			// Nil embedded pointer: nothing to write into.
			return nil
		}
		if !f.CanAddr() {
			return ErrNotAddressable
		}
		return assign(reflect.NewAt(fieldType, unsafe.Pointer(f.UnsafeAddr())).Elem(), value)
	}
}

func compileSetter(p *PropertyDescriptor) SetterFunc {
	owner, write := p.owner, p.write
	return func(instance any, value any) error {
		rv := reflect.ValueOf(instance)
		if rv.Kind() != reflect.Pointer {
			if rv.IsValid() && rv.Type() == owner {
				return ErrNotAddressable
			}
			return ErrTypeMismatch
		}
		v, ok := ownerValue(owner, rv)
		if !ok {
			if rv.IsNil() {
				return ErrNotAddressable
			}
			return ErrTypeMismatch
		}
		return write(v, value)
	}
}

// ownerValue dereferences v down to a struct of type owner. It fails on nil
// pointers and on values of any other type.
func ownerValue(owner reflect.Type, v reflect.Value) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if !v.IsValid() || v.Type() != owner {
		return reflect.Value{}, false
	}
	return v, true
}
