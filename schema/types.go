package schema

import (
	"reflect"
	"sync"

	"github.com/Konsultn-Engineering/typemeta/utils"
)

// GetterFunc reads a property from an instance. ok is false when the instance
// is nil, of another type, or the property sits behind a nil embedded pointer.
type GetterFunc func(instance any) (value any, ok bool)

// SetterFunc writes value into a property of instance, coercing it to the
// property's declared type. instance must be a pointer.
type SetterFunc func(instance any, value any) error

// TypeDescriptor is the cached structural metadata of one type. Descriptors
// are built once per registry, published fully formed and never modified.
type TypeDescriptor struct {
	typ        reflect.Type
	kind       Kind
	name       string
	elem       *TypeDescriptor
	properties []*PropertyDescriptor
	byName     map[string]*PropertyDescriptor
}

// nilDescriptor stands in for the descriptor of a nil type.
var nilDescriptor = &TypeDescriptor{kind: Unknown, name: "nil"}

// Type returns the described type with pointers stripped. It is nil only for
// the descriptor of a nil type.
func (d *TypeDescriptor) Type() reflect.Type { return d.typ }

func (d *TypeDescriptor) Kind() Kind { return d.kind }

// Name returns a short human readable name, see FriendlyName.
func (d *TypeDescriptor) Name() string { return d.name }

// ElementDescriptor returns the element type descriptor of a Collection, nil
// for every other kind.
func (d *TypeDescriptor) ElementDescriptor() *TypeDescriptor { return d.elem }

// IsPrimitiveCollection reports whether d is a Collection of Primitive elements.
func (d *TypeDescriptor) IsPrimitiveCollection() bool {
	return d.kind == Collection && d.elem != nil && d.elem.kind == Primitive
}

// Properties returns the properties of a Complex type in declaration order,
// outer struct first. The slice is shared and must not be modified.
func (d *TypeDescriptor) Properties() []*PropertyDescriptor { return d.properties }

// Property looks a property up by its exact name.
func (d *TypeDescriptor) Property(name string) (*PropertyDescriptor, bool) {
	p, ok := d.byName[name]
	return p, ok
}

func (d *TypeDescriptor) HasProperty(name string) bool {
	_, ok := d.byName[name]
	return ok
}

func (d *TypeDescriptor) PropertyNames() []string {
	names := make([]string, len(d.properties))
	for i, p := range d.properties {
		names[i] = p.name
	}
	return names
}

// PropertiesByAttribute returns the properties carrying at least one
// attribute of the given kind.
func (d *TypeDescriptor) PropertiesByAttribute(kind string) []*PropertyDescriptor {
	var out []*PropertyDescriptor
	for _, p := range d.properties {
		if p.HasAttribute(kind) {
			out = append(out, p)
		}
	}
	return out
}

// PropertyByPath resolves a dotted path against the type graph. Collections
// are looked through to their element type, so "Items.Name" addresses the
// Name property of the element type of Items. A segment matches a property
// by exact name first, then with its first letter upper-cased.
func (d *TypeDescriptor) PropertyByPath(path string) (*PropertyDescriptor, bool) {
	head, rest := utils.SplitHead(path)
	if head == "" {
		return nil, false
	}

	cur := d
	for cur != nil && cur.kind == Collection {
		cur = cur.elem
	}
	if cur == nil {
		return nil, false
	}

	p, ok := cur.Property(head)
	if !ok {
		if p, ok = cur.Property(utils.UpperFirst(head)); !ok {
			return nil, false
		}
	}
	if rest == "" {
		return p, true
	}
	return p.Descriptor().PropertyByPath(rest)
}

func (d *TypeDescriptor) String() string {
	return d.name + " (" + d.kind.String() + ")"
}

// PropertyDescriptor describes one property of a Complex type. Accessors are
// compiled on first use and shared afterwards.
type PropertyDescriptor struct {
	name       string
	typ        reflect.Type
	owner      reflect.Type
	index      []int
	offset     uintptr
	direct     bool
	readOnly   bool
	descriptor *TypeDescriptor
	attrs      []Attribute
	attrsByKey map[string][]Attribute

	getOnce sync.Once
	getter  GetterFunc
	read    func(reflect.Value) (reflect.Value, bool)

	setOnce   sync.Once
	setter    SetterFunc
	write     func(reflect.Value, any) error
	setterErr error
}

func (p *PropertyDescriptor) Name() string { return p.name }

// DeclaredType returns the field type as declared, pointers included.
func (p *PropertyDescriptor) DeclaredType() reflect.Type { return p.typ }

// Kind classifies the declared type.
func (p *PropertyDescriptor) Kind() Kind { return p.descriptor.kind }

// Descriptor returns the descriptor of the declared type.
func (p *PropertyDescriptor) Descriptor() *TypeDescriptor { return p.descriptor }

func (p *PropertyDescriptor) ElementDescriptor() *TypeDescriptor { return p.descriptor.elem }

func (p *PropertyDescriptor) IsPrimitiveCollection() bool { return p.descriptor.IsPrimitiveCollection() }

// IsTypeOf reports whether t is the declared type of p or, for a collection,
// its element type. Pointers on either side are ignored.
func (p *PropertyDescriptor) IsTypeOf(t reflect.Type) bool {
	t = indirectType(t)
	if t == nil {
		return false
	}
	if p.descriptor.typ == t {
		return true
	}
	return p.descriptor.elem != nil && p.descriptor.elem.typ == t
}

// Index is the field index sequence for reflect.Value.FieldByIndex, through
// any embedded structs.
func (p *PropertyDescriptor) Index() []int { return p.index }

// Offset is the byte offset from the start of the owning struct. It is only
// meaningful when no embedded pointer lies on the path.
func (p *PropertyDescriptor) Offset() uintptr { return p.offset }

// CanWrite reports whether a setter is offered for p.
func (p *PropertyDescriptor) CanWrite() bool { return !p.readOnly }

// Attributes returns the attributes grouped by kind.
func (p *PropertyDescriptor) Attributes() map[string][]Attribute { return p.attrsByKey }

func (p *PropertyDescriptor) HasAttribute(kind string) bool {
	return len(p.attrsByKey[kind]) > 0
}

// Attribute returns the first attribute of the given kind.
func (p *PropertyDescriptor) Attribute(kind string) (Attribute, bool) {
	if attrs := p.attrsByKey[kind]; len(attrs) > 0 {
		return attrs[0], true
	}
	return Attribute{}, false
}

func (p *PropertyDescriptor) AttributesOf(kind string) []Attribute { return p.attrsByKey[kind] }

// AllAttributes returns every attribute in tag order.
func (p *PropertyDescriptor) AllAttributes() []Attribute { return p.attrs }

// GetValue reads p from obj, a value or pointer of the owning type.
func (p *PropertyDescriptor) GetValue(obj any) (any, bool) {
	return p.compiledGetter()(obj)
}

// SetValue writes value into p on obj, which must be a pointer to the owning
// type. Conversion failures are reported as *ConversionError.
func (p *PropertyDescriptor) SetValue(obj, value any) error {
	set, err := p.compiledSetter()
	if err != nil {
		return err
	}
	return set(obj, value)
}

// Get reads p from a struct value of the owning type, or a pointer to one.
// The result is addressable when v is.
func (p *PropertyDescriptor) Get(v reflect.Value) (reflect.Value, bool) {
	v, ok := ownerValue(p.owner, v)
	if !ok {
		return reflect.Value{}, false
	}
	p.compiledGetter()
	return p.read(v)
}

// Set writes value into p on an addressable struct value of the owning type,
// or a pointer to one.
func (p *PropertyDescriptor) Set(v reflect.Value, value any) error {
	if _, err := p.compiledSetter(); err != nil {
		return err
	}
	v, ok := ownerValue(p.owner, v)
	if !ok {
		return ErrTypeMismatch
	}
	if !v.CanAddr() {
		return ErrNotAddressable
	}
	return p.write(v, value)
}

func (p *PropertyDescriptor) String() string {
	return p.name + " " + FriendlyName(p.typ)
}
