package schema

import (
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// Describe returns the descriptor of t, building it on first use. Pointer
// types are described as their element type. Concurrent first calls for the
// same type converge on a single descriptor, and recursive type graphs
// terminate.
func (r *Registry) Describe(t reflect.Type) *TypeDescriptor {
	t = indirectType(t)
	if t == nil {
		return nilDescriptor
	}
	if d, ok := r.load(t); ok {
		return d
	}
	if !isComposite(t) {
		return r.publishLeaf(t)
	}

	for {
		d, contended := r.build(t)
		if d != nil {
			return d
		}
		r.retries.Add(1)
		r.logger.Debug("descriptor build contended, retrying",
			zap.Stringer("type", t),
			zap.Stringer("contended", contended),
		)
		// Wait with nothing held for the other build to finish.
		mu := r.lockFor(contended)
		mu.Lock()
		mu.Unlock()
	}
}

// isComposite reports whether describing t recurses into other types. Only
// those need the locked build; leaves are published with LoadOrStore.
func isComposite(t reflect.Type) bool {
	switch Classify(t) {
	case Collection:
		return true
	case Complex:
		return t.Kind() == reflect.Struct
	}
	return false
}

func (r *Registry) publishLeaf(t reflect.Type) *TypeDescriptor {
	d := &TypeDescriptor{typ: t, kind: Classify(t), name: FriendlyName(t)}
	actual, loaded := r.descriptors.LoadOrStore(t, d)
	if !loaded {
		r.built.Add(1)
	}
	return actual.(*TypeDescriptor)
}

// build constructs root and every composite type it reaches that is not yet
// published. It returns the contended type instead of a descriptor when a
// nested type is locked by another build.
func (r *Registry) build(root reflect.Type) (*TypeDescriptor, reflect.Type) {
	mu := r.lockFor(root)
	mu.Lock()

	b := &builder{
		registry: r,
		working:  make(map[reflect.Type]*TypeDescriptor),
		held:     []*sync.Mutex{mu},
	}
	defer b.release()

	if d, ok := r.load(root); ok {
		return d, nil
	}

	d := b.construct(root)
	if b.contended != nil {
		return nil, b.contended
	}

	for t, wd := range b.working {
		r.descriptors.Store(t, wd)
	}
	r.built.Add(int64(len(b.working)))
	r.logger.Debug("described type",
		zap.Stringer("type", root),
		zap.Stringer("kind", d.kind),
		zap.Int("descriptors", len(b.working)),
	)
	return d, nil
}

// builder is the state of one build: the working set of descriptors under
// construction and the per-type locks held for them.
type builder struct {
	registry  *Registry
	working   map[reflect.Type]*TypeDescriptor
	held      []*sync.Mutex
	contended reflect.Type
}

func (b *builder) release() {
	for i := len(b.held) - 1; i >= 0; i-- {
		b.held[i].Unlock()
	}
	b.held = nil
}

// describe resolves a nested type within the build. It returns nil once the
// build has been abandoned.
func (b *builder) describe(t reflect.Type) *TypeDescriptor {
	t = indirectType(t)
	if t == nil {
		return nilDescriptor
	}
	if d, ok := b.working[t]; ok {
		return d
	}
	if d, ok := b.registry.load(t); ok {
		return d
	}
	if !isComposite(t) {
		return b.registry.publishLeaf(t)
	}

	mu := b.registry.lockFor(t)
	if !mu.TryLock() {
		b.contended = t
		return nil
	}
	b.held = append(b.held, mu)

	if d, ok := b.registry.load(t); ok {
		return d
	}
	return b.construct(t)
}

// construct registers t in the working set before recursing, so a cycle back
// to t resolves to the descriptor in progress.
func (b *builder) construct(t reflect.Type) *TypeDescriptor {
	d := &TypeDescriptor{typ: t, kind: Classify(t), name: FriendlyName(t)}
	b.working[t] = d

	switch d.kind {
	case Collection:
		d.elem = b.describe(t.Elem())
		if b.contended != nil {
			return nil
		}
	case Complex:
		props := buildProperties(t, b.registry.parser)
		byName := make(map[string]*PropertyDescriptor, len(props))
		for _, p := range props {
			p.descriptor = b.describe(p.typ)
			if b.contended != nil {
				return nil
			}
			byName[p.name] = p
		}
		d.properties = props
		d.byName = byName
	}
	return d
}
