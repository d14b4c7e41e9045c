package schema

import (
	"reflect"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Registry builds and memoizes type descriptors. Descriptors are never
// evicted. The zero value is not usable; create one with New.
type Registry struct {
	descriptors sync.Map // map[reflect.Type]*TypeDescriptor
	locks       sync.Map // map[reflect.Type]*sync.Mutex

	parser *TagParser
	logger *zap.Logger

	built   atomic.Int64
	retries atomic.Int64
}

type Option func(*Registry)

// WithLogger sets the logger used for build diagnostics. Builds and
// contention retries are logged at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithAttributeParser shares a tag parser, and its cache, between registries.
func WithAttributeParser(parser *TagParser) Option {
	return func(r *Registry) {
		if parser != nil {
			r.parser = parser
		}
	}
}

// New creates an empty registry.
func New(options ...Option) *Registry {
	r := &Registry{
		parser: NewTagParser(),
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Default is the process-wide registry behind the package level functions.
var Default = New()

// Describe returns the descriptor of t from the Default registry.
func Describe(t reflect.Type) *TypeDescriptor {
	return Default.Describe(t)
}

// DescribeOf returns the descriptor of the dynamic type of v.
func DescribeOf(v any) *TypeDescriptor {
	return Default.Describe(reflect.TypeOf(v))
}

// Stats is a snapshot of registry counters.
type Stats struct {
	// Descriptors is the number of published descriptors.
	Descriptors int
	// Built counts descriptors constructed, leaves included.
	Built int64
	// Retries counts builds abandoned on a contended nested type.
	Retries int64
}

func (r *Registry) Stats() Stats {
	n := 0
	r.descriptors.Range(func(_, _ any) bool {
		n++
		return true
	})
	return Stats{
		Descriptors: n,
		Built:       r.built.Load(),
		Retries:     r.retries.Load(),
	}
}

// Len returns the number of published descriptors.
func (r *Registry) Len() int {
	return r.Stats().Descriptors
}

func (r *Registry) load(t reflect.Type) (*TypeDescriptor, bool) {
	d, ok := r.descriptors.Load(t)
	if !ok {
		return nil, false
	}
	return d.(*TypeDescriptor), true
}

func (r *Registry) lockFor(t reflect.Type) *sync.Mutex {
	if mu, ok := r.locks.Load(t); ok {
		return mu.(*sync.Mutex)
	}
	mu, _ := r.locks.LoadOrStore(t, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
