package objpath

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/typemeta/dynamic"
	"github.com/Konsultn-Engineering/typemeta/schema"
)

type Child struct {
	Value int
	Tags  []string
}

type Parent struct {
	Name     string
	Child    *Child
	Inline   Child
	Meta     map[string]any
	Any      any
	ReadOnly string `meta:"readonly"`
}

// =========================================================================
// Path Get/Set Tests
// =========================================================================

func TestSetThenGet(t *testing.T) {
	p := &Parent{Name: "A", Child: &Child{Value: 1}}

	require.NoError(t, Set(p, "Child.Value", 2))
	assert.Equal(t, 2, Get[int](p, "Child.Value"))
	assert.Equal(t, 2, p.Child.Value)
}

func TestSetThroughValueField(t *testing.T) {
	p := &Parent{}

	require.NoError(t, Set(p, "Inline.Value", 5))
	assert.Equal(t, 5, p.Inline.Value)

	require.NoError(t, Set(p, "Inline.Tags", []string{"a"}))
	assert.Equal(t, []string{"a"}, Get[[]string](p, "Inline.Tags"))
}

func TestGetMissing(t *testing.T) {
	p := &Parent{Name: "A", Child: &Child{Value: 1}}

	assert.Equal(t, 0, Get[int](p, "missing.path"))
	assert.Equal(t, "", Get[string](p, "Child.Nope"))

	_, ok := Lookup[int](p, "missing.path")
	assert.False(t, ok)

	assert.Equal(t, 0, Get[int](&Parent{}, "Child.Value"), "nil intermediate reads as absent")
	assert.Equal(t, 0, Get[int](nil, "Child.Value"))
	assert.Nil(t, Get[any](p, ""))
}

func TestSetMissingIsNoop(t *testing.T) {
	p := &Parent{}

	require.NoError(t, Set(p, "Child.Value", 3))
	assert.Nil(t, p.Child, "intermediates are never created")

	require.NoError(t, Set(p, "Unknown", 3))
	require.NoError(t, Set(p, "Child.Unknown.Deeper", 3))
	require.NoError(t, Set(p, "", 3))
}

func TestGetConversion(t *testing.T) {
	p := &Parent{Name: "A", Child: &Child{Value: 2}}

	assert.Equal(t, "2", Get[string](p, "Child.Value"))
	assert.Equal(t, int64(2), Get[int64](p, "Child.Value"))

	n, ok := Lookup[int](p, "Name")
	assert.False(t, ok, "failed conversion is reported as absent")
	assert.Equal(t, 0, n)
}

func TestEmptySegmentsIgnored(t *testing.T) {
	p := &Parent{Name: "A", Child: &Child{Value: 1}}

	assert.Equal(t, "A", Get[string](p, ".Name."))
	assert.Equal(t, 1, Get[int](p, "Child..Value"))
}

func TestSetErrors(t *testing.T) {
	p := &Parent{Child: &Child{}}

	err := Set(Parent{}, "Name", "x")
	assert.ErrorIs(t, err, schema.ErrNotAddressable)

	err = Set(p, "ReadOnly", "x")
	assert.ErrorIs(t, err, schema.ErrReadOnly)

	err = Set(p, "Child.Value", "abc")
	var convErr *schema.ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "Value", convErr.Property)
}

// =========================================================================
// Dynamic Map Tests
// =========================================================================

func TestPathThroughMaps(t *testing.T) {
	p := &Parent{Meta: map[string]any{"k": map[string]any{"n": 1}}}

	assert.Equal(t, 1, Get[int](p, "Meta.k.n"))

	require.NoError(t, Set(p, "Meta.k.n", 9))
	assert.Equal(t, 9, p.Meta["k"].(map[string]any)["n"])

	require.NoError(t, Set(p, "Meta.missing.n", 9))
	assert.NotContains(t, p.Meta, "missing")
}

func TestDynamicObjectRoot(t *testing.T) {
	o := dynamic.Object{"child": &Child{Value: 1}, "name": "root"}

	require.NoError(t, Set(o, "child.Value", 4))
	assert.Equal(t, 4, Get[int](o, "child.Value"))
	assert.Equal(t, "root", Get[string](o, "name"))

	require.NoError(t, Set(o, "name", "renamed"))
	assert.Equal(t, "renamed", o["name"])
}

func TestPathThroughInterface(t *testing.T) {
	p := &Parent{Any: &Child{Value: 7}}

	assert.Equal(t, 7, Get[int](p, "Any.Value"))
	require.NoError(t, Set(p, "Any.Value", 8))
	assert.Equal(t, 8, p.Any.(*Child).Value)
}

// =========================================================================
// Single Property Tests
// =========================================================================

func TestValueAndSetValue(t *testing.T) {
	p := &Parent{Name: "A", Child: &Child{Value: 1}}

	v, ok := Value(p, "Name")
	assert.True(t, ok)
	assert.Equal(t, "A", v)

	_, ok = Value(p, "Child.Value")
	assert.False(t, ok, "single property access does not split paths")

	require.NoError(t, SetValue(p, "Name", "B"))
	assert.Equal(t, "B", p.Name)

	require.NoError(t, SetValue(p, "Nope", "B"))

	m := map[string]int{"a": 1}
	require.NoError(t, SetValue(m, "a", 2))
	v, ok = Value(m, "a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestNavigatorOptions(t *testing.T) {
	r := schema.New()
	n := New(WithRegistry(r), WithCacheSize(0))
	assert.Equal(t, DefaultCacheSize, n.cacheSize, "invalid sizes fall back to the default")

	p := &Parent{Child: &Child{Value: 3}}
	v, ok := n.Lookup(p, "Child.Value")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.True(t, r.Len() > 0, "descriptors come from the configured registry")

	n.Lookup(p, "Child.Value")
	assert.Equal(t, 1, n.paths.Len(), "compiled paths are cached")
}

func TestConcurrentPaths(t *testing.T) {
	const numGoroutines = 16

	var wg sync.WaitGroup
	startBarrier := make(chan struct{})
	parents := make([]*Parent, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		parents[i] = &Parent{Child: &Child{}}
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			<-startBarrier
			for j := 0; j < 50; j++ {
				if err := Set(parents[id], "Child.Value", id); err != nil {
					t.Errorf("set: %v", err)
					return
				}
				if got := Get[int](parents[id], "Child.Value"); got != id {
					t.Errorf("goroutine %d read %d", id, got)
					return
				}
			}
		}(i)
	}

	close(startBarrier)
	wg.Wait()
}
