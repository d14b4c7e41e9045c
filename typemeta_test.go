package typemeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Child struct {
	Value int
}

type Parent struct {
	Name  string
	Child *Child
	Tags  []string
}

func TestFacade(t *testing.T) {
	d := DescribeOf[Parent]()
	require.Equal(t, Complex, d.Kind())
	assert.Equal(t, []string{"Name", "Child", "Tags"}, d.PropertyNames())
	assert.Same(t, d, DescribeOf[*Parent]())

	p := &Parent{Name: "A", Child: &Child{Value: 1}, Tags: []string{"x"}}

	require.NoError(t, Set(p, "Child.Value", 2))
	assert.Equal(t, 2, Get[int](p, "Child.Value"))

	_, ok := Lookup[int](p, "Child.Missing")
	assert.False(t, ok)

	assert.Equal(t, map[string]any{
		"Name":  "A",
		"Child": map[string]any{"Value": 2},
		"Tags":  []string{"x"},
	}, ToMap(p))

	assert.True(t, Equal(p, &Parent{Name: "A", Child: &Child{Value: 2}, Tags: []string{"x"}}))

	n, ok := As[int]("12")
	assert.True(t, ok)
	assert.Equal(t, 12, n)
}
