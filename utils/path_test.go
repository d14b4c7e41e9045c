package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitHead(t *testing.T) {
	tests := []struct {
		path string
		head string
		rest string
	}{
		{"a.b.c", "a", "b.c"},
		{"a", "a", ""},
		{".a..b.", "a", "b"},
		{"", "", ""},
		{"Child.Value", "Child", "Value"},
		{"Child. Value", "Child", "Value"},
		{" a . b . c ", "a", "b.c"},
		{" . ", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			head, rest := SplitHead(tt.path)
			assert.Equal(t, tt.head, head)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestSegments(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Segments("a.b.c"))
	assert.Equal(t, []string{"a", "b"}, Segments("..a. .b.."))
	assert.Nil(t, Segments(""))
	assert.Nil(t, Segments("..."))

	for _, path := range []string{"Child. Value", " a . b . c ", "a..b"} {
		head, rest := SplitHead(path)
		assert.Equal(t, Segments(path), append([]string{head}, Segments(rest)...),
			"SplitHead and Segments agree on %q", path)
	}
}

func TestTrimBy(t *testing.T) {
	assert.Equal(t, "a", TrimThenBy("..a.b", "."))
	assert.Equal(t, "b.c", TrimLeftBy("a.b.c.", "."))
	assert.Equal(t, "", TrimLeftBy("a", "."))
}

func TestUpperFirst(t *testing.T) {
	assert.Equal(t, "Name", UpperFirst("name"))
	assert.Equal(t, "Name", UpperFirst("Name"))
	assert.Equal(t, "", UpperFirst(""))
	assert.Equal(t, "Ärger", UpperFirst("ärger"))
}
