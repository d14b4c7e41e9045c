package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/typemeta/convert"
)

// =========================================================================
// Helpers
// =========================================================================

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { convert.SetDefault(nil) })

	var buf bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func decodeJSON(t *testing.T, out string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	return m
}

// =========================================================================
// Root Tests
// =========================================================================

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "typemeta", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, expected := range []string{"version", "get", "set", "equal", "flatten"} {
		assert.Contains(t, names, expected)
	}

	for _, flag := range []string{"config", "output", "naming", "serializer", "verbose"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	GitCommit = "abc123"
	t.Cleanup(func() { Version, GitCommit = "dev", "unknown" })

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "1.0.0-test")
	assert.Contains(t, out, "abc123")
}

func TestInvalidConfiguration(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	file := writeFile(t, dir, "doc.json", `{"a": 1}`)

	_, err := run(t, "--output", "xml", "get", file, "a")
	assert.Error(t, err)

	_, err = run(t, "--naming", "kebab", "get", file, "a")
	assert.Error(t, err)

	_, err = run(t, "--naming", "tag:json", "get", file, "a")
	assert.Error(t, err)
}

func TestSerializerFlag(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	file := writeFile(t, dir, "doc.json", `{"a": 1}`)

	_, err := run(t, "--serializer", "yaml", "get", file, "a")
	require.NoError(t, err)
	assert.Equal(t, convert.YAML, convert.Default())
}

// =========================================================================
// Get / Set Tests
// =========================================================================

func TestGet(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	file := writeFile(t, dir, "doc.json", `{"server": {"port": 8080, "host": "localhost"}}`)

	out, err := run(t, "get", file, "server.port")
	require.NoError(t, err)
	assert.Equal(t, "8080\n", out)

	out, err = run(t, "-o", "yaml", "get", file, "server")
	require.NoError(t, err)
	assert.Equal(t, "host: localhost\nport: 8080\n", out)
}

func TestGetMissing(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	file := writeFile(t, dir, "doc.yaml", "server:\n  port: 1\nempty: null\n")

	_, err := run(t, "get", file, "server.host")
	assert.ErrorIs(t, err, ErrPathNotFound)

	_, err = run(t, "get", file, "empty")
	assert.ErrorIs(t, err, ErrPathNotFound, "a null value reads as absent")

	_, err = run(t, "get", file, "server.port.deeper")
	assert.ErrorIs(t, err, ErrPathNotFound)
}

func TestSet(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	file := writeFile(t, dir, "doc.json", `{"server": {"port": 8080}}`)

	out, err := run(t, "set", file, "server.port", "9090")
	require.NoError(t, err)

	doc := decodeJSON(t, out)
	assert.Equal(t, map[string]any{"port": float64(9090)}, doc["server"])

	out, err = run(t, "set", file, "server.enabled", "true")
	require.NoError(t, err)
	assert.Equal(t, true, decodeJSON(t, out)["server"].(map[string]any)["enabled"])
}

func TestSetMissingIntermediate(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	file := writeFile(t, dir, "doc.json", `{"a": 1}`)

	out, err := run(t, "set", file, "missing.child", "2")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, decodeJSON(t, out))
}

func TestSetInPlace(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	file := writeFile(t, dir, "doc.toml", "title = \"a\"\n\n[server]\nport = 1\n")

	out, err := run(t, "set", "-i", file, "server.port", "2")
	require.NoError(t, err)
	assert.Empty(t, out)

	doc, err := loadDocument(file)
	require.NoError(t, err)
	assert.Equal(t, "a", doc["title"])
	assert.Equal(t, int64(2), doc["server"].(map[string]any)["port"])
}

// =========================================================================
// Equal / Flatten Tests
// =========================================================================

func TestEqual(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	a := writeFile(t, dir, "a.json", `{"a": 1, "b": {"c": "x"}}`)
	b := writeFile(t, dir, "b.yaml", "a: 1\nb:\n  c: x\n")
	c := writeFile(t, dir, "c.toml", "a = 2\n")
	d := writeFile(t, dir, "d.toml", "a = 1\nextra = true\n")

	out, err := run(t, "equal", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "equal")
	assert.NotContains(t, out, "not equal")

	out, err = run(t, "equal", a, d)
	require.NoError(t, err, "keys on one side only are ignored")
	assert.NotContains(t, out, "not equal")

	out, err = run(t, "equal", a, c)
	assert.ErrorIs(t, err, ErrNotEqual)
	assert.Contains(t, out, "not equal")
}

func TestFlatten(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	file := writeFile(t, dir, "doc.yaml", "name: x\nserver:\n  httpPort: 8080\n  tags: [a, b]\nempty: {}\n")

	out, err := run(t, "--naming", "snake", "flatten", file)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"name":             "x",
		"server.http_port": float64(8080),
		"server.tags":      []any{"a", "b"},
		"empty":            map[string]any{},
	}, decodeJSON(t, out))
}

func TestFlattenOmitNil(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	file := writeFile(t, dir, "doc.yaml", "a: null\nb: 1\n")

	out, err := run(t, "flatten", "--omit-nil", file)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"b": float64(1)}, decodeJSON(t, out))

	out, err = run(t, "flatten", file)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": nil, "b": float64(1)}, decodeJSON(t, out))
}

// =========================================================================
// Document Tests
// =========================================================================

func TestUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	file := writeFile(t, dir, "doc.txt", "a=1")

	_, err := run(t, "get", file, "a")
	assert.Error(t, err)
}

func TestParseScalar(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{"8080", 8080},
		{"1.5", 1.5},
		{"true", true},
		{"hello", "hello"},
		{"null", nil},
		{"", ""},
		{"[1, 2]", []any{1, 2}},
		{"{a: 1}", map[string]any{"a": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parseScalar(tt.raw))
		})
	}
}
