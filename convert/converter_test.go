package convert

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Color string

type Level int

type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func TestTo(t *testing.T) {
	str := "hello"
	tests := []struct {
		name   string
		value  any
		target reflect.Type
		want   any
	}{
		{"Nil", nil, reflect.TypeOf(0), 0},
		{"Assignable", 42, reflect.TypeOf(0), 42},
		{"IntToInt64", 42, reflect.TypeOf(int64(0)), int64(42)},
		{"FloatToInt", 3.0, reflect.TypeOf(0), 3},
		{"StringToInt", " 17 ", reflect.TypeOf(0), 17},
		{"StringToFloat", "2.5", reflect.TypeOf(float64(0)), 2.5},
		{"IntToString", 3, reflect.TypeOf(""), "3"},
		{"BoolToString", true, reflect.TypeOf(""), "true"},
		{"StringToBool", "true", reflect.TypeOf(false), true},
		{"StringToEnum", "red", reflect.TypeOf(Color("")), Color("red")},
		{"IntToEnum", 2, reflect.TypeOf(Level(0)), Level(2)},
		{"PointerSource", &str, reflect.TypeOf(""), "hello"},
		{"BytesToString", []byte("raw"), reflect.TypeOf(""), "raw"},
		{"StringToBytes", "raw", reflect.TypeOf([]byte(nil)), []byte("raw")},
		{"MapToStruct", map[string]any{"x": 1, "y": 2}, reflect.TypeOf(Point{}), Point{X: 1, Y: 2}},
		{"SliceElemWidening", []int{1, 2}, reflect.TypeOf([]int64(nil)), []int64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := To(tt.value, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Interface())
		})
	}
}

func TestToPointerTarget(t *testing.T) {
	out, err := To(5, reflect.TypeOf((*int64)(nil)))
	require.NoError(t, err)
	p, ok := out.Interface().(*int64)
	require.True(t, ok)
	assert.Equal(t, int64(5), *p)
}

func TestToTime(t *testing.T) {
	out, err := To("2024-03-01T10:00:00Z", reflect.TypeOf(time.Time{}))
	require.NoError(t, err)
	assert.True(t, out.Interface().(time.Time).Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))

	out, err = To(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), reflect.TypeOf(""))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T00:00:00Z", out.Interface())
}

func TestToFailure(t *testing.T) {
	_, err := To("not a number", reflect.TypeOf(0))
	assert.Error(t, err)

	_, err = To(300, reflect.TypeOf(int8(0)))
	assert.Error(t, err, "overflow falls back to the serializer, which rejects it as well")

	_, err = To(-1, reflect.TypeOf(uint(0)))
	assert.Error(t, err)

	_, err = To(math.Ldexp(1, 63), reflect.TypeOf(int64(0)))
	assert.Error(t, err, "1<<63 does not fit int64")

	_, err = To(math.Ldexp(1, 64), reflect.TypeOf(uint64(0)))
	assert.Error(t, err, "1<<64 does not fit uint64")

	n, ok := As[int64](float64(math.MaxInt64))
	assert.False(t, ok)
	assert.Zero(t, n)

	u, ok := As[uint64](float64(math.MaxUint64))
	assert.False(t, ok)
	assert.Zero(t, u)

	below, ok := As[int64](math.Ldexp(1, 62))
	assert.True(t, ok)
	assert.Equal(t, int64(1)<<62, below)
}

func TestAs(t *testing.T) {
	n, ok := As[int](float64(4))
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	s, ok := As[string](12)
	assert.True(t, ok)
	assert.Equal(t, "12", s)

	p, ok := As[Point](map[string]any{"x": 3, "y": 4})
	assert.True(t, ok)
	assert.Equal(t, Point{X: 3, Y: 4}, p)

	n, ok = As[int]("nope")
	assert.False(t, ok)
	assert.Equal(t, 0, n)

	n, ok = As[int](nil)
	assert.False(t, ok)
	assert.Equal(t, 0, n)

	var v any
	v, ok = As[any](7)
	assert.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestAsType(t *testing.T) {
	assert.Equal(t, int64(9), AsType(9, reflect.TypeOf(int64(0))))
	assert.Nil(t, AsType("x", reflect.TypeOf(0)))
	assert.Nil(t, AsType(nil, reflect.TypeOf(0)))
}

func TestChangeType(t *testing.T) {
	assert.Equal(t, Color("blue"), ChangeType("blue", reflect.TypeOf(Color(""))))
	assert.Equal(t, 3, ChangeType("3", reflect.TypeOf(0)))
	assert.Nil(t, ChangeType("x", reflect.TypeOf(0)))
	assert.Nil(t, ChangeType(map[string]any{"x": 1}, reflect.TypeOf(Point{})), "no serializer round-trip")
	assert.Nil(t, ChangeType(nil, reflect.TypeOf(0)))
}

func TestSerializerSelection(t *testing.T) {
	t.Cleanup(func() { SetDefault(nil) })

	assert.Equal(t, JSON, Default())

	SetDefault(YAML)
	assert.Equal(t, YAML, Default())

	p, ok := As[Point](map[string]any{"x": 5, "y": 6})
	assert.True(t, ok)
	assert.Equal(t, Point{X: 5, Y: 6}, p)

	SetDefault(nil)
	assert.Equal(t, JSON, Default())

	s, ok := ByName("yml")
	assert.True(t, ok)
	assert.Equal(t, YAML, s)

	_, ok = ByName("xml")
	assert.False(t, ok)
}
