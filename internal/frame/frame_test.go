package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFrame(t *testing.T) *Frame {
	t.Helper()
	f := New()
	require.NoError(t, f.AddStrings("dept", []string{"Commercial", "Consulting", "Commercial"}, nil))
	require.NoError(t, f.AddFloats("age", []float64{30, 41, 0}, []bool{false, false, true}))
	return f
}

func TestAddAndLookup(t *testing.T) {
	f := buildFrame(t)

	assert.Equal(t, 3, f.NumRows())
	assert.Equal(t, 2, f.NumCols())
	assert.Equal(t, []string{"dept", "age"}, f.Names())
	assert.True(t, f.Has("age"))
	assert.False(t, f.Has("salary"))

	_, ok := f.Column("salary")
	assert.False(t, ok)

	c, ok := f.Column("age")
	require.True(t, ok)
	v, present := c.Float(0)
	assert.True(t, present)
	assert.Equal(t, 30.0, v)

	_, present = c.Float(2)
	assert.False(t, present, "null cell must not read as a value")
}

func TestAddRejectsRowMismatch(t *testing.T) {
	f := buildFrame(t)
	err := f.AddFloats("x", []float64{1}, nil)
	require.Error(t, err)
}

func TestAddRejectsDuplicate(t *testing.T) {
	f := buildFrame(t)
	err := f.AddFloats("age", []float64{1, 2, 3}, nil)
	require.Error(t, err)
}

func TestSetFloatsReplacesInPlace(t *testing.T) {
	f := buildFrame(t)
	require.NoError(t, f.SetFloats("dept", []float64{0, 1, 0}, nil))

	c, ok := f.Column("dept")
	require.True(t, ok)
	assert.Equal(t, Float, c.Type)
	// Position preserved.
	assert.Equal(t, []string{"dept", "age"}, f.Names())
}

func TestCloneIsDeep(t *testing.T) {
	f := buildFrame(t)
	g := f.Clone()

	gc, _ := g.Column("age")
	gc.Floats[0] = 99

	fc, _ := f.Column("age")
	assert.Equal(t, 30.0, fc.Floats[0], "mutating the clone must not touch the original")
}

func TestDrop(t *testing.T) {
	f := buildFrame(t)
	f.Drop("dept", "never_existed")
	assert.Equal(t, []string{"age"}, f.Names())
	assert.Equal(t, 3, f.NumRows())
}

func TestTake(t *testing.T) {
	f := buildFrame(t)
	g := f.Take([]int{2, 0})

	require.Equal(t, 2, g.NumRows())
	c, _ := g.Column("dept")
	s, _ := c.Str(0)
	assert.Equal(t, "Commercial", s)

	a, _ := g.Column("age")
	assert.True(t, a.IsNull(0))
	v, _ := a.Float(1)
	assert.Equal(t, 30.0, v)
}

func TestRowKeyDistinguishesNullFromZero(t *testing.T) {
	f := New()
	require.NoError(t, f.AddFloats("x", []float64{0, 0}, []bool{false, true}))
	assert.NotEqual(t, f.RowKey(0), f.RowKey(1))
}

func TestMatrix(t *testing.T) {
	f := New()
	require.NoError(t, f.AddFloats("a", []float64{1, 2}, nil))
	require.NoError(t, f.AddFloats("b", []float64{3, 4}, nil))

	m, err := f.Matrix([]string{"a", "b"})
	require.NoError(t, err)
	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 4.0, m.At(1, 1))
}

func TestMatrixRejectsNulls(t *testing.T) {
	f := New()
	require.NoError(t, f.AddFloats("a", []float64{1, 0}, []bool{false, true}))
	_, err := f.Matrix([]string{"a"})
	require.Error(t, err)
}

func TestMatrixRejectsStringColumn(t *testing.T) {
	f := New()
	require.NoError(t, f.AddStrings("s", []string{"x"}, nil))
	_, err := f.Matrix([]string{"s"})
	require.Error(t, err)
}
