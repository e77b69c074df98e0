package ndarray_test

import (
	"testing"

	"github.com/katalvlaran/gfmesh/ndarray"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iota3(t *testing.T, shape ...int) *ndarray.Array {
	t.Helper()
	a, err := ndarray.New(shape...)
	require.NoError(t, err)
	for i := range a.Data() {
		a.Data()[i] = complex(float64(i), -float64(i))
	}

	return a
}

// TestNew_Validation rejects empty and non-positive shapes.
func TestNew_Validation(t *testing.T) {
	_, err := ndarray.New()
	assert.ErrorIs(t, err, ndarray.ErrShape)
	_, err = ndarray.New(2, 0)
	assert.ErrorIs(t, err, ndarray.ErrShape)
	_, err = ndarray.FromSlice(make([]complex128, 5), 2, 3)
	assert.ErrorIs(t, err, ndarray.ErrShape)
}

// TestAtSet checks row-major addressing and bounds.
func TestAtSet(t *testing.T) {
	a := iota3(t, 2, 3, 4)
	v, err := a.At(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, complex(23, -23), v)

	require.NoError(t, a.Set(7i, 0, 0, 1))
	v, _ = a.At(0, 0, 1)
	assert.Equal(t, 7i, v)

	_, err = a.At(2, 0, 0)
	assert.ErrorIs(t, err, ndarray.ErrOutOfRange)
	_, err = a.At(0, 0)
	assert.ErrorIs(t, err, ndarray.ErrOutOfRange)
}

// TestFlatten2D_RoundTrip verifies Unflatten2D(Flatten2D(a, k), k) == a for
// every axis and that rows hold the chosen axis.
func TestFlatten2D_RoundTrip(t *testing.T) {
	a := iota3(t, 2, 3, 4)
	for axis := 0; axis < 3; axis++ {
		m, err := a.Flatten2D(axis)
		require.NoError(t, err)
		assert.Equal(t, a.Shape()[axis], m.Rows)
		assert.Equal(t, a.Size()/a.Shape()[axis], m.Cols)

		back, err := ndarray.Unflatten2D(m, axis, a.Shape())
		require.NoError(t, err)
		assert.Equal(t, a.Data(), back.Data(), "axis %d", axis)
	}

	// Axis 1: row i, column p*post+q holds a[p, i, q].
	m, err := a.Flatten2D(1)
	require.NoError(t, err)
	want, _ := a.At(1, 2, 3)
	assert.Equal(t, want, m.At(2, 1*4+3))

	_, err = a.Flatten2D(3)
	assert.ErrorIs(t, err, ndarray.ErrAxis)
}

// TestUnflatten2D_ResizedAxis allows a different extent along the axis.
func TestUnflatten2D_ResizedAxis(t *testing.T) {
	m := ndarray.NewMatrix(5, 6)
	out, err := ndarray.Unflatten2D(m, 1, []int{2, 5, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 5, 3}, out.Shape())

	_, err = ndarray.Unflatten2D(m, 1, []int{2, 4, 3})
	assert.ErrorIs(t, err, ndarray.ErrShape)
}

// TestArithmetic covers Add, Sub, Scale, Conj and MaxAbsDiff.
func TestArithmetic(t *testing.T) {
	a := iota3(t, 2, 2)
	b := a.Scale(2)
	sum, err := ndarray.Add(a, a)
	require.NoError(t, err)
	d, err := ndarray.MaxAbsDiff(sum, b)
	require.NoError(t, err)
	assert.Zero(t, d)

	diff, err := ndarray.Sub(b, a)
	require.NoError(t, err)
	assert.Equal(t, a.Data(), diff.Data())

	c := a.Conj()
	assert.Equal(t, complex(3, 3), c.Data()[3])

	other := iota3(t, 4)
	_, err = ndarray.Add(a, other)
	assert.ErrorIs(t, err, ndarray.ErrShape)
}
