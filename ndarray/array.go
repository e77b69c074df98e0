// SPDX-License-Identifier: MIT

package ndarray

import (
	"fmt"
	"math/cmplx"
	"slices"
)

// Array is a dense row-major array of complex128 values.
type Array struct {
	shape   []int        // extents, len ≥ 1
	strides []int        // row-major strides
	data    []complex128 // flat storage, len == product(shape)
}

// New allocates a zero array of the given shape.
// Complexity: O(product(shape)).
func New(shape ...int) (*Array, error) {
	n, err := volume(shape)
	if err != nil {
		return nil, arrayErrorf(opNew, err)
	}

	return &Array{shape: slices.Clone(shape), strides: stridesOf(shape), data: make([]complex128, n)}, nil
}

// FromSlice wraps data (without copying) into an array of the given shape.
func FromSlice(data []complex128, shape ...int) (*Array, error) {
	n, err := volume(shape)
	if err != nil {
		return nil, arrayErrorf(opFromSlice, err)
	}
	if n != len(data) {
		return nil, arrayErrorf(opFromSlice, fmt.Errorf("len %d vs shape %v: %w", len(data), shape, ErrShape))
	}

	return &Array{shape: slices.Clone(shape), strides: stridesOf(shape), data: data}, nil
}

// FromReal copies a real slice into a new array of the given shape.
func FromReal(data []float64, shape ...int) (*Array, error) {
	c := make([]complex128, len(data))
	for i, v := range data {
		c[i] = complex(v, 0)
	}

	return FromSlice(c, shape...)
}

func volume(shape []int) (int, error) {
	if len(shape) == 0 {
		return 0, fmt.Errorf("rank 0: %w", ErrShape)
	}
	n := 1
	for _, s := range shape {
		if s <= 0 {
			return 0, fmt.Errorf("shape %v: %w", shape, ErrShape)
		}
		n *= s
	}

	return n, nil
}

func stridesOf(shape []int) []int {
	st := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		st[i] = acc
		acc *= shape[i]
	}

	return st
}

// Shape returns a copy of the extents.
func (a *Array) Shape() []int { return slices.Clone(a.shape) }

// Rank returns the number of axes.
func (a *Array) Rank() int { return len(a.shape) }

// Size returns the total number of elements.
func (a *Array) Size() int { return len(a.data) }

// Data exposes the flat row-major storage.
func (a *Array) Data() []complex128 { return a.data }

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	return &Array{shape: slices.Clone(a.shape), strides: slices.Clone(a.strides), data: slices.Clone(a.data)}
}

func (a *Array) offset(idx []int) (int, error) {
	if len(idx) != len(a.shape) {
		return 0, fmt.Errorf("index %v for shape %v: %w", idx, a.shape, ErrOutOfRange)
	}
	off := 0
	for k, i := range idx {
		if i < 0 || i >= a.shape[k] {
			return 0, fmt.Errorf("index %v for shape %v: %w", idx, a.shape, ErrOutOfRange)
		}
		off += i * a.strides[k]
	}

	return off, nil
}

// At returns the element at idx.
func (a *Array) At(idx ...int) (complex128, error) {
	off, err := a.offset(idx)
	if err != nil {
		return 0, arrayErrorf(opAt, err)
	}

	return a.data[off], nil
}

// Set assigns v at idx.
func (a *Array) Set(v complex128, idx ...int) error {
	off, err := a.offset(idx)
	if err != nil {
		return arrayErrorf(opSet, err)
	}
	a.data[off] = v

	return nil
}

// SubBlock returns the contiguous trailing block at a given leading
// offset: the elements a[lead, ...] for a flat leading index over the
// first nLead axes. The slice aliases the array storage.
func (a *Array) SubBlock(nLead, lead int) []complex128 {
	cell := 1
	for _, s := range a.shape[nLead:] {
		cell *= s
	}

	return a.data[lead*cell : (lead+1)*cell]
}

// Reshape returns an array sharing storage with a new shape of equal volume.
func (a *Array) Reshape(shape ...int) (*Array, error) {
	n, err := volume(shape)
	if err != nil {
		return nil, arrayErrorf(opReshape, err)
	}
	if n != len(a.data) {
		return nil, arrayErrorf(opReshape, fmt.Errorf("%v -> %v: %w", a.shape, shape, ErrShape))
	}

	return &Array{shape: slices.Clone(shape), strides: stridesOf(shape), data: a.data}, nil
}

// Scale returns alpha·a.
func (a *Array) Scale(alpha complex128) *Array {
	out := a.Clone()
	for i := range out.data {
		out.data[i] *= alpha
	}

	return out
}

// Conj returns the elementwise complex conjugate.
func (a *Array) Conj() *Array {
	out := a.Clone()
	for i := range out.data {
		out.data[i] = cmplx.Conj(out.data[i])
	}

	return out
}

// Add returns a+b.
func Add(a, b *Array) (*Array, error) { return addSub(a, b, 1, opAdd) }

// Sub returns a-b.
func Sub(a, b *Array) (*Array, error) { return addSub(a, b, -1, opSub) }

func addSub(a, b *Array, sign complex128, op string) (*Array, error) {
	if !slices.Equal(a.shape, b.shape) {
		return nil, arrayErrorf(op, fmt.Errorf("%v vs %v: %w", a.shape, b.shape, ErrShape))
	}
	out := a.Clone()
	for i := range out.data {
		out.data[i] += sign * b.data[i]
	}

	return out, nil
}

// MaxAbsDiff returns max |a_i - b_i|.
func MaxAbsDiff(a, b *Array) (float64, error) {
	if !slices.Equal(a.shape, b.shape) {
		return 0, arrayErrorf(opDiff, fmt.Errorf("%v vs %v: %w", a.shape, b.shape, ErrShape))
	}
	m := 0.0
	for i := range a.data {
		if d := cmplx.Abs(a.data[i] - b.data[i]); d > m {
			m = d
		}
	}

	return m, nil
}
