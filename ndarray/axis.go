// SPDX-License-Identifier: MIT

package ndarray

import (
	"fmt"
	"slices"
)

// Matrix is a row-major 2-D view produced by Flatten2D.
type Matrix struct {
	Rows, Cols int
	Data       []complex128 // len == Rows*Cols
}

// NewMatrix allocates a zero Rows×Cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]complex128, rows*cols)}
}

// Row returns row i, aliasing the storage.
func (m *Matrix) Row(i int) []complex128 { return m.Data[i*m.Cols : (i+1)*m.Cols] }

// At returns m[i, j]; indices are not checked.
func (m *Matrix) At(i, j int) complex128 { return m.Data[i*m.Cols+j] }

// splitAt returns (∏ shape[:axis], shape[axis], ∏ shape[axis+1:]).
func splitAt(shape []int, axis int) (pre, n, post int) {
	pre, post = 1, 1
	for _, s := range shape[:axis] {
		pre *= s
	}
	for _, s := range shape[axis+1:] {
		post *= s
	}

	return pre, shape[axis], post
}

// Flatten2D copies the array into an (shape[axis], Π_{k≠axis} shape[k])
// matrix. Columns enumerate the remaining axes in row-major order, so the
// layout agrees with product-mesh iteration and Unflatten2D inverts it.
// Complexity: O(Size()).
func (a *Array) Flatten2D(axis int) (*Matrix, error) {
	if axis < 0 || axis >= len(a.shape) {
		return nil, arrayErrorf(opFlatten, fmt.Errorf("axis %d, rank %d: %w", axis, len(a.shape), ErrAxis))
	}
	pre, n, post := splitAt(a.shape, axis)
	m := NewMatrix(n, pre*post)
	var p, i, src int
	for p = 0; p < pre; p++ {
		for i = 0; i < n; i++ {
			src = (p*n + i) * post
			copy(m.Data[i*m.Cols+p*post:i*m.Cols+(p+1)*post], a.data[src:src+post])
		}
	}

	return m, nil
}

// Unflatten2D is the inverse of Flatten2D. shape is the target shape; its
// extent along axis must equal m.Rows and the other extents must multiply
// to m.Cols.
// Complexity: O(m.Rows*m.Cols).
func Unflatten2D(m *Matrix, axis int, shape []int) (*Array, error) {
	if axis < 0 || axis >= len(shape) {
		return nil, arrayErrorf(opUnflatten, fmt.Errorf("axis %d, rank %d: %w", axis, len(shape), ErrAxis))
	}
	pre, n, post := splitAt(shape, axis)
	if n != m.Rows || pre*post != m.Cols {
		return nil, arrayErrorf(opUnflatten, fmt.Errorf("matrix %dx%d vs shape %v axis %d: %w", m.Rows, m.Cols, shape, axis, ErrShape))
	}
	out, err := New(slices.Clone(shape)...)
	if err != nil {
		return nil, arrayErrorf(opUnflatten, err)
	}
	var p, i, dst int
	for p = 0; p < pre; p++ {
		for i = 0; i < n; i++ {
			dst = (p*n + i) * post
			copy(out.data[dst:dst+post], m.Data[i*m.Cols+p*post:i*m.Cols+(p+1)*post])
		}
	}

	return out, nil
}
