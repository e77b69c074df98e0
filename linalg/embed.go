// SPDX-License-Identifier: MIT

package linalg

import (
	"fmt"

	"github.com/katalvlaran/gfmesh/ndarray"
	"gonum.org/v1/gonum/mat"
)

// EmbedComplex returns the real 2m×2n matrix [[Re A, -Im A], [Im A, Re A]].
// A x = b over ℂ is equivalent to Embed(A) [Re x; Im x] = [Re b; Im b],
// and the singular values of the embedding are those of A, each twice.
// Complexity: O(m*n).
func EmbedComplex(a *ndarray.Matrix) *mat.Dense {
	m, n := a.Rows, a.Cols
	e := mat.NewDense(2*m, 2*n, nil)
	var i, j int
	var v complex128
	for i = 0; i < m; i++ {
		for j = 0; j < n; j++ {
			v = a.At(i, j)
			e.Set(i, j, real(v))
			e.Set(i, j+n, -imag(v))
			e.Set(i+m, j, imag(v))
			e.Set(i+m, j+n, real(v))
		}
	}

	return e
}

// stackComplex packs a complex m×k matrix into the real 2m×k [Re b; Im b].
func stackComplex(b *ndarray.Matrix) *mat.Dense {
	m, k := b.Rows, b.Cols
	s := mat.NewDense(2*m, k, nil)
	var i, j int
	for i = 0; i < m; i++ {
		for j = 0; j < k; j++ {
			s.Set(i, j, real(b.At(i, j)))
			s.Set(i+m, j, imag(b.At(i, j)))
		}
	}

	return s
}

// unstackComplex is the inverse of stackComplex.
func unstackComplex(s *mat.Dense) *ndarray.Matrix {
	r, k := s.Dims()
	m := r / 2
	out := ndarray.NewMatrix(m, k)
	var i, j int
	for i = 0; i < m; i++ {
		for j = 0; j < k; j++ {
			out.Data[i*k+j] = complex(s.At(i, j), s.At(i+m, j))
		}
	}

	return out
}

// splitColumns packs a complex m×k matrix into the real m×2k [Re b | Im b],
// used when the system matrix itself is real.
func splitColumns(b *ndarray.Matrix) *mat.Dense {
	m, k := b.Rows, b.Cols
	s := mat.NewDense(m, 2*k, nil)
	var i, j int
	for i = 0; i < m; i++ {
		for j = 0; j < k; j++ {
			s.Set(i, j, real(b.At(i, j)))
			s.Set(i, j+k, imag(b.At(i, j)))
		}
	}

	return s
}

// joinColumns is the inverse of splitColumns.
func joinColumns(s *mat.Dense) *ndarray.Matrix {
	m, c := s.Dims()
	k := c / 2
	out := ndarray.NewMatrix(m, k)
	var i, j int
	for i = 0; i < m; i++ {
		for j = 0; j < k; j++ {
			out.Data[i*k+j] = complex(s.At(i, j), s.At(i, j+k))
		}
	}

	return out
}

// MulReal returns A·B for a real A (m×n) and a complex B (n×k).
// Complexity: O(m*n*k).
func MulReal(a mat.Matrix, b *ndarray.Matrix) (*ndarray.Matrix, error) {
	m, n := a.Dims()
	if n != b.Rows {
		return nil, linalgErrorf(opMul, fmt.Errorf("%dx%d · %dx%d: %w", m, n, b.Rows, b.Cols, ErrDimensionMismatch))
	}
	out := ndarray.NewMatrix(m, b.Cols)
	var i, l, j int
	var av float64
	for i = 0; i < m; i++ {
		row := out.Row(i)
		for l = 0; l < n; l++ {
			av = a.At(i, l)
			if av == 0 {
				continue // skip zero for performance
			}
			brow := b.Row(l)
			for j = range row {
				row[j] += complex(av, 0) * brow[j]
			}
		}
	}

	return out, nil
}

// MulComplex returns A·B for complex A (m×n) and B (n×k).
// Complexity: O(m*n*k).
func MulComplex(a, b *ndarray.Matrix) (*ndarray.Matrix, error) {
	if a.Cols != b.Rows {
		return nil, linalgErrorf(opMul, fmt.Errorf("%dx%d · %dx%d: %w", a.Rows, a.Cols, b.Rows, b.Cols, ErrDimensionMismatch))
	}
	out := ndarray.NewMatrix(a.Rows, b.Cols)
	var i, l, j int
	var av complex128
	for i = 0; i < a.Rows; i++ {
		row := out.Row(i)
		for l = 0; l < a.Cols; l++ {
			av = a.At(i, l)
			if av == 0 {
				continue
			}
			brow := b.Row(l)
			for j = range row {
				row[j] += av * brow[j]
			}
		}
	}

	return out, nil
}
