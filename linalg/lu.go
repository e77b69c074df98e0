// SPDX-License-Identifier: MIT

package linalg

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/gfmesh/ndarray"
	"gonum.org/v1/gonum/mat"
)

// LU is a cached partial-pivoting LU factorization of a real square matrix.
type LU struct {
	n  int
	lu mat.LU
}

// NewLU factorizes a.
// Stage 1 (Validate): a must be square and non-empty.
// Stage 2 (Execute): gonum LU with partial pivoting.
// Stage 3 (Finalize): reject exactly singular factors (infinite condition).
// Complexity: O(n³).
func NewLU(a mat.Matrix) (*LU, error) {
	r, c := a.Dims()
	if r == 0 || c == 0 {
		return nil, linalgErrorf(opLU, ErrEmpty)
	}
	if r != c {
		return nil, linalgErrorf(opLU, fmt.Errorf("%dx%d: %w", r, c, ErrNonSquare))
	}
	s := &LU{n: r}
	s.lu.Factorize(a)
	if math.IsInf(s.lu.Cond(), 1) {
		return nil, linalgErrorf(opLU, fmt.Errorf("n=%d: %w", r, ErrSingular))
	}

	return s, nil
}

// Size returns n.
func (s *LU) Size() int { return s.n }

// Cond returns the estimated condition number of the factorized matrix.
func (s *LU) Cond() float64 { return s.lu.Cond() }

// solveReal solves A X = B for a real right-hand side.
func (s *LU) solveReal(b *mat.Dense) (*mat.Dense, error) {
	var x mat.Dense
	if err := s.lu.SolveTo(&x, false, b); err != nil {
		// mat.Condition only warns about a large condition number.
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, linalgErrorf(opSolve, err)
		}
	}

	return &x, nil
}

// Solve solves A X = B for a complex B (n×k) by splitting real and
// imaginary columns.
// Complexity: O(n²k).
func (s *LU) Solve(b *ndarray.Matrix) (*ndarray.Matrix, error) {
	if b.Rows != s.n {
		return nil, linalgErrorf(opSolve, fmt.Errorf("rhs rows %d, want %d: %w", b.Rows, s.n, ErrDimensionMismatch))
	}
	x, err := s.solveReal(splitColumns(b))
	if err != nil {
		return nil, err
	}

	return joinColumns(x), nil
}

// ComplexLU factorizes a complex square matrix through its real embedding.
type ComplexLU struct {
	n  int
	lu *LU
}

// NewComplexLU factorizes the complex n×n matrix a.
// Complexity: O((2n)³).
func NewComplexLU(a *ndarray.Matrix) (*ComplexLU, error) {
	if a.Rows != a.Cols {
		return nil, linalgErrorf(opComplexLU, fmt.Errorf("%dx%d: %w", a.Rows, a.Cols, ErrNonSquare))
	}
	lu, err := NewLU(EmbedComplex(a))
	if err != nil {
		return nil, linalgErrorf(opComplexLU, err)
	}

	return &ComplexLU{n: a.Rows, lu: lu}, nil
}

// Size returns n.
func (s *ComplexLU) Size() int { return s.n }

// Solve solves A X = B for complex B (n×k).
func (s *ComplexLU) Solve(b *ndarray.Matrix) (*ndarray.Matrix, error) {
	if b.Rows != s.n {
		return nil, linalgErrorf(opSolve, fmt.Errorf("rhs rows %d, want %d: %w", b.Rows, s.n, ErrDimensionMismatch))
	}
	x, err := s.lu.solveReal(stackComplex(b))
	if err != nil {
		return nil, err
	}

	return unstackComplex(x), nil
}
