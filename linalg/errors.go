// SPDX-License-Identifier: MIT

package linalg

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch indicates incompatible operand shapes.
	ErrDimensionMismatch = errors.New("linalg: dimension mismatch")

	// ErrSingular is returned when a square system has no unique solution.
	ErrSingular = errors.New("linalg: singular matrix")

	// ErrNonSquare signals that a square matrix was required.
	ErrNonSquare = errors.New("linalg: matrix is not square")

	// ErrSVDFailed is returned when the SVD does not converge.
	ErrSVDFailed = errors.New("linalg: SVD factorization failed")

	// ErrEmpty is returned for matrices without rows or columns.
	ErrEmpty = errors.New("linalg: empty matrix")
)

// Operation tags used in wrapped errors.
const (
	opLU          = "LU"
	opComplexLU   = "ComplexLU"
	opSolve       = "Solve"
	opLeastSquare = "LeastSquares"
	opGramSchmidt = "PivotedGramSchmidt"
	opMul         = "Mul"
)

// linalgErrorf wraps err with an operation tag; err must be non-nil.
func linalgErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
