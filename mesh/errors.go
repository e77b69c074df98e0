// SPDX-License-Identifier: MIT

package mesh

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMesh indicates inconsistent construction parameters.
	ErrInvalidMesh = errors.New("mesh: invalid mesh parameters")

	// ErrIndexOutOfRange indicates an index or data index outside the mesh.
	ErrIndexOutOfRange = errors.New("mesh: index out of range")

	// ErrIndexType indicates a dynamic index of the wrong Go type.
	ErrIndexType = errors.New("mesh: wrong index type")

	// ErrValueOutOfRange indicates a domain value outside the mesh bounds.
	ErrValueOutOfRange = errors.New("mesh: value out of range")

	// ErrHashMismatch indicates a mesh point used with a foreign mesh.
	ErrHashMismatch = errors.New("mesh: mesh hash mismatch")

	// ErrNonDiagonalPeriodization rejects legacy periodization matrices
	// with off-diagonal entries.
	ErrNonDiagonalPeriodization = errors.New("mesh: periodization matrix is not diagonal")

	// ErrEvaluationUnsupported indicates evaluation on a mesh that only
	// stores values at its own nodes.
	ErrEvaluationUnsupported = errors.New("mesh: evaluation not supported on this mesh")

	// ErrTailTooFewPoints indicates fewer tail samples than 2·(nFixed+1).
	ErrTailTooFewPoints = errors.New("mesh: too few points for tail fit")

	// ErrTailPositiveOnly rejects tail fits on positive-only meshes.
	ErrTailPositiveOnly = errors.New("mesh: tail fit needs both frequency signs")

	// ErrTailIllConditioned indicates that no expansion order passed the rcond test.
	ErrTailIllConditioned = errors.New("mesh: tail Vandermonde ill-conditioned at every order")

	// ErrTailOrder indicates a fixed expansion order below the number of known moments.
	ErrTailOrder = errors.New("mesh: tail expansion order too small")

	// ErrTailHermitianShape indicates a missing or inconsistent inner matrix dimension.
	ErrTailHermitianShape = errors.New("mesh: hermitian tail fit needs square d×d targets")

	// ErrTailHermitianNeedsImFreq rejects hermitian tail fits on non-Matsubara meshes.
	ErrTailHermitianNeedsImFreq = errors.New("mesh: hermitian tail fit requires an imfreq mesh")

	// ErrDimensionMismatch indicates data whose extent disagrees with the mesh.
	ErrDimensionMismatch = errors.New("mesh: dimension mismatch")
)

// Operation tags used in wrapped errors.
const (
	opNewLinear   = "NewLinear"
	opNewImFreq   = "NewImFreq"
	opNewCluster  = "NewCluster"
	opNewDLR      = "NewDLR"
	opNewProd     = "NewProd"
	opToIndex     = "ToIndex"
	opToDataIndex = "ToDataIndex"
	opClosest     = "ClosestIndex"
	opTailFit     = "FitTail"
	opHermFit     = "FitHermitianTail"
	opWrite       = "Write"
	opRead        = "Read"
)

// meshErrorf wraps err with an operation tag; err must be non-nil.
func meshErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

func indexError(op string, i, lo, hi int) error {
	return meshErrorf(op, fmt.Errorf("index %d outside [%d, %d]: %w", i, lo, hi, ErrIndexOutOfRange))
}
