// SPDX-License-Identifier: MIT

package gf

import (
	"errors"
	"fmt"
)

var (
	// ErrMeshKind indicates a mesh of a kind the operation does not accept.
	ErrMeshKind = errors.New("gf: wrong mesh kind")

	// ErrShape indicates data whose shape disagrees with mesh and target.
	ErrShape = errors.New("gf: shape mismatch")

	// ErrIncompatible indicates arithmetic between Gfs on different meshes.
	ErrIncompatible = errors.New("gf: incompatible meshes")

	// ErrAxis indicates a transform axis outside the mesh components.
	ErrAxis = errors.New("gf: axis out of range")

	// ErrBlock indicates inconsistent block names or members.
	ErrBlock = errors.New("gf: invalid block")
)

const (
	opNew       = "New"
	opAlgebra   = "Algebra"
	opAt        = "At"
	opEvaluate  = "Evaluate"
	opTransform = "Transform"
	opTail      = "FitTail"
	opHermTail  = "FitHermitianTail"
	opDensity   = "DensityFromDLR"
	opBlock     = "NewBlock"
	opWrite     = "WriteGf"
	opRead      = "ReadGf"
)

// gfErrorf wraps err with an operation tag; err must be non-nil.
func gfErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// kindError reports a found mesh kind against the accepted ones.
func kindError(name string, found fmt.Stringer, want string) error {
	return fmt.Errorf("%s: found %s, want %s: %w", name, found, want, ErrMeshKind)
}
