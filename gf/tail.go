// SPDX-License-Identifier: MIT

package gf

import (
	"fmt"

	"github.com/katalvlaran/gfmesh/mesh"
	"github.com/katalvlaran/gfmesh/ndarray"
)

// FitTail fits the high-frequency moments of a Gf on an ImFreq mesh.
// known holds the first moments with shape [nFixed, target...], or is nil.
// The result has shape [order+1, target...]; residual is the fit error.
func FitTail(g *Gf, known *ndarray.Array) (moments *ndarray.Array, residual float64, err error) {
	m, ok := g.mesh.(*mesh.ImFreq)
	if !ok {
		return nil, 0, gfErrorf(opTail, kindError("FitTail", g.mesh.Kind(), "ImFreq"))
	}
	vals, k, err := tailInputs(g, known)
	if err != nil {
		return nil, 0, gfErrorf(opTail, err)
	}
	a, residual, err := m.FitTail(vals, k)
	if err != nil {
		return nil, 0, gfErrorf(opTail, err)
	}
	moments, err = ndarray.Unflatten2D(a, 0, append([]int{a.Rows}, g.target...))
	if err != nil {
		return nil, 0, gfErrorf(opTail, err)
	}

	return moments, residual, nil
}

// FitHermitianTail is FitTail for d×d matrix-valued Gfs with moments
// constrained to be hermitian.
func FitHermitianTail(g *Gf, known *ndarray.Array) (moments *ndarray.Array, residual float64, err error) {
	m, ok := g.mesh.(*mesh.ImFreq)
	if !ok {
		return nil, 0, gfErrorf(opHermTail, fmt.Errorf("mesh %s: %w", g.mesh.Kind(), mesh.ErrTailHermitianNeedsImFreq))
	}
	if len(g.target) != 2 || g.target[0] != g.target[1] {
		return nil, 0, gfErrorf(opHermTail, fmt.Errorf("target %v: %w", g.target, mesh.ErrTailHermitianShape))
	}
	vals, k, err := tailInputs(g, known)
	if err != nil {
		return nil, 0, gfErrorf(opHermTail, err)
	}
	a, residual, err := m.FitHermitianTail(vals, k, g.target[0])
	if err != nil {
		return nil, 0, gfErrorf(opHermTail, err)
	}
	moments, err = ndarray.Unflatten2D(a, 0, append([]int{a.Rows}, g.target...))
	if err != nil {
		return nil, 0, gfErrorf(opHermTail, err)
	}

	return moments, residual, nil
}

// tailInputs flattens g and known to (rows) × (target volume) matrices.
func tailInputs(g *Gf, known *ndarray.Array) (*ndarray.Matrix, *ndarray.Matrix, error) {
	vals := &ndarray.Matrix{Rows: g.mesh.Size(), Cols: g.TargetSize(), Data: g.data.Data()}
	if known == nil {
		return vals, nil, nil
	}
	if known.Shape()[0]*g.TargetSize() != known.Size() {
		return nil, nil, fmt.Errorf("known moments %v for target %v: %w", known.Shape(), g.target, ErrShape)
	}
	k, err := known.Flatten2D(0)
	if err != nil {
		return nil, nil, err
	}

	return vals, k, nil
}

// DensityFromDLR returns the density -G(β⁻) of a Gf on a DLR coefficient
// mesh, one value per target element.
func DensityFromDLR(g *Gf) ([]complex128, error) {
	m, ok := g.mesh.(*mesh.DLR)
	if !ok {
		return nil, gfErrorf(opDensity, kindError("DensityFromDLR", g.mesh.Kind(), "DLR"))
	}
	row, err := m.KernelImTime(m.Beta())
	if err != nil {
		return nil, gfErrorf(opDensity, err)
	}
	c := &ndarray.Matrix{Rows: m.Size(), Cols: g.TargetSize(), Data: g.data.Data()}
	out := make([]complex128, g.TargetSize())
	accumulate(out, c, func(l int) complex128 { return complex(-row[l], 0) })

	return out, nil
}
