// SPDX-License-Identifier: MIT

package domain

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Vec3 is a point or vector in (up to) three dimensions.
type Vec3 [3]float64

// Units3 holds three basis vectors as rows.
type Units3 [3]Vec3

// BravaisLattice stores the real-space lattice vectors as rows of Units.
// Lattices of dimension < 3 are padded with unit vectors along the
// unused axes so that every mesh works with three components.
type BravaisLattice struct {
	Units Units3
	NDim  int
}

// NewBravaisLattice builds a lattice from 1..3 row vectors of equal length.
func NewBravaisLattice(units [][]float64) (BravaisLattice, error) {
	n := len(units)
	if n == 0 || n > 3 {
		return BravaisLattice{}, fmt.Errorf("NewBravaisLattice: %d rows: %w", n, ErrLatticeShape)
	}
	var bl BravaisLattice
	bl.NDim = n
	for i := 0; i < 3; i++ {
		bl.Units[i][i] = 1 // padding for unused dimensions
	}
	for i, row := range units {
		if len(row) != n {
			return BravaisLattice{}, fmt.Errorf("NewBravaisLattice: row %d has %d entries, want %d: %w", i, len(row), n, ErrLatticeShape)
		}
		bl.Units[i] = Vec3{}
		copy(bl.Units[i][:], row)
	}
	if math.Abs(bl.det()) < 1e-14 {
		return BravaisLattice{}, fmt.Errorf("NewBravaisLattice: %w", ErrSingularLattice)
	}

	return bl, nil
}

// SquareLattice returns the n-dimensional hypercubic lattice with unit spacing.
func SquareLattice(ndim int) BravaisLattice {
	var bl BravaisLattice
	bl.NDim = ndim
	for i := 0; i < 3; i++ {
		bl.Units[i][i] = 1
	}

	return bl
}

func (bl BravaisLattice) dense() *mat.Dense {
	d := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d.Set(i, j, bl.Units[i][j])
		}
	}

	return d
}

func (bl BravaisLattice) det() float64 { return mat.Det(bl.dense()) }

// BrillouinZone is the reciprocal space of a Bravais lattice.
// Its Units are the reciprocal vectors b_i with a_i·b_j = 2π δ_ij.
type BrillouinZone struct {
	Lattice BravaisLattice
	Units   Units3
}

// NewBrillouinZone computes reciprocal vectors as 2π (A⁻¹)ᵀ.
func NewBrillouinZone(bl BravaisLattice) (BrillouinZone, error) {
	var inv mat.Dense
	if err := inv.Inverse(bl.dense()); err != nil {
		return BrillouinZone{}, fmt.Errorf("NewBrillouinZone: %v: %w", err, ErrSingularLattice)
	}
	bz := BrillouinZone{Lattice: bl}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			bz.Units[i][j] = 2 * math.Pi * inv.At(j, i)
		}
	}

	return bz, nil
}

// Equal compares two lattices exactly.
func (bl BravaisLattice) Equal(o BravaisLattice) bool {
	return bl.NDim == o.NDim && bl.Units == o.Units
}

// Equal compares two Brillouin zones through their lattices.
func (bz BrillouinZone) Equal(o BrillouinZone) bool {
	return bz.Lattice.Equal(o.Lattice)
}
