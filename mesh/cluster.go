// SPDX-License-Identifier: MIT

package mesh

import (
	"fmt"
	"iter"
	"math"

	"github.com/katalvlaran/gfmesh/domain"
	"gonum.org/v1/gonum/mat"
)

// Index3 is the integer index of a cluster point: its coordinates in units
// of the mesh step vectors.
type Index3 [3]int

// PeriodizationMatrix is the legacy 3×3 integer description of a periodic
// cluster. Only diagonal matrices, diag(dims), are meaningful.
type PeriodizationMatrix [3][3]int

// Dims returns the diagonal, or ErrNonDiagonalPeriodization.
func (p PeriodizationMatrix) Dims() ([3]int, error) {
	var dims [3]int
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i != j && p[i][j] != 0 {
				return dims, fmt.Errorf("entry (%d,%d) = %d: %w", i, j, p[i][j], ErrNonDiagonalPeriodization)
			}
		}
		dims[i] = p[i][i]
	}

	return dims, nil
}

// cluster is the periodic integer mesh shared by CyclicLattice and
// BrillouinZone: points Σ_i n_i·u_i with 0 ≤ n_i < dims[i], data index
// n_0·dims[1]·dims[2] + n_1·dims[2] + n_2.
type cluster struct {
	units    domain.Units3
	dims     [3]int
	size     int
	s0, s1   int
	unitsInv *mat.Dense
}

func newCluster(units domain.Units3, dims [3]int) (cluster, error) {
	for i, d := range dims {
		if d < 1 {
			return cluster{}, meshErrorf(opNewCluster, fmt.Errorf("dims[%d] = %d: %w", i, d, ErrInvalidMesh))
		}
	}
	u := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			u.Set(i, j, units[i][j])
		}
	}
	var inv mat.Dense
	if err := inv.Inverse(u); err != nil {
		return cluster{}, meshErrorf(opNewCluster, fmt.Errorf("units: %v: %w", err, ErrInvalidMesh))
	}

	return cluster{
		units:    units,
		dims:     dims,
		size:     dims[0] * dims[1] * dims[2],
		s0:       dims[1] * dims[2],
		s1:       dims[2],
		unitsInv: &inv,
	}, nil
}

// Size returns Π dims.
func (c *cluster) Size() int { return c.size }

// Dims returns the extent per axis.
func (c *cluster) Dims() [3]int { return c.dims }

// Units returns the step vectors (rows).
func (c *cluster) Units() domain.Units3 { return c.units }

// PeriodizationMatrix returns diag(dims).
func (c *cluster) PeriodizationMatrix() PeriodizationMatrix {
	var p PeriodizationMatrix
	for i, d := range c.dims {
		p[i][i] = d
	}

	return p
}

// IndexModulo reduces every component into [0, dims[i]).
func (c *cluster) IndexModulo(n Index3) Index3 {
	for i := range n {
		n[i] = PositiveMod(n[i], c.dims[i])
	}

	return n
}

// IsIndexValid reports 0 ≤ n_i < dims[i] for all i.
func (c *cluster) IsIndexValid(n Index3) bool {
	for i := range n {
		if n[i] < 0 || n[i] >= c.dims[i] {
			return false
		}
	}

	return true
}

// ToDataIndex flattens a valid index; use IndexModulo for periodic images.
func (c *cluster) ToDataIndex(n Index3) (int, error) {
	if !c.IsIndexValid(n) {
		return 0, meshErrorf(opToDataIndex, fmt.Errorf("index %v outside dims %v: %w", n, c.dims, ErrIndexOutOfRange))
	}

	return n[0]*c.s0 + n[1]*c.s1 + n[2], nil
}

// ToIndex unflattens a data index.
func (c *cluster) ToIndex(d int) (Index3, error) {
	if d < 0 || d >= c.size {
		return Index3{}, indexError(opToIndex, d, 0, c.size-1)
	}

	return Index3{d / c.s0, (d / c.s1) % c.dims[1], d % c.dims[2]}, nil
}

// ToValue returns Σ_i n_i·u_i.
func (c *cluster) ToValue(n Index3) domain.Vec3 {
	var v domain.Vec3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v[j] += float64(n[i]) * c.units[i][j]
		}
	}

	return v
}

// ClosestIndex returns the index of the mesh point nearest to v, reduced
// into the fundamental cell: n = round(v·U⁻¹) mod dims.
func (c *cluster) ClosestIndex(v domain.Vec3) Index3 {
	var n Index3
	for j := 0; j < 3; j++ {
		x := 0.0
		for i := 0; i < 3; i++ {
			x += v[i] * c.unitsInv.At(i, j)
		}
		n[j] = int(math.Round(x))
	}

	return c.IndexModulo(n)
}

func (c *cluster) points(hash uint64) iter.Seq[Point[Index3, domain.Vec3]] {
	return func(yield func(Point[Index3, domain.Vec3]) bool) {
		d := 0
		for a := 0; a < c.dims[0]; a++ {
			for b := 0; b < c.dims[1]; b++ {
				for e := 0; e < c.dims[2]; e++ {
					n := Index3{a, b, e}
					if !yield(Point[Index3, domain.Vec3]{Index: n, DataIndex: d, MeshHash: hash, Value: c.ToValue(n)}) {
						return
					}
					d++
				}
			}
		}
	}
}

func (c *cluster) dataIndexOf(index any) (int, error) {
	switch v := index.(type) {
	case Index3:
		return c.ToDataIndex(v)
	case [3]int:
		return c.ToDataIndex(Index3(v))
	case Closest[domain.Vec3]:
		return c.ToDataIndex(c.ClosestIndex(v.Value))
	}

	return 0, meshErrorf(opToDataIndex, fmt.Errorf("got %T, want Index3: %w", index, ErrIndexType))
}

func (c *cluster) hashInto(h *hasher) *hasher {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			h.float(c.units[i][j])
		}
		h.int(c.dims[i])
	}

	return h
}

func (c *cluster) equal(o *cluster) bool {
	if c.dims != o.dims {
		return false
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !closeTo(c.units[i][j], o.units[i][j]) {
				return false
			}
		}
	}

	return true
}
