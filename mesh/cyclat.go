// SPDX-License-Identifier: MIT

package mesh

import (
	"fmt"
	"iter"

	"github.com/katalvlaran/gfmesh/domain"
)

// CyclicLattice is a periodic real-space cluster of dims[0]×dims[1]×dims[2]
// lattice sites.
type CyclicLattice struct {
	cluster
	lattice domain.BravaisLattice
	hash    uint64
}

// NewCyclicLattice builds the cluster with the given extents.
func NewCyclicLattice(bl domain.BravaisLattice, dims [3]int) (*CyclicLattice, error) {
	c, err := newCluster(bl.Units, dims)
	if err != nil {
		return nil, err
	}
	h := c.hashInto(newHasher(KindCyclicLattice.FormatTag()).int(bl.NDim))

	return &CyclicLattice{cluster: c, lattice: bl, hash: h.sum()}, nil
}

// NewCyclicLatticeFromPeriodization accepts a legacy periodization matrix,
// which must be diagonal.
func NewCyclicLatticeFromPeriodization(bl domain.BravaisLattice, p PeriodizationMatrix) (*CyclicLattice, error) {
	dims, err := p.Dims()
	if err != nil {
		return nil, meshErrorf(opNewCluster, err)
	}

	return NewCyclicLattice(bl, dims)
}

// NewSquareCyclicLattice builds an L1×L2×L3 cluster of the hypercubic lattice.
// Trailing extents of 1 reduce the lattice dimension.
func NewSquareCyclicLattice(l1, l2, l3 int) (*CyclicLattice, error) {
	ndim := 3
	switch {
	case l2 == 1 && l3 == 1:
		ndim = 1
	case l3 == 1:
		ndim = 2
	}

	return NewCyclicLattice(domain.SquareLattice(ndim), [3]int{l1, l2, l3})
}

// Lattice returns the Bravais lattice.
func (m *CyclicLattice) Lattice() domain.BravaisLattice { return m.lattice }

// Points yields the lattice sites R = Σ n_i a_i.
func (m *CyclicLattice) Points() iter.Seq[Point[Index3, domain.Vec3]] { return m.points(m.hash) }

func (m *CyclicLattice) MeshHash() uint64 { return m.hash }
func (m *CyclicLattice) Kind() Kind { return KindCyclicLattice }
func (m *CyclicLattice) FormatTag() string { return KindCyclicLattice.FormatTag() }
func (m *CyclicLattice) ComponentSizes() []int { return []int{m.size} }
func (m *CyclicLattice) IndexOf(d int) (any, error) { return m.ToIndex(d) }
func (m *CyclicLattice) DataIndexOf(i any) (int, error) { return m.dataIndexOf(i) }
func (m *CyclicLattice) sealed() {}

// Equal compares lattice and extents.
func (m *CyclicLattice) Equal(other Mesh) bool {
	o, ok := other.(*CyclicLattice)

	return ok && m.lattice.NDim == o.lattice.NDim && m.cluster.equal(&o.cluster)
}

func (m *CyclicLattice) String() string {
	return fmt.Sprintf("CyclicLattice(ndim=%d, dims=%v)", m.lattice.NDim, m.dims)
}
