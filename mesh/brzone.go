// SPDX-License-Identifier: MIT

package mesh

import (
	"fmt"
	"iter"

	"github.com/katalvlaran/gfmesh/domain"
)

// BrillouinZone is a uniform k-point mesh: step vectors b_i/dims[i] for the
// reciprocal vectors b_i.
type BrillouinZone struct {
	cluster
	bz   domain.BrillouinZone
	hash uint64
}

// NewBrillouinZone builds the k mesh with the given extents.
func NewBrillouinZone(bz domain.BrillouinZone, dims [3]int) (*BrillouinZone, error) {
	var units domain.Units3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if dims[i] > 0 {
				units[i][j] = bz.Units[i][j] / float64(dims[i])
			}
		}
	}
	c, err := newCluster(units, dims)
	if err != nil {
		return nil, err
	}
	h := c.hashInto(newHasher(KindBrillouinZone.FormatTag()).int(bz.Lattice.NDim))

	return &BrillouinZone{cluster: c, bz: bz, hash: h.sum()}, nil
}

// NewBrillouinZoneFromPeriodization accepts a legacy periodization matrix,
// which must be diagonal.
func NewBrillouinZoneFromPeriodization(bz domain.BrillouinZone, p PeriodizationMatrix) (*BrillouinZone, error) {
	dims, err := p.Dims()
	if err != nil {
		return nil, meshErrorf(opNewCluster, err)
	}

	return NewBrillouinZone(bz, dims)
}

// Zone returns the Brillouin-zone domain.
func (m *BrillouinZone) Zone() domain.BrillouinZone { return m.bz }

// Points yields the k vectors.
func (m *BrillouinZone) Points() iter.Seq[Point[Index3, domain.Vec3]] { return m.points(m.hash) }

func (m *BrillouinZone) MeshHash() uint64 { return m.hash }
func (m *BrillouinZone) Kind() Kind { return KindBrillouinZone }
func (m *BrillouinZone) FormatTag() string { return KindBrillouinZone.FormatTag() }
func (m *BrillouinZone) ComponentSizes() []int { return []int{m.size} }
func (m *BrillouinZone) IndexOf(d int) (any, error) { return m.ToIndex(d) }
func (m *BrillouinZone) DataIndexOf(i any) (int, error) { return m.dataIndexOf(i) }
func (m *BrillouinZone) sealed() {}

// Equal compares zone and extents.
func (m *BrillouinZone) Equal(other Mesh) bool {
	o, ok := other.(*BrillouinZone)

	return ok && m.bz.Lattice.NDim == o.bz.Lattice.NDim && m.cluster.equal(&o.cluster)
}

func (m *BrillouinZone) String() string {
	return fmt.Sprintf("BrillouinZone(ndim=%d, dims=%v)", m.bz.Lattice.NDim, m.dims)
}
