// SPDX-License-Identifier: MIT

package mesh

import (
	"fmt"
	"iter"
)

// ReFreq is a uniform real-frequency grid.
type ReFreq struct {
	Linear
	hash uint64
}

// NewReFreq builds n points on [wmin, wmax].
func NewReFreq(wmin, wmax float64, n int) (*ReFreq, error) {
	l, err := NewLinear(wmin, wmax, n)
	if err != nil {
		return nil, err
	}

	return &ReFreq{Linear: l, hash: l.hashInto(newHasher(KindReFreq.FormatTag())).sum()}, nil
}

// Points yields the grid points ω_i.
func (m *ReFreq) Points() iter.Seq[Point[int, float64]] { return m.points(m.hash) }

func (m *ReFreq) MeshHash() uint64 { return m.hash }
func (m *ReFreq) Kind() Kind { return KindReFreq }
func (m *ReFreq) FormatTag() string { return KindReFreq.FormatTag() }
func (m *ReFreq) ComponentSizes() []int { return []int{m.n} }
func (m *ReFreq) IndexOf(d int) (any, error) { return m.ToIndex(d) }
func (m *ReFreq) DataIndexOf(i any) (int, error) { return m.dataIndexOf(i) }
func (m *ReFreq) sealed() {}

// Equal compares the grids.
func (m *ReFreq) Equal(other Mesh) bool {
	o, ok := other.(*ReFreq)

	return ok && m.Linear.equal(o.Linear)
}

func (m *ReFreq) String() string {
	return fmt.Sprintf("ReFreq(%g, %g, n=%d)", m.xmin, m.xmax, m.n)
}
