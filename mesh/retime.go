// SPDX-License-Identifier: MIT

package mesh

import (
	"fmt"
	"iter"
)

// ReTime is a uniform real-time grid.
type ReTime struct {
	Linear
	hash uint64
}

// NewReTime builds n points on [tmin, tmax].
func NewReTime(tmin, tmax float64, n int) (*ReTime, error) {
	l, err := NewLinear(tmin, tmax, n)
	if err != nil {
		return nil, err
	}

	return &ReTime{Linear: l, hash: l.hashInto(newHasher(KindReTime.FormatTag())).sum()}, nil
}

// Points yields the grid points t_i.
func (m *ReTime) Points() iter.Seq[Point[int, float64]] { return m.points(m.hash) }

func (m *ReTime) MeshHash() uint64 { return m.hash }
func (m *ReTime) Kind() Kind { return KindReTime }
func (m *ReTime) FormatTag() string { return KindReTime.FormatTag() }
func (m *ReTime) ComponentSizes() []int { return []int{m.n} }
func (m *ReTime) IndexOf(d int) (any, error) { return m.ToIndex(d) }
func (m *ReTime) DataIndexOf(i any) (int, error) { return m.dataIndexOf(i) }
func (m *ReTime) sealed() {}

// Equal compares the grids.
func (m *ReTime) Equal(other Mesh) bool {
	o, ok := other.(*ReTime)

	return ok && m.Linear.equal(o.Linear)
}

func (m *ReTime) String() string {
	return fmt.Sprintf("ReTime(%g, %g, n=%d)", m.xmin, m.xmax, m.n)
}
