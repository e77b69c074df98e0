// SPDX-License-Identifier: MIT

package mesh

import (
	"fmt"
	"iter"

	"github.com/katalvlaran/gfmesh/domain"
)

// ImTime is a uniform imaginary-time grid on [0, β].
type ImTime struct {
	Linear
	dom  domain.ImTime
	hash uint64
}

// NewImTime builds nTau points on [0, β].
func NewImTime(beta float64, stat domain.Statistic, nTau int) (*ImTime, error) {
	if err := domain.ValidateBeta(beta); err != nil {
		return nil, meshErrorf(opNewLinear, err)
	}
	l, err := NewLinear(0, beta, nTau)
	if err != nil {
		return nil, err
	}
	h := l.hashInto(newHasher(KindImTime.FormatTag()).float(beta).int(int(stat)))

	return &ImTime{Linear: l, dom: domain.ImTime{Beta: beta, Stat: stat}, hash: h.sum()}, nil
}

// Domain returns the [0, β] domain.
func (m *ImTime) Domain() domain.ImTime { return m.dom }

// Beta returns β.
func (m *ImTime) Beta() float64 { return m.dom.Beta }

// Statistic returns the statistic.
func (m *ImTime) Statistic() domain.Statistic { return m.dom.Stat }

// Points yields the grid points τ_i.
func (m *ImTime) Points() iter.Seq[Point[int, float64]] { return m.points(m.hash) }

func (m *ImTime) MeshHash() uint64 { return m.hash }
func (m *ImTime) Kind() Kind { return KindImTime }
func (m *ImTime) FormatTag() string { return KindImTime.FormatTag() }
func (m *ImTime) ComponentSizes() []int { return []int{m.n} }
func (m *ImTime) IndexOf(d int) (any, error) { return m.ToIndex(d) }
func (m *ImTime) DataIndexOf(i any) (int, error) {
	return m.dataIndexOf(i)
}
func (m *ImTime) sealed() {}

// Equal compares β, statistic and grid.
func (m *ImTime) Equal(other Mesh) bool {
	o, ok := other.(*ImTime)

	return ok && m.dom.Stat == o.dom.Stat && closeTo(m.dom.Beta, o.dom.Beta) && m.Linear.equal(o.Linear)
}

func (m *ImTime) String() string {
	return fmt.Sprintf("ImTime(beta=%g, %s, n_tau=%d)", m.dom.Beta, m.dom.Stat, m.n)
}
