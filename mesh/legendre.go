// SPDX-License-Identifier: MIT

package mesh

import (
	"fmt"
	"iter"

	"github.com/katalvlaran/gfmesh/domain"
)

// Legendre indexes Legendre coefficients l = 0 … nMax-1. The value of a
// point is its coefficient index.
type Legendre struct {
	Linear
	dom  domain.Legendre
	hash uint64
}

// NewLegendre builds a coefficient mesh of nMax entries.
func NewLegendre(beta float64, stat domain.Statistic, nMax int) (*Legendre, error) {
	if err := domain.ValidateBeta(beta); err != nil {
		return nil, meshErrorf(opNewLinear, err)
	}
	l, err := NewLinear(0, float64(nMax-1), nMax)
	if err != nil {
		return nil, err
	}
	h := newHasher(KindLegendre.FormatTag()).float(beta).int(int(stat)).int(nMax)

	return &Legendre{Linear: l, dom: domain.Legendre{Beta: beta, Stat: stat}, hash: h.sum()}, nil
}

// Beta returns β.
func (m *Legendre) Beta() float64 { return m.dom.Beta }

// Statistic returns the statistic.
func (m *Legendre) Statistic() domain.Statistic { return m.dom.Stat }

// Points yields l with value l.
func (m *Legendre) Points() iter.Seq[Point[int, int]] {
	return func(yield func(Point[int, int]) bool) {
		for l := 0; l < m.n; l++ {
			if !yield(Point[int, int]{Index: l, DataIndex: l, MeshHash: m.hash, Value: l}) {
				return
			}
		}
	}
}

func (m *Legendre) MeshHash() uint64 { return m.hash }
func (m *Legendre) Kind() Kind { return KindLegendre }
func (m *Legendre) FormatTag() string { return KindLegendre.FormatTag() }
func (m *Legendre) ComponentSizes() []int { return []int{m.n} }
func (m *Legendre) IndexOf(d int) (any, error) { return m.ToIndex(d) }
func (m *Legendre) DataIndexOf(i any) (int, error) { return m.dataIndexOf(i) }
func (m *Legendre) sealed() {}

// Equal compares β, statistic and size.
func (m *Legendre) Equal(other Mesh) bool {
	o, ok := other.(*Legendre)

	return ok && m.n == o.n && m.dom.Stat == o.dom.Stat && closeTo(m.dom.Beta, o.dom.Beta)
}

func (m *Legendre) String() string {
	return fmt.Sprintf("Legendre(beta=%g, %s, n_max=%d)", m.dom.Beta, m.dom.Stat, m.n)
}
