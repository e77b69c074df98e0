// SPDX-License-Identifier: MIT

package mesh

import (
	"fmt"
	"iter"
	"math"

	"github.com/katalvlaran/gfmesh/dlr"
	"github.com/katalvlaran/gfmesh/domain"
)

// dlrCommon is the state shared by the three DLR façades. The basis is
// held by pointer and never copied or rebuilt when switching façades.
type dlrCommon struct {
	beta  float64
	stat  domain.Statistic
	wmax  float64
	eps   float64
	basis *dlr.Basis
}

func newDLRCommon(beta float64, stat domain.Statistic, wmax, eps float64, opts ...dlr.Option) (dlrCommon, error) {
	if err := domain.ValidateBeta(beta); err != nil {
		return dlrCommon{}, meshErrorf(opNewDLR, err)
	}
	if math.IsNaN(wmax) || math.IsInf(wmax, 0) || wmax <= 0 {
		return dlrCommon{}, meshErrorf(opNewDLR, fmt.Errorf("w_max=%g: %w", wmax, ErrInvalidMesh))
	}
	b, err := dlr.Get(beta*wmax, eps, stat, opts...)
	if err != nil {
		return dlrCommon{}, meshErrorf(opNewDLR, err)
	}

	return dlrCommon{beta: beta, stat: stat, wmax: wmax, eps: eps, basis: b}, nil
}

func (c dlrCommon) hash(k Kind) uint64 {
	return newHasher(k.FormatTag()).
		float(c.beta).int(int(c.stat)).float(c.wmax).float(c.eps).
		int(c.basis.Rank()).u64(c.basis.Checksum()).sum()
}

func (c dlrCommon) equal(o dlrCommon) bool {
	return c.stat == o.stat && c.basis.Rank() == o.basis.Rank() &&
		c.basis.Checksum() == o.basis.Checksum() &&
		closeTo(c.beta, o.beta) && closeTo(c.wmax, o.wmax) && closeTo(c.eps, o.eps)
}

// Beta returns β.
func (c dlrCommon) Beta() float64 { return c.beta }

// Statistic returns the statistic.
func (c dlrCommon) Statistic() domain.Statistic { return c.stat }

// WMax returns the real-frequency cutoff.
func (c dlrCommon) WMax() float64 { return c.wmax }

// Eps returns the representation accuracy.
func (c dlrCommon) Eps() float64 { return c.eps }

// Lambda returns β·w_max.
func (c dlrCommon) Lambda() float64 { return c.beta * c.wmax }

// Basis returns the shared basis.
func (c dlrCommon) Basis() *dlr.Basis { return c.basis }

// Rank returns the number of basis functions.
func (c dlrCommon) Rank() int { return c.basis.Rank() }

// Size returns the number of basis functions.
func (c dlrCommon) Size() int { return c.basis.Rank() }

// ComponentSizes returns [Rank()].
func (c dlrCommon) ComponentSizes() []int { return []int{c.basis.Rank()} }

// IsIndexValid reports 0 ≤ l < Rank().
func (c dlrCommon) IsIndexValid(l int) bool { return l >= 0 && l < c.basis.Rank() }

// ToDataIndex checks l and returns it.
func (c dlrCommon) ToDataIndex(l int) (int, error) {
	if !c.IsIndexValid(l) {
		return 0, indexError(opToDataIndex, l, 0, c.basis.Rank()-1)
	}

	return l, nil
}

// ToIndex checks d and returns it.
func (c dlrCommon) ToIndex(d int) (int, error) {
	if !c.IsIndexValid(d) {
		return 0, indexError(opToIndex, d, 0, c.basis.Rank()-1)
	}

	return d, nil
}

// IndexOf is ToIndex returning any.
func (c dlrCommon) IndexOf(d int) (any, error) { return c.ToIndex(d) }

// DataIndexOf accepts an int index.
func (c dlrCommon) DataIndexOf(index any) (int, error) {
	l, err := intIndex(opToDataIndex, index)
	if err != nil {
		return 0, err
	}

	return c.ToDataIndex(l)
}

// DLR is the coefficient façade: point l carries the reduced frequency ω_l.
type DLR struct {
	dlrCommon
	h uint64
}

// NewDLR builds (or fetches from the process cache) the basis for
// Λ = β·w_max and accuracy eps.
func NewDLR(beta float64, stat domain.Statistic, wmax, eps float64, opts ...dlr.Option) (*DLR, error) {
	c, err := newDLRCommon(beta, stat, wmax, eps, opts...)
	if err != nil {
		return nil, err
	}

	return newDLRFacade(c), nil
}

func newDLRFacade(c dlrCommon) *DLR { return &DLR{dlrCommon: c, h: c.hash(KindDLR)} }

// ToValue returns the reduced frequency ω_l.
func (m *DLR) ToValue(l int) float64 { return m.basis.FreqAt(l) }

// Points yields (l, ω_l).
func (m *DLR) Points() iter.Seq[Point[int, float64]] {
	return func(yield func(Point[int, float64]) bool) {
		for l := 0; l < m.Rank(); l++ {
			if !yield(Point[int, float64]{Index: l, DataIndex: l, MeshHash: m.h, Value: m.basis.FreqAt(l)}) {
				return
			}
		}
	}
}

// ImTime returns the imaginary-time façade over the same basis.
func (m *DLR) ImTime() *DLRImTime { return newDLRImTimeFacade(m.dlrCommon) }

// ImFreq returns the Matsubara façade over the same basis.
func (m *DLR) ImFreq() *DLRImFreq { return newDLRImFreqFacade(m.dlrCommon) }

// KernelImTime returns the weights K(τ/β, ω_l) with G(τ) = Σ_l c_l K(τ/β, ω_l).
func (m *DLR) KernelImTime(tau float64) ([]float64, error) {
	if tau < 0 || tau > m.beta {
		return nil, meshErrorf(opClosest, fmt.Errorf("tau %g outside [0, %g]: %w", tau, m.beta, ErrValueOutOfRange))
	}

	return m.basis.ImTime().KernelRow(dlr.RelativeTime(tau / m.beta)), nil
}

// KernelImFreq returns the weights β·KIf(n, ω_l) with G(iω_n) = Σ_l c_l β KIf(n, ω_l).
func (m *DLR) KernelImFreq(w domain.MatsubaraFreq) ([]complex128, error) {
	if w.Stat != m.stat {
		return nil, fmt.Errorf("evaluate %s on %s mesh: %w", w, m.stat, domain.ErrUnknownStatistic)
	}
	if !closeTo(w.Beta, m.beta) {
		return nil, fmt.Errorf("beta %g vs %g: %w", w.Beta, m.beta, domain.ErrBetaMismatch)
	}
	row := m.basis.ImFreq().KernelRow(w.N)
	b := complex(m.beta, 0)
	for l := range row {
		row[l] *= b
	}

	return row, nil
}

func (m *DLR) MeshHash() uint64 { return m.h }
func (m *DLR) Kind() Kind { return KindDLR }
func (m *DLR) FormatTag() string { return KindDLR.FormatTag() }
func (m *DLR) sealed() {}

// Equal compares domain, size, w_max and eps within 1e-15.
func (m *DLR) Equal(other Mesh) bool {
	o, ok := other.(*DLR)

	return ok && m.equal(o.dlrCommon)
}

func (m *DLR) String() string {
	return fmt.Sprintf("DLR(beta=%g, %s, w_max=%g, eps=%g, rank=%d)", m.beta, m.stat, m.wmax, m.eps, m.Rank())
}

// DLRImTime is the imaginary-time node façade: point l is τ_l ∈ [0, β].
type DLRImTime struct {
	dlrCommon
	h uint64
}

// NewDLRImTime is NewDLR followed by ImTime.
func NewDLRImTime(beta float64, stat domain.Statistic, wmax, eps float64, opts ...dlr.Option) (*DLRImTime, error) {
	c, err := newDLRCommon(beta, stat, wmax, eps, opts...)
	if err != nil {
		return nil, err
	}

	return newDLRImTimeFacade(c), nil
}

func newDLRImTimeFacade(c dlrCommon) *DLRImTime {
	return &DLRImTime{dlrCommon: c, h: c.hash(KindDLRImTime)}
}

// ToValue returns β·t_l with the relative node t_l mapped into [0, 1];
// a node of -0.0 maps to τ = 0.
func (m *DLRImTime) ToValue(l int) float64 {
	return m.beta * dlr.AbsoluteTime(m.basis.ImTime().Node(l))
}

// ClosestNode returns the index of the node nearest to tau.
func (m *DLRImTime) ClosestNode(tau float64) int {
	best, dist := 0, math.Inf(1)
	for l := 0; l < m.Rank(); l++ {
		if d := math.Abs(m.ToValue(l) - tau); d < dist {
			best, dist = l, d
		}
	}

	return best
}

// Points yields (l, τ_l).
func (m *DLRImTime) Points() iter.Seq[Point[int, float64]] {
	return func(yield func(Point[int, float64]) bool) {
		for l := 0; l < m.Rank(); l++ {
			if !yield(Point[int, float64]{Index: l, DataIndex: l, MeshHash: m.h, Value: m.ToValue(l)}) {
				return
			}
		}
	}
}

// Coefficients returns the coefficient façade over the same basis.
func (m *DLRImTime) Coefficients() *DLR { return newDLRFacade(m.dlrCommon) }

// ImFreq returns the Matsubara façade over the same basis.
func (m *DLRImTime) ImFreq() *DLRImFreq { return newDLRImFreqFacade(m.dlrCommon) }

func (m *DLRImTime) MeshHash() uint64 { return m.h }
func (m *DLRImTime) Kind() Kind { return KindDLRImTime }
func (m *DLRImTime) FormatTag() string { return KindDLRImTime.FormatTag() }
func (m *DLRImTime) sealed() {}

// Equal compares domain, size, w_max and eps within 1e-15.
func (m *DLRImTime) Equal(other Mesh) bool {
	o, ok := other.(*DLRImTime)

	return ok && m.equal(o.dlrCommon)
}

func (m *DLRImTime) String() string {
	return fmt.Sprintf("DLRImTime(beta=%g, %s, w_max=%g, eps=%g, rank=%d)", m.beta, m.stat, m.wmax, m.eps, m.Rank())
}

// DLRImFreq is the Matsubara node façade: point l is iω_{n_l}.
type DLRImFreq struct {
	dlrCommon
	h uint64
}

// NewDLRImFreq is NewDLR followed by ImFreq.
func NewDLRImFreq(beta float64, stat domain.Statistic, wmax, eps float64, opts ...dlr.Option) (*DLRImFreq, error) {
	c, err := newDLRCommon(beta, stat, wmax, eps, opts...)
	if err != nil {
		return nil, err
	}

	return newDLRImFreqFacade(c), nil
}

func newDLRImFreqFacade(c dlrCommon) *DLRImFreq {
	return &DLRImFreq{dlrCommon: c, h: c.hash(KindDLRImFreq)}
}

// ToValue returns the Matsubara frequency of node l.
func (m *DLRImFreq) ToValue(l int) domain.MatsubaraFreq {
	return domain.MatsubaraFreq{N: m.basis.ImFreq().Node(l), Beta: m.beta, Stat: m.stat}
}

// Points yields (l, iω_{n_l}).
func (m *DLRImFreq) Points() iter.Seq[Point[int, domain.MatsubaraFreq]] {
	return func(yield func(Point[int, domain.MatsubaraFreq]) bool) {
		for l := 0; l < m.Rank(); l++ {
			if !yield(Point[int, domain.MatsubaraFreq]{Index: l, DataIndex: l, MeshHash: m.h, Value: m.ToValue(l)}) {
				return
			}
		}
	}
}

// Coefficients returns the coefficient façade over the same basis.
func (m *DLRImFreq) Coefficients() *DLR { return newDLRFacade(m.dlrCommon) }

// ImTime returns the imaginary-time façade over the same basis.
func (m *DLRImFreq) ImTime() *DLRImTime { return newDLRImTimeFacade(m.dlrCommon) }

func (m *DLRImFreq) MeshHash() uint64 { return m.h }
func (m *DLRImFreq) Kind() Kind { return KindDLRImFreq }
func (m *DLRImFreq) FormatTag() string { return KindDLRImFreq.FormatTag() }
func (m *DLRImFreq) sealed() {}

// Equal compares domain, size, w_max and eps within 1e-15.
func (m *DLRImFreq) Equal(other Mesh) bool {
	o, ok := other.(*DLRImFreq)

	return ok && m.equal(o.dlrCommon)
}

func (m *DLRImFreq) String() string {
	return fmt.Sprintf("DLRImFreq(beta=%g, %s, w_max=%g, eps=%g, rank=%d)", m.beta, m.stat, m.wmax, m.eps, m.Rank())
}
