// SPDX-License-Identifier: MIT

package mesh

import (
	"fmt"
	"iter"
	"math"
	"sync"

	"github.com/katalvlaran/gfmesh/domain"
	"github.com/katalvlaran/gfmesh/ndarray"
)

// FreqOption selects which Matsubara frequencies an ImFreq mesh holds.
type FreqOption int

const (
	// AllFrequencies keeps both signs.
	AllFrequencies FreqOption = iota
	// PositiveFrequenciesOnly keeps n ≥ 0.
	PositiveFrequenciesOnly
)

func (o FreqOption) String() string {
	if o == PositiveFrequenciesOnly {
		return "positive_frequencies_only"
	}

	return "all_frequencies"
}

// ImFreq is a Matsubara-frequency mesh. Its index is the Matsubara integer
// n, its value iπ(2n+s)/β.
//
// Index range for nIw frequencies:
//
//	fermion, all:  [-nIw, nIw-1]
//	boson, all:    [-(nIw-1), nIw-1]
//	positive only: [0, nIw-1]
//
// The index window [WindowFirst, WindowLast] is a contiguous sub-range set
// by Scatter; data indices count from WindowFirst.
type ImFreq struct {
	dom         domain.ImFreq
	nIw         int
	opt         FreqOption
	first, last int
	wFirst      int
	wLast       int
	hash        uint64

	tailMu sync.Mutex
	tail   *TailFitter
}

// NewImFreq builds a Matsubara mesh with nIw non-negative frequencies.
func NewImFreq(beta float64, stat domain.Statistic, nIw int, opt FreqOption) (*ImFreq, error) {
	if err := domain.ValidateBeta(beta); err != nil {
		return nil, meshErrorf(opNewImFreq, err)
	}
	if nIw < 1 || (opt != AllFrequencies && opt != PositiveFrequenciesOnly) {
		return nil, meshErrorf(opNewImFreq, fmt.Errorf("n_iw=%d option=%d: %w", nIw, opt, ErrInvalidMesh))
	}
	last := nIw - 1
	first := 0
	if opt == AllFrequencies {
		first = -last
		if stat == domain.Fermion {
			first = -(last + 1)
		}
	}

	return newImFreq(domain.ImFreq{Beta: beta, Stat: stat}, nIw, opt, first, last, first, last, nil), nil
}

func newImFreq(dom domain.ImFreq, nIw int, opt FreqOption, first, last, wFirst, wLast int, tail *TailFitter) *ImFreq {
	h := newHasher(KindImFreq.FormatTag()).
		float(dom.Beta).int(int(dom.Stat)).int(nIw).int(int(opt)).
		int(wFirst).int(wLast)
	if tail == nil {
		tail = NewTailFitter()
	}

	return &ImFreq{
		dom: dom, nIw: nIw, opt: opt,
		first: first, last: last, wFirst: wFirst, wLast: wLast,
		hash: h.sum(), tail: tail,
	}
}

// Domain returns the Matsubara domain.
func (m *ImFreq) Domain() domain.ImFreq { return m.dom }

// Beta returns β.
func (m *ImFreq) Beta() float64 { return m.dom.Beta }

// Statistic returns the statistic.
func (m *ImFreq) Statistic() domain.Statistic { return m.dom.Stat }

// NIw returns the number of non-negative frequencies.
func (m *ImFreq) NIw() int { return m.nIw }

// Option returns the frequency option.
func (m *ImFreq) Option() FreqOption { return m.opt }

// PositiveOnly reports whether only n ≥ 0 is kept.
func (m *ImFreq) PositiveOnly() bool { return m.opt == PositiveFrequenciesOnly }

// FirstIndex returns the first Matsubara index of the full range.
func (m *ImFreq) FirstIndex() int { return m.first }

// LastIndex returns the last Matsubara index of the full range.
func (m *ImFreq) LastIndex() int { return m.last }

// WindowFirst returns the first index of the window.
func (m *ImFreq) WindowFirst() int { return m.wFirst }

// WindowLast returns the last index of the window.
func (m *ImFreq) WindowLast() int { return m.wLast }

// FullSize returns the size of the full range.
func (m *ImFreq) FullSize() int { return m.last - m.first + 1 }

// Size returns the number of frequencies in the window.
func (m *ImFreq) Size() int { return m.wLast - m.wFirst + 1 }

// OmegaMax returns the largest frequency π(2·last+s)/β.
func (m *ImFreq) OmegaMax() float64 {
	return math.Pi * float64(2*m.last+int(m.dom.Stat)) / m.dom.Beta
}

// IsIndexValid reports whether n lies in the window.
func (m *ImFreq) IsIndexValid(n int) bool { return n >= m.wFirst && n <= m.wLast }

// ToDataIndex returns n - WindowFirst.
func (m *ImFreq) ToDataIndex(n int) (int, error) {
	if !m.IsIndexValid(n) {
		return 0, indexError(opToDataIndex, n, m.wFirst, m.wLast)
	}

	return n - m.wFirst, nil
}

// ToIndex returns d + WindowFirst.
func (m *ImFreq) ToIndex(d int) (int, error) {
	if d < 0 || d >= m.Size() {
		return 0, indexError(opToIndex, d, 0, m.Size()-1)
	}

	return d + m.wFirst, nil
}

// ToValue returns the Matsubara frequency of index n.
func (m *ImFreq) ToValue(n int) domain.MatsubaraFreq { return m.dom.Freq(n) }

// ValueAt returns the frequency at data index d without checking.
func (m *ImFreq) ValueAt(d int) domain.MatsubaraFreq { return m.dom.Freq(d + m.wFirst) }

// Points yields the window's frequencies in index order.
func (m *ImFreq) Points() iter.Seq[Point[int, domain.MatsubaraFreq]] {
	return func(yield func(Point[int, domain.MatsubaraFreq]) bool) {
		for n := m.wFirst; n <= m.wLast; n++ {
			p := Point[int, domain.MatsubaraFreq]{Index: n, DataIndex: n - m.wFirst, MeshHash: m.hash, Value: m.dom.Freq(n)}
			if !yield(p) {
				return
			}
		}
	}
}

// Evaluate returns f at the data index of w. Frequencies outside the window
// yield ErrIndexOutOfRange; a statistic or β mismatch yields
// domain.ErrBetaMismatch or domain.ErrUnknownStatistic.
func (m *ImFreq) Evaluate(f func(d int) complex128, w domain.MatsubaraFreq) (complex128, error) {
	if w.Stat != m.dom.Stat {
		return 0, fmt.Errorf("evaluate %s on %s mesh: %w", w, m.dom.Stat, domain.ErrUnknownStatistic)
	}
	if !closeTo(w.Beta, m.dom.Beta) {
		return 0, fmt.Errorf("beta %g vs %g: %w", w.Beta, m.dom.Beta, domain.ErrBetaMismatch)
	}
	d, err := m.ToDataIndex(w.N)
	if err != nil {
		return 0, err
	}

	return f(d), nil
}

// Scatter returns the mesh restricted to the window owned by comm's rank.
func (m *ImFreq) Scatter(c Comm) *ImFreq {
	b, e := ChunkRange(m.first, m.last+1, c.Size(), c.Rank())

	return newImFreq(m.dom, m.nIw, m.opt, m.first, m.last, b, e-1, m.tailFitter().withParams())
}

// Gather returns the mesh with the window reset to the full range.
func (m *ImFreq) Gather(Comm) *ImFreq {
	return newImFreq(m.dom, m.nIw, m.opt, m.first, m.last, m.first, m.last, m.tailFitter().withParams())
}

// tailFitter returns the current fitter.
func (m *ImFreq) tailFitter() *TailFitter {
	m.tailMu.Lock()
	defer m.tailMu.Unlock()

	return m.tail
}

// SetTailFitParameters replaces the fitter and drops all cached solvers.
func (m *ImFreq) SetTailFitParameters(opts ...TailOption) {
	m.tailMu.Lock()
	defer m.tailMu.Unlock()
	m.tail = NewTailFitter(opts...)
}

// FitTail fits the high-frequency moments of data g (rows = data index);
// see TailFitter.Fit.
func (m *ImFreq) FitTail(g, known *ndarray.Matrix) (*ndarray.Matrix, float64, error) {
	return m.tailFitter().Fit(m, g, known)
}

// FitHermitianTail is FitTail with hermitian moments for d×d targets.
func (m *ImFreq) FitHermitianTail(g, known *ndarray.Matrix, innerDim int) (*ndarray.Matrix, float64, error) {
	return m.tailFitter().FitHermitian(m, g, known, innerDim)
}

func (m *ImFreq) MeshHash() uint64 { return m.hash }
func (m *ImFreq) Kind() Kind { return KindImFreq }
func (m *ImFreq) FormatTag() string { return KindImFreq.FormatTag() }
func (m *ImFreq) ComponentSizes() []int { return []int{m.Size()} }
func (m *ImFreq) IndexOf(d int) (any, error) { return m.ToIndex(d) }
func (m *ImFreq) sealed() {}

// DataIndexOf accepts an int index or a domain.MatsubaraFreq.
func (m *ImFreq) DataIndexOf(index any) (int, error) {
	if w, ok := index.(domain.MatsubaraFreq); ok {
		return m.ToDataIndex(w.N)
	}
	n, err := intIndex(opToDataIndex, index)
	if err != nil {
		return 0, err
	}

	return m.ToDataIndex(n)
}

// Equal compares β, statistic, size, option and window.
func (m *ImFreq) Equal(other Mesh) bool {
	o, ok := other.(*ImFreq)

	return ok && m.dom.Stat == o.dom.Stat && closeTo(m.dom.Beta, o.dom.Beta) &&
		m.nIw == o.nIw && m.opt == o.opt && m.wFirst == o.wFirst && m.wLast == o.wLast
}

func (m *ImFreq) String() string {
	return fmt.Sprintf("ImFreq(beta=%g, %s, n_iw=%d, %s, window=[%d, %d])",
		m.dom.Beta, m.dom.Stat, m.nIw, m.opt, m.wFirst, m.wLast)
}
