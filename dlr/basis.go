// SPDX-License-Identifier: MIT

package dlr

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/katalvlaran/gfmesh/domain"
	"github.com/katalvlaran/gfmesh/linalg"
)

// Basis is an immutable DLR basis: the selected real frequencies and the
// imaginary-time and Matsubara node operators derived from them. Mesh
// façades share one *Basis; nothing mutates it after construction.
type Basis struct {
	lambda      float64
	eps         float64
	stat        domain.Statistic
	symmetrized bool
	freq        []float64
	it          *ImTimeOps
	iw          *ImFreqOps
	checksum    uint64
}

// ValidateParams checks Λ > 0 (finite) and 0 < ε < 1.
func ValidateParams(lambda, eps float64) error {
	if math.IsNaN(lambda) || math.IsInf(lambda, 0) || lambda <= 0 {
		return fmt.Errorf("lambda=%g: %w", lambda, ErrInvalidParams)
	}
	if math.IsNaN(eps) || eps <= 0 || eps >= 1 {
		return fmt.Errorf("eps=%g: %w", eps, ErrInvalidParams)
	}

	return nil
}

// Build constructs a basis for cutoff Λ = β·w_max and accuracy ε, without
// consulting the cache.
//
// Implementation:
//   - Stage 1 (Validate): Λ, ε.
//   - Stage 2 (Frequencies): tabulate K on fine (τ, ω) grids and pick the
//     ω-columns by pivoted Gram–Schmidt until the residual drops below ε.
//   - Stage 3 (Nodes): derive ImTimeOps and ImFreqOps for the statistic.
//
// Complexity: O(r·N²) for N fine points per axis and rank r.
func Build(lambda, eps float64, stat domain.Statistic, opts ...Option) (*Basis, error) {
	// Stage 1
	if err := ValidateParams(lambda, eps); err != nil {
		return nil, dlrErrorf(opBuild, err)
	}
	o := gatherOptions(opts...)
	start := time.Now()

	// Stage 2
	freq, err := selectFrequencies(lambda, eps, o)
	if err != nil {
		return nil, dlrErrorf(opBuild, err)
	}

	// Stage 3
	it, err := NewImTimeOps(lambda, freq, opts...)
	if err != nil {
		return nil, dlrErrorf(opBuild, err)
	}
	iw, err := NewImFreqOps(lambda, freq, stat, opts...)
	if err != nil {
		return nil, dlrErrorf(opBuild, err)
	}

	b := newBasis(lambda, eps, stat, o.symmetrize, freq, it, iw)
	elapsed := time.Since(start)
	basisBuildDuration.Observe(elapsed.Seconds())
	basisRank.Observe(float64(len(freq)))
	o.logger.Debug("dlr basis built",
		"lambda", lambda, "eps", eps,
		"statistic", stat.String(),
		"symmetrized", o.symmetrize,
		"rank", len(freq),
		"elapsed", elapsed)

	return b, nil
}

// selectFrequencies picks the DLR frequencies ω_l ∈ [-Λ, Λ], ascending.
func selectFrequencies(lambda, eps float64, o Options) ([]float64, error) {
	om := fineFrequencies(lambda, o.panelOrder)
	ts := fineTimes(lambda, o.panelOrder)
	rows := make([][]float64, len(om))
	for i, w := range om {
		rows[i] = make([]float64, len(ts))
		for j, t := range ts {
			rows[i][j] = KIt(t, w)
		}
	}
	gs := linalg.GSOptions{Eps: eps}
	if o.symmetrize {
		gs.Mirror = mirrorOf(len(om))
	}
	piv, err := linalg.PivotedGramSchmidt(rows, gs)
	if err != nil {
		return nil, err
	}
	freq := make([]float64, len(piv))
	for k, p := range piv {
		freq[k] = om[p]
	}
	slices.Sort(freq)

	return freq, nil
}

func newBasis(lambda, eps float64, stat domain.Statistic, sym bool, freq []float64, it *ImTimeOps, iw *ImFreqOps) *Basis {
	return &Basis{
		lambda:      lambda,
		eps:         eps,
		stat:        stat,
		symmetrized: sym,
		freq:        freq,
		it:          it,
		iw:          iw,
		checksum:    FreqChecksum(freq),
	}
}

// Restore rebuilds a basis from persisted frequencies and operators.
// No selection is performed, so Freq() is bit-identical to the stored data.
func Restore(lambda, eps float64, stat domain.Statistic, symmetrized bool, it *ImTimeOps, iw *ImFreqOps) (*Basis, error) {
	if err := ValidateParams(lambda, eps); err != nil {
		return nil, dlrErrorf(opRestoreBase, err)
	}
	if it == nil || iw == nil || !slices.Equal(it.freq, iw.freq) {
		return nil, dlrErrorf(opRestoreBase, fmt.Errorf("operators disagree on frequencies: %w", ErrCorruptOps))
	}
	if iw.stat != stat {
		return nil, dlrErrorf(opRestoreBase, fmt.Errorf("statistic %s vs %s: %w", iw.stat, stat, ErrCorruptOps))
	}

	return newBasis(lambda, eps, stat, symmetrized, slices.Clone(it.freq), it, iw), nil
}

// FreqChecksum hashes the bit patterns of a frequency set.
func FreqChecksum(freq []float64) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, f := range freq {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = d.Write(buf[:])
	}

	return d.Sum64()
}

// Lambda returns Λ = β·w_max.
func (b *Basis) Lambda() float64 { return b.lambda }

// Eps returns the target accuracy ε.
func (b *Basis) Eps() float64 { return b.eps }

// Statistic returns the statistic of the Matsubara operators.
func (b *Basis) Statistic() domain.Statistic { return b.stat }

// Symmetrized reports whether the basis was built with WithSymmetrize.
func (b *Basis) Symmetrized() bool { return b.symmetrized }

// Rank returns the number of basis functions r.
func (b *Basis) Rank() int { return len(b.freq) }

// Freq returns a copy of the selected frequencies.
func (b *Basis) Freq() []float64 { return slices.Clone(b.freq) }

// FreqAt returns ω_l.
func (b *Basis) FreqAt(l int) float64 { return b.freq[l] }

// Checksum returns FreqChecksum(Freq()).
func (b *Basis) Checksum() uint64 { return b.checksum }

// ImTime returns the imaginary-time operators.
func (b *Basis) ImTime() *ImTimeOps { return b.it }

// ImFreq returns the Matsubara operators.
func (b *Basis) ImFreq() *ImFreqOps { return b.iw }
