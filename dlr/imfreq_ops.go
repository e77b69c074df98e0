// SPDX-License-Identifier: MIT

package dlr

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/gfmesh/domain"
	"github.com/katalvlaran/gfmesh/linalg"
	"github.com/katalvlaran/gfmesh/ndarray"
)

// ImFreqOps maps DLR coefficients to values on the DLR Matsubara nodes
// and back, for one statistic. Values exclude the factor β.
type ImFreqOps struct {
	lambda float64
	stat   domain.Statistic
	freq   []float64
	nodes  []int          // Matsubara indices n_k, ascending
	cf2if  *ndarray.Matrix // KIf(n_k, ω_l)
	lu     *linalg.ComplexLU
}

// NewImFreqOps selects r Matsubara nodes for the given frequencies by
// pivoted Gram–Schmidt over the rows KIf(n, ·) of a dense index range.
// Complexity: O(r²·N) for N = 2·nmax candidate indices.
func NewImFreqOps(lambda float64, freq []float64, stat domain.Statistic, opts ...Option) (*ImFreqOps, error) {
	o := gatherOptions(opts...)
	r := len(freq)
	if r == 0 {
		return nil, dlrErrorf(opImFreqOps, fmt.Errorf("empty frequency set: %w", ErrInvalidParams))
	}
	nmax := o.nmax
	if nmax == 0 {
		nmax = defaultMatsubaraCutoff(lambda)
	}

	// Stage 1: candidate rows
	cand := fineMatsubara(nmax, stat == domain.Fermion)
	rows := make([][]complex128, len(cand))
	for i, n := range cand {
		rows[i] = make([]complex128, r)
		for l, om := range freq {
			rows[i][l] = KIf(n, om, stat)
		}
	}

	// Stage 2: selection
	gs := linalg.GSOptions{MaxRank: r}
	if o.symmetrize {
		gs.Mirror = mirrorOf(len(cand))
	}
	piv, err := linalg.PivotedGramSchmidt(rows, gs)
	if err != nil {
		return nil, dlrErrorf(opImFreqOps, err)
	}
	if len(piv) < r {
		return nil, dlrErrorf(opImFreqOps, fmt.Errorf("selected %d of %d nodes: %w", len(piv), r, ErrRankDeficient))
	}

	// Stage 3: sort and factorize
	nodes := make([]int, r)
	for k, p := range piv {
		nodes[k] = cand[p]
	}
	slices.Sort(nodes)

	return newImFreqOps(lambda, stat, slices.Clone(freq), nodes, nil)
}

// RestoreImFreqOps rebuilds operators from persisted data; cf2if is the
// row-major r×r node matrix.
func RestoreImFreqOps(lambda float64, stat domain.Statistic, freq []float64, nodes []int, cf2if []complex128) (*ImFreqOps, error) {
	r := len(freq)
	if len(nodes) != r || len(cf2if) != r*r || r == 0 {
		return nil, dlrErrorf(opRestoreIf, fmt.Errorf("r=%d, nodes=%d, cf2if=%d: %w", r, len(nodes), len(cf2if), ErrCorruptOps))
	}
	m := &ndarray.Matrix{Rows: r, Cols: r, Data: slices.Clone(cf2if)}

	return newImFreqOps(lambda, stat, slices.Clone(freq), slices.Clone(nodes), m)
}

func newImFreqOps(lambda float64, stat domain.Statistic, freq []float64, nodes []int, cf2if *ndarray.Matrix) (*ImFreqOps, error) {
	r := len(freq)
	if cf2if == nil {
		cf2if = ndarray.NewMatrix(r, r)
		for k, n := range nodes {
			for l, om := range freq {
				cf2if.Data[k*r+l] = KIf(n, om, stat)
			}
		}
	}
	lu, err := linalg.NewComplexLU(cf2if)
	if err != nil {
		return nil, dlrErrorf(opImFreqOps, err)
	}

	return &ImFreqOps{lambda: lambda, stat: stat, freq: freq, nodes: nodes, cf2if: cf2if, lu: lu}, nil
}

// Rank returns the number of basis functions.
func (op *ImFreqOps) Rank() int { return len(op.freq) }

// Lambda returns Λ.
func (op *ImFreqOps) Lambda() float64 { return op.lambda }

// Statistic returns the statistic the nodes were selected for.
func (op *ImFreqOps) Statistic() domain.Statistic { return op.stat }

// Nodes returns a copy of the Matsubara node indices.
func (op *ImFreqOps) Nodes() []int { return slices.Clone(op.nodes) }

// Node returns the k-th Matsubara node index.
func (op *ImFreqOps) Node(k int) int { return op.nodes[k] }

// Cf2If returns the node matrix in row-major order.
func (op *ImFreqOps) Cf2If() []complex128 { return slices.Clone(op.cf2if.Data) }

// Vals2Coefs solves Σ_l KIf(n_k, ω_l) c_l = g_k.
func (op *ImFreqOps) Vals2Coefs(g *ndarray.Matrix) (*ndarray.Matrix, error) {
	if g.Rows != op.Rank() {
		return nil, dlrErrorf(opVals2Coefs, fmt.Errorf("rows %d, rank %d: %w", g.Rows, op.Rank(), ErrDimensionMismatch))
	}
	c, err := op.lu.Solve(g)
	if err != nil {
		return nil, dlrErrorf(opVals2Coefs, err)
	}

	return c, nil
}

// Coefs2Vals evaluates the expansion on the Matsubara nodes.
func (op *ImFreqOps) Coefs2Vals(c *ndarray.Matrix) (*ndarray.Matrix, error) {
	if c.Rows != op.Rank() {
		return nil, dlrErrorf(opCoefs2Vals, fmt.Errorf("rows %d, rank %d: %w", c.Rows, op.Rank(), ErrDimensionMismatch))
	}
	v, err := linalg.MulComplex(op.cf2if, c)
	if err != nil {
		return nil, dlrErrorf(opCoefs2Vals, err)
	}

	return v, nil
}

// KernelRow returns KIf(n, ω_l) for all l.
func (op *ImFreqOps) KernelRow(n int) []complex128 {
	row := make([]complex128, len(op.freq))
	for l, om := range op.freq {
		row[l] = KIf(n, om, op.stat)
	}

	return row
}
