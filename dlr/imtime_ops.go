// SPDX-License-Identifier: MIT

package dlr

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/gfmesh/linalg"
	"github.com/katalvlaran/gfmesh/ndarray"
	"gonum.org/v1/gonum/mat"
)

// ImTimeOps maps DLR coefficients to values on the DLR imaginary-time
// nodes and back. The node system K(t_k, ω_l) is square and, by
// construction of the nodes, well conditioned.
type ImTimeOps struct {
	lambda float64
	freq   []float64  // basis frequencies ω_l
	nodes  []float64  // relative-format nodes t_k, ascending in absolute time
	cf2it  *mat.Dense // K(t_k, ω_l)
	lu     *linalg.LU
}

// NewImTimeOps selects r imaginary-time nodes for the given frequencies.
// Stage 1 (Prepare): tabulate K on the fine τ grid.
// Stage 2 (Execute): pivoted Gram–Schmidt over rows picks r nodes.
// Stage 3 (Finalize): sort nodes, factorize the node system.
// Complexity: O(r·m·r) for m fine-grid points.
func NewImTimeOps(lambda float64, freq []float64, opts ...Option) (*ImTimeOps, error) {
	o := gatherOptions(opts...)
	r := len(freq)
	if r == 0 {
		return nil, dlrErrorf(opImTimeOps, fmt.Errorf("empty frequency set: %w", ErrInvalidParams))
	}

	// Stage 1: fine-grid kernel rows
	fine := fineTimes(lambda, o.panelOrder)
	rows := make([][]float64, len(fine))
	for i, t := range fine {
		rows[i] = make([]float64, r)
		for l, om := range freq {
			rows[i][l] = KIt(t, om)
		}
	}

	// Stage 2: row selection
	gs := linalg.GSOptions{MaxRank: r}
	if o.symmetrize {
		gs.Mirror = mirrorOf(len(fine))
	}
	piv, err := linalg.PivotedGramSchmidt(rows, gs)
	if err != nil {
		return nil, dlrErrorf(opImTimeOps, err)
	}
	if len(piv) < r {
		return nil, dlrErrorf(opImTimeOps, fmt.Errorf("selected %d of %d nodes: %w", len(piv), r, ErrRankDeficient))
	}

	// Stage 3: sorted nodes and factorization
	nodes := make([]float64, r)
	for k, p := range piv {
		nodes[k] = fine[p]
	}
	slices.SortFunc(nodes, func(a, b float64) int {
		return cmpFloat(AbsoluteTime(a), AbsoluteTime(b))
	})

	return newImTimeOps(lambda, slices.Clone(freq), nodes, nil)
}

// RestoreImTimeOps rebuilds operators from persisted data without
// selecting nodes again. cf2it is the row-major r×r node matrix.
func RestoreImTimeOps(lambda float64, freq, nodes, cf2it []float64) (*ImTimeOps, error) {
	r := len(freq)
	if len(nodes) != r || len(cf2it) != r*r || r == 0 {
		return nil, dlrErrorf(opRestoreIt, fmt.Errorf("r=%d, nodes=%d, cf2it=%d: %w", r, len(nodes), len(cf2it), ErrCorruptOps))
	}

	return newImTimeOps(lambda, slices.Clone(freq), slices.Clone(nodes), mat.NewDense(r, r, slices.Clone(cf2it)))
}

func newImTimeOps(lambda float64, freq, nodes []float64, cf2it *mat.Dense) (*ImTimeOps, error) {
	r := len(freq)
	if cf2it == nil {
		cf2it = mat.NewDense(r, r, nil)
		for k, t := range nodes {
			for l, om := range freq {
				cf2it.Set(k, l, KIt(t, om))
			}
		}
	}
	lu, err := linalg.NewLU(cf2it)
	if err != nil {
		return nil, dlrErrorf(opImTimeOps, err)
	}

	return &ImTimeOps{lambda: lambda, freq: freq, nodes: nodes, cf2it: cf2it, lu: lu}, nil
}

// Rank returns the number of basis functions.
func (op *ImTimeOps) Rank() int { return len(op.freq) }

// Lambda returns Λ.
func (op *ImTimeOps) Lambda() float64 { return op.lambda }

// Freq returns a copy of the basis frequencies.
func (op *ImTimeOps) Freq() []float64 { return slices.Clone(op.freq) }

// Nodes returns a copy of the relative-format nodes.
func (op *ImTimeOps) Nodes() []float64 { return slices.Clone(op.nodes) }

// Node returns the k-th relative-format node.
func (op *ImTimeOps) Node(k int) float64 { return op.nodes[k] }

// Cf2It returns the node matrix in row-major order.
func (op *ImTimeOps) Cf2It() []float64 { return slices.Clone(op.cf2it.RawMatrix().Data) }

// Vals2Coefs solves K(t_k, ω_l) c_l = g_k for values on the nodes
// (rows of g) and returns the coefficients.
// Complexity: O(r² cols).
func (op *ImTimeOps) Vals2Coefs(g *ndarray.Matrix) (*ndarray.Matrix, error) {
	if g.Rows != op.Rank() {
		return nil, dlrErrorf(opVals2Coefs, fmt.Errorf("rows %d, rank %d: %w", g.Rows, op.Rank(), ErrDimensionMismatch))
	}
	c, err := op.lu.Solve(g)
	if err != nil {
		return nil, dlrErrorf(opVals2Coefs, err)
	}

	return c, nil
}

// Coefs2Vals evaluates the expansion on the nodes.
func (op *ImTimeOps) Coefs2Vals(c *ndarray.Matrix) (*ndarray.Matrix, error) {
	if c.Rows != op.Rank() {
		return nil, dlrErrorf(opCoefs2Vals, fmt.Errorf("rows %d, rank %d: %w", c.Rows, op.Rank(), ErrDimensionMismatch))
	}
	v, err := linalg.MulReal(op.cf2it, c)
	if err != nil {
		return nil, dlrErrorf(opCoefs2Vals, err)
	}

	return v, nil
}

// KernelRow returns K(t, ω_l) for all l at a relative-format time t.
func (op *ImTimeOps) KernelRow(t float64) []float64 {
	row := make([]float64, len(op.freq))
	for l, om := range op.freq {
		row[l] = KIt(t, om)
	}

	return row
}

// FitVals2Coefs fits coefficients to samples g (rows) taken at arbitrary
// relative-format times t by truncated-SVD least squares; singular values
// below rcond·σ_max are dropped.
// Complexity: O(m r² + m r cols) for m samples.
func (op *ImTimeOps) FitVals2Coefs(t []float64, g *ndarray.Matrix, rcond float64) (*ndarray.Matrix, error) {
	if len(t) != g.Rows {
		return nil, dlrErrorf(opFit, fmt.Errorf("%d times, %d rows: %w", len(t), g.Rows, ErrDimensionMismatch))
	}
	r := op.Rank()
	a := mat.NewDense(len(t), r, nil)
	for i, ti := range t {
		a.SetRow(i, op.KernelRow(ti))
	}
	ls, err := linalg.NewLeastSquares(a, rcond)
	if err != nil {
		return nil, dlrErrorf(opFit, err)
	}
	c, _, err := ls.Solve(g)
	if err != nil {
		return nil, dlrErrorf(opFit, err)
	}

	return c, nil
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}

	return 0
}
