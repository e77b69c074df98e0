// SPDX-License-Identifier: MIT

package mesh

import (
	"fmt"
	"log/slog"
	"math"
	"math/cmplx"
	"slices"
	"sync"

	"github.com/katalvlaran/gfmesh/linalg"
	"github.com/katalvlaran/gfmesh/ndarray"
	"gonum.org/v1/gonum/mat"
)

// Tail-fit defaults.
const (
	DefaultTailFraction = 0.2
	DefaultNTailMax     = 30
	DefaultRcond        = 1e-8

	// MaxExpansionOrder is the highest moment the fitter considers.
	MaxExpansionOrder = 9
)

const (
	tailFractionInvalid = "mesh: WithTailFraction: fraction must be in (0, 1]"
	nTailMaxInvalid     = "mesh: WithNTailMax: n must be ≥ 1"
	orderInvalid        = "mesh: WithExpansionOrder: order must be in [0, 9]"
	rcondInvalid        = "mesh: WithRcond: rcond must be > 0"
)

// TailOption configures a TailFitter.
type TailOption func(*tailParams)

type tailParams struct {
	fraction float64
	nTailMax int
	order    int // -1 selects the order adaptively
	rcond    float64
	logger   *slog.Logger
}

// WithTailFraction sets the fraction of the mesh, split over both edges,
// from which samples are taken.
func WithTailFraction(f float64) TailOption {
	if !(f > 0 && f <= 1) {
		panic(tailFractionInvalid)
	}

	return func(p *tailParams) { p.fraction = f }
}

// WithNTailMax caps the number of samples per edge.
func WithNTailMax(n int) TailOption {
	if n < 1 {
		panic(nTailMaxInvalid)
	}

	return func(p *tailParams) { p.nTailMax = n }
}

// WithExpansionOrder fixes the highest fitted moment instead of choosing it
// adaptively.
func WithExpansionOrder(order int) TailOption {
	if order < 0 || order > MaxExpansionOrder {
		panic(orderInvalid)
	}

	return func(p *tailParams) { p.order = order }
}

// WithRcond sets the smallest acceptable singular value of the scaled
// Vandermonde matrix.
func WithRcond(rcond float64) TailOption {
	if !(rcond > 0) {
		panic(rcondInvalid)
	}

	return func(p *tailParams) { p.rcond = rcond }
}

// WithTailLogger routes order-selection debug output to l.
func WithTailLogger(l *slog.Logger) TailOption {
	return func(p *tailParams) { p.logger = l }
}

// TailFitter extracts high-frequency moments a_k of G(iω) ≈ Σ_k a_k/(iω)^k
// from the edges of a Matsubara mesh by least squares.
//
// The Vandermonde matrix V(i, k) = (ω_max/ω_i)^k is built once per mesh;
// solvers are cached per number of known moments, separately for plain and
// hermitian fits. A slot is stored only after its order selection succeeded.
type TailFitter struct {
	params tailParams

	mu     sync.Mutex
	hash   uint64          // MeshHash of the mesh the cache below was built for
	fitIdx []int           // data indices of the samples
	vander *ndarray.Matrix // len(fitIdx) × (MaxExpansionOrder+1)
	plain  map[int]*tailSlot
	herm   map[int]*tailSlot
}

type tailSlot struct {
	order int
	ls    *linalg.LeastSquares // plain: complex; hermitian: off-diagonal system
	diag  *linalg.LeastSquares // hermitian only
}

// NewTailFitter returns an empty fitter.
func NewTailFitter(opts ...TailOption) *TailFitter {
	p := tailParams{
		fraction: DefaultTailFraction,
		nTailMax: DefaultNTailMax,
		order:    -1,
		rcond:    DefaultRcond,
	}
	for _, fn := range opts {
		fn(&p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}

	return &TailFitter{params: p, plain: map[int]*tailSlot{}, herm: map[int]*tailSlot{}}
}

// withParams returns a fresh fitter with the same parameters.
func (tf *TailFitter) withParams() *TailFitter {
	return &TailFitter{params: tf.params, plain: map[int]*tailSlot{}, herm: map[int]*tailSlot{}}
}

// FitIndices returns the sample data indices chosen for m.
func (tf *TailFitter) FitIndices(m *ImFreq) []int {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	tf.prepare(m)

	return slices.Clone(tf.fitIdx)
}

// prepare selects sample indices and builds V; callers hold tf.mu.
// A mesh with a different hash drops every cached sample and solver.
//
// nRange = round(fraction·size/2) points from each edge are eligible;
// nTail = min(nRange, nTailMax) of them are taken, evenly stepped.
func (tf *TailFitter) prepare(m *ImFreq) {
	if tf.vander != nil && tf.hash == m.MeshHash() {
		return
	}
	tf.hash = m.MeshHash()
	tf.plain, tf.herm = map[int]*tailSlot{}, map[int]*tailSlot{}
	size := m.Size()
	nRange := int(math.Round(tf.params.fraction * float64(size) / 2))
	nTail := min(nRange, tf.params.nTailMax)
	seen := map[int]bool{}
	if nTail > 0 {
		step := float64(nRange) / float64(nTail)
		for k := 0; k < nTail; k++ {
			i := int(float64(k) * step)
			seen[i], seen[size-1-i] = true, true
		}
	}
	idx := make([]int, 0, len(seen))
	for d := range seen {
		if m.ValueAt(d).Imag() != 0 {
			idx = append(idx, d)
		}
	}
	slices.Sort(idx)

	wmax := m.OmegaMax()
	v := ndarray.NewMatrix(len(idx), MaxExpansionOrder+1)
	for r, d := range idx {
		z := complex(wmax, 0) / m.ValueAt(d).Complex()
		p := complex(1, 0)
		for k := 0; k <= MaxExpansionOrder; k++ {
			v.Data[r*v.Cols+k] = p
			p *= z
		}
	}
	tf.fitIdx, tf.vander = idx, v
}

// columns returns V[:, lo:hi+1].
func (tf *TailFitter) columns(lo, hi int) *ndarray.Matrix {
	out := ndarray.NewMatrix(tf.vander.Rows, hi-lo+1)
	for i := 0; i < tf.vander.Rows; i++ {
		copy(out.Row(i), tf.vander.Row(i)[lo:hi+1])
	}

	return out
}

// selectOrder picks the expansion order for nFixed known moments and
// returns the solver of V[:, nFixed:order+1].
func (tf *TailFitter) selectOrder(nFixed int) (int, *linalg.LeastSquares, error) {
	rows := tf.vander.Rows
	try := func(n int) (*linalg.LeastSquares, bool, error) {
		if n+1-nFixed > rows {
			return nil, false, nil
		}
		ls, err := linalg.NewComplexLeastSquares(tf.columns(nFixed, n), 0)
		if err != nil {
			return nil, false, err
		}

		return ls, ls.MinSingularValue() > tf.params.rcond, nil
	}

	if n := tf.params.order; n >= 0 {
		if n < nFixed {
			return 0, nil, fmt.Errorf("order %d < %d known moments: %w", n, nFixed, ErrTailOrder)
		}
		ls, ok, err := try(n)
		if err != nil {
			return 0, nil, err
		}
		if !ok {
			return 0, nil, fmt.Errorf("order %d, rcond %g: %w", n, tf.params.rcond, ErrTailIllConditioned)
		}

		return n, ls, nil
	}
	for n := MaxExpansionOrder; n >= nFixed; n-- {
		ls, ok, err := try(n)
		if err != nil {
			return 0, nil, err
		}
		if ok {
			tf.params.logger.Debug("tail order selected", "n_fixed", nFixed, "order", n, "sigma_min", ls.MinSingularValue())
			return n, ls, nil
		}
	}

	return 0, nil, fmt.Errorf("orders %d..%d, rcond %g: %w", nFixed, MaxExpansionOrder, tf.params.rcond, ErrTailIllConditioned)
}

// check validates the common preconditions and returns nFixed.
func (tf *TailFitter) check(m *ImFreq, g, known *ndarray.Matrix) (int, error) {
	if m.PositiveOnly() {
		return 0, ErrTailPositiveOnly
	}
	if g.Rows != m.Size() {
		return 0, fmt.Errorf("data rows %d, mesh size %d: %w", g.Rows, m.Size(), ErrDimensionMismatch)
	}
	nFixed := 0
	if known != nil {
		nFixed = known.Rows
		if known.Cols != g.Cols && nFixed > 0 {
			return 0, fmt.Errorf("known moments have %d columns, data %d: %w", known.Cols, g.Cols, ErrDimensionMismatch)
		}
	}
	if nFixed > MaxExpansionOrder {
		return 0, fmt.Errorf("%d known moments: %w", nFixed, ErrTailOrder)
	}
	if n := len(tf.fitIdx); n < 2*(nFixed+1) {
		return 0, fmt.Errorf("%d points, need %d: %w", n, 2*(nFixed+1), ErrTailTooFewPoints)
	}

	return nFixed, nil
}

// rhs returns the samples minus the known-moment contribution
// Σ_{k<nFixed} V(i,k)·a_k/ω_max^k.
func (tf *TailFitter) rhs(g, known *ndarray.Matrix, nFixed int, wmax float64) *ndarray.Matrix {
	b := ndarray.NewMatrix(len(tf.fitIdx), g.Cols)
	for r, d := range tf.fitIdx {
		row := b.Row(r)
		copy(row, g.Row(d))
		for k := 0; k < nFixed; k++ {
			scale := tf.vander.At(r, k) / complex(math.Pow(wmax, float64(k)), 0)
			for c, a := range known.Row(k) {
				row[c] -= scale * a
			}
		}
	}

	return b
}

// assemble concatenates the known moments with the rescaled solution
// a_k = x_k·ω_max^k.
func assemble(known, x *ndarray.Matrix, nFixed, order, cols int, wmax float64) *ndarray.Matrix {
	out := ndarray.NewMatrix(order+1, cols)
	for k := 0; k < nFixed; k++ {
		copy(out.Row(k), known.Row(k))
	}
	for k := nFixed; k <= order; k++ {
		s := complex(math.Pow(wmax, float64(k)), 0)
		for c, v := range x.Row(k - nFixed) {
			out.Data[k*cols+c] = v * s
		}
	}

	return out
}

// Fit returns the moments a_0 … a_order (rows) of g and the residual
// ‖V x − b‖_F/√(#b). known holds a_0 … a_{nFixed-1}, or is nil.
//
// Implementation:
//   - Stage 1 (Validate): both-sign mesh, row count, enough samples.
//   - Stage 2 (Order): cached per nFixed, else adaptive or fixed selection.
//   - Stage 3 (Solve): subtract known moments, solve, rescale by ω_max^k.
//
// Complexity: O(n_s·p·cols) for n_s samples and p fitted moments.
func (tf *TailFitter) Fit(m *ImFreq, g, known *ndarray.Matrix) (*ndarray.Matrix, float64, error) {
	tf.mu.Lock()
	defer tf.mu.Unlock()

	// Stage 1
	tf.prepare(m)
	nFixed, err := tf.check(m, g, known)
	if err != nil {
		return nil, 0, meshErrorf(opTailFit, err)
	}

	// Stage 2
	slot, ok := tf.plain[nFixed]
	if !ok {
		order, ls, err := tf.selectOrder(nFixed)
		if err != nil {
			return nil, 0, meshErrorf(opTailFit, err)
		}
		slot = &tailSlot{order: order, ls: ls}
		tf.plain[nFixed] = slot
	}

	// Stage 3
	wmax := m.OmegaMax()
	b := tf.rhs(g, known, nFixed, wmax)
	x, residual, err := slot.ls.Solve(b)
	if err != nil {
		return nil, 0, meshErrorf(opTailFit, err)
	}

	return assemble(known, x, nFixed, slot.order, g.Cols, wmax), residual, nil
}

// hermitianSystems builds the real systems enforcing a_k = a_kᴴ for
// V = Vr + i·Vi (m×p). Off-diagonal unknowns x = u + i·v appear in
// g_ab = V x and g_ba = V x̄:
//
//	[Vr -Vi] [u]   [Re g_ab]
//	[Vi  Vr] [v] = [Im g_ab]
//	[Vr  Vi]       [Re g_ba]
//	[Vi -Vr]       [Im g_ba]
//
// Diagonal unknowns are real: [Vr; Vi] x = [Re g_aa; Im g_aa].
func hermitianSystems(v *ndarray.Matrix) (off, diag *mat.Dense) {
	m, p := v.Rows, v.Cols
	off = mat.NewDense(4*m, 2*p, nil)
	diag = mat.NewDense(2*m, p, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < p; j++ {
			vr, vi := real(v.At(i, j)), imag(v.At(i, j))
			off.Set(i, j, vr)
			off.Set(i, j+p, -vi)
			off.Set(i+m, j, vi)
			off.Set(i+m, j+p, vr)
			off.Set(i+2*m, j, vr)
			off.Set(i+2*m, j+p, vi)
			off.Set(i+3*m, j, vi)
			off.Set(i+3*m, j+p, -vr)
			diag.Set(i, j, vr)
			diag.Set(i+m, j, vi)
		}
	}

	return off, diag
}

// FitHermitian is Fit for d×d matrix-valued data (g.Cols == d², row-major
// inner index a·d+b) with moments constrained to be hermitian.
func (tf *TailFitter) FitHermitian(m *ImFreq, g, known *ndarray.Matrix, innerDim int) (*ndarray.Matrix, float64, error) {
	tf.mu.Lock()
	defer tf.mu.Unlock()

	if innerDim < 1 || g.Cols != innerDim*innerDim {
		return nil, 0, meshErrorf(opHermFit, fmt.Errorf("inner dimension %d, %d columns: %w", innerDim, g.Cols, ErrTailHermitianShape))
	}
	tf.prepare(m)
	nFixed, err := tf.check(m, g, known)
	if err != nil {
		return nil, 0, meshErrorf(opHermFit, err)
	}

	slot, ok := tf.herm[nFixed]
	if !ok {
		order, _, err := tf.selectOrder(nFixed)
		if err != nil {
			return nil, 0, meshErrorf(opHermFit, err)
		}
		offA, diagA := hermitianSystems(tf.columns(nFixed, order))
		offLS, err := linalg.NewLeastSquares(offA, 0)
		if err != nil {
			return nil, 0, meshErrorf(opHermFit, err)
		}
		diagLS, err := linalg.NewLeastSquares(diagA, 0)
		if err != nil {
			return nil, 0, meshErrorf(opHermFit, err)
		}
		slot = &tailSlot{order: order, ls: offLS, diag: diagLS}
		tf.herm[nFixed] = slot
	}

	wmax := m.OmegaMax()
	b := tf.rhs(g, known, nFixed, wmax)
	x, err := solveHermitian(slot, b, innerDim)
	if err != nil {
		return nil, 0, meshErrorf(opHermFit, err)
	}

	// residual of the constrained solution against the complex system
	vs := tf.columns(nFixed, slot.order)
	fit, err := linalg.MulComplex(vs, x)
	if err != nil {
		return nil, 0, meshErrorf(opHermFit, err)
	}
	res := 0.0
	for i, f := range fit.Data {
		d := cmplx.Abs(f - b.Data[i])
		res += d * d
	}
	residual := math.Sqrt(res / float64(len(b.Data)))

	return assemble(known, x, nFixed, slot.order, g.Cols, wmax), residual, nil
}

// solveHermitian returns the scaled unknowns x (p × d²).
func solveHermitian(slot *tailSlot, b *ndarray.Matrix, d int) (*ndarray.Matrix, error) {
	m := b.Rows
	_, p := slot.diag.Dims()
	x := ndarray.NewMatrix(p, d*d)

	// diagonal entries
	bd := mat.NewDense(2*m, d, nil)
	for a := 0; a < d; a++ {
		for i := 0; i < m; i++ {
			z := b.At(i, a*d+a)
			bd.Set(i, a, real(z))
			bd.Set(i+m, a, imag(z))
		}
	}
	xd, _, err := slot.diag.SolveReal(bd)
	if err != nil {
		return nil, err
	}
	for a := 0; a < d; a++ {
		for k := 0; k < p; k++ {
			x.Data[k*d*d+a*d+a] = complex(xd.At(k, a), 0)
		}
	}

	// off-diagonal pairs a < c
	nPairs := d * (d - 1) / 2
	if nPairs == 0 {
		return x, nil
	}
	bo := mat.NewDense(4*m, nPairs, nil)
	col := 0
	for a := 0; a < d; a++ {
		for c := a + 1; c < d; c++ {
			for i := 0; i < m; i++ {
				zac, zca := b.At(i, a*d+c), b.At(i, c*d+a)
				bo.Set(i, col, real(zac))
				bo.Set(i+m, col, imag(zac))
				bo.Set(i+2*m, col, real(zca))
				bo.Set(i+3*m, col, imag(zca))
			}
			col++
		}
	}
	xo, _, err := slot.ls.SolveReal(bo)
	if err != nil {
		return nil, err
	}
	col = 0
	for a := 0; a < d; a++ {
		for c := a + 1; c < d; c++ {
			for k := 0; k < p; k++ {
				z := complex(xo.At(k, col), xo.At(k+p, col))
				x.Data[k*d*d+a*d+c] = z
				x.Data[k*d*d+c*d+a] = cmplx.Conj(z)
			}
			col++
		}
	}

	return x, nil
}
