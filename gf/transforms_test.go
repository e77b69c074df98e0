package gf_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/katalvlaran/gfmesh/domain"
	"github.com/katalvlaran/gfmesh/gf"
	"github.com/katalvlaran/gfmesh/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	beta = 10.0
	wMax = 2.0
	eps  = 1e-10
)

// poleTau is the fermionic single-pole G(τ) = -e^{-ετ}/(1+e^{-βε}).
func poleTau(e, tau float64) float64 {
	return -math.Exp(-e*tau) / (1 + math.Exp(-beta*e))
}

// poleIw is its Matsubara transform 1/(iν - ε).
func poleIw(e float64, w domain.MatsubaraFreq) complex128 {
	return 1 / (w.Complex() - complex(e, 0))
}

// nodeGf samples poles (one per target element) on the DLR τ nodes.
func nodeGf(t *testing.T, poles ...float64) *gf.Gf {
	t.Helper()
	m, err := mesh.NewDLRImTime(beta, domain.Fermion, wMax, eps)
	require.NoError(t, err)
	g, err := gf.New(m, len(poles))
	require.NoError(t, err)
	require.NoError(t, g.Fill(func(d int) []complex128 {
		out := make([]complex128, len(poles))
		for k, e := range poles {
			out[k] = complex(poleTau(e, m.ToValue(d)), 0)
		}
		return out
	}))

	return g
}

func maxDiff(t *testing.T, a, b *gf.Gf) float64 {
	t.Helper()
	require.Equal(t, a.Data().Shape(), b.Data().Shape())
	m := 0.0
	for i, v := range a.Data().Data() {
		m = math.Max(m, cmplx.Abs(v-b.Data().Data()[i]))
	}

	return m
}

func TestMakeGfDLR_RoundTrip(t *testing.T) {
	g := nodeGf(t, 0.5, -1.2)
	c, err := gf.MakeGfDLR(g)
	require.NoError(t, err)
	dm, ok := c.Mesh().(*mesh.DLR)
	require.True(t, ok)
	assert.Same(t, g.Mesh().(*mesh.DLRImTime).Basis(), dm.Basis())

	back, err := gf.MakeGfDLRImTime(c)
	require.NoError(t, err)
	assert.True(t, mesh.Compatible(g.Mesh(), back.Mesh()))
	assert.Less(t, maxDiff(t, g, back), 1e-11)

	// frequency nodes and back to coefficients
	iw, err := gf.MakeGfDLRImFreq(c)
	require.NoError(t, err)
	nodes := iw.Mesh().(*mesh.DLRImFreq)
	for d := 0; d < nodes.Size(); d++ {
		v, err := iw.At(d)
		require.NoError(t, err)
		assert.InDelta(t, 0, cmplx.Abs(v[0]-poleIw(0.5, nodes.ToValue(d))), 1e-8)
	}
	// Coefficients are only fixed to about eps·cond, so compare node values.
	c2, err := gf.MakeGfDLR(iw)
	require.NoError(t, err)
	back2, err := gf.MakeGfDLRImTime(c2)
	require.NoError(t, err)
	assert.Less(t, maxDiff(t, g, back2), 1e-11)
}

func TestMakeGfImTimeImFreq(t *testing.T) {
	c, err := gf.MakeGfDLR(nodeGf(t, 0.5))
	require.NoError(t, err)

	tau, err := gf.MakeGfImTime(c, 101)
	require.NoError(t, err)
	tm := tau.Mesh().(*mesh.ImTime)
	assert.Equal(t, 101, tm.Size())
	for d := 0; d < tm.Size(); d++ {
		v, _ := tau.At(d)
		assert.InDelta(t, poleTau(0.5, tm.ToValue(d)), real(v[0]), 1e-8, "tau=%g", tm.ToValue(d))
	}

	iw, err := gf.MakeGfImFreq(c, 64)
	require.NoError(t, err)
	fm := iw.Mesh().(*mesh.ImFreq)
	assert.Equal(t, 128, fm.Size())
	for d := 0; d < fm.Size(); d++ {
		v, _ := iw.At(d)
		assert.InDelta(t, 0, cmplx.Abs(v[0]-poleIw(0.5, fm.ValueAt(d))), 1e-8)
	}

	// arbitrary-point evaluation of the coefficient Gf agrees
	v, err := gf.Evaluate(c, 3.3)
	require.NoError(t, err)
	assert.InDelta(t, poleTau(0.5, 3.3), real(v[0]), 1e-8)
	w := domain.NewMatsubaraFreq(1000, beta, domain.Fermion)
	v, err = gf.Evaluate(c, w)
	require.NoError(t, err)
	assert.InDelta(t, 0, cmplx.Abs(v[0]-poleIw(0.5, w)), 1e-8)
}

// TestRepresentationEquivalence compares the generic kernel sum with the
// node operator at every DLR node.
func TestRepresentationEquivalence(t *testing.T) {
	g := nodeGf(t, 0.7)
	c, err := gf.MakeGfDLR(g)
	require.NoError(t, err)
	nodes := g.Mesh().(*mesh.DLRImTime)
	for d := 0; d < nodes.Size(); d++ {
		v, err := gf.Evaluate(c, nodes.ToValue(d))
		require.NoError(t, err)
		want, _ := g.At(nodes.ClosestNode(nodes.ToValue(d)))
		assert.InDelta(t, real(want[0]), real(v[0]), 1e-10)
	}
}

func TestFitGfDLR(t *testing.T) {
	m, err := mesh.NewImTime(beta, domain.Fermion, 201)
	require.NoError(t, err)
	g, err := gf.New(m)
	require.NoError(t, err)
	require.NoError(t, g.Fill(func(d int) []complex128 {
		return []complex128{complex(poleTau(-0.3, m.ToValue(d)), 0)}
	}))

	c, err := gf.FitGfDLR(g, wMax, eps)
	require.NoError(t, err)
	assert.Equal(t, mesh.KindDLR, c.Mesh().Kind())
	for _, tau := range []float64{0, 1.7, 5, 9.99, beta} {
		v, err := gf.Evaluate(c, tau)
		require.NoError(t, err)
		assert.InDelta(t, poleTau(-0.3, tau), real(v[0]), 1e-8, "tau=%g", tau)
	}

	_, err = gf.FitGfDLR(nodeGf(t, 0.1), wMax, eps)
	assert.ErrorIs(t, err, gf.ErrMeshKind)
}

func TestTransforms_MeshKind(t *testing.T) {
	m, err := mesh.NewImTime(beta, domain.Fermion, 5)
	require.NoError(t, err)
	g, err := gf.New(m)
	require.NoError(t, err)

	_, err = gf.MakeGfDLR(g)
	assert.ErrorIs(t, err, gf.ErrMeshKind)
	_, err = gf.MakeGfDLRImTime(g)
	assert.ErrorIs(t, err, gf.ErrMeshKind)
	_, err = gf.MakeGfDLRImFreq(g)
	assert.ErrorIs(t, err, gf.ErrMeshKind)
	_, err = gf.MakeGfImTime(g, 10)
	assert.ErrorIs(t, err, gf.ErrMeshKind)
	_, err = gf.MakeGfImFreq(g, 10)
	assert.ErrorIs(t, err, gf.ErrMeshKind)
	_, err = gf.MakeGfDLRAxes(g, 1)
	assert.ErrorIs(t, err, gf.ErrAxis)
}

func TestTransforms_ProdAxes(t *testing.T) {
	poles := []float64{0.5, -0.25}
	it, err := mesh.NewDLRImTime(beta, domain.Fermion, wMax, eps)
	require.NoError(t, err)
	k, err := mesh.NewSquareCyclicLattice(len(poles), 1, 1)
	require.NoError(t, err)
	p, err := mesh.NewProd(k, it)
	require.NoError(t, err)
	g, err := gf.New(p)
	require.NoError(t, err)
	require.NoError(t, g.Fill(func(d int) []complex128 {
		ds, _ := p.SplitDataIndex(d)
		return []complex128{complex(poleTau(poles[ds[0]], it.ToValue(ds[1])), 0)}
	}))

	c, err := gf.MakeGfDLRAxes(g, 1)
	require.NoError(t, err)
	cp := c.Mesh().(*mesh.Prod)
	assert.Equal(t, mesh.KindCyclicLattice, cp.Component(0).Kind())
	assert.Equal(t, mesh.KindDLR, cp.Component(1).Kind())

	iw, err := gf.MakeGfImFreqAxes(c, 20, 1)
	require.NoError(t, err)
	ip := iw.Mesh().(*mesh.Prod)
	fm := ip.Component(1).(*mesh.ImFreq)
	for d := 0; d < ip.Size(); d++ {
		ds, _ := ip.SplitDataIndex(d)
		v, _ := iw.At(d)
		assert.InDelta(t, 0, cmplx.Abs(v[0]-poleIw(poles[ds[0]], fm.ValueAt(ds[1]))), 1e-8)
	}

	_, err = gf.MakeGfDLRAxes(g, 0)
	assert.ErrorIs(t, err, gf.ErrMeshKind)
	_, err = gf.MakeGfDLRAxes(g, 2)
	assert.ErrorIs(t, err, gf.ErrAxis)
}

// TestTransforms_MultiAxis transforms two DLR axes left to right.
func TestTransforms_MultiAxis(t *testing.T) {
	it, err := mesh.NewDLRImTime(beta, domain.Fermion, wMax, eps)
	require.NoError(t, err)
	p, err := mesh.NewProd(it, it)
	require.NoError(t, err)
	g, err := gf.New(p)
	require.NoError(t, err)
	require.NoError(t, g.Fill(func(d int) []complex128 {
		ds, _ := p.SplitDataIndex(d)
		return []complex128{complex(poleTau(0.5, it.ToValue(ds[0]))*poleTau(-0.5, it.ToValue(ds[1])), 0)}
	}))

	c, err := gf.MakeGfDLRAxes(g, 0, 1)
	require.NoError(t, err)
	cp := c.Mesh().(*mesh.Prod)
	assert.Equal(t, mesh.KindDLR, cp.Component(0).Kind())
	assert.Equal(t, mesh.KindDLR, cp.Component(1).Kind())

	back, err := gf.MakeGfDLRImTimeAxes(c, 1, 0)
	require.NoError(t, err)
	assert.True(t, back.Mesh().Equal(p))
	assert.Less(t, maxDiff(t, g, back), 1e-11)
}

func TestTransforms_Block(t *testing.T) {
	up, dn := nodeGf(t, 0.5), nodeGf(t, -0.5)
	b, err := gf.NewBlock([]string{"up", "dn"}, []*gf.Gf{up, dn})
	require.NoError(t, err)

	c, err := gf.MakeGfDLRBlock(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"up", "dn"}, c.Names())
	back, err := gf.MakeGfDLRImTimeBlock(c)
	require.NoError(t, err)
	assert.Less(t, maxDiff(t, dn, back.ByName("dn")), 1e-12)
	assert.Nil(t, back.ByName("x"))

	// the second member fails; the first stays transformed
	mixed, err := gf.NewBlock([]string{"a", "b"}, []*gf.Gf{c.Member(0), up})
	require.NoError(t, err)
	partial, err := gf.MakeGfDLRImTimeBlock(mixed)
	assert.ErrorIs(t, err, gf.ErrMeshKind)
	assert.ErrorContains(t, err, `block "b"`)
	require.Equal(t, 1, partial.Len())
	assert.Equal(t, mesh.KindDLRImTime, partial.Member(0).Mesh().Kind())

	_, err = gf.NewBlock([]string{"a", "a"}, []*gf.Gf{up, dn})
	assert.ErrorIs(t, err, gf.ErrBlock)
	_, err = gf.NewBlock([]string{"a"}, []*gf.Gf{up, dn})
	assert.ErrorIs(t, err, gf.ErrBlock)
}

func TestDensityFromDLR(t *testing.T) {
	c, err := gf.MakeGfDLR(nodeGf(t, 0.5, -0.5))
	require.NoError(t, err)
	n, err := gf.DensityFromDLR(c)
	require.NoError(t, err)
	assert.InDelta(t, 1/(math.Exp(beta*0.5)+1), real(n[0]), 1e-10)
	assert.InDelta(t, 1/(math.Exp(-beta*0.5)+1), real(n[1]), 1e-10)

	_, err = gf.DensityFromDLR(nodeGf(t, 0.5))
	assert.ErrorIs(t, err, gf.ErrMeshKind)
}
