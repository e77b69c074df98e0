package mesh_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/katalvlaran/gfmesh/dlr"
	"github.com/katalvlaran/gfmesh/domain"
	"github.com/katalvlaran/gfmesh/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDLR(t *testing.T, stat domain.Statistic) *mesh.DLR {
	t.Helper()
	m, err := mesh.NewDLR(10, stat, 2, 1e-10)
	require.NoError(t, err)

	return m
}

func TestDLR_SharedBasis(t *testing.T) {
	m := newDLR(t, domain.Fermion)
	it, iw := m.ImTime(), m.ImFreq()

	assert.Same(t, m.Basis(), it.Basis())
	assert.Same(t, m.Basis(), iw.Basis())
	assert.Same(t, m.Basis(), it.ImFreq().Coefficients().Basis())
	assert.Equal(t, m.Rank(), it.Size())
	assert.Equal(t, m.Rank(), iw.Size())
	assert.InDelta(t, 20, m.Lambda(), 1e-15)

	again, err := mesh.NewDLRImTime(10, domain.Fermion, 2, 1e-10)
	require.NoError(t, err)
	assert.Same(t, m.Basis(), again.Basis())
	assert.True(t, again.Equal(it))
	assert.Equal(t, it.MeshHash(), again.MeshHash())

	// same parameters, different façade
	assert.False(t, m.Equal(it))
	assert.NotEqual(t, m.MeshHash(), it.MeshHash())
	assert.NotEqual(t, it.MeshHash(), iw.MeshHash())
	assert.False(t, mesh.Compatible(m, it))
}

// TestDLR_GoldenRank pins the rank for β=10, w_max=1, ε=1e-10.
func TestDLR_GoldenRank(t *testing.T) {
	for _, stat := range []domain.Statistic{domain.Fermion, domain.Boson} {
		m, err := mesh.NewDLR(10, stat, 1, 1e-10)
		require.NoError(t, err)
		assert.Equal(t, 15, m.Size(), stat.String())
	}
}

// TestDLR_SymmetrizedEquality keeps Equal in step with the hash when only the
// node selection differs.
func TestDLR_SymmetrizedEquality(t *testing.T) {
	plain := newDLR(t, domain.Fermion)
	sym, err := mesh.NewDLR(10, domain.Fermion, 2, 1e-10, dlr.WithSymmetrize())
	require.NoError(t, err)
	require.NotEqual(t, plain.Basis().Checksum(), sym.Basis().Checksum())

	assert.False(t, plain.Equal(sym))
	assert.False(t, sym.ImTime().Equal(plain.ImTime()))
	assert.False(t, mesh.Compatible(plain, sym))
	assert.Equal(t, plain.Equal(sym), plain.MeshHash() == sym.MeshHash())
}

func TestDLR_Values(t *testing.T) {
	m := newDLR(t, domain.Fermion)
	it, iw := m.ImTime(), m.ImFreq()

	prev := math.Inf(-1)
	for p := range m.Points() {
		assert.Greater(t, p.Value, prev)
		assert.LessOrEqual(t, math.Abs(p.Value), m.Lambda())
		prev = p.Value
	}
	for p := range it.Points() {
		assert.GreaterOrEqual(t, p.Value, 0.0)
		assert.LessOrEqual(t, p.Value, it.Beta())
		assert.Equal(t, p.DataIndex, it.ClosestNode(p.Value))
	}
	seen := map[int]bool{}
	for p := range iw.Points() {
		assert.Equal(t, domain.Fermion, p.Value.Stat)
		assert.False(t, seen[p.Value.N], "duplicate node %d", p.Value.N)
		seen[p.Value.N] = true
	}

	for _, x := range []mesh.Mesh{m, it, iw} {
		assertBijection(t, x)
	}
}

func TestDLR_Kernels(t *testing.T) {
	m := newDLR(t, domain.Boson)

	row, err := m.KernelImTime(2.5)
	require.NoError(t, err)
	require.Len(t, row, m.Rank())
	for l, k := range row {
		assert.InDelta(t, dlr.KIt(0.25, m.ToValue(l)), k, 1e-15)
	}
	_, err = m.KernelImTime(10.5)
	assert.ErrorIs(t, err, mesh.ErrValueOutOfRange)

	w := domain.NewMatsubaraFreq(3, 10, domain.Boson)
	crow, err := m.KernelImFreq(w)
	require.NoError(t, err)
	for l, k := range crow {
		assert.Equal(t, 10*dlr.KIf(3, m.ToValue(l), domain.Boson), k)
	}
	_, err = m.KernelImFreq(domain.NewMatsubaraFreq(3, 10, domain.Fermion))
	assert.ErrorIs(t, err, domain.ErrUnknownStatistic)
	_, err = m.KernelImFreq(domain.NewMatsubaraFreq(3, 5, domain.Boson))
	assert.ErrorIs(t, err, domain.ErrBetaMismatch)
}

func TestDLR_Invalid(t *testing.T) {
	_, err := mesh.NewDLR(10, domain.Fermion, 0, 1e-10)
	assert.ErrorIs(t, err, mesh.ErrInvalidMesh)
	_, err = mesh.NewDLR(-1, domain.Fermion, 1, 1e-10)
	assert.ErrorIs(t, err, domain.ErrInvalidBeta)
	_, err = mesh.NewDLR(10, domain.Fermion, 1, 2)
	assert.ErrorIs(t, err, dlr.ErrInvalidParams)
}

// TestDLR_HashDiscrimination builds pairs with one differing parameter.
func TestDLR_HashDiscrimination(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 5; i++ {
		beta := 1 + 9*r.Float64()
		wmax := 0.5 + 2*r.Float64()
		a, err := mesh.NewDLR(beta, domain.Fermion, wmax, 1e-6)
		require.NoError(t, err)

		variants := []func() (*mesh.DLR, error){
			func() (*mesh.DLR, error) { return mesh.NewDLR(beta*1.5, domain.Fermion, wmax/1.5, 1e-6) },
			func() (*mesh.DLR, error) { return mesh.NewDLR(beta, domain.Boson, wmax, 1e-6) },
			func() (*mesh.DLR, error) { return mesh.NewDLR(beta, domain.Fermion, wmax, 1e-8) },
		}
		for j, mk := range variants {
			b, err := mk()
			require.NoError(t, err)
			assert.NotEqual(t, a.MeshHash(), b.MeshHash(), "case %d variant %d", i, j)
			assert.False(t, a.Equal(b), "case %d variant %d", i, j)
		}
	}
}
