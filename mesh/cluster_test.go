package mesh_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/gfmesh/domain"
	"github.com/katalvlaran/gfmesh/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCyclicLattice_Indexing(t *testing.T) {
	m, err := mesh.NewSquareCyclicLattice(2, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, 24, m.Size())
	assertBijection(t, m)

	d, err := m.ToDataIndex(mesh.Index3{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 1*12+2*4+3, d)

	_, err = m.ToDataIndex(mesh.Index3{2, 0, 0})
	assert.ErrorIs(t, err, mesh.ErrIndexOutOfRange)
	assert.Equal(t, mesh.Index3{0, 2, 1}, m.IndexModulo(mesh.Index3{2, -1, 5}))

	assert.Equal(t, domain.Vec3{1, 2, 3}, m.ToValue(mesh.Index3{1, 2, 3}))
	assert.Equal(t, mesh.Index3{1, 0, 3}, m.ClosestIndex(domain.Vec3{1.2, 2.9, -0.8}))

	d, err = m.DataIndexOf(mesh.ClosestTo(domain.Vec3{0.1, 1.1, 2.2}))
	require.NoError(t, err)
	assert.Equal(t, 0*12+1*4+2, d)

	_, err = m.DataIndexOf(1.5)
	assert.ErrorIs(t, err, mesh.ErrIndexType)

	var p mesh.PeriodizationMatrix
	p[0][0], p[1][1], p[2][2] = 2, 3, 4
	assert.Equal(t, p, m.PeriodizationMatrix())
}

func TestCyclicLattice_Points(t *testing.T) {
	m, err := mesh.NewSquareCyclicLattice(2, 2, 1)
	require.NoError(t, err)
	var got []mesh.Index3
	for p := range m.Points() {
		assert.Equal(t, m.MeshHash(), p.MeshHash)
		assert.Equal(t, len(got), p.DataIndex)
		got = append(got, p.Index)
	}
	assert.Equal(t, []mesh.Index3{{0, 0, 0}, {0, 1, 0}, {1, 0, 0}, {1, 1, 0}}, got)
}

func TestCyclicLattice_Periodization(t *testing.T) {
	bl := domain.SquareLattice(2)
	var p mesh.PeriodizationMatrix
	p[0][0], p[1][1], p[2][2] = 4, 4, 1
	m, err := mesh.NewCyclicLatticeFromPeriodization(bl, p)
	require.NoError(t, err)
	want, err := mesh.NewCyclicLattice(bl, [3]int{4, 4, 1})
	require.NoError(t, err)
	assert.True(t, m.Equal(want))
	assert.Equal(t, want.MeshHash(), m.MeshHash())

	p[0][1] = 1
	_, err = mesh.NewCyclicLatticeFromPeriodization(bl, p)
	assert.ErrorIs(t, err, mesh.ErrNonDiagonalPeriodization)

	_, err = mesh.NewCyclicLattice(bl, [3]int{4, 0, 1})
	assert.ErrorIs(t, err, mesh.ErrInvalidMesh)
}

func TestBrillouinZone(t *testing.T) {
	bl, err := domain.NewBravaisLattice([][]float64{{1, 0}, {0, 2}})
	require.NoError(t, err)
	bz, err := domain.NewBrillouinZone(bl)
	require.NoError(t, err)

	m, err := mesh.NewBrillouinZone(bz, [3]int{4, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, 8, m.Size())
	assertBijection(t, m)

	// k = n_0·b_0/4 + n_1·b_1/2 with b_0 = (2π, 0), b_1 = (0, π)
	k := m.ToValue(mesh.Index3{1, 1, 0})
	assert.InDelta(t, math.Pi/2, k[0], 1e-12)
	assert.InDelta(t, math.Pi/2, k[1], 1e-12)
	assert.Equal(t, mesh.Index3{3, 0, 0}, m.ClosestIndex(domain.Vec3{-math.Pi / 2, 0.1, 0}))

	lat, err := mesh.NewCyclicLattice(bl, [3]int{4, 2, 1})
	require.NoError(t, err)
	assert.False(t, m.Equal(lat))
	assert.NotEqual(t, lat.MeshHash(), m.MeshHash())
	assert.True(t, m.Zone().Equal(bz))
}
