package gf_test

import (
	"math/cmplx"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/gfmesh/archive"
	"github.com/katalvlaran/gfmesh/domain"
	"github.com/katalvlaran/gfmesh/gf"
	"github.com/katalvlaran/gfmesh/mesh"
	"github.com/katalvlaran/gfmesh/ndarray"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitTail_Scalar(t *testing.T) {
	const e = 0.5
	m, err := mesh.NewImFreq(100, domain.Fermion, 200, mesh.AllFrequencies)
	require.NoError(t, err)
	g, err := gf.New(m)
	require.NoError(t, err)
	require.NoError(t, g.Fill(func(d int) []complex128 { return []complex128{poleIw(e, m.ValueAt(d))} }))

	known, err := ndarray.FromSlice([]complex128{0, 1}, 2)
	require.NoError(t, err)
	moments, residual, err := gf.FitTail(g, known)
	require.NoError(t, err)
	require.GreaterOrEqual(t, moments.Shape()[0], 4)
	a2, _ := moments.At(2)
	a3, _ := moments.At(3)
	assert.InDelta(t, 0, cmplx.Abs(a2-e), 1e-6)
	assert.InDelta(t, 0, cmplx.Abs(a3-e*e), 1e-4)
	assert.Less(t, residual, 1e-8)

	tau, err := mesh.NewImTime(1, domain.Fermion, 4)
	require.NoError(t, err)
	h, err := gf.New(tau)
	require.NoError(t, err)
	_, _, err = gf.FitTail(h, nil)
	assert.ErrorIs(t, err, gf.ErrMeshKind)
}

// TestFitHermitianTail fits G = (iω - H)⁻¹, whose moments are 1, H, H², …
func TestFitHermitianTail(t *testing.T) {
	h := [2][2]complex128{{0.3, 0.1 - 0.2i}, {0.1 + 0.2i, -0.4}}
	m, err := mesh.NewImFreq(100, domain.Fermion, 200, mesh.AllFrequencies)
	require.NoError(t, err)
	g, err := gf.New(m, 2, 2)
	require.NoError(t, err)
	require.NoError(t, g.Fill(func(d int) []complex128 {
		z := m.ValueAt(d).Complex()
		det := (z-h[0][0])*(z-h[1][1]) - h[0][1]*h[1][0]
		return []complex128{(z - h[1][1]) / det, h[0][1] / det, h[1][0] / det, (z - h[0][0]) / det}
	}))

	known, err := ndarray.FromSlice([]complex128{0, 0, 0, 0, 1, 0, 0, 1}, 2, 2, 2)
	require.NoError(t, err)
	moments, residual, err := gf.FitHermitianTail(g, known)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			v, err := moments.At(2, i, j)
			require.NoError(t, err)
			assert.InDelta(t, 0, cmplx.Abs(v-h[i][j]), 1e-6, "H[%d][%d]", i, j)
		}
	}
	a01, _ := moments.At(2, 0, 1)
	a10, _ := moments.At(2, 1, 0)
	assert.Equal(t, cmplx.Conj(a01), a10)
	assert.Less(t, residual, 1e-8)

	scalar, err := gf.New(m, 3)
	require.NoError(t, err)
	_, _, err = gf.FitHermitianTail(scalar, nil)
	assert.ErrorIs(t, err, mesh.ErrTailHermitianShape)

	tau, err := mesh.NewImTime(1, domain.Fermion, 4)
	require.NoError(t, err)
	onTau, err := gf.New(tau, 2, 2)
	require.NoError(t, err)
	_, _, err = gf.FitHermitianTail(onTau, nil)
	assert.ErrorIs(t, err, mesh.ErrTailHermitianNeedsImFreq)
}

func TestPersistGf(t *testing.T) {
	f, err := archive.OpenBolt(filepath.Join(t.TempDir(), "gf.gfa"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	c, err := gf.MakeGfDLR(nodeGf(t, 0.5, -0.1))
	require.NoError(t, err)
	for name, root := range map[string]archive.Group{"memory": archive.NewMemory(), "bolt": f.Root()} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, gf.WriteGf(root, "g", c))
			back, err := gf.ReadGf(root, "g")
			require.NoError(t, err)
			assert.True(t, mesh.Compatible(c.Mesh(), back.Mesh()))
			assert.Equal(t, c.Data().Data(), back.Data().Data())
			assert.Equal(t, c.TargetShape(), back.TargetShape())

			b, err := gf.NewBlock([]string{"up", "dn"}, []*gf.Gf{c, c.Conj()})
			require.NoError(t, err)
			require.NoError(t, gf.WriteBlock(root, "blk", b))
			rb, err := gf.ReadBlock(root, "blk")
			require.NoError(t, err)
			assert.Equal(t, b.Names(), rb.Names())
			assert.Equal(t, c.Conj().Data().Data(), rb.ByName("dn").Data().Data())

			_, err = gf.ReadGf(root, "blk")
			assert.ErrorIs(t, err, archive.ErrFormatMismatch)
		})
	}
}
