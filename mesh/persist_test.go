package mesh_test

import (
	"path/filepath"
	"testing"

	"github.com/katalvlaran/gfmesh/archive"
	"github.com/katalvlaran/gfmesh/dlr"
	"github.com/katalvlaran/gfmesh/domain"
	"github.com/katalvlaran/gfmesh/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func archives(t *testing.T) map[string]archive.Group {
	t.Helper()
	f, err := archive.OpenBolt(filepath.Join(t.TempDir(), "mesh.gfa"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	return map[string]archive.Group{"memory": archive.NewMemory(), "bolt": f.Root()}
}

// sampleMeshes returns one mesh of every kind.
func sampleMeshes(t *testing.T) map[string]mesh.Mesh {
	t.Helper()
	must := func(m mesh.Mesh, err error) mesh.Mesh {
		t.Helper()
		require.NoError(t, err)
		return m
	}
	bl, err := domain.NewBravaisLattice([][]float64{{1, 0.5}, {0, 1}})
	require.NoError(t, err)
	bz, err := domain.NewBrillouinZone(bl)
	require.NoError(t, err)
	tau := must(mesh.NewImTime(5, domain.Boson, 11))
	iw := must(mesh.NewImFreq(5, domain.Fermion, 6, mesh.AllFrequencies))

	return map[string]mesh.Mesh{
		"imtime":    tau,
		"retime":    must(mesh.NewReTime(-2, 3, 21)),
		"refreq":    must(mesh.NewReFreq(-4, 4, 33)),
		"legendre":  must(mesh.NewLegendre(5, domain.Fermion, 8)),
		"imfreq":    iw,
		"imfreqpos": must(mesh.NewImFreq(5, domain.Boson, 4, mesh.PositiveFrequenciesOnly)),
		"cyclat":    must(mesh.NewCyclicLattice(bl, [3]int{3, 2, 1})),
		"brzone":    must(mesh.NewBrillouinZone(bz, [3]int{4, 4, 1})),
		"dlr":       must(mesh.NewDLR(5, domain.Fermion, 2, 1e-8)),
		"dlrimtime": must(mesh.NewDLRImTime(5, domain.Boson, 2, 1e-8, dlr.WithSymmetrize())),
		"dlrimfreq": must(mesh.NewDLRImFreq(5, domain.Fermion, 2, 1e-8)),
		"prod":      must(mesh.NewProd(tau, iw)),
	}
}

func TestPersist_RoundTrip(t *testing.T) {
	meshes := sampleMeshes(t)
	for backend, root := range archives(t) {
		for name, m := range meshes {
			t.Run(backend+"/"+name, func(t *testing.T) {
				require.NoError(t, mesh.Write(root, name, m))
				back, err := mesh.Read(root, name)
				require.NoError(t, err)
				assert.Equal(t, m.Kind(), back.Kind())
				assert.True(t, m.Equal(back), "%s vs %s", m, back)
				assert.Equal(t, m.MeshHash(), back.MeshHash())
			})
		}
	}
}

func TestPersist_DLRFreqBitIdentical(t *testing.T) {
	m, err := mesh.NewDLRImFreq(8, domain.Fermion, 3, 1e-10)
	require.NoError(t, err)
	root := archive.NewMemory()
	require.NoError(t, mesh.Write(root, "m", m))

	back, err := mesh.ReadAs[*mesh.DLRImFreq](root, "m")
	require.NoError(t, err)
	assert.Equal(t, m.Basis().Freq(), back.Basis().Freq())
	assert.Equal(t, m.Basis().ImFreq().Nodes(), back.Basis().ImFreq().Nodes())
	assert.Equal(t, m.Basis().ImTime().Nodes(), back.Basis().ImTime().Nodes())
	assert.Equal(t, m.Basis().Checksum(), back.Basis().Checksum())
}

func TestPersist_FormatMismatch(t *testing.T) {
	root := archive.NewMemory()
	tau, err := mesh.NewImTime(1, domain.Fermion, 4)
	require.NoError(t, err)
	require.NoError(t, mesh.Write(root, "tau", tau))

	_, err = mesh.ReadAs[*mesh.ImFreq](root, "tau")
	assert.ErrorIs(t, err, archive.ErrFormatMismatch)
	got, err := mesh.ReadAs[*mesh.ImTime](root, "tau")
	require.NoError(t, err)
	assert.True(t, got.Equal(tau))

	_, err = mesh.Read(root, "missing")
	assert.ErrorIs(t, err, archive.ErrNotFound)

	g, err := root.CreateGroup("bogus")
	require.NoError(t, err)
	require.NoError(t, archive.WriteFormat(g, "Gf"))
	_, err = mesh.Read(root, "bogus")
	assert.ErrorIs(t, err, archive.ErrFormatMismatch)
}

func TestPersist_LegacyKeys(t *testing.T) {
	root := archive.NewMemory()

	// ImFreq with start_at_0
	g, err := root.CreateGroup("iw")
	require.NoError(t, err)
	require.NoError(t, archive.WriteFormat(g, mesh.KindImFreq.FormatTag()))
	require.NoError(t, g.WriteFloat("beta", 2))
	require.NoError(t, g.WriteString("statistic", "F"))
	require.NoError(t, g.WriteInt("size", 7))
	require.NoError(t, g.WriteInt("start_at_0", 1))
	iw, err := mesh.ReadAs[*mesh.ImFreq](root, "iw")
	require.NoError(t, err)
	assert.True(t, iw.PositiveOnly())
	assert.Equal(t, 7, iw.Size())

	// cyclic lattice with a diagonal periodization matrix
	g, err = root.CreateGroup("lat")
	require.NoError(t, err)
	require.NoError(t, archive.WriteFormat(g, mesh.KindCyclicLattice.FormatTag()))
	require.NoError(t, g.WriteInts("periodization_matrix", []int{2, 0, 0, 0, 3, 0, 0, 0, 1}))
	lg, err := g.CreateGroup("bravais_lattice")
	require.NoError(t, err)
	require.NoError(t, lg.WriteFloats("units", []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}))
	require.NoError(t, lg.WriteInt("ndim", 2))
	lat, err := mesh.ReadAs[*mesh.CyclicLattice](root, "lat")
	require.NoError(t, err)
	assert.Equal(t, [3]int{2, 3, 1}, lat.Dims())

	require.NoError(t, g.WriteInts("periodization_matrix", []int{2, 1, 0, 0, 3, 0, 0, 0, 1}))
	_, err = mesh.Read(root, "lat")
	assert.ErrorIs(t, err, mesh.ErrNonDiagonalPeriodization)
}

// TestPersist_LegacyLambda stores the cutoff under the old Λ = β·w_max key.
func TestPersist_LegacyLambda(t *testing.T) {
	m, err := mesh.NewDLR(4, domain.Fermion, 2.5, 1e-8)
	require.NoError(t, err)
	root := archive.NewMemory()
	require.NoError(t, mesh.Write(root, "src", m))
	src, err := root.OpenGroup("src")
	require.NoError(t, err)

	dst, err := root.CreateGroup("legacy")
	require.NoError(t, err)
	require.NoError(t, archive.WriteFormat(dst, m.FormatTag()))
	require.NoError(t, dst.WriteFloat("beta", 4))
	require.NoError(t, dst.WriteString("statistic", "F"))
	require.NoError(t, dst.WriteFloat("Lambda", 10))
	require.NoError(t, dst.WriteFloat("eps", 1e-8))
	freq, err := src.ReadFloats("dlr_freq")
	require.NoError(t, err)
	require.NoError(t, dst.WriteFloats("dlr_freq", freq))
	for _, sub := range []string{"dlr_it", "dlr_if"} {
		sg, err := src.OpenGroup(sub)
		require.NoError(t, err)
		dg, err := dst.CreateGroup(sub)
		require.NoError(t, err)
		if sub == "dlr_it" {
			nodes, err := sg.ReadFloats("nodes")
			require.NoError(t, err)
			require.NoError(t, dg.WriteFloats("nodes", nodes))
			mat, err := sg.ReadFloats("matrix")
			require.NoError(t, err)
			require.NoError(t, dg.WriteFloats("matrix", mat))
			continue
		}
		nodes, err := sg.ReadInts("nodes")
		require.NoError(t, err)
		require.NoError(t, dg.WriteInts("nodes", nodes))
		mat, err := sg.ReadComplexes("matrix")
		require.NoError(t, err)
		require.NoError(t, dg.WriteComplexes("matrix", mat))
	}

	back, err := mesh.ReadAs[*mesh.DLR](root, "legacy")
	require.NoError(t, err)
	assert.InDelta(t, 2.5, back.WMax(), 1e-15)
	assert.False(t, back.Basis().Symmetrized())
	assert.True(t, back.Equal(m))
}
