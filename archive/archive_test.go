package archive_test

import (
	"path/filepath"
	"testing"

	"github.com/katalvlaran/gfmesh/archive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns a fresh root group for every backend.
func backends(t *testing.T) map[string]archive.Group {
	t.Helper()
	f, err := archive.OpenBolt(filepath.Join(t.TempDir(), "test.gfa"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	return map[string]archive.Group{
		"memory": archive.NewMemory(),
		"bolt":   f.Root(),
	}
}

func TestGroup_Datasets(t *testing.T) {
	for name, root := range backends(t) {
		t.Run(name, func(t *testing.T) {
			g, err := root.CreateGroup("mesh")
			require.NoError(t, err)
			assert.Equal(t, "/mesh", g.Path())

			require.NoError(t, g.WriteFloat("beta", 10.5))
			require.NoError(t, g.WriteInt("size", -3))
			require.NoError(t, g.WriteString("statistic", "F"))
			require.NoError(t, g.WriteFloats("dlr_freq", []float64{-1.25, 0, 3e-300}))
			require.NoError(t, g.WriteInts("dims", []int{2, 3, 1}))
			require.NoError(t, g.WriteComplexes("data", []complex128{1i, 2 - 1i}))
			require.NoError(t, g.WriteFloats("empty", nil))

			beta, err := g.ReadFloat("beta")
			require.NoError(t, err)
			assert.Equal(t, 10.5, beta)
			size, err := g.ReadInt("size")
			require.NoError(t, err)
			assert.Equal(t, -3, size)
			s, err := g.ReadString("statistic")
			require.NoError(t, err)
			assert.Equal(t, "F", s)
			fs, err := g.ReadFloats("dlr_freq")
			require.NoError(t, err)
			assert.Equal(t, []float64{-1.25, 0, 3e-300}, fs)
			is, err := g.ReadInts("dims")
			require.NoError(t, err)
			assert.Equal(t, []int{2, 3, 1}, is)
			cs, err := g.ReadComplexes("data")
			require.NoError(t, err)
			assert.Equal(t, []complex128{1i, 2 - 1i}, cs)
			empty, err := g.ReadFloats("empty")
			require.NoError(t, err)
			assert.Empty(t, empty)

			assert.True(t, g.Has("beta"))
			assert.False(t, g.Has("w_max"))
		})
	}
}

func TestGroup_Errors(t *testing.T) {
	for name, root := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, root.WriteInt("n", 1))

			_, err := root.ReadFloat("n")
			assert.ErrorIs(t, err, archive.ErrTypeMismatch)
			_, err = root.ReadInt("missing")
			assert.ErrorIs(t, err, archive.ErrNotFound)
			_, err = root.OpenGroup("missing")
			assert.ErrorIs(t, err, archive.ErrNotFound)
			_, err = root.CreateGroup("n")
			assert.ErrorIs(t, err, archive.ErrKeyConflict)
			assert.ErrorIs(t, root.WriteInt("", 1), archive.ErrEmptyKey)

			sub, err := root.CreateGroup("sub")
			require.NoError(t, err)
			assert.ErrorIs(t, root.WriteInt("sub", 2), archive.ErrKeyConflict)
			nested, err := sub.CreateGroup("inner")
			require.NoError(t, err)
			assert.Equal(t, "/sub/inner", nested.Path())
			again, err := root.OpenGroup("sub")
			require.NoError(t, err)
			assert.True(t, again.Has("inner"))
		})
	}
}

func TestAssertFormat(t *testing.T) {
	for name, root := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, archive.WriteFormat(root, "MeshImFreq"))
			require.NoError(t, archive.AssertFormat(root, "MeshImFreq"))

			err := archive.AssertFormat(root, "MeshImTime")
			require.ErrorIs(t, err, archive.ErrFormatMismatch)
			assert.Contains(t, err.Error(), `"MeshImFreq"`)
			assert.Contains(t, err.Error(), `"MeshImTime"`)
		})
	}
}

// TestBolt_Reopen checks that data survives closing the file.
func TestBolt_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.gfa")
	f, err := archive.OpenBolt(path)
	require.NoError(t, err)
	g, err := f.Root().CreateGroup("g")
	require.NoError(t, err)
	require.NoError(t, g.WriteFloats("x", []float64{1, 2}))
	require.NoError(t, f.Close())

	ro, err := archive.OpenBoltReadOnly(path)
	require.NoError(t, err)
	defer ro.Close()
	g, err = ro.Root().OpenGroup("g")
	require.NoError(t, err)
	x, err := g.ReadFloats("x")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, x)

	_, err = archive.OpenBoltReadOnly(filepath.Join(t.TempDir(), "absent.gfa"))
	assert.Error(t, err)
}
