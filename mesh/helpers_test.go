package mesh_test

import (
	"testing"

	"github.com/katalvlaran/gfmesh/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertBijection checks to_index ∘ to_data_index = id in both directions.
func assertBijection(t *testing.T, m mesh.Mesh) {
	t.Helper()
	for d := 0; d < m.Size(); d++ {
		idx, err := m.IndexOf(d)
		require.NoError(t, err, "%s: IndexOf(%d)", m, d)
		back, err := m.DataIndexOf(idx)
		require.NoError(t, err, "%s: DataIndexOf(%v)", m, idx)
		assert.Equal(t, d, back, "%s: data index %d", m, d)
	}
	_, err := m.IndexOf(m.Size())
	assert.ErrorIs(t, err, mesh.ErrIndexOutOfRange)
	_, err = m.IndexOf(-1)
	assert.ErrorIs(t, err, mesh.ErrIndexOutOfRange)
}
