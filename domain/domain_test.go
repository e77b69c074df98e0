package domain_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/gfmesh/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStatistic_Combine checks the product rules of particle statistics.
func TestStatistic_Combine(t *testing.T) {
	assert.Equal(t, domain.Boson, domain.Fermion.Combine(domain.Fermion))
	assert.Equal(t, domain.Fermion, domain.Fermion.Combine(domain.Boson))
	assert.Equal(t, domain.Fermion, domain.Boson.Combine(domain.Fermion))
	assert.Equal(t, domain.Boson, domain.Boson.Combine(domain.Boson))
	assert.Equal(t, -1, domain.Fermion.Sign())
	assert.Equal(t, 1, domain.Boson.Sign())
}

// TestStatistic_ParseRoundTrip verifies the persisted single-letter tags.
func TestStatistic_ParseRoundTrip(t *testing.T) {
	for _, s := range []domain.Statistic{domain.Boson, domain.Fermion} {
		got, err := domain.ParseStatistic(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := domain.ParseStatistic("X")
	assert.ErrorIs(t, err, domain.ErrUnknownStatistic)
}

// TestMatsubaraFreq_Arithmetic checks that index arithmetic matches
// the complex values.
func TestMatsubaraFreq_Arithmetic(t *testing.T) {
	beta := 2.5
	a := domain.NewMatsubaraFreq(3, beta, domain.Fermion)
	b := domain.NewMatsubaraFreq(-2, beta, domain.Fermion)
	c := domain.NewMatsubaraFreq(4, beta, domain.Boson)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, domain.Boson, sum.Stat)
	assert.InDelta(t, imag(a.Complex())+imag(b.Complex()), imag(sum.Complex()), 1e-12)

	diff, err := a.Sub(c)
	require.NoError(t, err)
	assert.Equal(t, domain.Fermion, diff.Stat)
	assert.InDelta(t, imag(a.Complex())-imag(c.Complex()), imag(diff.Complex()), 1e-12)

	assert.InDelta(t, -imag(a.Complex()), imag(a.Neg().Complex()), 1e-12)

	_, err = a.Add(domain.NewMatsubaraFreq(0, 1.0, domain.Fermion))
	assert.ErrorIs(t, err, domain.ErrBetaMismatch)
}

// TestBrillouinZone_Reciprocal verifies a_i·b_j = 2π δ_ij.
func TestBrillouinZone_Reciprocal(t *testing.T) {
	bl, err := domain.NewBravaisLattice([][]float64{{1, 0}, {0.5, math.Sqrt(3) / 2}})
	require.NoError(t, err)
	bz, err := domain.NewBrillouinZone(bl)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			dot := 0.0
			for k := 0; k < 3; k++ {
				dot += bl.Units[i][k] * bz.Units[j][k]
			}
			want := 0.0
			if i == j {
				want = 2 * math.Pi
			}
			assert.InDelta(t, want, dot, 1e-12, "a_%d·b_%d", i, j)
		}
	}

	_, err = domain.NewBravaisLattice([][]float64{{1, 1}, {2, 2}})
	assert.ErrorIs(t, err, domain.ErrSingularLattice)
}
