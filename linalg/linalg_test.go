package linalg_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/katalvlaran/gfmesh/linalg"
	"github.com/katalvlaran/gfmesh/ndarray"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func complexMatrix(rows, cols int, f func(i, j int) complex128) *ndarray.Matrix {
	m := ndarray.NewMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Data[i*cols+j] = f(i, j)
		}
	}

	return m
}

func assertMatrixClose(t *testing.T, want, got *ndarray.Matrix, tol float64) {
	t.Helper()
	require.Equal(t, want.Rows, got.Rows)
	require.Equal(t, want.Cols, got.Cols)
	for i := range want.Data {
		assert.InDelta(t, 0, cmplx.Abs(want.Data[i]-got.Data[i]), tol, "entry %d", i)
	}
}

// TestLU_SolveComplexRHS solves a real system with a complex right-hand side.
func TestLU_SolveComplexRHS(t *testing.T) {
	a := mat.NewDense(3, 3, []float64{4, 1, 0, 1, 3, 1, 0, 1, 2})
	lu, err := linalg.NewLU(a)
	require.NoError(t, err)

	x := complexMatrix(3, 2, func(i, j int) complex128 { return complex(float64(i+1), float64(j-i)) })
	b, err := linalg.MulReal(a, x)
	require.NoError(t, err)

	got, err := lu.Solve(b)
	require.NoError(t, err)
	assertMatrixClose(t, x, got, 1e-12)
}

// TestLU_Errors covers non-square and singular inputs.
func TestLU_Errors(t *testing.T) {
	_, err := linalg.NewLU(mat.NewDense(2, 3, nil))
	assert.ErrorIs(t, err, linalg.ErrNonSquare)

	_, err = linalg.NewLU(mat.NewDense(2, 2, []float64{1, 2, 2, 4}))
	assert.ErrorIs(t, err, linalg.ErrSingular)
}

// TestComplexLU_Solve checks the real-embedding solver.
func TestComplexLU_Solve(t *testing.T) {
	a := complexMatrix(3, 3, func(i, j int) complex128 {
		if i == j {
			return complex(3, 1)
		}
		return complex(0.5, -0.25*float64(i-j))
	})
	lu, err := linalg.NewComplexLU(a)
	require.NoError(t, err)

	x := complexMatrix(3, 1, func(i, _ int) complex128 { return complex(1, float64(i)) })
	b, err := linalg.MulComplex(a, x)
	require.NoError(t, err)
	got, err := lu.Solve(b)
	require.NoError(t, err)
	assertMatrixClose(t, x, got, 1e-12)
}

// TestLeastSquares_Overdetermined recovers an exact solution with ~0 residual.
func TestLeastSquares_Overdetermined(t *testing.T) {
	// Vandermonde-like 6x3 design.
	a := complexMatrix(6, 3, func(i, j int) complex128 {
		return cmplx.Pow(complex(0, 1/float64(i+1)), complex(float64(j), 0))
	})
	ls, err := linalg.NewComplexLeastSquares(a, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, ls.Rank())
	assert.Len(t, ls.SingularValues(), 3)
	assert.Greater(t, ls.MinSingularValue(), 0.0)

	x := complexMatrix(3, 2, func(i, j int) complex128 { return complex(float64(i-j), 0.5) })
	b, err := linalg.MulComplex(a, x)
	require.NoError(t, err)

	got, residual, err := ls.Solve(b)
	require.NoError(t, err)
	assertMatrixClose(t, x, got, 1e-10)
	assert.Less(t, residual, 1e-12)
}

// TestLeastSquares_Residual reports the RMS residual of an inconsistent system.
func TestLeastSquares_Residual(t *testing.T) {
	a := mat.NewDense(2, 1, []float64{1, 1})
	ls, err := linalg.NewLeastSquares(a, 0)
	require.NoError(t, err)
	x, residual, err := ls.SolveReal(mat.NewDense(2, 1, []float64{0, 2}))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, x.At(0, 0), 1e-14)
	assert.InDelta(t, 1.0, residual, 1e-14)
}

// TestLeastSquares_Truncation drops singular values below rcond·σ_max.
func TestLeastSquares_Truncation(t *testing.T) {
	a := mat.NewDense(3, 2, []float64{1, 1, 1, 1 + 1e-12, 1, 1})
	ls, err := linalg.NewLeastSquares(a, 1e-8)
	require.NoError(t, err)
	assert.Equal(t, 1, ls.Rank())
}

// TestPivotedGramSchmidt_Rank selects exactly the independent rows.
func TestPivotedGramSchmidt_Rank(t *testing.T) {
	rows := [][]float64{
		{1, 0, 0},
		{0, 2, 0},
		{1, 2, 0}, // dependent
		{0, 0, 0.5},
	}
	piv, err := linalg.PivotedGramSchmidt(rows, linalg.GSOptions{Eps: 1e-12})
	require.NoError(t, err)
	assert.Len(t, piv, 3)
	assert.Equal(t, 2, piv[0], "largest row first")

	piv, err = linalg.PivotedGramSchmidt(rows, linalg.GSOptions{MaxRank: 2})
	require.NoError(t, err)
	assert.Len(t, piv, 2)
}

// TestPivotedGramSchmidt_Mirror picks rows in mirrored pairs.
func TestPivotedGramSchmidt_Mirror(t *testing.T) {
	n := 8
	rows := make([][]complex128, n)
	for i := range rows {
		x := float64(i) - 3.5
		rows[i] = []complex128{1, complex(x, 0), complex(0, x*x), complex(math.Exp(-x*x), 0)}
	}
	mirror := func(i int) int { return n - 1 - i }
	piv, err := linalg.PivotedGramSchmidt(rows, linalg.GSOptions{Eps: 1e-10, Mirror: mirror})
	require.NoError(t, err)
	require.NotEmpty(t, piv)
	assert.LessOrEqual(t, len(piv), 4, "rank of the row set is 4")
	assert.Equal(t, 0, piv[0], "first maximal row wins ties")
	assert.Equal(t, mirror(piv[0]), piv[1], "mirror selected right after its partner")

	_, err = linalg.PivotedGramSchmidt([][]float64{{1, 2}, {3}}, linalg.GSOptions{})
	assert.ErrorIs(t, err, linalg.ErrDimensionMismatch)
}
