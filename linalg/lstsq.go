// SPDX-License-Identifier: MIT

package linalg

import (
	"fmt"
	"math"

	"github.com/katalvlaran/gfmesh/ndarray"
	"gonum.org/v1/gonum/mat"
)

// LeastSquares minimizes ‖A x − b‖₂ through a cached thin SVD of A.
// Singular values below rcond·σ_max are discarded, which regularizes
// ill-conditioned fits; rcond = 0 keeps every non-zero singular value.
type LeastSquares struct {
	m, n    int
	complex bool      // A was a complex matrix given through its embedding
	s       []float64 // singular values, descending
	u, v    mat.Dense // thin factors
	rank    int       // number of retained singular values
}

// NewLeastSquares factorizes a real m×n design matrix.
// Stage 1 (Validate): non-empty matrix, rcond in [0,1).
// Stage 2 (Execute): thin SVD.
// Stage 3 (Finalize): determine the numerical rank under rcond.
// Complexity: O(m n min(m,n)).
func NewLeastSquares(a mat.Matrix, rcond float64) (*LeastSquares, error) {
	m, n := a.Dims()
	if m == 0 || n == 0 {
		return nil, linalgErrorf(opLeastSquare, ErrEmpty)
	}
	ls := &LeastSquares{m: m, n: n}
	if err := ls.factorize(a, rcond); err != nil {
		return nil, err
	}

	return ls, nil
}

// NewComplexLeastSquares factorizes a complex m×n design matrix.
// Solutions and residuals are reported in complex form.
func NewComplexLeastSquares(a *ndarray.Matrix, rcond float64) (*LeastSquares, error) {
	if a.Rows == 0 || a.Cols == 0 {
		return nil, linalgErrorf(opLeastSquare, ErrEmpty)
	}
	ls := &LeastSquares{m: a.Rows, n: a.Cols, complex: true}
	if err := ls.factorize(EmbedComplex(a), rcond); err != nil {
		return nil, err
	}

	return ls, nil
}

func (ls *LeastSquares) factorize(a mat.Matrix, rcond float64) error {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return linalgErrorf(opLeastSquare, ErrSVDFailed)
	}
	ls.s = svd.Values(nil)
	svd.UTo(&ls.u)
	svd.VTo(&ls.v)
	ls.rank = 0
	if len(ls.s) == 0 || ls.s[0] == 0 {
		return nil
	}
	cut := rcond * ls.s[0]
	for _, sv := range ls.s {
		if sv <= cut || sv == 0 {
			break
		}
		ls.rank++
	}

	return nil
}

// SingularValues returns the singular values in descending order. For a
// complex matrix each value of A appears once (the embedding doubles them).
func (ls *LeastSquares) SingularValues() []float64 {
	if !ls.complex {
		return append([]float64(nil), ls.s...)
	}
	out := make([]float64, 0, len(ls.s)/2)
	for i := 0; i < len(ls.s); i += 2 {
		out = append(out, ls.s[i])
	}

	return out
}

// MinSingularValue returns the smallest singular value of A.
func (ls *LeastSquares) MinSingularValue() float64 {
	if len(ls.s) == 0 {
		return 0
	}

	return ls.s[len(ls.s)-1]
}

// Rank returns the number of singular values retained under rcond.
func (ls *LeastSquares) Rank() int {
	if ls.complex {
		return ls.rank / 2
	}

	return ls.rank
}

// Dims returns the shape of the design matrix.
func (ls *LeastSquares) Dims() (int, int) { return ls.m, ls.n }

// solveReal computes x = V_k Σ_k⁻¹ U_kᵀ b and the residual A x − b.
func (ls *LeastSquares) solveReal(b *mat.Dense) (*mat.Dense, float64) {
	_, k := b.Dims()
	rows, _ := ls.u.Dims()
	cols, _ := ls.v.Dims()
	k0 := ls.rank

	// utb = U_kᵀ b scaled by 1/σ
	utb := mat.NewDense(max(k0, 1), k, nil)
	var i, j, l int
	var acc float64
	for l = 0; l < k0; l++ {
		for j = 0; j < k; j++ {
			acc = 0
			for i = 0; i < rows; i++ {
				acc += ls.u.At(i, l) * b.At(i, j)
			}
			utb.Set(l, j, acc/ls.s[l])
		}
	}
	x := mat.NewDense(cols, k, nil)
	for i = 0; i < cols; i++ {
		for j = 0; j < k; j++ {
			acc = 0
			for l = 0; l < k0; l++ {
				acc += ls.v.At(i, l) * utb.At(l, j)
			}
			x.Set(i, j, acc)
		}
	}

	// residual = U U_kᵀ b − b restricted to the range: ‖A x − b‖ computed directly
	// from the factors: A x = U_k U_kᵀ b.
	res := 0.0
	var proj float64
	for j = 0; j < k; j++ {
		for i = 0; i < rows; i++ {
			proj = 0
			for l = 0; l < k0; l++ {
				proj += ls.u.At(i, l) * utb.At(l, j) * ls.s[l]
			}
			d := proj - b.At(i, j)
			res += d * d
		}
	}

	return x, res
}

// Solve returns the least-squares solution X (n×k) for a complex
// right-hand side B (m×k) together with the residual ‖A X − B‖_F/√(m k).
// Complexity: O(m n k).
func (ls *LeastSquares) Solve(b *ndarray.Matrix) (*ndarray.Matrix, float64, error) {
	if b.Rows != ls.m {
		return nil, 0, linalgErrorf(opSolve, fmt.Errorf("rhs rows %d, want %d: %w", b.Rows, ls.m, ErrDimensionMismatch))
	}
	count := float64(b.Rows * b.Cols)
	if ls.complex {
		x, res := ls.solveReal(stackComplex(b))
		return unstackComplex(x), math.Sqrt(res / count), nil
	}
	x, res := ls.solveReal(splitColumns(b))

	return joinColumns(x), math.Sqrt(res / count), nil
}

// SolveReal is Solve for a real right-hand side given as a gonum matrix.
func (ls *LeastSquares) SolveReal(b *mat.Dense) (*mat.Dense, float64, error) {
	r, k := b.Dims()
	if ls.complex {
		return nil, 0, linalgErrorf(opSolve, fmt.Errorf("real rhs for complex system: %w", ErrDimensionMismatch))
	}
	if r != ls.m {
		return nil, 0, linalgErrorf(opSolve, fmt.Errorf("rhs rows %d, want %d: %w", r, ls.m, ErrDimensionMismatch))
	}
	x, res := ls.solveReal(b)

	return x, math.Sqrt(res / float64(r*k)), nil
}
