// SPDX-License-Identifier: MIT

package linalg

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Scalar is the element type accepted by PivotedGramSchmidt.
type Scalar interface {
	~float64 | ~complex128
}

// GSOptions configures PivotedGramSchmidt.
//
//   - Eps: stop once every residual row norm is ≤ Eps·(largest initial norm).
//     Zero disables the tolerance test.
//   - MaxRank: stop after selecting MaxRank rows (0 = unlimited).
//   - Mirror: when non-nil, selecting row p also selects Mirror(p); rows are
//     then chosen in mirrored pairs (a self-mirrored row is taken alone).
type GSOptions struct {
	Eps     float64
	MaxRank int
	Mirror  func(i int) int
}

func conjOf[T Scalar](v T) T {
	if c, ok := any(v).(complex128); ok {
		return any(cmplx.Conj(c)).(T)
	}

	return v
}

func abs2[T Scalar](v T) float64 {
	switch x := any(v).(type) {
	case complex128:
		return real(x)*real(x) + imag(x)*imag(x)
	case float64:
		return x * x
	}

	return 0
}

func fromReal[T Scalar](f float64) T {
	var zero T
	switch any(zero).(type) {
	case complex128:
		return any(complex(f, 0)).(T)
	}

	return any(f).(T)
}

// dot returns Σ conj(a_i) b_i.
func dot[T Scalar](a, b []T) T {
	var acc T
	for i := range a {
		acc += conjOf(a[i]) * b[i]
	}

	return acc
}

func norm2[T Scalar](a []T) float64 {
	s := 0.0
	for _, v := range a {
		s += abs2(v)
	}

	return s
}

// PivotedGramSchmidt greedily selects linearly independent rows of a.
// At each step the row with the largest residual norm is chosen, its
// residual is orthogonalized twice against the basis built so far
// (reorthogonalization keeps the basis orthonormal to working precision),
// and all remaining residuals are projected out.
//
// Implementation:
//   - Stage 1 (Validate): rectangular, non-empty input.
//   - Stage 2 (Prepare): copy rows into residual buffers; compute norms.
//   - Stage 3 (Execute): pivot, orthonormalize, deflate; repeat until Eps or MaxRank.
//   - Stage 4 (Finalize): return the pivot rows in selection order.
//
// Complexity: O(r·m·n) for r selected rows of an m×n input.
func PivotedGramSchmidt[T Scalar](a [][]T, opts GSOptions) ([]int, error) {
	// Stage 1: validate
	m := len(a)
	if m == 0 || len(a[0]) == 0 {
		return nil, linalgErrorf(opGramSchmidt, ErrEmpty)
	}
	n := len(a[0])
	for i, row := range a {
		if len(row) != n {
			return nil, linalgErrorf(opGramSchmidt, fmt.Errorf("row %d has %d entries, want %d: %w", i, len(row), n, ErrDimensionMismatch))
		}
	}

	// Stage 2: residual copies and norms
	res := make([][]T, m)
	norms := make([]float64, m)
	maxNorm := 0.0
	for i, row := range a {
		res[i] = append([]T(nil), row...)
		norms[i] = norm2(row)
		maxNorm = math.Max(maxNorm, norms[i])
	}
	if maxNorm == 0 {
		return nil, nil
	}
	tol2 := opts.Eps * opts.Eps * maxNorm
	maxRank := min(m, n)
	if opts.MaxRank > 0 && opts.MaxRank < maxRank {
		maxRank = opts.MaxRank
	}

	// Stage 3: selection loop
	selected := make([]bool, m)
	var (
		basis [][]T
		piv   []int
	)
	take := func(p int) bool {
		q := append([]T(nil), res[p]...)
		for pass := 0; pass < 2; pass++ {
			for _, b := range basis {
				c := dot(b, q)
				for k := range q {
					q[k] -= c * b[k]
				}
			}
		}
		nq := math.Sqrt(norm2(q))
		selected[p] = true
		if nq == 0 || nq*nq <= tol2*1e-4 {
			return false // numerically dependent, do not extend the basis
		}
		inv := fromReal[T](1 / nq)
		for k := range q {
			q[k] *= inv
		}
		basis = append(basis, q)
		piv = append(piv, p)
		for i := 0; i < m; i++ {
			if selected[i] {
				continue
			}
			c := dot(q, res[i])
			for k := range res[i] {
				res[i][k] -= c * q[k]
			}
			norms[i] = norm2(res[i])
		}

		return true
	}
	for len(piv) < maxRank {
		p, best := -1, -1.0
		for i := 0; i < m; i++ {
			if !selected[i] && norms[i] > best {
				p, best = i, norms[i]
			}
		}
		if p < 0 || best <= tol2 || best == 0 {
			break
		}
		take(p)
		if opts.Mirror != nil && len(piv) < maxRank {
			if mp := opts.Mirror(p); mp != p && mp >= 0 && mp < m && !selected[mp] {
				take(mp)
			}
		}
	}

	// Stage 4: finalize
	return piv, nil
}
