// SPDX-License-Identifier: MIT

package dlr

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// dyadicEndpoints returns npanel+1 endpoints on [a,b], halving panel width
// toward a: a, a+L/2^{np-1}, …, a+L/2, b.
func dyadicEndpoints(a, b float64, npanel int) []float64 {
	ends := make([]float64, 0, npanel+1)
	ends = append(ends, a)
	l := b - a
	for k := npanel - 1; k >= 1; k-- {
		ends = append(ends, a+l/math.Ldexp(1, k))
	}

	return append(ends, b)
}

// compositeGL places order Gauss–Legendre nodes in every panel.
func compositeGL(ends []float64, order int) []float64 {
	var gl quad.Legendre
	x := make([]float64, order)
	w := make([]float64, order)
	nodes := make([]float64, 0, (len(ends)-1)*order)
	for k := 0; k+1 < len(ends); k++ {
		gl.FixedLocations(x, w, ends[k], ends[k+1])
		nodes = append(nodes, x...)
	}

	return nodes
}

// panelCount is the number of dyadic panels needed to resolve scales
// between 1/Λ and 1.
func panelCount(lambda float64) int {
	return max(int(math.Ceil(math.Log2(lambda))), 1) + 1
}

// fineFrequencies returns a grid on [-Λ, Λ], symmetric and ascending;
// index i mirrors to len-1-i.
func fineFrequencies(lambda float64, order int) []float64 {
	pos := compositeGL(dyadicEndpoints(0, lambda, panelCount(lambda)), order)
	full := make([]float64, 0, 2*len(pos))
	for i := len(pos) - 1; i >= 0; i-- {
		full = append(full, -pos[i])
	}

	return append(full, pos...)
}

// fineTimes returns a relative-format grid covering [0,1] in ascending
// absolute time; index i mirrors (τ ↔ 1-τ) to len-1-i.
func fineTimes(lambda float64, order int) []float64 {
	half := compositeGL(dyadicEndpoints(0, 0.5, panelCount(lambda)), order)
	full := make([]float64, 0, 2*len(half))
	full = append(full, half...)
	for i := len(half) - 1; i >= 0; i-- {
		full = append(full, -half[i])
	}

	return full
}

// fineMatsubara returns the dense index range used for Matsubara-node
// selection: [-nmax, nmax) for fermions, [-nmax, nmax] for bosons.
// Index i of the range mirrors to len-1-i (n ↔ -n-1, resp. n ↔ -n).
func fineMatsubara(nmax int, fermion bool) []int {
	hi := nmax
	if fermion {
		hi = nmax - 1
	}
	ns := make([]int, 0, nmax+hi+1)
	for n := -nmax; n <= hi; n++ {
		ns = append(ns, n)
	}

	return ns
}

// defaultMatsubaraCutoff covers |ν| up to about 2πΛ.
func defaultMatsubaraCutoff(lambda float64) int {
	return max(int(math.Ceil(lambda)), 20)
}

// mirrorOf returns the pairing function for symmetric grids of length n.
func mirrorOf(n int) func(int) int {
	return func(i int) int { return n - 1 - i }
}
