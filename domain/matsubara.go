// SPDX-License-Identifier: MIT

package domain

import (
	"fmt"
	"math"
)

// MatsubaraFreq is the frequency iπ(2N+Stat)/Beta.
// Keeping the integer N instead of the complex value makes equality exact
// and lets frequencies be used directly as mesh indices.
type MatsubaraFreq struct {
	N    int
	Beta float64
	Stat Statistic
}

// NewMatsubaraFreq builds the frequency with index n.
func NewMatsubaraFreq(n int, beta float64, stat Statistic) MatsubaraFreq {
	return MatsubaraFreq{N: n, Beta: beta, Stat: stat}
}

// Imag returns the real number π(2N+Stat)/Beta.
func (w MatsubaraFreq) Imag() float64 {
	return math.Pi * float64(2*w.N+int(w.Stat)) / w.Beta
}

// Complex returns iπ(2N+Stat)/Beta.
func (w MatsubaraFreq) Complex() complex128 {
	return complex(0, w.Imag())
}

// Neg returns -w. For fermions -(2n+1) = 2(-n-1)+1.
func (w MatsubaraFreq) Neg() MatsubaraFreq {
	return MatsubaraFreq{N: -w.N - int(w.Stat), Beta: w.Beta, Stat: w.Stat}
}

// Add returns w+o. The statistic follows Combine; two fermionic indices
// carry one unit into the bosonic result.
func (w MatsubaraFreq) Add(o MatsubaraFreq) (MatsubaraFreq, error) {
	if w.Beta != o.Beta {
		return MatsubaraFreq{}, fmt.Errorf("MatsubaraFreq.Add: beta %g vs %g: %w", w.Beta, o.Beta, ErrBetaMismatch)
	}
	n := w.N + o.N
	if w.Stat == Fermion && o.Stat == Fermion {
		n++
	}

	return MatsubaraFreq{N: n, Beta: w.Beta, Stat: w.Stat.Combine(o.Stat)}, nil
}

// Sub returns w-o.
func (w MatsubaraFreq) Sub(o MatsubaraFreq) (MatsubaraFreq, error) {
	return w.Add(o.Neg())
}

// String formats the frequency as "iw_n(F,n=3)".
func (w MatsubaraFreq) String() string {
	return fmt.Sprintf("iw_n(%s,n=%d)", w.Stat, w.N)
}
