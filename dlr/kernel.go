// SPDX-License-Identifier: MIT

package dlr

import (
	"math"

	"github.com/katalvlaran/gfmesh/domain"
)

// KIt evaluates the imaginary-time kernel K(t, ω) = e^{-tω}/(1+e^{-ω})
// for t in relative format (t < 0 stands for 1+t).
// Uses K(1+t, ω) = K(-t, -ω) and picks the non-overflowing branch by sign(ω).
func KIt(t, om float64) float64 {
	if t < 0 {
		t, om = -t, -om
	}
	if om >= 0 {
		return math.Exp(-t*om) / (1 + math.Exp(-om))
	}

	return math.Exp((1-t)*om) / (1 + math.Exp(om))
}

// KIf evaluates the Matsubara kernel, the Fourier transform of K over
// [0,1] at ν_n = π(2n+s):
//
//	fermions: -1/(iν_n - ω)
//	bosons:   -tanh(ω/2)/(iν_n - ω), with the ω→0, n=0 limit ½.
func KIf(n int, om float64, stat domain.Statistic) complex128 {
	nu := math.Pi * float64(2*n+int(stat))
	if stat == domain.Fermion {
		return -1 / complex(-om, nu)
	}
	if om == 0 {
		if n == 0 {
			return 0.5
		}
		return 0
	}

	return complex(-math.Tanh(om/2), 0) / complex(-om, nu)
}

// RelativeTime converts a reduced time x = τ/β ∈ [0,1] to relative format.
// The endpoint x = 1 has no distinct relative form and is kept as is;
// KIt accepts it directly.
func RelativeTime(x float64) float64 {
	if x > 0.5 && x < 1 {
		return x - 1
	}

	return x
}

// AbsoluteTime converts a relative-format time back to [0,1].
// Negative zero maps to 0.
func AbsoluteTime(t float64) float64 {
	if t < 0 {
		return 1 + t
	}

	return t
}
