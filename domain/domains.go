// SPDX-License-Identifier: MIT

package domain

import (
	"fmt"
	"math"
)

// ValidateBeta checks that beta is finite and positive.
func ValidateBeta(beta float64) error {
	if math.IsNaN(beta) || math.IsInf(beta, 0) || beta <= 0 {
		return fmt.Errorf("beta=%g: %w", beta, ErrInvalidBeta)
	}

	return nil
}

// ImTime is the imaginary-time interval [0, Beta].
type ImTime struct {
	Beta float64
	Stat Statistic
}

// Min returns 0.
func (d ImTime) Min() float64 { return 0 }

// Max returns Beta.
func (d ImTime) Max() float64 { return d.Beta }

// Contains reports whether 0 ≤ tau ≤ Beta.
func (d ImTime) Contains(tau float64) bool { return tau >= 0 && tau <= d.Beta }

// ImFreq is the set of Matsubara frequencies for Beta and Stat.
type ImFreq struct {
	Beta float64
	Stat Statistic
}

// Freq returns the n-th frequency of the domain.
func (d ImFreq) Freq(n int) MatsubaraFreq { return MatsubaraFreq{N: n, Beta: d.Beta, Stat: d.Stat} }

// Real is the real line, sampled by real-time and real-frequency meshes.
type Real struct{}

// Legendre is the space of Legendre coefficients of an imaginary-time
// function on [0, Beta].
type Legendre struct {
	Beta float64
	Stat Statistic
}
