// SPDX-License-Identifier: MIT

package domain

import "fmt"

// Statistic tags a particle statistic. The numeric values are part of the
// Matsubara formula iπ(2n+s)/β, so Boson must stay 0 and Fermion 1.
type Statistic int

const (
	// Boson statistic: periodic in imaginary time, even Matsubara frequencies.
	Boson Statistic = 0

	// Fermion statistic: antiperiodic in imaginary time, odd Matsubara frequencies.
	Fermion Statistic = 1
)

// Sign returns +1 for bosons and -1 for fermions.
func (s Statistic) Sign() int {
	if s == Fermion {
		return -1
	}

	return 1
}

// Combine returns the statistic of a product of two quantities:
// Fermion×Fermion = Boson, Boson×X = X.
func (s Statistic) Combine(o Statistic) Statistic {
	if s == o {
		return Boson
	}

	return Fermion
}

// String returns the single-letter tag used in persisted meshes ("F"/"B").
func (s Statistic) String() string {
	if s == Fermion {
		return "F"
	}

	return "B"
}

// ParseStatistic parses the persisted tag "F" or "B".
func ParseStatistic(tag string) (Statistic, error) {
	switch tag {
	case "F":
		return Fermion, nil
	case "B":
		return Boson, nil
	}

	return Boson, fmt.Errorf("ParseStatistic(%q): %w", tag, ErrUnknownStatistic)
}
