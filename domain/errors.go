// SPDX-License-Identifier: MIT

package domain

import "errors"

var (
	// ErrBetaMismatch is returned when two Matsubara frequencies with
	// different inverse temperatures are combined.
	ErrBetaMismatch = errors.New("domain: inverse temperature mismatch")

	// ErrUnknownStatistic is returned when a statistic tag cannot be parsed.
	ErrUnknownStatistic = errors.New("domain: unknown statistic tag")

	// ErrInvalidBeta is returned when β is not a finite positive number.
	ErrInvalidBeta = errors.New("domain: beta must be finite and > 0")

	// ErrSingularLattice is returned when lattice units are linearly dependent.
	ErrSingularLattice = errors.New("domain: lattice units are singular")

	// ErrLatticeShape is returned when lattice units have an invalid shape.
	ErrLatticeShape = errors.New("domain: lattice units must be a square matrix of dimension 1..3")
)
