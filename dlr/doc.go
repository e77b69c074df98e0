// Package dlr builds Discrete Lehmann Representation (DLR) bases.
//
// 🚀 What is the DLR?
//
//	An imaginary-time Green's function G(τ) = -∫ K(τ/β, βω) ρ(ω) dω is, to a
//	prescribed accuracy ε, a short sum of exponentials
//
//	    G(τ) ≈ Σ_l c_l K(τ/β, ω_l),   K(t, ω) = e^{-tω} / (1 + e^{-ω}),
//
//	over a handful of real frequencies ω_l ∈ [-Λ, Λ], Λ = β·w_max. The
//	frequencies, and a matching set of imaginary-time and Matsubara nodes
//	on which the expansion is uniquely determined, depend only on (Λ, ε).
//
// ✨ What this package provides:
//   - KIt / KIf: the analytic imaginary-time and Matsubara kernels.
//   - Build / Get: basis selection (pivoted Gram–Schmidt over a composite
//     Gauss–Legendre discretization); Get memoizes bases in a process-wide LRU.
//   - ImTimeOps: τ-node selection and the values ⇄ coefficients maps,
//     plus least-squares fitting from arbitrary τ samples.
//   - ImFreqOps: Matsubara-node selection and values ⇄ coefficients maps.
//
// ⚙️ Conventions:
//
//	Frequencies are dimensionless (units of 1/β). Imaginary times are
//	reduced to [0,1] and stored in "relative" format: t ∈ [0, ½] is kept as
//	is, t ∈ (½, 1) is stored as t−1 < 0, which keeps K accurate near τ=β.
//	Matsubara values carry no β; callers multiply by β (see package gf).
//
// A Basis is immutable after construction and shared by pointer.
package dlr
