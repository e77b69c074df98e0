// Package domain defines the continuous sets that meshes sample.
//
// A domain carries the physical parameters of a grid (inverse temperature,
// particle statistic, lattice units) but never stores array data:
//
//   - Statistic: Fermion/Boson tag with sign and combination rules.
//   - MatsubaraFreq: a Matsubara frequency iπ(2n+s)/β kept as an integer index.
//   - ImTime: the interval [0, β] for a given statistic.
//   - ImFreq: the Matsubara frequencies for a given β and statistic.
//   - Real: the real line (real time / real frequency meshes).
//   - BravaisLattice and BrillouinZone: lattice units and their reciprocal
//     vectors, as needed by cluster meshes.
//
// All values are small, comparable and safe to copy.
package domain
