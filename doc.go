// Package gfmesh is the mesh and Green's-function layer of a many-body
// toolkit: structured grids, tensor-valued functions sampled on them, and the
// discrete Lehmann representation (DLR) transforms between imaginary time,
// Matsubara frequency and DLR coefficients.
//
// 🚀 What is inside?
//
//	• domain/  : statistics, Matsubara frequencies, β-intervals, Bravais lattices
//	• ndarray/ : row-major complex N-D arrays with axis flattening
//	• linalg/  : LU, truncated-SVD least squares, pivoted Gram–Schmidt on gonum
//	• dlr/     : analytic kernels, basis selection and the node ⇄ coefficient maps
//	• mesh/    : every mesh kind, product meshes, Matsubara tail fitting, persistence
//	• gf/      : the Gf container, Block collections and the DLR transforms
//	• archive/ : hierarchical key/value groups in memory or in a bbolt file
//	• cmd/gfmesh : command line front end (build, show, transform)
//
// ✨ Highlights
//
//   - DLR bases are cached per (Λ, ε, statistic, options) and shared by all
//     three DLR mesh views; concurrent first requests build once.
//   - Mesh compatibility is a hash comparison confirmed with structural
//     equality.
//   - Transforms act on selected axes of product meshes and on blocks.
//   - Structured errors: every failure wraps a package sentinel usable
//     with errors.Is.
//
// Quick example:
//
//	tau, _ := mesh.NewDLRImTime(10, domain.Fermion, 2, 1e-10)
//	g, _ := gf.New(tau)
//	_ = g.Fill(func(d int) []complex128 { return []complex128{sample(tau.ToValue(d))} })
//	c, _ := gf.MakeGfDLR(g)
//	iw, _ := gf.MakeGfImFreq(c, 64)
//
//	go get github.com/katalvlaran/gfmesh
package gfmesh
