// Package gf stores tensor-valued Green's functions on meshes and converts
// them between representations.
//
// 🚀 The container:
//
//	A Gf pairs one mesh.Mesh with an ndarray.Array whose leading extents are
//	mesh.ComponentSizes() and whose trailing extents are the target shape
//	(e.g. [2, 2] for a two-orbital matrix function). Element access by mesh
//	point checks the point's mesh hash.
//
// ✨ DLR transforms:
//   - MakeGfDLR: values on DLR τ or Matsubara nodes to coefficients.
//   - FitGfDLR: coefficients by least squares from a uniform τ grid.
//   - MakeGfDLRImTime, MakeGfDLRImFreq: coefficients back to node values.
//   - MakeGfImTime, MakeGfImFreq: coefficients evaluated on fresh uniform
//     meshes by direct kernel summation.
//
//	Each has an Axes form transforming selected components of a product
//	mesh (left to right, default axis 0) and a Block form applied to every
//	element of a Block independently.
//
// ⚙️ Frequency convention:
//
//	G(iν_n) = β Σ_l c_l KIf(n, ω_l), so node values are divided by β on the
//	way in and multiplied by β on the way out; the τ maps carry no factor.
//
// Gf values are not synchronized; share them read-only or copy with Clone.
package gf
