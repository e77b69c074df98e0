// Package ndarray provides the small N-dimensional complex array used as
// backing storage for Green's functions.
//
// Arrays are dense and row-major (last axis fastest), matching the
// iteration order of product meshes. The package covers exactly what mesh
// transforms need: element access, reshaping, moving one axis to the front
// and back (Flatten2D / Unflatten2D), and elementwise arithmetic.
package ndarray
