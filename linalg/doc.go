// Package linalg collects the dense linear-algebra kernels used by the DLR
// basis builder, the DLR transforms and the Matsubara tail fitter.
//
// Factorizations are delegated to gonum (LU, thin SVD); this package adds:
//
//   - LU: cached real LU with complex right-hand sides.
//   - ComplexLU: square complex solves through the real 2n×2n embedding.
//   - LeastSquares: truncated-SVD least squares with exposed singular values,
//     for real or complex (embedded) design matrices.
//   - PivotedGramSchmidt: greedy, reorthogonalized row selection used to
//     pick DLR frequencies and nodes.
//   - MulReal / MulComplex: products of a real or complex matrix with a
//     complex ndarray.Matrix.
//
// Every solver is immutable after construction and safe for concurrent use.
package linalg
