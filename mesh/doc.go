// Package mesh implements the structured grids on which Green's functions
// are sampled.
//
// 🚀 Mesh kinds (closed set, see Kind):
//   - ImTime, ReTime, ReFreq, Legendre: uniform 1-D grids built on Linear.
//   - ImFreq: fermionic/bosonic Matsubara frequencies, with an index
//     window for distributed splitting (Scatter/Gather) and a TailFitter.
//   - CyclicLattice, BrillouinZone: periodic 3-D integer meshes.
//   - DLR, DLRImTime, DLRImFreq: three views of one shared dlr.Basis.
//   - Prod: cartesian product of any of the above.
//
// ✨ Every mesh provides:
//   - a bijection between its semantic index and a dense data index in
//     [0, Size()), checked: out-of-range input yields ErrIndexOutOfRange;
//   - MeshHash, folding every construction parameter through xxhash;
//     compatibility checks compare hashes first and confirm with Equal;
//   - typed points {Index, DataIndex, MeshHash, Value} via iter.Seq.
//
// ⚙️ Persistence:
//
//	Write/Read store a mesh in an archive.Group under a per-kind format tag
//	("MeshImFreq", "MeshDLR", …). DLR meshes persist their basis so a reload
//	reproduces it bit for bit without selecting it again.
//
// Meshes are immutable after construction except ImFreq's tail-fit cache,
// which is guarded internally.
package mesh
