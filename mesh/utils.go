// SPDX-License-Identifier: MIT

package mesh

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// tolerance for floating construction parameters in Equal.
const tolerance = 1e-15

// PositiveMod returns r mod d in [0, d) for d > 0.
func PositiveMod(r, d int) int {
	m := r % d
	if m < 0 {
		m += d
	}

	return m
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

// hasher folds typed values into one 64-bit hash. The encoding is fixed
// width so that different field sequences cannot alias by concatenation.
type hasher struct {
	d   *xxhash.Digest
	buf [8]byte
}

func newHasher(tag string) *hasher {
	h := &hasher{d: xxhash.New()}
	h.str(tag)

	return h
}

func (h *hasher) u64(v uint64) *hasher {
	binary.LittleEndian.PutUint64(h.buf[:], v)
	_, _ = h.d.Write(h.buf[:])

	return h
}

func (h *hasher) int(v int) *hasher { return h.u64(uint64(int64(v))) }

func (h *hasher) float(v float64) *hasher {
	if v == 0 {
		v = 0 // fold -0 onto +0
	}

	return h.u64(math.Float64bits(v))
}

func (h *hasher) str(s string) *hasher {
	h.int(len(s))
	_, _ = h.d.WriteString(s)

	return h
}

func (h *hasher) sum() uint64 { return h.d.Sum64() }

// Closest wraps a domain value whose nearest mesh index is requested; see
// the ClosestIndex methods of the concrete meshes.
type Closest[V any] struct {
	Value V
}

// ClosestTo builds a Closest wrapper.
func ClosestTo[V any](v V) Closest[V] { return Closest[V]{Value: v} }
