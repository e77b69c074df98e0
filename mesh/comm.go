// SPDX-License-Identifier: MIT

package mesh

import "fmt"

// Comm is the rank/size view of a communicator that Scatter and Gather
// need. Only the partition is computed here; moving array data is the
// communicator owner's job.
type Comm interface {
	Rank() int
	Size() int
}

// LocalComm is a fixed (rank, size) pair, e.g. for a single process or for
// simulating a distributed split in tests.
type LocalComm struct {
	rank, size int
}

// NewLocalComm validates 0 ≤ rank < size.
func NewLocalComm(rank, size int) (LocalComm, error) {
	if size < 1 || rank < 0 || rank >= size {
		return LocalComm{}, fmt.Errorf("rank %d of %d: %w", rank, size, ErrInvalidMesh)
	}

	return LocalComm{rank: rank, size: size}, nil
}

// Rank returns the rank.
func (c LocalComm) Rank() int { return c.rank }

// Size returns the number of ranks.
func (c LocalComm) Size() int { return c.size }

// ChunkRange returns the half-open slice [begin, end) of [start, stop) owned
// by rank out of n ranks. The first (stop-start) mod n ranks get one extra
// element; slices are contiguous and cover the range in rank order.
func ChunkRange(start, stop, n, rank int) (begin, end int) {
	total := max(stop-start, 0)
	chunk, nLarge := total/n, total%n
	if rank < nLarge {
		begin = start + rank*(chunk+1)
		return begin, begin + chunk + 1
	}
	begin = start + nLarge*(chunk+1) + (rank-nLarge)*chunk

	return begin, begin + chunk
}
