// SPDX-License-Identifier: MIT

package mesh

import "fmt"

// Kind discriminates the closed set of mesh types.
type Kind int

const (
	KindImTime Kind = iota
	KindImFreq
	KindReTime
	KindReFreq
	KindLegendre
	KindDLR
	KindDLRImTime
	KindDLRImFreq
	KindCyclicLattice
	KindBrillouinZone
	KindProd
)

var kindTags = [...]string{
	KindImTime:        "MeshImTime",
	KindImFreq:        "MeshImFreq",
	KindReTime:        "MeshReTime",
	KindReFreq:        "MeshReFreq",
	KindLegendre:      "MeshLegendre",
	KindDLR:           "MeshDLR",
	KindDLRImTime:     "MeshDLRImTime",
	KindDLRImFreq:     "MeshDLRImFreq",
	KindCyclicLattice: "MeshCyclicLattice",
	KindBrillouinZone: "MeshBrillouinZone",
	KindProd:          "MeshProduct",
}

// FormatTag returns the persistence tag of k.
func (k Kind) FormatTag() string {
	if k < 0 || int(k) >= len(kindTags) {
		return fmt.Sprintf("Mesh(%d)", int(k))
	}

	return kindTags[k]
}

// String returns the tag without the "Mesh" prefix.
func (k Kind) String() string {
	return k.FormatTag()[len("Mesh"):]
}

// Mesh is implemented by every mesh type of this package and by no other.
type Mesh interface {
	// Size returns the number of points.
	Size() int
	// MeshHash folds all construction parameters; equal meshes hash equal.
	MeshHash() uint64
	// Kind returns the discriminator.
	Kind() Kind
	// FormatTag returns the persistence tag.
	FormatTag() string
	// ComponentSizes returns [Size()] for 1-D meshes, one size per component for Prod.
	ComponentSizes() []int
	// IndexOf maps a data index to the semantic index.
	IndexOf(dataIndex int) (any, error)
	// DataIndexOf maps a semantic index to its data index.
	DataIndexOf(index any) (int, error)
	// Equal compares construction parameters.
	Equal(other Mesh) bool

	fmt.Stringer
	sealed()
}

// Point is one mesh point. Arithmetic goes through Value.
type Point[I, V any] struct {
	Index     I
	DataIndex int
	MeshHash  uint64
	Value     V
}

// Compatible reports whether a and b describe the same mesh. The hash is a
// fast reject; equality is always confirmed with Equal.
func Compatible(a, b Mesh) bool {
	return a.MeshHash() == b.MeshHash() && a.Equal(b)
}

// CheckPoint fails with ErrHashMismatch unless hash belongs to m.
func CheckPoint(m Mesh, hash uint64) error {
	if hash != m.MeshHash() {
		return fmt.Errorf("point hash %#x, mesh %s hash %#x: %w", hash, m.Kind(), m.MeshHash(), ErrHashMismatch)
	}

	return nil
}

func intIndex(op string, index any) (int, error) {
	switch v := index.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	}

	return 0, meshErrorf(op, fmt.Errorf("got %T, want int: %w", index, ErrIndexType))
}
