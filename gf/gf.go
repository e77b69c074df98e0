// SPDX-License-Identifier: MIT

package gf

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/gfmesh/mesh"
	"github.com/katalvlaran/gfmesh/ndarray"
)

// Gf is a Green's function: values of target shape on every mesh point.
// Data is laid out as [mesh components..., target...] in row-major order.
type Gf struct {
	mesh   mesh.Mesh
	data   *ndarray.Array
	target []int
}

// New returns a zero Gf on m with the given target shape (none for scalars).
func New(m mesh.Mesh, target ...int) (*Gf, error) {
	shape := append(m.ComponentSizes(), target...)
	a, err := ndarray.New(shape...)
	if err != nil {
		return nil, gfErrorf(opNew, fmt.Errorf("%v: %w", err, ErrShape))
	}

	return &Gf{mesh: m, data: a, target: slices.Clone(target)}, nil
}

// FromArray wraps a (without copying) as a Gf on m. The leading extents of
// a must equal m.ComponentSizes(); the rest is the target shape.
func FromArray(m mesh.Mesh, a *ndarray.Array) (*Gf, error) {
	lead := m.ComponentSizes()
	shape := a.Shape()
	if len(shape) < len(lead) || !slices.Equal(shape[:len(lead)], lead) {
		return nil, gfErrorf(opNew, fmt.Errorf("array %v on mesh %v: %w", shape, lead, ErrShape))
	}

	return &Gf{mesh: m, data: a, target: shape[len(lead):]}, nil
}

// Mesh returns the mesh.
func (g *Gf) Mesh() mesh.Mesh { return g.mesh }

// Data returns the underlying array; writes through it modify g.
func (g *Gf) Data() *ndarray.Array { return g.data }

// TargetShape returns the trailing extents.
func (g *Gf) TargetShape() []int { return slices.Clone(g.target) }

// TargetSize returns Π TargetShape(), 1 for scalars.
func (g *Gf) TargetSize() int {
	n := 1
	for _, s := range g.target {
		n *= s
	}

	return n
}

// Clone returns a deep copy sharing only the (immutable) mesh.
func (g *Gf) Clone() *Gf {
	return &Gf{mesh: g.mesh, data: g.data.Clone(), target: slices.Clone(g.target)}
}

// Zero returns a zero Gf with g's mesh and target shape.
func (g *Gf) Zero() *Gf {
	a, _ := ndarray.New(g.data.Shape()...) // shape already validated

	return &Gf{mesh: g.mesh, data: a, target: slices.Clone(g.target)}
}

// Scale returns alpha·g.
func (g *Gf) Scale(alpha complex128) *Gf {
	return &Gf{mesh: g.mesh, data: g.data.Scale(alpha), target: slices.Clone(g.target)}
}

// Conj returns the elementwise complex conjugate.
func (g *Gf) Conj() *Gf {
	return &Gf{mesh: g.mesh, data: g.data.Conj(), target: slices.Clone(g.target)}
}

// Add returns a+b; both must live on compatible meshes.
func Add(a, b *Gf) (*Gf, error) { return combine(a, b, ndarray.Add) }

// Sub returns a-b; both must live on compatible meshes.
func Sub(a, b *Gf) (*Gf, error) { return combine(a, b, ndarray.Sub) }

func combine(a, b *Gf, op func(x, y *ndarray.Array) (*ndarray.Array, error)) (*Gf, error) {
	if !mesh.Compatible(a.mesh, b.mesh) {
		return nil, gfErrorf(opAlgebra, fmt.Errorf("%s vs %s: %w", a.mesh, b.mesh, ErrIncompatible))
	}
	d, err := op(a.data, b.data)
	if err != nil {
		return nil, gfErrorf(opAlgebra, fmt.Errorf("%v: %w", err, ErrShape))
	}

	return &Gf{mesh: a.mesh, data: d, target: slices.Clone(a.target)}, nil
}

// At returns the target values at flat data index d, aliasing storage.
func (g *Gf) At(d int) ([]complex128, error) {
	if d < 0 || d >= g.mesh.Size() {
		return nil, gfErrorf(opAt, fmt.Errorf("data index %d outside [0, %d): %w", d, g.mesh.Size(), mesh.ErrIndexOutOfRange))
	}
	n := g.TargetSize()

	return g.data.Data()[d*n : (d+1)*n], nil
}

// AtIndex resolves a semantic mesh index (see mesh.Mesh.DataIndexOf) and
// returns the target values there.
func (g *Gf) AtIndex(index any) ([]complex128, error) {
	d, err := g.mesh.DataIndexOf(index)
	if err != nil {
		return nil, gfErrorf(opAt, err)
	}

	return g.At(d)
}

// AtPoint returns the target values at mesh point p; a point of another
// mesh yields mesh.ErrHashMismatch.
func AtPoint[I, V any](g *Gf, p mesh.Point[I, V]) ([]complex128, error) {
	if err := mesh.CheckPoint(g.mesh, p.MeshHash); err != nil {
		return nil, gfErrorf(opAt, err)
	}

	return g.At(p.DataIndex)
}

// Set copies vals into the target slot at data index d.
func (g *Gf) Set(d int, vals ...complex128) error {
	dst, err := g.At(d)
	if err != nil {
		return err
	}
	if len(vals) != len(dst) {
		return gfErrorf(opAt, fmt.Errorf("%d values for target size %d: %w", len(vals), len(dst), ErrShape))
	}
	copy(dst, vals)

	return nil
}

// Fill sets every point from f(d), which returns TargetSize() values.
func (g *Gf) Fill(f func(d int) []complex128) error {
	for d := 0; d < g.mesh.Size(); d++ {
		if err := g.Set(d, f(d)...); err != nil {
			return err
		}
	}

	return nil
}

func (g *Gf) String() string {
	return fmt.Sprintf("Gf(%s, target=%v)", g.mesh, g.target)
}
