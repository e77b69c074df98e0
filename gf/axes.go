// SPDX-License-Identifier: MIT

package gf

import (
	"fmt"

	"github.com/katalvlaran/gfmesh/mesh"
	"github.com/katalvlaran/gfmesh/ndarray"
)

// step transforms one mesh component: vals has one row per point of m and
// one column per combination of the remaining axes.
type step func(m mesh.Mesh, vals *ndarray.Matrix) (mesh.Mesh, *ndarray.Matrix, error)

// applyAxes runs s on each axis of g in order, default axis 0.
//
// Implementation:
//   - Stage 1 (Select): the axis component of a product mesh, or the mesh
//     itself for axis 0 of a plain mesh.
//   - Stage 2 (Flatten): view the data as (component points) × (rest).
//   - Stage 3 (Transform): run the step and substitute the new component.
//   - Stage 4 (Unflatten): restore the N-D layout with the new extent.
//
// Complexity: the sum of the step costs plus O(Size) copies per axis.
func applyAxes(name string, g *Gf, s step, axes []int) (*Gf, error) {
	if len(axes) == 0 {
		axes = []int{0}
	}
	cur := g
	for _, axis := range axes {
		next, err := applyAxis(cur, s, axis)
		observeTransform(name, err)
		if err != nil {
			return nil, gfErrorf(opTransform, fmt.Errorf("%s axis %d: %w", name, axis, err))
		}
		cur = next
	}

	return cur, nil
}

func applyAxis(g *Gf, s step, axis int) (*Gf, error) {
	// Stage 1
	prod, isProd := g.mesh.(*mesh.Prod)
	var comp mesh.Mesh
	switch {
	case isProd && axis >= 0 && axis < prod.Rank():
		comp = prod.Component(axis)
	case !isProd && axis == 0:
		comp = g.mesh
	default:
		return nil, fmt.Errorf("axis %d of %s: %w", axis, g.mesh, ErrAxis)
	}

	// Stage 2
	vals, err := g.data.Flatten2D(axis)
	if err != nil {
		return nil, err
	}

	// Stage 3
	out, res, err := s(comp, vals)
	if err != nil {
		return nil, err
	}
	var m mesh.Mesh = out
	if isProd {
		if m, err = prod.Replace(axis, out); err != nil {
			return nil, err
		}
	}

	// Stage 4
	shape := g.data.Shape()
	shape[axis] = out.Size()
	a, err := ndarray.Unflatten2D(res, axis, shape)
	if err != nil {
		return nil, err
	}

	return &Gf{mesh: m, data: a, target: g.TargetShape()}, nil
}

// Block is a named collection of Gfs, such as spin or orbital sectors.
type Block struct {
	names []string
	gfs   []*Gf
}

// NewBlock pairs names with Gfs; names must be non-empty and unique.
func NewBlock(names []string, gfs []*Gf) (*Block, error) {
	if len(names) != len(gfs) {
		return nil, gfErrorf(opBlock, fmt.Errorf("%d names, %d members: %w", len(names), len(gfs), ErrBlock))
	}
	seen := make(map[string]bool, len(names))
	for i, n := range names {
		if n == "" || seen[n] || gfs[i] == nil {
			return nil, gfErrorf(opBlock, fmt.Errorf("member %d (%q): %w", i, n, ErrBlock))
		}
		seen[n] = true
	}

	return &Block{names: append([]string(nil), names...), gfs: append([]*Gf(nil), gfs...)}, nil
}

// Len returns the number of members.
func (b *Block) Len() int { return len(b.gfs) }

// Names returns the member names in order.
func (b *Block) Names() []string { return append([]string(nil), b.names...) }

// Member returns member i.
func (b *Block) Member(i int) *Gf { return b.gfs[i] }

// ByName returns the member called name, or nil.
func (b *Block) ByName(name string) *Gf {
	for i, n := range b.names {
		if n == name {
			return b.gfs[i]
		}
	}

	return nil
}

// mapBlock applies f to every member independently. On error the returned
// block holds the members transformed before the failure, in order; the
// input block is never modified.
func mapBlock(b *Block, f func(*Gf) (*Gf, error)) (*Block, error) {
	out := &Block{}
	for i, g := range b.gfs {
		r, err := f(g)
		if err != nil {
			return out, fmt.Errorf("block %q: %w", b.names[i], err)
		}
		out.names = append(out.names, b.names[i])
		out.gfs = append(out.gfs, r)
	}

	return out, nil
}
