// SPDX-License-Identifier: MIT

package mesh

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Prod is the cartesian product of component meshes. Its index is one
// index per component ([]any), its data index the row-major flattening with
// the last component fastest.
type Prod struct {
	ms      []Mesh
	sizes   []int
	strides []int
	size    int
	h       uint64
}

// NewProd builds the product of one or more non-product meshes.
func NewProd(ms ...Mesh) (*Prod, error) {
	if len(ms) == 0 {
		return nil, meshErrorf(opNewProd, fmt.Errorf("no components: %w", ErrInvalidMesh))
	}
	p := &Prod{ms: slices.Clone(ms), sizes: make([]int, len(ms)), strides: make([]int, len(ms)), size: 1}
	h := newHasher(KindProd.FormatTag()).int(len(ms))
	for i, m := range ms {
		if m == nil || m.Kind() == KindProd {
			return nil, meshErrorf(opNewProd, fmt.Errorf("component %d is %v: %w", i, m, ErrInvalidMesh))
		}
		p.sizes[i] = m.Size()
		h.u64(m.MeshHash())
	}
	for i := len(ms) - 1; i >= 0; i-- {
		p.strides[i] = p.size
		p.size *= p.sizes[i]
	}
	p.h = h.sum()

	return p, nil
}

// Rank returns the number of components.
func (p *Prod) Rank() int { return len(p.ms) }

// Component returns component i.
func (p *Prod) Component(i int) Mesh { return p.ms[i] }

// Components returns a copy of the component list.
func (p *Prod) Components() []Mesh { return slices.Clone(p.ms) }

// Replace returns a new product with component i substituted by m.
func (p *Prod) Replace(i int, m Mesh) (*Prod, error) {
	if i < 0 || i >= len(p.ms) {
		return nil, meshErrorf(opNewProd, fmt.Errorf("component %d of %d: %w", i, len(p.ms), ErrIndexOutOfRange))
	}
	ms := slices.Clone(p.ms)
	ms[i] = m

	return NewProd(ms...)
}

// Size returns Π component sizes.
func (p *Prod) Size() int { return p.size }

// ComponentSizes returns the size of every component.
func (p *Prod) ComponentSizes() []int { return slices.Clone(p.sizes) }

// FlattenDataIndex combines component data indices row-major.
func (p *Prod) FlattenDataIndex(ds []int) (int, error) {
	if len(ds) != len(p.ms) {
		return 0, meshErrorf(opToDataIndex, fmt.Errorf("%d data indices for %d components: %w", len(ds), len(p.ms), ErrDimensionMismatch))
	}
	d := 0
	for i, di := range ds {
		if di < 0 || di >= p.sizes[i] {
			return 0, indexError(opToDataIndex, di, 0, p.sizes[i]-1)
		}
		d += di * p.strides[i]
	}

	return d, nil
}

// SplitDataIndex returns the component data indices of d.
func (p *Prod) SplitDataIndex(d int) ([]int, error) {
	if d < 0 || d >= p.size {
		return nil, indexError(opToIndex, d, 0, p.size-1)
	}
	ds := make([]int, len(p.ms))
	for i := range ds {
		ds[i] = d / p.strides[i]
		d %= p.strides[i]
	}

	return ds, nil
}

// ToDataIndex maps one index per component to the flat data index.
func (p *Prod) ToDataIndex(index []any) (int, error) {
	if len(index) != len(p.ms) {
		return 0, meshErrorf(opToDataIndex, fmt.Errorf("%d indices for %d components: %w", len(index), len(p.ms), ErrDimensionMismatch))
	}
	ds := make([]int, len(index))
	for i, idx := range index {
		d, err := p.ms[i].DataIndexOf(idx)
		if err != nil {
			return 0, fmt.Errorf("component %d: %w", i, err)
		}
		ds[i] = d
	}

	return p.FlattenDataIndex(ds)
}

// ToIndex maps a flat data index to one index per component.
func (p *Prod) ToIndex(d int) ([]any, error) {
	ds, err := p.SplitDataIndex(d)
	if err != nil {
		return nil, err
	}
	index := make([]any, len(ds))
	for i, di := range ds {
		if index[i], err = p.ms[i].IndexOf(di); err != nil {
			return nil, err
		}
	}

	return index, nil
}

// Points yields the product points lazily, last component fastest. Value
// holds the component values (see ValueAt).
func (p *Prod) Points() iter.Seq[Point[[]any, []any]] {
	return func(yield func(Point[[]any, []any]) bool) {
		for d := 0; d < p.size; d++ {
			ds, _ := p.SplitDataIndex(d)
			index := make([]any, len(ds))
			value := make([]any, len(ds))
			for i, di := range ds {
				index[i], _ = p.ms[i].IndexOf(di)
				value[i] = ValueAt(p.ms[i], di)
			}
			if !yield(Point[[]any, []any]{Index: index, DataIndex: d, MeshHash: p.h, Value: value}) {
				return
			}
		}
	}
}

func (p *Prod) MeshHash() uint64 { return p.h }
func (p *Prod) Kind() Kind { return KindProd }
func (p *Prod) FormatTag() string { return KindProd.FormatTag() }
func (p *Prod) sealed() {}

// IndexOf is ToIndex returning any.
func (p *Prod) IndexOf(d int) (any, error) { return p.ToIndex(d) }

// DataIndexOf accepts a []any index.
func (p *Prod) DataIndexOf(index any) (int, error) {
	idx, ok := index.([]any)
	if !ok {
		return 0, meshErrorf(opToDataIndex, fmt.Errorf("got %T, want []any: %w", index, ErrIndexType))
	}

	return p.ToDataIndex(idx)
}

// Equal compares components pairwise.
func (p *Prod) Equal(other Mesh) bool {
	o, ok := other.(*Prod)
	if !ok || len(o.ms) != len(p.ms) {
		return false
	}
	for i := range p.ms {
		if !p.ms[i].Equal(o.ms[i]) {
			return false
		}
	}

	return true
}

func (p *Prod) String() string {
	parts := make([]string, len(p.ms))
	for i, m := range p.ms {
		parts[i] = m.String()
	}

	return "Prod(" + strings.Join(parts, " x ") + ")"
}

// ValueAt returns the value of data index d of a non-product mesh; the
// dynamic type follows the mesh kind (float64, domain.MatsubaraFreq, int,
// domain.Vec3). Product meshes yield their component values as []any.
// d must be valid.
func ValueAt(m Mesh, d int) any {
	switch v := m.(type) {
	case *ImTime:
		return v.ToValue(d)
	case *ReTime:
		return v.ToValue(d)
	case *ReFreq:
		return v.ToValue(d)
	case *Legendre:
		return d
	case *ImFreq:
		return v.ValueAt(d)
	case *DLR:
		return v.ToValue(d)
	case *DLRImTime:
		return v.ToValue(d)
	case *DLRImFreq:
		return v.ToValue(d)
	case *CyclicLattice:
		n, _ := v.ToIndex(d)
		return v.ToValue(n)
	case *BrillouinZone:
		n, _ := v.ToIndex(d)
		return v.ToValue(n)
	case *Prod:
		ds, _ := v.SplitDataIndex(d)
		out := make([]any, len(ds))
		for i, di := range ds {
			out[i] = ValueAt(v.ms[i], di)
		}
		return out
	}

	return nil
}
