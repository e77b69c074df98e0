// SPDX-License-Identifier: MIT

package gf

import (
	"fmt"

	"github.com/katalvlaran/gfmesh/domain"
	"github.com/katalvlaran/gfmesh/mesh"
)

// Evaluate returns the target values of g at the domain point x:
//   - ImTime, ReTime, ReFreq: x float64, linear interpolation inside the mesh;
//   - ImFreq: x domain.MatsubaraFreq, value on the node;
//   - DLR coefficients: x float64 (τ ∈ [0, β]) or domain.MatsubaraFreq,
//     summing the expansion;
//   - CyclicLattice, BrillouinZone: x mesh.Index3, reduced periodically.
//
// DLR node meshes, Legendre and product meshes yield
// mesh.ErrEvaluationUnsupported.
func Evaluate(g *Gf, x any) ([]complex128, error) {
	out, err := evaluate(g, x)
	if err != nil {
		return nil, gfErrorf(opEvaluate, err)
	}

	return out, nil
}

func evaluate(g *Gf, x any) ([]complex128, error) {
	switch m := g.mesh.(type) {
	case *mesh.ImTime:
		return interpolate(g, m.Linear, x)
	case *mesh.ReTime:
		return interpolate(g, m.Linear, x)
	case *mesh.ReFreq:
		return interpolate(g, m.Linear, x)
	case *mesh.ImFreq:
		w, ok := x.(domain.MatsubaraFreq)
		if !ok {
			return nil, fmt.Errorf("got %T, want domain.MatsubaraFreq: %w", x, mesh.ErrIndexType)
		}

		return perElement(g, func(f func(d int) complex128) (complex128, error) { return m.Evaluate(f, w) })
	case *mesh.DLR:
		return sumExpansion(g, m, x)
	case clusterMesh:
		n, ok := x.(mesh.Index3)
		if !ok {
			return nil, fmt.Errorf("got %T, want mesh.Index3: %w", x, mesh.ErrIndexType)
		}
		d, err := m.ToDataIndex(m.IndexModulo(n))
		if err != nil {
			return nil, err
		}
		vals, err := g.At(d)
		if err != nil {
			return nil, err
		}

		return append([]complex128(nil), vals...), nil
	}

	return nil, fmt.Errorf("%s: %w", g.mesh.Kind(), mesh.ErrEvaluationUnsupported)
}

// clusterMesh is implemented by CyclicLattice and BrillouinZone.
type clusterMesh interface {
	IndexModulo(n mesh.Index3) mesh.Index3
	ToDataIndex(n mesh.Index3) (int, error)
}

// perElement runs a scalar evaluation once per target element.
func perElement(g *Gf, eval func(f func(d int) complex128) (complex128, error)) ([]complex128, error) {
	n := g.TargetSize()
	data := g.data.Data()
	out := make([]complex128, n)
	for k := range out {
		v, err := eval(func(d int) complex128 { return data[d*n+k] })
		if err != nil {
			return nil, err
		}
		out[k] = v
	}

	return out, nil
}

func interpolate(g *Gf, l mesh.Linear, x any) ([]complex128, error) {
	v, ok := x.(float64)
	if !ok {
		return nil, fmt.Errorf("got %T, want float64: %w", x, mesh.ErrIndexType)
	}
	if !l.IsValueValid(v) {
		return nil, fmt.Errorf("%g outside [%g, %g]: %w", v, l.XMin(), l.XMax(), mesh.ErrValueOutOfRange)
	}

	return perElement(g, func(f func(d int) complex128) (complex128, error) { return l.Evaluate(f, v), nil })
}

// sumExpansion evaluates Σ_l c_l K(x, ω_l) for every target element.
func sumExpansion(g *Gf, m *mesh.DLR, x any) ([]complex128, error) {
	var weights []complex128
	switch v := x.(type) {
	case float64:
		row, err := m.KernelImTime(v)
		if err != nil {
			return nil, err
		}
		weights = make([]complex128, len(row))
		for l, k := range row {
			weights[l] = complex(k, 0)
		}
	case domain.MatsubaraFreq:
		row, err := m.KernelImFreq(v)
		if err != nil {
			return nil, err
		}
		weights = row
	default:
		return nil, fmt.Errorf("got %T, want float64 or domain.MatsubaraFreq: %w", x, mesh.ErrIndexType)
	}

	out := make([]complex128, g.TargetSize())
	data := g.data.Data()
	n := len(out)
	for l, w := range weights {
		c := data[l*n : (l+1)*n]
		for k := range out {
			out[k] += w * c[k]
		}
	}

	return out, nil
}
