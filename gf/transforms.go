// SPDX-License-Identifier: MIT

package gf

import (
	"github.com/katalvlaran/gfmesh/dlr"
	"github.com/katalvlaran/gfmesh/mesh"
	"github.com/katalvlaran/gfmesh/ndarray"
)

// DefaultFitRcond is the relative singular-value cutoff of FitGfDLR.
const DefaultFitRcond = 1e-14

const (
	nameMakeDLR       = "make_gf_dlr"
	nameFitDLR        = "fit_gf_dlr"
	nameMakeDLRImTime = "make_gf_dlr_imtime"
	nameMakeDLRImFreq = "make_gf_dlr_imfreq"
	nameMakeImTime    = "make_gf_imtime"
	nameMakeImFreq    = "make_gf_imfreq"
)

// MakeGfDLR converts values on DLR τ or Matsubara nodes into DLR
// coefficients on the coefficient mesh of the same basis.
func MakeGfDLR(g *Gf) (*Gf, error) { return MakeGfDLRAxes(g, 0) }

// MakeGfDLRAxes is MakeGfDLR on the given components of a product mesh.
func MakeGfDLRAxes(g *Gf, axes ...int) (*Gf, error) {
	return applyAxes(nameMakeDLR, g, makeDLR, axes)
}

// MakeGfDLRBlock applies MakeGfDLR to every block member.
func MakeGfDLRBlock(b *Block) (*Block, error) { return mapBlock(b, MakeGfDLR) }

func makeDLR(m mesh.Mesh, vals *ndarray.Matrix) (mesh.Mesh, *ndarray.Matrix, error) {
	switch n := m.(type) {
	case *mesh.DLRImTime:
		c, err := n.Basis().ImTime().Vals2Coefs(vals)
		if err != nil {
			return nil, nil, err
		}

		return n.Coefficients(), c, nil
	case *mesh.DLRImFreq:
		c, err := n.Basis().ImFreq().Vals2Coefs(vals)
		if err != nil {
			return nil, nil, err
		}
		scale(c, complex(1/n.Beta(), 0))

		return n.Coefficients(), c, nil
	}

	return nil, nil, kindError(nameMakeDLR, m.Kind(), "DLRImTime or DLRImFreq")
}

// FitGfDLR builds a fresh DLR coefficient mesh for (β, statistic, w_max,
// eps) of g's imaginary-time mesh and fits the coefficients to the samples
// by truncated-SVD least squares.
func FitGfDLR(g *Gf, wmax, eps float64, opts ...dlr.Option) (*Gf, error) {
	return FitGfDLRAxes(g, wmax, eps, []int{0}, opts...)
}

// FitGfDLRAxes is FitGfDLR on the given components of a product mesh.
func FitGfDLRAxes(g *Gf, wmax, eps float64, axes []int, opts ...dlr.Option) (*Gf, error) {
	return applyAxes(nameFitDLR, g, fitDLR(wmax, eps, opts), axes)
}

// FitGfDLRBlock applies FitGfDLR to every block member.
func FitGfDLRBlock(b *Block, wmax, eps float64, opts ...dlr.Option) (*Block, error) {
	return mapBlock(b, func(g *Gf) (*Gf, error) { return FitGfDLR(g, wmax, eps, opts...) })
}

func fitDLR(wmax, eps float64, opts []dlr.Option) step {
	return func(m mesh.Mesh, vals *ndarray.Matrix) (mesh.Mesh, *ndarray.Matrix, error) {
		tau, ok := m.(*mesh.ImTime)
		if !ok {
			return nil, nil, kindError(nameFitDLR, m.Kind(), "ImTime")
		}
		out, err := mesh.NewDLR(tau.Beta(), tau.Statistic(), wmax, eps, opts...)
		if err != nil {
			return nil, nil, err
		}
		t := make([]float64, tau.Size())
		for i := range t {
			t[i] = dlr.RelativeTime(tau.ToValue(i) / tau.Beta())
		}
		c, err := out.Basis().ImTime().FitVals2Coefs(t, vals, DefaultFitRcond)
		if err != nil {
			return nil, nil, err
		}

		return out, c, nil
	}
}

// MakeGfDLRImTime evaluates DLR coefficients on the τ nodes.
func MakeGfDLRImTime(g *Gf) (*Gf, error) { return MakeGfDLRImTimeAxes(g, 0) }

// MakeGfDLRImTimeAxes is MakeGfDLRImTime on the given components.
func MakeGfDLRImTimeAxes(g *Gf, axes ...int) (*Gf, error) {
	return applyAxes(nameMakeDLRImTime, g, makeDLRImTime, axes)
}

// MakeGfDLRImTimeBlock applies MakeGfDLRImTime to every block member.
func MakeGfDLRImTimeBlock(b *Block) (*Block, error) { return mapBlock(b, MakeGfDLRImTime) }

func makeDLRImTime(m mesh.Mesh, c *ndarray.Matrix) (mesh.Mesh, *ndarray.Matrix, error) {
	d, ok := m.(*mesh.DLR)
	if !ok {
		return nil, nil, kindError(nameMakeDLRImTime, m.Kind(), "DLR")
	}
	v, err := d.Basis().ImTime().Coefs2Vals(c)
	if err != nil {
		return nil, nil, err
	}

	return d.ImTime(), v, nil
}

// MakeGfDLRImFreq evaluates DLR coefficients on the Matsubara nodes.
func MakeGfDLRImFreq(g *Gf) (*Gf, error) { return MakeGfDLRImFreqAxes(g, 0) }

// MakeGfDLRImFreqAxes is MakeGfDLRImFreq on the given components.
func MakeGfDLRImFreqAxes(g *Gf, axes ...int) (*Gf, error) {
	return applyAxes(nameMakeDLRImFreq, g, makeDLRImFreq, axes)
}

// MakeGfDLRImFreqBlock applies MakeGfDLRImFreq to every block member.
func MakeGfDLRImFreqBlock(b *Block) (*Block, error) { return mapBlock(b, MakeGfDLRImFreq) }

func makeDLRImFreq(m mesh.Mesh, c *ndarray.Matrix) (mesh.Mesh, *ndarray.Matrix, error) {
	d, ok := m.(*mesh.DLR)
	if !ok {
		return nil, nil, kindError(nameMakeDLRImFreq, m.Kind(), "DLR")
	}
	v, err := d.Basis().ImFreq().Coefs2Vals(c)
	if err != nil {
		return nil, nil, err
	}
	scale(v, complex(d.Beta(), 0))

	return d.ImFreq(), v, nil
}

// MakeGfImTime evaluates DLR coefficients on a new uniform τ mesh of nTau
// points by direct kernel summation.
func MakeGfImTime(g *Gf, nTau int) (*Gf, error) { return MakeGfImTimeAxes(g, nTau, 0) }

// MakeGfImTimeAxes is MakeGfImTime on the given components.
func MakeGfImTimeAxes(g *Gf, nTau int, axes ...int) (*Gf, error) {
	return applyAxes(nameMakeImTime, g, makeImTime(nTau), axes)
}

// MakeGfImTimeBlock applies MakeGfImTime to every block member.
func MakeGfImTimeBlock(b *Block, nTau int) (*Block, error) {
	return mapBlock(b, func(g *Gf) (*Gf, error) { return MakeGfImTime(g, nTau) })
}

func makeImTime(nTau int) step {
	return func(m mesh.Mesh, c *ndarray.Matrix) (mesh.Mesh, *ndarray.Matrix, error) {
		d, ok := m.(*mesh.DLR)
		if !ok {
			return nil, nil, kindError(nameMakeImTime, m.Kind(), "DLR")
		}
		out, err := mesh.NewImTime(d.Beta(), d.Statistic(), nTau)
		if err != nil {
			return nil, nil, err
		}
		v := ndarray.NewMatrix(out.Size(), c.Cols)
		for i := 0; i < out.Size(); i++ {
			row, err := d.KernelImTime(out.ToValue(i))
			if err != nil {
				return nil, nil, err
			}
			accumulate(v.Row(i), c, func(l int) complex128 { return complex(row[l], 0) })
		}

		return out, v, nil
	}
}

// MakeGfImFreq evaluates DLR coefficients on a new Matsubara mesh with nIw
// non-negative frequencies (both signs) by direct kernel summation.
func MakeGfImFreq(g *Gf, nIw int) (*Gf, error) { return MakeGfImFreqAxes(g, nIw, 0) }

// MakeGfImFreqAxes is MakeGfImFreq on the given components.
func MakeGfImFreqAxes(g *Gf, nIw int, axes ...int) (*Gf, error) {
	return applyAxes(nameMakeImFreq, g, makeImFreq(nIw), axes)
}

// MakeGfImFreqBlock applies MakeGfImFreq to every block member.
func MakeGfImFreqBlock(b *Block, nIw int) (*Block, error) {
	return mapBlock(b, func(g *Gf) (*Gf, error) { return MakeGfImFreq(g, nIw) })
}

func makeImFreq(nIw int) step {
	return func(m mesh.Mesh, c *ndarray.Matrix) (mesh.Mesh, *ndarray.Matrix, error) {
		d, ok := m.(*mesh.DLR)
		if !ok {
			return nil, nil, kindError(nameMakeImFreq, m.Kind(), "DLR")
		}
		out, err := mesh.NewImFreq(d.Beta(), d.Statistic(), nIw, mesh.AllFrequencies)
		if err != nil {
			return nil, nil, err
		}
		v := ndarray.NewMatrix(out.Size(), c.Cols)
		for i := 0; i < out.Size(); i++ {
			row, err := d.KernelImFreq(out.ValueAt(i))
			if err != nil {
				return nil, nil, err
			}
			accumulate(v.Row(i), c, func(l int) complex128 { return row[l] })
		}

		return out, v, nil
	}
}

// accumulate adds Σ_l w(l)·c[l, :] to dst.
func accumulate(dst []complex128, c *ndarray.Matrix, w func(l int) complex128) {
	for l := 0; l < c.Rows; l++ {
		wl := w(l)
		for k, v := range c.Row(l) {
			dst[k] += wl * v
		}
	}
}

func scale(m *ndarray.Matrix, s complex128) {
	for i := range m.Data {
		m.Data[i] *= s
	}
}

