// SPDX-License-Identifier: MIT

package mesh

import (
	"fmt"
	"iter"
	"math"
)

// Linear is a uniform grid of n points on [xmin, xmax]. It carries the
// index arithmetic shared by ImTime, ReTime, ReFreq and Legendre; it is not
// itself a Mesh. Indices and data indices coincide.
type Linear struct {
	xmin, xmax float64
	n          int
	delta      float64
	deltaInv   float64
}

// NewLinear validates xmin ≤ xmax and n ≥ 1.
// With n == 1 every point collapses to xmin and DeltaInv is +Inf.
func NewLinear(xmin, xmax float64, n int) (Linear, error) {
	if n < 1 || !(xmin <= xmax) || math.IsInf(xmin, 0) || math.IsInf(xmax, 0) {
		return Linear{}, meshErrorf(opNewLinear, fmt.Errorf("xmin=%g xmax=%g n=%d: %w", xmin, xmax, n, ErrInvalidMesh))
	}
	l := Linear{xmin: xmin, xmax: xmax, n: n, deltaInv: math.Inf(1)}
	if n > 1 {
		l.delta = (xmax - xmin) / float64(n-1)
		l.deltaInv = 1 / l.delta
	}

	return l, nil
}

// Size returns the number of points.
func (l Linear) Size() int { return l.n }

// XMin returns the lower bound.
func (l Linear) XMin() float64 { return l.xmin }

// XMax returns the upper bound.
func (l Linear) XMax() float64 { return l.xmax }

// Delta returns the spacing (0 for a single point).
func (l Linear) Delta() float64 { return l.delta }

// DeltaInv returns 1/Delta (+Inf for a single point).
func (l Linear) DeltaInv() float64 { return l.deltaInv }

// IsIndexValid reports 0 ≤ i < Size().
func (l Linear) IsIndexValid(i int) bool { return i >= 0 && i < l.n }

// ToDataIndex checks i and returns it.
func (l Linear) ToDataIndex(i int) (int, error) {
	if !l.IsIndexValid(i) {
		return 0, indexError(opToDataIndex, i, 0, l.n-1)
	}

	return i, nil
}

// ToIndex checks d and returns it.
func (l Linear) ToIndex(d int) (int, error) {
	if !l.IsIndexValid(d) {
		return 0, indexError(opToIndex, d, 0, l.n-1)
	}

	return d, nil
}

// ToValue returns xmin(1-t) + xmax·t with t = i/(n-1). The formula is
// evaluated for any i; callers validate with IsIndexValid.
func (l Linear) ToValue(i int) float64 {
	if l.n == 1 {
		return l.xmin
	}
	t := float64(i) / float64(l.n-1)

	return l.xmin*(1-t) + l.xmax*t
}

// IsValueValid reports xmin ≤ v ≤ xmax.
func (l Linear) IsValueValid(v float64) bool { return v >= l.xmin && v <= l.xmax }

// ClosestIndex returns the index nearest to v, floor((v-xmin)/delta + ½).
func (l Linear) ClosestIndex(v float64) (int, error) {
	if !l.IsValueValid(v) {
		return 0, meshErrorf(opClosest, fmt.Errorf("value %g outside [%g, %g]: %w", v, l.xmin, l.xmax, ErrValueOutOfRange))
	}
	if l.n == 1 {
		return 0, nil
	}

	return int(math.Floor((v-l.xmin)*l.deltaInv + 0.5)), nil
}

// InterpolationWeights returns the two neighbours of x and their weights.
// x is clamped to ≥ xmin; above xmax the weight saturates at the last point.
//
//	a = (x-xmin)/delta, i = min(floor(a), n-2), w = min(a-i, 1)
//	f(x) ≈ (1-w) f(i) + w f(i+1)
func (l Linear) InterpolationWeights(x float64) (i0, i1 int, w0, w1 float64) {
	if l.n == 1 {
		return 0, 0, 1, 0
	}
	if x >= l.xmax {
		return l.n - 2, l.n - 1, 0, 1
	}
	x = math.Max(x, l.xmin)
	a := (x - l.xmin) * l.deltaInv
	i := min(int(math.Floor(a)), l.n-2)
	w := math.Min(a-float64(i), 1)

	return i, i + 1, 1 - w, w
}

// Evaluate interpolates f linearly at x.
func (l Linear) Evaluate(f func(i int) complex128, x float64) complex128 {
	i0, i1, w0, w1 := l.InterpolationWeights(x)
	if w1 == 0 {
		return f(i0)
	}

	return complex(w0, 0)*f(i0) + complex(w1, 0)*f(i1)
}

func (l Linear) points(hash uint64) iter.Seq[Point[int, float64]] {
	return func(yield func(Point[int, float64]) bool) {
		for i := 0; i < l.n; i++ {
			if !yield(Point[int, float64]{Index: i, DataIndex: i, MeshHash: hash, Value: l.ToValue(i)}) {
				return
			}
		}
	}
}

func (l Linear) dataIndexOf(index any) (int, error) {
	if c, ok := index.(Closest[float64]); ok {
		return l.ClosestIndex(c.Value)
	}
	i, err := intIndex(opToDataIndex, index)
	if err != nil {
		return 0, err
	}

	return l.ToDataIndex(i)
}

func (l Linear) equal(o Linear) bool {
	return l.n == o.n && closeTo(l.xmin, o.xmin) && closeTo(l.xmax, o.xmax)
}

func (l Linear) hashInto(h *hasher) *hasher {
	return h.float(l.xmin).float(l.xmax).int(l.n)
}
