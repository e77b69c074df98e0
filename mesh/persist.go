// SPDX-License-Identifier: MIT

package mesh

import (
	"fmt"
	"math"

	"github.com/katalvlaran/gfmesh/archive"
	"github.com/katalvlaran/gfmesh/dlr"
	"github.com/katalvlaran/gfmesh/domain"
)

// Persisted keys.
const (
	keyMin         = "min"
	keyMax         = "max"
	keySize        = "size"
	keyBeta        = "beta"
	keyStatistic   = "statistic"
	keyPositive    = "positive_freq_only"
	keyStartAt0    = "start_at_0" // legacy spelling of keyPositive
	keyDims        = "dims"
	keyPeriodMat   = "periodization_matrix" // legacy, must be diagonal
	keyUnits       = "units"
	keyNDim        = "ndim"
	keyLattice     = "bravais_lattice"
	keyZone        = "brillouin_zone"
	keyWMax        = "w_max"
	keyLambdaUpper = "Lambda" // legacy
	keyLambdaLower = "lambda" // legacy
	keyEps         = "eps"
	keySymmetrize  = "symmetrize"
	keyDLRFreq     = "dlr_freq"
	keyDLRIt       = "dlr_it"
	keyDLRIf       = "dlr_if"
	keyNodes       = "nodes"
	keyMatrix      = "matrix"
)

// ComponentKey returns the group key of product component i.
func ComponentKey(i int) string { return fmt.Sprintf("MeshComponent%d", i) }

// Write stores m in a new subgroup key of g.
func Write(g archive.Group, key string, m Mesh) error {
	sub, err := g.CreateGroup(key)
	if err != nil {
		return meshErrorf(opWrite, err)
	}

	return WriteTo(sub, m)
}

// Read loads the mesh stored in subgroup key of g.
func Read(g archive.Group, key string) (Mesh, error) {
	sub, err := g.OpenGroup(key)
	if err != nil {
		return nil, meshErrorf(opRead, err)
	}

	return ReadFrom(sub)
}

// ReadAs loads a mesh of a statically known type; a stored mesh of another
// kind yields archive.ErrFormatMismatch.
func ReadAs[M Mesh](g archive.Group, key string) (M, error) {
	var zero M
	sub, err := g.OpenGroup(key)
	if err != nil {
		return zero, meshErrorf(opRead, err)
	}
	if err := archive.AssertFormat(sub, zero.FormatTag()); err != nil {
		return zero, meshErrorf(opRead, err)
	}
	m, err := ReadFrom(sub)
	if err != nil {
		return zero, err
	}

	return m.(M), nil
}

// WriteTo stores m directly into g, format tag included.
func WriteTo(g archive.Group, m Mesh) error {
	if err := archive.WriteFormat(g, m.FormatTag()); err != nil {
		return meshErrorf(opWrite, err)
	}
	var err error
	switch v := m.(type) {
	case *ImTime:
		err = writeLinear(g, v.Linear, &v.dom.Beta, &v.dom.Stat)
	case *ReTime:
		err = writeLinear(g, v.Linear, nil, nil)
	case *ReFreq:
		err = writeLinear(g, v.Linear, nil, nil)
	case *Legendre:
		err = writeLinear(g, v.Linear, &v.dom.Beta, &v.dom.Stat)
	case *ImFreq:
		err = writeImFreq(g, v)
	case *CyclicLattice:
		err = writeCyclicLattice(g, v)
	case *BrillouinZone:
		err = writeBrillouinZone(g, v)
	case *DLR:
		err = writeDLR(g, v.dlrCommon)
	case *DLRImTime:
		err = writeDLR(g, v.dlrCommon)
	case *DLRImFreq:
		err = writeDLR(g, v.dlrCommon)
	case *Prod:
		for i, c := range v.ms {
			if err = Write(g, ComponentKey(i), c); err != nil {
				break
			}
		}
	}
	if err != nil {
		return meshErrorf(opWrite, err)
	}

	return nil
}

// ReadFrom dispatches on the format tag stored in g.
func ReadFrom(g archive.Group) (Mesh, error) {
	tag, err := archive.ReadFormat(g)
	if err != nil {
		return nil, meshErrorf(opRead, err)
	}
	var m Mesh
	switch tag {
	case KindImTime.FormatTag():
		m, err = readImTime(g)
	case KindReTime.FormatTag():
		m, err = readPlainLinear(g, func(a, b float64, n int) (Mesh, error) { return NewReTime(a, b, n) })
	case KindReFreq.FormatTag():
		m, err = readPlainLinear(g, func(a, b float64, n int) (Mesh, error) { return NewReFreq(a, b, n) })
	case KindLegendre.FormatTag():
		m, err = readLegendre(g)
	case KindImFreq.FormatTag():
		m, err = readImFreq(g)
	case KindCyclicLattice.FormatTag():
		m, err = readCyclicLattice(g)
	case KindBrillouinZone.FormatTag():
		m, err = readBrillouinZone(g)
	case KindDLR.FormatTag(), KindDLRImTime.FormatTag(), KindDLRImFreq.FormatTag():
		m, err = readDLR(g, tag)
	case KindProd.FormatTag():
		m, err = readProd(g)
	default:
		err = fmt.Errorf("found %q, expected a mesh tag: %w", tag, archive.ErrFormatMismatch)
	}
	if err != nil {
		return nil, meshErrorf(opRead, err)
	}

	return m, nil
}

func writeDomain(g archive.Group, beta *float64, stat *domain.Statistic) error {
	if beta == nil {
		return nil
	}
	if err := g.WriteFloat(keyBeta, *beta); err != nil {
		return err
	}

	return g.WriteString(keyStatistic, stat.String())
}

func readDomain(g archive.Group) (float64, domain.Statistic, error) {
	beta, err := g.ReadFloat(keyBeta)
	if err != nil {
		return 0, 0, err
	}
	s, err := g.ReadString(keyStatistic)
	if err != nil {
		return 0, 0, err
	}
	stat, err := domain.ParseStatistic(s)

	return beta, stat, err
}

func writeLinear(g archive.Group, l Linear, beta *float64, stat *domain.Statistic) error {
	if err := writeDomain(g, beta, stat); err != nil {
		return err
	}
	if err := g.WriteFloat(keyMin, l.xmin); err != nil {
		return err
	}
	if err := g.WriteFloat(keyMax, l.xmax); err != nil {
		return err
	}

	return g.WriteInt(keySize, l.n)
}

func readLinearParams(g archive.Group) (float64, float64, int, error) {
	lo, err := g.ReadFloat(keyMin)
	if err != nil {
		return 0, 0, 0, err
	}
	hi, err := g.ReadFloat(keyMax)
	if err != nil {
		return 0, 0, 0, err
	}
	n, err := g.ReadInt(keySize)

	return lo, hi, n, err
}

func readPlainLinear(g archive.Group, mk func(a, b float64, n int) (Mesh, error)) (Mesh, error) {
	lo, hi, n, err := readLinearParams(g)
	if err != nil {
		return nil, err
	}

	return mk(lo, hi, n)
}

func readImTime(g archive.Group) (Mesh, error) {
	beta, stat, err := readDomain(g)
	if err != nil {
		return nil, err
	}
	n, err := g.ReadInt(keySize)
	if err != nil {
		return nil, err
	}

	return NewImTime(beta, stat, n)
}

func readLegendre(g archive.Group) (Mesh, error) {
	beta, stat, err := readDomain(g)
	if err != nil {
		return nil, err
	}
	n, err := g.ReadInt(keySize)
	if err != nil {
		return nil, err
	}

	return NewLegendre(beta, stat, n)
}

func writeImFreq(g archive.Group, m *ImFreq) error {
	if err := writeDomain(g, &m.dom.Beta, &m.dom.Stat); err != nil {
		return err
	}
	if err := g.WriteInt(keySize, m.FullSize()); err != nil {
		return err
	}
	pos := 0
	if m.PositiveOnly() {
		pos = 1
	}

	return g.WriteInt(keyPositive, pos)
}

func readImFreq(g archive.Group) (Mesh, error) {
	beta, stat, err := readDomain(g)
	if err != nil {
		return nil, err
	}
	size, err := g.ReadInt(keySize)
	if err != nil {
		return nil, err
	}
	pos := 0
	switch {
	case g.Has(keyPositive):
		pos, err = g.ReadInt(keyPositive)
	case g.Has(keyStartAt0):
		pos, err = g.ReadInt(keyStartAt0)
	}
	if err != nil {
		return nil, err
	}

	opt, nIw := AllFrequencies, 0
	switch {
	case pos != 0:
		opt, nIw = PositiveFrequenciesOnly, size
	case stat == domain.Fermion:
		nIw = size / 2
	default:
		nIw = (size + 1) / 2
	}

	return NewImFreq(beta, stat, nIw, opt)
}

func writeLattice(g archive.Group, bl domain.BravaisLattice) error {
	units := make([]float64, 0, 9)
	for _, row := range bl.Units {
		units = append(units, row[:]...)
	}
	if err := g.WriteFloats(keyUnits, units); err != nil {
		return err
	}

	return g.WriteInt(keyNDim, bl.NDim)
}

func readLattice(g archive.Group) (domain.BravaisLattice, error) {
	units, err := g.ReadFloats(keyUnits)
	if err != nil {
		return domain.BravaisLattice{}, err
	}
	ndim, err := g.ReadInt(keyNDim)
	if err != nil {
		return domain.BravaisLattice{}, err
	}
	if len(units) != 9 || ndim < 1 || ndim > 3 {
		return domain.BravaisLattice{}, fmt.Errorf("%d units, ndim %d: %w", len(units), ndim, ErrInvalidMesh)
	}
	rows := make([][]float64, ndim)
	for i := range rows {
		rows[i] = units[3*i : 3*i+ndim]
	}
	bl, err := domain.NewBravaisLattice(rows)
	if err != nil {
		return domain.BravaisLattice{}, err
	}
	for i := range bl.Units {
		copy(bl.Units[i][:], units[3*i:3*i+3])
	}

	return bl, nil
}

// readDims prefers "dims" and falls back to a diagonal periodization matrix.
func readDims(g archive.Group) ([3]int, error) {
	var dims [3]int
	if g.Has(keyDims) {
		d, err := g.ReadInts(keyDims)
		if err != nil {
			return dims, err
		}
		if len(d) != 3 {
			return dims, fmt.Errorf("%d dims: %w", len(d), ErrInvalidMesh)
		}
		copy(dims[:], d)

		return dims, nil
	}
	flat, err := g.ReadInts(keyPeriodMat)
	if err != nil {
		return dims, err
	}
	if len(flat) != 9 {
		return dims, fmt.Errorf("periodization matrix with %d entries: %w", len(flat), ErrInvalidMesh)
	}
	var p PeriodizationMatrix
	for i := 0; i < 3; i++ {
		copy(p[i][:], flat[3*i:3*i+3])
	}

	return p.Dims()
}

func writeCyclicLattice(g archive.Group, m *CyclicLattice) error {
	if err := g.WriteInts(keyDims, m.dims[:]); err != nil {
		return err
	}
	lg, err := g.CreateGroup(keyLattice)
	if err != nil {
		return err
	}

	return writeLattice(lg, m.lattice)
}

func readCyclicLattice(g archive.Group) (Mesh, error) {
	dims, err := readDims(g)
	if err != nil {
		return nil, err
	}
	lg, err := g.OpenGroup(keyLattice)
	if err != nil {
		return nil, err
	}
	bl, err := readLattice(lg)
	if err != nil {
		return nil, err
	}

	return NewCyclicLattice(bl, dims)
}

func writeBrillouinZone(g archive.Group, m *BrillouinZone) error {
	if err := g.WriteInts(keyDims, m.dims[:]); err != nil {
		return err
	}
	zg, err := g.CreateGroup(keyZone)
	if err != nil {
		return err
	}
	lg, err := zg.CreateGroup(keyLattice)
	if err != nil {
		return err
	}

	return writeLattice(lg, m.bz.Lattice)
}

func readBrillouinZone(g archive.Group) (Mesh, error) {
	dims, err := readDims(g)
	if err != nil {
		return nil, err
	}
	zg, err := g.OpenGroup(keyZone)
	if err != nil {
		return nil, err
	}
	lg, err := zg.OpenGroup(keyLattice)
	if err != nil {
		return nil, err
	}
	bl, err := readLattice(lg)
	if err != nil {
		return nil, err
	}
	bz, err := domain.NewBrillouinZone(bl)
	if err != nil {
		return nil, err
	}

	return NewBrillouinZone(bz, dims)
}

func writeDLR(g archive.Group, c dlrCommon) error {
	if err := writeDomain(g, &c.beta, &c.stat); err != nil {
		return err
	}
	b := c.basis
	sym := 0
	if b.Symmetrized() {
		sym = 1
	}
	steps := []func() error{
		func() error { return g.WriteFloat(keyWMax, c.wmax) },
		func() error { return g.WriteFloat(keyEps, c.eps) },
		func() error { return g.WriteInt(keySymmetrize, sym) },
		func() error { return g.WriteFloats(keyDLRFreq, b.Freq()) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	it, err := g.CreateGroup(keyDLRIt)
	if err != nil {
		return err
	}
	if err := it.WriteFloats(keyNodes, b.ImTime().Nodes()); err != nil {
		return err
	}
	if err := it.WriteFloats(keyMatrix, b.ImTime().Cf2It()); err != nil {
		return err
	}
	iw, err := g.CreateGroup(keyDLRIf)
	if err != nil {
		return err
	}
	if err := iw.WriteInts(keyNodes, b.ImFreq().Nodes()); err != nil {
		return err
	}

	return iw.WriteComplexes(keyMatrix, b.ImFreq().Cf2If())
}

// readWMax prefers w_max and falls back to the legacy Λ keys.
func readWMax(g archive.Group, beta float64) (float64, error) {
	for _, key := range []string{keyWMax, keyLambdaUpper, keyLambdaLower} {
		if !g.Has(key) {
			continue
		}
		v, err := g.ReadFloat(key)
		if err != nil {
			return 0, err
		}
		if key != keyWMax {
			v /= beta
		}
		return v, nil
	}

	return 0, fmt.Errorf("%s: %w", keyWMax, archive.ErrNotFound)
}

func readDLR(g archive.Group, tag string) (Mesh, error) {
	beta, stat, err := readDomain(g)
	if err != nil {
		return nil, err
	}
	wmax, err := readWMax(g, beta)
	if err != nil {
		return nil, err
	}
	eps, err := g.ReadFloat(keyEps)
	if err != nil {
		return nil, err
	}
	sym := 0
	if g.Has(keySymmetrize) {
		if sym, err = g.ReadInt(keySymmetrize); err != nil {
			return nil, err
		}
	}
	freq, err := g.ReadFloats(keyDLRFreq)
	if err != nil {
		return nil, err
	}

	lambda := beta * wmax
	itg, err := g.OpenGroup(keyDLRIt)
	if err != nil {
		return nil, err
	}
	tNodes, err := itg.ReadFloats(keyNodes)
	if err != nil {
		return nil, err
	}
	tMat, err := itg.ReadFloats(keyMatrix)
	if err != nil {
		return nil, err
	}
	itOps, err := dlr.RestoreImTimeOps(lambda, freq, tNodes, tMat)
	if err != nil {
		return nil, err
	}
	ifg, err := g.OpenGroup(keyDLRIf)
	if err != nil {
		return nil, err
	}
	nNodes, err := ifg.ReadInts(keyNodes)
	if err != nil {
		return nil, err
	}
	nMat, err := ifg.ReadComplexes(keyMatrix)
	if err != nil {
		return nil, err
	}
	ifOps, err := dlr.RestoreImFreqOps(lambda, stat, freq, nNodes, nMat)
	if err != nil {
		return nil, err
	}
	basis, err := dlr.Restore(lambda, eps, stat, sym != 0, itOps, ifOps)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(wmax) || wmax <= 0 {
		return nil, fmt.Errorf("w_max=%g: %w", wmax, ErrInvalidMesh)
	}

	c := dlrCommon{beta: beta, stat: stat, wmax: wmax, eps: eps, basis: basis}
	switch tag {
	case KindDLRImTime.FormatTag():
		return newDLRImTimeFacade(c), nil
	case KindDLRImFreq.FormatTag():
		return newDLRImFreqFacade(c), nil
	}

	return newDLRFacade(c), nil
}

func readProd(g archive.Group) (Mesh, error) {
	var ms []Mesh
	for i := 0; g.Has(ComponentKey(i)); i++ {
		m, err := Read(g, ComponentKey(i))
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		ms = append(ms, m)
	}

	return NewProd(ms...)
}
