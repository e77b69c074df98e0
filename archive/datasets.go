// SPDX-License-Identifier: MIT

package archive

// rawStore is the byte-level contract a backend implements; datasets
// layers the typed Group methods on top of it.
type rawStore interface {
	Path() string
	get(key string) ([]byte, error)
	put(key string, val []byte) error
}

type datasets struct {
	s rawStore
}

func (d datasets) write(key string, val []byte) error {
	if key == "" {
		return archiveErrorf(d.s.Path(), key, ErrEmptyKey)
	}
	if err := d.s.put(key, val); err != nil {
		return archiveErrorf(d.s.Path(), key, err)
	}

	return nil
}

func read[T any](d datasets, key string, decode func([]byte) (T, error)) (T, error) {
	var zero T
	raw, err := d.s.get(key)
	if err != nil {
		return zero, archiveErrorf(d.s.Path(), key, err)
	}
	v, err := decode(raw)
	if err != nil {
		return zero, archiveErrorf(d.s.Path(), key, err)
	}

	return v, nil
}

func (d datasets) WriteFloat(key string, v float64) error {
	return d.write(key, encodeFloats(kindFloat, []float64{v}))
}

func (d datasets) ReadFloat(key string) (float64, error) {
	return read(d, key, decodeScalarFloat)
}

func (d datasets) WriteInt(key string, v int) error {
	return d.write(key, encodeInts(kindInt, []int{v}))
}

func (d datasets) ReadInt(key string) (int, error) {
	return read(d, key, decodeScalarInt)
}

func (d datasets) WriteString(key string, v string) error {
	return d.write(key, encodeString(v))
}

func (d datasets) ReadString(key string) (string, error) {
	return read(d, key, decodeString)
}

func (d datasets) WriteFloats(key string, v []float64) error {
	return d.write(key, encodeFloats(kindFloats, v))
}

func (d datasets) ReadFloats(key string) ([]float64, error) {
	return read(d, key, func(raw []byte) ([]float64, error) { return decodeFloats(raw, kindFloats) })
}

func (d datasets) WriteInts(key string, v []int) error {
	return d.write(key, encodeInts(kindInts, v))
}

func (d datasets) ReadInts(key string) ([]int, error) {
	return read(d, key, func(raw []byte) ([]int, error) { return decodeInts(raw, kindInts) })
}

func (d datasets) WriteComplexes(key string, v []complex128) error {
	return d.write(key, encodeComplexes(v))
}

func (d datasets) ReadComplexes(key string) ([]complex128, error) {
	return read(d, key, decodeComplexes)
}
