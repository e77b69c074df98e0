// SPDX-License-Identifier: MIT

package archive

import (
	"encoding/binary"
	"fmt"
	"math"
)

type kind byte

const (
	kindFloat kind = iota + 1
	kindInt
	kindString
	kindFloats
	kindInts
	kindComplexes
)

var kindNames = map[kind]string{
	kindFloat:     "float",
	kindInt:       "int",
	kindString:    "string",
	kindFloats:    "[]float",
	kindInts:      "[]int",
	kindComplexes: "[]complex",
}

func (k kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}

	return fmt.Sprintf("kind(%d)", byte(k))
}

func encodeFloats(k kind, v []float64) []byte {
	buf := make([]byte, 1+8*len(v))
	buf[0] = byte(k)
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[1+8*i:], math.Float64bits(f))
	}

	return buf
}

func encodeInts(k kind, v []int) []byte {
	buf := make([]byte, 1+8*len(v))
	buf[0] = byte(k)
	for i, n := range v {
		binary.LittleEndian.PutUint64(buf[1+8*i:], uint64(int64(n)))
	}

	return buf
}

func encodeString(v string) []byte {
	return append([]byte{byte(kindString)}, v...)
}

func encodeComplexes(v []complex128) []byte {
	flat := make([]float64, 2*len(v))
	for i, c := range v {
		flat[2*i], flat[2*i+1] = real(c), imag(c)
	}

	return encodeFloats(kindComplexes, flat)
}

// payload checks the kind tag and returns the body.
func payload(raw []byte, want kind) ([]byte, error) {
	if len(raw) == 0 {
		return nil, ErrCorrupt
	}
	if got := kind(raw[0]); got != want {
		return nil, fmt.Errorf("stored %s, requested %s: %w", got, want, ErrTypeMismatch)
	}

	return raw[1:], nil
}

func decodeFloats(raw []byte, want kind) ([]float64, error) {
	body, err := payload(raw, want)
	if err != nil {
		return nil, err
	}
	if len(body)%8 != 0 {
		return nil, fmt.Errorf("%d payload bytes: %w", len(body), ErrCorrupt)
	}
	out := make([]float64, len(body)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(body[8*i:]))
	}

	return out, nil
}

func decodeInts(raw []byte, want kind) ([]int, error) {
	body, err := payload(raw, want)
	if err != nil {
		return nil, err
	}
	if len(body)%8 != 0 {
		return nil, fmt.Errorf("%d payload bytes: %w", len(body), ErrCorrupt)
	}
	out := make([]int, len(body)/8)
	for i := range out {
		out[i] = int(int64(binary.LittleEndian.Uint64(body[8*i:])))
	}

	return out, nil
}

func decodeString(raw []byte) (string, error) {
	body, err := payload(raw, kindString)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

func decodeComplexes(raw []byte) ([]complex128, error) {
	flat, err := decodeFloats(raw, kindComplexes)
	if err != nil {
		return nil, err
	}
	if len(flat)%2 != 0 {
		return nil, ErrCorrupt
	}
	out := make([]complex128, len(flat)/2)
	for i := range out {
		out[i] = complex(flat[2*i], flat[2*i+1])
	}

	return out, nil
}

func decodeScalarFloat(raw []byte) (float64, error) {
	v, err := decodeFloats(raw, kindFloat)
	if err != nil {
		return 0, err
	}
	if len(v) != 1 {
		return 0, ErrCorrupt
	}

	return v[0], nil
}

func decodeScalarInt(raw []byte) (int, error) {
	v, err := decodeInts(raw, kindInt)
	if err != nil {
		return 0, err
	}
	if len(v) != 1 {
		return 0, ErrCorrupt
	}

	return v[0], nil
}
