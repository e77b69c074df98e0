// SPDX-License-Identifier: MIT

package ndarray

import (
	"errors"
	"fmt"
)

var (
	// ErrShape is returned for empty, negative or mismatching shapes.
	ErrShape = errors.New("ndarray: invalid or mismatching shape")

	// ErrAxis is returned when an axis is outside [0, rank).
	ErrAxis = errors.New("ndarray: axis out of range")

	// ErrOutOfRange is returned when an element index is outside the shape.
	ErrOutOfRange = errors.New("ndarray: index out of range")
)

const (
	opNew       = "New"
	opFromSlice = "FromSlice"
	opAt        = "At"
	opSet       = "Set"
	opReshape   = "Reshape"
	opFlatten   = "Flatten2D"
	opUnflatten = "Unflatten2D"
	opAdd       = "Add"
	opSub       = "Sub"
	opDiff      = "MaxAbsDiff"
)

// arrayErrorf wraps err with an operation tag.
func arrayErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
