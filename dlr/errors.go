// SPDX-License-Identifier: MIT

package dlr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParams is returned for a non-positive Λ or ε outside (0,1).
	ErrInvalidParams = errors.New("dlr: invalid basis parameters")

	// ErrRankDeficient is returned when fewer nodes than basis functions
	// could be selected, i.e. the node system would be singular.
	ErrRankDeficient = errors.New("dlr: node selection is rank deficient")

	// ErrDimensionMismatch indicates data whose leading extent does not
	// match the basis rank or the number of sample points.
	ErrDimensionMismatch = errors.New("dlr: dimension mismatch")

	// ErrCorruptOps is returned when restored operator data is inconsistent.
	ErrCorruptOps = errors.New("dlr: inconsistent operator data")
)

const (
	opBuild       = "Build"
	opImTimeOps   = "ImTimeOps"
	opImFreqOps   = "ImFreqOps"
	opVals2Coefs  = "Vals2Coefs"
	opCoefs2Vals  = "Coefs2Vals"
	opFit         = "FitVals2Coefs"
	opRestoreIt   = "RestoreImTimeOps"
	opRestoreIf   = "RestoreImFreqOps"
	opRestoreBase = "Restore"
)

// dlrErrorf wraps err with an operation tag; err must be non-nil.
func dlrErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
