// SPDX-License-Identifier: MIT

package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a missing dataset or group.
	ErrNotFound = errors.New("archive: key not found")

	// ErrTypeMismatch indicates a dataset read with the wrong element type.
	ErrTypeMismatch = errors.New("archive: dataset type mismatch")

	// ErrFormatMismatch indicates a group whose format tag differs from the
	// tag the reader expects.
	ErrFormatMismatch = errors.New("archive: format tag mismatch")

	// ErrKeyConflict is returned when a key is used both as a group and a dataset.
	ErrKeyConflict = errors.New("archive: key used as group and dataset")

	// ErrCorrupt indicates a payload that cannot be decoded.
	ErrCorrupt = errors.New("archive: corrupt dataset")

	// ErrEmptyKey rejects empty keys.
	ErrEmptyKey = errors.New("archive: empty key")
)

// archiveErrorf tags err with the group path and key; err must be non-nil.
func archiveErrorf(path, key string, err error) error {
	return fmt.Errorf("%s/%s: %w", path, key, err)
}
