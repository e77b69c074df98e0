// SPDX-License-Identifier: MIT

package archive

import "fmt"

// FormatKey is the reserved key holding a group's format tag.
const FormatKey = "Format"

// Group is one node of an archive tree.
//
// Keys are unique per group across datasets and subgroups. Writing an
// existing dataset key overwrites it.
type Group interface {
	// Path returns the slash-separated path of the group, "/" for the root.
	Path() string

	// CreateGroup returns the subgroup key, creating it if needed.
	CreateGroup(key string) (Group, error)
	// OpenGroup returns an existing subgroup or ErrNotFound.
	OpenGroup(key string) (Group, error)
	// Has reports whether key names a dataset or a subgroup.
	Has(key string) bool

	WriteFloat(key string, v float64) error
	ReadFloat(key string) (float64, error)
	WriteInt(key string, v int) error
	ReadInt(key string) (int, error)
	WriteString(key string, v string) error
	ReadString(key string) (string, error)
	WriteFloats(key string, v []float64) error
	ReadFloats(key string) ([]float64, error)
	WriteInts(key string, v []int) error
	ReadInts(key string) ([]int, error)
	WriteComplexes(key string, v []complex128) error
	ReadComplexes(key string) ([]complex128, error)
}

// WriteFormat stores tag under FormatKey.
func WriteFormat(g Group, tag string) error {
	return g.WriteString(FormatKey, tag)
}

// ReadFormat returns the format tag of g.
func ReadFormat(g Group) (string, error) {
	return g.ReadString(FormatKey)
}

// AssertFormat fails with ErrFormatMismatch unless g is tagged want.
// The error names both tags.
func AssertFormat(g Group, want string) error {
	got, err := ReadFormat(g)
	if err != nil {
		return err
	}
	if got != want {
		return archiveErrorf(g.Path(), FormatKey, fmt.Errorf("found %q, expected %q: %w", got, want, ErrFormatMismatch))
	}

	return nil
}

func childPath(parent, key string) string {
	if parent == "/" {
		return "/" + key
	}

	return parent + "/" + key
}
