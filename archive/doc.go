// Package archive is the persistence collaborator of gfmesh: a tree of named
// groups, each holding typed scalar and vector datasets.
//
// ✨ Backends:
//   - Memory: in-process tree, used by tests and as a scratch archive.
//   - Bolt: a single-file archive on go.etcd.io/bbolt; groups are nested
//     buckets, datasets are keys inside them.
//
// Both backends share one value codec (a 1-byte kind tag followed by
// little-endian payload), so a dataset written as []float64 cannot be read
// back as an int by accident: ErrTypeMismatch is returned instead.
//
// Every persisted object carries a format tag under the reserved key
// "Format"; readers call AssertFormat before touching any other key.
package archive
