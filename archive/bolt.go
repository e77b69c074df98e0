// SPDX-License-Identifier: MIT

package archive

import (
	"fmt"
	"os"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

// rootBucket holds the archive root; bbolt keeps no keys at top level.
var rootBucket = []byte("gfmesh")

// BoltFile is a single-file archive. Each Write is its own transaction.
type BoltFile struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the archive file at path.
func OpenBolt(path string) (*BoltFile, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("archive: open %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(rootBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("archive: init %s: %w", path, err)
	}

	return &BoltFile{db: db}, nil
}

// OpenBoltReadOnly opens an existing archive without write access.
func OpenBoltReadOnly(path string) (*BoltFile, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("archive: open %s: %w", path, err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("archive: open %s: %w", path, err)
	}

	return &BoltFile{db: db}, nil
}

// Root returns the root group.
func (f *BoltFile) Root() Group {
	return newBoltGroup(f.db, nil)
}

// Close releases the file.
func (f *BoltFile) Close() error {
	return f.db.Close()
}

// boltGroup addresses a nested bucket by its key path below rootBucket.
type boltGroup struct {
	datasets
	db   *bolt.DB
	keys []string
}

func newBoltGroup(db *bolt.DB, keys []string) *boltGroup {
	g := &boltGroup{db: db, keys: keys}
	g.datasets = datasets{s: g}

	return g
}

func (g *boltGroup) Path() string {
	return "/" + strings.Join(g.keys, "/")
}

func (g *boltGroup) bucket(tx *bolt.Tx) (*bolt.Bucket, error) {
	b := tx.Bucket(rootBucket)
	if b == nil {
		return nil, ErrNotFound
	}
	for _, k := range g.keys {
		if b = b.Bucket([]byte(k)); b == nil {
			return nil, ErrNotFound
		}
	}

	return b, nil
}

func (g *boltGroup) CreateGroup(key string) (Group, error) {
	if key == "" {
		return nil, archiveErrorf(g.Path(), key, ErrEmptyKey)
	}
	err := g.db.Update(func(tx *bolt.Tx) error {
		b, err := g.bucket(tx)
		if err != nil {
			return err
		}
		if b.Get([]byte(key)) != nil {
			return ErrKeyConflict
		}
		_, err = b.CreateBucketIfNotExists([]byte(key))

		return err
	})
	if err != nil {
		return nil, archiveErrorf(g.Path(), key, err)
	}

	return newBoltGroup(g.db, append(append([]string(nil), g.keys...), key)), nil
}

func (g *boltGroup) OpenGroup(key string) (Group, error) {
	err := g.db.View(func(tx *bolt.Tx) error {
		b, err := g.bucket(tx)
		if err != nil {
			return err
		}
		if b.Bucket([]byte(key)) == nil {
			return ErrNotFound
		}

		return nil
	})
	if err != nil {
		return nil, archiveErrorf(g.Path(), key, err)
	}

	return newBoltGroup(g.db, append(append([]string(nil), g.keys...), key)), nil
}

func (g *boltGroup) Has(key string) bool {
	found := false
	_ = g.db.View(func(tx *bolt.Tx) error {
		b, err := g.bucket(tx)
		if err != nil {
			return err
		}
		found = b.Get([]byte(key)) != nil || b.Bucket([]byte(key)) != nil

		return nil
	})

	return found
}

func (g *boltGroup) get(key string) ([]byte, error) {
	var out []byte
	err := g.db.View(func(tx *bolt.Tx) error {
		b, err := g.bucket(tx)
		if err != nil {
			return err
		}
		v := b.Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		out = append([]byte(nil), v...) // v is only valid inside the transaction

		return nil
	})

	return out, err
}

func (g *boltGroup) put(key string, val []byte) error {
	return g.db.Update(func(tx *bolt.Tx) error {
		b, err := g.bucket(tx)
		if err != nil {
			return err
		}
		if b.Bucket([]byte(key)) != nil {
			return ErrKeyConflict
		}

		return b.Put([]byte(key), val)
	})
}
