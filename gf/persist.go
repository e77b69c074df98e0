// SPDX-License-Identifier: MIT

package gf

import (
	"fmt"

	"github.com/katalvlaran/gfmesh/archive"
	"github.com/katalvlaran/gfmesh/mesh"
	"github.com/katalvlaran/gfmesh/ndarray"
)

// Format tags and keys of persisted Green's functions.
const (
	FormatTag      = "Gf"
	BlockFormatTag = "BlockGf"

	keyMesh    = "mesh"
	keyData    = "data"
	keyShape   = "shape"
	keyName    = "name"
	keyNBlocks = "n_blocks"
)

func memberKey(i int) string { return fmt.Sprintf("Block%d", i) }

// WriteGf stores g in a new subgroup key of grp.
func WriteGf(grp archive.Group, key string, g *Gf) error {
	sub, err := grp.CreateGroup(key)
	if err != nil {
		return gfErrorf(opWrite, err)
	}
	if err := writeTo(sub, g); err != nil {
		return gfErrorf(opWrite, err)
	}

	return nil
}

func writeTo(grp archive.Group, g *Gf) error {
	if err := archive.WriteFormat(grp, FormatTag); err != nil {
		return err
	}
	if err := mesh.Write(grp, keyMesh, g.mesh); err != nil {
		return err
	}
	if err := grp.WriteInts(keyShape, g.data.Shape()); err != nil {
		return err
	}

	return grp.WriteComplexes(keyData, g.data.Data())
}

// ReadGf loads the Gf stored in subgroup key of grp.
func ReadGf(grp archive.Group, key string) (*Gf, error) {
	sub, err := grp.OpenGroup(key)
	if err != nil {
		return nil, gfErrorf(opRead, err)
	}
	g, err := readFrom(sub)
	if err != nil {
		return nil, gfErrorf(opRead, err)
	}

	return g, nil
}

func readFrom(grp archive.Group) (*Gf, error) {
	if err := archive.AssertFormat(grp, FormatTag); err != nil {
		return nil, err
	}
	m, err := mesh.Read(grp, keyMesh)
	if err != nil {
		return nil, err
	}
	shape, err := grp.ReadInts(keyShape)
	if err != nil {
		return nil, err
	}
	data, err := grp.ReadComplexes(keyData)
	if err != nil {
		return nil, err
	}
	a, err := ndarray.FromSlice(data, shape...)
	if err != nil {
		return nil, err
	}

	return FromArray(m, a)
}

// WriteBlock stores every member of b, with its name, under key.
func WriteBlock(grp archive.Group, key string, b *Block) error {
	sub, err := grp.CreateGroup(key)
	if err != nil {
		return gfErrorf(opWrite, err)
	}
	if err := archive.WriteFormat(sub, BlockFormatTag); err != nil {
		return gfErrorf(opWrite, err)
	}
	if err := sub.WriteInt(keyNBlocks, b.Len()); err != nil {
		return gfErrorf(opWrite, err)
	}
	for i, g := range b.gfs {
		mg, err := sub.CreateGroup(memberKey(i))
		if err != nil {
			return gfErrorf(opWrite, err)
		}
		if err := mg.WriteString(keyName, b.names[i]); err != nil {
			return gfErrorf(opWrite, err)
		}
		if err := writeTo(mg, g); err != nil {
			return gfErrorf(opWrite, fmt.Errorf("block %q: %w", b.names[i], err))
		}
	}

	return nil
}

// ReadBlock loads a block written by WriteBlock.
func ReadBlock(grp archive.Group, key string) (*Block, error) {
	sub, err := grp.OpenGroup(key)
	if err != nil {
		return nil, gfErrorf(opRead, err)
	}
	if err := archive.AssertFormat(sub, BlockFormatTag); err != nil {
		return nil, gfErrorf(opRead, err)
	}
	n, err := sub.ReadInt(keyNBlocks)
	if err != nil {
		return nil, gfErrorf(opRead, err)
	}
	names := make([]string, n)
	gfs := make([]*Gf, n)
	for i := range n {
		mg, err := sub.OpenGroup(memberKey(i))
		if err != nil {
			return nil, gfErrorf(opRead, err)
		}
		if names[i], err = mg.ReadString(keyName); err != nil {
			return nil, gfErrorf(opRead, err)
		}
		if gfs[i], err = readFrom(mg); err != nil {
			return nil, gfErrorf(opRead, fmt.Errorf("block %q: %w", names[i], err))
		}
	}

	return NewBlock(names, gfs)
}
