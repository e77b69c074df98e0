// SPDX-License-Identifier: MIT

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/katalvlaran/gfmesh/archive"
	"github.com/katalvlaran/gfmesh/mesh"
	"github.com/spf13/cobra"
)

// ErrNoPoints indicates a --points request on a mesh the listing does not cover.
var ErrNoPoints = errors.New("gfmesh: point listing not supported for this mesh")

func newShowCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "show",
		Short: "Describe a mesh stored in an archive",
		Args:  cobra.NoArgs,
		RunE:  runShow,
	}
	archiveFlags(c)
	c.Flags().Bool("points", false, "list every mesh point")

	return c
}

func runShow(c *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	f, err := archive.OpenBoltReadOnly(cfg.Archive)
	if err != nil {
		return err
	}
	defer f.Close()

	m, err := mesh.Read(f.Root(), cfg.Key)
	if err != nil {
		return err
	}
	out := c.OutOrStdout()
	fmt.Fprintf(out, "%s\nkind=%s size=%d hash=%016x\n", m, m.FormatTag(), m.Size(), m.MeshHash())

	points, err := c.Flags().GetBool("points")
	if err != nil || !points {
		return err
	}

	return listPoints(out, m)
}

// listPoints prints "data index, value" for the meshes that carry values.
func listPoints(w io.Writer, m mesh.Mesh) error {
	switch m := m.(type) {
	case *mesh.DLR:
		for p := range m.Points() {
			fmt.Fprintf(w, "%d %.12g\n", p.DataIndex, p.Value)
		}
	case *mesh.DLRImTime:
		for p := range m.Points() {
			fmt.Fprintf(w, "%d %.12g\n", p.DataIndex, p.Value)
		}
	case *mesh.DLRImFreq:
		for p := range m.Points() {
			fmt.Fprintf(w, "%d %s\n", p.DataIndex, p.Value)
		}
	default:
		return fmt.Errorf("list points of %s: %w", m.FormatTag(), ErrNoPoints)
	}

	return nil
}
