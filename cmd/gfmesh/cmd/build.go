// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/gfmesh/archive"
	"github.com/katalvlaran/gfmesh/mesh"
	"github.com/spf13/cobra"
)

func newBuildCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "build",
		Short: "Build a DLR coefficient mesh and store it in an archive",
		Args:  cobra.NoArgs,
		RunE:  runBuild,
	}
	meshFlags(c)
	archiveFlags(c)

	return c
}

func runBuild(c *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	m, err := cfg.NewDLR()
	if err != nil {
		return err
	}

	f, err := archive.OpenBolt(cfg.Archive)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := mesh.Write(f.Root(), cfg.Key, m); err != nil {
		return err
	}
	slog.Info("mesh stored", "archive", cfg.Archive, "key", cfg.Key, "rank", m.Rank())
	fmt.Fprintf(c.OutOrStdout(), "%s rank=%d hash=%016x\n", m, m.Rank(), m.MeshHash())

	return nil
}
