// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"log/slog"
	"math"
	"math/cmplx"

	"github.com/katalvlaran/gfmesh/archive"
	"github.com/katalvlaran/gfmesh/domain"
	"github.com/katalvlaran/gfmesh/gf"
	"github.com/katalvlaran/gfmesh/mesh"
	"github.com/spf13/cobra"
)

func newTransformCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "transform",
		Short: "Run a single-pole Green's function through the DLR pipeline",
		Long: "Samples G(τ) of a single pole on the DLR τ nodes, converts it to DLR coefficients, " +
			"evaluates it on a Matsubara mesh and prints the deviation from 1/(iν-ε). " +
			"With --save the coefficient Gf is written to the archive.",
		Args: cobra.NoArgs,
		RunE: runTransform,
	}
	meshFlags(c)
	archiveFlags(c)
	d := DefaultRunConfig()
	c.Flags().Float64("pole", d.Pole, "pole energy ε")
	c.Flags().Int("n-iw", d.NIw, "non-negative Matsubara frequencies, printed with their negatives")
	c.Flags().Bool("save", false, "write the coefficient Gf to the archive")

	return c
}

// poleTau is the single-pole imaginary-time Green's function
// -e^{-ετ}/(1 - s·e^{-βε}) with s = +1 for bosons and -1 for fermions.
func poleTau(stat domain.Statistic, beta, e, tau float64) float64 {
	return -math.Exp(-e*tau) / (1 - float64(stat.Sign())*math.Exp(-beta*e))
}

func runTransform(c *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	stat, _ := domain.ParseStatistic(cfg.Statistic)
	if stat == domain.Boson && cfg.Pole == 0 {
		return fmt.Errorf("bosonic pole at ε=0: %w", ErrConfig)
	}

	nodes, err := cfg.NewDLR()
	if err != nil {
		return err
	}
	tau := nodes.ImTime()
	g, err := gf.New(tau)
	if err != nil {
		return err
	}
	if err := g.Fill(func(d int) []complex128 {
		return []complex128{complex(poleTau(stat, cfg.Beta, cfg.Pole, tau.ToValue(d)), 0)}
	}); err != nil {
		return err
	}

	coeffs, err := gf.MakeGfDLR(g)
	if err != nil {
		return err
	}
	iw, err := gf.MakeGfImFreq(coeffs, cfg.NIw)
	if err != nil {
		return err
	}
	slog.Debug("pipeline done", "rank", tau.Rank(), "n_iw", cfg.NIw)

	freqs, ok := iw.Mesh().(*mesh.ImFreq)
	if !ok {
		return fmt.Errorf("unexpected output mesh %s", iw.Mesh().FormatTag())
	}
	out := c.OutOrStdout()
	fmt.Fprintf(out, "# %s\n# n  iν  G(iν)  |G-1/(iν-ε)|\n", tau)
	var worst float64
	for p := range freqs.Points() {
		v, err := iw.At(p.DataIndex)
		if err != nil {
			return err
		}
		diff := cmplx.Abs(v[0] - 1/(p.Value.Complex()-complex(cfg.Pole, 0)))
		worst = max(worst, diff)
		fmt.Fprintf(out, "%d %.10g %.10g%+.10gi %.3e\n", p.Index, p.Value.Imag(), real(v[0]), imag(v[0]), diff)
	}
	fmt.Fprintf(out, "# max deviation %.3e\n", worst)

	save, err := c.Flags().GetBool("save")
	if err != nil || !save {
		return err
	}
	f, err := archive.OpenBolt(cfg.Archive)
	if err != nil {
		return err
	}
	defer f.Close()

	return gf.WriteGf(f.Root(), cfg.Key, coeffs)
}
