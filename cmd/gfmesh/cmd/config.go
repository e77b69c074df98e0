// SPDX-License-Identifier: MIT

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/katalvlaran/gfmesh/dlr"
	"github.com/katalvlaran/gfmesh/domain"
	"github.com/katalvlaran/gfmesh/mesh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ErrConfig indicates an invalid run file or flag combination.
var ErrConfig = errors.New("gfmesh: invalid run configuration")

// RunConfig is the YAML run file shared by all commands. Flags given on the
// command line override the file.
type RunConfig struct {
	Beta       float64 `yaml:"beta"`
	Statistic  string  `yaml:"statistic"` // "F" or "B"
	WMax       float64 `yaml:"w_max"`
	Eps        float64 `yaml:"eps"`
	Symmetrize bool    `yaml:"symmetrize"`

	Archive string `yaml:"archive"`
	Key     string `yaml:"key"`

	Pole float64 `yaml:"pole"` // single-pole energy used by transform
	NIw  int     `yaml:"n_iw"` // Matsubara frequencies printed by transform
}

// DefaultRunConfig returns the values used when neither file nor flag sets them.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Beta:      10,
		Statistic: "F",
		WMax:      2,
		Eps:       1e-10,
		Archive:   "gfmesh.gfa",
		Key:       "dlr",
		Pole:      0.5,
		NIw:       8,
	}
}

// LoadRunConfig reads path over the defaults; an empty path yields the defaults.
func LoadRunConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read run file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse run file %s: %v: %w", path, err, ErrConfig)
	}

	return cfg, nil
}

// Validate checks the mesh parameters.
func (c RunConfig) Validate() error {
	if _, err := domain.ParseStatistic(c.Statistic); err != nil {
		return fmt.Errorf("%v: %w", err, ErrConfig)
	}
	if err := domain.ValidateBeta(c.Beta); err != nil {
		return fmt.Errorf("%v: %w", err, ErrConfig)
	}
	if err := dlr.ValidateParams(c.Beta*c.WMax, c.Eps); err != nil {
		return fmt.Errorf("%v: %w", err, ErrConfig)
	}
	if c.Key == "" {
		return fmt.Errorf("empty archive key: %w", ErrConfig)
	}
	if c.NIw < 1 {
		return fmt.Errorf("n_iw=%d: %w", c.NIw, ErrConfig)
	}

	return nil
}

// DLROptions returns the basis options selected by the run.
func (c RunConfig) DLROptions() []dlr.Option {
	if c.Symmetrize {
		return []dlr.Option{dlr.WithSymmetrize()}
	}

	return nil
}

// NewDLR builds the coefficient mesh described by the run.
func (c RunConfig) NewDLR() (*mesh.DLR, error) {
	stat, err := domain.ParseStatistic(c.Statistic)
	if err != nil {
		return nil, err
	}

	return mesh.NewDLR(c.Beta, stat, c.WMax, c.Eps, c.DLROptions()...)
}

// meshFlags registers the run-file overrides on c.
func meshFlags(c *cobra.Command) {
	d := DefaultRunConfig()
	f := c.Flags()
	f.Float64("beta", d.Beta, "inverse temperature")
	f.String("stat", d.Statistic, "statistic: F or B")
	f.Float64("wmax", d.WMax, "real-frequency cutoff")
	f.Float64("eps", d.Eps, "representation accuracy")
	f.Bool("symmetrize", d.Symmetrize, "select symmetric node pairs")
}

func archiveFlags(c *cobra.Command) {
	d := DefaultRunConfig()
	c.Flags().String("archive", d.Archive, "bbolt archive path")
	c.Flags().String("key", d.Key, "group key inside the archive")
}

// resolveConfig loads the run file and applies explicitly set flags.
func resolveConfig(c *cobra.Command) (RunConfig, error) {
	path, err := c.Flags().GetString(flagConfig)
	if err != nil {
		return RunConfig{}, err
	}
	cfg, err := LoadRunConfig(path)
	if err != nil {
		return cfg, err
	}
	f := c.Flags()
	overrides := []struct {
		name  string
		apply func() error
	}{
		{"beta", func() (err error) { cfg.Beta, err = f.GetFloat64("beta"); return }},
		{"stat", func() (err error) { cfg.Statistic, err = f.GetString("stat"); return }},
		{"wmax", func() (err error) { cfg.WMax, err = f.GetFloat64("wmax"); return }},
		{"eps", func() (err error) { cfg.Eps, err = f.GetFloat64("eps"); return }},
		{"symmetrize", func() (err error) { cfg.Symmetrize, err = f.GetBool("symmetrize"); return }},
		{"archive", func() (err error) { cfg.Archive, err = f.GetString("archive"); return }},
		{"key", func() (err error) { cfg.Key, err = f.GetString("key"); return }},
		{"pole", func() (err error) { cfg.Pole, err = f.GetFloat64("pole"); return }},
		{"n-iw", func() (err error) { cfg.NIw, err = f.GetInt("n-iw"); return }},
	}
	for _, o := range overrides {
		if f.Lookup(o.name) == nil || !f.Changed(o.name) {
			continue
		}
		if err := o.apply(); err != nil {
			return cfg, err
		}
	}

	return cfg, cfg.Validate()
}
