package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/katalvlaran/gfmesh/archive"
	"github.com/katalvlaran/gfmesh/domain"
	"github.com/katalvlaran/gfmesh/gf"
	"github.com/katalvlaran/gfmesh/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()

	return out.String(), err
}

func writeRunFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))

	return p
}

func TestLoadRunConfig(t *testing.T) {
	cfg, err := LoadRunConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRunConfig(), cfg)

	p := writeRunFile(t, "beta: 20\nstatistic: B\nw_max: 1.5\nsymmetrize: true\nn_iw: 3\n")
	cfg, err = LoadRunConfig(p)
	require.NoError(t, err)
	assert.Equal(t, 20.0, cfg.Beta)
	assert.Equal(t, "B", cfg.Statistic)
	assert.Equal(t, 1.5, cfg.WMax)
	assert.True(t, cfg.Symmetrize)
	assert.Equal(t, 3, cfg.NIw)
	assert.Equal(t, DefaultRunConfig().Eps, cfg.Eps)
	require.NoError(t, cfg.Validate())

	_, err = LoadRunConfig(writeRunFile(t, "beta: [1, 2\n"))
	assert.ErrorIs(t, err, ErrConfig)
	_, err = LoadRunConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunConfig_Validate(t *testing.T) {
	bad := map[string]func(*RunConfig){
		"statistic": func(c *RunConfig) { c.Statistic = "X" },
		"beta":      func(c *RunConfig) { c.Beta = -1 },
		"eps":       func(c *RunConfig) { c.Eps = 2 },
		"key":       func(c *RunConfig) { c.Key = "" },
		"n_iw":      func(c *RunConfig) { c.NIw = 0 },
	}
	for name, mutate := range bad {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultRunConfig()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrConfig)
		})
	}
}

func TestBuildShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.gfa")
	out, err := run(t, "build", "--archive", path, "--key", "basis", "--beta", "5", "--stat", "B")
	require.NoError(t, err)
	assert.Contains(t, out, "rank=")

	f, err := archive.OpenBoltReadOnly(path)
	require.NoError(t, err)
	m, err := mesh.Read(f.Root(), "basis")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	d, ok := m.(*mesh.DLR)
	require.True(t, ok)
	assert.Equal(t, 5.0, d.Beta())
	assert.Equal(t, domain.Boson, d.Statistic())

	out, err = run(t, "show", "--archive", path, "--key", "basis", "--points")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 2+d.Rank())
	assert.Contains(t, lines[1], "kind="+mesh.KindDLR.FormatTag())

	_, err = run(t, "show", "--archive", path, "--key", "other")
	assert.ErrorIs(t, err, archive.ErrNotFound)
}

func TestBuild_FlagsOverrideRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.gfa")
	cfgPath := writeRunFile(t, "beta: 8\nstatistic: F\narchive: "+path+"\n")
	_, err := run(t, "--config", cfgPath, "build", "--beta", "3")
	require.NoError(t, err)

	f, err := archive.OpenBoltReadOnly(path)
	require.NoError(t, err)
	defer f.Close()
	m, err := mesh.ReadAs[*mesh.DLR](f.Root(), DefaultRunConfig().Key)
	require.NoError(t, err)
	assert.Equal(t, 3.0, m.Beta())
	assert.Equal(t, domain.Fermion, m.Statistic())
}

func TestTransform(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.gfa")
	out, err := run(t, "transform", "--n-iw", "4", "--pole", "0.3", "--archive", path, "--save")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// header, column legend, 2·n_iw rows, summary
	assert.Len(t, lines, 2+8+1)
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "# max deviation"))

	f, err := archive.OpenBoltReadOnly(path)
	require.NoError(t, err)
	defer f.Close()
	g, err := gf.ReadGf(f.Root(), DefaultRunConfig().Key)
	require.NoError(t, err)
	assert.Equal(t, mesh.KindDLR, g.Mesh().Kind())
}

func TestTransform_Errors(t *testing.T) {
	_, err := run(t, "transform", "--stat", "B", "--pole", "0")
	assert.ErrorIs(t, err, ErrConfig)
	_, err = run(t, "transform", "--log-level", "loud")
	assert.Error(t, err)
	_, err = run(t, "build", "extra")
	assert.Error(t, err)
}

func TestPoleTau(t *testing.T) {
	// G(0) - s·G(β) = -1 for either statistic.
	for _, s := range []domain.Statistic{domain.Fermion, domain.Boson} {
		g0 := poleTau(s, 4, 0.7, 0)
		gb := poleTau(s, 4, 0.7, 4)
		assert.InDelta(t, -1, g0-float64(s.Sign())*gb, 1e-12, s.String())
	}
}
