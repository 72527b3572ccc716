// Copyright 2026 The benchdist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/JoeyHendricks/automated-performance-test-result-analysis/benchstat"
	"github.com/JoeyHendricks/automated-performance-test-result-analysis/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	cfg := config.New()
	require.NoError(t, cfg.Validate())

	eng, err := cfg.Engine()
	require.NoError(t, err)
	assert.Equal(t, benchstat.DefaultConfig(), eng)

	_, gated, err := cfg.GateRank()
	require.NoError(t, err)
	assert.False(t, gated)
}

func TestEngine(t *testing.T) {
	cfg := config.New()
	cfg.KSWeight, cfg.WassersteinWeight = 0.25, 0.75
	cfg.Scale = 0.005
	cfg.KSMethod = "percentiles"
	cfg.Percentiles = []float64{0, 50, 90, 99}
	cfg.TrimUpper = 0.04
	cfg.Standardize = true
	cfg.Ranks = config.Ranks{A: 95, B: 90, C: 85, D: 80, E: 75}
	cfg.Gate = "C"

	eng, err := cfg.Engine()
	require.NoError(t, err)
	assert.Equal(t, benchstat.KSPercentileGrid, eng.KSMethod)
	assert.Equal(t, []float64{0, 0.5, 0.9, 0.99}, eng.Distribution.Grid)
	assert.Equal(t, 0.04, eng.Distribution.TrimUpper)
	assert.True(t, eng.Distribution.Standardize)
	assert.Equal(t, benchstat.ScoreOptions{KSWeight: 0.25, WassersteinWeight: 0.75, Scale: 0.005, RelativeScale: benchstat.DefaultRelativeScale}, eng.Score)
	assert.Equal(t, benchstat.Boundaries{A: 95, B: 90, C: 85, D: 80, E: 75}, eng.Ranks)

	gate, gated, err := cfg.GateRank()
	require.NoError(t, err)
	assert.True(t, gated)
	assert.Equal(t, benchstat.RankC, gate)
}

func TestEngineInvalid(t *testing.T) {
	for name, mod := range map[string]func(*config.Config){
		"weights do not sum to 1": func(c *config.Config) { c.KSWeight = 0.7 },
		"negative weight":         func(c *config.Config) { c.KSWeight = -0.5 },
		"unknown method":          func(c *config.Config) { c.KSMethod = "anderson" },
		"percentile over 100":     func(c *config.Config) { c.Percentiles = []float64{50, 150} },
		"descending percentiles":  func(c *config.Config) { c.Percentiles = []float64{90, 10} },
		"trim all":                func(c *config.Config) { c.TrimUpper = 1 },
		"ranks out of order":      func(c *config.Config) { c.Ranks.B = 95 },
		"bad gate":                func(c *config.Config) { c.Gate = "S" },
		"bad log level":           func(c *config.Config) { c.LogLevel = "loud" },
		"no scale":                func(c *config.Config) { c.RelativeScale = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := config.New()
			mod(cfg)
			_, err := cfg.Engine()
			require.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "benchdist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(config.EnvConfigFile, "")
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.New(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
ks_weight: 0.4
wasserstein_weight: 0.6
ks_method: percentiles
percentiles: [0, 25, 50, 75]
trim_upper: 0.04
gate: B
workers: 3
ranks:
  a: 95
  b: 85
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.4, cfg.KSWeight)
	assert.Equal(t, 0.6, cfg.WassersteinWeight)
	assert.Equal(t, "percentiles", cfg.KSMethod)
	assert.Equal(t, []float64{0, 25, 50, 75}, cfg.Percentiles)
	assert.Equal(t, 0.04, cfg.TrimUpper)
	assert.Equal(t, "B", cfg.Gate)
	assert.Equal(t, 3, cfg.Workers)
	// Unset keys keep their defaults.
	assert.Equal(t, config.Ranks{A: 95, B: 85, C: 70, D: 60, E: 50}, cfg.Ranks)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadEnv(t *testing.T) {
	path := writeConfig(t, "ks_weight: 0.4\nwasserstein_weight: 0.6\nworkers: 3\n")
	t.Setenv(config.EnvConfigFile, path)
	t.Setenv("BENCHDIST_KS_WEIGHT", "0.2")
	t.Setenv("BENCHDIST_WASSERSTEIN_WEIGHT", "0.8")
	t.Setenv("BENCHDIST_RANKS_E", "40")
	t.Setenv("BENCHDIST_PERCENTILES", "10, 50,90")
	t.Setenv("BENCHDIST_STANDARDIZE", "true")
	t.Setenv("BENCHDIST_LOG_LEVEL", "debug")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 0.2, cfg.KSWeight)
	assert.Equal(t, 0.8, cfg.WassersteinWeight)
	assert.Equal(t, 3, cfg.Workers, "file value is kept when env does not override it")
	assert.Equal(t, 40.0, cfg.Ranks.E)
	assert.Equal(t, []float64{10, 50, 90}, cfg.Percentiles)
	assert.True(t, cfg.Standardize)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv(config.EnvConfigFile, "")

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, config.ErrLoadConfig)

	_, err = config.Load(writeConfig(t, "ks_weight: [not, a, number]\n"))
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = config.Load(writeConfig(t, "ks_method: anderson\n"))
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	t.Setenv("BENCHDIST_WORKERS", "-1")
	_, err = config.Load("")
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}
