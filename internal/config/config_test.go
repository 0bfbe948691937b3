package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidate_RejectsBadThresholds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"zero specialization threshold", func(c *AppConfig) { c.Social.SpecializationThreshold = 0 }},
		{"negative split variance", func(c *AppConfig) { c.Social.TribeSplitVariance = -1 }},
		{"tribe max size too small", func(c *AppConfig) { c.Social.TribeMaxSize = 1 }},
		{"zero reproduction minimum", func(c *AppConfig) { c.Social.ReproductionMinEnergy = 0 }},
		{"cost above minimum", func(c *AppConfig) { c.Social.ReproductionCost = c.Social.ReproductionMinEnergy + 1 }},
		{"zero offspring energy", func(c *AppConfig) { c.Social.OffspringEnergy = 0 }},
		{"mutation rate above one", func(c *AppConfig) { c.Social.MutationRate = 1.5 }},
		{"negative mutation scale", func(c *AppConfig) { c.Social.MutationScale = -0.1 }},
		{"negative exchange rate", func(c *AppConfig) { c.Social.SymbiosisExchangeRate = -0.01 }},
		{"predation chance above one", func(c *AppConfig) { c.Social.PredationBaseChance = 1.1 }},
		{"predation transfer above one", func(c *AppConfig) { c.Social.PredationTransfer = 2 }},
		{"zero legend rank", func(c *AppConfig) { c.Social.LegendMinRank = 0 }},
		{"negative workers", func(c *AppConfig) { c.Sim.Workers = -2 }},
		{"no founder tribes", func(c *AppConfig) { c.Sim.FounderTribes = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_EmptyPathYieldsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	doc := `
sim:
  seed: 7
  initial_pop: 64
social:
  specialization_threshold: 35
`
	path := filepath.Join(t.TempDir(), "tribesim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Sim.Seed)
	assert.Equal(t, uint32(64), cfg.Sim.InitialPop)
	assert.Equal(t, 35.0, cfg.Social.SpecializationThreshold)
	// Untouched fields keep their defaults.
	assert.Equal(t, Default().Social.MutationRate, cfg.Social.MutationRate)
}

func TestLoad_InvalidFileIsFatal(t *testing.T) {
	doc := `
social:
  specialization_threshold: -5
`
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := Load(path)
	assert.Error(t, err, "invalid thresholds are a load-time error, never a tick-time one")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestWorkerCount(t *testing.T) {
	cfg := Default()
	cfg.Sim.Workers = 3
	assert.Equal(t, 3, cfg.WorkerCount())

	cfg.Sim.Workers = 0
	assert.Positive(t, cfg.WorkerCount(), "zero falls back to NumCPU")
}
