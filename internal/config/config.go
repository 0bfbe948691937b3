// Package config loads and validates process-wide simulation configuration.
// Config is read once at startup; a tick never sees it change.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// AppConfig is the top-level configuration document.
type AppConfig struct {
	Sim    SimConfig    `yaml:"sim"`
	Social SocialConfig `yaml:"social"`
}

// SimConfig controls the run itself: seeding, parallelism, population size.
type SimConfig struct {
	Seed          int64  `yaml:"seed"`
	Workers       int    `yaml:"workers"` // 0 = NumCPU
	InitialPop    uint32 `yaml:"initial_pop"`
	FounderTribes int    `yaml:"founder_tribes"`
	ArchivePath   string `yaml:"archive_path"` // empty = in-memory archive
}

// SocialConfig supplies the thresholds consumed by the social-dynamics core.
// All values are validated at load time; the core treats them as trusted.
type SocialConfig struct {
	// Specialization
	SpecializationThreshold float64 `yaml:"specialization_threshold"`

	// Tribes
	TribeSplitVariance float64 `yaml:"tribe_split_variance"` // rank variance limit
	TribeMaxSize       int     `yaml:"tribe_max_size"`       // membership limit

	// Reproduction
	ReproductionMinEnergy float64 `yaml:"reproduction_min_energy"`
	ReproductionCost      float64 `yaml:"reproduction_cost"`
	OffspringEnergy       float64 `yaml:"offspring_energy"`
	MutationRate          float64 `yaml:"mutation_rate"`  // per-trait chance
	MutationScale         float64 `yaml:"mutation_scale"` // max |delta| per mutation

	// Symbiosis / predation
	SymbiosisExchangeRate float64 `yaml:"symbiosis_exchange_rate"`
	CompatibilityBonus    float64 `yaml:"compatibility_bonus"`
	PredationBaseChance   float64 `yaml:"predation_base_chance"`
	PredationTransfer     float64 `yaml:"predation_transfer"` // fraction of prey energy taken

	// Legends
	LegendMinRank    float64 `yaml:"legend_min_rank"`
	LegendMinAge     uint64  `yaml:"legend_min_age"`     // ticks lived
	LegendMinLineage uint32  `yaml:"legend_min_lineage"` // generations behind the agent
}

// Default returns the configuration used when no file is supplied.
func Default() *AppConfig {
	return &AppConfig{
		Sim: SimConfig{
			Seed:          42,
			Workers:       0,
			InitialPop:    500,
			FounderTribes: 4,
		},
		Social: SocialConfig{
			SpecializationThreshold: 20,
			TribeSplitVariance:      9,
			TribeMaxSize:            64,
			ReproductionMinEnergy:   30,
			ReproductionCost:        12,
			OffspringEnergy:         10,
			MutationRate:            0.08,
			MutationScale:           0.15,
			SymbiosisExchangeRate:   0.05,
			CompatibilityBonus:      0.5,
			PredationBaseChance:     0.35,
			PredationTransfer:       0.4,
			LegendMinRank:           8,
			LegendMinAge:            1000,
			LegendMinLineage:        3,
		},
	}
}

// Load reads a YAML config file and validates it. An empty path yields the
// defaults. Any validation failure is fatal to process start, never deferred
// to tick time.
func Load(path string) (*AppConfig, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate checks every threshold the core depends on. The core itself
// assumes these hold and performs no per-call re-validation.
func (c *AppConfig) Validate() error {
	if c.Sim.Workers < 0 {
		return fmt.Errorf("sim.workers must be >= 0, got %d", c.Sim.Workers)
	}
	if c.Sim.FounderTribes < 1 {
		return fmt.Errorf("sim.founder_tribes must be >= 1, got %d", c.Sim.FounderTribes)
	}
	s := &c.Social
	if s.SpecializationThreshold <= 0 {
		return fmt.Errorf("social.specialization_threshold must be > 0, got %g", s.SpecializationThreshold)
	}
	if s.TribeSplitVariance <= 0 {
		return fmt.Errorf("social.tribe_split_variance must be > 0, got %g", s.TribeSplitVariance)
	}
	if s.TribeMaxSize < 2 {
		return fmt.Errorf("social.tribe_max_size must be >= 2, got %d", s.TribeMaxSize)
	}
	if s.ReproductionMinEnergy <= 0 {
		return fmt.Errorf("social.reproduction_min_energy must be > 0, got %g", s.ReproductionMinEnergy)
	}
	if s.ReproductionCost < 0 || s.ReproductionCost > s.ReproductionMinEnergy {
		return fmt.Errorf("social.reproduction_cost must be in [0, reproduction_min_energy], got %g", s.ReproductionCost)
	}
	if s.OffspringEnergy <= 0 {
		return fmt.Errorf("social.offspring_energy must be > 0, got %g", s.OffspringEnergy)
	}
	if s.MutationRate < 0 || s.MutationRate > 1 {
		return fmt.Errorf("social.mutation_rate must be in [0, 1], got %g", s.MutationRate)
	}
	if s.MutationScale < 0 {
		return fmt.Errorf("social.mutation_scale must be >= 0, got %g", s.MutationScale)
	}
	if s.SymbiosisExchangeRate < 0 {
		return fmt.Errorf("social.symbiosis_exchange_rate must be >= 0, got %g", s.SymbiosisExchangeRate)
	}
	if s.CompatibilityBonus < 0 {
		return fmt.Errorf("social.compatibility_bonus must be >= 0, got %g", s.CompatibilityBonus)
	}
	if s.PredationBaseChance < 0 || s.PredationBaseChance > 1 {
		return fmt.Errorf("social.predation_base_chance must be in [0, 1], got %g", s.PredationBaseChance)
	}
	if s.PredationTransfer < 0 || s.PredationTransfer > 1 {
		return fmt.Errorf("social.predation_transfer must be in [0, 1], got %g", s.PredationTransfer)
	}
	if s.LegendMinRank <= 0 {
		return fmt.Errorf("social.legend_min_rank must be > 0, got %g", s.LegendMinRank)
	}
	return nil
}

// WorkerCount resolves the configured worker count, defaulting to NumCPU.
func (c *AppConfig) WorkerCount() int {
	if c.Sim.Workers > 0 {
		return c.Sim.Workers
	}
	return runtime.NumCPU()
}
