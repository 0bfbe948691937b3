// Tick orchestration. The five social stages run strictly in sequence each
// tick; every stage reads the previous stage's committed state and no stage
// is re-entered within a tick. Cancellation is honored between stages only —
// never mid-stage — so a shutdown cannot leave rank, tribe, or reproduction
// state half-committed.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/talgya/tribesim/internal/agents"
)

// Tick advances the simulation by one tick. A context cancellation between
// stages aborts the remainder of the tick; skipped stages leave their data
// one tick stale, which downstream consumers accept. Stage-level errors
// (caller-contract violations, archive write failures) abort only the
// offending operation: the tick still completes and the joined errors are
// returned for the caller to act on.
func (s *Simulation) Tick(ctx context.Context, tick uint64) error {
	s.LastTick = tick

	stages := []struct {
		name string
		run  func(uint64) error
	}{
		{"upkeep", func(t uint64) error { s.processUpkeep(t); return nil }},
		{"specialization", func(t uint64) error { s.processSpecialization(t); return nil }},
		{"ranks_tribes", func(t uint64) error { s.processRanksAndTribes(t); return nil }},
		{"reproduction", s.processReproduction},
		{"interactions", func(t uint64) error { s.processInteractions(t); return nil }},
		{"legend_sweep", s.processLegendSweep},
	}

	var errs []error
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("tick %d aborted before %s stage: %w", tick, stage.name, err)
		}
		if err := stage.run(tick); err != nil {
			slog.Error("stage error", "tick", tick, "stage", stage.name, "error", err)
			errs = append(errs, fmt.Errorf("%s stage: %w", stage.name, err))
		}
	}

	s.updateStats()
	return errors.Join(errs...)
}

// processReproduction alternates reproduction modes by tick parity: tribes
// breed sexually on even ticks, everyone falls back to asexual budding on
// odd ticks. Alternation keeps the at-most-one-outcome-per-parent-per-tick
// guarantee trivially intact across both entry points.
func (s *Simulation) processReproduction(tick uint64) error {
	if tick%2 == 0 {
		pairs := s.matchSexualPairs()
		children, err := s.ReproduceSexualParallel(tick, pairs)
		if err != nil {
			return fmt.Errorf("sexual pass: %w", err)
		}
		if len(children) > 0 {
			slog.Debug("offspring born", "tick", tick, "mode", "sexual", "count", len(children))
		}
		return nil
	}

	children := s.ReproduceAsexualParallel(tick)
	if len(children) > 0 {
		slog.Debug("offspring born", "tick", tick, "mode", "asexual", "count", len(children))
	}
	return nil
}

// matchSexualPairs is the driver-side pairing policy: within each tribe,
// eligible members pair off in identity order. Pairs are disjoint and
// eligible by construction, honoring the reproduction engine's contract.
func (s *Simulation) matchSexualPairs() []ParentPair {
	var pairs []ParentPair
	for _, t := range s.Tribes {
		var eligible []agents.AgentID
		for _, id := range t.Members {
			if a, ok := s.AgentIndex[id]; ok && s.eligibleParent(a) {
				eligible = append(eligible, id)
			}
		}
		sort.Slice(eligible, func(i, j int) bool { return eligible[i] < eligible[j] })
		for i := 0; i+1 < len(eligible); i += 2 {
			pairs = append(pairs, ParentPair{A: eligible[i], B: eligible[i+1]})
		}
	}
	return pairs
}

// LogSummary emits the periodic population report.
func (s *Simulation) LogSummary(tick uint64) {
	slog.Info("population report",
		"tick", tick,
		"alive", humanize.Comma(int64(s.Stats.Population)),
		"tribes", s.Stats.TribeCount,
		"specialized", s.Stats.Specialized,
		"avg_energy", fmt.Sprintf("%.1f", s.Stats.AvgEnergy),
		"births", humanize.Comma(int64(s.Stats.Births)),
		"deaths", humanize.Comma(int64(s.Stats.Deaths)),
		"splits", s.Stats.Splits,
		"legends", s.Stats.Legends,
	)
}
