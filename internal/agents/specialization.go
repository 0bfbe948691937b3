// Specialization tracker — role effort accrual and the one-shot commit.
package agents

import (
	"github.com/talgya/tribesim/internal/config"
)

// IncrementSpecMeter accrues role effort on a single agent. The genotype bias
// for the role scales effort linearly: an accrual of amount becomes
// amount * (1 + bias). Once the meter reaches the configured threshold the
// agent commits to the role permanently; after commit every further call is
// a no-op, so meters freeze at their commit-time values.
//
// This is the only writer of Intel.Specialization. It mutates nothing but
// the passed agent and never fails: bias validity is enforced at genotype
// creation and threshold validity at config load.
func IncrementSpecMeter(in *Intel, spec SpecializationKind, amount float64, cfg *config.AppConfig) {
	if in.Specialization.Committed {
		return
	}
	if in.SpecMeters == nil {
		in.SpecMeters = make(map[SpecializationKind]float64, NumSpecializations)
	}

	bias := in.Genotype.SpecializationBias[BiasIndex(spec)]
	meter := in.SpecMeters[spec] + amount*(1+bias)
	in.SpecMeters[spec] = meter

	if meter >= cfg.Social.SpecializationThreshold {
		in.Specialization = Specialization{Kind: spec, Committed: true}
	}
}
