// Social rank — a pure function of an agent's own state plus tribe aggregates.
package social

import (
	"math"

	"github.com/talgya/tribesim/internal/agents"
)

// TribeContext carries read-only aggregate statistics about an agent's tribe,
// computed once per rank pass and shared across the tribe's members.
type TribeContext struct {
	Size       int     `json:"size"`
	MeanEnergy float64 `json:"mean_energy"`
	MeanRank   float64 `json:"mean_rank"` // previous tick's ranks
	Tick       uint64  `json:"tick"`
}

// Rank component weights. Energy standing is relative to the tribe so a
// modest agent in a starving tribe can still outrank a glutted one elsewhere.
const (
	rankSpecializationBonus = 2.0
	rankMeterWeight         = 0.05
	rankLongevityWeight     = 0.5
	rankEnergyWeight        = 1.5
	rankLineageWeight       = 0.25
)

// CalculateSocialRank computes an agent's social rank from its own state and
// its tribe's aggregates. Pure: no mutation, no randomness, so rank passes
// are order-independent across agents.
func CalculateSocialRank(in *agents.Intel, tctx TribeContext) float64 {
	rank := 0.0

	// Committed role carries standing; partial progress carries a little.
	if in.Specialization.Committed {
		rank += rankSpecializationBonus
	}
	// Stable summation order keeps rank bit-for-bit reproducible.
	for _, kind := range agents.AllSpecializations() {
		rank += in.SpecMeters[kind] * rankMeterWeight
	}

	// Longevity: log-scaled ticks lived.
	rank += math.Log1p(float64(in.Age(tctx.Tick))) * rankLongevityWeight

	// Energy standing relative to the tribe mean.
	if tctx.MeanEnergy > 0 {
		rank += (in.Energy / tctx.MeanEnergy) * rankEnergyWeight
	}

	// Deep lineages accumulate prestige.
	rank += float64(in.LineageDepth) * rankLineageWeight

	return rank
}

// RankVariance computes the population variance of the given ranks. Used by
// the split trigger.
func RankVariance(ranks []float64) float64 {
	if len(ranks) == 0 {
		return 0
	}
	mean := 0.0
	for _, r := range ranks {
		mean += r
	}
	mean /= float64(len(ranks))

	variance := 0.0
	for _, r := range ranks {
		d := r - mean
		variance += d * d
	}
	return variance / float64(len(ranks))
}
