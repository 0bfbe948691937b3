// Genotype — heritable traits and reproduction-time recombination/mutation.
package agents

import (
	"math/rand"
)

// MinSpecializationBias is the floor for bias values. A bias of -1 nullifies
// accrual for that role; anything lower would invert it, so genotype creation
// clamps here rather than letting the tracker see an invalid value.
const MinSpecializationBias = -1.0

// Genotype holds an agent's heritable traits. Immutable after creation:
// reproduction derives a child genotype through Recombine/Mutate on copies,
// and nothing mutates a live agent's genotype in place.
type Genotype struct {
	// SpecializationBias scales role effort accrual, one multiplier per
	// SpecializationKind, indexed by BiasIndex.
	SpecializationBias [NumSpecializations]float64 `json:"specialization_bias"`

	// Vitality scales metabolic resilience (0–1).
	Vitality float64 `json:"vitality"`
	// Metabolism scales per-tick energy drain (0–1).
	Metabolism float64 `json:"metabolism"`
	// Aggression feeds predation success and soldier effort (0–1).
	Aggression float64 `json:"aggression"`
}

// NewGenotype builds a genotype from raw trait values, clamping each bias to
// [MinSpecializationBias, +inf) and each scalar trait to [0, 1]. This is the
// single place bias validity is enforced; the specialization tracker assumes
// it holds.
func NewGenotype(bias [NumSpecializations]float64, vitality, metabolism, aggression float64) Genotype {
	for i := range bias {
		if bias[i] < MinSpecializationBias {
			bias[i] = MinSpecializationBias
		}
	}
	return Genotype{
		SpecializationBias: bias,
		Vitality:           clamp01(vitality),
		Metabolism:         clamp01(metabolism),
		Aggression:         clamp01(aggression),
	}
}

// Recombine produces a child genotype by uniform per-trait crossover: each
// trait value comes from exactly one parent, so the child never carries a
// value outside both parents' trait domains.
func Recombine(a, b Genotype, rng *rand.Rand) Genotype {
	child := a
	for i := range child.SpecializationBias {
		if rng.Float64() < 0.5 {
			child.SpecializationBias[i] = b.SpecializationBias[i]
		}
	}
	if rng.Float64() < 0.5 {
		child.Vitality = b.Vitality
	}
	if rng.Float64() < 0.5 {
		child.Metabolism = b.Metabolism
	}
	if rng.Float64() < 0.5 {
		child.Aggression = b.Aggression
	}
	return child
}

// Mutate returns a copy with each trait independently perturbed with
// probability rate by a uniform delta in [-scale, +scale]. Results are
// re-clamped through NewGenotype so bias validity survives mutation.
func Mutate(g Genotype, rate, scale float64, rng *rand.Rand) Genotype {
	bias := g.SpecializationBias
	for i := range bias {
		if rng.Float64() < rate {
			bias[i] += (rng.Float64()*2 - 1) * scale
		}
	}
	vitality := g.Vitality
	if rng.Float64() < rate {
		vitality += (rng.Float64()*2 - 1) * scale
	}
	metabolism := g.Metabolism
	if rng.Float64() < rate {
		metabolism += (rng.Float64()*2 - 1) * scale
	}
	aggression := g.Aggression
	if rng.Float64() < rate {
		aggression += (rng.Float64()*2 - 1) * scale
	}
	return NewGenotype(bias, vitality, metabolism, aggression)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
