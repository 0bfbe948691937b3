// Symbiosis/predation resolver — pairwise energy exchange between agents.
//
// HandleSymbiosis is the single-interaction resolver: it decides the outcome
// class, computes both sides' deltas, and applies them together. The stage
// wrapper partitions the tick's interactions into batches that never share
// an agent, so batches can fan out across workers without any two resolvers
// touching the same record.
package engine

import (
	"log/slog"

	"github.com/talgya/tribesim/internal/agents"
	"github.com/talgya/tribesim/internal/config"
	"github.com/talgya/tribesim/internal/entropy"
	"github.com/talgya/tribesim/internal/social"
)

// InteractionKind classifies a resolved interaction.
type InteractionKind uint8

const (
	OutcomeNone      InteractionKind = iota // no effect (e.g. drained target)
	OutcomeSymbiosis                        // both sides gained
	OutcomePredation                        // energy moved from target to initiator
)

// PredationContext bundles one interaction: the two participants, the
// configured rates, and the caller-supplied random roll. Carrying the roll
// keeps the resolver free of hidden randomness.
type PredationContext struct {
	Initiator *agents.Intel
	Target    *agents.Intel
	Config    *config.AppConfig
	Roll      float64 // uniform [0, 1)
}

// InteractionOutcome reports what one interaction did to each side.
type InteractionOutcome struct {
	Kind           InteractionKind `json:"kind"`
	InitiatorDelta float64         `json:"initiator_delta"`
	TargetDelta    float64         `json:"target_delta"`
}

// HandleSymbiosis resolves one interaction and mutates both participants.
// Same-tribe pairs always cooperate; across tribes the initiator's roll
// against its predation chance picks the outcome class. Both deltas are
// computed before either is applied, and neither side's energy ever drops
// below zero from a single interaction.
func HandleSymbiosis(pctx PredationContext) InteractionOutcome {
	init, target := pctx.Initiator, pctx.Target
	s := &pctx.Config.Social

	predatory := !social.AreSameTribe(init, target) && pctx.Roll < predationChance(init, target, s)

	var out InteractionOutcome
	if predatory {
		transfer := target.Energy * s.PredationTransfer
		if transfer > target.Energy {
			transfer = target.Energy
		}
		if transfer <= 0 {
			return InteractionOutcome{Kind: OutcomeNone}
		}
		out = InteractionOutcome{
			Kind:           OutcomePredation,
			InitiatorDelta: transfer,
			TargetDelta:    -transfer,
		}
	} else {
		gainInit := init.Energy * s.SymbiosisExchangeRate
		gainTarget := target.Energy * s.SymbiosisExchangeRate
		if compatiblePairing(init, target) {
			gainInit *= 1 + s.CompatibilityBonus
			gainTarget *= 1 + s.CompatibilityBonus
		}
		out = InteractionOutcome{
			Kind:           OutcomeSymbiosis,
			InitiatorDelta: gainInit,
			TargetDelta:    gainTarget,
		}
	}

	// Apply both sides together. Energy never goes below zero.
	init.Energy += out.InitiatorDelta
	target.Energy += out.TargetDelta
	if init.Energy < 0 {
		init.Energy = 0
	}
	if target.Energy < 0 {
		target.Energy = 0
	}
	return out
}

// predationChance derives the initiator's predation probability from its
// aggression, soldier leaning, and rank advantage over the target.
func predationChance(init, target *agents.Intel, s *config.SocialConfig) float64 {
	chance := s.PredationBaseChance * (0.5 + init.Genotype.Aggression)

	if init.Specialization.Committed && init.Specialization.Kind == agents.SpecSoldier {
		bias := init.Genotype.SpecializationBias[agents.BiasIndex(agents.SpecSoldier)]
		chance *= 1 + 0.5*(1+bias)
	}

	// Rank advantage shifts the odds up to ±20%.
	diff := init.SocialRank - target.SocialRank
	if diff > 2 {
		diff = 2
	}
	if diff < -2 {
		diff = -2
	}
	chance += diff * 0.1

	if chance < 0 {
		return 0
	}
	if chance > 1 {
		return 1
	}
	return chance
}

// compatiblePairing reports whether the two committed roles grant the
// symbiosis bonus: a Provider feeding a Soldier works in both directions.
func compatiblePairing(a, b *agents.Intel) bool {
	if !a.Specialization.Committed || !b.Specialization.Committed {
		return false
	}
	ka, kb := a.Specialization.Kind, b.Specialization.Kind
	return (ka == agents.SpecProvider && kb == agents.SpecSoldier) ||
		(ka == agents.SpecSoldier && kb == agents.SpecProvider)
}

// partitionInteractions greedily groups contexts into batches where no two
// interactions share an agent. Within a batch every resolver touches a
// disjoint pair of records, so a batch is safe to fan out.
func partitionInteractions(contexts []PredationContext) [][]PredationContext {
	var batches [][]PredationContext
	var occupied []map[agents.AgentID]struct{}

	for _, pctx := range contexts {
		placed := false
		for i, used := range occupied {
			_, a := used[pctx.Initiator.ID]
			_, b := used[pctx.Target.ID]
			if a || b {
				continue
			}
			used[pctx.Initiator.ID] = struct{}{}
			used[pctx.Target.ID] = struct{}{}
			batches[i] = append(batches[i], pctx)
			placed = true
			break
		}
		if !placed {
			batches = append(batches, []PredationContext{pctx})
			occupied = append(occupied, map[agents.AgentID]struct{}{
				pctx.Initiator.ID: {},
				pctx.Target.ID:    {},
			})
		}
	}
	return batches
}

// processInteractions builds the tick's interaction set — every live agent
// initiates one encounter with a deterministically drawn partner — then
// resolves it batch by batch. Batches run in order; interactions inside a
// batch run in parallel on disjoint agents.
func (s *Simulation) processInteractions(tick uint64) {
	alive := s.aliveAgents()
	if len(alive) < 2 {
		return
	}

	contexts := make([]PredationContext, 0, len(alive))
	for i, a := range alive {
		// Partner drawn from the agent's interaction stream; never itself.
		pick := int(entropy.Roll(s.Seed, entropy.SubsystemInteraction, uint64(a.ID), tick) * float64(len(alive)-1))
		if pick >= i {
			pick++
		}
		contexts = append(contexts, PredationContext{
			Initiator: a,
			Target:    alive[pick],
			Config:    s.Config,
			Roll:      entropy.Roll(s.Seed, entropy.SubsystemInteraction, tick, uint64(a.ID), uint64(alive[pick].ID)),
		})
	}

	predations := 0
	for _, batch := range partitionInteractions(contexts) {
		b := batch
		outcomes := make([]InteractionOutcome, len(b))
		forEachIndex(s.workers, len(b), func(i int) {
			outcomes[i] = HandleSymbiosis(b[i])
		})
		for _, out := range outcomes {
			if out.Kind == OutcomePredation {
				predations++
			}
		}
	}

	if predations > 0 {
		slog.Debug("interactions resolved", "tick", tick, "total", len(contexts), "predations", predations)
	}
}
