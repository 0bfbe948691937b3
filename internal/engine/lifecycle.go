// Per-tick upkeep — metabolic drain, foraging, and death flagging. Runs
// before the social stages so each tick's stages see settled vitals.
package engine

import (
	"log/slog"

	"github.com/talgya/tribesim/internal/agents"
)

// Upkeep tuning. Forage slightly outpaces drain for provider-leaning agents,
// so committed Providers keep a tribe fed while Soldiers burn hot.
const (
	baseDrain    = 0.30
	baseForage   = 0.28
	providerEdge = 0.5 // committed Provider forage bonus
)

// processUpkeep applies aging-by-tick energy mechanics to every live agent
// and flags the starved for removal. Per-agent effects only, so it fans out
// over population partitions.
func (s *Simulation) processUpkeep(tick uint64) {
	alive := s.aliveAgents()
	forEachIndex(s.workers, len(alive), func(i int) {
		a := alive[i]

		drain := baseDrain * (0.5 + a.Genotype.Metabolism) * (1 - 0.3*a.Genotype.Vitality)

		forage := baseForage
		if a.Specialization.Committed && a.Specialization.Kind == agents.SpecProvider {
			bias := a.Genotype.SpecializationBias[agents.BiasIndex(agents.SpecProvider)]
			forage *= 1 + providerEdge*(1+bias)
		}

		a.Energy += forage - drain
		if a.Energy <= 0 {
			a.Energy = 0
			a.Alive = false
		}
	})

	dead := 0
	for _, a := range alive {
		if !a.Alive {
			dead++
		}
	}
	if dead > 0 {
		slog.Debug("upkeep deaths", "tick", tick, "count", dead)
	}
}

// aliveAgents returns the live agents in population order.
func (s *Simulation) aliveAgents() []*agents.Intel {
	out := make([]*agents.Intel, 0, len(s.Agents))
	for _, a := range s.Agents {
		if a.Alive {
			out = append(out, a)
		}
	}
	return out
}
