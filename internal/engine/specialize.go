// Specialization stage — fans role-effort accrual out over the population.
// Each worker mutates only its own agent's meters, so partitions are free of
// cross-agent races by construction.
package engine

import (
	"github.com/talgya/tribesim/internal/agents"
	"github.com/talgya/tribesim/internal/entropy"
)

// processSpecialization accrues effort toward every candidate role for each
// uncommitted agent. Effort per role is shaped by heritable traits; the
// genotype bias multiplier itself is applied inside IncrementSpecMeter.
// Each agent draws from its own (seed, agent, tick) stream, so the stage is
// reproducible regardless of worker scheduling.
func (s *Simulation) processSpecialization(tick uint64) {
	alive := s.aliveAgents()
	forEachIndex(s.workers, len(alive), func(i int) {
		a := alive[i]
		if a.Specialization.Committed {
			return
		}

		rng := entropy.Stream(s.Seed, entropy.SubsystemSpecialization, uint64(a.ID), tick)
		base := 0.15 + rng.Float64()*0.25

		g := &a.Genotype
		agents.IncrementSpecMeter(a, agents.SpecSoldier, base*(0.4+0.6*g.Aggression), s.Config)
		agents.IncrementSpecMeter(a, agents.SpecEngineer, base*(0.4+0.6*(1-g.Metabolism)), s.Config)
		agents.IncrementSpecMeter(a, agents.SpecProvider, base*(0.4+0.6*g.Vitality), s.Config)
	})
}
