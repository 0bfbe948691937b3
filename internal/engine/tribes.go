// Rank and tribe stage — recomputes every agent's social rank from tribe
// aggregates, then sweeps tribes for cohesion failures and executes splits.
package engine

import (
	"log/slog"

	"github.com/talgya/tribesim/internal/agents"
	"github.com/talgya/tribesim/internal/social"
)

// tribeContext computes the read-only aggregates rank calculation needs,
// once per tribe per pass.
func (s *Simulation) tribeContext(t *social.Tribe, tick uint64) social.TribeContext {
	tctx := social.TribeContext{Tick: tick}
	totalEnergy := 0.0
	totalRank := 0.0
	for _, id := range t.Members {
		a, ok := s.AgentIndex[id]
		if !ok || !a.Alive {
			continue
		}
		tctx.Size++
		totalEnergy += a.Energy
		totalRank += a.SocialRank
	}
	if tctx.Size > 0 {
		tctx.MeanEnergy = totalEnergy / float64(tctx.Size)
		tctx.MeanRank = totalRank / float64(tctx.Size)
	}
	return tctx
}

// processRanksAndTribes runs the rank recompute and split sweep. Tribes are
// visited in creation order and splits use rank-descending, identity
// tie-broken ordering, so the whole stage is deterministic.
func (s *Simulation) processRanksAndTribes(tick uint64) {
	ranks := make(map[agents.AgentID]float64, len(s.Agents))

	for _, t := range s.Tribes {
		tctx := s.tribeContext(t, tick)
		for _, id := range t.Members {
			a, ok := s.AgentIndex[id]
			if !ok {
				continue
			}
			if a.Alive {
				a.SocialRank = social.CalculateSocialRank(a, tctx)
			}
			ranks[id] = a.SocialRank
		}
	}

	// Tribeless agents rank against an empty context.
	for _, a := range s.Agents {
		if a.TribeID == nil && a.Alive {
			a.SocialRank = social.CalculateSocialRank(a, social.TribeContext{Tick: tick})
			ranks[a.ID] = a.SocialRank
		}
	}

	// Split sweep over a snapshot of the tribe list; splits append new tribes
	// that are not themselves re-checked until next tick.
	existing := append([]*social.Tribe(nil), s.Tribes...)
	for _, t := range existing {
		if !social.ShouldSplit(t, ranks, s.Config) {
			continue
		}

		before := t.Size()
		parts := social.StartTribalSplit(t, ranks, tick)
		for _, nt := range parts[1:] {
			s.addTribe(nt)
		}
		// Sync each member's record to its resulting tribe.
		for _, nt := range parts {
			for _, id := range nt.Members {
				if a, ok := s.AgentIndex[id]; ok {
					tid := nt.ID
					a.TribeID = &tid
				}
			}
		}
		s.Stats.Splits++

		slog.Info("tribal split",
			"tick", tick,
			"tribe", t.Name,
			"before", before,
			"kept", t.Size(),
			"splinter", parts[1].Size(),
		)
	}

	s.dissolveEmptyTribes()
}
