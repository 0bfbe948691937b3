// Legend sweep — archives worthy agents flagged for removal, then retires
// them from the live population.
package engine

import (
	"log/slog"

	"github.com/talgya/tribesim/internal/agents"
	"github.com/talgya/tribesim/internal/legends"
)

// processLegendSweep walks agents flagged for removal. Each is offered to
// the legend archive first; an archive write failure keeps the agent in the
// population (still dead, still unarchived) so the next tick's sweep retries,
// and the failure is surfaced to the caller rather than swallowed.
func (s *Simulation) processLegendSweep(tick uint64) error {
	var firstErr error
	removing := make(map[agents.AgentID]struct{})

	for _, a := range s.Agents {
		if a.Alive {
			continue
		}

		wasArchived := a.Archived
		if err := legends.ArchiveIfLegend(a, s.Archive, tick, s.Config); err != nil {
			slog.Warn("legend archive failed, retaining agent for retry",
				"tick", tick, "agent", a.ID, "name", a.Name, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if a.Archived && !wasArchived {
			s.Stats.Legends++
			slog.Info("legend archived",
				"tick", tick,
				"agent", a.ID,
				"name", a.Name,
				"specialization", agents.SpecializationName(a.Specialization.Kind),
				"rank", a.SocialRank,
			)
		}
		removing[a.ID] = struct{}{}
	}

	if len(removing) == 0 {
		return firstErr
	}

	// Single filter pass keeps removal linear in population size.
	kept := s.Agents[:0]
	for _, a := range s.Agents {
		if _, gone := removing[a.ID]; !gone {
			kept = append(kept, a)
			continue
		}
		if a.TribeID != nil {
			if t, ok := s.TribeIndex[*a.TribeID]; ok {
				t.Remove(a.ID)
			}
		}
		delete(s.AgentIndex, a.ID)
		s.Stats.Deaths++
	}
	s.Agents = kept
	s.dissolveEmptyTribes()

	return firstErr
}
