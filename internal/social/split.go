// Tribal splits — cohesion checks and deterministic rank-based partitioning.
package social

import (
	"sort"

	"github.com/talgya/tribesim/internal/agents"
	"github.com/talgya/tribesim/internal/config"
)

// ShouldSplit reports whether a tribe's cohesion has failed: either its rank
// variance exceeds the configured limit or it has outgrown the size cap.
// Tribes of fewer than four members never split — both halves must be viable.
func ShouldSplit(t *Tribe, ranks map[agents.AgentID]float64, cfg *config.AppConfig) bool {
	if t.Size() < 4 {
		return false
	}
	if t.Size() > cfg.Social.TribeMaxSize {
		return true
	}
	memberRanks := make([]float64, 0, t.Size())
	for _, id := range t.Members {
		memberRanks = append(memberRanks, ranks[id])
	}
	return RankVariance(memberRanks) > cfg.Social.TribeSplitVariance
}

// StartTribalSplit partitions the tribe's membership in two along the largest
// rank gap. The higher-rank subgroup keeps the original tribe identity; the
// remainder becomes a new tribe with a deterministically derived ID.
//
// Ordering is rank-descending with agent identity as the stable tie-break,
// so the same ranks always produce the same partition. Every original member
// lands in exactly one resulting tribe. The caller owns syncing each member's
// Intel.TribeID to the result; that reassignment happens in a single-threaded
// commit phase so no agent is ever observed mid-split.
func StartTribalSplit(t *Tribe, ranks map[agents.AgentID]float64, tick uint64) []*Tribe {
	if t.Size() < 2 {
		return []*Tribe{t}
	}

	ordered := append([]agents.AgentID(nil), t.Members...)
	sort.Slice(ordered, func(i, j int) bool {
		ri, rj := ranks[ordered[i]], ranks[ordered[j]]
		if ri != rj {
			return ri > rj
		}
		return ordered[i] < ordered[j]
	})

	// Split at the widest gap between adjacent ranks; a flat tribe halves.
	cut := len(ordered) / 2
	widest := 0.0
	for i := 0; i < len(ordered)-1; i++ {
		gap := ranks[ordered[i]] - ranks[ordered[i+1]]
		if gap > widest {
			widest = gap
			cut = i + 1
		}
	}

	t.Members = ordered[:cut:cut]

	splinter := &Tribe{
		ID:          DeriveTribeID(t.ID, tick, 1),
		Name:        t.Name + " Splinter",
		Members:     append([]agents.AgentID(nil), ordered[cut:]...),
		FoundedTick: tick,
	}

	return []*Tribe{t, splinter}
}
