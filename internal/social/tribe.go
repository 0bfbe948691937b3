// Package social provides tribes, social rank, and tribal splits.
package social

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/talgya/tribesim/internal/agents"
)

// tribeNamespace is the UUIDv5 namespace for derived tribe identities.
// Split-off tribes hash their parent tribe and the split tick under this
// namespace, so a run produces the same tribe IDs from the same seed.
var tribeNamespace = uuid.MustParse("7b0d2c3e-5a41-4f6b-9c8d-1e2f3a4b5c6d")

// Tribe groups agents by social affinity. Membership lives here as an ID set
// (tribe → members), never as agent-to-agent links; splits and dissolution
// stay O(affected members).
type Tribe struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Members     []agents.AgentID `json:"members"`
	FoundedTick uint64           `json:"founded_tick"`
}

// NewFounderTribe creates one of the original tribes, with a deterministic
// identity derived from the world seed and founder ordinal.
func NewFounderTribe(seed int64, ordinal int) *Tribe {
	id := uuid.NewSHA1(tribeNamespace, []byte(fmt.Sprintf("founder:%d:%d", seed, ordinal)))
	return &Tribe{
		ID:   id,
		Name: fmt.Sprintf("Founder Tribe %d", ordinal+1),
	}
}

// DeriveTribeID produces the identity of a tribe split off from parent at the
// given tick. Deterministic: the same parent, tick, and branch ordinal always
// yield the same ID.
func DeriveTribeID(parent uuid.UUID, tick uint64, branch int) uuid.UUID {
	return uuid.NewSHA1(tribeNamespace, []byte(fmt.Sprintf("split:%s:%d:%d", parent, tick, branch)))
}

// Size returns the member count.
func (t *Tribe) Size() int {
	return len(t.Members)
}

// Contains reports whether the agent is a member.
func (t *Tribe) Contains(id agents.AgentID) bool {
	for _, m := range t.Members {
		if m == id {
			return true
		}
	}
	return false
}

// Add appends a member. Callers keep the corresponding Intel.TribeID in sync;
// the engine's commit phases are the only writers.
func (t *Tribe) Add(id agents.AgentID) {
	if !t.Contains(id) {
		t.Members = append(t.Members, id)
	}
}

// Remove drops a member if present.
func (t *Tribe) Remove(id agents.AgentID) {
	for i, m := range t.Members {
		if m == id {
			t.Members = append(t.Members[:i], t.Members[i+1:]...)
			return
		}
	}
}

// SortMembers orders the membership by agent identity. Split partitioning
// relies on this as its stable tie-break.
func (t *Tribe) SortMembers() {
	sort.Slice(t.Members, func(i, j int) bool { return t.Members[i] < t.Members[j] })
}

// AreSameTribe reports whether two agents share a tribe. Pure value equality
// over the tribe ID; a tribeless agent is never same-tribe with anyone,
// including another tribeless agent.
func AreSameTribe(a, b *agents.Intel) bool {
	if a.TribeID == nil || b.TribeID == nil {
		return false
	}
	return *a.TribeID == *b.TribeID
}
