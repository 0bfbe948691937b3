package social

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/tribesim/internal/agents"
	"github.com/talgya/tribesim/internal/config"
)

func splitConfig() *config.AppConfig {
	cfg := config.Default()
	cfg.Social.TribeSplitVariance = 9
	cfg.Social.TribeMaxSize = 64
	return cfg
}

func TestShouldSplit(t *testing.T) {
	cfg := splitConfig()

	cohesive := NewFounderTribe(1, 0)
	ranks := map[agents.AgentID]float64{}
	for id := agents.AgentID(1); id <= 5; id++ {
		cohesive.Add(id)
		ranks[id] = 5
	}
	assert.False(t, ShouldSplit(cohesive, ranks, cfg), "flat ranks hold together")

	divided := NewFounderTribe(1, 1)
	dividedRanks := map[agents.AgentID]float64{1: 10, 2: 10, 3: 10, 4: 1, 5: 1}
	for id := agents.AgentID(1); id <= 5; id++ {
		divided.Add(id)
	}
	assert.True(t, ShouldSplit(divided, dividedRanks, cfg), "variance 19.44 exceeds limit 9")

	tiny := NewFounderTribe(1, 2)
	tiny.Add(1)
	tiny.Add(2)
	tiny.Add(3)
	assert.False(t, ShouldSplit(tiny, dividedRanks, cfg), "tribes under 4 members never split")
}

func TestShouldSplit_SizeCap(t *testing.T) {
	cfg := splitConfig()
	cfg.Social.TribeMaxSize = 4

	tr := NewFounderTribe(1, 0)
	ranks := map[agents.AgentID]float64{}
	for id := agents.AgentID(1); id <= 5; id++ {
		tr.Add(id)
		ranks[id] = 5
	}
	assert.True(t, ShouldSplit(tr, ranks, cfg), "oversize tribe splits even with flat ranks")
}

func TestStartTribalSplit_RankSeparation(t *testing.T) {
	// Ranks [10,10,10,1,1] split along the widest gap into three high, two low.
	tr := NewFounderTribe(1, 0)
	ranks := map[agents.AgentID]float64{1: 10, 2: 1, 3: 10, 4: 1, 5: 10}
	for id := agents.AgentID(1); id <= 5; id++ {
		tr.Add(id)
	}
	originalID := tr.ID

	parts := StartTribalSplit(tr, ranks, 77)
	require.Len(t, parts, 2)

	high, low := parts[0], parts[1]
	assert.Equal(t, originalID, high.ID, "high-rank subgroup keeps the original identity")
	assert.NotEqual(t, originalID, low.ID)
	assert.Equal(t, uint64(77), low.FoundedTick)

	assert.ElementsMatch(t, []agents.AgentID{1, 3, 5}, high.Members)
	assert.ElementsMatch(t, []agents.AgentID{2, 4}, low.Members)
}

func TestStartTribalSplit_MembershipPreserved(t *testing.T) {
	tr := NewFounderTribe(1, 0)
	ranks := map[agents.AgentID]float64{}
	for id := agents.AgentID(1); id <= 9; id++ {
		tr.Add(id)
		ranks[id] = float64(id % 4)
	}
	original := append([]agents.AgentID(nil), tr.Members...)

	parts := StartTribalSplit(tr, ranks, 5)

	var combined []agents.AgentID
	seen := map[agents.AgentID]int{}
	for _, p := range parts {
		for _, id := range p.Members {
			combined = append(combined, id)
			seen[id]++
		}
	}
	assert.ElementsMatch(t, original, combined, "no member lost or invented")
	for id, count := range seen {
		assert.Equal(t, 1, count, "agent %d must land in exactly one tribe", id)
	}
}

func TestStartTribalSplit_Deterministic(t *testing.T) {
	build := func() (*Tribe, map[agents.AgentID]float64) {
		tr := NewFounderTribe(9, 0)
		ranks := map[agents.AgentID]float64{}
		for id := agents.AgentID(1); id <= 8; id++ {
			tr.Add(id)
			ranks[id] = float64((id * 3) % 5)
		}
		return tr, ranks
	}

	t1, r1 := build()
	t2, r2 := build()
	p1 := StartTribalSplit(t1, r1, 40)
	p2 := StartTribalSplit(t2, r2, 40)

	require.Len(t, p2, len(p1))
	for i := range p1 {
		assert.Equal(t, p1[i].ID, p2[i].ID)
		assert.Equal(t, p1[i].Members, p2[i].Members)
	}
}

func TestStartTribalSplit_FlatRanksHalve(t *testing.T) {
	tr := NewFounderTribe(2, 0)
	ranks := map[agents.AgentID]float64{}
	for id := agents.AgentID(1); id <= 6; id++ {
		tr.Add(id)
		ranks[id] = 3
	}

	parts := StartTribalSplit(tr, ranks, 10)
	require.Len(t, parts, 2)
	assert.Equal(t, 3, parts[0].Size())
	assert.Equal(t, 3, parts[1].Size())
	// Identity order is the tie-break: lowest IDs stay with the original.
	assert.Equal(t, []agents.AgentID{1, 2, 3}, parts[0].Members)
	assert.Equal(t, []agents.AgentID{4, 5, 6}, parts[1].Members)
}
