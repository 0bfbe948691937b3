package social

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/talgya/tribesim/internal/agents"
)

func TestAreSameTribe(t *testing.T) {
	tribeA := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	tribeACopy := tribeA
	tribeB := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	tests := []struct {
		name string
		a, b *uuid.UUID
		want bool
	}{
		{"same tribe", &tribeA, &tribeACopy, true},
		{"different tribes", &tribeA, &tribeB, false},
		{"one tribeless", &tribeA, nil, false},
		{"both tribeless never same", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &agents.Intel{ID: 1, TribeID: tt.a}
			b := &agents.Intel{ID: 2, TribeID: tt.b}
			assert.Equal(t, tt.want, AreSameTribe(a, b))
		})
	}
}

func TestTribeMembership(t *testing.T) {
	tr := NewFounderTribe(42, 0)
	tr.Add(3)
	tr.Add(1)
	tr.Add(3) // duplicate ignored
	assert.Equal(t, 2, tr.Size())
	assert.True(t, tr.Contains(1))

	tr.Remove(3)
	assert.False(t, tr.Contains(3))
	tr.Remove(99) // absent member is a no-op
	assert.Equal(t, 1, tr.Size())
}

func TestFounderTribeID_Deterministic(t *testing.T) {
	assert.Equal(t, NewFounderTribe(42, 0).ID, NewFounderTribe(42, 0).ID)
	assert.NotEqual(t, NewFounderTribe(42, 0).ID, NewFounderTribe(42, 1).ID)
	assert.NotEqual(t, NewFounderTribe(42, 0).ID, NewFounderTribe(43, 0).ID)
}

func TestDeriveTribeID_Deterministic(t *testing.T) {
	parent := uuid.MustParse("33333333-3333-3333-3333-333333333333")
	assert.Equal(t, DeriveTribeID(parent, 100, 1), DeriveTribeID(parent, 100, 1))
	assert.NotEqual(t, DeriveTribeID(parent, 100, 1), DeriveTribeID(parent, 101, 1))
	assert.NotEqual(t, DeriveTribeID(parent, 100, 1), DeriveTribeID(parent, 100, 2))
}

func TestCalculateSocialRank_PureAndMonotonicInEnergy(t *testing.T) {
	tctx := TribeContext{Size: 5, MeanEnergy: 50, Tick: 100}

	poor := &agents.Intel{ID: 1, Energy: 10, BornTick: 0}
	rich := &agents.Intel{ID: 2, Energy: 90, BornTick: 0}

	rankPoor := CalculateSocialRank(poor, tctx)
	rankRich := CalculateSocialRank(rich, tctx)
	assert.Greater(t, rankRich, rankPoor)

	// Pure: repeated calls agree and nothing was mutated.
	assert.Equal(t, rankRich, CalculateSocialRank(rich, tctx))
	assert.Equal(t, 90.0, rich.Energy)
}

func TestCalculateSocialRank_SpecializationCarriesStanding(t *testing.T) {
	tctx := TribeContext{Size: 3, MeanEnergy: 40, Tick: 500}

	plain := &agents.Intel{ID: 1, Energy: 40}
	committed := &agents.Intel{
		ID:             2,
		Energy:         40,
		Specialization: agents.Specialization{Kind: agents.SpecEngineer, Committed: true},
	}
	assert.Greater(t, CalculateSocialRank(committed, tctx), CalculateSocialRank(plain, tctx))
}

func TestRankVariance(t *testing.T) {
	assert.Zero(t, RankVariance(nil))
	assert.Zero(t, RankVariance([]float64{5, 5, 5}))
	// ranks [10,10,10,1,1]: mean 6.4, variance 19.44
	assert.InDelta(t, 19.44, RankVariance([]float64{10, 10, 10, 1, 1}), 1e-9)
}
