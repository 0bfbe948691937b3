package legends

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/tribesim/internal/agents"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleRecord(id agents.AgentID, tick uint64) Record {
	tribe := uuid.MustParse("55555555-5555-5555-5555-555555555555")
	return Record{
		AgentID:        id,
		Name:           "Astrid Stormcrow",
		Specialization: "Provider",
		SocialRank:     14.5,
		Energy:         61,
		AgeTicks:       4200,
		LineageDepth:   6,
		TribeID:        &tribe,
		Genotype:       agents.NewGenotype([agents.NumSpecializations]float64{0.2, -0.4, 1.1}, 0.7, 0.3, 0.2),
		ParentIDs:      []agents.AgentID{3, 4},
		ArchivedTick:   tick,
	}
}

func TestStore_AppendAndContains(t *testing.T) {
	st := openTestStore(t)

	ok, err := st.Contains(9)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Append(sampleRecord(9, 100)))

	ok, err = st.Contains(9)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := st.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_DuplicateAppendRejected(t *testing.T) {
	st := openTestStore(t)
	require.NoError(t, st.Append(sampleRecord(9, 100)))
	assert.Error(t, st.Append(sampleRecord(9, 200)), "append-only table refuses to rewrite history")
}

func TestStore_RecentRoundTrips(t *testing.T) {
	st := openTestStore(t)
	require.NoError(t, st.Append(sampleRecord(1, 100)))
	require.NoError(t, st.Append(sampleRecord(2, 300)))
	require.NoError(t, st.Append(sampleRecord(3, 200)))

	recent, err := st.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, agents.AgentID(2), recent[0].AgentID, "newest first")
	assert.Equal(t, agents.AgentID(3), recent[1].AgentID)

	want := sampleRecord(2, 300)
	got := recent[0]
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Specialization, got.Specialization)
	assert.Equal(t, want.SocialRank, got.SocialRank)
	assert.Equal(t, want.Genotype, got.Genotype)
	assert.Equal(t, want.ParentIDs, got.ParentIDs)
	require.NotNil(t, got.TribeID)
	assert.Equal(t, *want.TribeID, *got.TribeID)
}

func TestStore_NilTribeID(t *testing.T) {
	st := openTestStore(t)
	rec := sampleRecord(5, 50)
	rec.TribeID = nil
	require.NoError(t, st.Append(rec))

	recent, err := st.Recent(1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Nil(t, recent[0].TribeID)
}

func TestStore_SatisfiesArchiveInterface(t *testing.T) {
	var _ Archive = openTestStore(t)
}
