// Package legends archives exceptional agents as immutable legend records.
// The archive is append-only: this subsystem never edits or removes entries.
package legends

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/talgya/tribesim/internal/agents"
	"github.com/talgya/tribesim/internal/config"
)

// Record is an immutable snapshot of an agent at archive time. Once written
// it never changes, even if the live agent lives on.
type Record struct {
	AgentID        agents.AgentID   `json:"agent_id" db:"agent_id"`
	Name           string           `json:"name" db:"name"`
	Specialization string           `json:"specialization" db:"specialization"`
	SocialRank     float64          `json:"social_rank" db:"social_rank"`
	Energy         float64          `json:"energy" db:"energy"`
	AgeTicks       uint64           `json:"age_ticks" db:"age_ticks"`
	LineageDepth   uint32           `json:"lineage_depth" db:"lineage_depth"`
	TribeID        *uuid.UUID       `json:"tribe_id,omitempty" db:"tribe_id"`
	Genotype       agents.Genotype  `json:"genotype"`
	ParentIDs      []agents.AgentID `json:"parent_ids,omitempty"`
	ArchivedTick   uint64           `json:"archived_tick" db:"archived_tick"`
}

// Archive is an append-only sink for legend records. Append may fail
// independently (storage I/O); callers surface that failure rather than
// suppress it, leaving the agent unarchived and eligible for retry.
type Archive interface {
	Append(rec Record) error
	Contains(id agents.AgentID) (bool, error)
}

// IsLegendWorthy is the pure worthiness predicate: committed specialization,
// and rank, age, and lineage depth all at or above the configured criteria.
func IsLegendWorthy(in *agents.Intel, tick uint64, cfg *config.AppConfig) bool {
	if !in.Specialization.Committed {
		return false
	}
	s := &cfg.Social
	return in.SocialRank >= s.LegendMinRank &&
		in.Age(tick) >= s.LegendMinAge &&
		in.LineageDepth >= s.LegendMinLineage
}

// ArchiveIfLegend archives the agent if worthy, exactly once per lifetime.
// Idempotent: the per-agent Archived flag short-circuits repeat calls, and an
// archive membership check covers agents restored without the flag. Apart
// from setting that flag on success, the live agent's state is untouched.
// Append failures propagate and leave the flag unset so the next tick
// retries.
func ArchiveIfLegend(in *agents.Intel, archive Archive, tick uint64, cfg *config.AppConfig) error {
	if in.Archived {
		return nil
	}
	if !IsLegendWorthy(in, tick, cfg) {
		return nil
	}

	present, err := archive.Contains(in.ID)
	if err != nil {
		return fmt.Errorf("archive membership check for agent %d: %w", in.ID, err)
	}
	if present {
		in.Archived = true
		return nil
	}

	if err := archive.Append(snapshot(in, tick)); err != nil {
		return fmt.Errorf("archive agent %d: %w", in.ID, err)
	}
	in.Archived = true
	return nil
}

// snapshot copies the agent's state into an independent record.
func snapshot(in *agents.Intel, tick uint64) Record {
	rec := Record{
		AgentID:        in.ID,
		Name:           in.Name,
		Specialization: agents.SpecializationName(in.Specialization.Kind),
		SocialRank:     in.SocialRank,
		Energy:         in.Energy,
		AgeTicks:       in.Age(tick),
		LineageDepth:   in.LineageDepth,
		Genotype:       in.Genotype,
		ArchivedTick:   tick,
	}
	if in.TribeID != nil {
		id := *in.TribeID
		rec.TribeID = &id
	}
	if in.ParentIDs != nil {
		rec.ParentIDs = append([]agents.AgentID(nil), in.ParentIDs...)
	}
	return rec
}

// MemoryArchive is an in-process Archive, used in tests and as the driver
// fallback when no database path is configured.
type MemoryArchive struct {
	records []Record
	byAgent map[agents.AgentID]struct{}
}

// NewMemoryArchive creates an empty in-memory archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{byAgent: make(map[agents.AgentID]struct{})}
}

// Append stores the record.
func (m *MemoryArchive) Append(rec Record) error {
	m.records = append(m.records, rec)
	m.byAgent[rec.AgentID] = struct{}{}
	return nil
}

// Contains reports archive membership.
func (m *MemoryArchive) Contains(id agents.AgentID) (bool, error) {
	_, ok := m.byAgent[id]
	return ok, nil
}

// Records returns the archived entries in append order.
func (m *MemoryArchive) Records() []Record {
	return m.records
}
