// Package agents provides the per-agent data model: the Intel record, the
// heritable Genotype, and the specialization tracker.
package agents

import (
	"github.com/google/uuid"
)

// AgentID is a unique identifier for an agent. Monotonic per run; never reused.
type AgentID uint64

// SpecializationKind is the closed set of roles an agent can commit to.
type SpecializationKind uint8

const (
	SpecSoldier  SpecializationKind = iota // Combat and predation
	SpecEngineer                           // Construction and tooling
	SpecProvider                           // Food and energy gathering
)

// NumSpecializations is the size of the closed specialization set.
const NumSpecializations = 3

// BiasIndex maps a specialization kind to its slot in the genotype bias
// array. The mapping is explicit so the array layout never silently depends
// on enum representation.
func BiasIndex(kind SpecializationKind) int {
	switch kind {
	case SpecSoldier:
		return 0
	case SpecEngineer:
		return 1
	case SpecProvider:
		return 2
	default:
		panic("agents: unknown specialization kind")
	}
}

// AllSpecializations lists every kind in stable order.
func AllSpecializations() [NumSpecializations]SpecializationKind {
	return [NumSpecializations]SpecializationKind{SpecSoldier, SpecEngineer, SpecProvider}
}

// SpecializationName returns a human-readable role name.
func SpecializationName(kind SpecializationKind) string {
	switch kind {
	case SpecSoldier:
		return "Soldier"
	case SpecEngineer:
		return "Engineer"
	case SpecProvider:
		return "Provider"
	default:
		return "Unknown"
	}
}

// Specialization is a write-once committed role. The zero value is the
// uncommitted state; once Committed is set the Kind never changes. All
// commits go through IncrementSpecMeter — nothing else writes this field.
type Specialization struct {
	Kind      SpecializationKind `json:"kind"`
	Committed bool               `json:"committed"`
}

// Position is a point in the world plane. Placement of offspring uses it;
// movement and pathfinding are owned by other layers.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Intel is the social/cognitive state record, one per agent. The population
// container exclusively owns all live Intel records; parallel stages read
// them only through snapshots.
type Intel struct {
	ID   AgentID `json:"id"`
	Name string  `json:"name"`

	// Role progression. SpecMeters entries only grow, and freeze once
	// Specialization commits.
	Specialization Specialization                 `json:"specialization"`
	SpecMeters     map[SpecializationKind]float64 `json:"spec_meters"`

	// Heritable traits. Immutable after creation; reproduction copies and
	// recombines, never edits in place.
	Genotype Genotype `json:"genotype"`

	// Social standing.
	SocialRank float64    `json:"social_rank"`
	TribeID    *uuid.UUID `json:"tribe_id,omitempty"`

	// Vital state. Energy doubles as reproduction fitness.
	Energy   float64  `json:"energy"`
	Position Position `json:"position"`

	// Lineage and lifetime.
	BornTick     uint64    `json:"born_tick"`
	LineageDepth uint32    `json:"lineage_depth"`
	ParentIDs    []AgentID `json:"parent_ids,omitempty"`

	Alive    bool `json:"alive"`
	Archived bool `json:"archived"` // legend snapshot already taken
}

// Age returns ticks lived as of the given tick.
func (in *Intel) Age(tick uint64) uint64 {
	if tick < in.BornTick {
		return 0
	}
	return tick - in.BornTick
}

// Clone returns a deep copy of the record, decoupled from the live Intel.
// Used for parent snapshots and legend records.
func (in *Intel) Clone() *Intel {
	cp := *in
	if in.SpecMeters != nil {
		cp.SpecMeters = make(map[SpecializationKind]float64, len(in.SpecMeters))
		for k, v := range in.SpecMeters {
			cp.SpecMeters[k] = v
		}
	}
	if in.TribeID != nil {
		id := *in.TribeID
		cp.TribeID = &id
	}
	if in.ParentIDs != nil {
		cp.ParentIDs = append([]AgentID(nil), in.ParentIDs...)
	}
	return &cp
}
