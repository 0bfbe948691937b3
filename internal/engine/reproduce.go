// Reproduction engine — parallel asexual and sexual offspring synthesis.
//
// Both entry points follow the same two-phase shape: a parallel fan-out in
// which every worker reads only an immutable ParentData snapshot and writes
// only the child record it owns, then a single-threaded commit phase that
// debits parent energy and inserts offspring. Offspring are committed in
// input order with per-parent derived random streams, so a run is
// reproducible from its seed and input ordering alone.
package engine

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/talgya/tribesim/internal/agents"
	"github.com/talgya/tribesim/internal/entropy"
)

// Caller-contract violations for sexual pairing input. An invalid pair set
// aborts the reproduction pass, never the tick.
var (
	ErrUnknownParent    = errors.New("pair references unknown agent")
	ErrIneligibleParent = errors.New("pair references ineligible agent")
	ErrDuplicateParent  = errors.New("agent appears in more than one pair")
)

// ParentPair names two agents selected for sexual reproduction. Pairing
// policy belongs to the caller; the engine only validates and executes.
type ParentPair struct {
	A agents.AgentID `json:"a"`
	B agents.AgentID `json:"b"`
}

// ParentData is a read-only snapshot of one parent, taken at the start of
// the pass and decoupled from the live record. Workers never touch the live
// Intel during fan-out.
type ParentData struct {
	ID           agents.AgentID
	Energy       float64
	SocialRank   float64
	Genotype     agents.Genotype
	TribeID      *uuid.UUID
	Position     agents.Position
	LineageDepth uint32
}

// AsexualReproductionContext carries everything one worker needs to
// synthesize a child from a single parent. Transient; never persisted.
type AsexualReproductionContext struct {
	Parent          ParentData
	MutationRate    float64
	MutationScale   float64
	OffspringEnergy float64
	Placement       agents.Position
	Rng             *rand.Rand
}

// ReproductionContext is the sexual counterpart, carrying both parents.
type ReproductionContext struct {
	ParentA         ParentData
	ParentB         ParentData
	MutationRate    float64
	MutationScale   float64
	OffspringEnergy float64
	Placement       agents.Position
	Rng             *rand.Rand
}

// snapshotParent copies the fields reproduction reads out of a live record.
func snapshotParent(a *agents.Intel) ParentData {
	pd := ParentData{
		ID:           a.ID,
		Energy:       a.Energy,
		SocialRank:   a.SocialRank,
		Genotype:     a.Genotype,
		Position:     a.Position,
		LineageDepth: a.LineageDepth,
	}
	if a.TribeID != nil {
		id := *a.TribeID
		pd.TribeID = &id
	}
	return pd
}

// eligibleParent is the reproduction precondition: alive with energy at or
// above the configured minimum.
func (s *Simulation) eligibleParent(a *agents.Intel) bool {
	return a.Alive && a.Energy >= s.Config.Social.ReproductionMinEnergy
}

// placementFor samples the smooth placement field for one child, yielding a
// deterministic scatter offset around the parent position.
func (s *Simulation) placementFor(parent agents.Position, childOrdinal uint64, tick uint64) agents.Position {
	t := float64(tick) * 0.01
	o := float64(childOrdinal) * 0.37
	return agents.Position{
		X: parent.X + s.placement.Eval2(parent.X*0.05+o, t)*4,
		Y: parent.Y + s.placement.Eval2(t, parent.Y*0.05-o)*4,
	}
}

// ReproduceAsexualParallel synthesizes one child per eligible parent.
// Ineligible parents are silently skipped — that is a normal outcome, not an
// error. Returned offspring are already inserted into the live population by
// the commit phase; parents have been debited exactly once each.
func (s *Simulation) ReproduceAsexualParallel(tick uint64) []*agents.Intel {
	var parents []ParentData
	for _, a := range s.Agents {
		if s.eligibleParent(a) {
			parents = append(parents, snapshotParent(a))
		}
	}
	if len(parents) == 0 {
		return nil
	}

	// Fan-out: each worker owns exactly the child slot at its index.
	children := make([]*agents.Intel, len(parents))
	forEachIndex(s.workers, len(parents), func(i int) {
		p := parents[i]
		rctx := AsexualReproductionContext{
			Parent:          p,
			MutationRate:    s.Config.Social.MutationRate,
			MutationScale:   s.Config.Social.MutationScale,
			OffspringEnergy: s.Config.Social.OffspringEnergy,
			Placement:       s.placementFor(p.Position, uint64(p.ID), tick),
			Rng:             entropy.Stream(s.Seed, entropy.SubsystemReproduction, tick, uint64(p.ID)),
		}
		children[i] = synthesizeAsexual(rctx, tick)
	})

	// Commit: IDs, energy debits, and population insertion in input order.
	for i, child := range children {
		child.ID = s.Spawner.IssueID()
		parent := s.AgentIndex[parents[i].ID]
		parent.Energy -= s.Config.Social.ReproductionCost
		s.addAgent(child)
		if child.TribeID != nil {
			if t, ok := s.TribeIndex[*child.TribeID]; ok {
				t.Add(child.ID)
			}
		}
		s.Stats.Births++
	}

	return children
}

// ReproduceSexualParallel synthesizes one child per supplied parent pair.
// The pair set is validated up front: any pair referencing an unknown, dead,
// under-energy, or already-paired agent aborts the whole pass with a
// caller-contract error before any fan-out work starts.
func (s *Simulation) ReproduceSexualParallel(tick uint64, pairs []ParentPair) ([]*agents.Intel, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	seen := make(map[agents.AgentID]struct{}, len(pairs)*2)
	contexts := make([]ReproductionContext, 0, len(pairs))
	for _, pair := range pairs {
		var snaps [2]ParentData
		for j, id := range [2]agents.AgentID{pair.A, pair.B} {
			a, ok := s.AgentIndex[id]
			if !ok {
				return nil, fmt.Errorf("pair (%d, %d): agent %d: %w", pair.A, pair.B, id, ErrUnknownParent)
			}
			if !s.eligibleParent(a) {
				return nil, fmt.Errorf("pair (%d, %d): agent %d: %w", pair.A, pair.B, id, ErrIneligibleParent)
			}
			if _, dup := seen[id]; dup {
				return nil, fmt.Errorf("pair (%d, %d): agent %d: %w", pair.A, pair.B, id, ErrDuplicateParent)
			}
			seen[id] = struct{}{}
			snaps[j] = snapshotParent(a)
		}
		contexts = append(contexts, ReproductionContext{
			ParentA:         snaps[0],
			ParentB:         snaps[1],
			MutationRate:    s.Config.Social.MutationRate,
			MutationScale:   s.Config.Social.MutationScale,
			OffspringEnergy: s.Config.Social.OffspringEnergy,
			Placement:       s.placementFor(snaps[0].Position, uint64(snaps[0].ID), tick),
			Rng:             entropy.Stream(s.Seed, entropy.SubsystemReproduction, tick, uint64(snaps[0].ID), uint64(snaps[1].ID)),
		})
	}

	children := make([]*agents.Intel, len(contexts))
	forEachIndex(s.workers, len(contexts), func(i int) {
		children[i] = synthesizeSexual(contexts[i], tick)
	})

	// Commit: both parents debited, offspring inserted in pair order.
	for i, child := range children {
		child.ID = s.Spawner.IssueID()
		for _, pd := range [2]ParentData{contexts[i].ParentA, contexts[i].ParentB} {
			s.AgentIndex[pd.ID].Energy -= s.Config.Social.ReproductionCost
		}
		s.addAgent(child)
		if child.TribeID != nil {
			if t, ok := s.TribeIndex[*child.TribeID]; ok {
				t.Add(child.ID)
			}
		}
		s.Stats.Births++
	}

	return children, nil
}

// synthesizeAsexual builds a child record from a genotype copy plus mutation.
// The parent snapshot is read-only; the returned record is exclusively owned
// by the caller until commit.
func synthesizeAsexual(rctx AsexualReproductionContext, tick uint64) *agents.Intel {
	p := rctx.Parent
	child := &agents.Intel{
		Name:         agents.RandomName(rctx.Rng),
		Genotype:     agents.Mutate(p.Genotype, rctx.MutationRate, rctx.MutationScale, rctx.Rng),
		Energy:       rctx.OffspringEnergy,
		Position:     rctx.Placement,
		BornTick:     tick,
		LineageDepth: p.LineageDepth + 1,
		ParentIDs:    []agents.AgentID{p.ID},
		Alive:        true,
	}
	if p.TribeID != nil {
		id := *p.TribeID
		child.TribeID = &id
	}
	return child
}

// synthesizeSexual builds a child from uniform per-trait crossover of both
// parents' genotypes plus mutation. The child joins the higher-ranked
// parent's tribe (parent A on ties).
func synthesizeSexual(rctx ReproductionContext, tick uint64) *agents.Intel {
	a, b := rctx.ParentA, rctx.ParentB

	genotype := agents.Recombine(a.Genotype, b.Genotype, rctx.Rng)
	genotype = agents.Mutate(genotype, rctx.MutationRate, rctx.MutationScale, rctx.Rng)

	depth := a.LineageDepth
	if b.LineageDepth > depth {
		depth = b.LineageDepth
	}

	child := &agents.Intel{
		Name:         agents.RandomName(rctx.Rng),
		Genotype:     genotype,
		Energy:       rctx.OffspringEnergy,
		Position:     rctx.Placement,
		BornTick:     tick,
		LineageDepth: depth + 1,
		ParentIDs:    []agents.AgentID{a.ID, b.ID},
		Alive:        true,
	}

	lead := a
	if b.SocialRank > a.SocialRank {
		lead = b
	}
	if lead.TribeID != nil {
		id := *lead.TribeID
		child.TribeID = &id
	}
	return child
}
