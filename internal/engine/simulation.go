// Package engine owns the live population and runs the social-dynamics
// stages each tick: specialization accrual, rank and tribe structure,
// reproduction, symbiosis/predation, and the legend sweep.
package engine

import (
	"github.com/google/uuid"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/tribesim/internal/agents"
	"github.com/talgya/tribesim/internal/config"
	"github.com/talgya/tribesim/internal/legends"
	"github.com/talgya/tribesim/internal/social"
)

// Simulation is the population container: it exclusively owns all live Intel
// records and the tribe index. Parallel stages read snapshots; all mutation
// of shared state happens in single-threaded commit phases.
type Simulation struct {
	Config *config.AppConfig
	Seed   int64

	Agents     []*agents.Intel
	AgentIndex map[agents.AgentID]*agents.Intel

	// Tribes in creation order for deterministic iteration, plus an ID index.
	Tribes     []*social.Tribe
	TribeIndex map[uuid.UUID]*social.Tribe

	Spawner *agents.Spawner
	Archive legends.Archive

	// Smooth noise field supplying the offspring placement parameter.
	placement opensimplex.Noise

	LastTick uint64
	Stats    SimStats

	workers int
}

// SimStats tracks aggregate counters across the run.
type SimStats struct {
	Population  int     `json:"population"`
	TribeCount  int     `json:"tribe_count"`
	AvgEnergy   float64 `json:"avg_energy"`
	Births      uint64  `json:"births"`
	Deaths      uint64  `json:"deaths"`
	Legends     uint64  `json:"legends"`
	Specialized int     `json:"specialized"`
	Splits      uint64  `json:"splits"`
}

// NewSimulation builds the container around an initial population, assigning
// founders round-robin to the configured number of founder tribes.
func NewSimulation(cfg *config.AppConfig, spawner *agents.Spawner, founders []*agents.Intel, archive legends.Archive) *Simulation {
	s := &Simulation{
		Config:     cfg,
		Seed:       cfg.Sim.Seed,
		AgentIndex: make(map[agents.AgentID]*agents.Intel, len(founders)),
		TribeIndex: make(map[uuid.UUID]*social.Tribe),
		Spawner:    spawner,
		Archive:    archive,
		placement:  opensimplex.New(cfg.Sim.Seed),
		workers:    cfg.WorkerCount(),
	}

	for i := 0; i < cfg.Sim.FounderTribes; i++ {
		s.addTribe(social.NewFounderTribe(cfg.Sim.Seed, i))
	}

	for i, a := range founders {
		tribe := s.Tribes[i%len(s.Tribes)]
		s.addAgent(a)
		s.assignTribe(a, tribe)
	}

	s.updateStats()
	return s
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 {
	return s.LastTick
}

// addAgent registers a new agent in all indexes. Commit-phase only.
func (s *Simulation) addAgent(a *agents.Intel) {
	s.Agents = append(s.Agents, a)
	s.AgentIndex[a.ID] = a
}

// addTribe registers a tribe in creation order. Commit-phase only.
func (s *Simulation) addTribe(t *social.Tribe) {
	s.Tribes = append(s.Tribes, t)
	s.TribeIndex[t.ID] = t
}

// assignTribe moves an agent into a tribe, leaving its previous tribe first.
// The agent is never observed tribeless in between because this runs only in
// single-threaded commit phases.
func (s *Simulation) assignTribe(a *agents.Intel, t *social.Tribe) {
	if a.TribeID != nil {
		if prev, ok := s.TribeIndex[*a.TribeID]; ok {
			prev.Remove(a.ID)
		}
	}
	if t == nil {
		a.TribeID = nil
		return
	}
	t.Add(a.ID)
	id := t.ID
	a.TribeID = &id
}

// dissolveEmptyTribes drops tribes with no members. A memberless tribe is
// implicitly dissolved; nothing references it afterwards.
func (s *Simulation) dissolveEmptyTribes() {
	kept := s.Tribes[:0]
	for _, t := range s.Tribes {
		if t.Size() == 0 {
			delete(s.TribeIndex, t.ID)
			continue
		}
		kept = append(kept, t)
	}
	s.Tribes = kept
}

func (s *Simulation) updateStats() {
	alive := 0
	specialized := 0
	totalEnergy := 0.0
	for _, a := range s.Agents {
		if !a.Alive {
			continue
		}
		alive++
		totalEnergy += a.Energy
		if a.Specialization.Committed {
			specialized++
		}
	}
	s.Stats.Population = alive
	s.Stats.Specialized = specialized
	s.Stats.TribeCount = len(s.Tribes)
	if alive > 0 {
		s.Stats.AvgEnergy = totalEnergy / float64(alive)
	} else {
		s.Stats.AvgEnergy = 0
	}
}
