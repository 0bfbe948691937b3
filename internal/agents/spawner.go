// Agent spawning — creates the initial population and synthesizes offspring
// records from parent snapshots.
package agents

import (
	"math/rand"

	"github.com/talgya/tribesim/internal/entropy"
)

// Spawner creates agents for the simulation. The initial population draws
// from the spawner's own seeded stream; offspring synthesis takes an external
// stream so parallel reproduction workers stay independent.
type Spawner struct {
	rng    *rand.Rand
	nextID AgentID
}

// NewSpawner creates an agent spawner with the given world seed.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{
		rng:    entropy.Stream(seed, entropy.SubsystemSpawn),
		nextID: 1,
	}
}

// SetNextID sets the next agent ID to be issued (used when restoring state).
func (s *Spawner) SetNextID(id AgentID) {
	s.nextID = id
}

// IssueID hands out the next agent ID. Called only from single-threaded
// commit phases.
func (s *Spawner) IssueID() AgentID {
	id := s.nextID
	s.nextID++
	return id
}

// SpawnPopulation creates a batch of founder agents around an origin point.
func (s *Spawner) SpawnPopulation(count uint32, origin Position) []*Intel {
	founders := make([]*Intel, 0, count)
	for i := uint32(0); i < count; i++ {
		founders = append(founders, s.spawnOne(origin))
	}
	return founders
}

func (s *Spawner) spawnOne(origin Position) *Intel {
	id := s.IssueID()

	// Biases centered on zero with moderate spread; NewGenotype clamps the
	// rare deep-negative draw to the -1 floor.
	var bias [NumSpecializations]float64
	for i := range bias {
		bias[i] = s.rng.NormFloat64() * 0.4
	}
	genotype := NewGenotype(bias,
		0.4+s.rng.Float64()*0.4,
		0.3+s.rng.Float64()*0.4,
		s.rng.Float64(),
	)

	return &Intel{
		ID:       id,
		Name:     s.generateName(),
		Genotype: genotype,
		Energy:   40 + s.rng.Float64()*30,
		Position: Position{
			X: origin.X + s.rng.NormFloat64()*8,
			Y: origin.Y + s.rng.NormFloat64()*8,
		},
		BornTick: 0,
		Alive:    true,
	}
}

func (s *Spawner) generateName() string {
	return RandomName(s.rng)
}

// RandomName draws a procedural name from the shared pools. Reproduction
// workers call this with their own derived streams.
func RandomName(rng *rand.Rand) string {
	first := firstNames[rng.Intn(len(firstNames))]
	last := lastNames[rng.Intn(len(lastNames))]
	return first + " " + last
}

// Name pools for procedural generation.
var firstNames = []string{
	"Aldric", "Astrid", "Bram", "Brenna", "Cedric", "Calla", "Doran",
	"Daria", "Erik", "Elara", "Finn", "Freya", "Gareth", "Greta",
	"Halvard", "Helene", "Ivan", "Iris", "Jasper", "Juno", "Kael",
	"Kira", "Leif", "Lena", "Magnus", "Mira", "Nils", "Nessa",
	"Oswin", "Olwen", "Per", "Petra", "Quinn", "Runa", "Rowan",
	"Senna", "Stellan", "Thea", "Theron", "Una", "Ulric", "Vera",
	"Varen", "Willa", "Wren", "Yara", "Yorick", "Zara", "Zander",
}

var lastNames = []string{
	"Voss", "Thornwood", "Blackwood", "Ashford", "Ironhand", "Dunmore",
	"Greenvale", "Stormcrow", "Frostborn", "Hearthstone", "Millward",
	"Copperfield", "Ravenmoor", "Silverdale", "Wolfsbane", "Stoneheart",
	"Deepwell", "Brightwater", "Oakenshield", "Redforge", "Windholm",
	"Marshwood", "Goldhaven", "Nightingale", "Riverstone", "Steelworth",
	"Embercroft", "Holloway", "Dawnridge", "Farrow", "Wyatt", "Thatcher",
	"Briar", "Caldwell", "Frost", "Harper", "Mercer", "Ward", "Cross",
}
