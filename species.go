package main

// Kind identifies the entity variant
type Kind int

const (
	KindPlayer   Kind = 0
	KindGrain    Kind = 1
	KindPrey     Kind = 2
	KindPredator Kind = 3
	KindObstacle Kind = 4
	KindBonus    Kind = 5
	KindHazard   Kind = 6
)

var kindNames = [7]string{"player", "grain", "prey", "predator", "obstacle", "bonus", "hazard"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// SpeciesDef holds the gameplay stats for an entity kind
type SpeciesDef struct {
	Name       string
	Multiplier int       // score per player speed level when consumed
	Edible     bool      // counts toward level depletion
	Moves      bool      // updated every eligible tick
	Fill       FillStyle // default fill, overridable per spawn
}

var SpeciesTable = [7]SpeciesDef{
	// Player: the controlled serpent
	{Name: "player", Multiplier: 0, Edible: false, Moves: true, Fill: "#22cc88"},
	// Grain: static food, the bulk of every level
	{Name: "grain", Multiplier: 1, Edible: true, Moves: false, Fill: "#e8d44d"},
	// Prey: skittish walker, worth a proper chase
	{Name: "prey", Multiplier: 3, Edible: true, Moves: true, Fill: "#d97b29"},
	// Predator: fast and mean, best points of the three
	{Name: "predator", Multiplier: 5, Edible: true, Moves: true, Fill: "#c0392b"},
	// Obstacle: dead walls
	{Name: "obstacle", Multiplier: 0, Edible: false, Moves: false, Fill: "#5d6d7e"},
	// Bonus: positive pickup
	{Name: "bonus", Multiplier: 0, Edible: false, Moves: false, Fill: "#3498db"},
	// Hazard: negative pickup
	{Name: "hazard", Multiplier: 0, Edible: false, Moves: false, Fill: "#8e44ad"},
}

// GetSpecies returns the definition for a kind
func GetSpecies(k Kind) SpeciesDef {
	if k < 0 || int(k) >= len(SpeciesTable) {
		return SpeciesTable[KindGrain]
	}
	return SpeciesTable[k]
}

// EdibleKinds lists the species the depletion check covers
var EdibleKinds = [3]Kind{KindGrain, KindPrey, KindPredator}
