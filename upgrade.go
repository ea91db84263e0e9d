package main

import "math/rand"

// UpgradeType identifies a bonus effect
type UpgradeType int

const (
	UpgradeExtraLife    UpgradeType = 0 // one-shot: +1 life
	UpgradeLevelReset   UpgradeType = 1 // one-shot: replay the level, score and lives kept
	UpgradeFreeze       UpgradeType = 2 // progressive: predators stop moving while held
	UpgradeWallBreak    UpgradeType = 3 // progressive: smash an obstacle cell instead of dying
	UpgradePoisonShield UpgradeType = 4 // progressive: absorbs one hazard
)

var upgradeNames = [5]string{"extra-life", "level-reset", "freeze", "wall-break", "poison-shield"}

func (u UpgradeType) String() string {
	if u < 0 || int(u) >= len(upgradeNames) {
		return "unknown"
	}
	return upgradeNames[u]
}

// IsProgressive reports whether the effect sits in the upgrade set until
// consumed or stripped, as opposed to applying once on pickup
func (u UpgradeType) IsProgressive() bool {
	return u == UpgradeFreeze || u == UpgradeWallBreak || u == UpgradePoisonShield
}

// HazardType identifies a hazard effect
type HazardType int

const (
	HazardVenom  HazardType = 0 // score penalty proportional to speed
	HazardSting  HazardType = 1 // shrinks the snake
	HazardBlight HazardType = 2 // strips held upgrades, nothing more
)

var hazardNames = [3]string{"venom", "sting", "blight"}

func (h HazardType) String() string {
	if h < 0 || int(h) >= len(hazardNames) {
		return "unknown"
	}
	return hazardNames[h]
}

// progressiveOrder fixes the strip order so lose-upgrade events are stable
var progressiveOrder = [3]UpgradeType{UpgradeFreeze, UpgradeWallBreak, UpgradePoisonShield}

// UpgradeSet tracks the player's held progressive upgrades
type UpgradeSet struct {
	held map[UpgradeType]bool
}

// NewUpgradeSet creates an empty set
func NewUpgradeSet() *UpgradeSet {
	return &UpgradeSet{held: make(map[UpgradeType]bool)}
}

// Add records a progressive upgrade; returns false if already held
func (s *UpgradeSet) Add(u UpgradeType) bool {
	if !u.IsProgressive() || s.held[u] {
		return false
	}
	s.held[u] = true
	return true
}

// Has reports whether u is held
func (s *UpgradeSet) Has(u UpgradeType) bool {
	return s.held[u]
}

// Remove drops u from the set; returns whether it was held
func (s *UpgradeSet) Remove(u UpgradeType) bool {
	if !s.held[u] {
		return false
	}
	delete(s.held, u)
	return true
}

// Strip empties the set and returns what was held, in fixed order
func (s *UpgradeSet) Strip() []UpgradeType {
	if len(s.held) == 0 {
		return nil
	}
	out := make([]UpgradeType, 0, len(s.held))
	for _, u := range progressiveOrder {
		if s.held[u] {
			out = append(out, u)
			delete(s.held, u)
		}
	}
	return out
}

// Len returns the number of held upgrades
func (s *UpgradeSet) Len() int {
	return len(s.held)
}

// randomUpgrade picks a bonus subtype uniformly
func randomUpgrade(rng *rand.Rand) UpgradeType {
	return UpgradeType(rng.Intn(len(upgradeNames)))
}

// randomHazard picks a hazard subtype uniformly
func randomHazard(rng *rand.Rand) HazardType {
	return HazardType(rng.Intn(len(hazardNames)))
}
