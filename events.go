package main

// Bus topics raised by the grid and entities
const (
	TopicAlloc     = "alloc"      // entity requests a cell
	TopicAllocRecv = "alloc-recv" // grid grants a cell (targeted at requester)
	TopicDealloc   = "dealloc"    // entity releases a cell
	TopicCollide   = "collide"    // grid detected an occupied cell
)

// Bus topics raised by entity collision handlers and the game
const (
	TopicEat         = "eat"          // a consumable was reached by the player
	TopicDie         = "die"          // player self-collision or wall impact
	TopicDieAfter    = "die.after"    // death resolved, host may prompt to continue
	TopicUpgrade     = "upgrade"      // bonus item reached
	TopicLoseUpgrade = "lose-upgrade" // a held upgrade was stripped or consumed
	TopicPoisoned    = "poisoned"     // hazard item reached
	TopicScore       = "score"        // score changed
	TopicLevel       = "level"        // level depleted, advance pending
	TopicGameOver    = "gameover"     // run finished
	TopicTimeWarp    = "time-warp"    // game speed changed
)

// AllocRequest asks the grid for ownership of a cell
type AllocRequest struct {
	Cell Cell
}

// AllocGrant confirms ownership of a cell to the requester
type AllocGrant struct {
	Cell Cell
}

// DeallocRequest releases a cell back to the grid
type DeallocRequest struct {
	Cell Cell
}

// Collision reports an allocation attempt on an occupied cell.
// Initiator is the entity that requested the cell, Receiver its owner.
type Collision struct {
	Initiator Entity
	Receiver  Entity
	Cell      Cell
}

// Consumed names an entity eaten by the player and the cell it vacates
type Consumed struct {
	Entity Entity
	Cell   Cell
}

// Death carries the entity that caused the player's death and the contested cell
type Death struct {
	Cause Entity
	Cell  Cell
}

// BonusTouched carries a reached bonus item and its effect subtype
type BonusTouched struct {
	Item Entity
	Cell Cell
	Type UpgradeType
}

// HazardTouched carries a reached hazard item and its effect subtype
type HazardTouched struct {
	Item Entity
	Cell Cell
	Type HazardType
}

// ScoreChange reports the new total and the delta that produced it
type ScoreChange struct {
	Score int
	Delta int
}

// LevelChange reports the level index about to be entered
type LevelChange struct {
	Index int
}

// GameResult reports the final score and whether the run was won
type GameResult struct {
	Score int
	Won   bool
}

// UpgradeLost names a stripped or consumed upgrade
type UpgradeLost struct {
	Type UpgradeType
}

// SpeedChange reports the player's new speed level
type SpeedChange struct {
	Speed int
}
