package main

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Run defaults
const (
	DefaultBoardW = 40
	DefaultBoardH = 30
	DefaultLives  = 3
)

// Phase is the run state of a game
type Phase int

const (
	PhaseIdle     Phase = iota // built, not started
	PhaseStarted               // ticking
	PhasePaused                // board intact, ticks gated off
	PhaseFinished              // won, out of lives, or failed
)

var phaseNames = [4]string{"idle", "started", "paused", "finished"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// Hooks let the host observe and steer a run. All fields are optional.
// OnDie returning false suppresses the automatic level replay, and
// OnLevelAdvance returning false suppresses the advance; the host then
// decides with ReplayLevel or AdvanceLevel.
type Hooks struct {
	OnScore        func(score, delta int)
	OnEat          func(kind Kind, cell Cell)
	OnDie          func(cause Kind, livesLeft int) bool
	OnLevelAdvance func(next int) bool
	OnUpgrade      func(t UpgradeType, held int)
	OnUpgradeLost  func(t UpgradeType)
	OnPoisoned     func(t HazardType)
	OnSpeed        func(speed int)
	OnGameOver     func(score int, won bool)
}

// GameConfig assembles a run
type GameConfig struct {
	Surface    Surface
	Bounds     Bounds // zero = DefaultBoardW x DefaultBoardH
	FrameRate  int    // 0 = DefaultFrameRate
	Lives      int    // 0 = DefaultLives
	Levels     *LevelSet
	Hooks      Hooks
	Seed       int64     // 0 = seeded from crypto/rand
	PlayerFill FillStyle // empty = species default
	HeadFill   FillStyle
}

// Game orchestrates one run: it owns the bus, grid, registry and level
// sequence, reacts to the domain topics, and walks the phase machine. All
// mutation happens under mu; the engine below it is single threaded.
type Game struct {
	mu sync.RWMutex

	world *World
	bus   *Bus
	grid  *Grid
	reg   *Registry
	seq   *Sequencer
	sched *Scheduler
	hooks Hooks
	rng   *rand.Rand

	levels     *LevelSet
	plans      map[int][]SpawnRecord
	playerFill FillStyle
	headFill   FillStyle

	phase      Phase
	player     *Player
	upgrades   *UpgradeSet
	score      int
	lives      int
	speed      int
	playerDead bool
	err        error
}

// NewGame wires a run together. The frame rate is checked against the speed
// ceiling up front; a rate that cannot express every speed level is refused.
func NewGame(cfg GameConfig) (*Game, error) {
	if cfg.Surface == nil {
		return nil, ErrNoSurface
	}
	if cfg.Bounds == (Bounds{}) {
		cfg.Bounds = Bounds{W: DefaultBoardW, H: DefaultBoardH}
	}
	if cfg.FrameRate == 0 {
		cfg.FrameRate = DefaultFrameRate
	}
	if cfg.Lives == 0 {
		cfg.Lives = DefaultLives
	}
	if cfg.Levels == nil {
		cfg.Levels = DefaultLevels()
	}
	if err := cfg.Levels.Validate(); err != nil {
		return nil, err
	}

	bus := NewBus()
	world, err := NewWorld(bus, cfg.Surface, cfg.Bounds, newRand(cfg.Seed))
	if err != nil {
		return nil, err
	}
	g := &Game{
		world:      world,
		bus:        bus,
		grid:       NewGrid(bus),
		reg:        NewRegistry(),
		seq:        NewSequencer(),
		hooks:      cfg.Hooks,
		rng:        world.rng,
		levels:     cfg.Levels,
		plans:      make(map[int][]SpawnRecord),
		playerFill: cfg.PlayerFill,
		headFill:   cfg.HeadFill,
		upgrades:   NewUpgradeSet(),
		lives:      cfg.Lives,
		speed:      DefaultSpeed,
	}
	g.sched, err = NewScheduler(cfg.FrameRate, g.step)
	if err != nil {
		return nil, err
	}

	bus.Register(TopicEat, g, g.onEat)
	bus.Register(TopicDie, g, g.onDie)
	bus.Register(TopicUpgrade, g, g.onUpgrade)
	bus.Register(TopicPoisoned, g, g.onPoisoned)

	for i, spec := range cfg.Levels.Levels {
		g.seq.Add(spec.Name, g.buildLevel(i, spec))
	}
	return g, nil
}

// newRand builds a per-game source, seeded from crypto/rand unless pinned
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		var b [8]byte
		if _, err := crand.Read(b[:]); err == nil {
			seed = int64(binary.LittleEndian.Uint64(b[:]))
		}
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
	}
	return rand.New(rand.NewSource(seed))
}

// ---------- phase machine ----------

// Start begins the run from idle, or resumes it from a pause. The tick loop
// is launched once and stays up until Close; phases gate what a tick does.
func (g *Game) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch g.phase {
	case PhaseIdle:
		if err := g.seq.Start(); err != nil {
			return err
		}
		g.phase = PhaseStarted
		g.announceLevelLocked()
	case PhasePaused:
		g.phase = PhaseStarted
	case PhaseStarted:
		return nil
	case PhaseFinished:
		return fmt.Errorf("game: finished, reset to play again")
	}
	g.sched.Start()
	return nil
}

// Pause gates the tick loop off, leaving the board intact
func (g *Game) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase == PhaseStarted {
		g.phase = PhasePaused
	}
}

// Resume continues a paused run
func (g *Game) Resume() error {
	g.mu.Lock()
	if g.phase != PhasePaused {
		g.mu.Unlock()
		return nil
	}
	g.mu.Unlock()
	return g.Start()
}

// End finishes the run where it stands, reporting it as lost
func (g *Game) End() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase == PhaseFinished {
		return
	}
	g.finishLocked(false)
}

// Reset rolls the whole run back to level one with fresh score, lives and
// upgrades, and starts it paused
func (g *Game) Reset() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.teardownLocked()
	g.score = 0
	g.lives = DefaultLives
	g.upgrades = NewUpgradeSet()
	g.plans = make(map[int][]SpawnRecord)
	g.err = nil
	if err := g.seq.Start(); err != nil {
		g.failLocked(err)
		return err
	}
	g.phase = PhasePaused
	g.announceLevelLocked()
	g.sched.Start()
	return nil
}

// Close stops the tick loop for good. The game cannot be restarted after.
func (g *Game) Close() {
	g.mu.Lock()
	if g.phase != PhaseFinished {
		g.phase = PhaseFinished
	}
	g.mu.Unlock()
	g.sched.Stop()
}

// ReplayLevel rebuilds the current level from its recorded layout and leaves
// the run paused. This is the host-driven half of death handling when OnDie
// suppressed the automatic replay.
func (g *Game) ReplayLevel() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase == PhaseFinished {
		return fmt.Errorf("game: finished")
	}
	return g.replayLocked()
}

// AdvanceLevel moves to the next level, the host-driven half of a suppressed
// advance. At the last level it finishes the run as won.
func (g *Game) AdvanceLevel() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase == PhaseFinished {
		return fmt.Errorf("game: finished")
	}
	return g.advanceLocked()
}

// ---------- tick ----------

// step is the scheduler callback: one master tick over the registry,
// followed by the level depletion check
func (g *Game) step(n int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != PhaseStarted {
		return nil
	}
	if err := g.reg.Tick(n); err != nil {
		g.failLocked(err)
		return err
	}
	if g.phase == PhaseStarted && !g.playerDead && g.reg.EdibleCount() == 0 {
		if err := g.levelClearedLocked(); err != nil {
			g.failLocked(err)
			return err
		}
	}
	return nil
}

// ---------- domain handlers ----------

// onEat scores a consumed edible, removes it, lets the player move into the
// freed cell, and grows the snake
func (g *Game) onEat(sender, data any) (bool, error) {
	c, ok := data.(Consumed)
	if !ok || c.Entity == nil || g.player == nil {
		return true, nil
	}
	kind := c.Entity.Kind()
	g.reg.Remove(c.Entity)
	if err := g.grid.Reissue(g.player, c.Cell); err != nil {
		return false, err
	}
	g.player.Grow((g.speed + 1) / 2)
	g.addScoreLocked(GetSpecies(kind).Multiplier * g.speed)
	if g.hooks.OnEat != nil {
		g.hooks.OnEat(kind, c.Cell)
	}
	return true, nil
}

// onDie resolves a fatal collision. A held wall break converts an obstacle
// hit into erosion instead of death; otherwise a life goes, the run ends if
// it was the last, and the level replays unless the host suppressed it.
func (g *Game) onDie(sender, data any) (bool, error) {
	death, ok := data.(Death)
	if !ok || sender != Entity(g.player) || g.player == nil {
		return true, nil
	}
	if o, isObstacle := death.Cause.(*Obstacle); isObstacle && g.upgrades.Has(UpgradeWallBreak) {
		g.dropUpgradeLocked(UpgradeWallBreak)
		o.DropCell(death.Cell)
		if o.Empty() {
			g.reg.Remove(o)
		}
		return false, g.grid.Reissue(g.player, death.Cell)
	}

	g.playerDead = true
	g.lives--
	cause := KindPlayer
	if death.Cause != nil {
		cause = death.Cause.Kind()
	}
	replay := true
	if g.hooks.OnDie != nil {
		replay = g.hooks.OnDie(cause, g.lives)
	}
	if g.lives <= 0 {
		g.finishLocked(false)
		return true, g.bus.Trigger(TopicDieAfter, g, death)
	}
	if replay {
		if err := g.replayLocked(); err != nil {
			return false, err
		}
	} else {
		g.phase = PhasePaused
	}
	return true, g.bus.Trigger(TopicDieAfter, g, death)
}

// onUpgrade consumes a touched bonus and applies its effect
func (g *Game) onUpgrade(sender, data any) (bool, error) {
	bt, ok := data.(BonusTouched)
	if !ok || g.player == nil {
		return true, nil
	}
	g.reg.Remove(bt.Item)
	if err := g.grid.Reissue(g.player, bt.Cell); err != nil {
		return false, err
	}
	switch bt.Type {
	case UpgradeExtraLife:
		g.lives++
	case UpgradeLevelReset:
		delete(g.plans, g.seq.Index())
		if err := g.replenishLocked(); err != nil {
			return false, err
		}
	case UpgradeFreeze:
		if g.upgrades.Add(UpgradeFreeze) {
			g.setPredatorsFrozenLocked(true)
		}
	default:
		g.upgrades.Add(bt.Type)
	}
	if g.hooks.OnUpgrade != nil {
		g.hooks.OnUpgrade(bt.Type, g.upgrades.Len())
	}
	return true, nil
}

// onPoisoned consumes a touched hazard. A held poison shield absorbs it;
// otherwise the penalty depends on the hazard type.
func (g *Game) onPoisoned(sender, data any) (bool, error) {
	ht, ok := data.(HazardTouched)
	if !ok || g.player == nil {
		return true, nil
	}
	g.reg.Remove(ht.Item)
	if err := g.grid.Reissue(g.player, ht.Cell); err != nil {
		return false, err
	}
	if g.upgrades.Has(UpgradePoisonShield) {
		g.dropUpgradeLocked(UpgradePoisonShield)
	} else {
		switch ht.Type {
		case HazardVenom:
			g.addScoreLocked(-g.speed * 3)
		case HazardSting:
			g.player.Shrink(2)
		case HazardBlight:
			for _, t := range g.upgrades.Strip() {
				if t == UpgradeFreeze {
					g.setPredatorsFrozenLocked(false)
				}
				g.emitUpgradeLostLocked(t)
			}
		}
	}
	if g.hooks.OnPoisoned != nil {
		g.hooks.OnPoisoned(ht.Type)
	}
	return true, nil
}

// ---------- transitions ----------

// levelClearedLocked fires when the board runs out of edibles: either the
// run is won, or the sequence advances unless the host held it back
func (g *Game) levelClearedLocked() error {
	if g.seq.AtEnd() {
		g.finishLocked(true)
		return nil
	}
	if g.hooks.OnLevelAdvance != nil && !g.hooks.OnLevelAdvance(g.seq.Index()+1) {
		g.phase = PhasePaused
		return nil
	}
	return g.advanceLocked()
}

// advanceLocked tears the board down and builds the next level; at the end
// of the sequence it finishes the run as won
func (g *Game) advanceLocked() error {
	if g.seq.AtEnd() {
		g.finishLocked(true)
		return nil
	}
	g.teardownLocked()
	if _, err := g.seq.Advance(1); err != nil {
		g.failLocked(err)
		return err
	}
	if g.phase == PhasePaused {
		g.phase = PhaseStarted
	}
	g.announceLevelLocked()
	return nil
}

// replayLocked rebuilds the current level from its recorded layout and
// pauses the run for the host to resume
func (g *Game) replayLocked() error {
	g.teardownLocked()
	if _, err := g.seq.Advance(-1); err != nil {
		g.failLocked(err)
		return err
	}
	g.phase = PhasePaused
	g.announceLevelLocked()
	return nil
}

// replenishLocked rerolls the current level layout mid-run, keeping score,
// lives and upgrades
func (g *Game) replenishLocked() error {
	g.teardownLocked()
	if _, err := g.seq.Advance(-1); err != nil {
		g.failLocked(err)
		return err
	}
	g.phase = PhaseStarted
	g.announceLevelLocked()
	return nil
}

func (g *Game) teardownLocked() {
	g.reg.Reset()
	g.grid.Reset()
	g.player = nil
	g.playerDead = false
}

func (g *Game) finishLocked(won bool) {
	g.phase = PhaseFinished
	g.bus.Trigger(TopicGameOver, g, GameResult{Score: g.score, Won: won})
	if g.hooks.OnGameOver != nil {
		g.hooks.OnGameOver(g.score, won)
	}
}

func (g *Game) failLocked(err error) {
	if g.err == nil {
		g.err = err
	}
	g.phase = PhaseFinished
}

func (g *Game) addScoreLocked(delta int) {
	if delta == 0 {
		return
	}
	g.score += delta
	if g.score < 0 {
		g.score = 0
	}
	g.bus.Trigger(TopicScore, g, ScoreChange{Score: g.score, Delta: delta})
	if g.hooks.OnScore != nil {
		g.hooks.OnScore(g.score, delta)
	}
}

func (g *Game) dropUpgradeLocked(t UpgradeType) {
	if g.upgrades.Remove(t) {
		g.emitUpgradeLostLocked(t)
	}
}

func (g *Game) emitUpgradeLostLocked(t UpgradeType) {
	g.bus.Trigger(TopicLoseUpgrade, g, UpgradeLost{Type: t})
	if g.hooks.OnUpgradeLost != nil {
		g.hooks.OnUpgradeLost(t)
	}
}

func (g *Game) setPredatorsFrozenLocked(v bool) {
	for _, e := range g.reg.Entities() {
		if cr, ok := e.(*Critter); ok && cr.Kind() == KindPredator {
			cr.SetFrozen(v)
		}
	}
}

func (g *Game) announceLevelLocked() {
	g.bus.Trigger(TopicLevel, g, LevelChange{Index: g.seq.Index()})
}

// ---------- input ----------

// Turn buffers a heading change for the snake. Reports whether the turn was
// accepted; turns are refused while the run is not ticking.
func (g *Game) Turn(h Heading) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != PhaseStarted || g.playerDead || g.player == nil {
		return false
	}
	return g.player.QueueHeading(h)
}

/// SetSpeed rebases the run speed: scoring, growth and the snake's stride all
// follow it. Announced on the bus as a time warp.
func (g *Game) SetSpeed(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.setSpeedLocked(n)
}

// SetPlayerStyle overrides the snake's colors. Takes effect on the next
// level build; the current trail keeps its paint.
func (g *Game) SetPlayerStyle(fill, head FillStyle) {
	g.mu.Lock()
	g.playerFill = fill
	g.headFill = head
	g.mu.Unlock()
}

func (g *Game) setSpeedLocked(n int) {
	if n == 0 {
		n = DefaultSpeed
	}
	if g.player != nil {
		g.player.SetSpeed(n)
		n = g.player.Speed()
	} else if n != SpeedRandom {
		n = ClampInt(n, SpeedMin, SpeedMax)
	}
	if n == g.speed {
		return
	}
	g.speed = n
	g.bus.Trigger(TopicTimeWarp, g, SpeedChange{Speed: n})
	if g.hooks.OnSpeed != nil {
		g.hooks.OnSpeed(n)
	}
}

// ---------- level building ----------

// buildLevel returns the level function for one level spec. The first build
// rolls a layout and records it; a replay rebuilds the recorded one.
func (g *Game) buildLevel(i int, spec LevelSpec) LevelFunc {
	return func(restart bool) error {
		plan := g.plans[i]
		if !restart || plan == nil {
			var err error
			if plan, err = g.rollLevelLocked(spec); err != nil {
				return err
			}
			g.plans[i] = plan
		}

		start := Cell{X: g.world.Bounds.W / 2, Y: g.world.Bounds.H / 2}
		length := spec.Length
		if length <= 0 {
			length = DefaultPlayerLength
		}
		player, err := NewPlayer(g.world, PlayerOptions{
			At:       start,
			Heading:  HeadingRight,
			Length:   length,
			Speed:    spec.Speed,
			Fill:     g.playerFill,
			HeadFill: g.headFill,
		})
		if err != nil {
			return err
		}
		g.player = player
		g.playerDead = false
		g.reg.Add(player)
		g.setSpeedLocked(spec.Speed)

		for _, rec := range plan {
			if err := g.spawnLocked(rec); err != nil {
				return err
			}
		}
		return nil
	}
}

// spawnLocked realizes one spawn record on the board
func (g *Game) spawnLocked(rec SpawnRecord) error {
	var (
		e   Entity
		err error
	)
	switch rec.Kind {
	case KindObstacle:
		e, err = NewObstacle(g.world, ObstacleOptions{Pattern: rec.Pattern, At: rec.Cell, Span: rec.Span})
	case KindGrain:
		e, err = NewGrain(g.world, rec.Cell, "")
	case KindBonus:
		e, err = NewBonus(g.world, rec.Cell, rec.Bonus)
	case KindHazard:
		e, err = NewHazard(g.world, rec.Cell, rec.Hazard)
	case KindPrey, KindPredator:
		at := rec.Cell
		var cr *Critter
		cr, err = NewCritter(g.world, rec.Kind, EntityOptions{At: &at, Speed: rec.Speed})
		if err == nil && rec.Kind == KindPredator && g.upgrades.Has(UpgradeFreeze) {
			cr.SetFrozen(true)
		}
		e = cr
	default:
		return fmt.Errorf("game: cannot spawn kind %s", rec.Kind)
	}
	if err != nil {
		return err
	}
	g.reg.Add(e)
	return nil
}

// rollLevelLocked rolls a fresh layout for a level spec. Placement is dry
// run against a cell set, obstacles first, so nothing in the plan can land
// on anything else when it is realized.
func (g *Game) rollLevelLocked(spec LevelSpec) ([]SpawnRecord, error) {
	used := make(map[Cell]bool)
	start := Cell{X: g.world.Bounds.W / 2, Y: g.world.Bounds.H / 2}
	length := spec.Length
	if length <= 0 {
		length = DefaultPlayerLength
	}
	c := start
	for i := 0; i < length+2; i++ { // the trail plus room ahead of the head
		used[g.world.Bounds.Wrap(c)] = true
		c = HeadingLeft.Step(c)
	}
	used[g.world.Bounds.Wrap(HeadingRight.Step(start))] = true

	var plan []SpawnRecord
	for _, os := range spec.Obstacles {
		rec, err := g.rollObstacleLocked(os, used)
		if err != nil {
			return nil, err
		}
		plan = append(plan, rec)
	}

	counts := genObjects(spec.Food, []int{spec.Grain, spec.Prey, spec.Predator})
	singles := []struct {
		kind Kind
		n    int
	}{
		{KindGrain, counts[0]},
		{KindPrey, counts[1]},
		{KindPredator, counts[2]},
		{KindBonus, spec.Bonuses},
		{KindHazard, spec.Hazards},
	}
	for _, s := range singles {
		for i := 0; i < s.n; i++ {
			cell, err := g.freeCellLocked(used)
			if err != nil {
				return nil, err
			}
			rec := SpawnRecord{Kind: s.kind, Cell: cell}
			switch s.kind {
			case KindPrey, KindPredator:
				rec.Speed = SpeedMin + g.rng.Intn(SpeedMax-SpeedMin+1)
			case KindBonus:
				rec.Bonus = randomUpgrade(g.rng)
			case KindHazard:
				rec.Hazard = randomHazard(g.rng)
			}
			plan = append(plan, rec)
		}
	}
	return plan, nil
}

// rollObstacleLocked finds ground for one obstacle spec, rerolling random
// anchors until the pattern fits
func (g *Game) rollObstacleLocked(os ObstacleSpec, used map[Cell]bool) (SpawnRecord, error) {
	span := os.Span
	if span <= 0 {
		span = DefaultObstacleSpan
	}
	pinned := os.X != nil && os.Y != nil
	for attempt := 0; attempt < 200; attempt++ {
		at := g.world.randCell()
		if pinned {
			at = Cell{X: *os.X, Y: *os.Y}
		}
		cells, err := expandPattern(os.Pattern, at, span, g.world.Bounds)
		if err != nil {
			return SpawnRecord{}, err
		}
		fits := true
		for _, c := range cells {
			if used[c] {
				fits = false
				break
			}
		}
		if !fits {
			if pinned {
				return SpawnRecord{}, fmt.Errorf("%w: pattern %q at (%d,%d)", ErrObstacleOrder, os.Pattern, at.X, at.Y)
			}
			continue
		}
		for _, c := range cells {
			used[c] = true
		}
		return SpawnRecord{Kind: KindObstacle, Cell: at, Pattern: os.Pattern, Span: span}, nil
	}
	return SpawnRecord{}, fmt.Errorf("game: no room for obstacle pattern %q", os.Pattern)
}

// freeCellLocked draws a random cell not yet spoken for in this roll
func (g *Game) freeCellLocked(used map[Cell]bool) (Cell, error) {
	for attempt := 0; attempt < 1000; attempt++ {
		c := g.world.randCell()
		if !used[c] {
			used[c] = true
			return c, nil
		}
	}
	return Cell{}, fmt.Errorf("game: board full, no free cell left")
}

// ---------- read side ----------

// GameSnapshot is a point-in-time view of a run, safe to hold after the
// game has moved on
type GameSnapshot struct {
	Phase      Phase
	Score      int
	Lives      int
	Speed      int
	Level      int
	Levels     int
	PlayerDead bool
	Board      []CellOp
}

// Snapshot captures the run state and a full board repaint
func (g *Game) Snapshot() GameSnapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	snap := GameSnapshot{
		Phase:      g.phase,
		Score:      g.score,
		Lives:      g.lives,
		Speed:      g.speed,
		Level:      g.seq.Index(),
		Levels:     g.seq.Len(),
		PlayerDead: g.playerDead,
	}
	for _, e := range g.reg.Entities() {
		cells := e.Cells()
		for i, c := range cells {
			style := e.Fill()
			if e == Entity(g.player) && i == len(cells)-1 {
				style = g.player.headFill
			}
			snap.Board = append(snap.Board, CellOp{X: c.X, Y: c.Y, Style: style})
		}
	}
	return snap
}

// Phase reports the current run phase
func (g *Game) Phase() Phase {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.phase
}

// Score reports the current score
func (g *Game) Score() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.score
}

// Lives reports the lives left
func (g *Game) Lives() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.lives
}

// Speed reports the current run speed
func (g *Game) Speed() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.speed
}

// Level reports the current level index, -1 before the first start
func (g *Game) Level() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.seq.Index()
}

// PlayerDead reports whether the snake is down awaiting a replay
func (g *Game) PlayerDead() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.playerDead
}

// Err reports the failure that finished the run, if any
func (g *Game) Err() error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.err
}
