package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

const (
	maxSessions        = 100
	sessionIdleTimeout = 5 * time.Minute // empty this long = reaped
)

// Session hosts one run: a single game, the client driving it and any number
// of spectators watching. The first client to join takes the runner seat;
// when the runner leaves the game pauses and the seat opens up again.
type Session struct {
	ID      string
	Name    string
	Created time.Time

	// set once in NewSession, read without locking after that
	game   *Game
	frames *FrameBuffer
	levels *LevelSet
	hub    *Hub
	log    *zap.Logger

	mu        sync.RWMutex
	runner    *Client
	watchers  map[*Client]bool
	lastSeen  time.Time
	startedAt time.Time
	eaten     int
	deaths    int

	quit chan struct{}
	done chan struct{}
	stop sync.Once
}

// NewSession builds a session with a fresh game and starts its frame pump
func NewSession(name string, hub *Hub) (*Session, error) {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		Name:      name,
		Created:   now,
		frames:    NewFrameBuffer(),
		levels:    hub.levels,
		hub:       hub,
		watchers:  make(map[*Client]bool),
		lastSeen:  now,
		startedAt: now,
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	s.log = hub.log.With(zap.String("session", s.ID))

	game, err := NewGame(GameConfig{
		Surface: s.frames,
		Levels:  hub.levels,
		Hooks: Hooks{
			OnScore:        s.onScore,
			OnEat:          s.onEat,
			OnDie:          s.onDie,
			OnLevelAdvance: s.onLevelAdvance,
			OnUpgrade:      s.onUpgrade,
			OnUpgradeLost:  s.onUpgradeLost,
			OnPoisoned:     s.onPoisoned,
			OnGameOver:     s.onGameOver,
		},
	})
	if err != nil {
		return nil, err
	}
	s.game = game

	go s.run()
	return s, nil
}

// run is the frame pump: it drains the draw buffer into binary patches and
// pushes a state message whenever a run scalar moves
func (s *Session) run() {
	defer close(s.done)
	ticker := time.NewTicker(s.game.sched.Interval())
	defer ticker.Stop()

	var last StateMsg
	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
			if ops := s.frames.Flush(); len(ops) > 0 {
				data, err := msgpack.Marshal(ops)
				if err != nil {
					s.log.Error("frame encode failed", zap.Error(err))
					continue
				}
				s.broadcastBinary(data)
			}
			if st := s.stateMsg(); st != last {
				last = st
				s.broadcast(MsgState, st)
			}
		}
	}
}

// Stop shuts the pump and the game down. Idempotent.
func (s *Session) Stop() {
	s.stop.Do(func() {
		close(s.quit)
		<-s.done
		s.game.Close()
	})
}

// Join adds a client; reports whether it took the runner seat
func (s *Session) Join(c *Client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers[c] = true
	s.lastSeen = time.Now()
	if s.runner == nil {
		s.runner = c
		return true
	}
	return false
}

// Leave drops a client. A departing runner pauses the game and frees the
// seat for the next joiner.
func (s *Session) Leave(c *Client) {
	s.mu.Lock()
	delete(s.watchers, c)
	wasRunner := s.runner == c
	if wasRunner {
		s.runner = nil
	}
	s.lastSeen = time.Now()
	s.mu.Unlock()
	if wasRunner {
		s.game.Pause()
	}
}

// RunnerIs reports whether c holds the runner seat
func (s *Session) RunnerIs(c *Client) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runner == c
}

// Touch refreshes the idle clock
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// Presence reports the watcher count and the last activity time
func (s *Session) Presence() (int, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.watchers), s.lastSeen
}

// ResetRun rolls the game back to level one and starts it ticking
func (s *Session) ResetRun() error {
	s.mu.Lock()
	s.eaten = 0
	s.deaths = 0
	s.startedAt = time.Now()
	pid := s.runnerPIDLocked()
	s.mu.Unlock()

	if err := s.game.Reset(); err != nil {
		return err
	}
	s.hub.analytics.Track(EvtRunStart, pid, s.ID, "")
	return s.game.Start()
}

// stateMsg snapshots the run scalars
func (s *Session) stateMsg() StateMsg {
	return StateMsg{
		Phase: s.game.Phase().String(),
		Score: s.game.Score(),
		Lives: s.game.Lives(),
		Level: s.game.Level(),
		Speed: s.game.Speed(),
		Dead:  s.game.PlayerDead(),
	}
}

// welcome builds the join payload: board geometry, a full repaint and the
// current scalars
func (s *Session) welcome(runner bool) WelcomeMsg {
	snap := s.game.Snapshot()
	return WelcomeMsg{
		SessionID: s.ID,
		Runner:    runner,
		W:         s.game.world.Bounds.W,
		H:         s.game.world.Bounds.H,
		Board:     snap.Board,
		State: StateMsg{
			Phase: snap.Phase.String(),
			Score: snap.Score,
			Lives: snap.Lives,
			Level: snap.Level,
			Speed: snap.Speed,
			Dead:  snap.PlayerDead,
		},
	}
}

// broadcast sends one JSON envelope to every watcher
func (s *Session) broadcast(t string, data interface{}) {
	raw, err := json.Marshal(Envelope{T: t, Data: data})
	if err != nil {
		s.log.Error("broadcast encode failed", zap.String("type", t), zap.Error(err))
		return
	}
	s.mu.RLock()
	for c := range s.watchers {
		c.SendRaw(raw)
	}
	s.mu.RUnlock()
}

// broadcastBinary sends one frame patch to every watcher
func (s *Session) broadcastBinary(data []byte) {
	s.mu.RLock()
	for c := range s.watchers {
		c.SendBinary(data)
	}
	s.mu.RUnlock()
}

func (s *Session) runnerPIDLocked() int64 {
	if s.runner == nil {
		return 0
	}
	return s.runner.authPlayerID
}

// ---------- game hooks ----------
//
// Hooks run inside the game's lock, so they must never call back into game
// methods. Broadcasts only marshal and do non-blocking channel sends.

func (s *Session) onScore(score, delta int) {
	s.broadcast(MsgScore, ScoreMsg{Score: score, Delta: delta})
}

func (s *Session) onEat(kind Kind, cell Cell) {
	s.mu.Lock()
	s.eaten++
	s.mu.Unlock()
}

// onDie reports the death and holds the game paused until the runner sends
// a continue
func (s *Session) onDie(cause Kind, livesLeft int) bool {
	s.mu.Lock()
	s.deaths++
	pid := s.runnerPIDLocked()
	s.mu.Unlock()
	s.hub.analytics.Track(EvtDeath, pid, s.ID, "")
	s.broadcast(MsgDeath, DeathMsg{Cause: cause.String(), Lives: livesLeft})
	return false
}

func (s *Session) onLevelAdvance(next int) bool {
	name := ""
	if next >= 0 && next < len(s.levels.Levels) {
		name = s.levels.Levels[next].Name
	}
	s.mu.RLock()
	pid := s.runnerPIDLocked()
	s.mu.RUnlock()
	s.hub.analytics.Track(EvtLevelClear, pid, s.ID, "")
	s.broadcast(MsgLevel, LevelMsg{Index: next, Name: name})
	return true
}

func (s *Session) onUpgrade(t UpgradeType, held int) {
	s.mu.RLock()
	pid := s.runnerPIDLocked()
	s.mu.RUnlock()
	s.hub.analytics.Track(EvtUpgrade, pid, s.ID, fmt.Sprintf(`{"upgrade":%q}`, t.String()))
	s.broadcast(MsgUpgrade, UpgradeMsg{Type: t.String(), Held: held})
}

func (s *Session) onUpgradeLost(t UpgradeType) {
	s.broadcast(MsgUpgradeLost, UpgradeMsg{Type: t.String()})
}

func (s *Session) onPoisoned(t HazardType) {
	s.broadcast(MsgPoisoned, UpgradeMsg{Type: t.String()})
}

// onGameOver hands persistence to a goroutine; database work has no place
// inside a game tick
func (s *Session) onGameOver(score int, won bool) {
	go s.finishRun(score, won)
}

// finishRun records the run, folds it into the account stats and announces
// the result with any new achievements
func (s *Session) finishRun(score int, won bool) {
	s.mu.RLock()
	eaten := s.eaten
	deaths := s.deaths
	runner := s.runner
	started := s.startedAt
	s.mu.RUnlock()

	var pid int64
	if runner != nil {
		pid = runner.authPlayerID
	}
	duration := time.Since(started).Seconds()

	if _, err := s.hub.db.RecordRun(pid, s.ID, score, s.game.Level(), won, duration, eaten); err != nil {
		s.log.Warn("run record failed", zap.Error(err))
	}
	s.hub.analytics.Track(EvtRunEnd, pid, s.ID, fmt.Sprintf(`{"score":%d,"won":%t}`, score, won))

	xp := 0
	if pid != 0 {
		before, _ := s.hub.db.GetStats(pid)
		coins := CoinsPerRun(score, won)
		_, newLevel, err := s.hub.db.UpdateStatsAfterRun(pid, score, eaten, deaths, won, score, coins)
		if err != nil {
			s.log.Warn("stats update failed", zap.Int64("player", pid), zap.Error(err))
		} else {
			xp = score
			if before != nil && newLevel > before.Level {
				s.hub.analytics.Track(EvtLevelUp, pid, s.ID, fmt.Sprintf(`{"level":%d}`, newLevel))
			}
		}
	}

	s.broadcast(MsgOver, OverMsg{Score: score, Won: won, XP: xp})

	if pid != 0 && runner != nil {
		for _, a := range CheckAchievements(s.hub.db, pid, score, deaths, won) {
			s.hub.analytics.Track(EvtAchievement, pid, s.ID, fmt.Sprintf(`{"id":%q}`, a.ID))
			runner.SendJSON(Envelope{T: MsgAchievement, Data: AchievementMsg{
				ID:   a.ID,
				Name: a.Name,
				Desc: a.Description,
			}})
		}
	}
}

// ---------- manager ----------

// SessionManager handles creation and lookup of sessions
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager creates a new SessionManager
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
	}
}

// CreateSession creates a new session hosting a fresh game
func (sm *SessionManager) CreateSession(name string, hub *Hub) (*Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= maxSessions {
		return nil, errors.New("too many active sessions")
	}
	sess, err := NewSession(name, hub)
	if err != nil {
		return nil, err
	}
	sm.sessions[sess.ID] = sess
	return sess, nil
}

// GetSession returns a session by ID
func (sm *SessionManager) GetSession(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// Count returns the number of live sessions
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// ListSessions returns info about all active sessions
func (sm *SessionManager) ListSessions() []SessionInfo {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	list := make([]SessionInfo, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		n, _ := sess.Presence()
		list = append(list, SessionInfo{
			ID:         sess.ID,
			Name:       sess.Name,
			Phase:      sess.game.Phase().String(),
			Spectators: n,
		})
	}
	return list
}

// ReapIdle stops and removes sessions that have sat empty past the cutoff.
// Returns how many went.
func (sm *SessionManager) ReapIdle(cutoff time.Duration) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	reaped := 0
	for id, sess := range sm.sessions {
		n, seen := sess.Presence()
		if n == 0 && time.Since(seen) > cutoff {
			sess.Stop()
			delete(sm.sessions, id)
			reaped++
		}
	}
	return reaped
}
