package main

import (
	"errors"
	"math"
)

// LevelFunc populates the board for one level. The restart flag is set when
// the level is being replayed after a death, so the function can rebuild the
// same layout instead of rolling a new one.
type LevelFunc func(restart bool) error

// SpawnRecord pins one spawned object so a level replay can rebuild the
// exact same board
type SpawnRecord struct {
	Kind    Kind
	Cell    Cell
	Speed   int
	Pattern string      // obstacles only
	Span    int         // obstacles only
	Bonus   UpgradeType // bonus pickups only
	Hazard  HazardType  // hazard pickups only
}

type levelEntry struct {
	key string
	fn  LevelFunc
}

// Sequencer orders the levels of a run and walks them: forward one at a
// time, or back onto the current level for a replay. It only calls level
// functions; board teardown between levels belongs to the caller.
type Sequencer struct {
	entries []levelEntry
	index   int // -1 before the first start
}

// NewSequencer creates an empty sequence
func NewSequencer() *Sequencer {
	return &Sequencer{index: -1}
}

// Add appends a level under a key. A key already in the sequence is left
// where it is; reports whether the level was added.
func (q *Sequencer) Add(key string, fn LevelFunc) bool {
	if fn == nil {
		return false
	}
	for _, e := range q.entries {
		if e.key == key {
			return false
		}
	}
	q.entries = append(q.entries, levelEntry{key: key, fn: fn})
	return true
}

// Remove drops a level by key, shifting later levels down. Reports whether
// the key was present.
func (q *Sequencer) Remove(key string) bool {
	for i, e := range q.entries {
		if e.key != key {
			continue
		}
		q.entries = append(q.entries[:i], q.entries[i+1:]...)
		if i < q.index {
			q.index--
		}
		if q.index > len(q.entries)-1 {
			q.index = len(q.entries) - 1
		}
		if len(q.entries) == 0 {
			q.index = -1
		}
		return true
	}
	return false
}

// Len reports how many levels are in the sequence
func (q *Sequencer) Len() int { return len(q.entries) }

// Index reports the current level position, -1 before the first start
func (q *Sequencer) Index() int { return q.index }

// Key reports the key of the level at a position
func (q *Sequencer) Key(i int) string {
	if i < 0 || i >= len(q.entries) {
		return ""
	}
	return q.entries[i].key
}

// AtEnd reports whether the sequence sits on its last level
func (q *Sequencer) AtEnd() bool {
	return len(q.entries) > 0 && q.index == len(q.entries)-1
}

// Start rewinds to the first level and builds it fresh
func (q *Sequencer) Start() error {
	if len(q.entries) == 0 {
		return errors.New("sequencer: no levels")
	}
	q.index = 0
	return q.entries[0].fn(false)
}

// Advance moves the sequence: a positive delta steps toward the last level,
// a negative one replays the current level with its restart flag set. The
// index clamps at the last level. Reports whether a level function ran.
func (q *Sequencer) Advance(delta int) (bool, error) {
	if q.index < 0 {
		return false, errors.New("sequencer: not started")
	}
	if delta < 0 {
		return true, q.entries[q.index].fn(true)
	}
	if delta == 0 {
		return false, nil
	}
	next := q.index + delta
	if next > len(q.entries)-1 {
		next = len(q.entries) - 1
	}
	if next == q.index {
		return false, nil
	}
	q.index = next
	return true, q.entries[q.index].fn(false)
}

// genObjects splits a total count among weighted classes. Each class gets
// its proportional share rounded to the nearest whole, and the last class
// absorbs whatever rounding left over, so the parts always sum to the total.
func genObjects(total int, weights []int) []int {
	counts := make([]int, len(weights))
	if len(weights) == 0 || total <= 0 {
		return counts
	}
	sumW := 0
	for _, w := range weights {
		if w > 0 {
			sumW += w
		}
	}
	last := len(counts) - 1
	if sumW == 0 {
		counts[last] = total
		return counts
	}
	sum := 0
	for i, w := range weights {
		if w < 0 {
			w = 0
		}
		c := int(math.Round(float64(total) * float64(w) / float64(sumW)))
		counts[i] = c
		sum += c
	}
	counts[last] += total - sum
	if counts[last] < 0 {
		need := -counts[last]
		counts[last] = 0
		for i := 0; i < last && need > 0; i++ {
			take := counts[i]
			if take > need {
				take = need
			}
			counts[i] -= take
			need -= take
		}
	}
	return counts
}
