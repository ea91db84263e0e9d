package main

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultFrameRate is the master tick rate in frames per second
const DefaultFrameRate = 30

// ErrFrameRate reports a frame rate too low to express every speed level
var ErrFrameRate = errors.New("frame rate below speed ceiling")

// Stride maps an entity speed to how many master ticks pass between its
// moves: the fastest speed moves every tick, slower speeds proportionally
// less often, rounded to the nearest whole tick.
func Stride(speed int) int {
	if speed < SpeedMin {
		speed = SpeedMin
	} else if speed > SpeedMax {
		speed = SpeedMax
	}
	return (SpeedMax + speed/2) / speed
}

// Scheduler drives the master tick at a fixed frame rate. Each pass times
// the step and shortens the next wait by however late the pass ran, floored
// at a millisecond, so a slow step does not accumulate drift.
type Scheduler struct {
	interval time.Duration
	step     func(n int64) error

	mu      sync.Mutex
	running bool
	quit    chan struct{}
	done    chan struct{}
	err     error

	ticks atomic.Int64
}

// NewScheduler validates the frame rate against the speed range. Every speed
// level needs a whole-tick stride, so the rate must cover the ceiling.
func NewScheduler(frameRate int, step func(n int64) error) (*Scheduler, error) {
	if step == nil {
		return nil, errors.New("scheduler: nil step")
	}
	if frameRate < SpeedMax {
		return nil, fmt.Errorf("%w: %d fps, need at least %d", ErrFrameRate, frameRate, SpeedMax)
	}
	return &Scheduler{
		interval: time.Second / time.Duration(frameRate),
		step:     step,
	}, nil
}

// Interval reports the nominal time between master ticks
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Ticks reports how many master ticks have run since creation
func (s *Scheduler) Ticks() int64 { return s.ticks.Load() }

// Running reports whether the loop is live
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Err reports the step error that stopped the loop, if any
func (s *Scheduler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Start launches the tick loop. Starting a running scheduler is a no-op;
// after a stop or a step failure it may be started again.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.err = nil
	s.quit = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.quit, s.done)
}

// Stop halts the loop and waits for the in-flight tick to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	quit, done := s.quit, s.done
	s.mu.Unlock()
	close(quit)
	<-done
}

func (s *Scheduler) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.running = false
	s.mu.Unlock()
}

func (s *Scheduler) loop(quit, done chan struct{}) {
	defer close(done)
	timer := time.NewTimer(s.interval)
	defer timer.Stop()
	for {
		select {
		case <-quit:
			return
		case <-timer.C:
		}
		start := time.Now()
		n := s.ticks.Add(1)
		if err := s.step(n); err != nil {
			s.fail(err)
			return
		}
		next := s.interval - time.Since(start)
		if next < time.Millisecond {
			next = time.Millisecond
		}
		timer.Reset(next)
	}
}
