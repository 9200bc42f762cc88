package room

import (
	"fmt"
	"sync"
	"time"
)

// Phase is the turn machine's position inside one turn.
type Phase int32

const (
	PhIdle           Phase = iota // waiting for the current player's roll
	PhAwaitAction                 // dice rolled, waiting for a pawn choice
	PhResolvingEvent              // quiz or duel in flight
	PhFinished                    // terminal, room drains
)

var phaseNames = map[Phase]string{
	PhIdle:           "idle",
	PhAwaitAction:    "awaitingAction",
	PhResolvingEvent: "resolvingEvent",
	PhFinished:       "finished",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Phase(%d)", int32(p))
}

// Stage pairs the phase with its running timeout so reconnecting
// clients can be told how long the current actor still has.
type Stage struct {
	mu       sync.RWMutex
	State    Phase
	Prev     Phase
	TimerID  int64
	StartAt  time.Time
	Duration time.Duration
}

func (s *Stage) Get() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.State
}

func (s *Stage) GetTimerID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.TimerID
}

func (s *Stage) Remaining() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	elapsed := time.Since(s.StartAt)
	if elapsed > s.Duration {
		return 0
	}
	return s.Duration - elapsed
}

func (s *Stage) Set(state Phase, duration time.Duration, timerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Prev = s.State
	s.State = state
	s.StartAt = time.Now()
	s.Duration = duration
	s.TimerID = timerID
}

func (s *Stage) Desc() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("[%v -> %v, dur=%v]", s.Prev, s.State, s.Duration)
}
