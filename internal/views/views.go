// Package views holds the per-screen async lifecycle controllers that sit
// between the UI and the points API gateway. Each controller owns one
// screen's state machine (Idle -> Loading -> Succeeded/Failed), issues
// gateway calls, and emits notifications. Controllers are independent of one
// another; within a controller only one operation may be in flight.
package views

import (
	"errors"
	"sync"
)

// State is a screen's async lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSucceeded
	StateFailed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrBusy is returned when an operation is invoked while another one is
// still in flight on the same controller.
var ErrBusy = errors.New("an operation is already in progress")

// ErrConfirmationRequired is returned by delete operations invoked without
// an explicit confirmation step.
var ErrConfirmationRequired = errors.New("deletion requires confirmation")

// ErrNoChange is returned by name updates that would be a no-op.
var ErrNoChange = errors.New("name is empty or unchanged")

// screen supplies the shared lifecycle and the lock guarding a controller's
// data. Succeeded and Failed both yield to the next begin.
type screen struct {
	mu    sync.Mutex
	state State
}

// begin moves the screen to Loading, refusing while already loading.
func (s *screen) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateLoading {
		return ErrBusy
	}
	s.state = StateLoading
	return nil
}

// finish records the terminal state of the current operation.
func (s *screen) finish(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		s.state = StateSucceeded
	} else {
		s.state = StateFailed
	}
}

// State reports the current lifecycle phase.
func (s *screen) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
