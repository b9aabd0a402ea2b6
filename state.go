package mapreduce

import (
	"fmt"

	"go.uber.org/zap"
)

// State is the phase an executor run is in.
type State int

const (
	StateIdle State = iota
	StatePartitioning
	StateDispatching
	StateCollecting
	StateSucceeded
	StateFailed
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePartitioning:
		return "partitioning"
	case StateDispatching:
		return "dispatching"
	case StateCollecting:
		return "collecting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal returns true for Succeeded and Failed.
func (s State) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// StateHook is called on every state change of a run.
type StateHook func(runID string, from State, to State)

var transitions = map[State][]State{
	StateIdle:         {StatePartitioning},
	StatePartitioning: {StateDispatching, StateSucceeded, StateFailed},
	StateDispatching:  {StateCollecting, StateFailed},
	StateCollecting:   {StateSucceeded, StateFailed},
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// runState tracks the state machine of a single run. It is only touched by
// the goroutine driving the run.
type runState struct {
	runID  string
	state  State
	hook   StateHook
	logger *zap.Logger
}

func (r *runState) to(next State) {
	if !canTransition(r.state, next) {
		panic(fmt.Sprintf("mapreduce: invalid state transition %s -> %s", r.state, next))
	}
	prev := r.state
	r.state = next
	r.logger.Debug("state change", zap.Stringer("from", prev), zap.Stringer("to", next))
	if r.hook != nil {
		r.hook(r.runID, prev, next)
	}
}
