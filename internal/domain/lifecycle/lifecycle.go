// Package lifecycle provides the payslip document state machine. The
// payroll service composes a Machine and attaches hooks instead of the
// document type inheriting workflow behavior.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
)

type State string

const (
	StateDraft   State = "draft"
	StateConfirm State = "confirm"
	StateDone    State = "done"
	StateCancel  State = "cancel"
	StateReject  State = "reject"
)

type Event string

const (
	EventConfirm Event = "confirm"
	EventDone    Event = "done"
	EventCancel  Event = "cancel"
	EventReject  Event = "reject"
	EventRestart Event = "restart"
)

var ErrInvalidTransition = errors.New("invalid state transition")

// Hook runs before or after a transition. The subject is whatever the
// caller passed to Fire, typically the document plus its transaction.
type Hook func(ctx context.Context, subject any) error

type Machine struct {
	transitions map[Event]map[State]State
	before      map[Event][]Hook
	after       map[Event][]Hook
}

// NewMachine builds the payslip transition table: draft -> confirm ->
// done, reject from confirm, cancel from draft/confirm/done, restart
// back to draft from cancel/reject.
func NewMachine() *Machine {
	return &Machine{
		transitions: map[Event]map[State]State{
			EventConfirm: {StateDraft: StateConfirm},
			EventDone:    {StateConfirm: StateDone},
			EventReject:  {StateConfirm: StateReject},
			EventCancel: {
				StateDraft:   StateCancel,
				StateConfirm: StateCancel,
				StateDone:    StateCancel,
			},
			EventRestart: {
				StateCancel: StateDraft,
				StateReject: StateDraft,
			},
		},
		before: map[Event][]Hook{},
		after:  map[Event][]Hook{},
	}
}

func (m *Machine) Before(event Event, hook Hook) {
	m.before[event] = append(m.before[event], hook)
}

func (m *Machine) After(event Event, hook Hook) {
	m.after[event] = append(m.after[event], hook)
}

// Target reports the state the event leads to from the given state.
func (m *Machine) Target(event Event, from State) (State, error) {
	to, ok := m.transitions[event][from]
	if !ok {
		return "", fmt.Errorf("%w: %s from %s", ErrInvalidTransition, event, from)
	}
	return to, nil
}

// Fire validates the transition, runs the before hooks, applies the
// state change through apply and then runs the after hooks. Any error
// aborts the sequence.
func (m *Machine) Fire(ctx context.Context, event Event, from State, subject any, apply func(to State) error) error {
	to, err := m.Target(event, from)
	if err != nil {
		return err
	}
	for _, hook := range m.before[event] {
		if err := hook(ctx, subject); err != nil {
			return err
		}
	}
	if err := apply(to); err != nil {
		return err
	}
	for _, hook := range m.after[event] {
		if err := hook(ctx, subject); err != nil {
			return err
		}
	}
	return nil
}
