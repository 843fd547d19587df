// Package spaceteam holds the game lifecycle chart shared by every board.
//
// A board is always in exactly one GameState. Lifecycle triggers (Begin,
// HealthDepleted) move it between states and run the entry actions the
// engine attaches to each state.
package spaceteam

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

type GameState int

const (
	StateWaiting GameState = iota
	StateStarted
	StateOver
)

func (s GameState) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateStarted:
		return "started"
	case StateOver:
		return "over"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText lets states appear by name in YAML and JSON dumps.
func (s GameState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Trigger int

const (
	TriggerBegin Trigger = iota
	TriggerHealthDepleted
)

func (t Trigger) String() string {
	switch t {
	case TriggerBegin:
		return "begin"
	case TriggerHealthDepleted:
		return "health-depleted"
	}
	return fmt.Sprintf("trigger(%d)", int(t))
}

type Event struct {
	Trigger Trigger
	Payload any
}

type Action func(ctx context.Context, evt *Event, from GameState, to GameState) error
type Guard func(ctx context.Context, evt *Event, from GameState, to GameState) (bool, error)

var (
	ErrNoStates        = errors.New("no states provided")
	ErrNilState        = errors.New("nil state")
	ErrDuplicateState  = errors.New("duplicate state")
	ErrMultipleInitial = errors.New("more than one initial state")
	ErrNotStarted      = errors.New("machine not started")
)

// ---

type State struct {
	ID          GameState
	Transitions []*Transition
	EntryAction Action
	ExitAction  Action
	Initial     bool
}

type Transition struct {
	Trigger Trigger
	Source  *State
	Target  *State // nil --> internal transition
	Guard   Guard  // nil --> always taken
	Action  Action // nil --> do nothing
}

// Machine is a flat chart: one active state, first matching transition wins.
type Machine struct {
	states  map[GameState]*State
	initial *State
	current *State
}

//
// Public API
//

func (s *State) OnEntry(action Action) {
	s.EntryAction = action
}

func (s *State) OnExit(action Action) {
	s.ExitAction = action
}

// On adds a transition taken when trig arrives in s.
func (s *State) On(trig Trigger, target *State, guard Guard, action Action) {
	s.Transitions = append(s.Transitions, &Transition{
		Trigger: trig,
		Source:  s,
		Target:  target,
		Guard:   guard,
		Action:  action,
	})
}

func NewMachine(states ...*State) (*Machine, error) {
	if len(states) == 0 {
		return nil, ErrNoStates
	}
	m := &Machine{states: map[GameState]*State{}}

	for _, s := range states {
		if s == nil {
			return nil, ErrNilState
		}
		if _, exists := m.states[s.ID]; exists {
			return nil, fmt.Errorf("%s: %w", s.ID, ErrDuplicateState)
		}
		m.states[s.ID] = s
		if s.Initial {
			if m.initial != nil {
				return nil, ErrMultipleInitial
			}
			m.initial = s
		}
	}
	if m.initial == nil {
		m.initial = states[0] // First state is assigned as initial.
	}

	for _, s := range states {
		for _, t := range s.Transitions {
			if t != nil && t.Source == nil {
				t.Source = s
			}
		}
	}
	return m, nil
}

// Start enters the initial state and runs its entry action.
func (m *Machine) Start(ctx context.Context) error {
	m.current = m.initial
	return m.current.enterState(ctx, nil, m.current.ID, m.current.ID)
}

// Current returns the active state. Before Start it reports the initial state.
func (m *Machine) Current() GameState {
	if m.current == nil {
		return m.initial.ID
	}
	return m.current.ID
}

// Send delivers a trigger. Triggers with no transition in the current state
// are ignored. It reports whether a transition was taken.
func (m *Machine) Send(ctx context.Context, evt Event) (bool, error) {
	if m.current == nil {
		return false, ErrNotStarted
	}

	t := m.pickTransition(m.current, &evt)
	if t == nil {
		return false, nil
	}

	return m.doTransition(ctx, t, &evt)
}

// Edge is one declared transition.
type Edge struct {
	From    GameState
	Trigger Trigger
	To      GameState
}

// Edges lists the declared transitions ordered by source state. An
// internal transition points back at its source.
func (m *Machine) Edges() []Edge {
	ids := make([]GameState, 0, len(m.states))
	for id := range m.states {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var edges []Edge
	for _, id := range ids {
		s := m.states[id]
		for _, t := range s.Transitions {
			edges = append(edges, Edge{From: s.ID, Trigger: t.Trigger, To: t.targetID()})
		}
	}
	return edges
}

// Fire is Send with a bare trigger.
func (m *Machine) Fire(ctx context.Context, trig Trigger) (bool, error) {
	return m.Send(ctx, Event{Trigger: trig})
}

//
// Helper Functions (internal API)
//

func (s *State) enterState(ctx context.Context, evt *Event, from GameState, to GameState) error {
	if s.EntryAction != nil {
		return s.EntryAction(ctx, evt, from, to)
	}
	return nil
}

func (s *State) exitState(ctx context.Context, evt *Event, from GameState, to GameState) error {
	if s.ExitAction != nil {
		return s.ExitAction(ctx, evt, from, to)
	}
	return nil
}

// pickTransition grabs the first matching transition in declaration order.
func (m *Machine) pickTransition(s *State, evt *Event) *Transition {
	for _, t := range s.Transitions {
		if t != nil && t.Trigger == evt.Trigger {
			return t
		}
	}
	return nil
}

func (t *Transition) targetID() GameState {
	if t.Target == nil {
		return t.Source.ID
	}
	return t.Target.ID
}

// doTransition evaluates a transition and moves the machine. The target is
// current while its entry action runs.
func (m *Machine) doTransition(ctx context.Context, t *Transition, evt *Event) (bool, error) {
	from, to := t.Source.ID, t.targetID()

	pass := true
	if t.Guard != nil {
		var err error
		if pass, err = t.Guard(ctx, evt, from, to); err != nil {
			return false, err
		}
	}
	if !pass {
		return false, nil
	}

	// Internal transition: action only.
	if t.Target == nil {
		if t.Action != nil {
			if err := t.Action(ctx, evt, from, to); err != nil {
				return false, err
			}
		}
		return true, nil
	}

	if err := t.Source.exitState(ctx, evt, from, to); err != nil {
		return false, err
	}

	if t.Action != nil {
		if err := t.Action(ctx, evt, from, to); err != nil {
			// Rewind: re-enter the source without an event.
			if rerr := t.Source.enterState(ctx, nil, from, from); rerr != nil {
				return false, rerr
			}
			return false, err
		}
	}

	m.current = t.Target
	if err := t.Target.enterState(ctx, evt, from, to); err != nil {
		return true, err
	}
	return true, nil
}

// LifecycleActions are the entry actions of the three game states.
type LifecycleActions struct {
	Waiting Action
	Started Action
	Over    Action
}

// NewLifecycle builds the game chart:
//
//	Waiting --begin--> Started --health-depleted--> Over --begin--> Waiting
//
// Waiting is initial. Begin while Started is ignored.
func NewLifecycle(actions LifecycleActions) (*Machine, error) {
	waiting := &State{ID: StateWaiting, Initial: true, EntryAction: actions.Waiting}
	started := &State{ID: StateStarted, EntryAction: actions.Started}
	over := &State{ID: StateOver, EntryAction: actions.Over}

	waiting.On(TriggerBegin, started, nil, nil)
	started.On(TriggerHealthDepleted, over, nil, nil)
	over.On(TriggerBegin, waiting, nil, nil)

	return NewMachine(waiting, started, over)
}
