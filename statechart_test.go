package spaceteam

import (
	"context"
	"testing"
)

func TestTransitionOrder(t *testing.T) {
	var calls []string
	log := func(name string) Action {
		return func(ctx context.Context, evt *Event, from, to GameState) error {
			calls = append(calls, name+":"+from.String()+">"+to.String())
			return nil
		}
	}

	a := &State{ID: StateWaiting, EntryAction: log("enter-a"), ExitAction: log("exit-a")}
	b := &State{ID: StateStarted, EntryAction: log("enter-b")}
	a.On(TriggerBegin, b, nil, log("act"))

	m, err := NewMachine(a, b)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Fire(ctx, TriggerBegin); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"enter-a:waiting>waiting",
		"exit-a:waiting>started",
		"act:waiting>started",
		"enter-b:waiting>started",
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, calls[i], want[i])
		}
	}
	if m.current != b {
		t.Errorf("current = %s, want started", m.current.ID)
	}
}

func TestEntryActionSeesTarget(t *testing.T) {
	var m *Machine
	var seen []GameState
	look := func(ctx context.Context, evt *Event, from, to GameState) error {
		seen = append(seen, m.Current())
		return nil
	}
	a := &State{ID: StateWaiting, EntryAction: look, ExitAction: look}
	b := &State{ID: StateStarted, EntryAction: look}
	a.On(TriggerBegin, b, nil, look)

	m, _ = NewMachine(a, b)
	ctx := context.Background()
	_ = m.Start(ctx)
	if _, err := m.Fire(ctx, TriggerBegin); err != nil {
		t.Fatal(err)
	}

	// start entry, exit, action, target entry
	want := []GameState{StateWaiting, StateWaiting, StateWaiting, StateStarted}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("step %d saw %s, want %s", i, seen[i], want[i])
		}
	}
}

func TestPayloadReachesActions(t *testing.T) {
	var got any
	a := &State{ID: StateOver}
	b := &State{ID: StateWaiting, EntryAction: func(ctx context.Context, evt *Event, from, to GameState) error {
		if evt != nil {
			got = evt.Payload
		}
		return nil
	}}
	a.On(TriggerBegin, b, nil, nil)

	m, _ := NewMachine(a, b)
	ctx := context.Background()
	_ = m.Start(ctx)
	if _, err := m.Send(ctx, Event{Trigger: TriggerBegin, Payload: 7}); err != nil {
		t.Fatal(err)
	}
	if got != 7 {
		t.Errorf("payload = %v, want 7", got)
	}
}

// The first transition declared for a trigger owns it, even when guarded off.
func TestFirstDeclaredTransitionWins(t *testing.T) {
	var second int
	s := &State{ID: StateStarted}
	s.On(TriggerHealthDepleted, nil, func(ctx context.Context, evt *Event, from, to GameState) (bool, error) {
		return false, nil
	}, nil)
	s.On(TriggerHealthDepleted, nil, nil, func(ctx context.Context, evt *Event, from, to GameState) error {
		second++
		return nil
	})

	m, _ := NewMachine(s)
	ctx := context.Background()
	_ = m.Start(ctx)
	if taken, _ := m.Fire(ctx, TriggerHealthDepleted); taken {
		t.Error("guarded-off transition reported taken")
	}
	if second != 0 {
		t.Errorf("second transition ran %d times", second)
	}
	if m.initial != s || m.current != s {
		t.Error("machine left its only state")
	}
}

func TestMarshalText(t *testing.T) {
	b, _ := StateOver.MarshalText()
	if string(b) != "over" {
		t.Errorf("MarshalText = %q", b)
	}
	if s := GameState(9).String(); s == "" {
		t.Error("unknown state has empty name")
	}
}
