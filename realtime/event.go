package realtime

import (
	"sort"
	"strconv"
)

// EventKind names the interrupt source of an event. Its numeric value is the
// dispatch priority: higher kinds run first within a tick.
type EventKind int

const (
	KindMainLoop EventKind = iota
	KindScroll
	KindPoll
	KindDeadline
	KindRadio
)

func (k EventKind) String() string {
	switch k {
	case KindMainLoop:
		return "main-loop"
	case KindScroll:
		return "scroll"
	case KindPoll:
		return "poll"
	case KindDeadline:
		return "deadline"
	case KindRadio:
		return "radio"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Priority of the source.
func (k EventKind) Priority() int { return int(k) }

// Event is one unit of work for the handler.
type Event struct {
	Kind    EventKind
	Tick    uint64 // tick in which the event is dispatched
	Payload any
}

// EventWithMeta adds sequencing metadata for deterministic ordering
type EventWithMeta struct {
	Event       Event
	SequenceNum uint64
	Priority    int
}

// sortEvents orders events: higher priority first, then FIFO.
func sortEvents(events []EventWithMeta) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Priority != events[j].Priority {
			return events[i].Priority > events[j].Priority
		}
		return events[i].SequenceNum < events[j].SequenceNum
	})
}
