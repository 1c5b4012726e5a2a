package share

import "github.com/cellarly/cellarctl/internal/api"

// EventKind distinguishes the two terminal signals a wizard run emits.
type EventKind string

const (
	// EventCompleted fires once after a successful share submission.
	EventCompleted EventKind = "completed"
	// EventCancelled fires once whenever a run ends without completing,
	// regardless of which state it failed in.
	EventCancelled EventKind = "cancelled"
)

// Event is broadcast to subscribers so that surfaces outside the
// orchestration (a bottle table, a notification area) can react to the run
// ending without being part of it.
type Event struct {
	Kind     EventKind
	Reason   string
	Response *api.ShareResponse
}

// Subscribe registers fn for terminal events of every subsequent run.
// Dispatch is synchronous, on the same goroutine that drove the session.
// There is no unsubscribe; subscribers live as long as the orchestrator.
func (o *Orchestrator) Subscribe(fn func(Event)) {
	if fn == nil {
		return
	}
	o.subscribers = append(o.subscribers, fn)
}

func (o *Orchestrator) emit(event Event) {
	for _, fn := range o.subscribers {
		fn(event)
	}
}
