package memory

import (
	"context"
	"sync"

	"adboard/internal/app/policies"
)

// Notifier records emitted events for inspection in tests.
type Notifier struct {
	mu     sync.Mutex
	events []policies.Event
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) Notify(ctx context.Context, event policies.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *Notifier) Events() []policies.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]policies.Event(nil), n.events...)
}

// EventsOfKind filters recorded events by kind.
func (n *Notifier) EventsOfKind(kind string) []policies.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []policies.Event
	for _, event := range n.events {
		if event.Kind == kind {
			out = append(out, event)
		}
	}
	return out
}

var _ policies.Notifier = (*Notifier)(nil)
