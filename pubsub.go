package immersivereader

import "sync"

// outcomeBuffer is the per-subscriber channel capacity. A subscriber
// that falls this far behind starts losing outcomes instead of blocking
// extraction jobs.
const outcomeBuffer = 16

// notifier is a broadcast-style publisher of extraction outcomes. It is
// decoupled from the invoking call: listeners subscribe independently
// and every listener registered at publish time receives the outcome.
type notifier struct {
	mu   sync.Mutex
	subs map[int]chan Outcome
	next int
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[int]chan Outcome)}
}

// subscribe registers a new listener and returns its channel together
// with a cancel function that unregisters and closes it.
func (n *notifier) subscribe() (<-chan Outcome, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++
	ch := make(chan Outcome, outcomeBuffer)
	n.subs[id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if sub, ok := n.subs[id]; ok {
			delete(n.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// publish delivers the outcome to every current subscriber without
// blocking; a full subscriber channel drops the outcome.
func (n *notifier) publish(out Outcome) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs {
		select {
		case ch <- out:
		default:
		}
	}
}
