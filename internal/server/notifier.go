package server

import (
	"sync"

	"github.com/leapstack-labs/coltype/internal/state"
)

// notifier fans catalog reload events out to SSE listeners.
// Listeners get the latest import and should re-query the store.
type notifier struct {
	mu        sync.RWMutex
	listeners map[chan *state.Import]struct{}
}

func newNotifier() *notifier {
	return &notifier{
		listeners: make(map[chan *state.Import]struct{}),
	}
}

// subscribe returns a channel that receives reload events.
// The caller must call unsubscribe when done.
func (n *notifier) subscribe() chan *state.Import {
	ch := make(chan *state.Import, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

func (n *notifier) unsubscribe(ch chan *state.Import) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

func (n *notifier) count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// pending counts events not yet taken by listeners.
func (n *notifier) pending() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	total := 0
	for ch := range n.listeners {
		total += len(ch)
	}
	return total
}

// broadcast never blocks: a listener with a pending event skips this one.
func (n *notifier) broadcast(imp *state.Import) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- imp:
		default:
		}
	}
}
