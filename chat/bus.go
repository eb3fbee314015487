package chat

import (
	"sync"

	"github.com/ByungJin-Lee/soop-sdk-go/internal/metrics"
)

// bus is the broadcast fan-out behind Subscribe. Every subscriber gets
// its own bounded channel; when a subscriber falls behind, the oldest
// buffered event is evicted to make room for the newest. Subscribers
// that need lossless delivery must drain promptly or layer their own
// queue.
type bus struct {
	capacity int

	mu   sync.RWMutex
	subs map[chan Event]struct{}
	// recvToSend maps the receive-only channel handed to a subscriber
	// back to the bidirectional channel stored in subs, so Unsubscribe
	// can accept the caller's view of the channel.
	recvToSend map[<-chan Event]chan Event
	closed     bool
}

func newBus(capacity int) *bus {
	return &bus{
		capacity:   capacity,
		subs:       make(map[chan Event]struct{}),
		recvToSend: make(map[<-chan Event]chan Event),
	}
}

// publish delivers e to every subscriber without ever blocking. A full
// subscriber loses its oldest buffered event.
func (b *bus) publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- e:
			continue
		default:
		}
		// Full: evict the oldest entry, then retry once. The retry can
		// still lose the race against a concurrent drain; that is fine.
		select {
		case <-ch:
			metrics.EventsDropped.Inc()
		default:
		}
		select {
		case ch <- e:
		default:
			metrics.EventsDropped.Inc()
		}
	}
}

// subscribe registers a new receiver. Valid at any point in the
// session lifecycle.
func (b *bus) subscribe() <-chan Event {
	ch := make(chan Event, b.capacity)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs[ch] = struct{}{}
	b.recvToSend[ch] = ch
	return ch
}

// unsubscribe removes a receiver and closes its channel. No-op for
// unknown channels.
func (b *bus) unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sendCh, ok := b.recvToSend[ch]
	if !ok {
		return
	}
	delete(b.subs, sendCh)
	delete(b.recvToSend, ch)
	close(sendCh)
}

// close shuts the bus down, closing every subscriber channel.
func (b *bus) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		close(ch)
	}
	b.subs = make(map[chan Event]struct{})
	b.recvToSend = make(map[<-chan Event]chan Event)
}
