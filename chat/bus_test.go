package chat

import (
	"testing"
)

func TestBusDeliversToAllSubscribers(t *testing.T) {
	t.Parallel()

	b := newBus(8)
	a := b.subscribe()
	c := b.subscribe()

	b.publish(&SlowEvent{Duration: 5})

	for _, ch := range []<-chan Event{a, c} {
		ev := <-ch
		if slow, ok := ev.(*SlowEvent); !ok || slow.Duration != 5 {
			t.Errorf("event = %+v, want SlowEvent{5}", ev)
		}
	}
}

func TestBusDropsOldestWhenFull(t *testing.T) {
	t.Parallel()

	b := newBus(2)
	ch := b.subscribe()

	b.publish(&SlowEvent{Duration: 1})
	b.publish(&SlowEvent{Duration: 2})
	b.publish(&SlowEvent{Duration: 3}) // evicts 1

	first := (<-ch).(*SlowEvent)
	second := (<-ch).(*SlowEvent)
	if first.Duration != 2 || second.Duration != 3 {
		t.Errorf("buffered = %d,%d want 2,3 (oldest dropped)", first.Duration, second.Duration)
	}
}

func TestBusSlowSubscriberDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	b := newBus(1)
	slow := b.subscribe()
	fast := b.subscribe()
	_ = slow // never drained

	for i := 0; i < 100; i++ {
		b.publish(&SlowEvent{Duration: uint32(i)})
		ev := <-fast
		if ev.(*SlowEvent).Duration != uint32(i) {
			t.Fatalf("fast subscriber got %+v at i=%d", ev, i)
		}
	}
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	t.Parallel()

	b := newBus(4)
	ch := b.subscribe()
	b.unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Error("channel still open after unsubscribe")
	}
	// Unsubscribing again is a no-op.
	b.unsubscribe(ch)
	// Publishing after unsubscribe must not panic.
	b.publish(&SlowEvent{})
}

func TestBusCloseClosesAllSubscribers(t *testing.T) {
	t.Parallel()

	b := newBus(4)
	a := b.subscribe()
	c := b.subscribe()
	b.publish(&SlowEvent{Duration: 9})
	b.close()

	// Buffered events remain readable, then the channel closes.
	if ev, ok := <-a; !ok || ev.(*SlowEvent).Duration != 9 {
		t.Errorf("buffered event = %+v ok=%v", ev, ok)
	}
	if _, ok := <-a; ok {
		t.Error("channel a still open after close")
	}
	<-c
	if _, ok := <-c; ok {
		t.Error("channel c still open after close")
	}

	// Subscribing after close yields a closed channel.
	if _, ok := <-b.subscribe(); ok {
		t.Error("post-close subscription is open")
	}
}
