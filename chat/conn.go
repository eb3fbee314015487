// Package chat implements the client side of the SOOP live chat
// protocol: a length-prefixed binary framing over a TLS WebSocket, a
// CONNECT/JOIN handshake, heartbeats, and a typed event stream.
//
// A Conn is created idle, hands out event subscriptions at any time,
// and runs exactly one background session once Start is called. Event
// delivery is lossy for slow subscribers; see Subscribe.
package chat

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ByungJin-Lee/soop-sdk-go/internal/metrics"
)

// LiveDetail is the resolved connection target for a live stream.
type LiveDetail struct {
	IsLive       bool
	ChatHost     string
	ChatPort     int
	RoomID       string
	StreamerNick string
	Title        string
	Categories   []string
}

// LiveResolver resolves a streamer id to its current chat endpoint.
// The soop package provides the production implementation.
type LiveResolver interface {
	ResolveLive(ctx context.Context, streamerID string) (*LiveDetail, error)
}

// Conn is the public handle for one chat session. Construction does no
// I/O; Start launches the background session task.
type Conn struct {
	resolver  LiveResolver
	opts      Options
	sessionID string

	bus      *bus
	commands chan Command

	// dialFn substitutes the WebSocket dial in tests.
	dialFn func(ctx context.Context, wsURL string) (socket, error)

	started atomic.Bool
	done    chan struct{}

	errMu sync.Mutex
	err   error
}

// New creates an idle Conn. The resolver is consulted once per Start.
func New(resolver LiveResolver, opts Options) (*Conn, error) {
	if resolver == nil {
		return nil, fmt.Errorf("chat: resolver is required")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	return &Conn{
		resolver:  resolver,
		opts:      opts,
		sessionID: uuid.NewString(),
		bus:       newBus(opts.EventBufferSize),
		commands:  make(chan Command, opts.CommandQueueSize),
		done:      make(chan struct{}),
	}, nil
}

// Subscribe returns a new event channel. Valid before or during a live
// session. The channel is bounded (Options.EventBufferSize); when a
// subscriber falls behind, the oldest buffered events are dropped —
// that is the cost of the non-blocking broadcast guarantee. The channel
// closes when the session terminates or Unsubscribe is called.
func (c *Conn) Subscribe() <-chan Event {
	return c.bus.subscribe()
}

// Unsubscribe releases a channel obtained from Subscribe.
func (c *Conn) Unsubscribe(ch <-chan Event) {
	c.bus.unsubscribe(ch)
}

// SendChat submits a chat message to the session. It never blocks: a
// full command queue returns ErrChannelFull.
func (c *Conn) SendChat(message string) error {
	return c.submit(SendChat{Message: message})
}

// Shutdown asks the session to terminate cleanly. The session emits
// Disconnected and exits; Done unblocks afterwards.
func (c *Conn) Shutdown() error {
	return c.submit(Shutdown{})
}

func (c *Conn) submit(cmd Command) error {
	select {
	case <-c.done:
		if c.started.Load() {
			return ErrNotStarted
		}
	default:
	}
	select {
	case c.commands <- cmd:
		return nil
	default:
		metrics.CommandsRejected.Inc()
		return ErrChannelFull
	}
}

// Start launches the background session task. One-shot: the second and
// later calls return ErrAlreadyStarted. The session ends when ctx is
// cancelled, Shutdown is submitted, or the socket fails.
func (c *Conn) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	go c.run(ctx)
	return nil
}

// Done is closed once the session task has fully terminated.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Err reports why the session ended. Nil until Done is closed, and nil
// for a clean Shutdown.
func (c *Conn) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

func (c *Conn) setErr(err error) {
	c.errMu.Lock()
	c.err = err
	c.errMu.Unlock()
}
