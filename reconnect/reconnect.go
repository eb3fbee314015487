// Package reconnect layers a retry loop above the chat core. The core
// session never reconnects on its own (retry policy is a product
// decision); this package implements the common policy of re-dialing
// after transient failures and polling while the stream is offline.
package reconnect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ByungJin-Lee/soop-sdk-go/chat"
	"github.com/ByungJin-Lee/soop-sdk-go/internal/metrics"
)

// Config controls the retry schedule.
type Config struct {
	// OfflineWait is the delay between live-detail polls while the
	// stream is offline. Defaults to 30s.
	OfflineWait time.Duration

	// RetryWait is the delay before re-dialing after a session error.
	// Defaults to 5s.
	RetryWait time.Duration

	// MaxAttempts caps consecutive failed reconnect attempts; 0 means
	// unbounded. Offline polls do not count as attempts.
	MaxAttempts int
}

func (c Config) withDefaults() Config {
	if c.OfflineWait <= 0 {
		c.OfflineWait = 30 * time.Second
	}
	if c.RetryWait <= 0 {
		c.RetryWait = 5 * time.Second
	}
	return c
}

// Runner drives chat sessions with automatic reconnection. Create one
// with New, then call Run.
type Runner struct {
	resolver chat.LiveResolver
	opts     chat.Options
	cfg      Config
	logger   *slog.Logger

	// OnReconnecting fires before each reconnect wait. Optional.
	OnReconnecting func(attempt int, wait time.Duration)

	// OnRestored fires when a session is re-established after at least
	// one failure. Optional.
	OnRestored func()

	mu       sync.Mutex
	current  *chat.Conn
	shutdown bool
}

// New creates a Runner. The options are reused verbatim for every
// session the runner starts.
func New(resolver chat.LiveResolver, opts chat.Options, cfg Config) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		resolver: resolver,
		opts:     opts,
		cfg:      cfg.withDefaults(),
		logger:   logger,
	}
}

// Shutdown stops the retry loop and asks the current session, if any,
// to terminate cleanly.
func (r *Runner) Shutdown() {
	r.mu.Lock()
	r.shutdown = true
	conn := r.current
	r.mu.Unlock()
	if conn != nil {
		_ = conn.Shutdown()
	}
}

// Run drives sessions until a clean shutdown, the attempt cap, or ctx
// cancellation. Every event from every session is forwarded to emit in
// order, so consumers observe repeated Connected/Disconnected pairs
// across reconnects.
func (r *Runner) Run(ctx context.Context, emit func(chat.Event)) error {
	attempts := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.stopped() {
			return nil
		}

		connected := false
		sessionErr := r.runOnce(ctx, func(ev chat.Event) {
			if _, ok := ev.(*chat.ConnectedEvent); ok {
				connected = true
			}
			emit(ev)
		}, attempts)
		if connected {
			// A session that got through resets the failure streak.
			attempts = 0
		}

		switch {
		case sessionErr == nil:
			// Clean shutdown.
			return nil

		case errors.Is(sessionErr, chat.ErrStreamOffline):
			r.logger.Info("stream offline, waiting", "wait", r.cfg.OfflineWait)
			if !sleepCtx(ctx, r.cfg.OfflineWait) {
				return ctx.Err()
			}

		default:
			attempts++
			if r.cfg.MaxAttempts > 0 && attempts > r.cfg.MaxAttempts {
				return fmt.Errorf("reconnect: giving up after %d attempts: %w",
					attempts-1, sessionErr)
			}
			metrics.Reconnects.Inc()
			r.logger.Warn("session failed, reconnecting",
				"attempt", attempts,
				"wait", r.cfg.RetryWait,
				"error", sessionErr,
			)
			if r.OnReconnecting != nil {
				r.OnReconnecting(attempts, r.cfg.RetryWait)
			}
			if !sleepCtx(ctx, r.cfg.RetryWait) {
				return ctx.Err()
			}
		}
	}
}

// runOnce runs a single session to completion, forwarding its events.
func (r *Runner) runOnce(ctx context.Context, emit func(chat.Event), attempts int) error {
	conn, err := chat.New(r.resolver, r.opts)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if r.shutdown {
		r.mu.Unlock()
		return nil
	}
	r.current = conn
	r.mu.Unlock()

	events := conn.Subscribe()
	if err := conn.Start(ctx); err != nil {
		return err
	}

	restored := attempts > 0
	for ev := range events {
		if restored {
			if _, ok := ev.(*chat.ConnectedEvent); ok {
				restored = false
				if r.OnRestored != nil {
					r.OnRestored()
				}
			}
		}
		emit(ev)
	}

	r.mu.Lock()
	r.current = nil
	r.mu.Unlock()

	return conn.Err()
}

func (r *Runner) stopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shutdown
}

// sleepCtx sleeps for d or until ctx is cancelled. Returns false if
// cancelled.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
