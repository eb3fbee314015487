package chat

import (
	"fmt"
	"log/slog"
	"time"
)

// Defaults applied by Options.withDefaults.
const (
	DefaultHeartbeatInterval = 60 * time.Second
	DefaultCommandQueueSize  = 32
	DefaultEventBufferSize   = 8192
)

// Options configures a chat session.
type Options struct {
	// StreamerID is the channel owner's id. Required.
	StreamerID string

	// Password is the room password passed opaquely on join.
	Password string

	// HeartbeatInterval is the PING period. Defaults to 60s.
	HeartbeatInterval time.Duration

	// CommandQueueSize bounds the command queue. Defaults to 32.
	CommandQueueSize int

	// EventBufferSize bounds each subscriber's event channel.
	// Defaults to 8192.
	EventBufferSize int

	// InsecureTLS accepts any server certificate. Debugging only.
	InsecureTLS bool

	// Logger receives session diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) validate() error {
	if o.StreamerID == "" {
		return fmt.Errorf("chat: StreamerID is required")
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.HeartbeatInterval <= 0 {
		o.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if o.CommandQueueSize <= 0 {
		o.CommandQueueSize = DefaultCommandQueueSize
	}
	if o.EventBufferSize <= 0 {
		o.EventBufferSize = DefaultEventBufferSize
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
