package chat

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ByungJin-Lee/soop-sdk-go/internal/metrics"
)

// dialHandshakeTimeout bounds the WebSocket dial plus TLS handshake.
const dialHandshakeTimeout = 10 * time.Second

// socket is the slice of *websocket.Conn the session uses. Tests
// substitute an in-memory implementation.
type socket interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// run is the session task. It owns the socket exclusively and is the
// single consumer of the command queue. Exactly one DisconnectedEvent
// is emitted on the way out, whatever the cause.
func (c *Conn) run(ctx context.Context) {
	logger := c.opts.Logger.With(
		"session_id", c.sessionID,
		"streamer_id", c.opts.StreamerID,
	)

	err := c.runSession(ctx, logger)
	switch {
	case err == nil:
		logger.Info("session ended")
	case errors.Is(err, ErrStreamOffline):
		logger.Info("stream is offline")
	default:
		logger.Error("session failed", "error", err)
	}

	c.setErr(err)
	c.bus.publish(&DisconnectedEvent{Meta: metaNow()})
	c.bus.close()
	close(c.done)
}

// runSession resolves the endpoint, dials, and hands off to the live
// loop. A nil return means clean shutdown.
func (c *Conn) runSession(ctx context.Context, logger *slog.Logger) error {
	detail, err := c.resolver.ResolveLive(ctx, c.opts.StreamerID)
	if err != nil {
		return fmt.Errorf("resolve live: %w", err)
	}
	if !detail.IsLive {
		return ErrStreamOffline
	}

	// The chat service listens one port above the advertised one.
	u := url.URL{
		Scheme: "wss",
		Host: net.JoinHostPort(
			strings.ToLower(detail.ChatHost),
			strconv.Itoa(detail.ChatPort+1),
		),
		Path: "/Websocket/" + c.opts.StreamerID,
	}

	logger.Info("connecting to chat server", "url", u.String(), "room_id", detail.RoomID)

	var sock socket
	if c.dialFn != nil {
		sock, err = c.dialFn(ctx, u.String())
	} else {
		dialer := websocket.Dialer{
			HandshakeTimeout: dialHandshakeTimeout,
			Subprotocols:     []string{"chat"},
		}
		if c.opts.InsecureTLS {
			logger.Warn("TLS certificate verification disabled")
			dialer.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicit opt-in
		}
		sock, _, err = dialer.DialContext(ctx, u.String(), nil)
	}
	if err != nil {
		return fmt.Errorf("dial %s: %w", u.Host, err)
	}

	return c.session(ctx, sock, detail, logger)
}

// session drives the handshake, heartbeat, and dispatch loop over an
// established socket.
func (c *Conn) session(ctx context.Context, sock socket, detail *LiveDetail, logger *slog.Logger) error {
	defer sock.Close()

	// Transport is up. The server handshake (CONNECT → JOIN) follows.
	c.bus.publish(&ConnectedEvent{Meta: metaNow()})

	fmtr := newFormatter(detail.RoomID, c.opts.Password)
	disp := newDispatcher(fmtr, c.bus.publish, logger)

	write := func(frame []byte) error {
		if err := sock.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			return err
		}
		metrics.FramesSent.Inc()
		return nil
	}

	if err := write(fmtr.connectFrame()); err != nil {
		return fmt.Errorf("send connect: %w", err)
	}

	stop := make(chan struct{})
	defer close(stop)

	inbound := make(chan []byte, 32)
	readErr := make(chan error, 1)
	go readPump(sock, inbound, readErr, stop)

	ticker := time.NewTicker(c.opts.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-inbound:
			if reply := disp.handle(data); reply != nil {
				if err := write(reply); err != nil {
					return fmt.Errorf("send reply: %w", err)
				}
			}

		case cmd := <-c.commands:
			switch v := cmd.(type) {
			case SendChat:
				if err := write(fmtr.chatFrame(v.Message)); err != nil {
					return fmt.Errorf("send chat: %w", err)
				}
			case Shutdown:
				logger.Info("shutdown requested")
				// Best-effort close handshake; the deferred Close tears
				// down the transport either way.
				_ = sock.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return nil
			}

		case <-ticker.C:
			if err := write(fmtr.pingFrame()); err != nil {
				return fmt.Errorf("send ping: %w", err)
			}

		case err := <-readErr:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Info("server closed the connection")
				return nil
			}
			return fmt.Errorf("read: %w", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// readPump feeds inbound frames to the session loop. It exits on the
// first read error or when the session stops.
func readPump(sock socket, inbound chan<- []byte, readErr chan<- error, stop <-chan struct{}) {
	for {
		_, data, err := sock.ReadMessage()
		if err != nil {
			select {
			case readErr <- err:
			case <-stop:
			}
			return
		}
		select {
		case inbound <- data:
		case <-stop:
			return
		}
	}
}
