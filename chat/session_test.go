package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"
)

// fakeSocket is an in-memory socket for session tests.
type fakeSocket struct {
	in     chan []byte
	closed chan struct{}
	once   sync.Once

	mu      sync.Mutex
	written [][]byte
}

func newFakeSocket() *fakeSocket {
	return &fakeSocket{
		in:     make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

func (s *fakeSocket) ReadMessage() (int, []byte, error) {
	select {
	case data := <-s.in:
		return 2, data, nil // BinaryMessage
	case <-s.closed:
		return 0, nil, net.ErrClosed
	}
}

func (s *fakeSocket) WriteMessage(messageType int, data []byte) error {
	select {
	case <-s.closed:
		return net.ErrClosed
	default:
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.written = append(s.written, append([]byte(nil), data...))
	return nil
}

func (s *fakeSocket) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

// serve queues an inbound frame.
func (s *fakeSocket) serve(frame []byte) {
	s.in <- frame
}

func (s *fakeSocket) writes() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.written))
	copy(out, s.written)
	return out
}

// opcodeOf reads the header opcode digits of an encoded frame.
func opcodeOf(frame []byte) string {
	if len(frame) < headerLen {
		return ""
	}
	return string(frame[2:6])
}

type resolverFunc func(ctx context.Context, streamerID string) (*LiveDetail, error)

func (f resolverFunc) ResolveLive(ctx context.Context, streamerID string) (*LiveDetail, error) {
	return f(ctx, streamerID)
}

func liveResolver() resolverFunc {
	return func(ctx context.Context, streamerID string) (*LiveDetail, error) {
		return &LiveDetail{
			IsLive:   true,
			ChatHost: "Chat.Example.Com",
			ChatPort: 8000,
			RoomID:   "room1",
		}, nil
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// waitFor polls cond until it returns true or the timeout elapses.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for: %s", msg)
}

// testConn builds a started Conn wired to a fake socket.
func testConn(t *testing.T, opts Options) (*Conn, *fakeSocket, <-chan Event) {
	t.Helper()
	if opts.StreamerID == "" {
		opts.StreamerID = "streamer"
	}
	if opts.HeartbeatInterval == 0 {
		opts.HeartbeatInterval = time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}

	conn, err := New(liveResolver(), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sock := newFakeSocket()
	conn.dialFn = func(ctx context.Context, wsURL string) (socket, error) {
		if want := "wss://chat.example.com:8001/Websocket/streamer"; wsURL != want {
			t.Errorf("dial url = %q, want %q", wsURL, want)
		}
		return sock, nil
	}
	events := conn.Subscribe()
	if err := conn.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return conn, sock, events
}

func TestSessionHandshake(t *testing.T) {
	t.Parallel()

	conn, sock, events := testConn(t, Options{})
	defer conn.Shutdown()

	if ev := <-events; ev.Kind() != KindConnected {
		t.Fatalf("first event = %q, want connected", ev.Kind())
	}

	// CONNECT goes out immediately after the transport is up.
	waitFor(t, 2*time.Second, func() bool { return len(sock.writes()) >= 1 }, "CONNECT write")
	if got := opcodeOf(sock.writes()[0]); got != "0001" {
		t.Fatalf("first write opcode = %q, want 0001", got)
	}

	// The CONNECT ack triggers the JOIN reply.
	sock.serve(mustEncode(t, opConnect, nil))
	waitFor(t, 2*time.Second, func() bool { return len(sock.writes()) >= 2 }, "JOIN write")
	join := sock.writes()[1]
	if got := opcodeOf(join); got != "0002" {
		t.Fatalf("second write opcode = %q, want 0002", got)
	}
	if body := join[headerLen:]; body[0] != sep {
		t.Error("JOIN body does not start with the separator")
	}
}

func TestSessionDeliversChatEvents(t *testing.T) {
	t.Parallel()

	conn, sock, events := testConn(t, Options{})
	defer conn.Shutdown()

	<-events // connected

	sock.serve(mustEncode(t, opChat,
		[]byte("\x0chi\x0cu1\x0c\x0c\x0c\x0cnick\x0c1|0\x0c0\x0c\x0c\x0c0")))

	if ev := <-events; ev.Kind() != KindRaw {
		t.Fatalf("event = %q, want raw first", ev.Kind())
	}
	ev := <-events
	chatEv, ok := ev.(*ChatEvent)
	if !ok {
		t.Fatalf("event = %T, want *ChatEvent", ev)
	}
	if chatEv.User.ID != "u1" || chatEv.Comment != "hi" {
		t.Errorf("chat = %+v", chatEv)
	}
}

func TestSessionSendChat(t *testing.T) {
	t.Parallel()

	conn, sock, events := testConn(t, Options{})
	defer conn.Shutdown()
	<-events // connected

	if err := conn.SendChat("hello"); err != nil {
		t.Fatalf("SendChat: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool {
		for _, w := range sock.writes() {
			if opcodeOf(w) == "0005" {
				return true
			}
		}
		return false
	}, "chat frame write")
}

func TestSessionShutdown(t *testing.T) {
	t.Parallel()

	conn, _, events := testConn(t, Options{})

	if ev := <-events; ev.Kind() != KindConnected {
		t.Fatalf("first event = %q, want connected", ev.Kind())
	}
	if err := conn.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	// Drain until Disconnected; the channel then closes.
	var sawDisconnected bool
	for ev := range events {
		if ev.Kind() == KindDisconnected {
			sawDisconnected = true
		}
	}
	if !sawDisconnected {
		t.Error("no Disconnected event before channel close")
	}

	select {
	case <-conn.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session task did not exit")
	}
	if err := conn.Err(); err != nil {
		t.Errorf("Err() = %v, want nil for clean shutdown", err)
	}
}

func TestSessionHeartbeat(t *testing.T) {
	t.Parallel()

	conn, sock, events := testConn(t, Options{HeartbeatInterval: 20 * time.Millisecond})
	defer conn.Shutdown()
	<-events // connected

	waitFor(t, 2*time.Second, func() bool {
		var pings int
		for _, w := range sock.writes() {
			if opcodeOf(w) == "0000" {
				pings++
			}
		}
		return pings >= 2
	}, "two heartbeat pings")
}

func TestSessionSocketFailure(t *testing.T) {
	t.Parallel()

	conn, sock, events := testConn(t, Options{})
	<-events // connected

	sock.Close() // server side drops

	select {
	case <-conn.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not exit on socket failure")
	}
	if err := conn.Err(); err == nil {
		t.Error("Err() = nil, want read error")
	}
}

func TestSessionContextCancel(t *testing.T) {
	t.Parallel()

	opts := Options{
		StreamerID:        "streamer",
		HeartbeatInterval: time.Hour,
		Logger:            quietLogger(),
	}
	conn, err := New(liveResolver(), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	conn.dialFn = func(ctx context.Context, wsURL string) (socket, error) {
		return newFakeSocket(), nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := conn.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	cancel()

	select {
	case <-conn.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not exit on context cancel")
	}
	if !errors.Is(conn.Err(), context.Canceled) {
		t.Errorf("Err() = %v, want context.Canceled", conn.Err())
	}
}

func TestStartIsOneShot(t *testing.T) {
	t.Parallel()

	conn, _, _ := testConn(t, Options{})
	defer conn.Shutdown()

	if err := conn.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start = %v, want ErrAlreadyStarted", err)
	}
}

func TestSessionStreamOffline(t *testing.T) {
	t.Parallel()

	resolver := resolverFunc(func(ctx context.Context, streamerID string) (*LiveDetail, error) {
		return &LiveDetail{IsLive: false}, nil
	})
	conn, err := New(resolver, Options{StreamerID: "streamer", Logger: quietLogger()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	events := conn.Subscribe()
	if err := conn.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if ev := <-events; ev.Kind() != KindDisconnected {
		t.Fatalf("event = %q, want disconnected", ev.Kind())
	}
	<-conn.Done()
	if !errors.Is(conn.Err(), ErrStreamOffline) {
		t.Errorf("Err() = %v, want ErrStreamOffline", conn.Err())
	}
}

func TestSessionResolveFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("api down")
	resolver := resolverFunc(func(ctx context.Context, streamerID string) (*LiveDetail, error) {
		return nil, boom
	})
	conn, err := New(resolver, Options{StreamerID: "streamer", Logger: quietLogger()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := conn.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-conn.Done()
	if !errors.Is(conn.Err(), boom) {
		t.Errorf("Err() = %v, want wrapped resolver error", conn.Err())
	}
}

func TestCommandQueueOverflow(t *testing.T) {
	t.Parallel()

	conn, err := New(liveResolver(), Options{
		StreamerID:       "streamer",
		CommandQueueSize: 1,
		Logger:           quietLogger(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Not started: the queue fills without a consumer.
	if err := conn.SendChat("one"); err != nil {
		t.Fatalf("first SendChat: %v", err)
	}
	if err := conn.SendChat("two"); !errors.Is(err, ErrChannelFull) {
		t.Errorf("second SendChat = %v, want ErrChannelFull", err)
	}
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	if _, err := New(liveResolver(), Options{}); err == nil {
		t.Error("New without StreamerID succeeded")
	}
	if _, err := New(nil, Options{StreamerID: "x"}); err == nil {
		t.Error("New without resolver succeeded")
	}
}

func TestSubscribeDuringSession(t *testing.T) {
	t.Parallel()

	conn, sock, events := testConn(t, Options{})
	defer conn.Shutdown()
	<-events // connected

	late := conn.Subscribe()
	sock.serve(mustEncode(t, opSlow, []byte("\x0c3\x0c15")))

	waitFor(t, 2*time.Second, func() bool {
		select {
		case ev := <-late:
			return ev.Kind() == KindRaw || ev.Kind() == KindSlow
		default:
			return false
		}
	}, "late subscriber receives events")
}
