package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, "streamer_id: bemong\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StreamerID != "bemong" {
		t.Errorf("StreamerID = %q", cfg.StreamerID)
	}
	if cfg.HeartbeatSec != 60 || cfg.Heartbeat() != 60*time.Second {
		t.Errorf("heartbeat = %d", cfg.HeartbeatSec)
	}
	if cfg.CommandQueueSize != 32 || cfg.EventBufferSize != 8192 {
		t.Errorf("queue sizes = %d/%d", cfg.CommandQueueSize, cfg.EventBufferSize)
	}
	if cfg.InsecureTLS || cfg.Reconnect {
		t.Error("insecure_tls/reconnect default = true, want false")
	}
}

func TestLoadExplicitValues(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, `
streamer_id: bemong
password: sesame
log_level: debug
heartbeat_sec: 30
command_queue_size: 64
event_buffer_size: 1024
insecure_tls: true
reconnect: true
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Password != "sesame" || cfg.HeartbeatSec != 30 ||
		cfg.CommandQueueSize != 64 || cfg.EventBufferSize != 1024 ||
		!cfg.InsecureTLS || !cfg.Reconnect {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("SOOP_TEST_PASSWORD", "secret")

	cfg, err := Load(writeConfig(t, "streamer_id: bemong\npassword: ${SOOP_TEST_PASSWORD}\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Password != "secret" {
		t.Errorf("Password = %q, want env-expanded secret", cfg.Password)
	}
}

func TestLoadValidation(t *testing.T) {
	t.Parallel()

	if _, err := Load(writeConfig(t, "password: x\n")); err == nil {
		t.Error("Load without streamer_id succeeded")
	}
	if _, err := Load(writeConfig(t, "streamer_id: x\nlog_level: loud\n")); err == nil {
		t.Error("Load with bad log level succeeded")
	}
}

func TestFindConfigExplicitMissing(t *testing.T) {
	t.Parallel()

	if _, err := FindConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("FindConfig succeeded for missing explicit path")
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if cfg.HeartbeatSec != 60 || cfg.CommandQueueSize != 32 {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"info", slog.LevelInfo, false},
		{"INFO", slog.LevelInfo, false},
		{"trace", LevelTrace, false},
		{"debug", slog.LevelDebug, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{" Error ", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tc := range cases {
		got, err := ParseLogLevel(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseLogLevel(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
