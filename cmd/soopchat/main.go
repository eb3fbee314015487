// Command soopchat connects to a streamer's live chat and prints the
// event stream. It is the SDK's demo application.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	soop "github.com/ByungJin-Lee/soop-sdk-go"
	"github.com/ByungJin-Lee/soop-sdk-go/chat"
	"github.com/ByungJin-Lee/soop-sdk-go/internal/buildinfo"
	"github.com/ByungJin-Lee/soop-sdk-go/internal/config"
	"github.com/ByungJin-Lee/soop-sdk-go/reconnect"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "soopchat:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "path to config file")
		streamerID = flag.String("streamer", "", "streamer id (overrides config)")
		version    = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Println(buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configPath, *streamerID)
	if err != nil {
		return err
	}

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: config.ReplaceLogLevelNames,
	}))
	slog.SetDefault(logger)

	logger.Info("starting", "build", buildinfo.String(), "streamer_id", cfg.StreamerID)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := soop.NewClient(soop.WithLogger(logger))
	opts := chat.Options{
		StreamerID:        cfg.StreamerID,
		Password:          cfg.Password,
		HeartbeatInterval: cfg.Heartbeat(),
		CommandQueueSize:  cfg.CommandQueueSize,
		EventBufferSize:   cfg.EventBufferSize,
		InsecureTLS:       cfg.InsecureTLS,
		Logger:            logger,
	}

	if cfg.Reconnect {
		runner := reconnect.New(client, opts, reconnect.Config{})
		go func() {
			<-ctx.Done()
			runner.Shutdown()
		}()
		return runner.Run(context.Background(), printEvent)
	}

	conn, err := chat.New(client, opts)
	if err != nil {
		return err
	}
	events := conn.Subscribe()
	if err := conn.Start(context.Background()); err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		_ = conn.Shutdown()
	}()

	for ev := range events {
		printEvent(ev)
	}
	return conn.Err()
}

// loadConfig resolves configuration from file and flags. A bare
// -streamer flag works without any config file.
func loadConfig(path, streamerID string) (*config.Config, error) {
	found, err := config.FindConfig(path)
	if err != nil {
		// An explicit -config path that does not exist is always an
		// error; a missing default config is fine when -streamer is
		// given.
		if path != "" || streamerID == "" {
			return nil, err
		}
		cfg := config.Default()
		cfg.StreamerID = streamerID
		return cfg, nil
	}
	cfg, err := config.Load(found)
	if err != nil {
		return nil, err
	}
	if streamerID != "" {
		cfg.StreamerID = streamerID
	}
	return cfg, nil
}

// printEvent renders one event to stdout.
func printEvent(ev chat.Event) {
	switch e := ev.(type) {
	case *chat.ConnectedEvent:
		fmt.Println("[connected]")
	case *chat.DisconnectedEvent:
		fmt.Println("[disconnected]")
	case *chat.ChatEvent:
		fmt.Printf("chat      %-12s %s\n", e.User.ID, e.Comment)
	case *chat.DonationEvent:
		fmt.Printf("donation  %-12s %d (%s)\n", e.FromLabel, e.Amount, e.Type)
	case *chat.SubscribeEvent:
		fmt.Printf("subscribe %-12s tier %d\n", e.Label, e.Tier)
	case *chat.MuteEvent:
		fmt.Printf("mute      %-12s %ds by %s\n", e.User.ID, e.Seconds, e.SuperuserType)
	case *chat.FreezeEvent:
		fmt.Printf("freeze    frozen=%v targets=%v\n", e.Frozen, e.Targets)
	case *chat.SlowEvent:
		fmt.Printf("slow      %ds\n", e.Duration)
	case *chat.NotificationEvent:
		fmt.Printf("notice    %s\n", e.Message)
	case *chat.KickCancelEvent:
		fmt.Printf("unkick    %s\n", e.UserID)
	case *chat.MissionDonationEvent:
		fmt.Printf("mission   %-12s %d (%s)\n", e.FromLabel, e.Amount, e.Type)
	case *chat.MissionTotalEvent:
		fmt.Printf("mission total %d (%s)\n", e.Amount, e.Type)
	case *chat.BattleMissionResultEvent:
		fmt.Printf("battle    winner=%s draw=%v\n", e.Winner, e.IsDraw)
	case *chat.ChallengeMissionResultEvent:
		fmt.Printf("challenge success=%v %s\n", e.IsSuccess, e.Title)
	}
}
