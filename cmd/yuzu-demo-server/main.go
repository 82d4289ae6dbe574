// Command yuzu-demo-server runs a yuzu Server over a small synchronized
// counter-and-log state tree, driven by the default WebSocket transport.
// It exists as an end-to-end demonstration of the library, not a product.
package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/hypcn/yuzu-go"
	"github.com/hypcn/yuzu-go/internal/config"
	"github.com/hypcn/yuzu-go/internal/logging"
)

func main() {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		panic(err)
	}

	log := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	initial := map[string]any{
		"counter": 0,
		"log":     []any{},
	}

	server, err := yuzu.NewServer(yuzu.ServerOptions{
		InitialState:       initial,
		ListenAddr:         cfg.ListenAddr,
		Path:               cfg.Path,
		BatchDelay:         cfg.BatchDelay,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:             log,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to construct server")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	go mutateCounter(ctx, server, log)

	log.Info().Str("addr", cfg.ListenAddr).Str("path", cfg.Path).Msg("starting yuzu demo server")
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("server stopped gracefully")
}

// mutateCounter periodically increments /counter and appends a line to
// /log, exercising the tracker.Cursor write path and the array "chatty"
// patch sequence with every append.
func mutateCounter(ctx context.Context, server *yuzu.Server, log logging.Logger) {
	root := server.Root()
	counter := root.Child("counter")
	logEntries := root.Child("log")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	n := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n++
			if err := counter.Set(n); err != nil {
				log.Error().Err(err).Msg("failed to set counter")
				continue
			}
			if err := logEntries.Push(randomEvent(n)); err != nil {
				log.Error().Err(err).Msg("failed to push log entry")
			}
		}
	}
}

func randomEvent(n int) string {
	events := []string{"tick", "heartbeat", "sync", "refresh"}
	return events[rand.Intn(len(events))] + "#" + strconv.Itoa(n) + " " + time.Now().Format(time.RFC3339)
}
