// Package supervisor wraps a yuzu.Server's background goroutines (the
// transport run-loop and, when configured, an external-transport
// subscriber) in a suture supervision tree.
package supervisor

import (
	"context"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/hypcn/yuzu-go/internal/logging"
)

// TreeConfig holds supervisor tree configuration.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	FailureThreshold float64
	// FailureDecay is the rate at which failures decay, in seconds.
	FailureDecay float64
	// FailureBackoff is how long to wait once FailureThreshold is
	// exceeded.
	FailureBackoff time.Duration
	// ShutdownTimeout bounds how long Stop waits for children to exit.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns suture's own documented defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Tree is a single-level supervisor running the transport's Run loop (and
// any other background service a Server needs) with automatic restart on
// panic or error return.
type Tree struct {
	root *suture.Supervisor
	log  logging.Logger
}

// NewTree constructs a Tree. Call Add for each background service, then
// Serve to start supervision.
func NewTree(log logging.Logger, cfg TreeConfig) *Tree {
	cfg = applyDefaults(cfg)
	root := suture.New("yuzu", suture.Spec{
		EventHook:        eventHook(log),
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	})
	return &Tree{root: root, log: log}
}

// Add registers a background service, identified by name for logging, to
// be supervised.
func (t *Tree) Add(name string, service func(ctx context.Context) error) {
	t.root.Add(namedService{name: name, run: service})
}

// Serve starts the tree and blocks until ctx is canceled, at which point
// every supervised service is stopped within ShutdownTimeout.
func (t *Tree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

func applyDefaults(cfg TreeConfig) TreeConfig {
	d := DefaultTreeConfig()
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = d.FailureThreshold
	}
	if cfg.FailureDecay == 0 {
		cfg.FailureDecay = d.FailureDecay
	}
	if cfg.FailureBackoff == 0 {
		cfg.FailureBackoff = d.FailureBackoff
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = d.ShutdownTimeout
	}
	return cfg
}

type namedService struct {
	name string
	run  func(ctx context.Context) error
}

func (s namedService) Serve(ctx context.Context) error {
	return s.run(ctx)
}

func (s namedService) String() string {
	return s.name
}

// eventHook logs suture lifecycle events through the instance-scoped
// Logger rather than sutureslog, which is built around log/slog and would
// otherwise sit awkwardly alongside the zerolog-based logging this
// library standardizes on (see internal/logging).
func eventHook(log logging.Logger) func(suture.Event) {
	return func(ev suture.Event) {
		log.Warn().Msg(ev.String())
	}
}
