package yuzu

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hypcn/yuzu-go/internal/auth"
	"github.com/hypcn/yuzu-go/internal/httpapi"
	"github.com/hypcn/yuzu-go/internal/logging"
	"github.com/hypcn/yuzu-go/internal/metrics"
	"github.com/hypcn/yuzu-go/internal/protocol"
	"github.com/hypcn/yuzu-go/internal/session"
	"github.com/hypcn/yuzu-go/internal/supervisor"
	"github.com/hypcn/yuzu-go/internal/tracker"
	"github.com/hypcn/yuzu-go/internal/transport"
	"github.com/hypcn/yuzu-go/internal/transport/ws"
)

// ServerOptions configures a Server.
type ServerOptions struct {
	// InitialState seeds the authoritative tree. It must already be in
	// plain JSON-shaped form (map[string]any, []any, and JSON scalars) —
	// yuzu never reflects over arbitrary Go structs for the authoritative
	// tree itself (tracker.Bind exists for that convenience on top).
	InitialState any

	// ListenAddr is the address the default HTTP server binds, e.g.
	// ":8080". Ignored if Transport is set.
	ListenAddr string
	// Path is the WebSocket upgrade endpoint's path. Ignored if Transport
	// is set.
	Path string
	// RateLimitPerMinute caps upgrade attempts per client IP. Ignored if
	// Transport is set.
	RateLimitPerMinute int
	// CORSAllowedOrigins lists permitted origins. Ignored if Transport is
	// set.
	CORSAllowedOrigins []string

	// BatchDelay buffers patches for this long before flushing them as a
	// patch-batch; zero disables batching.
	BatchDelay time.Duration

	// Transport overrides the default WebSocket transport, e.g. with
	// internal/transport/nats or a host-supplied external transport. When
	// set, ListenAddr/Path/RateLimitPerMinute/CORSAllowedOrigins are
	// ignored — the transport owns its own listening concerns.
	Transport transport.Server

	// Authenticate decides whether a connection attempt is accepted.
	// Defaults to auth.AllowAll.
	Authenticate auth.Authenticate

	Logger   logging.Logger
	Registry prometheus.Registerer
}

// Server is the authoritative side of a yuzu synchronization: it owns the
// state tree and pushes every mutation to connected clients.
type Server struct {
	state     *tracker.State
	session   *session.Server
	transport transport.Server
	httpSrv   *http.Server
	tree      *supervisor.Tree
	metrics   *metrics.Metrics
	log       logging.Logger
}

// NewServer constructs a Server from opts. It does not start listening or
// broadcasting until Run is called.
func NewServer(opts ServerOptions) (*Server, error) {
	log := opts.Logger
	if log.IsZero() {
		log = logging.Default()
	}

	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := metrics.New(registry)

	s := &Server{metrics: m, log: log}

	// session.NewServer needs state.Snapshot, and the state's patch
	// callback needs to forward into the session once it exists — each
	// depends on the other, so sess is captured by reference and filled
	// in once both sides are constructed.
	var sess *session.Server
	s.state = tracker.NewState(opts.InitialState, func(p protocol.Patch) {
		sess.Patch(p)
	})

	tr := opts.Transport
	if tr == nil {
		path := opts.Path
		if path == "" {
			path = "/api/yuzu"
		}
		hub := ws.NewHub(log)
		router := httpapi.NewRouter(httpapi.Options{
			Path:               path,
			RateLimitPerMinute: opts.RateLimitPerMinute,
			CORSAllowedOrigins: opts.CORSAllowedOrigins,
			Authenticate:       opts.Authenticate,
			Metrics:            m,
			Log:                log,
		}, ws.Handler(hub, log))

		listenAddr := opts.ListenAddr
		if listenAddr == "" {
			listenAddr = ":8080"
		}
		s.httpSrv = &http.Server{Addr: listenAddr, Handler: router}
		hub.OnClientCountChanged(func(n int) {
			m.ConnectedClients.Set(float64(n))
		})
		tr = hub
	}
	s.transport = tr

	sess = session.NewServer(tr, s.state.Snapshot, opts.BatchDelay, log)
	sess.OnMetrics(func(n int) {
		m.PatchesEmitted.Add(float64(n))
	}, func() {
		m.BatchesFlushed.Inc()
	})
	s.session = sess

	s.tree = supervisor.NewTree(log, supervisor.DefaultTreeConfig())
	s.tree.Add("transport", tr.Run)
	if s.httpSrv != nil {
		s.tree.Add("http", s.serveHTTP)
	}

	return s, nil
}

// Run starts the transport's event loop (and, for the default transport,
// the HTTP listener) under supervision, blocking until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	defer s.session.Close()
	return s.tree.Serve(ctx)
}

func (s *Server) serveHTTP(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.httpSrv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("yuzu: http shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Root returns a Cursor positioned at the root of the state tree, the
// entry point for every mutation.
func (s *Server) Root() tracker.Cursor {
	return s.state.Root()
}

// Snapshot returns the current full state tree.
func (s *Server) Snapshot() any {
	return s.state.Snapshot()
}
