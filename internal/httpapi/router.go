// Package httpapi mounts the WebSocket upgrade endpoint alongside health
// and metrics endpoints on a chi router.
package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/hypcn/yuzu-go/internal/auth"
	_ "github.com/hypcn/yuzu-go/internal/docs"
	"github.com/hypcn/yuzu-go/internal/logging"
	"github.com/hypcn/yuzu-go/internal/metrics"
)

// Options configures the HTTP surface.
type Options struct {
	// Path is the WebSocket upgrade endpoint's path. A leading slash is
	// added if missing.
	Path string
	// RateLimitPerMinute caps upgrade attempts per client IP. Zero
	// disables rate limiting.
	RateLimitPerMinute int
	// CORSAllowedOrigins lists permitted origins. A nil/empty slice
	// allows every origin, a permissive default suited to local development.
	CORSAllowedOrigins []string
	// Authenticate decides whether a connection attempt on Path is
	// accepted. Defaults to auth.AllowAll.
	Authenticate auth.Authenticate
	Metrics      *metrics.Metrics
	Log          logging.Logger
}

// NewRouter builds the chi router mounting the upgrade endpoint at
// opts.Path, /healthz, and /metrics. upgrade is the handler that performs
// the actual protocol upgrade (internal/transport/ws.Handler, typically),
// wrapped here with authentication and rate limiting.
func NewRouter(opts Options, upgrade http.HandlerFunc) http.Handler {
	if opts.Authenticate == nil {
		opts.Authenticate = auth.AllowAll
	}
	path := opts.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", healthHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	upgradeChain := r.With(authenticateMiddleware(opts.Authenticate, opts.Metrics, opts.Log))
	if opts.RateLimitPerMinute > 0 {
		upgradeChain = upgradeChain.With(httprate.LimitByIP(opts.RateLimitPerMinute, time.Minute))
	}
	upgradeChain.Get(path, upgrade)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
