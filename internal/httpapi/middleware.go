package httpapi

import (
	"errors"
	"net/http"

	"github.com/hypcn/yuzu-go/internal/auth"
	"github.com/hypcn/yuzu-go/internal/logging"
	"github.com/hypcn/yuzu-go/internal/metrics"
)

// authenticateMiddleware runs the configured Authenticate hook before the
// upgrade handler, rejecting the request with 401 if it returns false
// (including with auth.ErrNoCredentials), and with 500 if it returns any
// other error.
func authenticateMiddleware(authenticate auth.Authenticate, m *metrics.Metrics, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := auth.Info{
				Request: r,
				Query:   r.URL.Query(),
				Origin:  r.Header.Get("Origin"),
			}
			ok, err := authenticate(info)
			if err != nil && !errors.Is(err, auth.ErrNoCredentials) {
				log.Warn().Err(err).Msg("authentication error")
				if m != nil {
					m.AuthRejections.Inc()
				}
				http.Error(w, "authentication error", http.StatusInternalServerError)
				return
			}
			if !ok {
				if m != nil {
					m.AuthRejections.Inc()
				}
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
