package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ariefcatur/haritham-market/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the shared middleware stack. limiter may be nil.
// Forwarded-for headers are honoured only when trustProxy is set; otherwise
// the limiter keys on the socket peer.
func NewRouter(log *slog.Logger, sessions *session.Manager, limiter *RateLimiter, trustProxy bool) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if trustProxy {
		r.Use(middleware.RealIP)
	}
	if limiter != nil {
		r.Use(limiter.Middleware)
	}
	r.Use(middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(sessions.Middleware)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
	return r
}

// requireLogin rejects requests without a resolved identity.
func requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := session.Require(r.Context()); err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": msgNotLoggedIn})
			return
		}
		next.ServeHTTP(w, r)
	})
}
