package core

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
)

const defaultRequestTimeout = 10 * time.Second

const requestIDHeader = "X-Request-Id"

var redactedHeaders = []string{"Authorization", "Cookie", "X-Api-Key"}

// MountRoutes installs the middleware chain and the top-level routes.
func (s *Server) MountRoutes() {
	// Order matters: Recoverer must be outermost, and RequestID must run
	// before anything that logs.
	s.router.Use(s.Recoverer)
	s.router.Use(ContextTimeoutMiddleware(s.requestTimeout()))
	s.router.Use(RequestIDMiddleware)
	s.router.Use(SecurityHeadersMiddleware)
	s.router.Use(RequestLogger(s.Logger, redactedHeaders))
	s.router.Use(NewCORSMiddleware(s.corsAllowedOrigins()))
	s.router.Use(s.MetricsMiddleware)
	s.router.Use(compress)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		Error(w, r, types.NewAppError(types.ErrCodeNotFoundRoute, "no route for "+r.Method+" "+r.URL.Path, nil))
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		Error(w, r, types.NewAppError(types.ErrCodeMethodNotAllowed, "method "+r.Method+" is not allowed here", nil))
	})

	s.router.Get("/health", s.HandleHealth)
	if s.MetricsHandler != nil {
		s.router.Method(http.MethodGet, "/metrics", s.MetricsHandler)
	}
	s.router.Route("/v1", func(r chi.Router) {
		for _, register := range s.V1RouteRegistrars {
			register(r)
		}
	})
}

func (s *Server) requestTimeout() time.Duration {
	if s.Config != nil && s.Config.Server.RequestTimeout > 0 {
		return s.Config.Server.RequestTimeout
	}
	return defaultRequestTimeout
}

func (s *Server) corsAllowedOrigins() []string {
	if s.Config != nil && len(s.Config.Server.CORSOrigins) > 0 {
		return s.Config.Server.CORSOrigins
	}
	return []string{"*"}
}

// ContextTimeoutMiddleware bounds the request context. Handlers see a
// cancelled context once the deadline passes.
func ContextTimeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDMiddleware reuses the caller's X-Request-Id or assigns a UUID,
// stores it in the context and echoes it in the response.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(types.WithRequestID(r.Context(), id)))
	})
}

func compress(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}
