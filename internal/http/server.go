// Package http exposes the dashboard API over JSON plus the embedded
// frontend shell.
package http

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/epalmerini/cardspend/internal/services"
	"github.com/epalmerini/cardspend/internal/store"
	appweb "github.com/epalmerini/cardspend/web"
)

type contextKey string

const requestIDKey contextKey = "request_id"

type Server struct {
	http.Server
	store       *store.Store
	refresher   *services.RefreshService
	rateLimiter *rateLimiter

	configured  bool
	environment string

	shutdownOnce sync.Once
	now          func() time.Time
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, st *store.Store, refresher *services.RefreshService, configured bool, environment string) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:       st,
		refresher:   refresher,
		rateLimiter: newRateLimiter(),
		configured:  configured,
		environment: environment,
		now:         time.Now,
	}

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
		mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/" {
				http.NotFound(w, r)
				return
			}
			http.ServeFileFS(w, r, sub, "index.html")
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/api/transactions", s.withMiddleware(s.handleTransactions))
	mux.HandleFunc("/api/analytics", s.withMiddleware(s.handleAnalytics))
	mux.HandleFunc("/api/resync", s.withMiddleware(s.handleResync))
	mux.HandleFunc("/api/settings", s.withMiddleware(s.handleSettings))
	mux.HandleFunc("/api/health", s.withMiddleware(s.handleHealth))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withMiddleware adds security headers, rate limiting, and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ip := clientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", ip,
			"user_agent", r.Header.Get("User-Agent"))

		// Mutating endpoints hit the upstream API, so only those are limited
		if r.Method == http.MethodPost && !s.rateLimiter.allow(ip) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", ip, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", ip)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
