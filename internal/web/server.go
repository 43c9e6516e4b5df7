// Package web provides the HTTP server and handlers for the CRM import API.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dealflowhq/dealflow/internal/config"
	"github.com/dealflowhq/dealflow/internal/importer"
	mw "github.com/dealflowhq/dealflow/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Server is the HTTP server for the CRM import application.
type Server struct {
	service *importer.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
	auth    func(http.Handler) http.Handler
}

// NewServer creates a new Server instance.
func NewServer(service *importer.Service, cfg *config.Config) (*Server, error) {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	if err := s.setupMiddleware(); err != nil {
		return nil, err
	}
	s.setupRoutes()
	return s, nil
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() error {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	s.router.Use(securityHeaders)

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(limiter.middleware)
	}

	actors, err := s.cfg.Security.APIKeyActors()
	if err != nil {
		return err
	}
	authCfg := mw.AuthConfig{
		Require: s.cfg.Security.RequireAPIKey,
		Actors:  actors,
	}
	if s.cfg.Security.DevActorID != "" {
		devActor, err := uuid.Parse(s.cfg.Security.DevActorID)
		if err != nil {
			return fmt.Errorf("invalid DEV_ACTOR_ID: %w", err)
		}
		authCfg.DevActor = devActor
	}
	s.auth = mw.APIKeyAuth(authCfg)

	return nil
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Liveness probe, outside auth
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.auth)

		// Entity catalog
		r.Get("/entities", s.handleListEntities)

		// Template download
		r.Get("/template/{kind}", s.handleDownloadTemplate)

		// Preview analysis
		r.Post("/preview/{kind}", s.handlePreview)

		// Import operations
		r.Post("/import/{kind}", s.handleImport)
		r.Get("/import/{importID}/progress", s.handleImportProgress)
		r.Get("/import/{importID}/result", s.handleImportResult)
		r.Post("/import/{importID}/cancel", s.handleCancelImport)

		// Import history
		r.Get("/history/{kind}", s.handleImportHistory)

		// Data export
		r.Get("/export/{kind}.csv", s.handleExportCSV)
		r.Get("/export/{kind}.xlsx", s.handleExportXLSX)

		// Form drafts
		r.Get("/drafts/{key}", s.handleGetDraft)
		r.Put("/drafts/{key}", s.handleSaveDraft)
		r.Delete("/drafts/{key}", s.handleDeleteDraft)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout, // 0 for SSE
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// rateLimiter implements a simple token bucket rate limiter per IP.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int           // requests per window
	window   time.Duration // time window
}

type visitor struct {
	tokens    int
	lastReset time.Time
}

// newRateLimiter creates a rate limiter with the specified rate per window.
func newRateLimiter(rate int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
	}
	go rl.cleanup()
	return rl
}

// cleanup removes stale visitor entries every minute.
func (rl *rateLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)
		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// allow checks if the request should be allowed and consumes a token if so.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		rl.visitors[ip] = &visitor{
			tokens:    rl.rate - 1,
			lastReset: time.Now(),
		}
		return true
	}

	if time.Since(v.lastReset) > rl.window {
		v.tokens = rl.rate - 1
		v.lastReset = time.Now()
		return true
	}

	if v.tokens <= 0 {
		return false
	}

	v.tokens--
	return true
}

// middleware returns an HTTP middleware that rate limits by IP.
// RemoteAddr has already been normalized by TrustedRealIP.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(r.RemoteAddr) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}
