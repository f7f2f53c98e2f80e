// Package server provides the HTTP REST API for the inspection report service.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/sitevision/internal/config"
	"github.com/jonathan/sitevision/internal/llm"
	"github.com/jonathan/sitevision/internal/logging"
	"github.com/jonathan/sitevision/internal/research"
	"github.com/jonathan/sitevision/internal/server/middleware"
	"github.com/jonathan/sitevision/internal/server/ratelimit"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	llm         llm.Client
	lookup      *research.PropertyLookup
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
}

// Config holds server configuration. Store is required; LLM and Lookup
// may be nil, in which case the endpoints that need them return errors.
type Config struct {
	Addr      string
	Store     Store
	LLM       llm.Client
	Lookup    *research.PropertyLookup
	RateLimit *ratelimit.Config
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("server requires a store")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	s := &Server{
		store:  cfg.Store,
		llm:    cfg.LLM,
		lookup: cfg.Lookup,
	}

	rateLimitConfig := cfg.RateLimit
	if rateLimitConfig == nil {
		rateLimitConfig = ratelimit.LoadConfig()
	}
	s.rateLimiter = ratelimit.NewLimiter(rateLimitConfig)

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(cfg.Store, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)

	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for enrichment streams
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler builds the full route table wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Public endpoints
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)

	// Authenticated endpoints
	authed := http.NewServeMux()
	authed.HandleFunc("GET /api/users/me", s.handleGetMe)
	authed.HandleFunc("PUT /api/users/me/password", s.handleUpdatePassword)

	authed.HandleFunc("POST /api/reports", s.handleSaveReport)
	authed.HandleFunc("GET /api/reports", s.handleListReports)
	authed.HandleFunc("GET /api/reports/{id}", s.handleGetReport)
	authed.HandleFunc("DELETE /api/reports/{id}", s.handleDeleteReport)
	authed.HandleFunc("GET /api/reports/{id}/stats", s.handleReportStats)

	authed.HandleFunc("POST /api/analysis/photo", s.handleAnalyzePhoto)
	authed.HandleFunc("POST /api/estimation/cost", s.handleEstimateCost)
	authed.HandleFunc("POST /api/enrichment/defect", s.handleEnrichDefect)
	authed.HandleFunc("POST /api/reports/{id}/enrich", s.handleEnrichReport)
	authed.HandleFunc("GET /api/reports/{id}/enrich/stream", s.handleEnrichReportStream)
	authed.HandleFunc("POST /api/reports/{id}/summary", s.handleReportSummary)
	authed.HandleFunc("POST /api/reports/{id}/plan", s.handleReportPlan)
	authed.HandleFunc("POST /api/compliance/check", s.handleComplianceCheck)
	authed.HandleFunc("GET /api/history", s.handleHistory)
	authed.HandleFunc("POST /api/reports/{id}/export", s.handleExportReport)

	authed.HandleFunc("GET /api/admin/users", s.handleAdminListUsers)

	// Specific public patterns above win over this catch-all, so only
	// the authenticated surface passes through the JWT middleware.
	authMW := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	mux.Handle("/api/", authMW(authed))

	return s.withRecovery(s.withRateLimit(s.withLogging(s.withCORS(mux))))
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logging.Sugar.Infow("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	logging.Sugar.Infow("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	if err := s.store.Close(); err != nil {
		logging.Sugar.Warnw("store close failed", "error", err)
	}
	logging.Sugar.Infow("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path)

		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Sugar.Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}

// withRecovery turns handler panics into 500 responses instead of
// killing the connection.
func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.Sugar.Errorw("handler panic",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
				)
				writeJSON(w, http.StatusInternalServerError, map[string]string{
					"error": "internal server error",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": Version,
	})
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Sugar.Warnw("failed to encode JSON response", "error", err)
	}
}

// writeError maps an error to its HTTP status and writes the JSON body.
// Internal errors are logged in full but reported generically.
func writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logging.Sugar.Errorw("internal error", "error", err)
		message = "internal server error"
	}
	writeJSON(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; deployments behind a proxy
// should terminate X-Forwarded-For there.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	if info.RetryAfter > 0 {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	logging.Sugar.Infow("rate limit exceeded",
		"tier", info.Tier,
		"limit", info.Limit,
		"reset", info.ResetTime.Format(time.RFC3339),
	)

	writeJSON(w, http.StatusTooManyRequests, map[string]any{
		"error":       (&RateLimitError{RetryAfter: info.RetryAfter}).Error(),
		"limit":       info.Limit,
		"remaining":   info.Remaining,
		"reset_at":    info.ResetTime.Format(time.RFC3339),
		"retry_after": int(info.RetryAfter.Seconds()),
	})
}
