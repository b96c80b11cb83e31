package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"comida/internal/cache"
	"comida/internal/log"
	"comida/internal/middleware/trace"
	"comida/internal/tracker"
)

// Options tune a Server. The zero value is usable.
type Options struct {
	Logger *log.Logger

	// WeekCacheTTL bounds how long a computed week table is reused.
	WeekCacheTTL time.Duration

	// Ready reports whether the storage backend can serve requests.
	Ready func(ctx context.Context) error

	// Now overrides the clock used for the week table.
	Now func() time.Time
}

// Server exposes a tracker session as a JSON API.
type Server struct {
	http.Server
	session     *tracker.Session
	logger      *log.Logger
	weeks       *cache.WeekTables
	caches      *cache.Manager
	rateLimiter *rateLimiter
	security    *securityMetrics
	tracer      *trace.Middleware
	ready       func(ctx context.Context) error
	now         func() time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, session *tracker.Session, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	ttl := opts.WeekCacheTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Server{
		session:     session,
		logger:      logger.WithComponent(log.ComponentHTTP),
		weeks:       cache.NewWeekTables(ttl),
		caches:      cache.NewManager(logger),
		rateLimiter: newRateLimiter(),
		security:    &securityMetrics{},
		tracer:      trace.NewMiddleware(logger, extractClientIP),
		ready:       opts.Ready,
		now:         now,
	}
	s.caches.Register(s.weeks)
	s.caches.StartCleanup(time.Hour)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/weeks", s.handleListWeeks)
	mux.HandleFunc("GET /api/weeks/{week}", s.handleGetWeek)
	mux.HandleFunc("PUT /api/selected-week", s.handleSelectWeek)
	mux.HandleFunc("PUT /api/weeks/{week}/days/{day}/meals/{meal}", s.handleUpdateMeal)
	mux.HandleFunc("POST /api/weeks/{week}/days/{day}/meals/{meal}/out-of-place", s.handleToggleMeal)
	mux.HandleFunc("POST /api/weeks/{week}/days/{day}/gym", s.handleToggleGym)
	mux.HandleFunc("PUT /api/weeks/{week}/weight", s.handleUpdateWeight)

	s.Addr = addr
	s.Handler = s.tracer.Middleware(s.withSecurity(mux))
	s.ReadHeaderTimeout = 5 * time.Second
	s.ReadTimeout = 10 * time.Second
	s.WriteTimeout = 10 * time.Second
	s.IdleTimeout = 60 * time.Second

	return s
}

// withSecurity adds security headers and rate limits mutating requests.
func (s *Server) withSecurity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := extractClientIP(r)

		if detectSuspiciousRequest(r, s.security) {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Suspicious request",
				log.FieldClientIP, clientIP, log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
		}

		if r.Method != http.MethodGet && r.Method != http.MethodHead && !s.rateLimiter.allow(clientIP, s.security) {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
				log.FieldClientIP, clientIP, log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			TooManyRequestsError("rate limit exceeded, try again later").Write(w)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store")

		next.ServeHTTP(w, r)
	})
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// Metrics returns request counters collected by the tracing middleware.
func (s *Server) Metrics() trace.Metrics {
	return s.tracer.GetMetrics()
}
