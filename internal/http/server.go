package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"financecontroller/internal/auth"
	"financecontroller/internal/core"
	"financecontroller/internal/log"
	"financecontroller/internal/metrics"
	"financecontroller/internal/middleware/ratelimit"
	"financecontroller/internal/middleware/security"
	"financecontroller/internal/middleware/trace"
	"financecontroller/internal/services"
	"financecontroller/internal/storage"
)

// SummaryService is what the handlers need from services.SummaryService.
type SummaryService interface {
	Dashboard(ctx context.Context) (services.Dashboard, error)
	Resume(ctx context.Context, year, month int) (services.Resume, error)
	RegisterTransaction(ctx context.Context, in services.RegisterInput) (core.Transaction, error)
	Categories() []core.CategoryDescriptor
}

// Dependencies are the collaborators wired into the server.
type Dependencies struct {
	Service  SummaryService
	Sessions auth.Provider
	// Ready is checked by /readyz when set.
	Ready   storage.Pinger
	Metrics *metrics.Collector
	Logger  *log.Logger
	// Now defaults to time.Now; it picks the month shown when none is asked for.
	Now      func() time.Time
	Location *time.Location
}

// Options tune the middleware stack.
type Options struct {
	RateLimit      ratelimit.Config
	RequestTimeout time.Duration
	TrustedProxies []string
	Headers        security.HeadersConfig
}

// DefaultOptions returns the production middleware settings.
func DefaultOptions() Options {
	return Options{
		RateLimit:      ratelimit.DefaultConfig(),
		RequestTimeout: 10 * time.Second,
		Headers:        security.DefaultHeadersConfig(),
	}
}

type Server struct {
	http.Server
	service  SummaryService
	sessions auth.Provider
	ready    storage.Pinger
	metrics  *metrics.Collector
	logger   *log.Logger
	now      func() time.Time
	loc      *time.Location
	started  time.Time

	detector *security.Detector
	limiter  *ratelimit.Limiter
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, deps Dependencies, opts Options) (*Server, error) {
	if deps.Service == nil {
		return nil, fmt.Errorf("summary service is required")
	}
	if deps.Sessions == nil {
		deps.Sessions = auth.NewStubProvider(auth.User{})
	}
	if deps.Logger == nil {
		deps.Logger = log.New(log.DefaultConfig())
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultOptions().RequestTimeout
	}

	detector := security.NewDetector()
	for _, cidr := range opts.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			return nil, err
		}
	}
	if opts.RateLimit.OnLimit == nil {
		opts.RateLimit.OnLimit = deps.Metrics.RecordRateLimited
	}

	s := &Server{
		service:  deps.Service,
		sessions: deps.Sessions,
		ready:    deps.Ready,
		metrics:  deps.Metrics,
		logger:   deps.Logger.WithComponent(log.ComponentHTTP),
		now:      deps.Now,
		loc:      deps.Location,
		started:  time.Now(),
		detector: detector,
		limiter:  ratelimit.NewLimiter(opts.RateLimit),
		tracer:   trace.NewMiddleware(detector.ExtractClientIP, deps.Metrics),
	}

	// Probes and metrics skip rate limiting and sessions.
	mux := http.NewServeMux()
	handle(mux, "GET /healthz", s.handleHealth)
	handle(mux, "GET /readyz", s.handleReady)
	handle(mux, "GET /metrics", s.handleMetrics)

	api := http.NewServeMux()
	handle(api, "GET /api/session", s.handleSession)
	handle(api, "GET /api/dashboard", s.handleDashboard)
	handle(api, "GET /api/resume", s.handleResume)
	handle(api, "POST /api/transactions", s.handleCreateTransaction)
	handle(api, "GET /api/categories", s.handleCategories)

	mux.Handle("/api/", chain(api,
		s.limiter.Middleware(detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
			s.logger.WarnContext(r.Context(), "Rate limit exceeded",
				log.FieldClientIP, detector.ExtractClientIP(r),
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			TooManyRequestsError().Write(w)
		}),
		s.withSession,
		s.withTimeout(opts.RequestTimeout),
	))

	s.Server = http.Server{
		Addr: addr,
		Handler: chain(mux,
			log.Middleware(deps.Logger),
			s.tracer.Middleware,
			log.RequestIDMiddleware(func(r *http.Request) string { return trace.GetRequestID(r.Context()) }),
			detector.Middleware,
			security.NewHeadersMiddleware(opts.Headers).Middleware,
		),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      opts.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		trace.RecordRoute(r)
		h(w, r)
	})
}

// chain wraps h so that the first middleware runs first.
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// withSession resolves the current session and stores it in the request
// context.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Session(r.Context())
		if err != nil {
			s.logger.WarnContext(r.Context(), "Session unavailable", log.FieldError, err.Error())
			UnauthorizedError("no active session").Write(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), sess)))
	})
}

func (s *Server) withTimeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.logger.InfoContext(ctx, "HTTP server shutting down", log.FieldOperation, log.OpShutdown)
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
