// Package http exposes the import, ledger and profile operations as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"pulse/internal/core"
	"pulse/internal/identity"
	"pulse/internal/ingest"
	"pulse/internal/log"
	"pulse/internal/middleware/ratelimit"
	"pulse/internal/middleware/security"
	"pulse/internal/middleware/trace"
)

const (
	DefaultCSVMaxBytes int64 = 5 << 20
	DefaultPDFMaxBytes int64 = 10 << 20
)

type Importer interface {
	Import(ctx context.Context, owner string, source core.ImportSource, data []byte) (ingest.Report, error)
}

type Ledger interface {
	List(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error)
	Summary(ctx context.Context, f core.TransactionFilter) (core.Summary, error)
}

type Profiles interface {
	Get(ctx context.Context, id string) (core.User, error)
	UpdateName(ctx context.Context, id, name string) (core.User, error)
	Delete(ctx context.Context, id string) error
}

// Options configures NewServer. Zero values fall back to defaults.
type Options struct {
	Addr               string
	CSVMaxBytes        int64
	PDFMaxBytes        int64
	RateLimitPerMinute int
	Location           *time.Location
	Logger             *log.Logger
	Verifier           *identity.Verifier
	// Users provisions the user row on first authenticated request.
	Users identity.Provisioner
	// Ready reports whether dependencies (the database) are reachable.
	Ready func(ctx context.Context) error
}

type Server struct {
	http.Server
	imports  Importer
	ledger   Ledger
	profiles Profiles

	ready       func(ctx context.Context) error
	csvMaxBytes int64
	pdfMaxBytes int64
	loc         *time.Location
	logger      *log.Logger

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware
	startedAt        time.Time
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(opts Options, imports Importer, ledger Ledger, profiles Profiles) *Server {
	if opts.CSVMaxBytes <= 0 {
		opts.CSVMaxBytes = DefaultCSVMaxBytes
	}
	if opts.PDFMaxBytes <= 0 {
		opts.PDFMaxBytes = DefaultPDFMaxBytes
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	logger := opts.Logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		imports:          imports,
		ledger:           ledger,
		profiles:         profiles,
		ready:            opts.Ready,
		csvMaxBytes:      opts.CSVMaxBytes,
		pdfMaxBytes:      opts.PDFMaxBytes,
		loc:              opts.Location,
		logger:           logger,
		rateLimiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		securityDetector: security.NewDetector(),
		startedAt:        time.Now(),
	}
	s.traceMiddleware = trace.NewMiddleware(s.securityDetector.ExtractClientIP, logger)

	auth := identity.Middleware(opts.Verifier, opts.Users, writeAuthError)
	protected := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.Handle("GET /api/aa/fetch", protected(s.handleFetchMock))
	mux.Handle("POST /api/aa/fetch", protected(s.handleFetchMock))
	mux.Handle("POST /api/transactions/upload", protected(s.handleUploadCSV))
	mux.Handle("POST /api/pdf/upload", protected(s.handleUploadPDF))
	mux.Handle("GET /api/transactions", protected(s.handleListTransactions))
	mux.Handle("GET /api/transactions/summary", protected(s.handleSummary))
	mux.Handle("GET /api/users/profile", protected(s.handleGetProfile))
	mux.Handle("PATCH /api/users/profile", protected(s.handleUpdateProfile))
	mux.Handle("DELETE /api/users/profile", protected(s.handleDeleteProfile))

	var h http.Handler = mux
	h = s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, writeRateLimited)(h)
	h = s.securityDetector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = log.Middleware(logger, trace.RequestID)(h)
	h = s.traceMiddleware.Middleware(h)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown stops accepting requests and the rate limiter's cleanup loop.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	})
}

// handleReady reports 503 when the database cannot be reached.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{}
	status, code := "ready", http.StatusOK
	if s.ready != nil {
		if err := s.ready(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(ctx, "Readiness check failed", log.FieldError, err)
			checks["database"] = "failed"
			status, code = "not_ready", http.StatusServiceUnavailable
		} else {
			checks["database"] = "ok"
		}
	}
	checks["rate_limiter"] = "ok"

	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}
