package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/jonathan/cold-connect/internal/fetch"
	"github.com/jonathan/cold-connect/internal/llm"
	"github.com/jonathan/cold-connect/internal/outreach"
	"github.com/jonathan/cold-connect/internal/parsing"
	"github.com/jonathan/cold-connect/internal/resume"
	"github.com/jonathan/cold-connect/internal/server/ratelimit"
)

// DefaultMaxConcurrentRuns caps simultaneous /outreach runs when Options leaves it unset.
const DefaultMaxConcurrentRuns = 4

// Options configures a Server.
type Options struct {
	Addr              string
	Client            llm.Client
	Fetcher           fetch.Fetcher     // nil uses a plain HTTP fetcher
	Resume            *resume.Extractor // nil uses the default vocabulary
	RateLimit         *ratelimit.Config // nil loads RATE_LIMIT_* from the environment
	MaxConcurrentRuns int
	Verbose           bool
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	fetcher     fetch.Fetcher
	jobs        *parsing.JobExtractor
	writer      *outreach.Writer
	pipeline    *outreach.Pipeline
	resume      *resume.Extractor
	runs        *semaphore.Weighted
	rateLimiter *ratelimit.Limiter
	verbose     bool
}

// New creates a new server instance
func New(opts Options) (*Server, error) {
	if opts.Client == nil {
		return nil, errors.New("an LLM client is required")
	}
	if opts.Fetcher == nil {
		opts.Fetcher = fetch.NewPageFetcher(false, opts.Verbose)
	}
	if opts.Resume == nil {
		opts.Resume = resume.NewExtractor(resume.Options{})
	}
	if opts.RateLimit == nil {
		opts.RateLimit = ratelimit.LoadConfig()
	}
	if opts.MaxConcurrentRuns <= 0 {
		opts.MaxConcurrentRuns = DefaultMaxConcurrentRuns
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}

	s := &Server{
		fetcher:     opts.Fetcher,
		jobs:        parsing.NewJobExtractor(opts.Client, opts.Verbose),
		writer:      outreach.NewWriter(opts.Client, opts.Verbose),
		resume:      opts.Resume,
		runs:        semaphore.NewWeighted(int64(opts.MaxConcurrentRuns)),
		rateLimiter: ratelimit.NewLimiter(opts.RateLimit),
		verbose:     opts.Verbose,
	}
	s.pipeline = outreach.NewPipeline(s.fetcher, s.jobs, s.writer, opts.Verbose)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /schemas/job-postings", s.handleJobPostingsSchema)
	mux.HandleFunc("POST /normalize", s.handleNormalize)
	mux.HandleFunc("POST /resume", s.handleResume)
	mux.HandleFunc("POST /jobs/extract", s.handleExtractJobs)
	mux.HandleFunc("POST /mail", s.handleMail)
	mux.HandleFunc("POST /outreach", s.handleOutreach)
	mux.HandleFunc("POST /outreach/stream", s.handleOutreachStream)

	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.withCORS(s.withRateLimit(s.withLogging(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // One model call per posting
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.rateLimiter.Stop()

	log.Println("Server stopped")
	return nil
}

// Close releases background resources without serving.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging tags each request with an ID and logs its duration
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		log.Printf("[%s] %s %s %s", r.Method, r.URL.Path, r.RemoteAddr, requestID)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// failure writes err with the status its kind maps to.
func (s *Server) failure(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[SERVER] %d: %v", status, err)
	}
	s.errorResponse(w, status, errorMessage(err))
}

// extractClientID uses the IP address from RemoteAddr.
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
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		if seconds < 1 {
			seconds = 1
		}
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
