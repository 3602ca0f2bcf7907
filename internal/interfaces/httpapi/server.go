package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"pagesummarizer/internal/application"
	"pagesummarizer/internal/domain/entity"
)

// Service is the application surface the API exposes.
type Service interface {
	SummarizePage(ctx context.Context, pageURL string) entity.SummarizeResponse
	Extract(ctx context.Context) (*application.Extraction, error)
	Navigate(ctx context.Context, pageURL string) (string, error)
	Save(ctx context.Context, pageURL string, resp entity.SummarizeResponse) (*entity.SavedSummary, error)
	Saved(ctx context.Context) ([]*entity.SavedSummary, error)
}

// Server serves the summarization API over HTTP.
type Server struct {
	service   Service
	logger    *logrus.Logger
	limiter   *rate.Limiter
	server    *http.Server
	startTime time.Time
}

type ServerOption func(*Server)

// NewServer builds a server listening on addr. Summarize requests are not
// rate limited unless WithRateLimit is given.
func NewServer(addr string, service Service, opts ...ServerOption) *Server {
	s := &Server{
		service:   service,
		logger:    logrus.StandardLogger(),
		startTime: time.Now(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRateLimit limits summarize requests to requestsPerMinute with the given
// burst. A non-positive rate disables limiting.
func WithRateLimit(requestsPerMinute, burst int) ServerOption {
	return func(s *Server) {
		if requestsPerMinute <= 0 {
			s.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(requestsPerMinute)/60, burst)
	}
}

func (s *Server) Start() error {
	s.logger.WithField("addr", s.server.Addr).Info("Starting server")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// Handler returns the routed handler wrapped in recovery, request ID and
// logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /api/summarize", s.rateLimited(http.HandlerFunc(s.handleSummarize)))
	mux.HandleFunc("POST /api/navigate", s.handleNavigate)
	mux.HandleFunc("GET /api/extract", s.handleExtract)
	mux.HandleFunc("POST /api/summaries", s.handleSaveSummary)
	mux.HandleFunc("GET /api/summaries", s.handleListSummaries)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return chain(mux,
		recovery(s.logger),
		requestID(),
		logging(s.logger),
	)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startTime).String(),
	})
}
