package http

import (
	"net/http"

	"github.com/bnema/scribe/internal/adapter/http/middleware"
	"github.com/bnema/scribe/internal/infrastructure/clock"
	"github.com/bnema/scribe/internal/service"
)

type ServerConfig struct {
	Jobs          JobService
	Events        *service.EventBus
	Auth          TokenVerifier
	Clock         clock.Clock
	MaxUploadSize int64
	BehindProxy   bool
	Version       string
}

type Server struct {
	mux        *http.ServeMux
	handlers   *Handlers
	sseHandler *SSEHandler
	auth       TokenVerifier
	version    string
}

func NewServer(cfg ServerConfig) *Server {
	s := &Server{
		mux:        http.NewServeMux(),
		handlers:   NewHandlers(cfg.Jobs, cfg.Clock, cfg.MaxUploadSize, cfg.BehindProxy),
		sseHandler: NewSSEHandler(cfg.Events, cfg.Jobs),
		auth:       cfg.Auth,
		version:    cfg.Version,
	}

	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", Liveness(s.version))

	s.mux.HandleFunc("POST /api/jobs", AuthMiddleware(s.auth, s.handlers.Upload()))
	s.mux.HandleFunc("GET /api/jobs/{id}", AuthMiddleware(s.auth, s.handlers.Status()))
	s.mux.HandleFunc("POST /api/jobs/{id}/process", AuthMiddleware(s.auth, s.handlers.Process()))
	s.mux.HandleFunc("GET /api/jobs/{id}/events", AuthMiddleware(s.auth, s.sseHandler.Events()))

	s.mux.HandleFunc("POST /api/transcribe", AuthMiddleware(s.auth, s.handlers.Transcribe()))
	s.mux.HandleFunc("POST /api/analyze", AuthMiddleware(s.auth, s.handlers.Analyze()))
	s.mux.HandleFunc("GET /api/health/stt", AuthMiddleware(s.auth, s.handlers.Health()))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	middleware.SecurityHeaders(s.mux).ServeHTTP(w, r)
}
