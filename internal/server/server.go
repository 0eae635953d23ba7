package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/repcounter/internal/session"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	tracker       *session.Tracker
	defaultWeight float64
	log           *slog.Logger
	whois         whoIser
	router        chi.Router
}

// New creates a new Server with all routes configured. defaultWeightKg is
// used when a start request omits weight_kg.
func New(tracker *session.Tracker, defaultWeightKg float64, log *slog.Logger) *Server {
	s := &Server{
		tracker:       tracker,
		defaultWeight: defaultWeightKg,
		log:           log,
		router:        chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale enables identity lookup through the tailnet. Without it every
// request is attributed to the local dev user.
func (s *Server) SetTailscale(lc whoIser) {
	s.whois = lc
}

// SetMCP mounts an MCP transport handler at path.
func (s *Server) SetMCP(path string, h http.Handler) {
	s.router.Handle(path, h)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identity)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/api/v1/me", s.handleMe)

	s.router.Route("/api/v1/session", func(r chi.Router) {
		r.Get("/", s.handleGetSession)
		r.Post("/start", s.handleStartSession)
		r.Post("/frame", s.handleFrame)
		r.Post("/reset", s.handleResetSession)
		r.Post("/stop", s.handleStopSession)
	})

	s.router.Route("/api/v1/history", func(r chi.Router) {
		r.Get("/", s.handleListHistory)
		r.Delete("/", s.handleClearHistory)
		r.Get("/summary", s.handleHistorySummary)
		r.Get("/{id}", s.handleGetRecord)
	})
}

// identity picks Tailscale or dev identity per request, so SetTailscale may
// be called after New.
func (s *Server) identity(next http.Handler) http.Handler {
	dev := DevIdentity(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.whois != nil {
			TailscaleIdentity(s.whois, s.log)(next).ServeHTTP(w, r)
			return
		}
		dev.ServeHTTP(w, r)
	})
}
