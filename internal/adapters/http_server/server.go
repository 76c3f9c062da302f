package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultRequestTimeout = 15 * time.Second

type Server struct{ mux *chi.Mux }

type settings struct {
	timeout time.Duration
	logger  zerolog.Logger
}

type Option func(*settings)

// WithRequestTimeout bounds each request; values <= 0 keep the default.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithLogger(l zerolog.Logger) Option { return func(s *settings) { s.logger = l } }

// New builds the router. Middlewares must be registered before any route.
//
// The API is read-only: HEAD is answered by the GET handlers and any other
// method gets a 405 problem document.
func New(opts ...Option) *Server {
	s := settings{timeout: DefaultRequestTimeout, logger: log.Logger}
	for _, o := range opts {
		o(&s)
	}

	m := chi.NewRouter()
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(Timeout(s.timeout))
	m.Use(Observe(s.logger))
	m.Use(chimw.GetHead)

	m.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, http.StatusNotFound, "Not Found", "no such resource: "+r.URL.Path)
	})
	m.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", "GET, HEAD")
		writeProblem(w, http.StatusMethodNotAllowed, "Method Not Allowed", "the review API is read-only")
	})

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
