package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/studynotes-lab/grimoire/pkg/usecase"
	"github.com/studynotes-lab/grimoire/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.NoteUseCase
}

type Options func(*Server)

func New(uc *usecase.NoteUseCase, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api/notes", func(r chi.Router) {
		r.Post("/", s.handleGenerateNote)
		r.Get("/", s.handleListNotes)

		r.Route("/{noteID}", func(r chi.Router) {
			r.Get("/", s.handleGetNote)
			r.Delete("/", s.handleDeleteNote)
			r.Get("/export", s.handleExportNote)

			r.Put("/sections", s.handleReorderSections)
			r.Route("/sections/{kind}", func(r chi.Router) {
				r.Put("/", s.handleUpdateSection)
				r.Post("/regenerate", s.handleRegenerateSection)
			})

			r.Post("/diagrams/{diagramID}/regenerate", s.handleRegenerateDiagram)

			r.Get("/versions", s.handleListVersions)
			r.Post("/versions/{versionID}/restore", s.handleRestoreVersion)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
