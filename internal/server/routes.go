package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// Handler returns the HTTP handler with all routes under /api/v1.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	if s.cfg.MaxRequests > 0 {
		router.Use(httprate.LimitByIP(s.cfg.MaxRequests, time.Minute))
	}
	router.Use(middleware.Recoverer)
	router.Use(s.requestLogger)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/schedule", s.getSchedule)
		r.Get("/schedule.svg", s.getSVG)
		r.Get("/schedule.png", s.getPNG)

		r.Route("/slots/{index}", func(r chi.Router) {
			r.Post("/retime", s.retime)
			r.Post("/start", s.moveStart)
			r.Post("/insert", s.insert)
			r.Delete("/", s.deleteSlot)
			r.Put("/label", s.rename)
			r.Put("/color", s.recolor)
		})

		r.Get("/templates", s.listTemplates)
		r.Post("/templates/{name}", s.loadTemplate)

		r.Post("/undo", s.undo)
		r.Post("/redo", s.redo)

		r.Route("/drag", func(r chi.Router) {
			r.Post("/begin", s.dragBegin)
			r.Post("/move", s.dragMove)
			r.Post("/end", s.dragEnd)
		})
	})
	return router
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr))
	})
}
