package app

import (
	"net/http"

	"todoService/internal/handlers"
	"todoService/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(h *handlers.TodoHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.StripSlashes)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions, http.MethodHead,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}))

	r.Get("/health", h.HealthCheck)     // GET /health
	r.Get("/health/ready", h.Readiness) // GET /health/ready

	r.Route("/api/v1/todos", func(r chi.Router) {
		r.Get("/", h.ListTodos)   // GET /api/v1/todos?skip=&limit=
		r.Post("/", h.CreateTodo) // POST /api/v1/todos

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetTodo)       // GET /api/v1/todos/{id}
			r.Put("/", h.UpdateTodo)    // PUT /api/v1/todos/{id}
			r.Delete("/", h.DeleteTodo) // DELETE /api/v1/todos/{id}
		})
	})

	return r
}
