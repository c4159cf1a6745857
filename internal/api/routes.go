package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)
	if h.metrics != nil {
		r.Use(h.metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteProblem(w, r, http.StatusNotFound, "Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteProblem(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Get("/entries", h.ListEntries)
		r.Get("/entries/{date}", h.GetEntry)
		r.Patch("/entries/{date}", h.PatchEntry)
		r.Put("/entries/{date}/{section}", h.PutSection)

		r.Get("/goals", h.GetGoals)
		r.Put("/goals", h.PutGoals)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/day/{date}", h.DayReport)
			r.Get("/week", h.WeekReport)
			r.Get("/month", h.MonthReport)
			r.Get("/range", h.RangeReport)
		})
	})

	return r
}
