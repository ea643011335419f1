package routers

import (
	"github.com/Ainterview-4/Big-Leap/internal/handlers"
	"github.com/Ainterview-4/Big-Leap/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func CVRoutes(r *chi.Mux, cvHandler *handlers.CVHandler, jwtSecret string) {
	r.Route("/api/cv", func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtSecret))
		r.Post("/upload", cvHandler.UploadHandler)
		r.Get("/", cvHandler.ListHandler)
		r.Post("/optimize", cvHandler.OptimizeHandler)
		r.Get("/{cvId}", cvHandler.GetHandler)
	})
}
