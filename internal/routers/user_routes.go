package routers

import (
	"github.com/Ainterview-4/Big-Leap/internal/handlers"
	"github.com/Ainterview-4/Big-Leap/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func UserRoutes(r *chi.Mux, userHandler *handlers.UserHandler, jwtSecret string) {
	r.Route("/api/user", func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtSecret))
		r.Get("/profile", userHandler.GetProfileHandler)
		r.Patch("/profile", userHandler.UpdateProfileHandler)
		r.Patch("/password", userHandler.ChangePasswordHandler)
	})
}
