package routers

import (
	"github.com/Ainterview-4/Big-Leap/internal/handlers"
	"github.com/Ainterview-4/Big-Leap/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func AuthRoutes(r *chi.Mux, authHandler *handlers.AuthHandler, jwtSecret string) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.RegisterHandler)                   // User registration
		r.Post("/login", authHandler.LoginHandler)                         // User login
		r.Post("/reset-password", authHandler.RequestResetHandler)         // Mail a reset token
		r.Post("/reset-password/confirm", authHandler.ConfirmResetHandler) // Set a new password
	})
	r.With(middleware.RequireAuth(jwtSecret)).Get("/api/me", authHandler.MeHandler) // Current user
}
