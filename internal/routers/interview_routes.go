package routers

import (
	"github.com/Ainterview-4/Big-Leap/internal/handlers"
	"github.com/Ainterview-4/Big-Leap/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func InterviewRoutes(r *chi.Mux, interviewHandler *handlers.InterviewHandler, jwtSecret string) {
	r.Route("/api/interviews", func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtSecret))
		r.Post("/", interviewHandler.CreateHandler)
		r.Get("/", interviewHandler.ListHandler)
		r.Get("/{interviewId}", interviewHandler.GetHandler)
		r.Post("/{interviewId}/sessions", interviewHandler.StartSessionHandler)

		r.Get("/sessions/{sessionId}", interviewHandler.GetSessionHandler)
		r.Post("/sessions/{sessionId}/answer", interviewHandler.AnswerHandler)
		r.Post("/sessions/{sessionId}/evaluate", interviewHandler.EvaluateHandler)
	})
}
