package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"mealcall-app-go/internal/config"
	"mealcall-app-go/internal/transport/httpserver/handler"
	authmw "mealcall-app-go/internal/transport/httpserver/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, tokens authmw.TokenVerifier) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.HTTP.AllowedOrigins))

	r.Get("/health", handlers.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/families", handlers.CreateFamily)
		r.Post("/families/join", handlers.JoinFamily)
		r.Get("/invites/validate", handlers.ValidateInvite)
		r.Post("/auth/login", handlers.Login)
		r.Post("/auth/refresh", handlers.Refresh)

		auth := authmw.NewJWTAuth(tokens)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/families/me", handlers.GetMyFamily)
			r.Get("/families/me/members", handlers.ListMembers)
			r.Post("/families/me/invite-links", handlers.CreateInviteLink)

			r.Get("/menu-items", handlers.ListMenuItems)
			r.Post("/menu-items", handlers.CreateMenuItem)

			r.Post("/meal-calls", handlers.CreateMealCall)
			r.Get("/meal-calls", handlers.ListMealCalls)
			r.Get("/meal-calls/active", handlers.ActiveMealCall)
			r.Get("/meal-calls/{id}", handlers.GetMealCall)
			r.Post("/meal-calls/{id}/responses", handlers.RespondToMealCall)
			r.Post("/meal-calls/{id}/remind", handlers.RemindMealCall)
			r.Post("/meal-calls/{id}/complete", handlers.CompleteMealCall)
			r.Post("/meal-calls/{id}/cancel", handlers.CancelMealCall)

			r.Post("/devices", handlers.RegisterDevice)
			r.Delete("/devices", handlers.UnregisterDevice)
		})
	})

	return r
}
