package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/tcs-suzini/club-backend/handlers"
	"github.com/tcs-suzini/club-backend/middleware"
)

// Deps carries everything the router needs, wired in cmd/main.go.
type Deps struct {
	Auth         *handlers.AuthHandler
	Users        *handlers.UserHandler
	Tournaments  *handlers.TournamentHandler
	Matches      *handlers.MatchHandler
	News         *handlers.NewsHandler
	Trainings    *handlers.TrainingHandler
	Referent     *handlers.ReferentHandler
	Achievements *handlers.AchievementHandler
	Health       *handlers.HealthHandler
	WebSocket    *handlers.WebSocketHandler

	Authenticator *middleware.Authenticator
	CORSOrigins   []string
}

func InitRoutes(deps Deps) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(chiMiddleware.Timeout(30 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authLimiter := middleware.NewRateLimiter(rate.Every(time.Minute/10), 10)

	router.Route("/api", func(api chi.Router) {
		api.Get("/health", deps.Health.Check)

		// Authentication endpoints are rate limited per client IP.
		api.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Limit)

			r.Post("/register", deps.Auth.Register)
			r.Post("/login", deps.Auth.Login)
			r.Post("/forgot-password", deps.Auth.ForgotPassword)
			r.Post("/reset-password", deps.Auth.ResetPassword)
			r.Post("/register-referent", deps.Auth.RegisterReferent)
			r.Post("/verify-referent", deps.Auth.VerifyReferent)
		})

		// Public reads.
		api.Get("/tournaments", deps.Tournaments.List)
		api.Get("/matches", deps.Matches.List)
		api.Get("/news", deps.News.List)
		api.Get("/training-schedule", deps.Trainings.List)
		api.Get("/achievements", deps.Achievements.ListCatalog)
		api.Get("/rankings", deps.Users.Rankings)

		// Authenticated members.
		api.Group(func(r chi.Router) {
			r.Use(deps.Authenticator.Authenticate)

			r.Get("/users/me", deps.Users.Me)
			r.Patch("/users/me", deps.Users.UpdateMe)
			r.Delete("/users/me", deps.Users.DeleteMe)

			r.Post("/tournaments/{id}/register", deps.Tournaments.Register)
		})

		// Content management, open to admins and referents.
		api.Group(func(r chi.Router) {
			r.Use(deps.Authenticator.Authenticate)
			r.Use(middleware.RequirePrivileged)

			r.Post("/tournaments", deps.Tournaments.Create)
			r.Patch("/tournaments/{id}", deps.Tournaments.Update)

			r.Post("/matches", deps.Matches.Create)
			r.Patch("/matches/{id}", deps.Matches.Update)
			r.Delete("/matches/{id}", deps.Matches.Delete)

			r.Post("/news", deps.News.Create)
			r.Patch("/news/{id}", deps.News.Update)
			r.Delete("/news/{id}", deps.News.Delete)
			r.Post("/news/{id}/image", deps.News.UploadImage)
		})

		// Referent administration.
		api.Group(func(r chi.Router) {
			r.Use(deps.Authenticator.Authenticate)
			r.Use(middleware.RequireReferent)

			r.Post("/training-schedule", deps.Trainings.Create)
			r.Put("/training-schedule/{id}", deps.Trainings.Replace)
			r.Delete("/training-schedule/{id}", deps.Trainings.Delete)

			r.Route("/referent", func(ref chi.Router) {
				ref.Get("/users", deps.Referent.ListMembers)
				ref.Patch("/users/{id}", deps.Referent.UpdateMember)
				ref.Patch("/users/{id}/toggle-license", deps.Referent.ToggleLicense)
				ref.Delete("/users/{id}", deps.Referent.DeleteMember)
			})
		})
	})

	router.Get("/ws/tournaments/{id}", deps.WebSocket.TournamentFeed)

	return router
}
