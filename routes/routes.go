package routes

import (
	_ "embed"
	"net/http"
	"time"

	"github.com/courtside-app/backend/handlers"
	"github.com/courtside-app/backend/middleware"
	"github.com/courtside-app/backend/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed openapi.json
var openAPIDoc []byte

type RouterConfig struct {
	JWTSecret           []byte
	RateLimitStore      middleware.RateLimitStore
	RateLimitMax        int
	RateLimitWindow     time.Duration
	RateLimitTrustProxy bool
}

func SetupRoutes(
	router *chi.Mux,
	cfg RouterConfig,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	bracketHandler *handlers.BracketHandler,
	commentHandler *handlers.CommentHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.RateLimitStore != nil && cfg.RateLimitMax > 0 {
		router.Use(middleware.RateLimit(cfg.RateLimitStore, cfg.RateLimitMax, cfg.RateLimitWindow, cfg.RateLimitTrustProxy))
	}

	authenticate := middleware.Authenticate(cfg.JWTSecret)
	organizerOnly := middleware.Authorize(models.RoleOrganizer, models.RoleAdmin)

	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(openAPIDoc)
	})
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	router.Post("/auth/register", authHandler.RegisterHandler)
	router.Post("/auth/login", authHandler.LoginHandler)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListTournamentsHandler)
		r.Get("/{tournamentID}", tournamentHandler.GetTournamentHandler)
		r.Get("/{tournamentID}/registrations", tournamentHandler.ListRegistrationsHandler)

		r.Get("/{tournamentID}/bracket", bracketHandler.GetBracketSummaryHandler)
		r.Get("/{tournamentID}/bracket/rounds/{roundNumber}", bracketHandler.GetRoundHandler)
		r.Get("/{tournamentID}/bracket/rounds/{roundNumber}/can-advance", bracketHandler.CanAdvanceHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(organizerOnly)

			r.Post("/", tournamentHandler.CreateTournamentHandler)
			r.Patch("/{tournamentID}/status", tournamentHandler.UpdateTournamentStatusHandler)
			r.Post("/{tournamentID}/logo", tournamentHandler.UploadLogoHandler)
			r.Post("/{tournamentID}/disqualifications", bracketHandler.DisqualifyPlayerHandler)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}/comments", commentHandler.ListCommentsHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/{matchID}/comments", commentHandler.AddCommentHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/{matchID}/result", bracketHandler.SubmitResultHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(organizerOnly)
			r.Post("/{matchID}/result/manual", bracketHandler.SubmitResultManuallyHandler)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
