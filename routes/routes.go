package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hooplab/courtside/handlers"
	"github.com/hooplab/courtside/middleware"
	"github.com/hooplab/courtside/models"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth          *handlers.AuthHandler
	Tournaments   *handlers.TournamentHandler
	Leaders       *handlers.LeadersHandler
	Players       *handlers.PlayerHandler
	PersonalGames *handlers.PersonalGameHandler
	StatEvents    *handlers.StatEventHandler
	Live          *handlers.LiveHandler
}

// Roles allowed to record live stat events.
var statRecorderRoles = []models.UserRole{models.RoleStatAdmin, models.RoleOrganizer, models.RoleAdmin}

func InitRoutes(h Handlers, jwtSecret string, allowedOrigins []string) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate([]byte(jwtSecret))

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	router.Post("/auth/register", h.Auth.Register)
	router.Post("/auth/login", h.Auth.Login)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournaments.List)
		r.Get("/{tournamentID}", h.Tournaments.Get)
		r.Get("/{tournamentID}/games", h.Tournaments.ListGames)
		r.Get("/{tournamentID}/teams", h.Tournaments.ListTeams)
		r.Get("/{tournamentID}/leaders", h.Leaders.GetLeaders)
		r.Get("/{tournamentID}/players/search", h.Players.SearchRoster)
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/{playerID}", h.Players.GetPlayer)
		r.Get("/{playerID}/games", h.Players.GetGameSummaries)
		r.Get("/{playerID}/personal-games", h.PersonalGames.ListPublic)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/{playerID}/photo", h.Players.UploadPhoto)
		})
	})

	router.Get("/custom-players/{playerID}/games", h.Players.GetCustomPlayerGameSummaries)

	router.Route("/games/{gameID}", func(r chi.Router) {
		r.Get("/events", h.StatEvents.ListByGame)
		r.Get("/live", h.Live.Subscribe)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireRole(statRecorderRoles...))
			r.Post("/events", h.StatEvents.Record)
		})
	})

	router.Route("/me/personal-games", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/", h.PersonalGames.ListMine)
		r.Post("/", h.PersonalGames.Create)
		r.Put("/{gameID}", h.PersonalGames.Update)
		r.Delete("/{gameID}", h.PersonalGames.Delete)
	})

	return router
}
