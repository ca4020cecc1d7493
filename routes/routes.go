package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/pickup-scoreboard/handlers"
	"github.com/Dosada05/pickup-scoreboard/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Games   *handlers.GameHandler
	Matches *handlers.MatchHandler
	Results *handlers.ResultsHandler
	Live    *handlers.LiveHandler
}

type Options struct {
	AllowedOrigins []string
	LicenseSecret  []byte
	Logger         *slog.Logger
}

func SetupRoutes(router *chi.Mux, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.LicenseHeader},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.License(opts.LicenseSecret, opts.Logger))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/ws/games/{gameID}", h.Live.ServeWs)

	router.Route("/games", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(15 * time.Second))

		r.Get("/", h.Games.ListGames)
		r.Post("/", h.Games.CreateGame)

		r.Route("/{gameID}", func(r chi.Router) {
			r.Get("/", h.Games.GetGame)
			r.Put("/", h.Games.UpdateGame)
			r.Delete("/", h.Games.DeleteGame)

			r.Get("/board", h.Matches.GetBoard)
			r.Post("/start", h.Matches.ToggleStart)
			r.Post("/finish", h.Matches.ConfirmFinish)
			r.Post("/change-team", h.Matches.ChangeTeam)
			r.Post("/swap-sides", h.Matches.SwapSides)
			r.Post("/stats", h.Matches.RecordStat)
			r.Post("/own-goal", h.Matches.OwnGoal)
			r.Put("/players/{playerID}/stats", h.Matches.SetPlayerStat)
			r.Put("/score", h.Matches.SetScore)
			r.Post("/stay", h.Matches.ChooseStayingTeam)
			r.Post("/clear", h.Matches.ClearResults)
			r.Get("/best-players", h.Matches.BestPlayers)
			r.Post("/timer", h.Matches.ToggleTimer)
			r.Post("/timer/save", h.Matches.SaveTimer)
			r.Get("/effect", h.Matches.GetEffect)
			r.Post("/effect/ack", h.Matches.AckEffect)

			r.Route("/results", func(r chi.Router) {
				r.Get("/", h.Results.GetResults)
				r.Delete("/", h.Results.ClearHistory)
				r.Put("/players/{playerID}/stats", h.Results.SetPlayerStat)
				r.Post("/export", h.Results.ExportResults)
				r.Delete("/export", h.Results.DeleteExport)
			})
		})
	})
}
