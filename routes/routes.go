package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"

	"github.com/Dosada05/swiss-tournament/handlers"
)

func SetupRoutes(
	router *chi.Mux,
	tournamentHandler *handlers.TournamentHandler,
	webSocketHandler *handlers.WebSocketHandler,
	allowedOrigins []string,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListPlayersHandler)
		r.Post("/", tournamentHandler.RegisterPlayerHandler)
		r.Delete("/", tournamentHandler.DeletePlayersHandler)
		r.Get("/count", tournamentHandler.CountPlayersHandler)
		r.Get("/{playerID}", tournamentHandler.GetPlayerHandler)
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListMatchesHandler)
		r.Post("/", tournamentHandler.ReportMatchHandler)
		r.Delete("/", tournamentHandler.DeleteMatchesHandler)
		r.Get("/count", tournamentHandler.CountMatchesHandler)
	})

	router.Post("/byes", tournamentHandler.ReportByeHandler)
	router.Get("/standings", tournamentHandler.StandingsHandler)
	router.Get("/pairings", tournamentHandler.PairingsHandler)
	router.Delete("/tournament", tournamentHandler.ResetHandler)

	router.Get("/ws", webSocketHandler.ServeWs)
}
