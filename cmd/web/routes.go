package main

import (
	"net/http"

	"github.com/AdamBeresnev/op-tournament/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(app.sessions.LoadAndSave)
	r.Use(middleware.LoadAuthenticatedUser(app.sessions, app.userStore))

	// Serve static files
	fileServer := http.FileServer(http.Dir("./static"))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	r.Get("/", app.bracketPage)
	r.Get("/leaderboard", app.leaderboardPage)
	r.Get("/ws", app.hub.ServeWS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/games", app.listGames)
		r.Get("/tournament", app.getTournament)
		r.Get("/tournament/overview", app.getOverview)
		r.Post("/teams", app.registerTeam)
		r.Get("/matches", app.listMatches)
		r.Get("/standings", app.getStandings)
		r.Get("/me", app.getMe)

		r.With(middleware.RequireUser).Post("/matches/{id}/result", app.submitResult)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(app.cfg.IsAdmin))

			r.Post("/bracket", app.generateBracket)
			r.Put("/matches/{id}", app.editMatch)
			r.Put("/start-time", app.setStartTime)
			r.Post("/reset", app.resetTournament)
			r.Get("/export", app.exportTournament)
		})
	})

	r.Get("/auth/{provider}", app.beginAuth)
	r.Get("/auth/{provider}/callback", app.completeAuth)
	r.Post("/auth/guest", app.guestLogin)
	r.Post("/logout", app.logout)

	return r
}
