package main

import (
	"net/http"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
	"github.com/AdamBeresnev/op-tournament/internal/httputil"
	"github.com/AdamBeresnev/op-tournament/views"
)

func (app *application) bracketPage(w http.ResponseWriter, r *http.Request) {
	t := app.tournament.Snapshot()
	page := views.BracketPage(bracket.Summarize(t), views.PrepareBracketData(t.Matches))
	if err := views.Render(w, r, page); err != nil {
		httputil.InternalServerError(w, "Failed to render bracket", err)
	}
}

func (app *application) leaderboardPage(w http.ResponseWriter, r *http.Request) {
	mode, ok := bracket.ParseRanking(r.URL.Query().Get("view"))
	if !ok {
		httputil.BadRequest(w, "view must be simple or points", nil)
		return
	}

	standings := app.tournament.Standings(mode, bracket.GameID(r.URL.Query().Get("game")))
	page := views.LeaderboardPage(standings.Mode, standings.Game, standings.Standings, standings.Highlights)
	if err := views.Render(w, r, page); err != nil {
		httputil.InternalServerError(w, "Failed to render leaderboard", err)
	}
}
