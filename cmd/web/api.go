package main

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
	"github.com/AdamBeresnev/op-tournament/internal/httputil"
	"github.com/AdamBeresnev/op-tournament/internal/middleware"
	"github.com/AdamBeresnev/op-tournament/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type tournamentResponse struct {
	*bracket.Tournament
	Phase            bracket.Phase `json:"phase"`
	RegistrationOpen bool          `json:"registrationOpen"`
}

type scoreRequest struct {
	Team1Score *int       `json:"team1Score"`
	Team2Score *int       `json:"team2Score"`
	WinnerID   *uuid.UUID `json:"winnerId,omitempty"`
}

func (req scoreRequest) scores() (int, int, error) {
	if req.Team1Score == nil || req.Team2Score == nil {
		return 0, 0, fmt.Errorf("team1Score and team2Score are required")
	}
	return *req.Team1Score, *req.Team2Score, nil
}

type startTimeRequest struct {
	StartTime *time.Time `json:"startTime"`
}

func (app *application) listGames(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, bracket.Catalog)
}

func (app *application) getTournament(w http.ResponseWriter, r *http.Request) {
	t := app.tournament.Snapshot()
	httputil.JSON(w, http.StatusOK, tournamentResponse{
		Tournament:       t,
		Phase:            t.Phase(),
		RegistrationOpen: t.RegistrationOpen(),
	})
}

func (app *application) getOverview(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, app.tournament.Overview())
}

func (app *application) registerTeam(w http.ResponseWriter, r *http.Request) {
	var in bracket.TeamInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.APIError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	team, err := app.tournament.AddTeam(r.Context(), in)
	if err != nil {
		writeServiceError(w, "Failed to register team", err)
		return
	}
	httputil.JSON(w, http.StatusCreated, team)
}

func (app *application) listMatches(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := service.MatchFilter{
		Game:   bracket.GameID(q.Get("game")),
		Status: bracket.MatchStatus(q.Get("status")),
	}
	if raw := q.Get("round"); raw != "" {
		round, err := strconv.Atoi(raw)
		if err != nil || round < 1 {
			httputil.APIError(w, http.StatusBadRequest, "Invalid round", err)
			return
		}
		filter.Round = round
	}
	httputil.JSON(w, http.StatusOK, app.tournament.Matches(filter))
}

func (app *application) getStandings(w http.ResponseWriter, r *http.Request) {
	mode, ok := bracket.ParseRanking(r.URL.Query().Get("view"))
	if !ok {
		httputil.APIError(w, http.StatusBadRequest, "view must be simple or points", nil)
		return
	}
	httputil.JSON(w, http.StatusOK, app.tournament.Standings(mode, bracket.GameID(r.URL.Query().Get("game"))))
}

func (app *application) getMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetAuthenticatedUser(r.Context())
	if user == nil {
		httputil.APIError(w, http.StatusUnauthorized, "Not logged in", nil)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]any{
		"user":    user,
		"isAdmin": !user.IsGuest && app.cfg.IsAdmin(user.Email),
	})
}

func (app *application) submitResult(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.APIError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	score1, score2, err := req.scores()
	if err != nil {
		httputil.APIError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	outcome, err := app.tournament.SubmitResult(r.Context(), chi.URLParam(r, "id"), score1, score2)
	if err != nil {
		writeServiceError(w, "Failed to submit result", err)
		return
	}
	httputil.JSON(w, http.StatusOK, outcome)
}

func (app *application) generateBracket(w http.ResponseWriter, r *http.Request) {
	matches, err := app.tournament.GenerateBracket(r.Context())
	if err != nil {
		writeServiceError(w, "Failed to generate bracket", err)
		return
	}
	httputil.JSON(w, http.StatusCreated, matches)
}

// editMatch takes an explicit winner when given, otherwise the higher score wins
func (app *application) editMatch(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.APIError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	score1, score2, err := req.scores()
	if err != nil {
		httputil.APIError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	matchID := chi.URLParam(r, "id")
	var outcome *bracket.ScoreOutcome
	if req.WinnerID != nil {
		outcome, err = app.tournament.SubmitScore(r.Context(), bracket.ScoreInput{
			MatchID:    matchID,
			Team1Score: score1,
			Team2Score: score2,
			WinnerID:   *req.WinnerID,
		})
	} else {
		outcome, err = app.tournament.EditScore(r.Context(), matchID, score1, score2)
	}
	if err != nil {
		writeServiceError(w, "Failed to update match", err)
		return
	}
	httputil.JSON(w, http.StatusOK, outcome)
}

func (app *application) setStartTime(w http.ResponseWriter, r *http.Request) {
	var req startTimeRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.APIError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := app.tournament.SetStartTime(r.Context(), req.StartTime); err != nil {
		writeServiceError(w, "Failed to set start time", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) resetTournament(w http.ResponseWriter, r *http.Request) {
	if err := app.tournament.Reset(r.Context()); err != nil {
		writeServiceError(w, "Failed to reset tournament", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) exportTournament(w http.ResponseWriter, r *http.Request) {
	export := app.tournament.Export()
	filename := fmt.Sprintf("tournament-export-%s.json", export.ExportDate.Format(time.DateOnly))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	httputil.JSON(w, http.StatusOK, export)
}
