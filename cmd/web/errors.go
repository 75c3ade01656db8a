package main

import (
	"errors"
	"net/http"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
	"github.com/AdamBeresnev/op-tournament/internal/httputil"
)

// statusFor maps engine errors onto HTTP. Rejections are the user's to fix,
// contract violations mean the client sent something it should not have.
func statusFor(err error) int {
	switch {
	case errors.Is(err, bracket.ErrInvalidTeam),
		errors.Is(err, bracket.ErrTiedScore),
		errors.Is(err, bracket.ErrInvalidScore):
		return http.StatusUnprocessableEntity
	case errors.Is(err, bracket.ErrRegistrationClosed),
		errors.Is(err, bracket.ErrDuplicateTeamName),
		errors.Is(err, bracket.ErrNotEnoughTeams),
		errors.Is(err, bracket.ErrMatchAlreadyCompleted):
		return http.StatusConflict
	case errors.Is(err, bracket.ErrMatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, bracket.ErrMalformedMatchID),
		errors.Is(err, bracket.ErrWinnerNotInMatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)

	var verrs bracket.ValidationErrors
	if errors.As(err, &verrs) {
		httputil.APIFieldError(w, status, bracket.ErrInvalidTeam.Error(), verrs, err)
		return
	}
	if status < http.StatusInternalServerError {
		msg = err.Error()
	}
	httputil.APIError(w, status, msg, err)
}
