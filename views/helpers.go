package views

import (
	"context"
	"fmt"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
	"github.com/AdamBeresnev/op-tournament/internal/middleware"
	users "github.com/AdamBeresnev/op-tournament/internal/user"
)

func GetUser(ctx context.Context) *users.User {
	return middleware.GetAuthenticatedUser(ctx)
}

func gameName(id bracket.GameID) string {
	if g, ok := bracket.LookupGame(id); ok {
		return g.Name
	}
	return string(id)
}

func scoreText(score *int) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprint(*score)
}

// roundTitle names the last rounds of a bracket the way players call them
func roundTitle(round, lastRound int, final bool) string {
	switch {
	case final && round == lastRound:
		return "Final"
	case final && round == lastRound-1:
		return "Semifinal"
	default:
		return fmt.Sprintf("Round %d", round)
	}
}
