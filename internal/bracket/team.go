package bracket

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinPlayers = 2
	MaxPlayers = 6
)

type Player struct {
	Name   string `json:"name"`
	Handle string `json:"gamertag"`
}

// Team is never mutated after registration, matches hold copies of it
type Team struct {
	ID             uuid.UUID `json:"id"`
	TeamName       string    `json:"teamName"`
	Game           GameID    `json:"game"`
	CaptainName    string    `json:"captainName"`
	CaptainContact string    `json:"captainContact"`
	Players        []Player  `json:"players"`
	RegisteredAt   time.Time `json:"registeredAt"`
}

func (t Team) clone() Team {
	if t.Players != nil {
		t.Players = append([]Player(nil), t.Players...)
	}
	return t
}
