package bracket

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AdamBeresnev/op-tournament/internal/utils"
	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchPending   MatchStatus = "pending"
	MatchLive      MatchStatus = "live"
	MatchCompleted MatchStatus = "completed"
)

const matchIDPrefix = "match-"

type Match struct {
	ID    string `json:"id"`
	Game  GameID `json:"game"`
	Round int    `json:"round"`

	Team1 Team `json:"team1"`
	Team2 Team `json:"team2"`

	Team1Score *int        `json:"team1Score"`
	Team2Score *int        `json:"team2Score"`
	Winner     *Team       `json:"winner"`
	Status     MatchStatus `json:"status"`

	ScheduledTime time.Time `json:"scheduledTime"`
}

func MatchID(seq int) string {
	return matchIDPrefix + strconv.Itoa(seq)
}

// ParseMatchSeq returns the ledger sequence number encoded in a match id
func ParseMatchSeq(id string) (int, error) {
	raw, ok := strings.CutPrefix(id, matchIDPrefix)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMalformedMatchID, id)
	}
	seq, err := strconv.Atoi(raw)
	if err != nil || seq < 1 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedMatchID, id)
	}
	return seq, nil
}

func (m *Match) IsCompleted() bool {
	return m.Status == MatchCompleted
}

func (m *Match) HasTeam(id uuid.UUID) bool {
	return m.Team1.ID == id || m.Team2.ID == id
}

func (m *Match) IsWinner(id uuid.UUID) bool {
	return m.IsCompleted() && m.Winner != nil && m.Winner.ID == id
}

// ScoresFor returns the (own, opponent) score of a team in this match, zero while unset
func (m *Match) ScoresFor(id uuid.UUID) (int, int) {
	own, opp := m.Team1Score, m.Team2Score
	if m.Team2.ID == id {
		own, opp = opp, own
	}
	return utils.OrZero(own), utils.OrZero(opp)
}

func (m Match) clone() Match {
	m.Team1 = m.Team1.clone()
	m.Team2 = m.Team2.clone()
	if m.Team1Score != nil {
		m.Team1Score = utils.Ptr(*m.Team1Score)
	}
	if m.Team2Score != nil {
		m.Team2Score = utils.Ptr(*m.Team2Score)
	}
	if m.Winner != nil {
		w := m.Winner.clone()
		m.Winner = &w
	}
	return m
}
