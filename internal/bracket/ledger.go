package bracket

import (
	"fmt"

	"github.com/AdamBeresnev/op-tournament/internal/utils"
	"github.com/google/uuid"
)

type ScoreInput struct {
	MatchID    string    `json:"matchId"`
	Team1Score int       `json:"team1Score"`
	Team2Score int       `json:"team2Score"`
	WinnerID   uuid.UUID `json:"winnerId"`
}

type ScoreOutcome struct {
	Match         Match   `json:"match"`
	Created       []Match `json:"created"`
	CurrentRound  int     `json:"currentRound"`
	RoundAdvanced bool    `json:"roundAdvanced"`
}

func (t *Tournament) lookupMatch(id string) (int, error) {
	if _, err := ParseMatchSeq(id); err != nil {
		return -1, err
	}
	idx, ok := t.FindMatch(id)
	if !ok {
		return -1, fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}
	return idx, nil
}

// SubmitScore records a result with a caller supplied winner and runs round advancement.
// Completed matches are overwritten, which is how admins correct a result.
func SubmitScore(t *Tournament, in ScoreInput, schedule Schedule) (*ScoreOutcome, error) {
	idx, err := t.lookupMatch(in.MatchID)
	if err != nil {
		return nil, err
	}

	m := &t.Matches[idx]
	var winner Team
	switch in.WinnerID {
	case m.Team1.ID:
		winner = m.Team1.clone()
	case m.Team2.ID:
		winner = m.Team2.clone()
	default:
		return nil, fmt.Errorf("%w: %s in %s", ErrWinnerNotInMatch, in.WinnerID, in.MatchID)
	}

	m.Team1Score = utils.Ptr(in.Team1Score)
	m.Team2Score = utils.Ptr(in.Team2Score)
	m.Winner = &winner
	m.Status = MatchCompleted
	updated := m.clone()

	previousRound := t.CurrentRound
	created := advanceRounds(t, schedule)

	return &ScoreOutcome{
		Match:         updated,
		Created:       created,
		CurrentRound:  t.CurrentRound,
		RoundAdvanced: t.CurrentRound > previousRound,
	}, nil
}

// SubmitResult is the public reporting path: pending matches only, no ties, the higher score wins
func SubmitResult(t *Tournament, matchID string, score1, score2 int, schedule Schedule) (*ScoreOutcome, error) {
	idx, err := t.lookupMatch(matchID)
	if err != nil {
		return nil, err
	}
	if t.Matches[idx].IsCompleted() {
		return nil, fmt.Errorf("%w: %s", ErrMatchAlreadyCompleted, matchID)
	}
	winnerID, err := decideWinner(&t.Matches[idx], score1, score2)
	if err != nil {
		return nil, err
	}
	return SubmitScore(t, ScoreInput{MatchID: matchID, Team1Score: score1, Team2Score: score2, WinnerID: winnerID}, schedule)
}

// EditScore is the admin correction path, it accepts completed matches too
func EditScore(t *Tournament, matchID string, score1, score2 int, schedule Schedule) (*ScoreOutcome, error) {
	idx, err := t.lookupMatch(matchID)
	if err != nil {
		return nil, err
	}
	winnerID, err := decideWinner(&t.Matches[idx], score1, score2)
	if err != nil {
		return nil, err
	}
	return SubmitScore(t, ScoreInput{MatchID: matchID, Team1Score: score1, Team2Score: score2, WinnerID: winnerID}, schedule)
}

func decideWinner(m *Match, score1, score2 int) (uuid.UUID, error) {
	if score1 < 0 || score2 < 0 {
		return uuid.Nil, ErrInvalidScore
	}
	if score1 == score2 {
		return uuid.Nil, ErrTiedScore
	}
	if score1 > score2 {
		return m.Team1.ID, nil
	}
	return m.Team2.ID, nil
}

// nextSeq continues the ledger wide counter after the highest id in use
func nextSeq(matches []Match) int {
	maxSeq := 0
	for _, m := range matches {
		if seq, err := ParseMatchSeq(m.ID); err == nil && seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}

// advanceRounds looks at CurrentRound of every game. When all of its matches are completed
// and there was more than one, winners are paired into the next round. CurrentRound then
// becomes the highest round in the whole ledger, so one fast game moves it for everybody.
func advanceRounds(t *Tournament, schedule Schedule) []Match {
	factory := &matchFactory{next: nextSeq(t.Matches), schedule: schedule.withDefaults()}

	var gameOrder []GameID
	byRound := make(map[GameID]map[int][]int)
	for i, m := range t.Matches {
		rounds, ok := byRound[m.Game]
		if !ok {
			rounds = make(map[int][]int)
			byRound[m.Game] = rounds
			gameOrder = append(gameOrder, m.Game)
		}
		rounds[m.Round] = append(rounds[m.Round], i)
	}

	round := t.CurrentRound
	var created []Match
	for _, game := range gameOrder {
		current := byRound[game][round]
		if len(current) < 2 {
			// one match left is the final for this game
			continue
		}
		if len(byRound[game][round+1]) > 0 {
			continue
		}

		winners := make([]Team, 0, len(current))
		resolved := true
		for _, idx := range current {
			m := t.Matches[idx]
			if !m.IsCompleted() || m.Winner == nil {
				resolved = false
				break
			}
			winners = append(winners, *m.Winner)
		}
		if !resolved {
			continue
		}

		for _, pair := range pairConsecutive(winners) {
			created = append(created, factory.create(game, round+1, pair[0], pair[1]))
		}
	}

	t.Matches = append(t.Matches, created...)
	for _, m := range t.Matches {
		if m.Round > t.CurrentRound {
			t.CurrentRound = m.Round
		}
	}

	out := make([]Match, len(created))
	for i, m := range created {
		out[i] = m.clone()
	}
	return out
}
