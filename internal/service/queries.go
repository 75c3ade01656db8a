package service

import (
	"time"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
)

type StandingsView struct {
	Mode       bracket.Ranking    `json:"mode"`
	Game       bracket.GameID     `json:"game,omitempty"`
	Standings  []bracket.Standing `json:"standings"`
	Highlights bracket.Highlights `json:"highlights"`
}

// Standings ranks every team, or only the teams of one game when game is set
func (s *TournamentService) Standings(mode bracket.Ranking, game bracket.GameID) StandingsView {
	t := s.Snapshot()

	standings := bracket.ComputeStandings(t.Teams, t.Matches, mode)
	if game != "" {
		standings = bracket.FilterByGame(standings, game)
	}
	return StandingsView{
		Mode:       mode,
		Game:       game,
		Standings:  standings,
		Highlights: bracket.PickHighlights(standings),
	}
}

type MatchFilter struct {
	Game   bracket.GameID
	Status bracket.MatchStatus
	Round  int
}

func (f MatchFilter) keep(m *bracket.Match) bool {
	return (f.Game == "" || m.Game == f.Game) &&
		(f.Status == "" || m.Status == f.Status) &&
		(f.Round == 0 || m.Round == f.Round)
}

// Matches lists the ledger in creation order
func (s *TournamentService) Matches(filter MatchFilter) []bracket.Match {
	t := s.Snapshot()

	out := make([]bracket.Match, 0, len(t.Matches))
	for i := range t.Matches {
		if filter.keep(&t.Matches[i]) {
			out = append(out, t.Matches[i])
		}
	}
	return out
}

type OverviewView struct {
	bracket.Overview
	Games []bracket.GameSummary `json:"games"`
}

func (s *TournamentService) Overview() OverviewView {
	t := s.Snapshot()
	return OverviewView{
		Overview: bracket.Summarize(t),
		Games:    bracket.SummarizeGames(t),
	}
}

// ExportData is the admin backup download
type ExportData struct {
	Teams               []bracket.Team  `json:"teams"`
	Matches             []bracket.Match `json:"matches"`
	TournamentStartTime *time.Time      `json:"tournamentStartTime"`
	ExportDate          time.Time       `json:"exportDate"`
}

func (s *TournamentService) Export() ExportData {
	t := s.Snapshot()
	return ExportData{
		Teams:               t.Teams,
		Matches:             t.Matches,
		TournamentStartTime: t.StartTime,
		ExportDate:          s.opts.Clock(),
	}
}
