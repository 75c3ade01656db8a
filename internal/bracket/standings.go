package bracket

import (
	"sort"
	"time"
)

type Ranking string

const (
	RankBySimple Ranking = "simple"
	RankByPoints Ranking = "points"
)

func ParseRanking(s string) (Ranking, bool) {
	switch Ranking(s) {
	case RankBySimple, "":
		return RankBySimple, true
	case RankByPoints:
		return RankByPoints, true
	}
	return "", false
}

type HonorRank string

const (
	HonorElite     HonorRank = "313 Elite"
	HonorKahf      HonorRank = "Ashab al-Kahf"
	HonorAnsar     HonorRank = "Ansar"
	HonorHawariyun HonorRank = "Hawariyun"
)

func honorFor(wins int, winRate float64) HonorRank {
	switch {
	case wins >= 10 && winRate >= 80:
		return HonorElite
	case wins >= 7 && winRate >= 70:
		return HonorKahf
	case wins >= 4 && winRate >= 60:
		return HonorAnsar
	default:
		return HonorHawariyun
	}
}

type Standing struct {
	Team          Team      `json:"team"`
	Position      int       `json:"position"`
	MatchesPlayed int       `json:"matchesPlayed"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	TotalScore    int       `json:"totalScore"`
	PointsAgainst int       `json:"pointsAgainst"`
	AverageScore  float64   `json:"averageScore"`
	WinRate       float64   `json:"winRate"`
	Points        int       `json:"points"`
	PointsDiff    int       `json:"pointsDiff"`
	HonorRank     HonorRank `json:"honorRank"`
}

// ComputeStandings aggregates completed matches per team and ranks the result.
// Teams without a completed match are still listed with zero values.
func ComputeStandings(teams []Team, matches []Match, mode Ranking) []Standing {
	out := make([]Standing, len(teams))
	for i, team := range teams {
		s := Standing{Team: team.clone()}
		for j := range matches {
			m := &matches[j]
			if !m.IsCompleted() || !m.HasTeam(team.ID) {
				continue
			}
			own, opp := m.ScoresFor(team.ID)
			s.MatchesPlayed++
			s.TotalScore += own
			s.PointsAgainst += opp
			if m.IsWinner(team.ID) {
				s.Wins++
			}
		}
		s.Losses = s.MatchesPlayed - s.Wins
		if s.MatchesPlayed > 0 {
			s.AverageScore = float64(s.TotalScore) / float64(s.MatchesPlayed)
			s.WinRate = float64(s.Wins) / float64(s.MatchesPlayed) * 100
		}
		s.Points = s.Wins*3 + s.Losses
		s.PointsDiff = s.TotalScore - s.PointsAgainst
		s.HonorRank = honorFor(s.Wins, s.WinRate)
		out[i] = s
	}

	less := simpleLess
	if mode == RankByPoints {
		less = pointsLess
	}
	// stable over registration order, which is the last tie-break
	sort.SliceStable(out, func(i, j int) bool {
		return less(&out[i], &out[j])
	})
	for i := range out {
		out[i].Position = i + 1
	}
	return out
}

func simpleLess(a, b *Standing) bool {
	if a.Wins != b.Wins {
		return a.Wins > b.Wins
	}
	if a.WinRate != b.WinRate {
		return a.WinRate > b.WinRate
	}
	return a.AverageScore > b.AverageScore
}

func pointsLess(a, b *Standing) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.WinRate != b.WinRate {
		return a.WinRate > b.WinRate
	}
	return a.PointsDiff > b.PointsDiff
}

// FilterByGame keeps the ranking order but renumbers positions within the game
func FilterByGame(standings []Standing, game GameID) []Standing {
	out := make([]Standing, 0, len(standings))
	for _, s := range standings {
		if s.Team.Game != game {
			continue
		}
		s.Position = len(out) + 1
		out = append(out, s)
	}
	return out
}

type Highlights struct {
	MostWins    *Standing `json:"mostWins"`
	MostActive  *Standing `json:"mostActive"`
	BestWinRate *Standing `json:"bestWinRate"`
	TopScorer   *Standing `json:"topScorer"`
}

// PickHighlights returns the superlatives over a standings table. The first team in
// table order wins a tie. Teams that have not played cannot take best win rate or top scorer.
func PickHighlights(standings []Standing) Highlights {
	var h Highlights
	pick := func(cur *Standing, cand *Standing, better func(a, b *Standing) bool) *Standing {
		if cur == nil || better(cand, cur) {
			return cand
		}
		return cur
	}
	for i := range standings {
		s := &standings[i]
		h.MostWins = pick(h.MostWins, s, func(a, b *Standing) bool { return a.Wins > b.Wins })
		h.MostActive = pick(h.MostActive, s, func(a, b *Standing) bool { return a.MatchesPlayed > b.MatchesPlayed })
		if s.MatchesPlayed == 0 {
			continue
		}
		h.BestWinRate = pick(h.BestWinRate, s, func(a, b *Standing) bool { return a.WinRate > b.WinRate })
		h.TopScorer = pick(h.TopScorer, s, func(a, b *Standing) bool { return a.TotalScore > b.TotalScore })
	}
	return h
}

type GameSummary struct {
	Game      Game  `json:"game"`
	Teams     int   `json:"teams"`
	Matches   int   `json:"matches"`
	Completed int   `json:"completed"`
	Rounds    int   `json:"rounds"`
	Champion  *Team `json:"champion"`
}

// SummarizeGames lists every catalog game that has at least one registered team
func SummarizeGames(t *Tournament) []GameSummary {
	order, groups := groupByGame(t.Teams)
	out := make([]GameSummary, 0, len(order))
	for _, id := range order {
		game, ok := LookupGame(id)
		if !ok {
			game = Game{ID: id, Name: string(id)}
		}
		gs := GameSummary{Game: game, Teams: len(groups[id])}

		var last []*Match
		unresolved := false
		for i := range t.Matches {
			m := &t.Matches[i]
			if m.Game != id {
				continue
			}
			gs.Matches++
			if m.IsCompleted() {
				gs.Completed++
			} else {
				unresolved = true
			}
			switch {
			case m.Round > gs.Rounds:
				gs.Rounds = m.Round
				last = []*Match{m}
			case m.Round == gs.Rounds:
				last = append(last, m)
			}
		}
		if !unresolved && len(last) == 1 && last[0].Winner != nil {
			champ := last[0].Winner.clone()
			gs.Champion = &champ
		}
		out = append(out, gs)
	}
	return out
}

type Overview struct {
	Phase            Phase      `json:"phase"`
	TotalTeams       int        `json:"totalTeams"`
	MaxTeams         int        `json:"maxTeams"`
	TotalMatches     int        `json:"totalMatches"`
	CompletedMatches int        `json:"completedMatches"`
	PendingMatches   int        `json:"pendingMatches"`
	ActiveGames      int        `json:"activeGames"`
	CurrentRound     int        `json:"currentRound"`
	StartTime        *time.Time `json:"startTime"`
}

func Summarize(t *Tournament) Overview {
	o := Overview{
		Phase:        t.Phase(),
		TotalTeams:   len(t.Teams),
		MaxTeams:     t.MaxTeams,
		TotalMatches: len(t.Matches),
		CurrentRound: t.CurrentRound,
	}
	if t.StartTime != nil {
		st := *t.StartTime
		o.StartTime = &st
	}
	active := make(map[GameID]struct{})
	for i := range t.Matches {
		m := &t.Matches[i]
		if m.IsCompleted() {
			o.CompletedMatches++
			continue
		}
		o.PendingMatches++
		active[m.Game] = struct{}{}
	}
	o.ActiveGames = len(active)
	return o
}
