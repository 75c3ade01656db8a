package views

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
	"github.com/a-h/templ"
)

// htmlWriter keeps the first write error so components can write unconditionally
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(format string, args ...any) {
	if h.err != nil {
		return
	}
	_, h.err = fmt.Fprintf(h.w, format, args...)
}

// text writes escaped content
func (h *htmlWriter) text(s string) {
	h.raw("%s", templ.EscapeString(s))
}

func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		h.text(title)
		h.raw(`</title><link rel="stylesheet" href="/static/app.css"></head><body>`)
		h.raw(`<nav><a href="/">Bracket</a> <a href="/leaderboard">Leaderboard</a>`)
		if user := GetUser(ctx); user != nil {
			h.raw(` <span class="user">`)
			h.text(user.Username)
			h.raw(`</span><form method="post" action="/logout"><button>Logout</button></form>`)
		} else {
			h.raw(` <form method="post" action="/auth/guest"><button>Continue as guest</button></form>`)
		}
		h.raw(`</nav><main>`)
		if h.err != nil {
			return h.err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</main><script src="/static/live.js"></script></body></html>`)
		return h.err
	})
}

func BracketPage(overview bracket.Overview, data BracketData) templ.Component {
	return Layout("Tournament bracket", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section class="overview" data-phase="%s">`, overview.Phase)
		h.raw(`<p>%d / %d teams registered</p>`, overview.TotalTeams, overview.MaxTeams)
		if overview.StartTime != nil {
			h.raw(`<p>Starts <time datetime="%s">`, overview.StartTime.Format(time.RFC3339))
			h.text(overview.StartTime.Format("Mon 2 Jan 15:04 MST"))
			h.raw(`</time></p>`)
		}
		if overview.Phase == bracket.PhaseRegistration {
			h.raw(`<p class="empty">The bracket has not been generated yet.</p></section>`)
			return h.err
		}
		h.raw(`<p>Round %d, %d of %d matches played</p></section>`, overview.CurrentRound, overview.CompletedMatches, overview.TotalMatches)

		for _, gb := range data.Games {
			h.raw(`<section class="bracket" data-game="%s"><h2>`, templ.EscapeString(string(gb.Game.ID)))
			h.text(gb.Game.Name)
			h.raw(`</h2>`)
			if gb.Champion != nil {
				h.raw(`<p class="champion">Champion: `)
				h.text(gb.Champion.TeamName)
				h.raw(`</p>`)
			}
			lastRound := gb.RoundNums[len(gb.RoundNums)-1]
			for _, round := range gb.RoundNums {
				h.raw(`<div class="round"><h3>`)
				h.text(roundTitle(round, lastRound, gb.Final))
				h.raw(`</h3>`)
				for _, m := range gb.Rounds[round] {
					writeMatch(h, m)
				}
				h.raw(`</div>`)
			}
			h.raw(`</section>`)
		}
		return h.err
	}))
}

func writeMatch(h *htmlWriter, m bracket.Match) {
	h.raw(`<article class="match %s" id="%s">`, m.Status, templ.EscapeString(m.ID))
	for _, side := range []struct {
		team  bracket.Team
		score *int
	}{{m.Team1, m.Team1Score}, {m.Team2, m.Team2Score}} {
		class := "team"
		if m.IsWinner(side.team.ID) {
			class += " winner"
		}
		h.raw(`<div class="%s"><span>`, class)
		h.text(side.team.TeamName)
		h.raw(`</span><b>%s</b></div>`, scoreText(side.score))
	}
	h.raw(`<time datetime="%s">`, m.ScheduledTime.Format(time.RFC3339))
	h.text(m.ScheduledTime.Format("15:04"))
	h.raw(`</time></article>`)
}

func LeaderboardPage(mode bracket.Ranking, game bracket.GameID, standings []bracket.Standing, highlights bracket.Highlights) templ.Component {
	return Layout("Leaderboard", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>Leaderboard`)
		if game != "" {
			h.raw(` - `)
			h.text(gameName(game))
		}
		h.raw(`</h1>`)

		h.raw(`<section class="highlights">`)
		writeHighlight(h, "Most wins", highlights.MostWins, func(s *bracket.Standing) string { return fmt.Sprint(s.Wins) })
		writeHighlight(h, "Best win rate", highlights.BestWinRate, func(s *bracket.Standing) string { return fmt.Sprintf("%.1f%%", s.WinRate) })
		writeHighlight(h, "Most active", highlights.MostActive, func(s *bracket.Standing) string { return fmt.Sprint(s.MatchesPlayed) })
		writeHighlight(h, "Top scorer", highlights.TopScorer, func(s *bracket.Standing) string { return fmt.Sprint(s.TotalScore) })
		h.raw(`</section>`)

		if len(standings) == 0 {
			h.raw(`<p class="empty">No teams registered yet.</p>`)
			return h.err
		}

		h.raw(`<table class="standings" data-mode="%s"><thead><tr><th>#</th><th>Team</th><th>Game</th><th>W</th><th>L</th><th>Win %%</th>`, mode)
		if mode == bracket.RankByPoints {
			h.raw(`<th>Pts</th><th>+/-</th>`)
		} else {
			h.raw(`<th>Avg</th>`)
		}
		h.raw(`<th>Rank</th></tr></thead><tbody>`)
		for _, s := range standings {
			h.raw(`<tr><td>%d</td><td>`, s.Position)
			h.text(s.Team.TeamName)
			h.raw(`</td><td>`)
			h.text(gameName(s.Team.Game))
			h.raw(`</td><td>%d</td><td>%d</td><td>%.1f</td>`, s.Wins, s.Losses, s.WinRate)
			if mode == bracket.RankByPoints {
				h.raw(`<td>%d</td><td>%+d</td>`, s.Points, s.PointsDiff)
			} else {
				h.raw(`<td>%.1f</td>`, s.AverageScore)
			}
			h.raw(`<td>`)
			h.text(string(s.HonorRank))
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)
		return h.err
	}))
}

func writeHighlight(h *htmlWriter, title string, s *bracket.Standing, value func(*bracket.Standing) string) {
	h.raw(`<div class="highlight"><h4>`)
	h.text(title)
	h.raw(`</h4>`)
	if s == nil {
		h.raw(`<p>-</p></div>`)
		return
	}
	h.raw(`<p>`)
	h.text(s.Team.TeamName)
	h.raw(` <b>`)
	h.text(value(s))
	h.raw(`</b></p></div>`)
}
