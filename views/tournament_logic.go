package views

import (
	"sort"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
)

type GameBracket struct {
	Game      bracket.Game
	Rounds    map[int][]bracket.Match
	RoundNums []int
	// Final is set once the last round is a single match
	Final    bool
	Champion *bracket.Team
}

type BracketData struct {
	Games []GameBracket
}

// PrepareBracketData groups the ledger per game and round, games in first match order
func PrepareBracketData(matches []bracket.Match) BracketData {
	var order []bracket.GameID
	byGame := make(map[bracket.GameID]*GameBracket)

	for _, m := range matches {
		gb, exists := byGame[m.Game]
		if !exists {
			game, ok := bracket.LookupGame(m.Game)
			if !ok {
				game = bracket.Game{ID: m.Game, Name: string(m.Game)}
			}
			gb = &GameBracket{Game: game, Rounds: make(map[int][]bracket.Match)}
			byGame[m.Game] = gb
			order = append(order, m.Game)
		}
		if _, exists := gb.Rounds[m.Round]; !exists {
			gb.RoundNums = append(gb.RoundNums, m.Round)
		}
		gb.Rounds[m.Round] = append(gb.Rounds[m.Round], m)
	}

	data := BracketData{Games: make([]GameBracket, 0, len(order))}
	for _, id := range order {
		gb := byGame[id]
		sort.Ints(gb.RoundNums)
		sortRounds(gb.Rounds, gb.RoundNums)

		last := gb.Rounds[gb.RoundNums[len(gb.RoundNums)-1]]
		if len(last) == 1 {
			gb.Final = true
			if last[0].IsCompleted() {
				gb.Champion = last[0].Winner
			}
		}
		data.Games = append(data.Games, *gb)
	}
	return data
}

func matchSeq(m bracket.Match) int {
	seq, _ := bracket.ParseMatchSeq(m.ID)
	return seq
}

func sortRounds(rounds map[int][]bracket.Match, roundNums []int) {
	for _, r := range roundNums {
		sort.Slice(rounds[r], func(i, j int) bool {
			return matchSeq(rounds[r][i]) < matchSeq(rounds[r][j])
		})
	}
}
