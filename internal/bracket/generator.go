package bracket

import (
	"math/rand/v2"
	"time"
)

const DefaultMatchInterval = 30 * time.Minute

// Shuffler has the signature of rand.Shuffle so tests can pin the bracket order
type Shuffler func(n int, swap func(i, j int))

// Schedule staggers new matches: match-N starts at Now + N*Interval
type Schedule struct {
	Now      time.Time
	Interval time.Duration
}

func (s Schedule) withDefaults() Schedule {
	if s.Now.IsZero() {
		s.Now = time.Now().UTC()
	}
	if s.Interval <= 0 {
		s.Interval = DefaultMatchInterval
	}
	return s
}

type GenerateOptions struct {
	Schedule
	Shuffle Shuffler
}

type matchFactory struct {
	next     int
	schedule Schedule
}

func (f *matchFactory) create(game GameID, round int, team1, team2 Team) Match {
	seq := f.next
	f.next++

	return Match{
		ID:            MatchID(seq),
		Game:          game,
		Round:         round,
		Team1:         team1.clone(),
		Team2:         team2.clone(),
		Status:        MatchPending,
		ScheduledTime: f.schedule.Now.Add(time.Duration(seq) * f.schedule.Interval),
	}
}

// groupByGame keeps games in the order their first team registered
func groupByGame(teams []Team) ([]GameID, map[GameID][]Team) {
	var order []GameID
	groups := make(map[GameID][]Team)
	for _, team := range teams {
		if _, exists := groups[team.Game]; !exists {
			order = append(order, team.Game)
		}
		groups[team.Game] = append(groups[team.Game], team)
	}
	return order, groups
}

// pairConsecutive pairs (0,1), (2,3)... An odd last team gets no pair and no bye.
func pairConsecutive(teams []Team) [][2]Team {
	pairs := make([][2]Team, 0, len(teams)/2)
	for i := 0; i+1 < len(teams); i += 2 {
		pairs = append(pairs, [2]Team{teams[i], teams[i+1]})
	}
	return pairs
}

// GenerateBracket replaces the ledger with freshly shuffled round 1 matches for every
// game that has at least 2 teams and starts the tournament.
func GenerateBracket(t *Tournament, opts GenerateOptions) ([]Match, error) {
	if len(t.Teams) < 2 {
		return nil, ErrNotEnoughTeams
	}

	shuffle := opts.Shuffle
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	factory := &matchFactory{next: 1, schedule: opts.Schedule.withDefaults()}

	matches := []Match{}
	order, groups := groupByGame(t.Teams)
	for _, game := range order {
		gameTeams := groups[game]
		if len(gameTeams) < 2 {
			continue
		}

		shuffled := make([]Team, len(gameTeams))
		copy(shuffled, gameTeams)
		shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		for _, pair := range pairConsecutive(shuffled) {
			matches = append(matches, factory.create(game, 1, pair[0], pair[1]))
		}
	}

	t.Matches = matches
	t.Started = true
	t.CurrentRound = 1

	created := make([]Match, len(matches))
	for i, m := range matches {
		created[i] = m.clone()
	}
	return created, nil
}
