package bracket

import (
	"time"
)

type Phase string

const (
	PhaseRegistration Phase = "registration"
	PhaseInProgress   Phase = "in_progress"
	// Only inferred: no pending or live match is left after the bracket started
	PhaseFinished Phase = "finished"
)

const DefaultMaxTeams = 30

// Tournament is the whole mutable aggregate. Engine functions in this package
// operate on it directly and never keep a copy around.
type Tournament struct {
	Teams        []Team     `json:"teams"`
	Matches      []Match    `json:"matches"`
	Started      bool       `json:"started"`
	CurrentRound int        `json:"currentRound"`
	StartTime    *time.Time `json:"startTime"`
	MaxTeams     int        `json:"maxTeams"`
}

func NewTournament(maxTeams int) *Tournament {
	if maxTeams <= 0 {
		maxTeams = DefaultMaxTeams
	}
	return &Tournament{
		Teams:        []Team{},
		Matches:      []Match{},
		CurrentRound: 1,
		MaxTeams:     maxTeams,
	}
}

func (t *Tournament) Phase() Phase {
	if !t.Started {
		return PhaseRegistration
	}
	for i := range t.Matches {
		if !t.Matches[i].IsCompleted() {
			return PhaseInProgress
		}
	}
	return PhaseFinished
}

func (t *Tournament) RegistrationOpen() bool {
	return !t.Started && len(t.Teams) < t.MaxTeams
}

// Reset returns the aggregate to registration, capacity is kept
func (t *Tournament) Reset() {
	t.Teams = []Team{}
	t.Matches = []Match{}
	t.Started = false
	t.CurrentRound = 1
	t.StartTime = nil
}

func (t *Tournament) FindMatch(id string) (int, bool) {
	for i := range t.Matches {
		if t.Matches[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (t *Tournament) Clone() *Tournament {
	c := *t
	c.Teams = make([]Team, len(t.Teams))
	for i, team := range t.Teams {
		c.Teams[i] = team.clone()
	}
	c.Matches = make([]Match, len(t.Matches))
	for i, m := range t.Matches {
		c.Matches[i] = m.clone()
	}
	if t.StartTime != nil {
		st := *t.StartTime
		c.StartTime = &st
	}
	return &c
}
