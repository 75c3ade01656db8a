package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
	"github.com/AdamBeresnev/op-tournament/internal/live"
	"github.com/google/uuid"
)

// Store persists the tournament aggregate
type Store interface {
	Load(ctx context.Context, maxTeams int) (*bracket.Tournament, error)
	Save(ctx context.Context, t *bracket.Tournament) error
	ClearTournament(ctx context.Context) error
}

type Notifier interface {
	Publish(evt live.Event)
}

type noopNotifier struct{}

func (noopNotifier) Publish(live.Event) {}

type Options struct {
	MaxTeams      int
	MatchInterval time.Duration
	// Defaults to time.Now in UTC
	Clock func() time.Time
	// Defaults to math/rand/v2
	Shuffle bracket.Shuffler
}

// TournamentService is the only owner of the tournament. Every mutation runs
// clone, mutate, save, swap under one lock so a failed save changes nothing.
type TournamentService struct {
	mu       sync.Mutex
	state    *bracket.Tournament
	store    Store
	notifier Notifier
	opts     Options
}

func NewTournamentService(ctx context.Context, store Store, notifier Notifier, opts Options) (*TournamentService, error) {
	if opts.MaxTeams <= 0 {
		opts.MaxTeams = bracket.DefaultMaxTeams
	}
	if opts.MatchInterval <= 0 {
		opts.MatchInterval = bracket.DefaultMatchInterval
	}
	if opts.Clock == nil {
		opts.Clock = func() time.Time { return time.Now().UTC() }
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}

	state, err := store.Load(ctx, opts.MaxTeams)
	if err != nil {
		return nil, fmt.Errorf("load tournament: %w", err)
	}
	// capacity is policy, the configured value wins over whatever was saved
	state.MaxTeams = opts.MaxTeams

	slog.Info("tournament loaded",
		"phase", state.Phase(), "teams", len(state.Teams), "matches", len(state.Matches), "round", state.CurrentRound)

	return &TournamentService{state: state, store: store, notifier: notifier, opts: opts}, nil
}

func (s *TournamentService) schedule() bracket.Schedule {
	return bracket.Schedule{Now: s.opts.Clock(), Interval: s.opts.MatchInterval}
}

func (s *TournamentService) mutate(ctx context.Context, fn func(t *bracket.Tournament) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.store.Save(ctx, next); err != nil {
		return fmt.Errorf("save tournament: %w", err)
	}
	s.state = next
	return nil
}

func (s *TournamentService) AddTeam(ctx context.Context, in bracket.TeamInput) (*bracket.Team, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate team id: %w", err)
	}

	var team *bracket.Team
	err = s.mutate(ctx, func(t *bracket.Tournament) error {
		var err error
		team, err = bracket.AddTeam(t, in, id, s.opts.Clock())
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("team registered", "team", team.TeamName, "game", team.Game, "id", team.ID)
	s.notifier.Publish(live.Event{Type: live.TeamRegistered, Game: string(team.Game), Payload: team})
	return team, nil
}

func (s *TournamentService) GenerateBracket(ctx context.Context) ([]bracket.Match, error) {
	var matches []bracket.Match
	err := s.mutate(ctx, func(t *bracket.Tournament) error {
		var err error
		matches, err = bracket.GenerateBracket(t, bracket.GenerateOptions{
			Schedule: s.schedule(),
			Shuffle:  s.opts.Shuffle,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("bracket generated", "matches", len(matches))
	s.notifier.Publish(live.Event{Type: live.BracketGenerated, Payload: matches})
	return matches, nil
}

// SubmitScore records a result with an explicit winner
func (s *TournamentService) SubmitScore(ctx context.Context, in bracket.ScoreInput) (*bracket.ScoreOutcome, error) {
	return s.score(ctx, func(t *bracket.Tournament) (*bracket.ScoreOutcome, error) {
		return bracket.SubmitScore(t, in, s.schedule())
	})
}

// SubmitResult is the public path: pending matches only, no ties
func (s *TournamentService) SubmitResult(ctx context.Context, matchID string, score1, score2 int) (*bracket.ScoreOutcome, error) {
	return s.score(ctx, func(t *bracket.Tournament) (*bracket.ScoreOutcome, error) {
		return bracket.SubmitResult(t, matchID, score1, score2, s.schedule())
	})
}

func (s *TournamentService) EditScore(ctx context.Context, matchID string, score1, score2 int) (*bracket.ScoreOutcome, error) {
	return s.score(ctx, func(t *bracket.Tournament) (*bracket.ScoreOutcome, error) {
		return bracket.EditScore(t, matchID, score1, score2, s.schedule())
	})
}

func (s *TournamentService) score(ctx context.Context, fn func(t *bracket.Tournament) (*bracket.ScoreOutcome, error)) (*bracket.ScoreOutcome, error) {
	var outcome *bracket.ScoreOutcome
	err := s.mutate(ctx, func(t *bracket.Tournament) error {
		var err error
		outcome, err = fn(t)
		return err
	})
	if err != nil {
		return nil, err
	}

	m := outcome.Match
	slog.Info("match result recorded",
		"match", m.ID, "game", m.Game, "round", m.Round, "winner", m.Winner.TeamName, "created", len(outcome.Created))
	s.notifier.Publish(live.Event{Type: live.MatchUpdated, Game: string(m.Game), Payload: m})
	if len(outcome.Created) > 0 {
		s.notifier.Publish(live.Event{Type: live.RoundAdvanced, Game: string(m.Game), Payload: outcome})
	}
	return outcome, nil
}

// Reset removes the tournament keys from the store and returns to registration.
// Logged in users are untouched.
func (s *TournamentService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.ClearTournament(ctx); err != nil {
		return fmt.Errorf("clear tournament: %w", err)
	}
	next := s.state.Clone()
	next.Reset()
	s.state = next

	slog.Info("tournament reset")
	s.notifier.Publish(live.Event{Type: live.TournamentReset})
	return nil
}

// SetStartTime works in every phase, nil clears it
func (s *TournamentService) SetStartTime(ctx context.Context, start *time.Time) error {
	err := s.mutate(ctx, func(t *bracket.Tournament) error {
		if start == nil {
			t.StartTime = nil
			return nil
		}
		st := start.UTC()
		t.StartTime = &st
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("start time updated", "start", start)
	s.notifier.Publish(live.Event{Type: live.StartTimeUpdated, Payload: map[string]*time.Time{"startTime": start}})
	return nil
}

// Snapshot is a deep copy, callers may do whatever they like with it
func (s *TournamentService) Snapshot() *bracket.Tournament {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}
