package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
	"github.com/jmoiron/sqlx"
)

// Keys of the persisted tournament fields, one app_state row each
const (
	KeyTeams        = "tournament-teams"
	KeyMatches      = "tournament-matches"
	KeyStarted      = "tournament-started"
	KeyCurrentRound = "current-round"
	KeyStartTime    = "tournament-start-time"
)

// TournamentKeys are the only keys ClearTournament removes
var TournamentKeys = []string{KeyTeams, KeyMatches, KeyStarted, KeyCurrentRound, KeyStartTime}

const (
	upsertStateQuery = `
		INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	selectStateQuery = "SELECT key, value FROM app_state WHERE key IN (?)"
	deleteStateQuery = "DELETE FROM app_state WHERE key IN (?)"
)

type stateRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

// Load rebuilds the aggregate from the stored keys. Missing keys keep the
// defaults of a fresh tournament, so an empty table loads as registration.
func (s *TournamentStore) Load(ctx context.Context, maxTeams int) (*bracket.Tournament, error) {
	query, args, err := sqlx.In(selectStateQuery, TournamentKeys)
	if err != nil {
		return nil, err
	}

	var rows []stateRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select tournament state: %w", err)
	}

	t := bracket.NewTournament(maxTeams)
	for _, row := range rows {
		var target any
		switch row.Key {
		case KeyTeams:
			target = &t.Teams
		case KeyMatches:
			target = &t.Matches
		case KeyStarted:
			target = &t.Started
		case KeyCurrentRound:
			target = &t.CurrentRound
		case KeyStartTime:
			target = &t.StartTime
		default:
			continue
		}
		if err := json.Unmarshal([]byte(row.Value), target); err != nil {
			return nil, fmt.Errorf("decode %s: %w", row.Key, err)
		}
	}

	if t.Teams == nil {
		t.Teams = []bracket.Team{}
	}
	if t.Matches == nil {
		t.Matches = []bracket.Match{}
	}
	if t.CurrentRound < 1 {
		t.CurrentRound = 1
	}
	return t, nil
}

// Save writes every tournament key in one transaction
func (s *TournamentStore) Save(ctx context.Context, t *bracket.Tournament) error {
	values := map[string]any{
		KeyTeams:        t.Teams,
		KeyMatches:      t.Matches,
		KeyStarted:      t.Started,
		KeyCurrentRound: t.CurrentRound,
		KeyStartTime:    t.StartTime,
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, key := range TournamentKeys {
		raw, err := json.Marshal(values[key])
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		if _, err := tx.ExecContext(ctx, upsertStateQuery, key, string(raw)); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return tx.Commit()
}

func (s *TournamentStore) ClearTournament(ctx context.Context) error {
	query, args, err := sqlx.In(deleteStateQuery, TournamentKeys)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	return err
}
