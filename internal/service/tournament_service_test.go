package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AdamBeresnev/op-tournament/internal/bracket"
	"github.com/AdamBeresnev/op-tournament/internal/db"
	"github.com/AdamBeresnev/op-tournament/internal/live"
	"github.com/AdamBeresnev/op-tournament/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 5, 2, 20, 0, 0, 0, time.UTC)

// memoryStore keeps the last saved aggregate and can be told to fail
type memoryStore struct {
	saved   *bracket.Tournament
	saves   int
	clears  int
	failErr error
}

func (m *memoryStore) Load(_ context.Context, maxTeams int) (*bracket.Tournament, error) {
	if m.saved == nil {
		return bracket.NewTournament(maxTeams), nil
	}
	return m.saved.Clone(), nil
}

func (m *memoryStore) Save(_ context.Context, t *bracket.Tournament) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.saves++
	m.saved = t.Clone()
	return nil
}

func (m *memoryStore) ClearTournament(context.Context) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.clears++
	m.saved = nil
	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []live.Event
}

func (r *recordingNotifier) Publish(evt live.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recordingNotifier) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, evt := range r.events {
		out[i] = evt.Type
	}
	return out
}

func noShuffle(int, func(i, j int)) {}

func newTestService(t *testing.T, st Store) (*TournamentService, *recordingNotifier) {
	t.Helper()

	notifier := &recordingNotifier{}
	svc, err := NewTournamentService(context.Background(), st, notifier, Options{
		MaxTeams: 8,
		Clock:    func() time.Time { return fixedNow },
		Shuffle:  noShuffle,
	})
	require.NoError(t, err)
	return svc, notifier
}

func teamInput(name string, game bracket.GameID) bracket.TeamInput {
	return bracket.TeamInput{
		TeamName:       name,
		Game:           game,
		CaptainName:    "Captain " + name,
		CaptainContact: "captain@example.com",
		Players: []bracket.Player{
			{Name: "One", Handle: name + "-1"},
			{Name: "Two", Handle: name + "-2"},
		},
	}
}

func registerTeams(t *testing.T, svc *TournamentService, game bracket.GameID, names ...string) []bracket.Team {
	t.Helper()

	teams := make([]bracket.Team, 0, len(names))
	for _, name := range names {
		team, err := svc.AddTeam(context.Background(), teamInput(name, game))
		require.NoError(t, err)
		teams = append(teams, *team)
	}
	return teams
}

func TestTournamentLifecycle(t *testing.T) {
	st := &memoryStore{}
	svc, notifier := newTestService(t, st)
	ctx := context.Background()

	teams := registerTeams(t, svc, "fifa", "T1", "T2", "T3", "T4")
	assert.Equal(t, 4, st.saves)
	assert.Equal(t, uuid.Version(7), teams[0].ID.Version(), "team ids are time ordered")
	assert.Equal(t, fixedNow, teams[0].RegisteredAt)

	matches, err := svc.GenerateBracket(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, fixedNow.Add(bracket.DefaultMatchInterval), matches[0].ScheduledTime)

	_, err = svc.SubmitResult(ctx, "match-1", 3, 1)
	require.NoError(t, err)
	outcome, err := svc.SubmitResult(ctx, "match-2", 2, 0)
	require.NoError(t, err)

	require.Len(t, outcome.Created, 1)
	final := outcome.Created[0]
	assert.Equal(t, []uuid.UUID{teams[0].ID, teams[2].ID}, []uuid.UUID{final.Team1.ID, final.Team2.ID})
	assert.Equal(t, 2, svc.Snapshot().CurrentRound)

	outcome, err = svc.SubmitScore(ctx, bracket.ScoreInput{MatchID: final.ID, Team1Score: 1, Team2Score: 4, WinnerID: teams[2].ID})
	require.NoError(t, err)
	assert.Empty(t, outcome.Created)

	snap := svc.Snapshot()
	assert.Equal(t, bracket.PhaseFinished, snap.Phase())
	assert.Equal(t, snap, st.saved, "store holds the latest state")

	assert.Equal(t, []string{
		live.TeamRegistered, live.TeamRegistered, live.TeamRegistered, live.TeamRegistered,
		live.BracketGenerated,
		live.MatchUpdated,
		live.MatchUpdated, live.RoundAdvanced,
		live.MatchUpdated,
	}, notifier.types())

	overview := svc.Overview()
	require.Len(t, overview.Games, 1)
	require.NotNil(t, overview.Games[0].Champion)
	assert.Equal(t, teams[2].ID, overview.Games[0].Champion.ID)
	assert.Equal(t, 3, overview.CompletedMatches)
}

func TestRejectionsLeaveStateUntouched(t *testing.T) {
	st := &memoryStore{}
	svc, notifier := newTestService(t, st)
	ctx := context.Background()

	registerTeams(t, svc, "cod", "Alpha")
	before := svc.Snapshot()
	saves := st.saves
	events := len(notifier.types())

	_, err := svc.AddTeam(ctx, teamInput("ALPHA", "cod"))
	assert.ErrorIs(t, err, bracket.ErrDuplicateTeamName)

	_, err = svc.GenerateBracket(ctx)
	assert.ErrorIs(t, err, bracket.ErrNotEnoughTeams)

	_, err = svc.SubmitResult(ctx, "match-1", 1, 0)
	assert.ErrorIs(t, err, bracket.ErrMatchNotFound)

	assert.Equal(t, before, svc.Snapshot())
	assert.Equal(t, saves, st.saves)
	assert.Len(t, notifier.types(), events)
}

func TestCapacityFromOptions(t *testing.T) {
	svc, _ := newTestService(t, &memoryStore{})
	for i := range 8 {
		registerTeams(t, svc, "apex", string(rune('A'+i))+" squad")
	}

	_, err := svc.AddTeam(context.Background(), teamInput("Ninth", "apex"))
	assert.ErrorIs(t, err, bracket.ErrRegistrationClosed)
	assert.Len(t, svc.Snapshot().Teams, 8)
}

func TestFailedSaveKeepsPreviousState(t *testing.T) {
	st := &memoryStore{}
	svc, notifier := newTestService(t, st)
	registerTeams(t, svc, "cod", "A", "B")

	before := svc.Snapshot()
	st.failErr = errors.New("disk full")

	_, err := svc.GenerateBracket(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")

	after := svc.Snapshot()
	assert.Equal(t, before, after)
	assert.False(t, after.Started)
	assert.NotContains(t, notifier.types(), live.BracketGenerated)
}

func TestReset(t *testing.T) {
	st := &memoryStore{}
	svc, notifier := newTestService(t, st)
	ctx := context.Background()

	registerTeams(t, svc, "cod", "A", "B")
	_, err := svc.GenerateBracket(ctx)
	require.NoError(t, err)
	start := fixedNow.Add(time.Hour)
	require.NoError(t, svc.SetStartTime(ctx, &start))

	require.NoError(t, svc.Reset(ctx))

	snap := svc.Snapshot()
	assert.Empty(t, snap.Teams)
	assert.Empty(t, snap.Matches)
	assert.False(t, snap.Started)
	assert.Equal(t, 1, snap.CurrentRound)
	assert.Nil(t, snap.StartTime)
	assert.Equal(t, 8, snap.MaxTeams)
	assert.Equal(t, 1, st.clears)
	assert.Contains(t, notifier.types(), live.TournamentReset)

	// registration is open again
	registerTeams(t, svc, "cod", "A")
}

func TestSetStartTimeAnyPhase(t *testing.T) {
	svc, _ := newTestService(t, &memoryStore{})
	ctx := context.Background()

	start := time.Date(2025, 6, 1, 18, 0, 0, 0, time.FixedZone("AST", 3*60*60))
	require.NoError(t, svc.SetStartTime(ctx, &start))
	require.NotNil(t, svc.Snapshot().StartTime)
	assert.True(t, start.Equal(*svc.Snapshot().StartTime))

	registerTeams(t, svc, "cod", "A", "B")
	_, err := svc.GenerateBracket(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.SetStartTime(ctx, nil))
	snap := svc.Snapshot()
	assert.Nil(t, snap.StartTime)
	assert.True(t, snap.Started, "phase is unchanged")
}

func TestStandingsAndMatches(t *testing.T) {
	svc, _ := newTestService(t, &memoryStore{})
	ctx := context.Background()

	registerTeams(t, svc, "cod", "C1", "C2")
	registerTeams(t, svc, "fifa", "F1", "F2")
	_, err := svc.GenerateBracket(ctx)
	require.NoError(t, err)
	_, err = svc.SubmitResult(ctx, "match-2", 0, 5)
	require.NoError(t, err)

	view := svc.Standings(bracket.RankByPoints, "")
	require.Len(t, view.Standings, 4)
	assert.Equal(t, "F2", view.Standings[0].Team.TeamName)
	assert.Equal(t, "F2", view.Highlights.TopScorer.Team.TeamName)

	fifa := svc.Standings(bracket.RankBySimple, "fifa")
	assert.Len(t, fifa.Standings, 2)
	assert.Equal(t, bracket.GameID("fifa"), fifa.Game)

	assert.Len(t, svc.Matches(MatchFilter{}), 2)
	pending := svc.Matches(MatchFilter{Status: bracket.MatchPending})
	require.Len(t, pending, 1)
	assert.Equal(t, "match-1", pending[0].ID)
	assert.Len(t, svc.Matches(MatchFilter{Game: "fifa", Round: 1}), 1)
	assert.Empty(t, svc.Matches(MatchFilter{Round: 2}))
}

func TestExport(t *testing.T) {
	svc, _ := newTestService(t, &memoryStore{})
	registerTeams(t, svc, "roblox", "R1", "R2")

	export := svc.Export()
	assert.Len(t, export.Teams, 2)
	assert.Empty(t, export.Matches)
	assert.Nil(t, export.TournamentStartTime)
	assert.Equal(t, fixedNow, export.ExportDate)
}

func TestConcurrentSubmissionsAdvanceOnce(t *testing.T) {
	svc, _ := newTestService(t, &memoryStore{})
	ctx := context.Background()
	registerTeams(t, svc, "nba2k", "A", "B", "C", "D", "E", "F", "G", "H")
	_, err := svc.GenerateBracket(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, id := range []string{"match-1", "match-2", "match-3", "match-4"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SubmitResult(ctx, id, 2, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, svc.Matches(MatchFilter{Round: 2}), 2)
	assert.Equal(t, 2, svc.Snapshot().CurrentRound)
}

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Open("file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")
	database.SetMaxOpenConns(1)
	require.NoError(t, db.RunMigrations(database.DB), "Failed to apply migrations")

	t.Cleanup(func() { database.Close() })
	return database
}

func TestServiceSurvivesRestart(t *testing.T) {
	database := setupTestDB(t)
	st := store.NewTournamentStore(database)
	ctx := context.Background()

	svc, _ := newTestService(t, st)
	registerTeams(t, svc, "fall-guys", "Jelly", "Bean")
	_, err := svc.GenerateBracket(ctx)
	require.NoError(t, err)
	_, err = svc.SubmitResult(ctx, "match-1", 9, 4)
	require.NoError(t, err)

	restarted, _ := newTestService(t, st)
	assert.Equal(t, svc.Snapshot(), restarted.Snapshot())

	require.NoError(t, restarted.Reset(ctx))
	again, _ := newTestService(t, st)
	assert.Empty(t, again.Snapshot().Teams)
	assert.False(t, again.Snapshot().Started)
}
