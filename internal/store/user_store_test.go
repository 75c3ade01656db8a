package store

import (
	"context"
	"database/sql"
	"testing"

	users "github.com/AdamBeresnev/op-tournament/internal/user"
	"github.com/AdamBeresnev/op-tournament/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStore(t *testing.T) {
	database := setupTestDB(t)
	store := NewUserStore(database)
	ctx := context.Background()

	user := &users.User{
		ID:         uuid.New(),
		Email:      "player@example.com",
		Username:   "Player",
		Provider:   utils.Ptr("discord"),
		ProviderID: utils.Ptr("12345"),
		AvatarURL:  utils.StringOrNil("https://cdn.example.com/a.png"),
	}
	require.NoError(t, store.CreateUser(ctx, user))

	fetched, err := store.GetUserByProvider(ctx, "discord", "12345")
	require.NoError(t, err)
	assert.Equal(t, user.ID, fetched.ID)
	assert.Equal(t, "Player", fetched.Username)
	assert.False(t, fetched.IsGuest)
	assert.False(t, fetched.CreatedAt.IsZero())

	fetched.Username = "Renamed"
	fetched.AvatarURL = nil
	require.NoError(t, store.UpdateUserNameAndAvatar(ctx, fetched))

	byID, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", byID.Username)
	assert.Nil(t, byID.AvatarURL)

	_, err = store.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestClearTournamentKeepsUsers(t *testing.T) {
	database := setupTestDB(t)
	userStore := NewUserStore(database)
	tournamentStore := NewTournamentStore(database)
	ctx := context.Background()

	require.NoError(t, userStore.CreateUser(ctx, &users.User{ID: users.GuestID, Email: "guest@example.com", Username: "Guest", IsGuest: true}))
	require.NoError(t, tournamentStore.Save(ctx, seededTournament(t)))

	require.NoError(t, tournamentStore.ClearTournament(ctx))

	n, err := userStore.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
