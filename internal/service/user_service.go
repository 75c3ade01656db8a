package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/AdamBeresnev/op-tournament/internal/store"
	users "github.com/AdamBeresnev/op-tournament/internal/user"
	"github.com/AdamBeresnev/op-tournament/internal/utils"
	"github.com/google/uuid"
	"github.com/markbates/goth"
)

type UserService struct {
	store *store.UserStore
}

func NewUserService(store *store.UserStore) *UserService {
	return &UserService{store: store}
}

func displayName(gothUser goth.User) string {
	for _, name := range []string{gothUser.NickName, gothUser.Name, gothUser.Email} {
		if name != "" {
			return name
		}
	}
	return "Player"
}

func (s *UserService) FindOrCreateUserByProvider(ctx context.Context, gothUser goth.User) (*users.User, error) {
	user, err := s.store.GetUserByProvider(ctx, gothUser.Provider, gothUser.UserID)

	if err == nil {
		name := displayName(gothUser)
		if utils.OrZero(user.AvatarURL) != gothUser.AvatarURL || user.Username != name {
			user.AvatarURL = utils.StringOrNil(gothUser.AvatarURL)
			user.Username = name
			if err := s.store.UpdateUserNameAndAvatar(ctx, user); err != nil {
				return nil, err
			}
		}
		return user, nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		newUser := &users.User{
			ID:         uuid.New(),
			Email:      gothUser.Email,
			Username:   displayName(gothUser),
			Provider:   utils.Ptr(gothUser.Provider),
			ProviderID: utils.Ptr(gothUser.UserID),
			AvatarURL:  utils.StringOrNil(gothUser.AvatarURL),
		}
		err := s.store.CreateUser(ctx, newUser)
		return newUser, err
	}

	return nil, err
}

func (s *UserService) EnsureGuestUser(ctx context.Context) (*users.User, error) {
	user, err := s.store.GetUser(ctx, users.GuestID)
	if err == nil {
		return user, nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		guestUser := &users.User{
			ID:       users.GuestID,
			Email:    "guest@op-tournament.local",
			Username: "Guest",
			IsGuest:  true,
		}
		err := s.store.CreateUser(ctx, guestUser)
		return guestUser, err
	}
	return nil, err
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*users.User, error) {
	return s.store.GetUser(ctx, id)
}
