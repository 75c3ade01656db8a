package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/AdamBeresnev/op-tournament/internal/config"
	"github.com/AdamBeresnev/op-tournament/internal/httputil"
	users "github.com/AdamBeresnev/op-tournament/internal/user"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/markbates/goth/providers/discord"
	"github.com/markbates/goth/providers/google"
)

type ContextKey string

const UserIDKey ContextKey = "userID"

// SessionUserKey is the scs key holding the logged in user id
const SessionUserKey = "userID"

// InitAuth registers the OAuth providers that have credentials configured
func InitAuth(cfg *config.Config) {
	var providers []goth.Provider
	if cfg.Discord.Enabled() {
		providers = append(providers, discord.New(cfg.Discord.Key, cfg.Discord.Secret, cfg.Discord.CallbackURL, discord.ScopeIdentify, discord.ScopeEmail))
	}
	if cfg.Google.Enabled() {
		providers = append(providers, google.New(cfg.Google.Key, cfg.Google.Secret, cfg.Google.CallbackURL, "email", "profile"))
	}
	if len(providers) == 0 {
		slog.Warn("no OAuth providers configured, only guest login is available")
		return
	}
	goth.UseProviders(providers...)
}

type UserGetter interface {
	GetUser(ctx context.Context, id uuid.UUID) (*users.User, error)
}

// LoadAuthenticatedUser puts the session user in the request context when there is one.
// It never rejects a request.
func LoadAuthenticatedUser(sessionManager *scs.SessionManager, userStore UserGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userIDStr := sessionManager.GetString(r.Context(), SessionUserKey)
			if userIDStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := uuid.Parse(userIDStr)
			if err != nil {
				sessionManager.Remove(r.Context(), SessionUserKey)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)

			// Add the user to context so that we can easily get it whenever we want
			user, err := userStore.GetUser(ctx, userID)
			if err == nil {
				ctx = context.WithValue(ctx, users.UserKey, user)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetAuthenticatedUser(r.Context()) == nil {
			httputil.APIError(w, http.StatusUnauthorized, "Login required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin lets through logged in, non guest users whose email isAdmin accepts
func RequireAdmin(isAdmin func(email string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetAuthenticatedUser(r.Context())
			if user == nil {
				httputil.APIError(w, http.StatusUnauthorized, "Login required", nil)
				return
			}
			if user.IsGuest || !isAdmin(user.Email) {
				httputil.APIError(w, http.StatusForbidden, "Admin access required", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	val := ctx.Value(UserIDKey)
	if val == nil {
		return uuid.Nil, false
	}

	id, ok := val.(uuid.UUID)
	return id, ok
}

func GetAuthenticatedUser(ctx context.Context) *users.User {
	val := ctx.Value(users.UserKey)
	if val == nil {
		return nil
	}
	user, ok := val.(*users.User)
	if !ok {
		return nil
	}
	return user
}

// WithUser attaches a user without a session
func WithUser(ctx context.Context, user *users.User) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, user.ID)
	return context.WithValue(ctx, users.UserKey, user)
}
