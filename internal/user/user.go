package users

import (
	"time"

	"github.com/google/uuid"
)

type ContextKey string

const UserKey ContextKey = "user"

// GuestID is the shared account behind "continue as guest"
var GuestID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

type User struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Email      string    `db:"email" json:"email"`
	Username   string    `db:"username" json:"username"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	Provider   *string   `db:"provider" json:"provider,omitempty"`
	ProviderID *string   `db:"provider_id" json:"-"`
	AvatarURL  *string   `db:"avatar_url" json:"avatarUrl,omitempty"`
	IsGuest    bool      `db:"is_guest" json:"isGuest"`
}
