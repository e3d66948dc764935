package auth

import (
	"context"
	"errors"
	"time"

	"github.com/ariefcatur/go-artisan-market/internal/market"
)

var ErrNoSession = errors.New("no session")

// Identity is who a request acts as. The zero value is an anonymous visitor.
type Identity struct {
	UserID   int64       `json:"user_id"`
	Role     market.Role `json:"role"`
	Username string      `json:"username"`
	Name     string      `json:"name"`
}

func (i Identity) LoggedIn() bool { return i.UserID != 0 && i.Role != market.RoleNone }

func (i Identity) Is(role market.Role) bool { return i.LoggedIn() && i.Role == role }

type Session struct {
	ID        string    `json:"id"`
	Identity  Identity  `json:"identity"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists sessions server-side; the cookie only carries the id.
type Store interface {
	Save(ctx context.Context, s Session, ttl time.Duration) error
	Load(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}
