package auth

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"

	"github.com/ariefcatur/go-artisan-market/internal/clock"
	"github.com/ariefcatur/go-artisan-market/internal/logging"
)

const DefaultCookieName = "market_session"

// Manager issues and resolves sessions. The cookie value is the session id signed
// with a key derived from the configured secret.
type Manager struct {
	store      Store
	codec      *securecookie.SecureCookie
	cookieName string
	ttl        time.Duration
	clock      clock.Clock
	secure     bool
}

type ManagerConfig struct {
	Store      Store
	Secret     string
	CookieName string
	TTL        time.Duration
	Clock      clock.Clock
	Secure     bool // set the Secure flag on the cookie
}

func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.Store == nil {
		return nil, errors.New("session store is required")
	}
	if cfg.Secret == "" {
		return nil, errors.New("session secret is required")
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.RealClock{}
	}
	hashKey := sha256.Sum256([]byte("session-hash:" + cfg.Secret))
	codec := securecookie.New(hashKey[:], nil)
	codec.MaxAge(int(cfg.TTL.Seconds()))
	return &Manager{
		store:      cfg.Store,
		codec:      codec,
		cookieName: cfg.CookieName,
		ttl:        cfg.TTL,
		clock:      cfg.Clock,
		secure:     cfg.Secure,
	}, nil
}

// Begin replaces any current session with a fresh one for id.
func (m *Manager) Begin(w http.ResponseWriter, r *http.Request, id Identity) error {
	if old, ok := m.sessionID(r); ok {
		_ = m.store.Delete(r.Context(), old)
	}
	sess := Session{ID: uuid.NewString(), Identity: id, CreatedAt: m.clock.Now().UTC()}
	if err := m.store.Save(r.Context(), sess, m.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	value, err := m.codec.Encode(m.cookieName, sess.ID)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// End destroys the server-side session and expires the cookie.
func (m *Manager) End(w http.ResponseWriter, r *http.Request) {
	if id, ok := m.sessionID(r); ok {
		if err := m.store.Delete(r.Context(), id); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("delete session")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Resolve returns the identity behind the request cookie, or the anonymous identity.
func (m *Manager) Resolve(r *http.Request) Identity {
	id, ok := m.sessionID(r)
	if !ok {
		return Identity{}
	}
	sess, err := m.store.Load(r.Context(), id)
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("load session")
		}
		return Identity{}
	}
	return sess.Identity
}

func (m *Manager) sessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	var id string
	if err := m.codec.Decode(m.cookieName, c.Value, &id); err != nil {
		return "", false
	}
	return id, true
}

type ctxKey struct{}

// Middleware resolves the session once and stores the identity on the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := m.Resolve(r)
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(ctxKey{}).(Identity)
	return id
}
