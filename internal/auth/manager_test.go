package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-artisan-market/internal/clock"
	"github.com/ariefcatur/go-artisan-market/internal/market"
)

func newTestManager(t *testing.T, c clock.Clock) (*Manager, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore(c)
	m, err := NewManager(ManagerConfig{Store: store, Secret: "test-secret", TTL: time.Hour, Clock: c})
	require.NoError(t, err)
	return m, store
}

func cookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func TestManagerRoundTrip(t *testing.T) {
	m, _ := newTestManager(t, clock.RealClock{})
	alice := Identity{UserID: 7, Role: market.RoleBuyer, Username: "alice", Name: "Alice"}

	rec := httptest.NewRecorder()
	require.NoError(t, m.Begin(rec, httptest.NewRequest(http.MethodPost, "/login_buyer", nil), alice))
	c := cookieFrom(t, rec)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, DefaultCookieName, c.Name)

	req := httptest.NewRequest(http.MethodGet, "/browse", nil)
	req.AddCookie(c)
	assert.Equal(t, alice, m.Resolve(req))

	rec = httptest.NewRecorder()
	m.End(rec, req)
	assert.Equal(t, Identity{}, m.Resolve(req))
}

func TestManagerRejectsTamperedCookie(t *testing.T) {
	m, _ := newTestManager(t, clock.RealClock{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "forged"})
	assert.False(t, m.Resolve(req).LoggedIn())

	other, err := NewManager(ManagerConfig{Store: NewMemoryStore(nil), Secret: "other-secret"})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	require.NoError(t, other.Begin(rec, httptest.NewRequest(http.MethodPost, "/", nil), Identity{UserID: 1, Role: market.RoleAdmin}))
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookieFrom(t, rec))
	assert.False(t, m.Resolve(req).LoggedIn())
}

func TestMemoryStoreExpiry(t *testing.T) {
	fc := clock.NewFixedClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	store := NewMemoryStore(fc)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Session{ID: "s1"}, time.Minute))
	_, err := store.Load(ctx, "s1")
	require.NoError(t, err)

	fc.Advance(time.Minute)
	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMiddlewareStoresIdentity(t *testing.T) {
	m, _ := newTestManager(t, clock.RealClock{})
	id := Identity{UserID: 3, Role: market.RoleArtisan, Username: "john", Name: "John"}

	rec := httptest.NewRecorder()
	require.NoError(t, m.Begin(rec, httptest.NewRequest(http.MethodPost, "/", nil), id))

	var seen Identity
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/artisan_dashboard", nil)
	req.AddCookie(cookieFrom(t, rec))
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, id, seen)
	assert.True(t, seen.Is(market.RoleArtisan))
	assert.False(t, seen.Is(market.RoleBuyer))
}
