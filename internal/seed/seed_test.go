package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-artisan-market/internal/auth"
	"github.com/ariefcatur/go-artisan-market/internal/market"
)

type fakeStore struct {
	seq      int64
	users    map[market.Role]map[string]int64
	hashes   map[string]string
	products map[int64][]market.Product
	views    []market.Interaction
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[market.Role]map[string]int64{},
		hashes:   map[string]string{},
		products: map[int64][]market.Product{},
	}
}

func (f *fakeStore) add(role market.Role, username, hash string) (int64, error) {
	if f.users[role] == nil {
		f.users[role] = map[string]int64{}
	}
	if _, ok := f.users[role][username]; ok {
		return 0, market.ErrAlreadyExists
	}
	f.seq++
	f.users[role][username] = f.seq
	f.hashes[username] = hash
	return f.seq, nil
}

func (f *fakeStore) CreateArtisan(_ context.Context, a market.NewArtisan) (int64, error) {
	return f.add(market.RoleArtisan, a.Username, a.PasswordHash)
}

func (f *fakeStore) CreateBuyer(_ context.Context, b market.NewBuyer) (int64, error) {
	return f.add(market.RoleBuyer, b.Username, b.PasswordHash)
}

func (f *fakeStore) CreateAdmin(_ context.Context, a market.NewAdmin) (int64, error) {
	return f.add(market.RoleAdmin, a.Username, a.PasswordHash)
}

func (f *fakeStore) FindCredentials(_ context.Context, role market.Role, username string) (market.Credentials, error) {
	id, ok := f.users[role][username]
	if !ok {
		return market.Credentials{}, market.ErrNotFound
	}
	return market.Credentials{ID: id, Username: username, PasswordHash: f.hashes[username]}, nil
}

func (f *fakeStore) ProductsByArtisan(_ context.Context, artisanID int64) ([]market.Product, error) {
	return f.products[artisanID], nil
}

func (f *fakeStore) CreateProduct(_ context.Context, np market.NewProduct) (market.Product, error) {
	f.seq++
	p := market.Product{ID: f.seq, ArtisanID: np.ArtisanID, Name: np.Name, Category: np.Category, Price: np.Price}
	f.products[np.ArtisanID] = append(f.products[np.ArtisanID], p)
	return p, nil
}

func (f *fakeStore) RecordInteraction(_ context.Context, in market.Interaction) error {
	f.views = append(f.views, in)
	return nil
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	s := newFakeStore()
	pw := auth.Passwords{Scheme: auth.SchemeSHA256}

	created, err := EnsureAdmin(context.Background(), s, pw)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureAdmin(context.Background(), s, pw)
	require.NoError(t, err)
	assert.False(t, created)

	assert.True(t, pw.Verify(s.hashes[AdminUsername], AdminPassword))
}

func TestDemoSeedsOnce(t *testing.T) {
	s := newFakeStore()
	pw := auth.Passwords{Scheme: auth.SchemeSHA256}

	rep, err := Demo(context.Background(), s, pw)
	require.NoError(t, err)
	assert.Equal(t, 4, rep.Artisans)
	assert.Equal(t, 3, rep.Buyers)
	assert.Equal(t, 8, rep.Products)
	assert.Equal(t, 3, rep.Views)
	assert.Len(t, rep.Usernames, 7)

	aliceID := s.users[market.RoleBuyer]["alice_buyer"]
	for _, v := range s.views {
		assert.Equal(t, aliceID, v.BuyerID)
		assert.Equal(t, market.InteractionView, v.Kind)
	}
	assert.True(t, pw.Verify(s.hashes["maria_craft"], DemoPassword))

	johnID := s.users[market.RoleArtisan]["john_artisan"]
	require.Len(t, s.products[johnID], 2)
	assert.Equal(t, "3817.17", s.products[johnID][0].Price.StringFixed(2))

	rep, err = Demo(context.Background(), s, pw)
	require.NoError(t, err)
	assert.Zero(t, rep.Artisans)
	assert.Zero(t, rep.Buyers)
	assert.Zero(t, rep.Products)
	assert.Zero(t, rep.Views)
	assert.Len(t, s.views, 3)
}
