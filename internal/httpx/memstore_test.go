package httpx

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ariefcatur/go-artisan-market/internal/market"
)

// memStore is an in-memory stand-in for market.Repo with the same observable behaviour
// the handlers rely on: unique usernames, merged cart lines and cascading deletes.
type memStore struct {
	mu           sync.Mutex
	seq          int64
	now          time.Time
	accounts     map[market.Role][]memAccount
	products     []market.Product
	lines        []memLine
	interactions []market.Interaction

	failCreate error // CreateProduct returns this when set
}

type memAccount struct {
	market.Account
	hash string
}

type memLine struct {
	id, buyer, product int64
	qty                int
	added              time.Time
}

func newMemStore() *memStore {
	return &memStore{
		now:      time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		accounts: map[market.Role][]memAccount{},
	}
}

func (m *memStore) next() (int64, time.Time) {
	m.seq++
	m.now = m.now.Add(time.Second)
	return m.seq, m.now
}

func (m *memStore) create(role market.Role, a market.Account, hash string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.accounts[role] {
		if ex.Username == a.Username || ex.Email == a.Email {
			return 0, market.ErrAlreadyExists
		}
	}
	a.ID, a.CreatedAt = m.next()
	a.Role = role
	m.accounts[role] = append(m.accounts[role], memAccount{Account: a, hash: hash})
	return a.ID, nil
}

func (m *memStore) CreateArtisan(_ context.Context, a market.NewArtisan) (int64, error) {
	return m.create(market.RoleArtisan, market.Account{
		Username: a.Username, Email: a.Email, Name: a.Name, Location: a.Location, Language: a.Language,
	}, a.PasswordHash)
}

func (m *memStore) CreateBuyer(_ context.Context, b market.NewBuyer) (int64, error) {
	return m.create(market.RoleBuyer, market.Account{
		Username: b.Username, Email: b.Email, Name: b.Name, Preferences: b.Preferences,
	}, b.PasswordHash)
}

func (m *memStore) CreateAdmin(_ context.Context, a market.NewAdmin) (int64, error) {
	return m.create(market.RoleAdmin, market.Account{Username: a.Username, Email: a.Email, Name: a.Name}, a.PasswordHash)
}

func (m *memStore) FindCredentials(_ context.Context, role market.Role, username string) (market.Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts[role] {
		if a.Username == username {
			return market.Credentials{ID: a.ID, Username: a.Username, Name: a.Name, PasswordHash: a.hash}, nil
		}
	}
	return market.Credentials{}, market.ErrNotFound
}

func (m *memStore) ArtisanName(_ context.Context, id int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts[market.RoleArtisan] {
		if a.ID == id {
			return a.Name, nil
		}
	}
	return "", market.ErrNotFound
}

func (m *memStore) BuyerPreferences(_ context.Context, id int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts[market.RoleBuyer] {
		if a.ID == id {
			return a.Preferences, nil
		}
	}
	return "", market.ErrNotFound
}

func (m *memStore) ListAccounts(_ context.Context, role market.Role) ([]market.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []market.Account{}
	for i := len(m.accounts[role]) - 1; i >= 0; i-- {
		out = append(out, m.accounts[role][i].Account)
	}
	return out, nil
}

func (m *memStore) CreateProduct(ctx context.Context, np market.NewProduct) (market.Product, error) {
	if err := ctx.Err(); err != nil {
		return market.Product{}, err
	}
	if m.failCreate != nil {
		return market.Product{}, m.failCreate
	}
	m.mu.Lock()
	p := market.Product{
		ArtisanID: np.ArtisanID, Name: np.Name, Description: np.Description, Category: np.Category,
		Price: np.Price, AIStory: np.AIStory, Language: np.Language, ImagePath: np.ImagePath,
	}
	p.ID, p.CreatedAt = m.next()
	m.products = append(m.products, p)
	m.mu.Unlock()
	return m.GetProduct(context.Background(), p.ID)
}

func (m *memStore) withArtisan(p market.Product) market.Product {
	for _, a := range m.accounts[market.RoleArtisan] {
		if a.ID == p.ArtisanID {
			p.ArtisanName = a.Name
		}
	}
	return p
}

func (m *memStore) GetProduct(_ context.Context, id int64) (market.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.ID == id {
			return m.withArtisan(p), nil
		}
	}
	return market.Product{}, market.ErrNotFound
}

func (m *memStore) filter(keep func(market.Product) bool) []market.Product {
	out := []market.Product{}
	for i := len(m.products) - 1; i >= 0; i-- {
		if p := m.products[i]; keep(p) {
			out = append(out, m.withArtisan(p))
		}
	}
	return out
}

func (m *memStore) ProductsByArtisan(_ context.Context, artisanID int64) ([]market.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(p market.Product) bool { return p.ArtisanID == artisanID }), nil
}

func (m *memStore) Browse(_ context.Context, f market.BrowseFilter) ([]market.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	search := strings.ToLower(f.Search)
	out := m.filter(func(p market.Product) bool {
		if f.Category != "" && f.Category != market.CategoryAll && p.Category != f.Category {
			return false
		}
		return search == "" ||
			strings.Contains(strings.ToLower(p.Name), search) ||
			strings.Contains(strings.ToLower(p.Description), search)
	})
	switch f.Sort {
	case market.SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case market.SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	case market.SortName:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	case market.SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	}
	return out, nil
}

func (m *memStore) Categories(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for _, p := range m.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memStore) RecentProducts(_ context.Context, limit int) ([]market.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.filter(func(market.Product) bool { return true })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) DeleteProduct(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.products {
		if p.ID != id {
			continue
		}
		m.products = append(m.products[:i], m.products[i+1:]...)
		lines := m.lines[:0]
		for _, l := range m.lines {
			if l.product != id {
				lines = append(lines, l)
			}
		}
		m.lines = lines
		return nil
	}
	return market.ErrNotFound
}

func (m *memStore) ProductsByIDs(ctx context.Context, ids []int64) ([]market.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []market.Product{}
	for _, id := range ids {
		for _, p := range m.products {
			if p.ID == id {
				out = append(out, m.withArtisan(p))
			}
		}
	}
	return out, nil
}

func (m *memStore) RandomProducts(ctx context.Context, limit int) ([]market.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.RecentProducts(ctx, limit)
}

func (m *memStore) RandomProductsInCategories(ctx context.Context, categories []string, limit int) ([]market.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.filter(func(p market.Product) bool {
		for _, c := range categories {
			if p.Category == c {
				return true
			}
		}
		return false
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) SearchProducts(_ context.Context, terms []string, limit int) ([]market.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.filter(func(p market.Product) bool {
		hay := strings.ToLower(p.Name + " " + p.Description + " " + p.Category)
		for _, t := range terms {
			if !strings.Contains(hay, strings.ToLower(t)) {
				return false
			}
		}
		return true
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) AddToCart(_ context.Context, buyerID, productID int64, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	found := false
	for _, p := range m.products {
		found = found || p.ID == productID
	}
	if !found {
		return market.ErrNotFound
	}
	for i := range m.lines {
		if m.lines[i].buyer == buyerID && m.lines[i].product == productID {
			m.lines[i].qty += qty
			return nil
		}
	}
	id, at := m.next()
	m.lines = append(m.lines, memLine{id: id, buyer: buyerID, product: productID, qty: qty, added: at})
	return nil
}

func (m *memStore) RemoveCartLine(_ context.Context, buyerID, lineID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.lines {
		if l.id == lineID && l.buyer == buyerID {
			m.lines = append(m.lines[:i], m.lines[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memStore) UpdateCartQuantity(_ context.Context, buyerID, lineID int64, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.lines {
		if m.lines[i].id == lineID && m.lines[i].buyer == buyerID {
			m.lines[i].qty = qty
		}
	}
	return nil
}

func (m *memStore) Cart(_ context.Context, buyerID int64) (market.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var lines []market.CartLine
	for _, l := range m.lines {
		if l.buyer != buyerID {
			continue
		}
		for _, p := range m.products {
			if p.ID == l.product {
				p = m.withArtisan(p)
				lines = append(lines, market.CartLine{
					ID: l.id, Quantity: l.qty, ProductID: p.ID, Name: p.Name, Description: p.Description,
					Price: p.Price, ImagePath: p.ImagePath, ArtisanName: p.ArtisanName, AddedAt: l.added,
				})
			}
		}
	}
	return market.NewCart(lines), nil
}

func (m *memStore) RecordInteraction(_ context.Context, in market.Interaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interactions = append(m.interactions, in)
	return nil
}

func (m *memStore) RecentViews(_ context.Context, buyerID int64, limit int) ([]market.ViewedProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []market.ViewedProduct{}
	for i := len(m.interactions) - 1; i >= 0 && len(out) < limit; i-- {
		in := m.interactions[i]
		if in.BuyerID != buyerID {
			continue
		}
		for _, p := range m.products {
			if p.ID == in.ProductID {
				out = append(out, market.ViewedProduct{ProductID: p.ID, Category: p.Category, Name: p.Name})
			}
		}
	}
	return out, nil
}

func (m *memStore) Stats(_ context.Context) (market.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return market.Stats{
		Artisans:  int64(len(m.accounts[market.RoleArtisan])),
		Buyers:    int64(len(m.accounts[market.RoleBuyer])),
		Products:  int64(len(m.products)),
		CartLines: int64(len(m.lines)),
	}, nil
}
