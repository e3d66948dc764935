// Package seed bootstraps accounts and demo catalog data. Every function is safe to
// run repeatedly: rows that already exist are left alone.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-artisan-market/internal/market"
)

const (
	AdminUsername = "admin"
	AdminPassword = "admin123"
	AdminEmail    = "admin@artisanmarketplace.com"
	AdminName     = "Administrator"

	DemoPassword = "password123"

	demoViews = 3
)

type Store interface {
	CreateArtisan(ctx context.Context, a market.NewArtisan) (int64, error)
	CreateBuyer(ctx context.Context, b market.NewBuyer) (int64, error)
	CreateAdmin(ctx context.Context, a market.NewAdmin) (int64, error)
	FindCredentials(ctx context.Context, role market.Role, username string) (market.Credentials, error)
	ProductsByArtisan(ctx context.Context, artisanID int64) ([]market.Product, error)
	CreateProduct(ctx context.Context, np market.NewProduct) (market.Product, error)
	RecordInteraction(ctx context.Context, in market.Interaction) error
}

type Hasher interface {
	Hash(password string) (string, error)
}

// EnsureAdmin creates the default admin account. created is false when it already existed.
func EnsureAdmin(ctx context.Context, s Store, h Hasher) (created bool, err error) {
	hash, err := h.Hash(AdminPassword)
	if err != nil {
		return false, err
	}
	_, err = s.CreateAdmin(ctx, market.NewAdmin{
		Username: AdminUsername, Email: AdminEmail, PasswordHash: hash, Name: AdminName,
	})
	if errors.Is(err, market.ErrAlreadyExists) {
		return false, nil
	}
	return err == nil, err
}

type demoProduct struct {
	artisan     string // username
	name        string
	description string
	category    string
	price       string
	language    string
}

var (
	demoArtisans = []market.NewArtisan{
		{Username: "john_artisan", Email: "john@example.com", Name: "John Smith", Location: "New York, USA", Language: "en"},
		{Username: "maria_craft", Email: "maria@example.com", Name: "Maria Garcia", Location: "Barcelona, Spain", Language: "es"},
		{Username: "akira_wood", Email: "akira@example.com", Name: "Akira Tanaka", Location: "Tokyo, Japan", Language: "ja"},
		{Username: "sophie_pottery", Email: "sophie@example.com", Name: "Sophie Dubois", Location: "Paris, France", Language: "fr"},
	}
	demoBuyers = []market.NewBuyer{
		{Username: "alice_buyer", Email: "alice@example.com", Name: "Alice Johnson", Preferences: "jewelry, pottery, textiles"},
		{Username: "bob_shopper", Email: "bob@example.com", Name: "Bob Wilson", Preferences: "woodwork, handicraft"},
		{Username: "charlie_collector", Email: "charlie@example.com", Name: "Charlie Brown", Preferences: "all categories"},
	}
	// prices in INR
	demoProducts = []demoProduct{
		{"john_artisan", "Handcrafted Oak Bowl", "A beautiful handcrafted wooden bowl made from premium oak wood. Each piece is unique and finished with natural beeswax.", "woodwork", "3817.17", "en"},
		{"maria_craft", "Ceramic Vase Collection", "A stunning collection of ceramic vases inspired by traditional Spanish pottery. Each vase is hand-painted with intricate patterns.", "pottery", "7469.17", "es"},
		{"akira_wood", "Silk Kimono Scarf", "Elegant silk scarf featuring traditional Japanese motifs. Made from 100% pure silk with hand-dyed patterns.", "textile", "10375.00", "ja"},
		{"sophie_pottery", "Silver Pendant Necklace", "Delicate silver pendant necklace with hand-engraved floral design. Comes with a matching chain and gift box.", "jewelry", "6266.50", "fr"},
		{"john_artisan", "Rustic Wooden Clock", "Unique wooden wall clock made from reclaimed barn wood. Features a minimalist design with Roman numerals.", "woodwork", "5395.00", "en"},
		{"maria_craft", "Handwoven Tapestry", "Colorful handwoven tapestry depicting Spanish countryside scenes. Made using traditional weaving techniques.", "textile", "12450.00", "es"},
		{"akira_wood", "Bamboo Tea Set", "Complete bamboo tea set including teapot, cups, and serving tray. Perfect for traditional Japanese tea ceremonies.", "handicraft", "7885.00", "ja"},
		{"sophie_pottery", "Ceramic Dinnerware Set", "Elegant ceramic dinnerware set for four people. Features a modern design with subtle French-inspired patterns.", "pottery", "9960.00", "fr"},
	}
)

// Report counts what a Demo run inserted.
type Report struct {
	Artisans  int
	Buyers    int
	Products  int
	Views     int
	Usernames []string
}

// Demo inserts sample artisans, buyers and products, plus a few views for the first
// buyer so recommendations have history. All demo accounts use DemoPassword.
func Demo(ctx context.Context, s Store, h Hasher) (Report, error) {
	var rep Report
	hash, err := h.Hash(DemoPassword)
	if err != nil {
		return rep, err
	}

	artisanIDs := map[string]int64{}
	for _, a := range demoArtisans {
		a.PasswordHash = hash
		_, err := s.CreateArtisan(ctx, a)
		switch {
		case err == nil:
			rep.Artisans++
		case !errors.Is(err, market.ErrAlreadyExists):
			return rep, fmt.Errorf("artisan %s: %w", a.Username, err)
		}
		rep.Usernames = append(rep.Usernames, a.Username)
		id, err := lookup(ctx, s, market.RoleArtisan, a.Username)
		if err != nil {
			return rep, err
		}
		artisanIDs[a.Username] = id
	}

	var firstBuyer int64
	for i, b := range demoBuyers {
		b.PasswordHash = hash
		_, err := s.CreateBuyer(ctx, b)
		switch {
		case err == nil:
			rep.Buyers++
		case !errors.Is(err, market.ErrAlreadyExists):
			return rep, fmt.Errorf("buyer %s: %w", b.Username, err)
		}
		rep.Usernames = append(rep.Usernames, b.Username)
		if i == 0 {
			if firstBuyer, err = lookup(ctx, s, market.RoleBuyer, b.Username); err != nil {
				return rep, err
			}
		}
	}

	var productIDs []int64
	for _, dp := range demoProducts {
		id, created, err := ensureProduct(ctx, s, artisanIDs[dp.artisan], dp)
		if err != nil {
			return rep, err
		}
		if created {
			rep.Products++
			if len(productIDs) < demoViews {
				productIDs = append(productIDs, id)
			}
		}
	}

	for _, pid := range productIDs {
		err := s.RecordInteraction(ctx, market.Interaction{BuyerID: firstBuyer, ProductID: pid, Kind: market.InteractionView})
		if err != nil {
			return rep, fmt.Errorf("record demo view: %w", err)
		}
		rep.Views++
	}
	return rep, nil
}

func lookup(ctx context.Context, s Store, role market.Role, username string) (int64, error) {
	c, err := s.FindCredentials(ctx, role, username)
	if err != nil {
		return 0, fmt.Errorf("find %s %s: %w", role, username, err)
	}
	return c.ID, nil
}

// ensureProduct matches existing products by artisan and name.
func ensureProduct(ctx context.Context, s Store, artisanID int64, dp demoProduct) (int64, bool, error) {
	existing, err := s.ProductsByArtisan(ctx, artisanID)
	if err != nil {
		return 0, false, err
	}
	for _, p := range existing {
		if p.Name == dp.name {
			return p.ID, false, nil
		}
	}
	p, err := s.CreateProduct(ctx, market.NewProduct{
		ArtisanID:   artisanID,
		Name:        dp.name,
		Description: dp.description,
		Category:    dp.category,
		Price:       decimal.RequireFromString(dp.price),
		Language:    dp.language,
	})
	if err != nil {
		return 0, false, fmt.Errorf("product %q: %w", dp.name, err)
	}
	return p.ID, true, nil
}
