package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a row of artisans, buyers or admins. Location and Language are artisan-only,
// Preferences is buyer-only.
type Account struct {
	ID          int64     `json:"id"`
	Role        Role      `json:"role"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Location    string    `json:"location,omitempty"`
	Language    string    `json:"language,omitempty"`
	Preferences string    `json:"preferences,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type NewArtisan struct {
	Username     string
	Email        string
	PasswordHash string
	Name         string
	Location     string
	Language     string
}

type NewBuyer struct {
	Username     string
	Email        string
	PasswordHash string
	Name         string
	Preferences  string
}

type NewAdmin struct {
	Username     string
	Email        string
	PasswordHash string
	Name         string
}

// Credentials is what login needs: the stored hash plus the session identity.
type Credentials struct {
	ID           int64
	Username     string
	Name         string
	PasswordHash string
}

// AccountUpdate carries the editable profile fields; nil means unchanged.
type AccountUpdate struct {
	Name        *string
	Email       *string
	Location    *string
	Language    *string
	Preferences *string
}

type Product struct {
	ID          int64           `json:"id"`
	ArtisanID   int64           `json:"artisan_id"`
	ArtisanName string          `json:"artisan_name"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	AIStory     string          `json:"ai_story,omitempty"`
	Language    string          `json:"language"`
	ImagePath   string          `json:"image_path,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type NewProduct struct {
	ArtisanID   int64
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	AIStory     string
	Language    string
	ImagePath   string
}

type CartLine struct {
	ID          int64           `json:"id"`
	Quantity    int             `json:"quantity"`
	ProductID   int64           `json:"product_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImagePath   string          `json:"image_path,omitempty"`
	ArtisanName string          `json:"artisan_name"`
	AddedAt     time.Time       `json:"added_at"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	Lines []CartLine      `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

func NewCart(lines []CartLine) Cart {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	if lines == nil {
		lines = []CartLine{}
	}
	return Cart{Lines: lines, Total: total}
}

const InteractionView = "view"

type Interaction struct {
	BuyerID   int64
	ProductID int64
	Kind      string
	EventID   string // empty for direct writes
	At        time.Time
}

// ViewedProduct is one entry of a buyer's view history.
type ViewedProduct struct {
	ProductID int64  `json:"product_id"`
	Category  string `json:"category"`
	Name      string `json:"name"`
}

type Stats struct {
	Artisans  int64 `json:"artisan_count"`
	Buyers    int64 `json:"buyer_count"`
	Products  int64 `json:"product_count"`
	CartLines int64 `json:"cart_count"`
}
