package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ariefcatur/go-artisan-market/internal/clock"
	"github.com/ariefcatur/go-artisan-market/internal/logging"
	"github.com/ariefcatur/go-artisan-market/internal/market"
)

const (
	searchLimit  = 5
	contextLimit = 5
	snippetRunes = 100
)

type Catalog interface {
	SearchProducts(ctx context.Context, terms []string, limit int) ([]market.Product, error)
	RecentProducts(ctx context.Context, limit int) ([]market.Product, error)
}

type Chatter interface {
	Chat(ctx context.Context, system, prompt string) (string, error)
}

type Reply struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type Assistant struct {
	catalog  Catalog
	chat     Chatter
	currency market.Currency
	clock    clock.Clock
}

func New(catalog Catalog, chat Chatter, currency market.Currency, c clock.Clock) *Assistant {
	if c == nil {
		c = clock.RealClock{}
	}
	return &Assistant{catalog: catalog, chat: chat, currency: currency, clock: c}
}

// UserContext is the one-line description of the caller handed to the chat model.
func UserContext(role, name string) string {
	return fmt.Sprintf("User type: %s, Name: %s", role, name)
}

// Respond never fails: shopping questions search the catalog, everything else goes
// to the chat model with canned replies behind it.
func (a *Assistant) Respond(ctx context.Context, message, userContext string) Reply {
	lower := strings.ToLower(message)
	if hasShoppingIntent(lower) {
		return a.reply(a.search(ctx, lower))
	}
	if text, err := a.chat.Chat(ctx, systemPreamble, a.prompt(ctx, message, userContext)); err == nil {
		return a.reply(text)
	}
	return a.reply(cannedReply(lower))
}

func (a *Assistant) reply(msg string) Reply {
	return Reply{Success: true, Message: msg, Timestamp: a.clock.Now()}
}

func hasShoppingIntent(lower string) bool {
	for _, k := range shoppingKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// searchTerms keeps the whitespace-separated words longer than two runes.
func searchTerms(lower string) []string {
	var terms []string
	for _, w := range strings.Fields(lower) {
		if len([]rune(w)) > 2 {
			terms = append(terms, w)
		}
	}
	return terms
}

func (a *Assistant) search(ctx context.Context, lower string) string {
	products, err := a.catalog.SearchProducts(ctx, searchTerms(lower), searchLimit)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("assistant product search")
		return searchFailed
	}
	if len(products) == 0 {
		return searchEmpty
	}
	var b strings.Builder
	b.WriteString(searchHeader)
	for _, p := range products {
		fmt.Fprintf(&b, "• %s (%s) by %s - %s\n", p.Name, p.Category, p.ArtisanName, a.currency.Format(p.Price))
		fmt.Fprintf(&b, "  %s...\n\n", truncateRunes(p.Description, snippetRunes))
	}
	b.WriteString(searchFooter)
	return b.String()
}

func (a *Assistant) prompt(ctx context.Context, message, userContext string) string {
	parts := append([]string{}, marketplaceFacts...)
	if userContext != "" {
		parts = append(parts, "\nCurrent user context: "+userContext)
	}
	recent, err := a.catalog.RecentProducts(ctx, contextLimit)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("assistant recent products")
	}
	if len(recent) > 0 {
		parts = append(parts, "\nRecent products available:")
		for _, p := range recent {
			parts = append(parts, fmt.Sprintf("- %s (%s) by %s - %s", p.Name, p.Category, p.ArtisanName, a.currency.Format(p.Price)))
		}
	}
	return "Context about the marketplace:\n" + strings.Join(parts, "\n") + "\n\nUser message: " + message
}

func cannedReply(lower string) string {
	for _, c := range cannedReplies {
		if strings.Contains(lower, c.key) {
			return c.reply
		}
	}
	return defaultReply
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
