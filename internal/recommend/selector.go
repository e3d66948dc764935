package recommend

import (
	"context"
	"time"

	"github.com/ariefcatur/go-artisan-market/internal/ai"
	"github.com/ariefcatur/go-artisan-market/internal/logging"
	"github.com/ariefcatur/go-artisan-market/internal/market"
	"github.com/ariefcatur/go-artisan-market/internal/metrics"
)

const (
	DefaultLimit = 6
	historySize  = 10
	storeTimeout = 3 * time.Second
)

type Store interface {
	BuyerPreferences(ctx context.Context, buyerID int64) (string, error)
	RecentViews(ctx context.Context, buyerID int64, limit int) ([]market.ViewedProduct, error)
	ProductsByIDs(ctx context.Context, ids []int64) ([]market.Product, error)
	RandomProductsInCategories(ctx context.Context, categories []string, limit int) ([]market.Product, error)
	RandomProducts(ctx context.Context, limit int) ([]market.Product, error)
}

type Suggester interface {
	SuggestProducts(ctx context.Context, buyerID int64, preferences string, history []market.ViewedProduct) []ai.Suggestion
}

type Selector struct {
	store   Store
	suggest Suggester
}

func NewSelector(store Store, suggest Suggester) *Selector {
	return &Selector{store: store, suggest: suggest}
}

// Recommend picks up to limit products for a buyer: the gateway's ranking first, then
// products from categories the buyer viewed, then random catalog products. Store
// failures degrade to an empty list instead of an error.
func (s *Selector) Recommend(ctx context.Context, buyerID int64, limit int) ([]market.Product, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	log := logging.Ctx(ctx)

	prefs, err := s.store.BuyerPreferences(ctx, buyerID)
	if err != nil {
		log.Warn().Err(err).Int64("buyer_id", buyerID).Msg("load preferences")
		prefs = ""
	}
	history, err := s.store.RecentViews(ctx, buyerID, historySize)
	if err != nil {
		log.Warn().Err(err).Int64("buyer_id", buyerID).Msg("load view history")
		history = nil
	}

	suggestions := s.suggest.SuggestProducts(ctx, buyerID, prefs, history)

	// a hung provider may have spent ctx; the lookups below still get their own budget
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()

	if len(suggestions) > 0 {
		if len(suggestions) > limit {
			suggestions = suggestions[:limit]
		}
		ids := make([]int64, len(suggestions))
		for i, sg := range suggestions {
			ids[i] = sg.ProductID
		}
		products, err := s.store.ProductsByIDs(sctx, ids)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("load suggested products")
		case len(products) > 0:
			metrics.RecommendSource.WithLabelValues("suggested").Inc()
			return products, nil
		}
	}

	if len(history) > 0 {
		products, err := s.store.RandomProductsInCategories(sctx, categoriesOf(history), limit)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("load category matches")
		case len(products) > 0:
			metrics.RecommendSource.WithLabelValues("category").Inc()
			return products, nil
		}
	}

	products, err := s.store.RandomProducts(sctx, limit)
	if err != nil {
		log.Warn().Err(err).Msg("load random products")
		return []market.Product{}, nil
	}
	metrics.RecommendSource.WithLabelValues("random").Inc()
	return products, nil
}

// categoriesOf returns distinct categories in first-seen order.
func categoriesOf(history []market.ViewedProduct) []string {
	seen := make(map[string]struct{}, len(history))
	out := make([]string, 0, len(history))
	for _, v := range history {
		if _, ok := seen[v.Category]; ok {
			continue
		}
		seen[v.Category] = struct{}{}
		out = append(out, v.Category)
	}
	return out
}
