package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/ariefcatur/go-artisan-market/internal/auth"
	"github.com/ariefcatur/go-artisan-market/internal/logging"
	"github.com/ariefcatur/go-artisan-market/internal/market"
	"github.com/ariefcatur/go-artisan-market/internal/recommend"
)

const adminRecentProducts = 10

type DashboardStore interface {
	ProductsByArtisan(ctx context.Context, artisanID int64) ([]market.Product, error)
	Stats(ctx context.Context) (market.Stats, error)
	RecentProducts(ctx context.Context, limit int) ([]market.Product, error)
	ListAccounts(ctx context.Context, role market.Role) ([]market.Account, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type Recommender interface {
	Recommend(ctx context.Context, buyerID int64, limit int) ([]market.Product, error)
}

type DashboardHandler struct {
	Store       DashboardStore
	Recommender Recommender
	Events      ProductEvents
	Currency    market.Currency
}

type artisanDashboard struct {
	User     auth.Identity `json:"user"`
	Products []productView `json:"products"`
}

type buyerDashboard struct {
	User            auth.Identity `json:"user"`
	Recommendations []productView `json:"recommendations"`
}

type adminDashboard struct {
	User           auth.Identity    `json:"user"`
	Stats          market.Stats     `json:"stats"`
	RecentProducts []productView    `json:"recent_products"`
	Artisans       []market.Account `json:"artisans"`
	Buyers         []market.Account `json:"buyers"`
}

func (h *DashboardHandler) Register(r chi.Router) {
	r.With(requirePage(market.RoleArtisan)).Get("/artisan_dashboard", h.artisan)
	r.With(requirePage(market.RoleBuyer)).Get("/buyer_dashboard", h.buyer)
	r.Group(func(r chi.Router) {
		r.Use(requirePage(market.RoleAdmin))
		r.Get("/admin_dashboard", h.admin)
		r.Get("/admin_delete_product/{id}", h.deleteProduct)
	})
}

func (h *DashboardHandler) artisan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id := auth.FromContext(ctx)
	products, err := h.Store.ProductsByArtisan(ctx, id.UserID)
	if err != nil {
		internalError(w, r, err, "Could not load products")
		return
	}
	writeJSON(w, http.StatusOK, artisanDashboard{User: id, Products: viewProducts(h.Currency, products)})
}

func (h *DashboardHandler) buyer(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())
	recs, err := h.Recommender.Recommend(r.Context(), id.UserID, recommend.DefaultLimit)
	if err != nil {
		internalError(w, r, err, "Could not load recommendations")
		return
	}
	writeJSON(w, http.StatusOK, buyerDashboard{User: id, Recommendations: viewProducts(h.Currency, recs)})
}

func (h *DashboardHandler) admin(w http.ResponseWriter, r *http.Request) {
	var (
		out    = adminDashboard{User: auth.FromContext(r.Context())}
		recent []market.Product
	)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Stats, err = h.Store.Stats(gctx)
		return err
	})
	g.Go(func() (err error) {
		recent, err = h.Store.RecentProducts(gctx, adminRecentProducts)
		return err
	})
	g.Go(func() (err error) {
		out.Artisans, err = h.Store.ListAccounts(gctx, market.RoleArtisan)
		return err
	})
	g.Go(func() (err error) {
		out.Buyers, err = h.Store.ListAccounts(gctx, market.RoleBuyer)
		return err
	})
	if err := g.Wait(); err != nil {
		internalError(w, r, err, "Could not load dashboard")
		return
	}
	out.RecentProducts = viewProducts(h.Currency, recent)
	writeJSON(w, http.StatusOK, out)
}

func (h *DashboardHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := idParam(r, "id")
	if !ok {
		redirect(w, r, "/admin_dashboard")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	admin := auth.FromContext(ctx)
	err := h.Store.DeleteProduct(ctx, productID)
	switch {
	case err == nil:
		logging.Ctx(ctx).Info().Int64("product_id", productID).Int64("admin_id", admin.UserID).Msg("product deleted")
		h.Events.ProductDeleted(middleware.GetReqID(ctx), productID, admin.UserID)
	case errors.Is(err, market.ErrNotFound):
	default:
		internalError(w, r, err, "Could not delete product")
		return
	}
	redirect(w, r, "/admin_dashboard")
}
