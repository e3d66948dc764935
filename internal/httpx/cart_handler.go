package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-artisan-market/internal/auth"
	"github.com/ariefcatur/go-artisan-market/internal/logging"
	"github.com/ariefcatur/go-artisan-market/internal/market"
)

type CartStore interface {
	AddToCart(ctx context.Context, buyerID, productID int64, qty int) error
	RemoveCartLine(ctx context.Context, buyerID, lineID int64) error
	UpdateCartQuantity(ctx context.Context, buyerID, lineID int64, qty int) error
	Cart(ctx context.Context, buyerID int64) (market.Cart, error)
}

type AddToCartReq struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  *int  `json:"quantity"`
}

type RemoveFromCartReq struct {
	CartItemID int64 `json:"cart_item_id" validate:"required,gt=0"`
}

type UpdateCartQuantityReq struct {
	CartItemID int64 `json:"cart_item_id" validate:"required,gt=0"`
	Quantity   *int  `json:"quantity"`
}

type CartHandler struct {
	Store    CartStore
	Currency market.Currency
}

func (h *CartHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(requireJSON(market.RoleBuyer))
		r.Post("/add_to_cart", h.addToCart)
		r.Post("/remove_from_cart", h.removeFromCart)
		r.Post("/update_cart_quantity", h.updateQuantity)
	})
	r.With(requirePage(market.RoleBuyer)).Get("/cart", h.cart)
}

func quantityOrOne(q *int) int {
	if q == nil {
		return 1
	}
	return *q
}

func (h *CartHandler) addToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartReq
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	qty := quantityOrOne(req.Quantity)
	if qty <= 0 {
		writeResult(w, http.StatusBadRequest, false, "Quantity must be positive")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	buyer := auth.FromContext(ctx)
	if err := h.Store.AddToCart(ctx, buyer.UserID, req.ProductID, qty); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, market.ErrNotFound) {
			code = http.StatusNotFound
		} else {
			logging.Ctx(ctx).Error().Err(err).Int64("product_id", req.ProductID).Msg("add to cart")
		}
		writeResult(w, code, false, "Error adding to cart")
		return
	}
	writeResult(w, http.StatusOK, true, "Product added to cart")
}

func (h *CartHandler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	var req RemoveFromCartReq
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// Removing a line that is not the caller's is a silent no-op.
	if err := h.Store.RemoveCartLine(ctx, auth.FromContext(ctx).UserID, req.CartItemID); err != nil {
		internalError(w, r, err, "Error removing from cart")
		return
	}
	writeResult(w, http.StatusOK, true, "Item removed from cart")
}

func (h *CartHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateCartQuantityReq
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	qty := quantityOrOne(req.Quantity)
	if qty <= 0 {
		writeResult(w, http.StatusBadRequest, false, "Quantity must be positive")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Store.UpdateCartQuantity(ctx, auth.FromContext(ctx).UserID, req.CartItemID, qty); err != nil {
		internalError(w, r, err, "Error updating cart")
		return
	}
	writeResult(w, http.StatusOK, true, "Quantity updated")
}

func (h *CartHandler) cart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Store.Cart(ctx, auth.FromContext(ctx).UserID)
	if err != nil {
		internalError(w, r, err, "Could not load cart")
		return
	}
	writeJSON(w, http.StatusOK, viewCart(h.Currency, c))
}
