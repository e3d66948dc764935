package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/ariefcatur/go-artisan-market/internal/auth"
	"github.com/ariefcatur/go-artisan-market/internal/logging"
	"github.com/ariefcatur/go-artisan-market/internal/market"
)

type AccountStore interface {
	CreateArtisan(ctx context.Context, a market.NewArtisan) (int64, error)
	CreateBuyer(ctx context.Context, b market.NewBuyer) (int64, error)
	FindCredentials(ctx context.Context, role market.Role, username string) (market.Credentials, error)
}

type RegisterArtisanReq struct {
	Username string `json:"username" validate:"required,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Location string `json:"location" validate:"required"`
	Language string `json:"language"`
}

type RegisterBuyerReq struct {
	Username    string `json:"username" validate:"required,max=80"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Preferences string `json:"preferences"`
}

type LoginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AccountsHandler struct {
	Store       AccountStore
	Sessions    *auth.Manager
	Passwords   auth.Passwords
	Service     string
	Currency    market.Currency
	LoginLimit  int
	LoginWindow time.Duration
}

func (h *AccountsHandler) Register(r chi.Router) {
	r.Get("/", h.index)
	r.Post("/register_artisan", h.registerArtisan)
	r.Post("/register_buyer", h.registerBuyer)
	r.Get("/logout", h.logout)

	r.Group(func(r chi.Router) {
		if h.LoginLimit > 0 {
			window := h.LoginWindow
			if window <= 0 {
				window = time.Minute
			}
			r.Use(httprate.Limit(h.LoginLimit, window,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					writeResult(w, http.StatusTooManyRequests, false, "Too many login attempts, try again later")
				}),
			))
		}
		r.Post("/login_artisan", h.login(market.RoleArtisan, "Login successful", "Invalid credentials"))
		r.Post("/login_buyer", h.login(market.RoleBuyer, "Login successful", "Invalid credentials"))
		r.Post("/admin_login", h.login(market.RoleAdmin, "Admin login successful", "Invalid admin credentials"))
	})
}

type landing struct {
	Service  string        `json:"service"`
	Currency string        `json:"currency"`
	LoggedIn bool          `json:"logged_in"`
	User     auth.Identity `json:"user"`
}

func (h *AccountsHandler) index(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())
	writeJSON(w, http.StatusOK, landing{
		Service:  h.Service,
		Currency: h.Currency.Code,
		LoggedIn: id.LoggedIn(),
		User:     id,
	})
}

func (h *AccountsHandler) registerArtisan(w http.ResponseWriter, r *http.Request) {
	var req RegisterArtisanReq
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	if req.Language == "" {
		req.Language = "en"
	}
	hash, err := h.Passwords.Hash(req.Password)
	if err != nil {
		internalError(w, r, err, "Registration failed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	_, err = h.Store.CreateArtisan(ctx, market.NewArtisan{
		Username: req.Username, Email: req.Email, PasswordHash: hash,
		Name: req.Name, Location: req.Location, Language: req.Language,
	})
	h.registered(w, r, err, "Artisan registered successfully")
}

func (h *AccountsHandler) registerBuyer(w http.ResponseWriter, r *http.Request) {
	var req RegisterBuyerReq
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	hash, err := h.Passwords.Hash(req.Password)
	if err != nil {
		internalError(w, r, err, "Registration failed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	_, err = h.Store.CreateBuyer(ctx, market.NewBuyer{
		Username: req.Username, Email: req.Email, PasswordHash: hash,
		Name: req.Name, Preferences: req.Preferences,
	})
	h.registered(w, r, err, "Buyer registered successfully")
}

func (h *AccountsHandler) registered(w http.ResponseWriter, r *http.Request, err error, ok string) {
	switch {
	case err == nil:
		writeResult(w, http.StatusOK, true, ok)
	case errors.Is(err, market.ErrAlreadyExists):
		writeResult(w, http.StatusConflict, false, "Username or email already exists")
	default:
		internalError(w, r, err, "Registration failed")
	}
}

func (h *AccountsHandler) login(role market.Role, ok, denied string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginReq
		if err := decodeJSON(r, &req); err != nil {
			badRequest(w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		cred, err := h.Store.FindCredentials(ctx, role, req.Username)
		if err != nil && !errors.Is(err, market.ErrNotFound) {
			internalError(w, r, err, "Login failed")
			return
		}
		if err != nil || !h.Passwords.Verify(cred.PasswordHash, req.Password) {
			logging.Ctx(r.Context()).Info().Str("role", string(role)).Str("username", req.Username).Msg("login rejected")
			writeResult(w, http.StatusUnauthorized, false, denied)
			return
		}

		id := auth.Identity{UserID: cred.ID, Role: role, Username: cred.Username, Name: cred.Name}
		if err := h.Sessions.Begin(w, r, id); err != nil {
			internalError(w, r, err, "Login failed")
			return
		}
		writeResult(w, http.StatusOK, true, ok)
	}
}

func (h *AccountsHandler) logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.End(w, r)
	redirect(w, r, "/")
}
