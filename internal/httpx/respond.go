package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/ariefcatur/go-artisan-market/internal/auth"
	"github.com/ariefcatur/go-artisan-market/internal/logging"
	"github.com/ariefcatur/go-artisan-market/internal/market"
	"github.com/ariefcatur/go-artisan-market/internal/validation"
)

const (
	msgUnauthorized   = "Unauthorized"
	msgInvalidRequest = "Invalid request"
	maxJSONBody       = 1 << 20
)

var errEmptyBody = errors.New("empty request body")

// Result is the {success, message} body most mutating endpoints answer with.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// storeContext bounds a store call that must run even when slow AI calls have used
// up the request deadline.
func storeContext(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), d)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeResult(w http.ResponseWriter, code int, success bool, message string) {
	writeJSON(w, code, Result{Success: success, Message: message})
}

// decodeJSON reads a JSON body into dst and validates it.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return validation.Struct(dst)
}

// badRequest logs why a body was rejected and answers the generic message.
func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	logging.Ctx(r.Context()).Debug().Err(err).Msg("rejected request body")
	writeResult(w, http.StatusBadRequest, false, msgInvalidRequest)
}

func internalError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg(msg)
	writeJSON(w, http.StatusInternalServerError, Result{Success: false, Message: msg})
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// requireJSON rejects callers without the role with a 401 body and no side effects.
func requireJSON(role market.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.FromContext(r.Context()).Is(role) {
				writeResult(w, http.StatusUnauthorized, false, msgUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requirePage sends callers without the role back to the landing page.
// RoleNone admits any logged-in identity.
func requirePage(role market.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := auth.FromContext(r.Context())
			ok := id.LoggedIn()
			if role != market.RoleNone {
				ok = id.Is(role)
			}
			if !ok {
				redirect(w, r, "/")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
