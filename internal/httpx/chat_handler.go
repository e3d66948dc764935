package httpx

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-artisan-market/internal/assistant"
	"github.com/ariefcatur/go-artisan-market/internal/auth"
	"github.com/ariefcatur/go-artisan-market/internal/clock"
	"github.com/ariefcatur/go-artisan-market/internal/logging"
)

type Responder interface {
	Respond(ctx context.Context, message, userContext string) assistant.Reply
}

type ChatReq struct {
	Message string `json:"message"`
}

type ChatHandler struct {
	Assistant Responder
	Clock     clock.Clock
}

func (h *ChatHandler) Register(r chi.Router) {
	r.Get("/chatbot", h.greeting)
	r.Post("/api/chat", h.chat)
}

func (h *ChatHandler) now() time.Time {
	if h.Clock == nil {
		return time.Now()
	}
	return h.Clock.Now()
}

func (h *ChatHandler) reply(w http.ResponseWriter, code int, success bool, msg string) {
	writeJSON(w, code, assistant.Reply{Success: success, Message: msg, Timestamp: h.now()})
}

func (h *ChatHandler) greeting(w http.ResponseWriter, r *http.Request) {
	h.reply(w, http.StatusOK, true, assistant.Greeting)
}

// chat turns every failure, panics included, into the same apology.
func (h *ChatHandler) chat(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Ctx(r.Context()).Error().Interface("panic", rec).Msg("chat handler")
			h.reply(w, http.StatusOK, false, assistant.InternalError)
		}
	}()

	var req ChatReq
	if err := decodeJSON(r, &req); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("chat request")
		h.reply(w, http.StatusOK, false, assistant.InternalError)
		return
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		h.reply(w, http.StatusOK, false, assistant.EmptyMessage)
		return
	}

	var userContext string
	if id := auth.FromContext(r.Context()); id.LoggedIn() {
		userContext = assistant.UserContext(string(id.Role), id.Name)
	}
	writeJSON(w, http.StatusOK, h.Assistant.Respond(r.Context(), msg, userContext))
}
