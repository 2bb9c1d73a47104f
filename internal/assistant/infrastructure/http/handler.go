package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alqabandi/burgerhouse/internal/assistant/application"
	"github.com/alqabandi/burgerhouse/pkg/apperr"
	"github.com/alqabandi/burgerhouse/pkg/httpx"
)

type Handler struct {
	svc *application.Service
}

func NewHandler(svc *application.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/assistant/chat", h.chat)
}

func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	var in application.ChatInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, apperr.Validation(map[string]string{"body": "invalid JSON"}))
		return
	}

	reply, err := h.svc.Chat(r.Context(), in)
	if err != nil {
		// Provider failures still hand the UI a localized fallback reply
		// instead of a bare error.
		var ae *apperr.Error
		if errors.As(err, &ae) && ae.Kind == apperr.KindExternal {
			httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"reply": ae.Message})
			return
		}
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, reply)
}
