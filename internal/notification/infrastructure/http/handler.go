package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alqabandi/burgerhouse/internal/notification/application"
	"github.com/alqabandi/burgerhouse/pkg/apperr"
	"github.com/alqabandi/burgerhouse/pkg/httpx"
)

type Handler struct {
	log *slog.Logger
	svc *application.Service
}

func NewHandler(log *slog.Logger, svc *application.Service) *Handler {
	return &Handler{log: log, svc: svc}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/webhooks/whatsapp", h.inbound)
}

func (h *Handler) inbound(w http.ResponseWriter, r *http.Request) {
	var in application.InboundInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, apperr.Validation(map[string]string{"body": "invalid JSON"}))
		return
	}

	msg, err := h.svc.RecordInbound(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"message_id": msg.ID,
	})
}
