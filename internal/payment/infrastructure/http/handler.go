package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/alqabandi/burgerhouse/internal/payment/application"
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
	r.Post("/orders/{number}/payment", h.initiate)
	r.Get("/payments/upayment/result", h.result)
	r.Get("/payments/upayment/error", h.failure)
}

// initiate takes the numeric order id in the path.
func (h *Handler) initiate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "number"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, apperr.NotFound("order not found"))
		return
	}

	link, err := h.svc.InitiateCharge(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"payment_url": link,
	})
}

// result handles the provider's success callback. A replayed callback for
// an already-paid order answers success so the provider stops retrying.
func (h *Handler) result(w http.ResponseWriter, r *http.Request) {
	cb := callbackFromQuery(r)

	order, err := h.svc.HandleSuccess(r.Context(), cb)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			httpx.WriteJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"message": "already processed",
			})
			return
		}
		h.log.Error("success callback failed", "order_id", cb.RequestedOrderID, "err", err)
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"message":      "Payment confirmed",
		"order_number": order.OrderNumber,
		"status":       order.Status,
	})
}

func (h *Handler) failure(w http.ResponseWriter, r *http.Request) {
	cb := callbackFromQuery(r)

	order, msg, err := h.svc.HandleFailure(r.Context(), cb)
	if err != nil {
		h.log.Error("failure callback failed", "order_id", cb.RequestedOrderID, "err", err)
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":      false,
		"message":      msg,
		"order_number": order.OrderNumber,
		"status":       order.Status,
	})
}

func callbackFromQuery(r *http.Request) application.Callback {
	q := r.URL.Query()
	return application.Callback{
		RequestedOrderID: q.Get("requested_order_id"),
		ProviderOrderID:  q.Get("order_id"),
		TrackID:          q.Get("track_id"),
		TransactionDate:  q.Get("transaction_date"),
		PaymentType:      q.Get("payment_type"),
		Result:           q.Get("result"),
	}
}
