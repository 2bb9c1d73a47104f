package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/alqabandi/burgerhouse/internal/order/application"
	"github.com/alqabandi/burgerhouse/internal/order/domain"
	"github.com/alqabandi/burgerhouse/pkg/apperr"
	"github.com/alqabandi/burgerhouse/pkg/httpx"
	"github.com/alqabandi/burgerhouse/pkg/money"
)

type Handler struct {
	log      *slog.Logger
	checkout *application.CheckoutService
	tracking *application.TrackingService
	ratings  *application.RatingService
	status   *application.StatusService
	repo     application.Repository
}

func NewHandler(
	log *slog.Logger,
	checkout *application.CheckoutService,
	tracking *application.TrackingService,
	ratings *application.RatingService,
	status *application.StatusService,
	repo application.Repository,
) *Handler {
	return &Handler{log: log, checkout: checkout, tracking: tracking, ratings: ratings, status: status, repo: repo}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/checkout", h.createCheckout)
	r.Post("/track/search", h.search)
	r.Get("/orders/{number}/track", h.track)
	r.Post("/orders/{number}/rating", h.rate)
}

// RegisterAdmin adds the back-office routes. Operator authentication sits
// in front of the service and is not handled here.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)
	r.Patch("/orders/{id}/status", h.updateStatus)
}

func (h *Handler) createCheckout(w http.ResponseWriter, r *http.Request) {
	var in application.CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, apperr.Validation(map[string]string{"body": "invalid JSON"}))
		return
	}

	order, err := h.checkout.Checkout(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"order":   orderView(order),
	})
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	var in struct {
		OrderNumber string `json:"order_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, apperr.Validation(map[string]string{"body": "invalid JSON"}))
		return
	}

	order, err := h.tracking.Lookup(r.Context(), in.OrderNumber)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"order":   orderView(order),
	})
}

func (h *Handler) track(w http.ResponseWriter, r *http.Request) {
	order, tracking, rating, err := h.tracking.Track(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	out := map[string]any{
		"order": orderView(order),
		"tracking": map[string]any{
			"status":     tracking.Status,
			"location":   tracking.Location,
			"eta":        tracking.ETA,
			"notes":      tracking.Notes,
			"updated_at": tracking.UpdatedAt,
		},
	}
	if rating != nil {
		out["rating"] = map[string]any{
			"score":   rating.Score,
			"comment": rating.Comment,
		}
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) rate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Score   int    `json:"score"`
		Comment string `json:"comment"`
		Locale  string `json:"locale"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, apperr.Validation(map[string]string{"body": "invalid JSON"}))
		return
	}

	rating, err := h.ratings.Rate(r.Context(), application.RatingInput{
		OrderNumber: chi.URLParam(r, "number"),
		Score:       in.Score,
		Comment:     in.Comment,
		Locale:      in.Locale,
	})
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"rating": map[string]any{
			"score":   rating.Score,
			"comment": rating.Comment,
		},
	})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}

	orders, total, err := h.repo.List(r.Context(), limit, (page-1)*limit)
	if err != nil {
		h.log.Error("list orders failed", "err", err)
		httpx.WriteError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderView(o))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"orders": out,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, apperr.NotFound("order not found"))
		return
	}

	order, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"order": orderView(order)})
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, apperr.NotFound("order not found"))
		return
	}

	var in struct {
		Status         string  `json:"status"`
		PaymentStatus  *string `json:"payment_status"`
		DeliveryETAMin *int    `json:"delivery_eta_minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, apperr.Validation(map[string]string{"body": "invalid JSON"}))
		return
	}

	upd := application.StatusUpdate{
		OrderID:        id,
		Status:         domain.Status(in.Status),
		DeliveryETAMin: in.DeliveryETAMin,
	}
	if in.PaymentStatus != nil {
		ps := domain.PaymentStatus(*in.PaymentStatus)
		upd.PaymentStatus = &ps
	}

	order, err := h.status.UpdateStatus(r.Context(), upd)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"order":   orderView(order),
	})
}

func orderView(o domain.Order) map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, map[string]any{
			"meal_id":    it.MealID,
			"name":       it.MealName(o.Locale),
			"quantity":   it.Quantity,
			"unit_price": money.Major(it.UnitPriceFils, o.Currency),
			"total":      money.Major(it.TotalFils, o.Currency),
		})
	}

	view := map[string]any{
		"id":               o.ID,
		"order_number":     o.OrderNumber,
		"tracking_code":    o.TrackingCode,
		"status":           o.Status,
		"payment_status":   o.PaymentStatus,
		"total":            money.Major(o.TotalFils, o.Currency),
		"total_text":       money.Format(o.TotalFils, o.Currency),
		"currency":         o.Currency,
		"locale":           o.Locale,
		"customer_name":    o.Customer.Name,
		"delivery_address": o.DeliveryAddress,
		"delivery_city":    o.DeliveryCity,
		"created_at":       o.CreatedAt,
		"items":            items,
	}
	if o.DeliveryETAMin != nil {
		view["delivery_eta_minutes"] = *o.DeliveryETAMin
	}
	return view
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
