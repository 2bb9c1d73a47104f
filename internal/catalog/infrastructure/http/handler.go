package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alqabandi/burgerhouse/internal/catalog/domain"
	"github.com/alqabandi/burgerhouse/pkg/httpx"
	"github.com/alqabandi/burgerhouse/pkg/money"
)

type MealLister interface {
	ListActive(ctx context.Context) ([]domain.Meal, error)
}

type Handler struct {
	log   *slog.Logger
	meals MealLister
}

func NewHandler(log *slog.Logger, meals MealLister) *Handler {
	return &Handler{log: log, meals: meals}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/meals", h.listMeals)
}

type mealResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	PriceText   string  `json:"price_text"`
	ImageURL    string  `json:"image_url,omitempty"`
}

func (h *Handler) listMeals(w http.ResponseWriter, r *http.Request) {
	locale := r.URL.Query().Get("locale")
	if locale != "ar" {
		locale = "en"
	}

	meals, err := h.meals.ListActive(r.Context())
	if err != nil {
		h.log.Error("list meals failed", "err", err)
		httpx.WriteError(w, err)
		return
	}

	out := make([]mealResponse, 0, len(meals))
	for _, m := range meals {
		out = append(out, mealResponse{
			ID:          m.ID,
			Name:        m.Name(locale),
			Description: m.Description(locale),
			Price:       money.Major(m.PriceFils, "KWD"),
			PriceText:   money.Format(m.PriceFils, "KWD"),
			ImageURL:    m.ImageURL,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"meals": out})
}
