package application

import (
	"context"
	"log/slog"
	"strings"

	"github.com/alqabandi/burgerhouse/internal/order/domain"
	"github.com/alqabandi/burgerhouse/pkg/apperr"
)

const lookupNotFoundMsg = "Order not found. Please check your order number and try again."

// TrackingService resolves orders for guest display. Read-only.
type TrackingService struct {
	log  *slog.Logger
	repo Repository
}

func NewTrackingService(log *slog.Logger, repo Repository) *TrackingService {
	return &TrackingService{log: log, repo: repo}
}

// Lookup matches a search term against the order number, the ORD-prefixed
// variant, the tracking code, or the TRK-prefixed variant,
// case-insensitively.
func (s *TrackingService) Lookup(ctx context.Context, term string) (domain.Order, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return domain.Order{}, apperr.Validation(map[string]string{"order_number": "required"})
	}
	order, err := s.repo.FindByLookup(ctx, term)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return domain.Order{}, apperr.NotFound(lookupNotFoundMsg)
	}
	return order, err
}

// Track loads the full tracking view for one order number.
func (s *TrackingService) Track(ctx context.Context, orderNumber string) (domain.Order, domain.DeliveryTracking, *domain.Rating, error) {
	order, err := s.repo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return domain.Order{}, domain.DeliveryTracking{}, nil, err
	}
	tracking, err := s.repo.GetDeliveryTracking(ctx, order.ID)
	if err != nil {
		return domain.Order{}, domain.DeliveryTracking{}, nil, err
	}
	rating, err := s.repo.GetRating(ctx, order.ID)
	if err != nil {
		return domain.Order{}, domain.DeliveryTracking{}, nil, err
	}
	return order, tracking, rating, nil
}
