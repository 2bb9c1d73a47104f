package application

import (
	"context"
	"log/slog"

	"github.com/alqabandi/burgerhouse/internal/order/domain"
	"github.com/alqabandi/burgerhouse/pkg/apperr"
)

type RatingInput struct {
	OrderNumber string
	Score       int
	Comment     string
	Locale      string
}

// RatingService records one rating per delivered order.
type RatingService struct {
	log  *slog.Logger
	repo Repository
}

func NewRatingService(log *slog.Logger, repo Repository) *RatingService {
	return &RatingService{log: log, repo: repo}
}

func (s *RatingService) Rate(ctx context.Context, in RatingInput) (domain.Rating, error) {
	if in.Score < 1 || in.Score > 5 {
		return domain.Rating{}, apperr.Validation(map[string]string{"score": "must be between 1 and 5"})
	}
	locale := in.Locale
	if locale != "ar" {
		locale = "en"
	}

	order, err := s.repo.GetByNumber(ctx, in.OrderNumber)
	if err != nil {
		return domain.Rating{}, err
	}
	if order.Status != domain.StatusDelivered {
		return domain.Rating{}, apperr.Conflict("only delivered orders can be rated")
	}

	rating, err := s.repo.CreateRating(ctx, domain.Rating{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Score:      in.Score,
		Comment:    in.Comment,
		Locale:     locale,
	})
	if err != nil {
		return domain.Rating{}, err
	}
	s.log.Info("order rated", "order_id", order.ID, "score", in.Score)
	return rating, nil
}
