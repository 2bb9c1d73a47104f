package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alqabandi/burgerhouse/internal/order/domain"
	"github.com/alqabandi/burgerhouse/pkg/apperr"
)

func TestLookupMatchesVariants(t *testing.T) {
	repo := newFakeRepo()
	seedOrder(repo)
	svc := NewTrackingService(discardLogger(), repo)

	for _, term := range []string{
		"ORD-AB12CD34",
		"ord-ab12cd34",
		"AB12CD34",
		"TRK-XY98ZW7654",
		"XY98ZW7654",
		"  ORD-AB12CD34  ",
	} {
		order, err := svc.Lookup(context.Background(), term)
		require.NoError(t, err, "term %q", term)
		assert.Equal(t, int64(1), order.ID)
	}
}

func TestLookupMissReturnsFriendlyNotFound(t *testing.T) {
	repo := newFakeRepo()
	seedOrder(repo)
	svc := NewTrackingService(discardLogger(), repo)

	_, err := svc.Lookup(context.Background(), "ORD-NOPE0000")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "check your order number")
}

func TestLookupBlankTermRejected(t *testing.T) {
	svc := NewTrackingService(discardLogger(), newFakeRepo())

	_, err := svc.Lookup(context.Background(), "   ")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRateRequiresDeliveredOrder(t *testing.T) {
	repo := newFakeRepo()
	seedOrder(repo)
	svc := NewRatingService(discardLogger(), repo)

	_, err := svc.Rate(context.Background(), RatingInput{OrderNumber: "ORD-AB12CD34", Score: 5})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRateOncePerOrder(t *testing.T) {
	repo := newFakeRepo()
	order := seedOrder(repo)
	order.Status = domain.StatusDelivered
	repo.orders[order.ID] = order
	svc := NewRatingService(discardLogger(), repo)

	in := RatingInput{OrderNumber: "ORD-AB12CD34", Score: 4, Comment: "great burger"}
	rating, err := svc.Rate(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 4, rating.Score)

	_, err = svc.Rate(context.Background(), in)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRateScoreBounds(t *testing.T) {
	svc := NewRatingService(discardLogger(), newFakeRepo())

	for _, score := range []int{0, 6, -1} {
		_, err := svc.Rate(context.Background(), RatingInput{OrderNumber: "ORD-AB12CD34", Score: score})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), "score %d", score)
	}
}
