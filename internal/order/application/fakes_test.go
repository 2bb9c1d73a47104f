package application

import (
	"context"
	"strings"

	catalogdomain "github.com/alqabandi/burgerhouse/internal/catalog/domain"
	"github.com/alqabandi/burgerhouse/internal/order/domain"
	"github.com/alqabandi/burgerhouse/pkg/apperr"
)

type fakeRepo struct {
	orders    map[int64]domain.Order
	trackings map[int64]domain.DeliveryTracking
	ratings   map[int64]domain.Rating

	createCalls   int
	failCreates   int
	lastCheckout  CheckoutRecord
	lastEventType string
	lastPayload   []byte
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		orders:    map[int64]domain.Order{},
		trackings: map[int64]domain.DeliveryTracking{},
		ratings:   map[int64]domain.Rating{},
	}
}

func (f *fakeRepo) CreateCheckout(ctx context.Context, rec CheckoutRecord) (domain.Order, error) {
	f.createCalls++
	if f.failCreates > 0 {
		f.failCreates--
		return domain.Order{}, ErrCodeCollision
	}
	f.lastCheckout = rec
	order := rec.Order
	order.ID = int64(len(f.orders) + 1)
	order.Customer = rec.Customer
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return domain.Order{}, apperr.NotFound("order not found")
	}
	return o, nil
}

func (f *fakeRepo) GetByNumber(ctx context.Context, orderNumber string) (domain.Order, error) {
	for _, o := range f.orders {
		if strings.EqualFold(o.OrderNumber, orderNumber) {
			return o, nil
		}
	}
	return domain.Order{}, apperr.NotFound("order not found")
}

func (f *fakeRepo) FindByLookup(ctx context.Context, term string) (domain.Order, error) {
	for _, o := range f.orders {
		if strings.EqualFold(o.OrderNumber, term) ||
			strings.EqualFold(o.OrderNumber, "ORD-"+term) ||
			strings.EqualFold(o.TrackingCode, term) ||
			strings.EqualFold(o.TrackingCode, "TRK-"+term) {
			return o, nil
		}
	}
	return domain.Order{}, apperr.NotFound("order not found")
}

func (f *fakeRepo) List(ctx context.Context, limit, offset int) ([]domain.Order, int, error) {
	out := make([]domain.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, len(out), nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, upd StatusUpdate, eventFn StatusEventFunc) (domain.Order, error) {
	before, ok := f.orders[upd.OrderID]
	if !ok {
		return domain.Order{}, apperr.NotFound("order not found")
	}
	after := before
	after.Status = upd.Status
	if upd.PaymentStatus != nil {
		after.PaymentStatus = *upd.PaymentStatus
	}
	if upd.DeliveryETAMin != nil {
		after.DeliveryETAMin = upd.DeliveryETAMin
	}

	eventType, payload, err := eventFn(before, after)
	if err != nil {
		return domain.Order{}, err
	}
	f.lastEventType = eventType
	f.lastPayload = payload

	f.orders[upd.OrderID] = after
	return after, nil
}

func (f *fakeRepo) CreateRating(ctx context.Context, rating domain.Rating) (domain.Rating, error) {
	if _, exists := f.ratings[rating.OrderID]; exists {
		return domain.Rating{}, apperr.Conflict("order already rated")
	}
	rating.ID = int64(len(f.ratings) + 1)
	f.ratings[rating.OrderID] = rating
	return rating, nil
}

func (f *fakeRepo) GetDeliveryTracking(ctx context.Context, orderID int64) (domain.DeliveryTracking, error) {
	return f.trackings[orderID], nil
}

func (f *fakeRepo) GetRating(ctx context.Context, orderID int64) (*domain.Rating, error) {
	r, ok := f.ratings[orderID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

type fakeCatalog struct {
	meals map[int64]catalogdomain.Meal
}

func (f *fakeCatalog) FindByIDs(ctx context.Context, ids []int64) (map[int64]catalogdomain.Meal, error) {
	out := map[int64]catalogdomain.Meal{}
	for _, id := range ids {
		if m, ok := f.meals[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}
