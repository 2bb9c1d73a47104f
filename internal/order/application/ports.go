package application

import (
	"context"

	catalogdomain "github.com/alqabandi/burgerhouse/internal/catalog/domain"
	"github.com/alqabandi/burgerhouse/internal/order/domain"
)

// CheckoutRecord is everything the checkout transaction writes: the
// customer to resolve-or-create, the order with its items, and the pending
// payment row. All writes happen in one transaction so no partial order is
// ever visible.
type CheckoutRecord struct {
	Customer domain.Customer
	Order    domain.Order

	PaymentProvider  string
	PaymentReference string
}

// StatusEventFunc builds the outbox event for a status change. It runs
// inside the update transaction with the row locked, so "before" is
// race-free. A nil payload means no event is emitted.
type StatusEventFunc func(before, after domain.Order) (eventType string, payload []byte, err error)

type StatusUpdate struct {
	OrderID        int64
	Status         domain.Status
	PaymentStatus  *domain.PaymentStatus
	DeliveryETAMin *int
}

type Repository interface {
	CreateCheckout(ctx context.Context, rec CheckoutRecord) (domain.Order, error)
	GetByID(ctx context.Context, id int64) (domain.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (domain.Order, error)
	FindByLookup(ctx context.Context, term string) (domain.Order, error)
	List(ctx context.Context, limit, offset int) ([]domain.Order, int, error)
	UpdateStatus(ctx context.Context, upd StatusUpdate, eventFn StatusEventFunc) (domain.Order, error)
	CreateRating(ctx context.Context, rating domain.Rating) (domain.Rating, error)
	GetDeliveryTracking(ctx context.Context, orderID int64) (domain.DeliveryTracking, error)
	GetRating(ctx context.Context, orderID int64) (*domain.Rating, error)
}

type MealCatalog interface {
	FindByIDs(ctx context.Context, ids []int64) (map[int64]catalogdomain.Meal, error)
}
