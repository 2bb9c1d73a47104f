package application

import (
	"context"

	orderapp "github.com/alqabandi/burgerhouse/internal/order/application"
	orderdomain "github.com/alqabandi/burgerhouse/internal/order/domain"
	"github.com/alqabandi/burgerhouse/internal/payment/domain"
)

// ChargeRequest is the provider-neutral charge description the gateway
// client translates onto the wire.
type ChargeRequest struct {
	Products         []ChargeProduct
	OrderID          string
	Reference        string
	Description      string
	Currency         string
	Amount           float64
	Language         string
	CustomerUniqueID string
	CustomerName     string
	CustomerEmail    string
	CustomerMobile   string
	ReturnURL        string
	CancelURL        string
	NotificationURL  string
	GatewaySrc       string
}

type ChargeProduct struct {
	Name        string
	Description string
	Price       float64
	Quantity    int
}

// Gateway creates a hosted-checkout session and returns the redirect link
// plus the provider's tracking id.
type Gateway interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (link, trackID string, err error)
}

type OrderReader interface {
	GetByID(ctx context.Context, id int64) (orderdomain.Order, error)
}

type Repository interface {
	GetByOrderID(ctx context.Context, orderID int64) (domain.Payment, error)
	AttachTrackID(ctx context.Context, orderID int64, trackID string) error
	// MarkPaid and MarkFailed reconcile the callback into order + payment +
	// delivery tracking plus the outbox event, in one transaction. Both
	// reject orders that are no longer in a payable state.
	MarkPaid(ctx context.Context, orderID int64, reference string, meta map[string]any, eventFn orderapp.StatusEventFunc) (orderdomain.Order, error)
	MarkFailed(ctx context.Context, orderID int64, reference string, meta map[string]any, eventFn orderapp.StatusEventFunc) (orderdomain.Order, error)
}
