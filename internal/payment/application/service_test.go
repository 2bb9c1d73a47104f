package application

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderapp "github.com/alqabandi/burgerhouse/internal/order/application"
	orderdomain "github.com/alqabandi/burgerhouse/internal/order/domain"
	"github.com/alqabandi/burgerhouse/internal/payment/domain"
	"github.com/alqabandi/burgerhouse/pkg/apperr"
)

type fakeOrders struct {
	order orderdomain.Order
}

func (f *fakeOrders) GetByID(ctx context.Context, id int64) (orderdomain.Order, error) {
	if id != f.order.ID {
		return orderdomain.Order{}, apperr.NotFound("order not found")
	}
	return f.order, nil
}

type fakePaymentRepo struct {
	paid bool

	trackID    string
	markedPaid bool
	markedFail bool
	lastMeta   map[string]any
	lastRef    string
}

func (f *fakePaymentRepo) GetByOrderID(ctx context.Context, orderID int64) (domain.Payment, error) {
	return domain.Payment{OrderID: orderID}, nil
}

func (f *fakePaymentRepo) AttachTrackID(ctx context.Context, orderID int64, trackID string) error {
	f.trackID = trackID
	return nil
}

func (f *fakePaymentRepo) MarkPaid(ctx context.Context, orderID int64, reference string, meta map[string]any, eventFn orderapp.StatusEventFunc) (orderdomain.Order, error) {
	if f.paid {
		return orderdomain.Order{}, apperr.Conflict("payment already processed")
	}
	f.paid = true
	f.markedPaid = true
	f.lastMeta = meta
	f.lastRef = reference
	return orderdomain.Order{ID: orderID, Status: orderdomain.StatusConfirmed, PaymentStatus: orderdomain.PaymentPaid}, nil
}

func (f *fakePaymentRepo) MarkFailed(ctx context.Context, orderID int64, reference string, meta map[string]any, eventFn orderapp.StatusEventFunc) (orderdomain.Order, error) {
	f.markedFail = true
	f.lastMeta = meta
	f.lastRef = reference
	return orderdomain.Order{ID: orderID, Status: orderdomain.StatusPending, PaymentStatus: orderdomain.PaymentFailed}, nil
}

type fakeGateway struct {
	req     ChargeRequest
	link    string
	trackID string
	err     error
}

func (f *fakeGateway) CreateCharge(ctx context.Context, req ChargeRequest) (string, string, error) {
	f.req = req
	return f.link, f.trackID, f.err
}

func testOrder() orderdomain.Order {
	return orderdomain.Order{
		ID:            7,
		CustomerID:    3,
		OrderNumber:   "ORD-AB12CD34",
		Status:        orderdomain.StatusPending,
		PaymentStatus: orderdomain.PaymentUnpaid,
		TotalFils:     23000,
		Currency:      "KWD",
		Locale:        "en",
		Items: []orderdomain.Item{
			{MealID: 1, MealNameEN: "Classic Smash Beef Burger", Quantity: 2, UnitPriceFils: 11500, TotalFils: 23000},
		},
		Customer: orderdomain.Customer{Name: "Sara", Phone: "+96550001234"},
	}
}

func newTestService(repo *fakePaymentRepo, gw *fakeGateway) *Service {
	return NewService(slog.New(slog.DiscardHandler), &fakeOrders{order: testOrder()}, repo, gw, GatewayConfig{
		ReturnURL:       "https://shop.example/pay/return",
		CancelURL:       "https://shop.example/pay/cancel",
		NotificationURL: "https://shop.example/pay/notify",
		GatewaySrc:      "knet",
	})
}

func TestInitiateChargeBuildsRequestAndSavesTrackID(t *testing.T) {
	repo := &fakePaymentRepo{}
	gw := &fakeGateway{link: "https://pay.example/session/1", trackID: "TR123"}
	svc := newTestService(repo, gw)

	link, err := svc.InitiateCharge(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/session/1", link)
	assert.Equal(t, "TR123", repo.trackID)

	assert.Equal(t, "7", gw.req.OrderID)
	assert.Equal(t, "ORD-AB12CD34", gw.req.Reference)
	assert.Equal(t, "KWD", gw.req.Currency)
	assert.InDelta(t, 23.0, gw.req.Amount, 0.0001)
	assert.Equal(t, "en", gw.req.Language)
	assert.Equal(t, "Order #ORD-AB12CD34: Classic Smash Beef Burger x2", gw.req.Description)
	assert.Equal(t, "knet", gw.req.GatewaySrc)
	// guests without an email still need one on the wire
	assert.Equal(t, "guest@example.com", gw.req.CustomerEmail)

	require.Len(t, gw.req.Products, 1)
	assert.InDelta(t, 11.5, gw.req.Products[0].Price, 0.0001)
	assert.Equal(t, 2, gw.req.Products[0].Quantity)
}

func TestInitiateChargeUnknownOrder(t *testing.T) {
	svc := newTestService(&fakePaymentRepo{}, &fakeGateway{link: "x"})

	_, err := svc.InitiateCharge(context.Background(), 99)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestHandleSuccessMarksPaid(t *testing.T) {
	repo := &fakePaymentRepo{}
	svc := newTestService(repo, &fakeGateway{})

	order, err := svc.HandleSuccess(context.Background(), Callback{
		RequestedOrderID: "7",
		TrackID:          "TR123",
		PaymentType:      "knet",
		Result:           "CAPTURED",
	})
	require.NoError(t, err)
	assert.True(t, repo.markedPaid)
	assert.Equal(t, orderdomain.PaymentPaid, order.PaymentStatus)
	assert.Equal(t, "TR123", repo.lastRef)
	assert.Equal(t, "CAPTURED", repo.lastMeta["result"])
	assert.NotEmpty(t, repo.lastMeta["transaction_date"])
}

func TestHandleSuccessReplayConflicts(t *testing.T) {
	repo := &fakePaymentRepo{paid: true}
	svc := newTestService(repo, &fakeGateway{})

	_, err := svc.HandleSuccess(context.Background(), Callback{RequestedOrderID: "7"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestHandleFailureReturnsMessageAndPendingOrder(t *testing.T) {
	repo := &fakePaymentRepo{}
	svc := newTestService(repo, &fakeGateway{})

	order, msg, err := svc.HandleFailure(context.Background(), Callback{
		RequestedOrderID: "7",
		Result:           "DECLINED",
	})
	require.NoError(t, err)
	assert.True(t, repo.markedFail)
	assert.Equal(t, orderdomain.StatusPending, order.Status)
	assert.Equal(t, "Payment was declined. Please check your card details.", msg)
	assert.Equal(t, msg, repo.lastMeta["error_message"])
}

func TestCallbackOrderIDResolution(t *testing.T) {
	id, err := callbackOrderID(Callback{RequestedOrderID: "42"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	id, err = callbackOrderID(Callback{ProviderOrderID: "13"})
	require.NoError(t, err)
	assert.Equal(t, int64(13), id)

	_, err = callbackOrderID(Callback{})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = callbackOrderID(Callback{RequestedOrderID: "abc"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
