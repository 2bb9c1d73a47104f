package application

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alqabandi/burgerhouse/internal/notification/domain"
	orderdomain "github.com/alqabandi/burgerhouse/internal/order/domain"
	"github.com/alqabandi/burgerhouse/pkg/apperr"
)

type fakeSender struct {
	to, body string
	calls    int
	err      error
}

func (f *fakeSender) Send(ctx context.Context, to, body string) (map[string]any, error) {
	f.calls++
	f.to = to
	f.body = body
	if f.err != nil {
		return nil, f.err
	}
	return map[string]any{"sent": true}, nil
}

type fakeStore struct {
	messages []domain.Message
	orderID  *int64
}

func (f *fakeStore) InsertMessage(ctx context.Context, msg domain.Message) (domain.Message, error) {
	msg.ID = int64(len(f.messages) + 1)
	f.messages = append(f.messages, msg)
	return msg, nil
}

func (f *fakeStore) FindOrderIDByNumber(ctx context.Context, orderNumber string) (*int64, error) {
	return f.orderID, nil
}

func statusEvent() orderdomain.StatusChanged {
	return orderdomain.StatusChanged{
		OrderID:       7,
		OrderNumber:   "ORD-AB12CD34",
		OldStatus:     "confirmed",
		NewStatus:     "preparing",
		PaymentStatus: "paid",
		TotalFils:     23000,
		Currency:      "KWD",
		Locale:        "en",
		CustomerName:  "Sara",
		OrderWhatsapp: "+96550001234",
	}
}

func newTestService(sender *fakeSender, store *fakeStore) *Service {
	return NewService(slog.New(slog.DiscardHandler), sender, store, "https://shop.example")
}

func TestHandleStatusChangedSendsAndAudits(t *testing.T) {
	sender := &fakeSender{}
	store := &fakeStore{}
	svc := newTestService(sender, store)

	require.NoError(t, svc.HandleStatusChanged(context.Background(), statusEvent()))

	assert.Equal(t, "+96550001234", sender.to)
	assert.Contains(t, sender.body, "*#ORD-AB12CD34*")
	assert.Contains(t, sender.body, "https://shop.example/orders/code/ORD-AB12CD34/track")

	require.Len(t, store.messages, 1)
	audit := store.messages[0]
	assert.Equal(t, domain.DirectionOutbound, audit.Direction)
	assert.Equal(t, domain.TypeStatusUpdate, audit.Type)
	assert.Equal(t, "+96550001234", audit.Recipient)
	require.NotNil(t, audit.OrderID)
	assert.Equal(t, int64(7), *audit.OrderID)
	assert.Equal(t, "preparing", audit.Payload["order_status"])
}

func TestHandleStatusChangedPhoneFallbackChain(t *testing.T) {
	ev := statusEvent()
	ev.OrderWhatsapp = ""
	ev.CustomerWhatsapp = "+96555550000"
	ev.CustomerPhone = "+96511112222"

	sender := &fakeSender{}
	svc := newTestService(sender, &fakeStore{})
	require.NoError(t, svc.HandleStatusChanged(context.Background(), ev))
	assert.Equal(t, "+96555550000", sender.to)

	ev.CustomerWhatsapp = ""
	require.NoError(t, svc.HandleStatusChanged(context.Background(), ev))
	assert.Equal(t, "+96511112222", sender.to)
}

func TestHandleStatusChangedNoPhoneSkipsSilently(t *testing.T) {
	ev := statusEvent()
	ev.OrderWhatsapp = ""
	ev.CustomerWhatsapp = ""
	ev.CustomerPhone = ""

	sender := &fakeSender{}
	store := &fakeStore{}
	svc := newTestService(sender, store)

	require.NoError(t, svc.HandleStatusChanged(context.Background(), ev))
	assert.Zero(t, sender.calls)
	assert.Empty(t, store.messages)
}

func TestHandleStatusChangedProviderFailureIsSwallowed(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection refused")}
	store := &fakeStore{}
	svc := newTestService(sender, store)

	require.NoError(t, svc.HandleStatusChanged(context.Background(), statusEvent()))

	// the attempt is still audited, with the error captured
	require.Len(t, store.messages, 1)
	assert.Equal(t, "connection refused", store.messages[0].Payload["error"])
}

func TestRecordInboundLinksOrder(t *testing.T) {
	orderID := int64(7)
	store := &fakeStore{orderID: &orderID}
	svc := newTestService(&fakeSender{}, store)

	msg, err := svc.RecordInbound(context.Background(), InboundInput{
		Recipient:   "+96550001234",
		Body:        "where is my order?",
		OrderNumber: "ORD-AB12CD34",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DirectionInbound, msg.Direction)
	require.NotNil(t, msg.OrderID)
	assert.Equal(t, int64(7), *msg.OrderID)
}

func TestRecordInboundValidation(t *testing.T) {
	svc := newTestService(&fakeSender{}, &fakeStore{})

	_, err := svc.RecordInbound(context.Background(), InboundInput{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	fields := apperr.FieldsOf(err)
	assert.Contains(t, fields, "recipient")
	assert.Contains(t, fields, "body")
}
