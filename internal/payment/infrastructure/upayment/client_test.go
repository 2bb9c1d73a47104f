package upayment

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alqabandi/burgerhouse/internal/payment/application"
	"github.com/alqabandi/burgerhouse/pkg/apperr"
)

func chargeReq() application.ChargeRequest {
	return application.ChargeRequest{
		Products: []application.ChargeProduct{
			{Name: "Classic Smash Beef Burger", Description: "Classic Smash Beef Burger x 2", Price: 11.5, Quantity: 2},
		},
		OrderID:          "7",
		Reference:        "ORD-AB12CD34",
		Description:      "Order #ORD-AB12CD34: Classic Smash Beef Burger x2",
		Currency:         "KWD",
		Amount:           23.0,
		Language:         "en",
		CustomerUniqueID: "3",
		CustomerName:     "Sara",
		CustomerEmail:    "sara@example.com",
		CustomerMobile:   "+96550001234",
		ReturnURL:        "https://shop.example/pay/return",
		CancelURL:        "https://shop.example/pay/cancel",
		NotificationURL:  "https://shop.example/pay/notify",
		GatewaySrc:       "knet",
	}
}

func TestCreateChargeWireFormat(t *testing.T) {
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"status":true,"data":{"link":"https://pay.example/s/1","trackId":"TR123"}}`))
	}))
	defer srv.Close()

	c := NewClient(slog.New(slog.DiscardHandler), srv.URL, "key123")
	link, trackID, err := c.CreateCharge(context.Background(), chargeReq())
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/s/1", link)
	assert.Equal(t, "TR123", trackID)
	assert.Equal(t, "Bearer key123", auth)

	order := got["order"].(map[string]any)
	assert.Equal(t, "7", order["id"])
	assert.Equal(t, "ORD-AB12CD34", order["reference"])
	assert.Equal(t, "KWD", order["currency"])
	assert.InDelta(t, 23.0, order["amount"].(float64), 0.0001)

	customer := got["customer"].(map[string]any)
	assert.Equal(t, "3", customer["uniqueId"])
	assert.Equal(t, "+96550001234", customer["mobile"])

	assert.Equal(t, "en", got["language"])
	assert.Equal(t, "knet", got["paymentGateway"].(map[string]any)["src"])
	assert.Equal(t, "https://shop.example/pay/notify", got["notificationUrl"])

	products := got["products"].([]any)
	require.Len(t, products, 1)
	assert.InDelta(t, 11.5, products[0].(map[string]any)["price"].(float64), 0.0001)
}

func TestCreateChargeRejectedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"status":false,"message":"invalid amount"}`))
	}))
	defer srv.Close()

	c := NewClient(slog.New(slog.DiscardHandler), srv.URL, "key123")
	_, _, err := c.CreateCharge(context.Background(), chargeReq())
	require.Error(t, err)
	assert.Equal(t, apperr.KindExternal, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "could not create payment link")
}

func TestCreateChargeMissingLinkIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":true,"data":{}}`))
	}))
	defer srv.Close()

	c := NewClient(slog.New(slog.DiscardHandler), srv.URL, "key123")
	_, _, err := c.CreateCharge(context.Background(), chargeReq())
	assert.Equal(t, apperr.KindExternal, apperr.KindOf(err))
}
