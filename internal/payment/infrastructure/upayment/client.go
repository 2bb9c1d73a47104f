// Package upayment implements the hosted-checkout gateway against the
// UPayment API.
package upayment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alqabandi/burgerhouse/internal/payment/application"
	"github.com/alqabandi/burgerhouse/pkg/apperr"
)

const requestTimeout = 15 * time.Second

type Client struct {
	log    *slog.Logger
	http   *http.Client
	apiURL string
	apiKey string
}

func NewClient(log *slog.Logger, apiURL, apiKey string) *Client {
	return &Client{
		log:    log,
		http:   &http.Client{Timeout: requestTimeout},
		apiURL: strings.TrimRight(apiURL, "/"),
		apiKey: apiKey,
	}
}

type chargeProduct struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

type chargeOrder struct {
	ID          string  `json:"id"`
	Reference   string  `json:"reference"`
	Description string  `json:"description"`
	Currency    string  `json:"currency"`
	Amount      float64 `json:"amount"`
}

type chargeCustomer struct {
	UniqueID string `json:"uniqueId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
}

type chargeGateway struct {
	Src string `json:"src"`
}

type chargeRequest struct {
	Products        []chargeProduct `json:"products"`
	Order           chargeOrder     `json:"order"`
	Language        string          `json:"language"`
	Customer        chargeCustomer  `json:"customer"`
	ReturnURL       string          `json:"returnUrl"`
	CancelURL       string          `json:"cancelUrl"`
	NotificationURL string          `json:"notificationUrl"`
	PaymentGateway  chargeGateway   `json:"paymentGateway"`
}

type chargeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Link    string `json:"link"`
		TrackID string `json:"trackId"`
	} `json:"data"`
}

func (c *Client) CreateCharge(ctx context.Context, req application.ChargeRequest) (string, string, error) {
	products := make([]chargeProduct, 0, len(req.Products))
	for _, p := range req.Products {
		products = append(products, chargeProduct{
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Quantity:    p.Quantity,
		})
	}

	payload := chargeRequest{
		Products: products,
		Order: chargeOrder{
			ID:          req.OrderID,
			Reference:   req.Reference,
			Description: req.Description,
			Currency:    req.Currency,
			Amount:      req.Amount,
		},
		Language: req.Language,
		Customer: chargeCustomer{
			UniqueID: req.CustomerUniqueID,
			Name:     req.CustomerName,
			Email:    req.CustomerEmail,
			Mobile:   req.CustomerMobile,
		},
		ReturnURL:       req.ReturnURL,
		CancelURL:       req.CancelURL,
		NotificationURL: req.NotificationURL,
		PaymentGateway:  chargeGateway{Src: req.GatewaySrc},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/charge", bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", "", apperr.External("upayment", "payment service unavailable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", "", apperr.External("upayment", "payment service unavailable", err)
	}

	var out chargeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		c.log.Error("unexpected charge response", "status", resp.StatusCode, "body", string(raw))
		return "", "", apperr.External("upayment", "payment service returned an invalid response", err)
	}
	if resp.StatusCode != http.StatusOK || !out.Status || out.Data.Link == "" {
		c.log.Error("charge rejected", "status", resp.StatusCode, "message", out.Message)
		return "", "", apperr.External("upayment", "could not create payment link",
			fmt.Errorf("status %d: %s", resp.StatusCode, out.Message))
	}
	return out.Data.Link, out.Data.TrackID, nil
}
