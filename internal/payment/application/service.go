package application

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	orderapp "github.com/alqabandi/burgerhouse/internal/order/application"
	orderdomain "github.com/alqabandi/burgerhouse/internal/order/domain"
	"github.com/alqabandi/burgerhouse/internal/payment/domain"
	"github.com/alqabandi/burgerhouse/pkg/apperr"
	"github.com/alqabandi/burgerhouse/pkg/money"
)

// GatewayConfig carries the static charge-request fields: callback URLs
// must be absolute because the customer returns from the provider's domain
// without a session.
type GatewayConfig struct {
	ReturnURL       string
	CancelURL       string
	NotificationURL string
	GatewaySrc      string
}

// Callback is the query payload the provider sends to the return URLs.
type Callback struct {
	RequestedOrderID string
	ProviderOrderID  string
	TrackID          string
	TransactionDate  string
	PaymentType      string
	Result           string
}

type Service struct {
	log    *slog.Logger
	orders OrderReader
	repo   Repository
	gw     Gateway
	cfg    GatewayConfig
}

func NewService(log *slog.Logger, orders OrderReader, repo Repository, gw Gateway, cfg GatewayConfig) *Service {
	return &Service{log: log, orders: orders, repo: repo, gw: gw, cfg: cfg}
}

// InitiateCharge builds the provider charge for an order and returns the
// redirect URL. The provider's track id is persisted onto the payment
// before the customer is redirected.
func (s *Service) InitiateCharge(ctx context.Context, orderID int64) (string, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}

	req := s.buildCharge(order)
	link, trackID, err := s.gw.CreateCharge(ctx, req)
	if err != nil {
		s.log.Error("charge creation failed", "order_id", order.ID, "err", err)
		return "", err
	}
	if trackID != "" {
		if err := s.repo.AttachTrackID(ctx, order.ID, trackID); err != nil {
			return "", err
		}
	}
	s.log.Info("charge created", "order_id", order.ID, "track_id", trackID)
	return link, nil
}

func (s *Service) buildCharge(order orderdomain.Order) ChargeRequest {
	locale := order.Locale
	language := "en"
	if locale == "ar" {
		language = "ar"
	}

	products := make([]ChargeProduct, 0, len(order.Items))
	names := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		name := item.MealName(locale)
		names = append(names, fmt.Sprintf("%s x%d", name, item.Quantity))
		products = append(products, ChargeProduct{
			Name:        name,
			Description: fmt.Sprintf("%s x %d", name, item.Quantity),
			Price:       money.Major(item.UnitPriceFils, order.Currency),
			Quantity:    item.Quantity,
		})
	}
	description := "Order #" + order.OrderNumber
	if len(names) > 0 {
		description += ": " + strings.Join(names, ", ")
	}

	email := order.Customer.Email
	if email == "" {
		email = "guest@example.com"
	}
	mobile := order.Customer.Phone
	if mobile == "" {
		mobile = order.Customer.WhatsappNumber
	}

	return ChargeRequest{
		Products:         products,
		OrderID:          strconv.FormatInt(order.ID, 10),
		Reference:        order.OrderNumber,
		Description:      description,
		Currency:         order.Currency,
		Amount:           money.Major(order.TotalFils, order.Currency),
		Language:         language,
		CustomerUniqueID: strconv.FormatInt(order.CustomerID, 10),
		CustomerName:     order.Customer.Name,
		CustomerEmail:    email,
		CustomerMobile:   mobile,
		ReturnURL:        s.cfg.ReturnURL,
		CancelURL:        s.cfg.CancelURL,
		NotificationURL:  s.cfg.NotificationURL,
		GatewaySrc:       s.cfg.GatewaySrc,
	}
}

// HandleSuccess reconciles a success callback: confirmed + paid, provider
// metadata captured. Replayed callbacks for an already-paid order no-op
// with a conflict, so downstream notifications never double-fire.
func (s *Service) HandleSuccess(ctx context.Context, cb Callback) (orderdomain.Order, error) {
	orderID, err := callbackOrderID(cb)
	if err != nil {
		return orderdomain.Order{}, err
	}

	result := cb.Result
	if result == "" {
		result = "CAPTURED"
	}
	txDate := cb.TransactionDate
	if txDate == "" {
		txDate = time.Now().UTC().Format(time.RFC3339)
	}
	meta := map[string]any{
		"upayment_order_id": cb.ProviderOrderID,
		"track_id":          cb.TrackID,
		"transaction_date":  txDate,
		"payment_type":      cb.PaymentType,
		"result":            result,
	}

	order, err := s.repo.MarkPaid(ctx, orderID, cb.TrackID, meta, orderapp.StatusChangedEvent)
	if err != nil {
		return orderdomain.Order{}, err
	}
	s.log.Info("payment captured", "order_id", order.ID, "track_id", cb.TrackID)
	return order, nil
}

// HandleFailure reconciles a failure or cancel callback. The order returns
// to pending rather than cancelled: a failed payment is recoverable and
// the customer may retry.
func (s *Service) HandleFailure(ctx context.Context, cb Callback) (orderdomain.Order, string, error) {
	orderID, err := callbackOrderID(cb)
	if err != nil {
		return orderdomain.Order{}, "", err
	}

	result := cb.Result
	if result == "" {
		result = "FAILED"
	}
	msg := domain.FailureMessage(cb.Result)
	meta := map[string]any{
		"upayment_order_id": cb.ProviderOrderID,
		"track_id":          cb.TrackID,
		"result":            result,
		"error_message":     msg,
	}

	order, err := s.repo.MarkFailed(ctx, orderID, cb.TrackID, meta, orderapp.StatusChangedEvent)
	if err != nil {
		return orderdomain.Order{}, "", err
	}
	s.log.Info("payment failed", "order_id", order.ID, "result", result)
	return order, msg, nil
}

// callbackOrderID resolves the order from requested_order_id with an
// order_id fallback. Callbacks arrive from the provider's domain with no
// session, so a missing or garbled id is a not-found, never a panic.
func callbackOrderID(cb Callback) (int64, error) {
	raw := cb.RequestedOrderID
	if raw == "" {
		raw = cb.ProviderOrderID
	}
	if raw == "" {
		return 0, apperr.NotFound("order id not provided")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.NotFound("order not found")
	}
	return id, nil
}
