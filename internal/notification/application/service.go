package application

import (
	"context"
	"log/slog"

	"github.com/alqabandi/burgerhouse/internal/notification/domain"
	orderdomain "github.com/alqabandi/burgerhouse/internal/order/domain"
	"github.com/alqabandi/burgerhouse/pkg/apperr"
)

// Sender delivers one text to one recipient. The raw provider response is
// returned for the audit log even on failure.
type Sender interface {
	Send(ctx context.Context, to, body string) (map[string]any, error)
}

type Store interface {
	InsertMessage(ctx context.Context, msg domain.Message) (domain.Message, error)
	FindOrderIDByNumber(ctx context.Context, orderNumber string) (*int64, error)
}

// Service fans status-change events out to WhatsApp. Delivery is
// best-effort: a provider failure is logged and audited, never returned to
// the caller, so the consumer still commits the message.
type Service struct {
	log     *slog.Logger
	sender  Sender
	store   Store
	baseURL string
}

func NewService(log *slog.Logger, sender Sender, store Store, baseURL string) *Service {
	return &Service{log: log, sender: sender, store: store, baseURL: baseURL}
}

// HandleStatusChanged composes and sends the per-status text. An order
// with no resolvable phone number is skipped silently.
func (s *Service) HandleStatusChanged(ctx context.Context, ev orderdomain.StatusChanged) error {
	phone := firstNonEmpty(ev.OrderWhatsapp, ev.CustomerWhatsapp, ev.CustomerPhone)
	if phone == "" {
		s.log.Info("no phone on order, skipping notification", "order_number", ev.OrderNumber)
		return nil
	}

	trackingURL := s.baseURL + "/orders/code/" + ev.OrderNumber + "/track"
	body := domain.BuildStatusMessage(domain.StatusUpdate{
		OrderNumber:    ev.OrderNumber,
		OldStatus:      ev.OldStatus,
		NewStatus:      ev.NewStatus,
		PaymentStatus:  ev.PaymentStatus,
		TotalFils:      ev.TotalFils,
		Currency:       ev.Currency,
		DeliveryETAMin: ev.DeliveryETAMin,
		CustomerName:   ev.CustomerName,
		TrackingURL:    trackingURL,
	})

	payload := map[string]any{
		"order_status": ev.NewStatus,
		"old_status":   ev.OldStatus,
		"tracking_url": trackingURL,
	}

	resp, err := s.sender.Send(ctx, phone, body)
	if err != nil {
		s.log.Error("whatsapp send failed", "order_number", ev.OrderNumber, "err", err)
		payload["error"] = err.Error()
	} else {
		payload["response"] = resp
	}

	orderID := ev.OrderID
	_, auditErr := s.store.InsertMessage(ctx, domain.Message{
		OrderID:   &orderID,
		Direction: domain.DirectionOutbound,
		Type:      domain.TypeStatusUpdate,
		Recipient: phone,
		Body:      body,
		Payload:   payload,
	})
	if auditErr != nil {
		s.log.Error("message audit insert failed", "order_number", ev.OrderNumber, "err", auditErr)
	}
	return nil
}

type InboundInput struct {
	Recipient   string         `json:"recipient"`
	Body        string         `json:"body"`
	Type        string         `json:"type"`
	OrderNumber string         `json:"order_number"`
	Payload     map[string]any `json:"payload"`
}

// RecordInbound persists a webhook message, linked to an order when the
// order number resolves.
func (s *Service) RecordInbound(ctx context.Context, in InboundInput) (domain.Message, error) {
	fields := map[string]string{}
	if in.Recipient == "" {
		fields["recipient"] = "required"
	}
	if in.Body == "" {
		fields["body"] = "required"
	}
	if len(fields) > 0 {
		return domain.Message{}, apperr.Validation(fields)
	}

	var orderID *int64
	if in.OrderNumber != "" {
		id, err := s.store.FindOrderIDByNumber(ctx, in.OrderNumber)
		if err != nil {
			return domain.Message{}, err
		}
		orderID = id
	}

	msg, err := s.store.InsertMessage(ctx, domain.Message{
		OrderID:   orderID,
		Direction: domain.DirectionInbound,
		Type:      in.Type,
		Recipient: in.Recipient,
		Body:      in.Body,
		Payload:   in.Payload,
	})
	if err != nil {
		return domain.Message{}, err
	}
	s.log.Info("inbound message recorded", "message_id", msg.ID, "order_number", in.OrderNumber)
	return msg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
