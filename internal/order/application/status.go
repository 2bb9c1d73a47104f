package application

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/alqabandi/burgerhouse/internal/order/domain"
	"github.com/alqabandi/burgerhouse/pkg/apperr"
)

// StatusService applies operator status changes. Transitions are
// deliberately permissive: any status may be set to any other. The event is
// emitted only when the status actually changes, and notification delivery
// happens out of band via the outbox, so a slow messaging provider never
// blocks the operator.
type StatusService struct {
	log  *slog.Logger
	repo Repository
}

func NewStatusService(log *slog.Logger, repo Repository) *StatusService {
	return &StatusService{log: log, repo: repo}
}

func (s *StatusService) UpdateStatus(ctx context.Context, upd StatusUpdate) (domain.Order, error) {
	fields := map[string]string{}
	if !upd.Status.Valid() {
		fields["status"] = "unknown status"
	}
	if upd.PaymentStatus != nil && !upd.PaymentStatus.Valid() {
		fields["payment_status"] = "unknown payment status"
	}
	if upd.DeliveryETAMin != nil && *upd.DeliveryETAMin < 0 {
		fields["delivery_eta_minutes"] = "must not be negative"
	}
	if len(fields) > 0 {
		return domain.Order{}, apperr.Validation(fields)
	}

	order, err := s.repo.UpdateStatus(ctx, upd, StatusChangedEvent)
	if err != nil {
		return domain.Order{}, err
	}
	s.log.Info("order status updated",
		"order_id", order.ID, "status", order.Status, "payment_status", order.PaymentStatus)
	return order, nil
}

// StatusChangedEvent is the StatusEventFunc shared by the admin path and
// the payment callbacks: no-op when the status did not move, otherwise a
// denormalized StatusChanged payload.
func StatusChangedEvent(before, after domain.Order) (string, []byte, error) {
	if before.Status == after.Status {
		return "", nil, nil
	}
	eta := 0
	if after.DeliveryETAMin != nil {
		eta = *after.DeliveryETAMin
	}
	payload, err := json.Marshal(domain.StatusChanged{
		OrderID:          after.ID,
		OrderNumber:      after.OrderNumber,
		OldStatus:        string(before.Status),
		NewStatus:        string(after.Status),
		PaymentStatus:    string(after.PaymentStatus),
		TotalFils:        after.TotalFils,
		Currency:         after.Currency,
		Locale:           after.Locale,
		DeliveryETAMin:   eta,
		CustomerName:     after.Customer.Name,
		OrderWhatsapp:    after.WhatsappNumber,
		CustomerWhatsapp: after.Customer.WhatsappNumber,
		CustomerPhone:    after.Customer.Phone,
	})
	if err != nil {
		return "", nil, err
	}
	return domain.EventStatusChanged, payload, nil
}
