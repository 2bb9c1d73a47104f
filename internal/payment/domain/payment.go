package domain

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
)

// Payment is the single source of truth for whether an order has been
// paid; Order.payment_status is a denormalized mirror written in the same
// transaction. Exactly one payment row exists per order.
type Payment struct {
	ID         int64
	OrderID    int64
	Provider   string
	Status     Status
	AmountFils int64
	Currency   string
	Reference  string
	Meta       map[string]any
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FailureMessage maps a provider result code onto a customer-facing
// message. Unknown codes fall back to the generic text.
func FailureMessage(result string) string {
	switch strings.ToUpper(result) {
	case "NOT CAPTURED":
		return "Payment was not captured. Please try again."
	case "CANCELLED":
		return "Payment was cancelled."
	case "DECLINED":
		return "Payment was declined. Please check your card details."
	case "EXPIRED":
		return "Payment session expired. Please try again."
	default:
		return "Payment failed. Please try again."
	}
}
