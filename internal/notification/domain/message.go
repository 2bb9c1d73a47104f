// Package domain composes the customer-facing WhatsApp texts and models
// the append-only message audit log.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/alqabandi/burgerhouse/pkg/money"
)

const (
	DirectionOutbound = "outbound"
	DirectionInbound  = "inbound"

	TypeStatusUpdate = "status_update"
)

// Message is one delivery attempt or inbound text, linked to an order when
// resolvable. Rows are never mutated after creation.
type Message struct {
	ID        int64
	OrderID   *int64
	Direction string
	Type      string
	Recipient string
	Body      string
	Payload   map[string]any
	CreatedAt time.Time
}

// StatusUpdate carries everything the composer needs, denormalized so the
// consumer never has to load the order back.
type StatusUpdate struct {
	OrderNumber    string
	OldStatus      string
	NewStatus      string
	PaymentStatus  string
	TotalFils      int64
	Currency       string
	DeliveryETAMin int
	CustomerName   string
	TrackingURL    string
}

var statusEmoji = map[string]string{
	"pending":          "🕐",
	"confirmed":        "✅",
	"preparing":        "👨‍🍳",
	"ready":            "📦",
	"out_for_delivery": "🛵",
	"delivered":        "🎉",
	"cancelled":        "😔",
}

var statusNotes = map[string]string{
	"pending":          "We're reviewing your order and will confirm shortly. 📋",
	"confirmed":        "Your order is locked in and moving to the kitchen. 🎉",
	"preparing":        "Our chefs are crafting your meal with care. 🍳",
	"ready":            "It's packed and queued for the driver. 🚦",
	"out_for_delivery": "Your driver is en route. Keep an eye on live tracking! 🚗",
	"delivered":        "Hope you enjoy your meal! Share your feedback anytime. ⭐",
	"cancelled":        "If this was unexpected, reply here and we will help. 🙏",
}

// BuildStatusMessage renders the per-status template. Lines that have no
// value (old status, payment, ETA) are simply omitted.
func BuildStatusMessage(u StatusUpdate) string {
	name := u.CustomerName
	if name == "" {
		name = "there"
	}
	emoji := statusEmoji[u.NewStatus]
	if emoji == "" {
		emoji = "ℹ️"
	}

	lines := []string{
		fmt.Sprintf("%s Hi %s! We have an update on your order *#%s*.", emoji, name, u.OrderNumber),
	}
	if u.OldStatus != "" {
		lines = append(lines, fmt.Sprintf("Status: *%s* ➜ *%s*", FormatStatus(u.OldStatus), FormatStatus(u.NewStatus)))
	} else {
		lines = append(lines, fmt.Sprintf("Status: *%s*", FormatStatus(u.NewStatus)))
	}
	if note := statusNotes[u.NewStatus]; note != "" {
		lines = append(lines, note)
	}
	lines = append(lines, fmt.Sprintf("💰 Total: %s %s", money.Format(u.TotalFils, u.Currency), u.Currency))
	if u.PaymentStatus != "" {
		lines = append(lines, fmt.Sprintf("💳 Payment: *%s*", FormatStatus(u.PaymentStatus)))
	}
	if u.DeliveryETAMin > 0 {
		lines = append(lines, fmt.Sprintf("⏱️ ETA: about %d minutes.", u.DeliveryETAMin))
	}
	lines = append(lines,
		"📍 Track your order here:\n"+u.TrackingURL,
		"Need help? Just reply to this message and we'll assist right away. 🤝",
	)
	return strings.Join(lines, "\n\n")
}

// FormatStatus turns a snake_case status into a title-cased label:
// out_for_delivery -> "Out For Delivery".
func FormatStatus(status string) string {
	words := strings.Split(strings.ReplaceAll(status, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
