package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseUpdate() StatusUpdate {
	return StatusUpdate{
		OrderNumber:   "ORD-AB12CD34",
		OldStatus:     "confirmed",
		NewStatus:     "preparing",
		PaymentStatus: "paid",
		TotalFils:     23000,
		Currency:      "KWD",
		CustomerName:  "Sara",
		TrackingURL:   "https://shop.example/orders/code/ORD-AB12CD34/track",
	}
}

func TestBuildStatusMessageContents(t *testing.T) {
	msg := BuildStatusMessage(baseUpdate())

	assert.Contains(t, msg, "Hi Sara!")
	assert.Contains(t, msg, "*#ORD-AB12CD34*")
	assert.Contains(t, msg, "Status: *Confirmed* ➜ *Preparing*")
	assert.Contains(t, msg, "Our chefs are crafting your meal with care.")
	assert.Contains(t, msg, "💰 Total: 23.000 KWD")
	assert.Contains(t, msg, "💳 Payment: *Paid*")
	assert.Contains(t, msg, "https://shop.example/orders/code/ORD-AB12CD34/track")
	assert.NotContains(t, msg, "ETA")
}

func TestBuildStatusMessageETAOnlyWhenSet(t *testing.T) {
	u := baseUpdate()
	u.NewStatus = "out_for_delivery"
	u.DeliveryETAMin = 30

	msg := BuildStatusMessage(u)
	assert.Contains(t, msg, "⏱️ ETA: about 30 minutes.")
	assert.Contains(t, msg, "Your driver is en route.")
}

func TestBuildStatusMessageMissingName(t *testing.T) {
	u := baseUpdate()
	u.CustomerName = ""

	assert.Contains(t, BuildStatusMessage(u), "Hi there!")
}

func TestBuildStatusMessageWithoutOldStatus(t *testing.T) {
	u := baseUpdate()
	u.OldStatus = ""

	msg := BuildStatusMessage(u)
	assert.Contains(t, msg, "Status: *Preparing*")
	assert.NotContains(t, msg, "➜")
}

func TestBuildStatusMessageUnknownStatusFallsBack(t *testing.T) {
	u := baseUpdate()
	u.NewStatus = "mystery_state"

	msg := BuildStatusMessage(u)
	assert.True(t, strings.HasPrefix(msg, "ℹ️ Hi Sara!"), msg)
	assert.Contains(t, msg, "*Mystery State*")
}

func TestFormatStatus(t *testing.T) {
	assert.Equal(t, "Out For Delivery", FormatStatus("out_for_delivery"))
	assert.Equal(t, "Paid", FormatStatus("paid"))
	assert.Equal(t, "", FormatStatus(""))
}

func TestEveryStatusHasTemplate(t *testing.T) {
	for _, status := range []string{
		"pending", "confirmed", "preparing", "ready",
		"out_for_delivery", "delivered", "cancelled",
	} {
		assert.NotEmpty(t, statusEmoji[status], "emoji for %s", status)
		assert.NotEmpty(t, statusNotes[status], "note for %s", status)
	}
}
