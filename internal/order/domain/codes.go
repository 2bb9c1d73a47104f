package domain

import (
	"crypto/rand"
	"strings"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	OrderNumberPrefix  = "ORD-"
	TrackingCodePrefix = "TRK-"
	PaymentRefPrefix   = "PAY-"
)

// NewOrderNumber generates the customer-facing order identifier,
// ORD- followed by 8 random uppercase alphanumerics. Collisions are not
// pre-checked; the unique index plus a retry in the checkout service covers
// the astronomically unlikely clash.
func NewOrderNumber() string { return OrderNumberPrefix + randomCode(8) }

// NewTrackingCode generates the secondary public identifier used for guest
// lookup, TRK- followed by 10 random uppercase alphanumerics.
func NewTrackingCode() string { return TrackingCodePrefix + randomCode(10) }

// NewPaymentReference generates the internal payment reference.
func NewPaymentReference() string { return PaymentRefPrefix + randomCode(10) }

func randomCode(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic("codes: crypto/rand unavailable: " + err.Error())
	}
	var b strings.Builder
	b.Grow(n)
	for _, c := range buf {
		b.WriteByte(codeAlphabet[int(c)%len(codeAlphabet)])
	}
	return b.String()
}
