package domain

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOrderNumberFormat(t *testing.T) {
	re := regexp.MustCompile(`^ORD-[A-Z0-9]{8}$`)
	for i := 0; i < 100; i++ {
		assert.Regexp(t, re, NewOrderNumber())
	}
}

func TestNewTrackingCodeFormat(t *testing.T) {
	re := regexp.MustCompile(`^TRK-[A-Z0-9]{10}$`)
	for i := 0; i < 100; i++ {
		assert.Regexp(t, re, NewTrackingCode())
	}
}

func TestNewPaymentReferenceFormat(t *testing.T) {
	assert.Regexp(t, `^PAY-[A-Z0-9]{10}$`, NewPaymentReference())
}

func TestCodesAreNotConstant(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[NewOrderNumber()] = true
	}
	assert.Greater(t, len(seen), 1)
}
