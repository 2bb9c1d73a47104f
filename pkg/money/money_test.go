package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "23.000", Format(23000, "KWD"))
	assert.Equal(t, "11.500", Format(11500, "KWD"))
	assert.Equal(t, "0.250", Format(250, "KWD"))
	assert.Equal(t, "12.75", Format(1275, "USD"))
	assert.Equal(t, "500", Format(500, "JPY"))
	assert.Equal(t, "-1.500", Format(-1500, "KWD"))
}

func TestMajorRoundTrip(t *testing.T) {
	assert.InDelta(t, 11.5, Major(11500, "KWD"), 0.0001)
	assert.Equal(t, int64(11500), FromMajor(11.5, "KWD"))
	assert.Equal(t, int64(1275), FromMajor(12.75, "USD"))
	assert.Equal(t, int64(-1500), FromMajor(-1.5, "KWD"))
}

func TestExponent(t *testing.T) {
	assert.Equal(t, 3, Exponent("KWD"))
	assert.Equal(t, 3, Exponent("kwd"))
	assert.Equal(t, 0, Exponent("JPY"))
	assert.Equal(t, 2, Exponent("USD"))
	assert.Equal(t, 2, Exponent("XYZ"))
}
