// Package money handles fixed-point currency amounts stored as int64 minor
// units. KWD carries three decimal places (fils); everything else defaults
// to two.
package money

import (
	"fmt"
	"math"
	"strings"
)

var exponents = map[string]int{
	"KWD": 3,
	"BHD": 3,
	"OMR": 3,
	"JPY": 0,
}

// Exponent returns the number of decimal places for a currency code.
func Exponent(currency string) int {
	if e, ok := exponents[strings.ToUpper(currency)]; ok {
		return e
	}
	return 2
}

// Format renders minor units as a plain decimal string, e.g. 23000 KWD -> "23.000".
func Format(minor int64, currency string) string {
	exp := Exponent(currency)
	if exp == 0 {
		return fmt.Sprintf("%d", minor)
	}
	div := pow10(exp)
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%0*d", sign, minor/div, exp, minor%div)
}

// Major converts minor units to a float amount for providers that want
// decimal numbers on the wire.
func Major(minor int64, currency string) float64 {
	return float64(minor) / float64(pow10(Exponent(currency)))
}

// FromMajor converts a decimal amount to minor units, rounding half away
// from zero.
func FromMajor(amount float64, currency string) int64 {
	return int64(math.Round(amount * float64(pow10(Exponent(currency)))))
}

func pow10(n int) int64 {
	v := int64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
