// Package currency provides the currency enumeration used by broker clients.
package currency

import (
	"errors"
	"fmt"
	"strings"
)

// Currency is an ISO 4217 currency code.
type Currency string

// Supported currencies.
const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	DKK Currency = "DKK"
	SEK Currency = "SEK"
	NOK Currency = "NOK"
	CHF Currency = "CHF"
)

// ErrUnknownCurrency indicates a currency code that is not supported.
var ErrUnknownCurrency = errors.New("unknown currency")

// Parse converts a currency code to a Currency. Matching is case-insensitive.
func Parse(code string) (Currency, error) {
	switch strings.ToUpper(code) {
	case "USD":
		return USD, nil
	case "EUR":
		return EUR, nil
	case "GBP":
		return GBP, nil
	case "DKK":
		return DKK, nil
	case "SEK":
		return SEK, nil
	case "NOK":
		return NOK, nil
	case "CHF":
		return CHF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
}

// String returns the currency code.
func (c Currency) String() string {
	return string(c)
}
