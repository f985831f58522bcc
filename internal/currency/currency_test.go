package currency

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_KnownCodes_ReturnsCurrency(t *testing.T) {
	cases := []struct {
		code string
		want Currency
	}{
		{"USD", USD},
		{"usd", USD},
		{"EUR", EUR},
		{"eur", EUR},
		{"Eur", EUR},
		{"gbp", GBP},
		{"DKK", DKK},
		{"sek", SEK},
		{"NOK", NOK},
		{"chf", CHF},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			got, err := Parse(tc.code)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParse_UnknownCode_ReturnsError(t *testing.T) {
	_, err := Parse("DOGE")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCurrency))
	assert.Contains(t, err.Error(), `"DOGE"`)
}

func TestParse_EmptyCode_ReturnsError(t *testing.T) {
	_, err := Parse("")
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}
