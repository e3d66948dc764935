package market

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrencyFormat(t *testing.T) {
	inr := Currency{Symbol: "₹", Code: "INR"}
	cases := map[string]string{
		"3817.17":     "₹3,817.17",
		"12450":       "₹12,450.00",
		"999.5":       "₹999.50",
		"0":           "₹0.00",
		"1234567.891": "₹1,234,567.89",
		"-1500":       "-₹1,500.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, inr.Format(decimal.RequireFromString(in)), in)
	}
}

func TestParsePrice(t *testing.T) {
	d, err := ParsePrice(" 45.999 ")
	require.NoError(t, err)
	assert.Equal(t, "46.00", d.StringFixed(2))

	_, err = ParsePrice("-1")
	assert.Error(t, err)

	_, err = ParsePrice("abc")
	assert.Error(t, err)
}

func TestNewCartTotal(t *testing.T) {
	cart := NewCart([]CartLine{
		{Quantity: 2, Price: decimal.RequireFromString("3817.17")},
		{Quantity: 1, Price: decimal.RequireFromString("10375")},
	})
	assert.Equal(t, "18009.34", cart.Total.StringFixed(2))

	empty := NewCart(nil)
	assert.NotNil(t, empty.Lines)
	assert.True(t, empty.Total.IsZero())
}

func TestParseSortAndRole(t *testing.T) {
	assert.Equal(t, SortPriceLow, ParseSort("price_low"))
	assert.Equal(t, SortNewest, ParseSort("bogus"))
	assert.Equal(t, SortNewest, ParseSort(""))

	r, err := ParseRole("buyer")
	require.NoError(t, err)
	assert.Equal(t, RoleBuyer, r)
	_, err = ParseRole("root")
	assert.Error(t, err)
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, `%50\% off%`, likePattern("50% off"))
	assert.Equal(t, `%a\_b%`, likePattern("a_b"))
}
