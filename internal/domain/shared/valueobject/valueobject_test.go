package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostalAddress_Composite(t *testing.T) {
	tests := []struct {
		name string
		addr PostalAddress
		want string
	}{
		{"all parts", NewPostalAddress("Main St 1", "Sarajevo", WithPostalCode("71000")), "Main St 1, Sarajevo 71000"},
		{"street only", NewPostalAddress("Main St", ""), "Main St"},
		{"city and postal", NewPostalAddress("", "Beograd", WithPostalCode("11000")), "Beograd 11000"},
		{"street and postal", NewPostalAddress("Main St", "", WithPostalCode("10000")), "Main St, 10000"},
		{"empty", NewPostalAddress("  ", ""), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.addr.Composite())
		})
	}
}

func TestPostalAddress_IsEmpty(t *testing.T) {
	assert.True(t, NewPostalAddress("", "").IsEmpty())
	assert.False(t, NewPostalAddress("", "", WithCountry("BA")).IsEmpty())
}

func TestParseAmount(t *testing.T) {
	t.Run("blank clears", func(t *testing.T) {
		d, err := ParseAmount("subtotal", "  ")
		require.NoError(t, err)
		assert.Nil(t, d)
	})

	t.Run("decimal point", func(t *testing.T) {
		d, err := ParseAmount("subtotal", "120.50")
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.True(t, d.Equal(decimal.RequireFromString("120.5")))
	})

	t.Run("decimal comma", func(t *testing.T) {
		d, err := ParseAmount("total_amount", "99,99")
		require.NoError(t, err)
		assert.True(t, d.Equal(decimal.RequireFromString("99.99")))
	})

	t.Run("rejects text", func(t *testing.T) {
		d, err := ParseAmount("tax_amount", "abc")
		assert.Nil(t, d)
		var amountErr *AmountError
		require.ErrorAs(t, err, &amountErr)
		assert.Equal(t, "tax_amount", amountErr.Field)
		assert.Contains(t, err.Error(), "abc")
	})

	t.Run("rejects thousands separators", func(t *testing.T) {
		_, err := ParseAmount("total_amount", "1,000.00")
		assert.Error(t, err)
	})

	t.Run("precision limits", func(t *testing.T) {
		accepted := []string{"10.50", "10.500", "0.01", "9999999999999999.99", "1e3", "1.5e1", "-12.3", "0e2147483647"}
		for _, raw := range accepted {
			d, err := ParseAmount("total_amount", raw)
			assert.NoError(t, err, raw)
			assert.NotNil(t, d, raw)
		}

		rejected := []string{"10.005", "0.001", "12345678901234567", "1e16", "1e2147483647", "1e-2147483647"}
		for _, raw := range rejected {
			d, err := ParseAmount("total_amount", raw)
			assert.Nil(t, d, raw)
			var amountErr *AmountError
			assert.ErrorAs(t, err, &amountErr, raw)
		}
	})
}

func TestCurrency(t *testing.T) {
	t.Run("editable set", func(t *testing.T) {
		assert.Equal(t, []Currency{EUR, BAM, RSD, HRK, USD}, EditableCurrencies())
		assert.True(t, BAM.IsEditable())
		assert.False(t, Currency("GBP").IsEditable())
	})

	t.Run("parse editable", func(t *testing.T) {
		c, err := ParseEditableCurrency(" rsd ")
		require.NoError(t, err)
		assert.Equal(t, RSD, c)

		c, err = ParseEditableCurrency("")
		require.NoError(t, err)
		assert.Equal(t, EUR, c)

		_, err = ParseEditableCurrency("GBP")
		assert.Error(t, err)
	})

	t.Run("unknown code renders verbatim", func(t *testing.T) {
		assert.Equal(t, "BITCOIN", Currency("BITCOIN").Symbol())
		assert.Equal(t, "BITCOIN 10.00", Currency("BITCOIN").Format(decimal.NewFromInt(10)))
	})

	t.Run("or default", func(t *testing.T) {
		assert.Equal(t, EUR, Currency("").OrDefault())
		assert.Equal(t, Currency("GBP"), Currency("GBP").OrDefault())
	})
}
