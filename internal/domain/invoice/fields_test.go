package invoice

import (
	"testing"

	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldInput(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		fields, err := ParseFieldInput(FieldInput{
			InvoiceNumber: " INV-9 ",
			InvoiceDate:   "2024-03-01",
			Vendor:        PartyInput{Name: "Vendor", TaxID: "4200000000001"},
			Subtotal:      "100",
			TaxAmount:     "17",
			TotalAmount:   "117.00",
			Currency:      "bam",
			Notes:         "",
		})
		require.NoError(t, err)
		assert.Equal(t, "INV-9", *fields.InvoiceNumber)
		assert.Equal(t, 2024, fields.InvoiceDate.Year())
		assert.Equal(t, "Vendor", *fields.Vendor.Name)
		assert.Nil(t, fields.Vendor.Address)
		assert.True(t, fields.TotalAmount.Equal(decimal.NewFromInt(117)))
		assert.Equal(t, valueobject.BAM, fields.Currency)
		assert.Nil(t, fields.Notes)
		assert.Nil(t, fields.LineItems)
	})

	t.Run("non numeric amount is rejected", func(t *testing.T) {
		_, err := ParseFieldInput(FieldInput{TotalAmount: "twelve"})
		require.Error(t, err)
		assert.Equal(t, "INVALID_AMOUNT", shared.ErrorCode(err))
		assert.Contains(t, err.Error(), "total_amount")
	})

	t.Run("amount beyond stored precision is rejected", func(t *testing.T) {
		for _, raw := range []string{"1e2147483647", "10.005", "12345678901234567"} {
			_, err := ParseFieldInput(FieldInput{Subtotal: raw})
			assert.Equal(t, "INVALID_AMOUNT", shared.ErrorCode(err), raw)
		}
	})

	t.Run("blank amount clears instead of zeroing", func(t *testing.T) {
		fields, err := ParseFieldInput(FieldInput{Subtotal: ""})
		require.NoError(t, err)
		assert.Nil(t, fields.Subtotal)
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := ParseFieldInput(FieldInput{InvoiceDate: "01.03.2024"})
		assert.Equal(t, "INVALID_DATE", shared.ErrorCode(err))
	})

	t.Run("line items string", func(t *testing.T) {
		fields, err := ParseFieldInput(FieldInput{LineItems: `[{"description":"A"}]`})
		require.NoError(t, err)
		assert.Len(t, fields.LineItems, 1)
	})
}
