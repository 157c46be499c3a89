package invoice

import (
	"testing"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	inv, err := NewInvoice(uuid.New(), uuid.New(), "invoices/abc.pdf", "application/pdf")
	require.NoError(t, err)
	inv.ClearDomainEvents()
	return inv
}

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNewInvoice(t *testing.T) {
	t.Run("creates pending invoice with defaults", func(t *testing.T) {
		orgID := uuid.New()
		userID := uuid.New()
		inv, err := NewInvoice(orgID, userID, " invoices/a.pdf ", "application/pdf")
		require.NoError(t, err)

		assert.Equal(t, StatusPending, inv.Status)
		assert.Equal(t, valueobject.EUR, inv.Currency)
		assert.Equal(t, orgID, inv.OrganizationID)
		assert.Equal(t, userID, inv.UploadedBy)
		assert.Equal(t, "invoices/a.pdf", inv.FileURL)
		assert.NotNil(t, inv.LineItems)
		require.Len(t, inv.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeInvoiceUploaded, inv.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects missing references", func(t *testing.T) {
		_, err := NewInvoice(uuid.Nil, uuid.New(), "f", "")
		assert.Error(t, err)
		_, err = NewInvoice(uuid.New(), uuid.Nil, "f", "")
		assert.Error(t, err)
		_, err = NewInvoice(uuid.New(), uuid.New(), "  ", "")
		assert.Error(t, err)
	})
}

func TestInvoice_Verify(t *testing.T) {
	t.Run("processed invoice becomes verified and nothing else changes", func(t *testing.T) {
		inv := newTestInvoice(t)
		inv.Status = StatusProcessed
		inv.InvoiceNumber = strPtr("INV-1")
		inv.TotalAmount = decPtr("100.00")
		inv.Notes = strPtr("keep")

		require.NoError(t, inv.Verify())

		assert.Equal(t, StatusVerified, inv.Status)
		assert.Equal(t, "INV-1", *inv.InvoiceNumber)
		assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, "keep", *inv.Notes)
		assert.NotNil(t, inv.VerifiedAt)
		require.Len(t, inv.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeInvoiceVerified, inv.GetDomainEvents()[0].EventType())
	})

	for _, status := range []Status{StatusPending, StatusVerified, StatusSentToAccountant, StatusError} {
		t.Run("rejects "+string(status), func(t *testing.T) {
			inv := newTestInvoice(t)
			inv.Status = status

			err := inv.Verify()
			require.Error(t, err)
			assert.ErrorIs(t, err, shared.ErrInvalidState)
			assert.Equal(t, status, inv.Status)
			assert.Empty(t, inv.GetDomainEvents())
		})
	}
}

func TestInvoice_SendToAccountant(t *testing.T) {
	inv := newTestInvoice(t)
	inv.Status = StatusVerified
	require.NoError(t, inv.SendToAccountant())
	assert.Equal(t, StatusSentToAccountant, inv.Status)
	assert.NotNil(t, inv.SentAt)

	inv = newTestInvoice(t)
	inv.Status = StatusProcessed
	err := inv.SendToAccountant()
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.Equal(t, StatusProcessed, inv.Status)
}

func TestInvoice_MarkProcessed(t *testing.T) {
	t.Run("applies extracted fields", func(t *testing.T) {
		inv := newTestInvoice(t)
		err := inv.MarkProcessed(EditableFields{
			InvoiceNumber: strPtr("2024-17"),
			TotalAmount:   decPtr("42.10"),
			Currency:      valueobject.BAM,
			LineItems:     []LineItem{{Description: strPtr("Consulting")}},
		})
		require.NoError(t, err)
		assert.Equal(t, StatusProcessed, inv.Status)
		assert.Equal(t, valueobject.BAM, inv.Currency)
		assert.Len(t, inv.LineItems, 1)
	})

	t.Run("retry after error", func(t *testing.T) {
		inv := newTestInvoice(t)
		inv.MarkError("ocr timeout")
		require.NoError(t, inv.MarkProcessed(EditableFields{}))
		assert.Nil(t, inv.ErrorReason)
	})

	t.Run("verified invoice cannot be reprocessed", func(t *testing.T) {
		inv := newTestInvoice(t)
		inv.Status = StatusVerified
		assert.ErrorIs(t, inv.MarkProcessed(EditableFields{}), shared.ErrInvalidState)
	})
}

func TestInvoice_MarkError(t *testing.T) {
	for _, status := range AllStatuses() {
		inv := newTestInvoice(t)
		inv.Status = status
		inv.MarkError("")
		assert.Equal(t, StatusError, inv.Status)
		require.NotNil(t, inv.ErrorReason)
		assert.Equal(t, "Processing failed", *inv.ErrorReason)
	}
}

func TestInvoice_SaveEdits(t *testing.T) {
	t.Run("overwrites fields without changing status", func(t *testing.T) {
		for _, status := range AllStatuses() {
			inv := newTestInvoice(t)
			inv.Status = status
			inv.Notes = strPtr("old")

			err := inv.SaveEdits(EditableFields{
				Vendor:      Party{Name: strPtr("ACME d.o.o.")},
				Subtotal:    decPtr("10"),
				TaxAmount:   decPtr("1.7"),
				TotalAmount: decPtr("11.7"),
				Currency:    valueobject.RSD,
			})
			require.NoError(t, err)
			assert.Equal(t, status, inv.Status)
			assert.Nil(t, inv.Notes)
			assert.Equal(t, "ACME d.o.o.", *inv.Vendor.Name)
			assert.Equal(t, valueobject.RSD, inv.Currency)
		}
	})

	t.Run("keeps a stored currency outside the editable set", func(t *testing.T) {
		inv := newTestInvoice(t)
		inv.Currency = "GBP"
		require.NoError(t, inv.SaveEdits(EditableFields{Currency: "GBP"}))
		assert.Equal(t, valueobject.Currency("GBP"), inv.Currency)

		require.NoError(t, inv.SaveEdits(EditableFields{}))
		assert.Equal(t, valueobject.Currency("GBP"), inv.Currency)
	})

	t.Run("rejects new unsupported currency and leaves invoice untouched", func(t *testing.T) {
		inv := newTestInvoice(t)
		inv.Notes = strPtr("old")
		err := inv.SaveEdits(EditableFields{Currency: "CHF", Notes: strPtr("new")})
		require.Error(t, err)
		assert.Equal(t, "INVALID_CURRENCY", shared.ErrorCode(err))
		assert.Equal(t, "old", *inv.Notes)
		assert.Empty(t, inv.GetDomainEvents())
	})

	t.Run("nil line items keep stored items", func(t *testing.T) {
		inv := newTestInvoice(t)
		inv.LineItems = []LineItem{{Description: strPtr("A")}}
		require.NoError(t, inv.SaveEdits(EditableFields{}))
		assert.Len(t, inv.LineItems, 1)
	})
}

func TestInvoice_AvailableActions(t *testing.T) {
	tests := []struct {
		status Status
		want   []Action
	}{
		{StatusPending, []Action{ActionEdit}},
		{StatusProcessed, []Action{ActionEdit, ActionVerify}},
		{StatusVerified, []Action{ActionEdit, ActionSendToAccountant}},
		{StatusSentToAccountant, []Action{ActionEdit}},
		{StatusError, []Action{ActionEdit}},
		{Status("archived"), []Action{ActionEdit}},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			inv := newTestInvoice(t)
			inv.Status = tt.status
			assert.Equal(t, tt.want, inv.AvailableActions())
		})
	}
}

func TestInvoice_DisplayTotal(t *testing.T) {
	inv := newTestInvoice(t)
	assert.Equal(t, "", inv.DisplayTotal())

	inv.Currency = "XYZ-LEGACY"
	inv.TotalAmount = decPtr("5")
	assert.Equal(t, "XYZ-LEGACY 5.00", inv.DisplayTotal())
}

func TestParty_IsEmpty(t *testing.T) {
	assert.True(t, Party{}.IsEmpty())
	assert.True(t, Party{Name: strPtr("  ")}.IsEmpty())
	assert.False(t, Party{VATID: strPtr("BA123")}.IsEmpty())
}
