package event

import (
	"context"
	"testing"

	"github.com/invoicedesk/backend/internal/domain/invoice"
	"github.com/invoicedesk/backend/internal/domain/organization"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

type namedHandler struct {
	name string
}

func (h *namedHandler) Handle(ctx context.Context, event shared.DomainEvent) error { return nil }

func (h *namedHandler) EventTypes() []string { return nil }

func TestHandlerRegistry_SpecificTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	audit := &namedHandler{name: "audit"}

	registry.Register(audit, invoice.EventTypeInvoiceVerified, invoice.EventTypeInvoiceSentToAccountant)

	assert.Equal(t, []shared.EventHandler{audit}, registry.GetHandlers(invoice.EventTypeInvoiceVerified))
	assert.Equal(t, []shared.EventHandler{audit}, registry.GetHandlers(invoice.EventTypeInvoiceSentToAccountant))
	assert.Empty(t, registry.GetHandlers(invoice.EventTypeInvoiceUploaded))
	assert.ElementsMatch(t, []string{invoice.EventTypeInvoiceVerified, invoice.EventTypeInvoiceSentToAccountant}, registry.EventTypes())
}

func TestHandlerRegistry_WildcardAfterSpecific(t *testing.T) {
	registry := NewHandlerRegistry()
	all := &namedHandler{name: "all"}
	members := &namedHandler{name: "members"}

	registry.Register(all)
	registry.Register(members, organization.EventTypeMemberJoined)

	assert.Equal(t, []shared.EventHandler{members, all}, registry.GetHandlers(organization.EventTypeMemberJoined))
	assert.Equal(t, []shared.EventHandler{all}, registry.GetHandlers(organization.EventTypeMemberRemoved))
	assert.Equal(t, []string{organization.EventTypeMemberJoined}, registry.EventTypes())
}

func TestHandlerRegistry_Duplicates(t *testing.T) {
	registry := NewHandlerRegistry()
	h := &namedHandler{name: "h"}

	registry.Register(h, invoice.EventTypeInvoiceEdited)
	registry.Register(h, invoice.EventTypeInvoiceEdited)
	registry.Register(h)

	assert.Len(t, registry.GetHandlers(invoice.EventTypeInvoiceEdited), 1)
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()
	keep := &namedHandler{name: "keep"}
	drop := &namedHandler{name: "drop"}

	registry.Register(drop)
	registry.Register(drop, invoice.EventTypeInvoiceFailed)
	registry.Register(keep, organization.EventTypeInvitationCreated)

	registry.Unregister(drop)

	assert.Empty(t, registry.GetHandlers(invoice.EventTypeInvoiceFailed))
	assert.Equal(t, []shared.EventHandler{keep}, registry.GetHandlers(organization.EventTypeInvitationCreated))
	assert.Equal(t, []string{organization.EventTypeInvitationCreated}, registry.EventTypes())
}

func TestHandlerRegistry_ConcurrentAccess(t *testing.T) {
	registry := NewHandlerRegistry()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			h := &namedHandler{}
			registry.Register(h, invoice.EventTypeInvoiceProcessed)
			registry.Unregister(h)
		}
	}()
	for i := 0; i < 100; i++ {
		_ = registry.GetHandlers(invoice.EventTypeInvoiceProcessed)
	}
	<-done

	assert.Empty(t, registry.GetHandlers(invoice.EventTypeInvoiceProcessed))
}
