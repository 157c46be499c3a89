package event

import (
	"sync"

	"github.com/invoicedesk/backend/internal/domain/shared"
)

// HandlerRegistry maps event types to their subscribers. Handlers registered
// without event types receive every event. Delivery order is registration order,
// type-specific subscribers first.
type HandlerRegistry struct {
	mu       sync.RWMutex
	byType   map[string][]shared.EventHandler
	wildcard []shared.EventHandler
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		byType: make(map[string][]shared.EventHandler),
	}
}

// Register subscribes handler to eventTypes, or to all events when none are given.
// Registering the same handler twice for a type is a no-op.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(eventTypes) == 0 {
		r.wildcard = appendUnique(r.wildcard, handler)
		return
	}
	for _, eventType := range eventTypes {
		r.byType[eventType] = appendUnique(r.byType[eventType], handler)
	}
}

// Unregister removes handler from every subscription
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.wildcard = without(r.wildcard, handler)
	for eventType, handlers := range r.byType {
		if rest := without(handlers, handler); len(rest) > 0 {
			r.byType[eventType] = rest
		} else {
			delete(r.byType, eventType)
		}
	}
}

// GetHandlers returns the subscribers of eventType. A handler subscribed both to
// the type and to all events is returned once.
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]shared.EventHandler, 0, len(r.byType[eventType])+len(r.wildcard))
	for _, h := range r.byType[eventType] {
		result = appendUnique(result, h)
	}
	for _, h := range r.wildcard {
		result = appendUnique(result, h)
	}
	return result
}

// EventTypes returns the event types that have at least one specific subscriber
func (r *HandlerRegistry) EventTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.byType))
	for eventType := range r.byType {
		types = append(types, eventType)
	}
	return types
}

func appendUnique(handlers []shared.EventHandler, handler shared.EventHandler) []shared.EventHandler {
	for _, h := range handlers {
		if h == handler {
			return handlers
		}
	}
	return append(handlers, handler)
}

func without(handlers []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	result := handlers[:0:0]
	for _, h := range handlers {
		if h != target {
			result = append(result, h)
		}
	}
	return result
}
