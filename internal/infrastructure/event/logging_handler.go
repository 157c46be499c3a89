package event

import (
	"context"

	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LoggingHandler writes every domain event to the structured log. It is the
// audit trail for invoice transitions and membership changes.
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a LoggingHandler
func NewLoggingHandler(l *zap.Logger) *LoggingHandler {
	return &LoggingHandler{logger: l}
}

// Handle logs the event envelope and its payload
func (h *LoggingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	l := h.logger
	if id := logger.GetRequestID(ctx); id != "" {
		l = l.With(zap.String("request_id", id))
	}
	if id := logger.GetUserID(ctx); id != "" {
		l = l.With(zap.String("user_id", id))
	}
	l.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("event_organization_id", event.OrganizationID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
		zap.Any("payload", event),
	)
	return nil
}

// EventTypes returns nil so the handler receives every event
func (h *LoggingHandler) EventTypes() []string {
	return nil
}

var _ shared.EventHandler = (*LoggingHandler)(nil)
