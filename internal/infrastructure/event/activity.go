package event

import (
	"context"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CartActivityLogger is a wildcard subscriber that writes a structured log
// line for every cart event. It is the storefront's audit trail of what
// happened to a session's cart and when
type CartActivityLogger struct {
	logger *zap.Logger
}

// NewCartActivityLogger creates a logging subscriber
func NewCartActivityLogger(logger *zap.Logger) *CartActivityLogger {
	return &CartActivityLogger{logger: logger.Named("cart_activity")}
}

// EventTypes returns the cart event types this handler listens to
func (h *CartActivityLogger) EventTypes() []string {
	return []string{
		cart.EventTypeLineAdded,
		cart.EventTypeLineQuantityChanged,
		cart.EventTypeLineRemoved,
		cart.EventTypeCleared,
		cart.EventTypeRestored,
		cart.EventTypeCouponApplied,
		cart.EventTypeCouponRemoved,
		cart.EventTypeOrderPlaced,
	}
}

// Handle logs the event with its session and aggregate identity
func (h *CartActivityLogger) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.logger.Info("cart event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("session_id", event.SessionID()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

var _ shared.EventHandler = (*CartActivityLogger)(nil)
