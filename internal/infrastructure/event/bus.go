package event

import (
	"context"
	"sync"

	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InMemoryEventBus fans cart activity events out to subscribers in
// process. Dispatch is synchronous in publish order; a failing or
// panicking subscriber never blocks the others
type InMemoryEventBus struct {
	log *zap.Logger

	mu     sync.RWMutex
	byType map[string][]shared.EventHandler
	broad  []shared.EventHandler
}

// NewInMemoryEventBus creates an empty bus
func NewInMemoryEventBus(log *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		log:    log.Named("event_bus"),
		byType: make(map[string][]shared.EventHandler),
	}
}

// Publish delivers each event to its subscribers
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, e := range events {
		for _, h := range b.subscribers(e.EventType()) {
			b.deliver(ctx, h, e)
		}
	}
	return nil
}

// Subscribe registers a handler. Without explicit event types the handler
// declares its own; a handler declaring none receives every event
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if len(eventTypes) == 0 {
		b.broad = append(b.broad, handler)
		return
	}
	for _, eventType := range eventTypes {
		b.byType[eventType] = append(b.byType[eventType], handler)
	}
}

// Unsubscribe removes the handler from every event type
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.broad = without(b.broad, handler)
	for eventType, handlers := range b.byType {
		rest := without(handlers, handler)
		if len(rest) == 0 {
			delete(b.byType, eventType)
			continue
		}
		b.byType[eventType] = rest
	}
}

// Start satisfies shared.EventBus; the in-process bus has no worker to
// spin up
func (b *InMemoryEventBus) Start(context.Context) error { return nil }

// Stop satisfies shared.EventBus. Publish is synchronous, so nothing is
// in flight once the callers have returned
func (b *InMemoryEventBus) Stop(context.Context) error { return nil }

func (b *InMemoryEventBus) subscribers(eventType string) []shared.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	handlers := make([]shared.EventHandler, 0, len(b.byType[eventType])+len(b.broad))
	handlers = append(handlers, b.byType[eventType]...)
	return append(handlers, b.broad...)
}

func (b *InMemoryEventBus) deliver(ctx context.Context, handler shared.EventHandler, e shared.DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event subscriber panicked",
				zap.String("event_type", e.EventType()),
				zap.Any("panic", r),
			)
		}
	}()

	if err := handler.Handle(ctx, e); err != nil {
		b.log.Warn("event subscriber failed",
			zap.String("event_type", e.EventType()),
			zap.String("event_id", e.EventID().String()),
			zap.Error(err),
		)
	}
}

func without(handlers []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	rest := make([]shared.EventHandler, 0, len(handlers))
	for _, h := range handlers {
		if h != target {
			rest = append(rest, h)
		}
	}
	return rest
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
