package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	err    error
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) received() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.events...)
}

func testEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, cart.AggregateTypeCart, uuid.New(), "sess-1")
	return &e
}

func TestInMemoryEventBus(t *testing.T) {
	newBus := func() *InMemoryEventBus {
		return NewInMemoryEventBus(zap.NewNop())
	}

	t.Run("delivers to a type-specific handler", func(t *testing.T) {
		bus := newBus()
		handler := &recordingHandler{types: []string{cart.EventTypeLineAdded}}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(context.Background(), testEvent(cart.EventTypeLineAdded)))
		require.NoError(t, bus.Publish(context.Background(), testEvent(cart.EventTypeCleared)))

		received := handler.received()
		require.Len(t, received, 1)
		assert.Equal(t, cart.EventTypeLineAdded, received[0].EventType())
	})

	t.Run("wildcard handler receives every event", func(t *testing.T) {
		bus := newBus()
		handler := &recordingHandler{}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(context.Background(),
			testEvent(cart.EventTypeLineAdded),
			testEvent(cart.EventTypeCouponApplied),
			testEvent(cart.EventTypeOrderPlaced),
		))

		assert.Len(t, handler.received(), 3)
	})

	t.Run("a failing handler does not block the others", func(t *testing.T) {
		bus := newBus()
		failing := &recordingHandler{types: []string{cart.EventTypeLineAdded}, err: errors.New("boom")}
		healthy := &recordingHandler{types: []string{cart.EventTypeLineAdded}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(context.Background(), testEvent(cart.EventTypeLineAdded)))
		assert.Len(t, healthy.received(), 1)
	})

	t.Run("unsubscribed handler stops receiving", func(t *testing.T) {
		bus := newBus()
		handler := &recordingHandler{types: []string{cart.EventTypeLineAdded}}
		bus.Subscribe(handler)
		bus.Unsubscribe(handler)

		require.NoError(t, bus.Publish(context.Background(), testEvent(cart.EventTypeLineAdded)))
		assert.Empty(t, handler.received())
	})
}

func TestCartActivityLogger(t *testing.T) {
	handler := NewCartActivityLogger(zap.NewNop())

	assert.Contains(t, handler.EventTypes(), cart.EventTypeLineAdded)
	assert.Contains(t, handler.EventTypes(), cart.EventTypeOrderPlaced)
	assert.NoError(t, handler.Handle(context.Background(), testEvent(cart.EventTypeLineAdded)))
}
