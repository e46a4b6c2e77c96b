package persistence

import (
	"context"
	"sync"

	"github.com/storefront/backend/internal/domain/shared"
)

// InMemorySlotStore implements SlotStore with process memory. Used in
// development and tests, and as the fallback when Redis is not configured
type InMemorySlotStore struct {
	mu       sync.RWMutex
	slots    map[string][]byte
	watchers map[string][]chan struct{}
	closed   bool
}

// NewInMemorySlotStore creates an empty in-memory store
func NewInMemorySlotStore() *InMemorySlotStore {
	return &InMemorySlotStore{
		slots:    make(map[string][]byte),
		watchers: make(map[string][]chan struct{}),
	}
}

// Set writes the payload and notifies watchers of the slot
func (s *InMemorySlotStore) Set(ctx context.Context, key string, payload []byte) error {
	s.mu.Lock()
	cp := make([]byte, len(payload))
	copy(cp, payload)
	s.slots[key] = cp
	watchers := append([]chan struct{}(nil), s.watchers[key]...)
	s.mu.Unlock()

	for _, w := range watchers {
		select {
		case w <- struct{}{}:
		default:
			// A pending signal already covers this write
		}
	}
	return nil
}

// Get reads the slot payload
func (s *InMemorySlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.slots[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	return cp, nil
}

// TakeOnce reads and deletes the slot atomically
func (s *InMemorySlotStore) TakeOnce(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, ok := s.slots[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	delete(s.slots, key)
	return payload, nil
}

// Delete removes the slot
func (s *InMemorySlotStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, key)
	return nil
}

// Watch registers a watcher channel for the slot
func (s *InMemorySlotStore) Watch(ctx context.Context, key string) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	s.watchers[key] = append(s.watchers[key], ch)
	s.mu.Unlock()

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer s.removeWatcher(key, ch)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ch:
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out, nil
}

// Close drops all slots and watchers
func (s *InMemorySlotStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.slots = make(map[string][]byte)
	s.watchers = make(map[string][]chan struct{})
	return nil
}

func (s *InMemorySlotStore) removeWatcher(key string, target chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	watchers := s.watchers[key]
	for i, w := range watchers {
		if w == target {
			s.watchers[key] = append(watchers[:i], watchers[i+1:]...)
			break
		}
	}
	if len(s.watchers[key]) == 0 {
		delete(s.watchers, key)
	}
}

var _ SlotStore = (*InMemorySlotStore)(nil)
