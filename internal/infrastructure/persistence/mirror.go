package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/storefront/backend/internal/domain/cart"
	"go.uber.org/zap"
)

// Mirror coalesces cart writes per session: rapid successive mutations
// within the flush window collapse into a single store write carrying the
// latest state. Ordering is last-writer-wins per session; an older state
// never overwrites a newer one because only the most recent pending cart
// is ever flushed
type Mirror struct {
	repo     cart.Repository
	interval time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	pending map[string]*pendingWrite
	wg      sync.WaitGroup
	closed  bool
}

type pendingWrite struct {
	c     *cart.Cart
	timer *time.Timer
}

// NewMirror creates a mirror flushing through the given repository
func NewMirror(repo cart.Repository, interval time.Duration, log *zap.Logger) *Mirror {
	return &Mirror{
		repo:     repo,
		interval: interval,
		log:      log.Named("cart_mirror"),
		pending:  make(map[string]*pendingWrite),
	}
}

// Enqueue schedules the cart state for persistence. A state enqueued while
// an earlier one is still waiting replaces it; the earlier state is never
// written
func (m *Mirror) Enqueue(c *cart.Cart) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}

	sessionID := c.SessionID
	if p, ok := m.pending[sessionID]; ok {
		p.c = c
		return
	}

	p := &pendingWrite{c: c}
	p.timer = time.AfterFunc(m.interval, func() {
		m.flushSession(sessionID)
	})
	m.pending[sessionID] = p
}

// FlushSession writes the session's pending state out immediately, ahead
// of its timer. After it returns the write has reached the store; a stale
// timer firing later finds no pending entry and does nothing
func (m *Mirror) FlushSession(ctx context.Context, sessionID string) {
	m.mu.Lock()
	if p, ok := m.pending[sessionID]; ok {
		p.timer.Stop()
	}
	m.mu.Unlock()
	m.flushSession(sessionID)
}

// Pending reports whether the session has a write waiting to be flushed
func (m *Mirror) Pending(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.pending[sessionID]
	return ok
}

// Flush writes out all pending states immediately. Called on shutdown and
// before operations that must observe a durable cart
func (m *Mirror) Flush(ctx context.Context) {
	m.mu.Lock()
	sessions := make([]string, 0, len(m.pending))
	for sessionID, p := range m.pending {
		p.timer.Stop()
		sessions = append(sessions, sessionID)
	}
	m.mu.Unlock()

	for _, sessionID := range sessions {
		m.flushSession(sessionID)
	}
	m.wg.Wait()
}

// Close flushes pending writes and stops accepting new ones
func (m *Mirror) Close(ctx context.Context) {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.Flush(ctx)
}

func (m *Mirror) flushSession(sessionID string) {
	m.mu.Lock()
	p, ok := m.pending[sessionID]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.pending, sessionID)
	c := p.c
	m.wg.Add(1)
	m.mu.Unlock()

	defer m.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.repo.Save(ctx, c); err != nil {
		m.log.Error("cart mirror write failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}
}
