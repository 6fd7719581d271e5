package cart

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sessions maps session IDs to carts. Carts live in memory only.
type Sessions struct {
	mu     sync.RWMutex
	stores map[string]*Store
	now    func() time.Time
}

func NewSessions() *Sessions {
	return &Sessions{
		stores: make(map[string]*Store),
		now:    time.Now,
	}
}

// Get returns the cart of sessionID, creating an empty one on first use.
// The cart counts as touched, so a concurrent Sweep keeps it.
func (s *Sessions) Get(sessionID string) *Store {
	if store, ok := s.Lookup(sessionID); ok {
		return store
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if store, ok := s.stores[sessionID]; ok {
		return store
	}

	store := newStore(s.now)
	s.stores[sessionID] = store

	return store
}

// Lookup returns the cart of sessionID without creating it. Like Get, it
// touches the cart.
func (s *Sessions) Lookup(sessionID string) (*Store, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	store, ok := s.stores[sessionID]
	if ok {
		// under the read lock Sweep can't be between its check and delete
		store.touch()
	}

	return store, ok
}

func (s *Sessions) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.stores, sessionID)
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.stores)
}

// Sweep drops carts that have not been touched for longer than idle and
// returns how many were dropped.
func (s *Sessions) Sweep(idle time.Duration) int {
	deadline := s.now().Add(-idle)

	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for id, store := range s.stores {
		if store.idleSince().Before(deadline) {
			delete(s.stores, id)
			dropped++
		}
	}

	return dropped
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Sessions) RunSweeper(ctx context.Context, interval, idle time.Duration, log *slog.Logger, wg *sync.WaitGroup) {
	defer wg.Done()

	const fn = "cart.Sessions.RunSweeper"
	log = log.With(slog.String("fn", fn))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("stopping cart sweeper")
			return

		case <-ticker.C:
			if n := s.Sweep(idle); n > 0 {
				log.Info("dropped idle carts", slog.Int("count", n))
			}
		}
	}
}
