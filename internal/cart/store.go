package cart

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/YusovID/storefront/internal/models"
)

// Store is one session's cart. It is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	state models.CartState
	now   func() time.Time

	// unix nanoseconds, readable without mu
	touched atomic.Int64
}

func NewStore() *Store {
	return newStore(time.Now)
}

func newStore(now func() time.Time) *Store {
	s := &Store{now: now}
	s.touch()

	return s
}

// Dispatch applies action and returns a copy of the resulting state.
func (s *Store) Dispatch(action Action) models.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, action)
	s.touch()

	return s.state.Clone()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() models.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Clone()
}

func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.ItemCount()
}

func (s *Store) touch() {
	s.touched.Store(s.now().UnixNano())
}

func (s *Store) idleSince() time.Time {
	return time.Unix(0, s.touched.Load())
}

// Checkout calls place with a snapshot while holding the cart, so nothing
// can be added between the snapshot and the clear. The cart is cleared
// only if clear is set and place succeeds.
func (s *Store) Checkout(place func(snapshot models.CartState) error, clear bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := place(s.state.Clone()); err != nil {
		return err
	}

	if clear {
		s.state = Reduce(s.state, ClearCart{})
		s.touch()
	}

	return nil
}
