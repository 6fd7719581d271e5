package cart

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YusovID/storefront/internal/models"
)

func TestStoreDispatchReturnsCopy(t *testing.T) {
	s := NewStore()

	state := s.Dispatch(headphones)
	state.Items[0].Quantity = 100

	assert.Equal(t, 1, s.Snapshot().Items[0].Quantity)
}

func TestStoreConcurrentAdds(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(headphones)
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 50, snap.Items[0].Quantity)
	assert.Equal(t, 50, s.ItemCount())
	assert.InDelta(t, 29.99*50, snap.Total, 1e-6)
}

func TestSessionsGetIsStable(t *testing.T) {
	sessions := NewSessions()

	a := sessions.Get("alice")
	a.Dispatch(watch)

	assert.Same(t, a, sessions.Get("alice"))
	assert.NotSame(t, a, sessions.Get("bob"))
	assert.Empty(t, sessions.Get("bob").Snapshot().Items)
	assert.Equal(t, 2, sessions.Len())

	_, ok := sessions.Lookup("carol")
	assert.False(t, ok)
	assert.Equal(t, 2, sessions.Len(), "lookup must not create a cart")

	sessions.Drop("alice")
	_, ok = sessions.Lookup("alice")
	assert.False(t, ok)
}

func TestSessionsSweep(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	sessions := NewSessions()
	sessions.now = func() time.Time { return now }

	sessions.Get("stale").Dispatch(headphones)

	now = now.Add(20 * time.Minute)
	sessions.Get("fresh").Dispatch(watch)

	now = now.Add(20 * time.Minute)
	dropped := sessions.Sweep(30 * time.Minute)

	assert.Equal(t, 1, dropped)
	_, ok := sessions.Lookup("stale")
	assert.False(t, ok)
	_, ok = sessions.Lookup("fresh")
	assert.True(t, ok)
}

func TestSessionsSweepKeepsCartHandedOut(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	sessions := NewSessions()
	sessions.now = func() time.Time { return now }

	sessions.Get("s1").Dispatch(headphones)

	now = now.Add(time.Hour)
	store := sessions.Get("s1")

	assert.Zero(t, sessions.Sweep(30*time.Minute))

	store.Dispatch(watch)

	got, ok := sessions.Lookup("s1")
	require.True(t, ok)
	assert.Same(t, store, got)
	assert.Len(t, got.Snapshot().Items, 2)

	now = now.Add(time.Hour)
	assert.Equal(t, 1, sessions.Sweep(30*time.Minute))
}

func TestStoreCheckout(t *testing.T) {
	s := NewStore()
	s.Dispatch(headphones)

	var seen int
	err := s.Checkout(func(snapshot models.CartState) error {
		seen = snapshot.ItemCount()
		return nil
	}, true)
	require.NoError(t, err)

	assert.Equal(t, 1, seen)
	assert.Empty(t, s.Snapshot().Items)
}

func TestStoreCheckoutKeepsCartOnError(t *testing.T) {
	s := NewStore()
	s.Dispatch(watch)

	errPlace := errors.New("publish failed")
	err := s.Checkout(func(models.CartState) error { return errPlace }, true)

	assert.ErrorIs(t, err, errPlace)
	assert.Len(t, s.Snapshot().Items, 1)
}

func TestStoreCheckoutWithoutClear(t *testing.T) {
	s := NewStore()
	s.Dispatch(watch)

	require.NoError(t, s.Checkout(func(models.CartState) error { return nil }, false))
	assert.Len(t, s.Snapshot().Items, 1)
}
