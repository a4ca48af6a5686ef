package keeper

import (
	"sync"

	"github.com/pond-exchange/pond/x/amm/types"
)

// ReentrancyGuard provides named exclusive-access locks, one per pair. A
// mutating pair operation acquires the pair's lock on entry and releases it on
// every exit path; a nested acquisition fails instead of deadlocking.
type ReentrancyGuard struct {
	mu    sync.Mutex
	locks map[string]struct{}
}

// NewReentrancyGuard creates a new guard instance.
func NewReentrancyGuard() *ReentrancyGuard {
	return &ReentrancyGuard{locks: make(map[string]struct{})}
}

// Lock acquires a named lock or returns an error if already held.
func (g *ReentrancyGuard) Lock(key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.locks[key]; exists {
		return types.ErrReentrancy.Wrapf("pair %s operation already in flight", key)
	}
	g.locks[key] = struct{}{}
	return nil
}

// Unlock releases a named lock. Releasing an unheld lock is a no-op.
func (g *ReentrancyGuard) Unlock(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.locks, key)
}
