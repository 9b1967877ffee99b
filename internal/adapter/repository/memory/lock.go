package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/iho/creditledger/internal/domain"
)

// sellerLock is an exclusive lock granted in arrival order. Waiters give up
// when their context ends.
type sellerLock struct {
	mu      sync.Mutex
	held    bool
	waiters []chan struct{}
}

func (l *sellerLock) acquire(ctx context.Context) error {
	l.mu.Lock()
	if !l.held {
		l.held = true
		l.mu.Unlock()
		return nil
	}

	ready := make(chan struct{})
	l.waiters = append(l.waiters, ready)
	l.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
	}

	l.mu.Lock()
	for i, w := range l.waiters {
		if w == ready {
			l.waiters = append(l.waiters[:i], l.waiters[i+1:]...)
			l.mu.Unlock()
			return fmt.Errorf("%w: waiting for seller lock: %w", domain.ErrStoreTimeout, ctx.Err())
		}
	}
	l.mu.Unlock()

	// The lock was handed over while ctx ended; pass it on.
	l.release()

	return fmt.Errorf("%w: waiting for seller lock: %w", domain.ErrStoreTimeout, ctx.Err())
}

func (l *sellerLock) release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.waiters) == 0 {
		l.held = false
		return
	}

	next := l.waiters[0]
	l.waiters = l.waiters[1:]
	close(next)
}
