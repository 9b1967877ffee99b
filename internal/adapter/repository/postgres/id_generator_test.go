package postgres

import (
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestULIDGenerator_MonotonicWithinMillisecond(t *testing.T) {
	gen := NewULIDGenerator()
	frozen := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	gen.now = func() time.Time { return frozen }

	prev := gen.Generate()
	for range 1000 {
		next := gen.Generate()
		require.Less(t, prev, next)
		prev = next
	}

	id, err := ulid.Parse(prev)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(frozen), id.Time())
}

func TestULIDGenerator_ConcurrentUnique(t *testing.T) {
	gen := NewULIDGenerator()

	var mu sync.Mutex
	seen := make(map[string]struct{})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 500 {
				id := gen.Generate()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 8*500)
}
