package inmemorystore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.Create(ctx, Record{"name": "bolt", IDField: "ignored"})
	require.NoError(t, err)
	id, ok := created[IDField].(string)
	require.True(t, ok)
	assert.NotEqual(t, "ignored", id)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	// Mutating the returned copy must not leak into the store.
	got["name"] = "nut"
	again, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "bolt", again["name"])
}

func TestGet_NotFound(t *testing.T) {
	s := New()
	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.Create(ctx, Record{"name": "bolt", "size": 3.0})
	require.NoError(t, err)
	id := created[IDField].(string)

	updated, err := s.Update(ctx, id, Record{"size": 5.0, IDField: "hijack"})
	require.NoError(t, err)
	assert.Equal(t, id, updated[IDField])
	assert.Equal(t, "bolt", updated["name"])
	assert.Equal(t, 5.0, updated["size"])

	_, err = s.Update(ctx, "missing", Record{"size": 1.0})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAndList(t *testing.T) {
	s := New()
	ctx := context.Background()

	a, err := s.Create(ctx, Record{"n": 1.0})
	require.NoError(t, err)
	_, err = s.Create(ctx, Record{"n": 2.0})
	require.NoError(t, err)
	assert.Len(t, s.List(ctx), 2)

	require.NoError(t, s.Delete(ctx, a[IDField].(string)))
	assert.ErrorIs(t, s.Delete(ctx, a[IDField].(string)), ErrNotFound)

	list := s.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, 2.0, list[0]["n"])
	assert.Equal(t, 1, s.Len())
}

// TestStore_ConcurrentAccess verifies that the store can be safely accessed by
// multiple goroutines simultaneously without data races or lost writes.
func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	ctx := context.Background()
	numGoroutines := 100
	var wg sync.WaitGroup

	created, err := s.Create(ctx, Record{})
	require.NoError(t, err)
	sharedID := created[IDField].(string)

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			if _, err := s.Create(ctx, Record{"i": i}); err != nil {
				t.Errorf("create %d: %v", i, err)
			}
			if _, err := s.Update(ctx, sharedID, Record{fmt.Sprintf("f%d", i): i}); err != nil {
				t.Errorf("update %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, numGoroutines+1, s.Len())
	shared, err := s.Get(ctx, sharedID)
	require.NoError(t, err)
	// Every concurrent update must have landed: id + one field per goroutine.
	assert.Len(t, shared, numGoroutines+1)
}

func TestCreateCapped_ConcurrentCreatesRespectLimit(t *testing.T) {
	ctx := context.Background()
	for _, max := range []int{1, 3} {
		t.Run(fmt.Sprintf("max=%d", max), func(t *testing.T) {
			s := New()
			var (
				wg      sync.WaitGroup
				mu      sync.Mutex
				created int
			)
			for i := 0; i < 32; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := s.CreateCapped(ctx, Record{}, max)
					if err == nil {
						mu.Lock()
						created++
						mu.Unlock()
						return
					}
					assert.ErrorIs(t, err, ErrFull)
				}()
			}
			wg.Wait()

			assert.Equal(t, max, created)
			assert.Equal(t, max, s.Len())
		})
	}
}

func TestCreateCapped_Unlimited(t *testing.T) {
	s := New()
	for i := 0; i < 5; i++ {
		_, err := s.CreateCapped(context.Background(), Record{}, 0)
		require.NoError(t, err)
	}
	assert.Equal(t, 5, s.Len())
}
