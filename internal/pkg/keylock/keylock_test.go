package keylock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/pkg/keylock"
)

func TestLocal_Lock(t *testing.T) {
	t.Run("should serialize holders of the same key", func(t *testing.T) {
		locker := keylock.NewLocal()
		var inside, maxInside atomic.Int32
		var wg sync.WaitGroup

		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				release, err := locker.Lock(context.Background(), []string{"product:1@1", "package:2@1"})
				if !assert.NoError(t, err) {
					return
				}
				defer release()

				n := inside.Add(1)
				if n > maxInside.Load() {
					maxInside.Store(n)
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), maxInside.Load())
	})

	t.Run("should not deadlock on overlapping sets in different order", func(t *testing.T) {
		locker := keylock.NewLocal()
		var wg sync.WaitGroup

		for i := range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				keys := []string{"a", "b", "c"}
				if i%2 == 0 {
					keys = []string{"c", "b", "a"}
				}
				release, err := locker.Lock(context.Background(), keys)
				if assert.NoError(t, err) {
					release()
				}
			}()
		}

		done := make(chan struct{})
		go func() { wg.Wait(); close(done) }()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("lockers deadlocked")
		}
	})

	t.Run("should give up when the context ends", func(t *testing.T) {
		locker := keylock.NewLocal()
		release, err := locker.Lock(context.Background(), []string{"a"})
		require.NoError(t, err)
		defer release()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err = locker.Lock(ctx, []string{"b", "a"})

		require.ErrorIs(t, err, context.DeadlineExceeded)

		again, err := locker.Lock(context.Background(), []string{"b"})
		require.NoError(t, err, "key b must be released after the failed attempt")
		again()
	})

	t.Run("should tolerate duplicate keys and double release", func(t *testing.T) {
		locker := keylock.NewLocal()

		release, err := locker.Lock(context.Background(), []string{"a", "a"})
		require.NoError(t, err)
		release()
		release()

		again, err := locker.Lock(context.Background(), []string{"a"})
		require.NoError(t, err)
		again()
	})
}

func TestNoop_Lock(t *testing.T) {
	release, err := keylock.Noop{}.Lock(context.Background(), []string{"a"})

	require.NoError(t, err)
	release()
}
