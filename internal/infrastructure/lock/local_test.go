package lock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/orderflow-api/internal/infrastructure/lock"
)

func TestLocalLocker_SerializesSameKey(t *testing.T) {
	l := lock.NewLocalLocker()
	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), "stock:a:b", "order:1")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
}

func TestLocalLocker_IndependentKeys(t *testing.T) {
	l := lock.NewLocalLocker()
	r1, err := l.Acquire(context.Background(), "order:1")
	require.NoError(t, err)
	defer r1()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	r2, err := l.Acquire(ctx, "order:2")
	require.NoError(t, err)
	r2()
}

func TestLocalLocker_ContextCancelled(t *testing.T) {
	l := lock.NewLocalLocker()
	r1, err := l.Acquire(context.Background(), "order:1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx, "order:0", "order:1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// order:0 quedó libre tras el fallo.
	r0, err := l.Acquire(context.Background(), "order:0")
	require.NoError(t, err)
	r0()

	r1()
	r1() // liberar dos veces no bloquea
	r3, err := l.Acquire(context.Background(), "order:1")
	require.NoError(t, err)
	r3()
}
