package scheduling

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLockerSerializes(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	release, err := l.Acquire(ctx, "book|2026-03-02", 50*time.Millisecond, time.Second)
	require.NoError(t, err)

	// Second holder must wait; with a tiny budget it times out.
	_, err = l.Acquire(ctx, "book|2026-03-02", 10*time.Millisecond, time.Second)
	assert.ErrorIs(t, err, errLockTimeout)

	// A different key is independent.
	release2, err := l.Acquire(ctx, "book|2026-03-03", 10*time.Millisecond, time.Second)
	require.NoError(t, err)
	release2()

	release()
	release() // releasing twice is safe

	release3, err := l.Acquire(ctx, "book|2026-03-02", 10*time.Millisecond, time.Second)
	require.NoError(t, err)
	release3()
}

func TestMemoryLockerHandsOffToWaiter(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	release, err := l.Acquire(ctx, "k", time.Second, time.Second)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	acquired := make(chan struct{})
	go func() {
		defer wg.Done()
		r, err := l.Acquire(ctx, "k", 2*time.Second, time.Second)
		assert.NoError(t, err)
		close(acquired)
		r()
	}()

	select {
	case <-acquired:
		t.Fatal("waiter acquired the lock while it was still held")
	case <-time.After(20 * time.Millisecond):
	}

	release()
	wg.Wait()
}

func TestMemoryLockerRespectsContext(t *testing.T) {
	l := NewMemoryLocker()

	release, err := l.Acquire(context.Background(), "k", time.Second, time.Second)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err = l.Acquire(ctx, "k", 5*time.Second, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}
