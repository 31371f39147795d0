package scheduling

import (
	"context"
	"sync"
	"time"
)

// Locker serializes admissions per (book, date). Acquire blocks until the
// key is held, the wait budget runs out, or ctx is done; a timed-out
// acquire is reported as errLockTimeout and treated by the engine as losing
// the slot race.
type Locker interface {
	Acquire(ctx context.Context, key string, wait, ttl time.Duration) (release func(), err error)
}

type lockTimeoutError struct{}

func (lockTimeoutError) Error() string { return "lock acquire timed out" }

var errLockTimeout = lockTimeoutError{}

// MemoryLocker is a single-process Locker built on per-key semaphores. It
// backs tests and single-instance deployments; multi-instance deployments
// use the Redis locker.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]chan struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]chan struct{})}
}

func (l *MemoryLocker) Acquire(ctx context.Context, key string, wait, ttl time.Duration) (func(), error) {
	deadline := time.Now().Add(wait)
	for {
		l.mu.Lock()
		ch, busy := l.held[key]
		if !busy {
			done := make(chan struct{})
			l.held[key] = done
			l.mu.Unlock()
			var once sync.Once
			return func() {
				once.Do(func() {
					l.mu.Lock()
					delete(l.held, key)
					l.mu.Unlock()
					close(done)
				})
			}, nil
		}
		l.mu.Unlock()

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, errLockTimeout
		}
		timer := time.NewTimer(remaining)
		select {
		case <-ch:
			timer.Stop()
		case <-timer.C:
			return nil, errLockTimeout
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
}
