package lock

import (
	"context"
	"sync"
	"time"

	"github.com/arthur-debert/lbi/pkg/errors"
)

// Locker is an exclusive lock held for the duration of one operation.
type Locker interface {
	// Lock acquires the lock, retrying until the policy is exhausted or
	// ctx is done.
	Lock(ctx context.Context) error
	// TryLock makes a single attempt and reports whether it succeeded.
	TryLock() (bool, error)
	// Unlock releases a held lock.
	Unlock() error
}

// Policy bounds lock acquisition.
type Policy struct {
	Retries    int
	Backoff    time.Duration
	MaxBackoff time.Duration
}

// DefaultPolicy returns the stock retry policy
func DefaultPolicy() Policy {
	return Policy{
		Retries:    10,
		Backoff:    50 * time.Millisecond,
		MaxBackoff: 2 * time.Second,
	}
}

// delay returns the wait before retry n (0-based).
func (p Policy) delay(n int) time.Duration {
	d := p.Backoff
	for i := 0; i < n; i++ {
		d *= 2
		if p.MaxBackoff > 0 && d >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	if p.MaxBackoff > 0 && d > p.MaxBackoff {
		return p.MaxBackoff
	}
	return d
}

// acquire runs try under the retry policy.
func acquire(ctx context.Context, p Policy, path string, try func() (bool, error)) error {
	for attempt := 0; ; attempt++ {
		ok, err := try()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if attempt >= p.Retries {
			return errors.New(errors.ErrLockContention, "registry is locked by another operation").
				WithDetail("path", path).
				WithDetail("attempts", attempt+1)
		}

		timer := time.NewTimer(p.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Wrap(ctx.Err(), errors.ErrLockContention, "gave up waiting for the registry lock").
				WithDetail("path", path)
		case <-timer.C:
		}
	}
}

// memoryLock is an in-process Locker for tests and the memory backend.
type memoryLock struct {
	mu     sync.Mutex
	held   bool
	policy Policy
}

// NewMemory returns an in-process Locker.
func NewMemory(policy Policy) Locker {
	return &memoryLock{policy: policy}
}

func (l *memoryLock) Lock(ctx context.Context) error {
	return acquire(ctx, l.policy, "memory", l.TryLock)
}

func (l *memoryLock) TryLock() (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *memoryLock) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = false
	return nil
}
