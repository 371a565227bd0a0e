package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redsync/redsync/v4"
	redsyncgoredis "github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredis "github.com/redis/go-redis/v9"
)

// Locker implements ports.Locker with a single-node redsync mutex.
type Locker struct {
	rs *redsync.Redsync
}

// NewLocker creates a Redis-backed distributed lock.
func NewLocker(client *goredis.Client) *Locker {
	return &Locker{rs: redsync.New(redsyncgoredis.NewPool(client))}
}

// TryLock makes one attempt to take name. Contention is not an error.
func (l *Locker) TryLock(ctx context.Context, name string, ttl time.Duration) (func(context.Context) error, bool, error) {
	mutex := l.rs.NewMutex(prefixLock+name,
		redsync.WithExpiry(ttl),
		redsync.WithTries(1),
	)

	if err := mutex.LockContext(ctx); err != nil {
		if isLockContention(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("acquire lock %s: %w", name, err)
	}

	unlock := func(ctx context.Context) error {
		ok, err := mutex.UnlockContext(ctx)
		if err != nil {
			return fmt.Errorf("release lock %s: %w", name, err)
		}
		if !ok {
			return fmt.Errorf("release lock %s: lock no longer held", name)
		}
		return nil
	}
	return unlock, true, nil
}

func isLockContention(err error) bool {
	if errors.Is(err, redsync.ErrFailed) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "lock already taken") || strings.Contains(msg, "failed to acquire lock")
}
