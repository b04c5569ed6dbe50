package topup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// runLockKey guards the top-up critical section across worker instances.
const runLockKey = "topup:run:lock"

// ErrRunInProgress indicates another pass currently holds the run lock.
var ErrRunInProgress = errors.New("topup: run already in progress")

// RunLock serializes passes through a redis SETNX lease. The TTL bounds how
// long a crashed holder can block the next pass.
type RunLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRunLock constructs a lock with the given lease duration.
func NewRunLock(client *redis.Client, ttl time.Duration) *RunLock {
	return &RunLock{client: client, ttl: ttl}
}

// Acquire takes the lock for runID or fails with ErrRunInProgress.
func (l *RunLock) Acquire(ctx context.Context, runID string) error {
	ok, err := l.client.SetNX(ctx, runLockKey, runID, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("topup: acquire run lock: %w", err)
	}
	if !ok {
		return ErrRunInProgress
	}
	return nil
}

// Release frees the lock if runID still holds it. Releasing a lock that
// expired or was taken over is a no-op.
func (l *RunLock) Release(ctx context.Context, runID string) error {
	holder, err := l.client.Get(ctx, runLockKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("topup: release run lock: %w", err)
	}
	if holder != runID {
		return nil
	}
	if err := l.client.Del(ctx, runLockKey).Err(); err != nil {
		return fmt.Errorf("topup: release run lock: %w", err)
	}
	return nil
}
