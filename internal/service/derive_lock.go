package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const deriveLockTTL = 10 * time.Minute

// DeriveLock is the single-flight guard for the daily derivation run,
// keyed by target date. With a nil redis client (single-instance
// deployments, unit tests) locking degrades to a no-op.
type DeriveLock struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDeriveLock(rdb *redis.Client) *DeriveLock {
	return &DeriveLock{rdb: rdb, ttl: deriveLockTTL}
}

// TryLock acquires the lock for date. ok is false when another run for
// the same date already holds it. The release func is always safe to
// call.
func (l *DeriveLock) TryLock(ctx context.Context, date time.Time) (release func(), ok bool, err error) {
	if l == nil || l.rdb == nil {
		return func() {}, true, nil
	}
	key := "sales:derive:" + date.Format("2006-01-02")
	ok, err = l.rdb.SetNX(ctx, key, "1", l.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return func() { _ = l.rdb.Del(context.Background(), key).Err() }, true, nil
}
