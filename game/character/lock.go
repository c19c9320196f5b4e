package character

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/qingyun/xiuxian/server/cache"
	"go.uber.org/zap"
)

// Locker hands out short-lived per-key locks stored in a cache.Cache. With
// the Redis backend the lock holds across server processes.
type Locker struct {
	c      cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewLocker returns a Locker whose locks expire after ttl if never released.
func NewLocker(c cache.Cache, ttl time.Duration, logger *zap.Logger) *Locker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Locker{c: c, ttl: ttl, logger: logger}
}

// TryLock acquires key without waiting. On success the returned func
// releases it; the release only deletes the key while it still holds this
// caller's token, so an expired-and-retaken lock is left alone.
func (l *Locker) TryLock(ctx context.Context, key string) (func(), bool, error) {
	token := uuid.NewString()
	ok, err := l.c.SetNX(ctx, key, token, l.ttl)
	if err != nil || !ok {
		return nil, false, err
	}
	return func() {
		if _, err := l.c.CompareAndDelete(context.WithoutCancel(ctx), key, token); err != nil {
			l.logger.Warn("lock release failed", zap.String("key", key), zap.Error(err))
		}
	}, true, nil
}

func breakthroughKey(id string) string { return "breakthrough:" + id }
