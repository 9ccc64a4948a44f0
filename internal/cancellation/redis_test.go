package cancellation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// unreachableRedis points at a port nothing listens on.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisRegistry_UnreachableServer(t *testing.T) {
	t.Parallel()

	reg := NewRedisRegistry(unreachableRedis(t), zap.NewNop())

	sig := reg.Signal("job-1")
	if sig.Cancelled() {
		t.Error("expected poll failures to read as not cancelled")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := reg.Cancel(ctx, "job-1")
	if err == nil {
		t.Fatal("expected cancel to fail without redis")
	}
	if errors.Is(err, ErrUnknownJob) {
		t.Error("connection failures must not be reported as unknown jobs")
	}

	reg.Release("job-1")
}

func TestRedisSignal_CachesPositiveAnswer(t *testing.T) {
	t.Parallel()

	reg := NewRedisRegistry(unreachableRedis(t), zap.NewNop())
	sig := &redisSignal{registry: reg, key: redisKeyPrefix + "job-2"}
	sig.local.Cancel()

	if !sig.Cancelled() {
		t.Fatal("expected locally cached cancellation without a redis round trip")
	}
}

func TestNewRedisClient_BadURL(t *testing.T) {
	t.Parallel()

	if _, err := NewRedisClient(context.Background(), "redis://:bad@[::1"); err == nil {
		t.Fatal("expected parse error")
	}
}
