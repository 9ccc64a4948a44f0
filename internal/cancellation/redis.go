package cancellation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	redisKeyPrefix   = "codeshift:cancel:"
	redisJobPrefix   = "codeshift:job:"
	redisKeyTTL      = 30 * time.Minute
	redisPollTimeout = 250 * time.Millisecond
)

// NewRedisClient connects to REDIS_URL style URLs or plain host:port addresses.
func NewRedisClient(ctx context.Context, urlOrAddr string) (*redis.Client, error) {
	var rdb *redis.Client
	if strings.HasPrefix(urlOrAddr, "redis://") || strings.HasPrefix(urlOrAddr, "rediss://") {
		opt, err := redis.ParseURL(urlOrAddr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		rdb = redis.NewClient(opt)
	} else {
		rdb = redis.NewClient(&redis.Options{Addr: urlOrAddr})
	}

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

// RedisRegistry stores cancellation flags in Redis so a cancel request can reach a job running
// on any instance. Each signal keeps a local token so a positive answer is only fetched once.
type RedisRegistry struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRedisRegistry(rdb *redis.Client, logger *zap.Logger) *RedisRegistry {
	return &RedisRegistry{rdb: rdb, logger: logger}
}

func (r *RedisRegistry) Signal(id string) Signal {
	ctx, cancel := context.WithTimeout(context.Background(), redisPollTimeout)
	defer cancel()
	if err := r.rdb.Set(ctx, redisJobPrefix+id, "1", redisKeyTTL).Err(); err != nil {
		r.logger.Warn("failed to register job in redis", zap.String("id", id), zap.Error(err))
	}
	return &redisSignal{registry: r, key: redisKeyPrefix + id}
}

func (r *RedisRegistry) Cancel(ctx context.Context, id string) error {
	n, err := r.rdb.Exists(ctx, redisJobPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("check job %s: %w", id, err)
	}
	if n == 0 {
		return ErrUnknownJob
	}
	if err := r.rdb.Set(ctx, redisKeyPrefix+id, "1", redisKeyTTL).Err(); err != nil {
		return fmt.Errorf("cancel job %s: %w", id, err)
	}
	return nil
}

func (r *RedisRegistry) Release(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), redisPollTimeout)
	defer cancel()
	if err := r.rdb.Del(ctx, redisKeyPrefix+id, redisJobPrefix+id).Err(); err != nil {
		r.logger.Warn("failed to release job in redis", zap.String("id", id), zap.Error(err))
	}
}

type redisSignal struct {
	registry *RedisRegistry
	key      string
	local    Token
}

func (s *redisSignal) Cancelled() bool {
	if s.local.Cancelled() {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisPollTimeout)
	defer cancel()
	n, err := s.registry.rdb.Exists(ctx, s.key).Result()
	if err != nil {
		s.registry.logger.Debug("cancellation poll failed", zap.String("key", s.key), zap.Error(err))
		return false
	}
	if n > 0 {
		s.local.Cancel()
		return true
	}
	return false
}
