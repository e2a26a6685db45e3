package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"mock_interview_backend/internal/config"
	"mock_interview_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Counter 固定窗口计数
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	Decr(ctx context.Context, key string) error
}

type RedisCounter struct {
	rdb *redis.Client
}

func NewRedisCounter(rdb *redis.Client) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

// Incr key 已带窗口序号，每次刷新 TTL 不影响窗口边界
func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (c *RedisCounter) Decr(ctx context.Context, key string) error {
	return c.rdb.Decr(ctx, key).Err()
}

// QuotaService 每个用户在窗口内的生成次数上限，支持配置热更新
type QuotaService struct {
	counter Counter
	limit   atomic.Int64
	window  atomic.Int64
}

func NewQuotaService(counter Counter, cfg config.QuotaConfig) *QuotaService {
	q := &QuotaService{counter: counter}
	q.Apply(cfg)
	return q
}

func (q *QuotaService) Apply(cfg config.QuotaConfig) {
	q.limit.Store(int64(cfg.MaxRequests))
	q.window.Store(int64(time.Duration(cfg.WindowMinutes) * time.Minute))
}

// Reload 供 configwatcher 回调
func (q *QuotaService) Reload(cfg *config.Config) {
	q.Apply(cfg.Quota)
	logger.Log.Info("Generation quota updated",
		zap.Int("maxRequests", cfg.Quota.MaxRequests),
		zap.Int("windowMinutes", cfg.Quota.WindowMinutes))
}

// Allow 返回是否放行、窗口内剩余次数，以及归还本次计数的函数；计数失败时放行并记录日志
func (q *QuotaService) Allow(ctx context.Context, subject string) (bool, int64, func(context.Context)) {
	window := time.Duration(q.window.Load())
	if window < time.Second {
		window = time.Minute
	}
	limit := q.limit.Load()
	slot := time.Now().Unix() / int64(window/time.Second)
	key := fmt.Sprintf("quota:generation:%s:%d", subject, slot)

	n, err := q.counter.Incr(ctx, key, window)
	if err != nil {
		logger.Log.Warn("Quota counter unavailable", zap.String("subject", subject), zap.Error(err))
		return true, limit, nil
	}
	if n > limit {
		return false, 0, nil
	}

	// 归还时使用同一窗口的 key，跨窗口不会误减新窗口的计数
	refund := func(ctx context.Context) {
		if err := q.counter.Decr(ctx, key); err != nil {
			logger.Log.Warn("Quota refund failed", zap.String("subject", subject), zap.Error(err))
		}
	}
	return true, limit - n, refund
}
