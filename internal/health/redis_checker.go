package health

import (
	"context"
	"time"

	redisstorage "github.com/lsta/pai/internal/storage/redis"
)

// RedisProbe Redis 探活与连接池统计
type RedisProbe interface {
	RoundTrip(ctx context.Context) (time.Duration, error)
	Usage() redisstorage.PoolUsage
}

// minPoolHitRate 出现超时且命中率低于该值时降级
const minPoolHitRate = 0.5

// RedisChecker Redis 只做缓存，任何故障都只算降级
type RedisChecker struct {
	client RedisProbe
}

func NewRedisChecker(client RedisProbe) *RedisChecker {
	return &RedisChecker{client: client}
}

func (c *RedisChecker) Name() string { return "redis" }

func (c *RedisChecker) Check(ctx context.Context) CheckResult {
	rtt, err := c.client.RoundTrip(ctx)
	if err != nil {
		return CheckResult{Status: StatusDegraded, Message: "cache unavailable: " + err.Error(), Latency: rtt}
	}

	usage := c.client.Usage()
	res := CheckResult{
		Status:  StatusHealthy,
		Message: "ok",
		Details: map[string]any{"pool": usage},
		Latency: rtt,
	}
	if usage.Timeouts > 0 && usage.HitRate < minPoolHitRate {
		res.Status, res.Message = StatusDegraded, "connection pool saturated"
	}
	return res
}
