// Package redis 面板标签与状态的 Redis 缓存
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	cfgpkg "github.com/lsta/pai/internal/config"
)

// Client 带探活与连接池统计的 go-redis 客户端
type Client struct {
	*redis.Client
}

// PoolUsage 连接池使用情况
type PoolUsage struct {
	TotalConns uint32  `json:"total_conns"`
	IdleConns  uint32  `json:"idle_conns"`
	Timeouts   uint32  `json:"timeouts"`
	HitRate    float64 `json:"hit_rate"`
}

// NewClient 按配置建立连接，5 秒内 PING 不通即失败
func NewClient(ctx context.Context, cfg cfgpkg.RedisConfig) (*Client, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis addr is required")
	}
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 10
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     poolSize,
		MinIdleConns: 1,
		ClientName:   "pai",
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return &Client{Client: rdb}, nil
}

// RoundTrip PING 一次并返回耗时
func (c *Client) RoundTrip(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	err := c.Ping(ctx).Err()
	return time.Since(start), err
}

// Usage 连接池命中率等统计
func (c *Client) Usage() PoolUsage {
	st := c.PoolStats()
	u := PoolUsage{TotalConns: st.TotalConns, IdleConns: st.IdleConns, Timeouts: st.Timeouts, HitRate: 1}
	if total := st.Hits + st.Misses; total > 0 {
		u.HitRate = float64(st.Hits) / float64(total)
	}
	return u
}
