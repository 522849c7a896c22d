package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lsta/pai/internal/gateway"
	"github.com/lsta/pai/internal/panel"
)

const (
	// Redis Key前缀
	keyPrefix    = "pai:"
	panelKey     = keyPrefix + "panel"         // 面板身份（String，JSON）
	labelsKeyFmt = keyPrefix + "labels:%s"     // 标签（Hash，序号 -> JSON）
	statusKeyFmt = keyPrefix + "status:%s"     // 状态（Hash，序号 -> JSON 属性）
	elementsKey  = keyPrefix + "labels:__all__" // 已缓存的元素类别（Set）
)

func labelsKey(element string) string { return fmt.Sprintf(labelsKeyFmt, element) }
func statusKey(element string) string { return fmt.Sprintf(statusKeyFmt, element) }

// cachedLabel 缓存中的标签，Props 单独存放以便原样读回
type cachedLabel struct {
	ID    int            `json:"id"`
	Key   string         `json:"key"`
	Label string         `json:"label"`
	Props map[string]any `json:"props,omitempty"`
}

// LabelCache 每类元素一个 Hash
type LabelCache struct {
	client *Client
	ttl    time.Duration
}

// NewLabelCache ttl 为 0 表示不过期
func NewLabelCache(client *Client, ttl time.Duration) *LabelCache {
	return &LabelCache{client: client, ttl: ttl}
}

// Store 整类覆盖写入
func (c *LabelCache) Store(ctx context.Context, labels panel.Labels) error {
	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for element, entries := range labels {
			key := labelsKey(element)
			p.Del(ctx, key)
			p.SAdd(ctx, elementsKey, element)
			if len(entries) == 0 {
				continue
			}
			fields := make(map[string]any, len(entries))
			for idx, l := range entries {
				data, err := json.Marshal(cachedLabel{ID: l.ID, Key: l.Key, Label: l.Label, Props: l.Props})
				if err != nil {
					return fmt.Errorf("marshal label %s/%d: %w", element, idx, err)
				}
				fields[strconv.Itoa(idx)] = data
			}
			p.HSet(ctx, key, fields)
			if c.ttl > 0 {
				p.Expire(ctx, key, c.ttl)
			}
		}
		return nil
	})
	return err
}

// Load 读取一类元素的标签；不存在返回空 map
func (c *LabelCache) Load(ctx context.Context, element string) (map[int]panel.Label, error) {
	raw, err := c.client.HGetAll(ctx, labelsKey(element)).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[int]panel.Label, len(raw))
	for field, value := range raw {
		idx, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		var cl cachedLabel
		if err := json.Unmarshal([]byte(value), &cl); err != nil {
			return nil, fmt.Errorf("unmarshal label %s/%s: %w", element, field, err)
		}
		out[idx] = panel.Label{ID: cl.ID, Key: cl.Key, Label: cl.Label, Props: cl.Props}
	}
	return out, nil
}

// Elements 已缓存的元素类别
func (c *LabelCache) Elements(ctx context.Context) ([]string, error) {
	return c.client.SMembers(ctx, elementsKey).Result()
}

// StatusCache 每类元素一个 Hash，按序号合并属性
type StatusCache struct {
	client *Client
	ttl    time.Duration
}

func NewStatusCache(client *Client, ttl time.Duration) *StatusCache {
	return &StatusCache{client: client, ttl: ttl}
}

// Store 覆盖本次出现的序号，其余序号保持不变
func (c *StatusCache) Store(ctx context.Context, st panel.Status) error {
	_, err := c.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for element, entries := range st {
			if len(entries) == 0 {
				continue
			}
			key := statusKey(element)
			fields := make(map[string]any, len(entries))
			for idx, props := range entries {
				data, err := json.Marshal(props)
				if err != nil {
					return fmt.Errorf("marshal status %s/%d: %w", element, idx, err)
				}
				fields[strconv.Itoa(idx)] = data
			}
			p.HSet(ctx, key, fields)
			if c.ttl > 0 {
				p.Expire(ctx, key, c.ttl)
			}
		}
		return nil
	})
	return err
}

// Load 读取一类元素的状态
func (c *StatusCache) Load(ctx context.Context, element string) (map[int]map[string]any, error) {
	raw, err := c.client.HGetAll(ctx, statusKey(element)).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[int]map[string]any, len(raw))
	for field, value := range raw {
		idx, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		props := make(map[string]any)
		if err := json.Unmarshal([]byte(value), &props); err != nil {
			return nil, fmt.Errorf("unmarshal status %s/%s: %w", element, field, err)
		}
		out[idx] = props
	}
	return out, nil
}

// Publisher 会话发布目标：面板身份、标签与状态写入 Redis
type Publisher struct {
	client *Client
	ttl    time.Duration
	Labels *LabelCache
	Status *StatusCache
}

// NewPublisher 创建发布目标
func NewPublisher(client *Client, ttl time.Duration) *Publisher {
	return &Publisher{
		client: client,
		ttl:    ttl,
		Labels: NewLabelCache(client, ttl),
		Status: NewStatusCache(client, ttl),
	}
}

func (p *Publisher) PublishPanel(ctx context.Context, info gateway.PanelInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return p.client.Set(ctx, panelKey, data, p.ttl).Err()
}

func (p *Publisher) PublishLabels(ctx context.Context, labels panel.Labels) error {
	return p.Labels.Store(ctx, labels)
}

func (p *Publisher) PublishStatus(ctx context.Context, st panel.Status) error {
	return p.Status.Store(ctx, st)
}

// Panel 读取缓存的面板身份；不存在返回 nil, nil
func (p *Publisher) Panel(ctx context.Context) (*gateway.PanelInfo, error) {
	data, err := p.client.Get(ctx, panelKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var info gateway.PanelInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

var _ gateway.Sink = (*Publisher)(nil)
