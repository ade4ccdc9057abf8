package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Debouncer 判定一次扫卡是否落在冷却窗口之外
// 接受即记录，单个实现内保证原子性
type Debouncer interface {
	Accept(ctx context.Context, tagUID string) (bool, error)
}

// RedisDebouncer 基于 SetNX + TTL 的防抖标记，多实例共享同一窗口
type RedisDebouncer struct {
	client    *redis.Client
	keyPrefix string
	cooldown  time.Duration
}

func NewRedisDebouncer(client *redis.Client, keyPrefix string, cooldown time.Duration) *RedisDebouncer {
	return &RedisDebouncer{
		client:    client,
		keyPrefix: keyPrefix,
		cooldown:  cooldown,
	}
}

// Accept SetNX 成功表示窗口外首次扫卡；key 已存在则仍在冷却中
func (d *RedisDebouncer) Accept(ctx context.Context, tagUID string) (bool, error) {
	if d.cooldown <= 0 {
		return true, nil
	}

	key := d.keyPrefix + ":" + tagUID
	ok, err := d.client.SetNX(ctx, key, "1", d.cooldown).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark scan debounce: %w", err)
	}
	return ok, nil
}

// MemoryDebouncer 进程内防抖表，终端模拟器与测试使用
// 重启即丢失，只保证单实例语义
type MemoryDebouncer struct {
	mu       sync.Mutex
	lastSeen map[string]time.Time
	cooldown time.Duration
	now      func() time.Time
}

func NewMemoryDebouncer(cooldown time.Duration) *MemoryDebouncer {
	return &MemoryDebouncer{
		lastSeen: make(map[string]time.Time),
		cooldown: cooldown,
		now:      time.Now,
	}
}

func (d *MemoryDebouncer) Accept(ctx context.Context, tagUID string) (bool, error) {
	ok, _ := d.AcceptWithRemaining(tagUID)
	return ok, nil
}

// AcceptWithRemaining 同 Accept，并在拒绝时返回剩余冷却时长
func (d *MemoryDebouncer) AcceptWithRemaining(tagUID string) (bool, time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if last, seen := d.lastSeen[tagUID]; seen {
		elapsed := now.Sub(last)
		if elapsed < d.cooldown {
			return false, d.cooldown - elapsed
		}
	}

	d.lastSeen[tagUID] = now
	return true, 0
}

// SetClock 注入测试时钟
func (d *MemoryDebouncer) SetClock(now func() time.Time) {
	d.now = now
}
