package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"TapTrack/config"
	"TapTrack/pkg/errors"
	"TapTrack/pkg/logger"
	"TapTrack/pkg/response"
	"TapTrack/storage/redis"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// 时间窗口（秒）
	Window int
	// 时间窗口内最大请求数
	MaxRequests int
	// 限流键前缀
	KeyPrefix string
}

// ScanRateLimitConfig 扫卡入口限流；终端本身有冷却，这里只挡异常流量
func ScanRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Window:      1,
		MaxRequests: config.Cfg.RateLimitRPS,
		KeyPrefix:   "scan:rate",
	}
}

// RateLimiter 基于 zset 滑动窗口的 IP 限流器
type RateLimiter struct {
	config RateLimitConfig
}

func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	return &RateLimiter{config: config}
}

func (rl *RateLimiter) getKey(c *app.RequestContext) string {
	return redis.Key(rl.config.KeyPrefix, fmt.Sprintf("ip:%s", c.ClientIP()))
}

// Allow 检查是否允许请求，使用滑动窗口算法
func (rl *RateLimiter) Allow(ctx context.Context, c *app.RequestContext) (bool, int, error) {
	key := rl.getKey(c)
	now := time.Now()
	windowStart := now.Add(-time.Duration(rl.config.Window) * time.Second)

	client := redis.Client()
	pipe := client.Pipeline()

	// 每次请求先清掉窗口之外的记录
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart.UnixNano()))
	pipe.ZAdd(ctx, key, redislib.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	zcardCmd := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, time.Duration(rl.config.Window+10)*time.Second)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, 0, fmt.Errorf("failed to execute pipeline: %w", err)
	}

	count := int(zcardCmd.Val())
	return count <= rl.config.MaxRequests, count, nil
}

// RateLimitMiddleware 创建限流中间件
func RateLimitMiddleware(cfg RateLimitConfig) app.HandlerFunc {
	limiter := NewRateLimiter(cfg)

	return func(ctx context.Context, c *app.RequestContext) {
		if !config.Cfg.RateLimitEnabled {
			c.Next(ctx)
			return
		}

		allowed, count, err := limiter.Allow(ctx, c)
		if err != nil {
			// 限流器故障时放行，不让 Redis 故障挡住打卡
			logger.Logger.Error("Failed to check rate limit", zap.Error(err))
			c.Next(ctx)
			return
		}

		c.Response.Header.Set("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
		if remaining := cfg.MaxRequests - count; remaining > 0 {
			c.Response.Header.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		} else {
			c.Response.Header.Set("X-RateLimit-Remaining", "0")
		}

		if !allowed {
			c.AbortWithStatus(consts.StatusTooManyRequests)
			response.Error(ctx, c, errors.ScanRateLimited)
			return
		}

		c.Next(ctx)
	}
}
