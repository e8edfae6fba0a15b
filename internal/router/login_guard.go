package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/palmapernia/tp-django/internal/config"
	"github.com/palmapernia/tp-django/internal/constants"
	"github.com/palmapernia/tp-django/internal/http/response"
	"github.com/palmapernia/tp-django/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// loginAttemptStore 登录失败计数存储
type loginAttemptStore interface {
	// Blocked 返回剩余封禁时长，未封禁为 0
	Blocked(ctx context.Context, key string) (time.Duration, error)
	// RecordFailure 累加失败次数，达到阈值时开始封禁并返回 true
	RecordFailure(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// 失败计数在窗口内累加，达到阈值后写入封禁 key 并清空计数
var loginFailureScript = redis.NewScript(`
local fails = redis.call("INCR", KEYS[1])
if fails == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
if fails >= tonumber(ARGV[2]) then
	redis.call("SET", KEYS[2], "1", "EX", ARGV[3])
	redis.call("DEL", KEYS[1])
	return 1
end
return 0
`)

type redisLoginStore struct {
	client        *redis.Client
	prefix        string
	windowSeconds int
	maxFailures   int
	blockSeconds  int
}

func (s *redisLoginStore) failKey(key string) string  { return s.prefix + ":fail:" + key }
func (s *redisLoginStore) blockKey(key string) string { return s.prefix + ":block:" + key }

func (s *redisLoginStore) Blocked(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := s.client.TTL(ctx, s.blockKey(key)).Result()
	if err != nil {
		return 0, err
	}
	if ttl <= 0 {
		return 0, nil
	}
	return ttl, nil
}

func (s *redisLoginStore) RecordFailure(ctx context.Context, key string) (bool, error) {
	blocked, err := loginFailureScript.Run(ctx, s.client,
		[]string{s.failKey(key), s.blockKey(key)},
		s.windowSeconds, s.maxFailures, s.blockSeconds,
	).Int64()
	if err != nil {
		return false, err
	}
	return blocked == 1, nil
}

func (s *redisLoginStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.failKey(key)).Err()
}

// LoginGuard 登录防爆破：同一用户名 + IP 连续失败达到阈值后封禁一段时间
type LoginGuard struct {
	store        loginAttemptStore
	blockSeconds int
	onBlocked    func(*gin.Context)
}

// NewLoginGuard 创建登录防护，Redis 未启用或配置无效时返回放行的空防护
func NewLoginGuard(client *redis.Client, prefix string, cfg config.LoginRateLimitConfig, onBlocked func(*gin.Context)) *LoginGuard {
	guard := &LoginGuard{blockSeconds: cfg.BlockSeconds, onBlocked: onBlocked}
	if guard.blockSeconds <= 0 {
		guard.blockSeconds = cfg.WindowSeconds
	}
	if client == nil || cfg.WindowSeconds <= 0 || cfg.MaxAttempts <= 0 || guard.blockSeconds <= 0 {
		return guard
	}
	guard.store = &redisLoginStore{
		client:        client,
		prefix:        prefix,
		windowSeconds: cfg.WindowSeconds,
		maxFailures:   cfg.MaxAttempts,
		blockSeconds:  guard.blockSeconds,
	}
	return guard
}

// Middleware 登录接口中间件：封禁期内直接拒绝，处理完成后根据登录结果计数
func (g *LoginGuard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if g == nil || g.store == nil {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		key := loginAttemptKey(c)

		remaining, err := g.store.Blocked(ctx, key)
		if err != nil {
			// Redis 异常时放行，登录本身不依赖限流
			logger.Warnw("login_guard_check_failed", "error", err)
			c.Next()
			return
		}
		if remaining > 0 {
			g.reject(c, remaining)
			return
		}

		c.Next()

		outcome, _ := c.Get(constants.ContextKeyLoginOutcome)
		switch outcome {
		case constants.LoginLogFailReasonInvalidCredential:
			blocked, err := g.store.RecordFailure(ctx, key)
			if err != nil {
				logger.Warnw("login_guard_record_failed", "error", err)
			} else if blocked {
				logger.Warnw("login_guard_blocked", "client_ip", c.ClientIP(), "block_seconds", g.blockSeconds)
			}
		case constants.LoginLogStatusSuccess:
			if err := g.store.Reset(ctx, key); err != nil {
				logger.Warnw("login_guard_reset_failed", "error", err)
			}
		}
	}
}

func (g *LoginGuard) reject(c *gin.Context, remaining time.Duration) {
	waitSeconds := int((remaining + time.Second - 1) / time.Second)
	if waitSeconds < 1 {
		waitSeconds = 1
	}
	if g.onBlocked != nil {
		g.onBlocked(c)
	}
	response.Fail(c, response.NewError(response.CodeTooManyRequests, "error.login_too_many", waitSeconds))
	c.Abort()
}

// loginAttemptKey 用户名（小写）+ 客户端 IP
func loginAttemptKey(c *gin.Context) string {
	username := strings.ToLower(readJSONField(c, "username"))
	if username == "" {
		return c.ClientIP()
	}
	return fmt.Sprintf("%s|%s", username, c.ClientIP())
}

// readJSONField 读取 JSON 请求体中的字符串字段，读取后恢复 Body
func readJSONField(c *gin.Context, field string) string {
	if c == nil || c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
	if len(body) == 0 {
		return ""
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if text, ok := payload[field].(string); ok {
		return strings.TrimSpace(text)
	}
	return ""
}
