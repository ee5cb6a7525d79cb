// Package monitor 维护每个活跃用户的积分余额视图：周期刷新、
// 提交后的即时刷新，以及带过期时间的余额缓存。
package monitor

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/seevideo/see-video-studio/common"
	"github.com/seevideo/see-video-studio/common/config"
	"github.com/seevideo/see-video-studio/common/logger"
	"github.com/seevideo/see-video-studio/upstream"
)

type cachedBalance struct {
	credits   int64
	expiresAt time.Time
}

// CreditsRefresher 每个在看余额的用户一个刷新协程，登出即停。
// 余额缓存优先走 Redis，没开 Redis 退化到进程内 map。
type CreditsRefresher struct {
	client *upstream.Client

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	tokens  map[string]string

	cacheMu sync.Mutex
	cache   map[string]cachedBalance
}

func NewCreditsRefresher(client *upstream.Client) *CreditsRefresher {
	return &CreditsRefresher{
		client:  client,
		cancels: make(map[string]context.CancelFunc),
		tokens:  make(map[string]string),
		cache:   make(map[string]cachedBalance),
	}
}

// Watch 保证 userId 有一个在跑的刷新协程。重复调用只更新 token，
// 不会叠加协程。
func (r *CreditsRefresher) Watch(userId string, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[userId] = token
	if _, ok := r.cancels[userId]; ok {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancels[userId] = cancel
	common.SafeCtxGoroutine(ctx, func() {
		r.loop(ctx, userId)
	})
}

// Stop 停掉 userId 的刷新协程并清掉余额缓存，登出时调用
func (r *CreditsRefresher) Stop(userId string) {
	r.mu.Lock()
	cancel, ok := r.cancels[userId]
	token := r.tokens[userId]
	delete(r.cancels, userId)
	delete(r.tokens, userId)
	r.mu.Unlock()
	if ok {
		cancel()
	}
	if token != "" {
		r.invalidate(token)
	}
}

func (r *CreditsRefresher) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userId, cancel := range r.cancels {
		cancel()
		delete(r.cancels, userId)
		delete(r.tokens, userId)
	}
}

func (r *CreditsRefresher) loop(ctx context.Context, userId string) {
	interval := time.Duration(config.CreditsRefreshInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Debugf(ctx, "credits refresh loop stopped for user %s", userId)
			return
		case <-ticker.C:
			r.mu.Lock()
			token := r.tokens[userId]
			r.mu.Unlock()
			if token == "" {
				return
			}
			r.RefreshNow(token)
		}
	}
}

// RefreshNow 立刻回源拉一次余额并写缓存。提交成功或积分不足后
// 也会被触发，保证用户马上看到新余额。
func (r *CreditsRefresher) RefreshNow(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	credits, err := r.client.GetCreditsBalance(ctx, token)
	if err != nil {
		logger.SysError("failed to refresh credits balance: " + err.Error())
		return
	}
	r.cacheSet(token, credits)
}

// GetBalance 优先读缓存，缓存过期回源并回填
func (r *CreditsRefresher) GetBalance(ctx context.Context, token string) (int64, error) {
	if credits, ok := r.cacheGet(token); ok {
		return credits, nil
	}
	credits, err := r.client.GetCreditsBalance(ctx, token)
	if err != nil {
		return 0, err
	}
	r.cacheSet(token, credits)
	return credits, nil
}

func creditsCacheKey(token string) string {
	return fmt.Sprintf("credits:%x", sha256.Sum256([]byte(token)))
}

func (r *CreditsRefresher) cacheGet(token string) (int64, bool) {
	key := creditsCacheKey(token)
	if common.RedisEnabled {
		value, err := common.RedisGet(key)
		if err != nil {
			return 0, false
		}
		credits, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, false
		}
		return credits, true
	}

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	cached, ok := r.cache[key]
	if !ok || time.Now().After(cached.expiresAt) {
		delete(r.cache, key)
		return 0, false
	}
	return cached.credits, true
}

func (r *CreditsRefresher) cacheSet(token string, credits int64) {
	key := creditsCacheKey(token)
	ttl := time.Duration(config.CreditsCacheSeconds) * time.Second
	if common.RedisEnabled {
		if err := common.RedisSet(key, strconv.FormatInt(credits, 10), ttl); err != nil {
			logger.SysError("failed to cache credits balance: " + err.Error())
		}
		return
	}

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	r.cache[key] = cachedBalance{credits: credits, expiresAt: time.Now().Add(ttl)}
}

func (r *CreditsRefresher) invalidate(token string) {
	key := creditsCacheKey(token)
	if common.RedisEnabled {
		_ = common.RedisDel(key)
		return
	}
	r.cacheMu.Lock()
	delete(r.cache, key)
	r.cacheMu.Unlock()
}
