package common

import (
	"sync"
	"time"
)

// InMemoryRateLimiter 滑动窗口限流器，Redis 不可用时的退路。
// 每个 key 维护一条请求时间戳队列，满了就看最老的一条是否已出窗口。
type InMemoryRateLimiter struct {
	store              map[string]*[]int64
	mutex              sync.Mutex
	expirationDuration time.Duration
}

func (l *InMemoryRateLimiter) Init(expirationDuration time.Duration) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.store == nil {
		l.store = make(map[string]*[]int64)
		l.expirationDuration = expirationDuration
		if expirationDuration > 0 {
			go l.clearExpiredItems()
		}
	}
}

func (l *InMemoryRateLimiter) clearExpiredItems() {
	for {
		time.Sleep(l.expirationDuration)
		l.mutex.Lock()
		now := time.Now().Unix()
		for key := range l.store {
			queue := l.store[key]
			size := len(*queue)
			if size == 0 || now-(*queue)[size-1] > int64(l.expirationDuration.Seconds()) {
				delete(l.store, key)
			}
		}
		l.mutex.Unlock()
	}
}

// Request duration 单位是秒，返回 false 表示超限
func (l *InMemoryRateLimiter) Request(key string, maxRequestNum int, duration int64) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	// [old <-- new]
	now := time.Now().Unix()
	queue, ok := l.store[key]
	if !ok {
		s := make([]int64, 0, maxRequestNum)
		s = append(s, now)
		l.store[key] = &s
		return true
	}
	if len(*queue) < maxRequestNum {
		*queue = append(*queue, now)
		return true
	}
	if now-(*queue)[0] >= duration {
		*queue = (*queue)[1:]
		*queue = append(*queue, now)
		return true
	}
	return false
}
