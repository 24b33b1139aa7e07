package common

import (
	"sync"
	"time"
)

// InMemoryRateLimiter keeps, per key, the timestamps of the most recent
// requests inside a sliding window. [old <-- new]
type InMemoryRateLimiter struct {
	store              map[string]*[]int64
	mutex              sync.Mutex
	expirationDuration time.Duration
	now                func() time.Time
}

func (l *InMemoryRateLimiter) Init(expirationDuration time.Duration) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.store != nil {
		return
	}
	l.store = make(map[string]*[]int64)
	l.expirationDuration = expirationDuration
	if l.now == nil {
		l.now = time.Now
	}
	if expirationDuration > 0 {
		go l.clearExpiredItems()
	}
}

func (l *InMemoryRateLimiter) clearExpiredItems() {
	for {
		time.Sleep(l.expirationDuration)
		l.mutex.Lock()
		now := l.now().Unix()
		for key, queue := range l.store {
			size := len(*queue)
			if size == 0 || now-(*queue)[size-1] > int64(l.expirationDuration.Seconds()) {
				delete(l.store, key)
			}
		}
		l.mutex.Unlock()
	}
}

// Request reports whether one more request for key fits into
// maxRequestNum requests per duration seconds, and records it if so.
func (l *InMemoryRateLimiter) Request(key string, maxRequestNum int, duration int64) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if maxRequestNum <= 0 {
		return false
	}
	now := l.now().Unix()
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
		*queue = append((*queue)[1:], now)
		return true
	}
	return false
}
