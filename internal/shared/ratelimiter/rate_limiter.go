package ratelimiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleTTL を過ぎて使われていないキーのリミッターは破棄されます。
const idleTTL = 10 * time.Minute

// RateLimiterInterface は、キー（クライアントIPなど）ごとにリクエストの頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	Allow(key string) bool
}

var _ RateLimiterInterface = (*RateLimiter)(nil)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter は、キーごとのトークンバケットでリクエストの頻度を制限します。
type RateLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	entries   map[string]*entry
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter は interval あたり limit 回を上限とする RateLimiter を生成します。
// limit が0以下の場合は nil を返し、呼び出し側は制限なしとして扱います。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 || interval <= 0 {
		return nil
	}
	return &RateLimiter{
		limit:     rate.Every(interval / time.Duration(limit)),
		burst:     limit,
		entries:   make(map[string]*entry),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow は key のリクエストを許可するかを返します。上限に達している場合は待機せず false を返します。
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	e, ok := rl.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// sweep は idleTTL ごとに使われていないキーを削除します。呼び出し時は mu を保持していること。
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < idleTTL {
		return
	}
	for k, e := range rl.entries {
		if now.Sub(e.lastSeen) >= idleTTL {
			delete(rl.entries, k)
		}
	}
	rl.lastSweep = now
}

// Len は保持しているキーの数を返します。
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.entries)
}
