package endpoint

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// limiterTTL is how long an idle key keeps its bucket. It is raised to
	// the full refill time when that is longer, so eviction never hands a
	// drained caller a fresh bucket.
	limiterTTL = 10 * time.Minute

	// maxLimiters bounds the number of tracked keys. Keys beyond it share
	// one overflow bucket.
	maxLimiters = 10_000

	overflowKey = "overflow"
)

type timedLimiter struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// keyedLimiter keeps one token bucket per caller key and drops buckets
// that have been idle for longer than the TTL.
type keyedLimiter struct {
	limit rate.Limit
	burst int
	ttl   time.Duration
	max   int
	now   func() time.Time

	mu        sync.Mutex
	limiters  map[string]*timedLimiter
	lastSweep time.Time
}

func newKeyedLimiter(perMinute float64, burst int) *keyedLimiter {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(perMinute / 60)

	ttl := limiterTTL
	if refill := time.Duration(float64(burst) / float64(limit) * float64(time.Second)); refill > ttl {
		ttl = refill
	}

	return &keyedLimiter{
		limit:    limit,
		burst:    burst,
		ttl:      ttl,
		max:      maxLimiters,
		now:      time.Now,
		limiters: make(map[string]*timedLimiter),
	}
}

// allow takes a token from key's bucket. When none is available it returns
// the whole seconds until one will be, at least 1.
func (k *keyedLimiter) allow(key string) (int, bool) {
	now := k.now()

	k.mu.Lock()
	if now.Sub(k.lastSweep) >= k.ttl {
		k.sweep(now)
	}
	tl, ok := k.limiters[key]
	if !ok {
		if len(k.limiters) >= k.max {
			k.sweep(now)
		}
		if len(k.limiters) >= k.max {
			key = overflowKey
			tl = k.limiters[key]
		}
		if tl == nil {
			tl = &timedLimiter{limiter: rate.NewLimiter(k.limit, k.burst)}
			k.limiters[key] = tl
		}
	}
	tl.lastUsed = now
	k.mu.Unlock()

	if tl.limiter.AllowN(now, 1) {
		return 0, true
	}

	// Measure the wait without consuming a token.
	res := tl.limiter.ReserveN(now, 1)
	delay := res.DelayFrom(now)
	res.CancelAt(now)

	wait := int(math.Ceil(delay.Seconds()))
	if wait < 1 {
		wait = 1
	}
	return wait, false
}

// sweep drops idle buckets. Callers hold mu.
func (k *keyedLimiter) sweep(now time.Time) {
	for key, tl := range k.limiters {
		if now.Sub(tl.lastUsed) > k.ttl {
			delete(k.limiters, key)
		}
	}
	k.lastSweep = now
}

// size reports the number of tracked keys.
func (k *keyedLimiter) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.limiters)
}
