package keylimiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const idleTTL = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyLimiter отдельный token bucket на каждый ключ
type KeyLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*entry
	limit     rate.Limit
	burst     int
	lastSweep time.Time
}

// NewPerMinute perMinute <= 0 отключает ограничение
func NewPerMinute(perMinute int) *KeyLimiter {
	limit := rate.Inf
	burst := 1
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
		burst = perMinute
	}
	return &KeyLimiter{
		limiters: map[string]*entry{},
		limit:    limit,
		burst:    burst,
	}
}

func (k *KeyLimiter) Allow(key string) bool {
	return k.AllowAt(key, time.Now())
}

func (k *KeyLimiter) AllowAt(key string, now time.Time) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.sweep(now)
	e, ok := k.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func (k *KeyLimiter) sweep(now time.Time) {
	if now.Sub(k.lastSweep) < idleTTL {
		return
	}
	k.lastSweep = now
	for key, e := range k.limiters {
		if now.Sub(e.lastSeen) > idleTTL {
			delete(k.limiters, key)
		}
	}
}
