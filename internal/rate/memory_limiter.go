package rate

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLimiter es el equivalente in-process del RedisLimiter.
// Los contadores viven en go-cache y expiran con la ventana.
type MemoryLimiter struct {
	c      *gocache.Cache
	prefix string
	max    int64
	window time.Duration
	now    func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		c:      gocache.New(window, 2*window),
		prefix: "rl:",
		max:    int64(max),
		window: window,
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := l.now().UTC()
	k, start := windowKey(l.prefix, key, l.window, now)
	end := start.Add(l.window)

	// Add falla si la key ya existe; en ese caso incrementamos.
	hits := int64(1)
	if err := l.c.Add(k, hits, end.Sub(now)); err != nil {
		n, err := l.c.IncrementInt64(k, 1)
		if err != nil {
			// expiró entre Add e Increment: arranca una ventana nueva
			l.c.Set(k, hits, end.Sub(now))
		} else {
			hits = n
		}
	}
	return result(hits, l.max, end.Sub(now)), nil
}
