package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/heartmarshall/gearcatalog-backend/pkg/ctxutil"
)

// idleBucketTTL is how long an unused client bucket is kept.
const idleBucketTTL = 10 * time.Minute

// RateLimiter implements per-client token bucket rate limiting. Clients are
// keyed by the address stored by ClientIP, falling back to RemoteAddr.
type RateLimiter struct {
	perMinute int
	buckets   sync.Map // map[string]*bucket
	stop      chan struct{}
	stopOnce  sync.Once
	now       func() time.Time
}

type bucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewRateLimiter creates a limiter allowing perMinute requests per client,
// with bursts up to the same amount. Idle buckets are swept every
// cleanupInterval. Call Stop on shutdown.
func NewRateLimiter(perMinute int, cleanupInterval time.Duration) *RateLimiter {
	rl := &RateLimiter{
		perMinute: max(perMinute, 1),
		stop:      make(chan struct{}),
		now:       time.Now,
	}
	go rl.cleanup(cleanupInterval)
	return rl
}

// Stop terminates the background cleanup goroutine. It is safe to call more
// than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Middleware rejects requests over the limit with 429 and a Retry-After hint.
func (rl *RateLimiter) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ctxutil.ClientIPFromCtx(r.Context())
			if key == "" {
				key = remoteHost(r.RemoteAddr)
			}

			if wait, ok := rl.allow(key); !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// allow takes one token from the client's bucket. When the bucket is empty
// it reports how long until the next token.
func (rl *RateLimiter) allow(key string) (time.Duration, bool) {
	capacity := float64(rl.perMinute)
	perSecond := capacity / 60.0
	now := rl.now()

	val, _ := rl.buckets.LoadOrStore(key, &bucket{tokens: capacity, lastRefill: now})
	b := val.(*bucket)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens = min(capacity, b.tokens+now.Sub(b.lastRefill).Seconds()*perSecond)
	b.lastRefill = now

	if b.tokens < 1 {
		missing := 1 - b.tokens
		return time.Duration(missing / perSecond * float64(time.Second)), false
	}
	b.tokens--
	return 0, true
}

func (rl *RateLimiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

func (rl *RateLimiter) sweep() {
	now := rl.now()
	rl.buckets.Range(func(key, value any) bool {
		b := value.(*bucket)
		b.mu.Lock()
		idle := now.Sub(b.lastRefill)
		b.mu.Unlock()
		if idle > idleBucketTTL {
			rl.buckets.Delete(key)
		}
		return true
	})
}
