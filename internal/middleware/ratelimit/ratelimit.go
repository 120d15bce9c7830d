package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"financecontroller/internal/cache"
)

// Limiter keeps one token bucket per client IP. Buckets idle for longer than
// the configured TTL are forgotten.
type Limiter struct {
	clients *cache.TTLCache[*rate.Limiter]
	limit   rate.Limit
	burst   int
	onHit   func()
}

// Config holds rate limiter configuration
type Config struct {
	RequestsPerMinute int
	// Burst defaults to RequestsPerMinute.
	Burst           int
	ClientTTL       time.Duration
	CleanupInterval time.Duration
	// OnLimit is called for every rejected request, e.g. to count it.
	OnLimit func()
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		ClientTTL:         10 * time.Minute,
		CleanupInterval:   5 * time.Minute,
	}
}

// NewLimiter creates a new rate limiter
func NewLimiter(config Config) *Limiter {
	def := DefaultConfig()
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = def.RequestsPerMinute
	}
	if config.Burst <= 0 {
		config.Burst = config.RequestsPerMinute
	}
	if config.ClientTTL <= 0 {
		config.ClientTTL = def.ClientTTL
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = def.CleanupInterval
	}

	return &Limiter{
		clients: cache.NewTTLCache[*rate.Limiter](config.ClientTTL, config.CleanupInterval),
		limit:   rate.Every(time.Minute / time.Duration(config.RequestsPerMinute)),
		burst:   config.Burst,
		onHit:   config.OnLimit,
	}
}

// Allow checks if a request from the given IP should be allowed
func (rl *Limiter) Allow(clientIP string) bool {
	l := rl.clients.GetOrCreate(clientIP, func() *rate.Limiter {
		return rate.NewLimiter(rl.limit, rl.burst)
	})
	rl.clients.Touch(clientIP)
	return l.Allow()
}

// ActiveClients returns the number of currently tracked clients
func (rl *Limiter) ActiveClients() int {
	return rl.clients.Size()
}

// RetryAfter is the wait, rounded up to whole seconds, until one token is
// available again.
func (rl *Limiter) RetryAfter() time.Duration {
	d := time.Duration(float64(time.Second) / float64(rl.limit))
	if d < time.Second {
		return time.Second
	}
	return d.Round(time.Second)
}

// Middleware creates HTTP middleware for rate limiting
func (rl *Limiter) Middleware(extractIP func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := extractIP(r)

			if !rl.Allow(clientIP) {
				if rl.onHit != nil {
					rl.onHit()
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(rl.RetryAfter().Seconds())))
				if onLimit != nil {
					onLimit(w, r)
				} else {
					http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
