package httpx

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/registrar/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the rate limiting parameters.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int
	// Window is the time window for rate limiting
	Window time.Duration
	// Burst allows for temporary bursts above the rate limit
	Burst int
}

// RateLimits groups the limit profiles applied by the router.
type RateLimits struct {
	// Strict guards credential-checking endpoints (token, bootstrap).
	Strict RateLimitConfig
	// Moderate guards authenticated management endpoints (registration).
	Moderate RateLimitConfig
	// Public guards unauthenticated read-only endpoints (jwks, health).
	Public RateLimitConfig
}

// DefaultRateLimits returns the built-in profiles.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		Strict:   RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute, Burst: 10},
		Moderate: RateLimitConfig{RequestsPerWindow: 30, Window: time.Minute, Burst: 30},
		Public:   RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000},
	}
}

// RateLimitsFromEnv returns the default profiles with any
// RATELIMIT_{STRICT|MODERATE|PUBLIC}_{REQUESTS|WINDOW_SEC|BURST} overrides applied.
func RateLimitsFromEnv() RateLimits {
	d := DefaultRateLimits()
	return RateLimits{
		Strict:   ParseRateLimitFromEnv("STRICT", d.Strict),
		Moderate: ParseRateLimitFromEnv("MODERATE", d.Moderate),
		Public:   ParseRateLimitFromEnv("PUBLIC", d.Public),
	}
}

// ParseRateLimitFromEnv reads RATELIMIT_{prefix}_{field} environment
// variables on top of defaultConfig. Invalid or non-positive values are ignored.
func ParseRateLimitFromEnv(prefix string, defaultConfig RateLimitConfig) RateLimitConfig {
	config := defaultConfig

	if v, ok := positiveEnvInt("RATELIMIT_" + prefix + "_REQUESTS"); ok {
		config.RequestsPerWindow = v
	}
	if v, ok := positiveEnvInt("RATELIMIT_" + prefix + "_WINDOW_SEC"); ok {
		config.Window = time.Duration(v) * time.Second
	}
	if v, ok := positiveEnvInt("RATELIMIT_" + prefix + "_BURST"); ok {
		config.Burst = v
	}

	return config
}

func positiveEnvInt(key string) (int, bool) {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// KeyExtractor extracts the key requests are grouped by for rate limiting.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor extracts the client IP address from the request.
// It handles X-Forwarded-For and X-Real-IP headers for proxied requests.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// ClientKeyExtractor identifies the calling OAuth client: verified claims
// in the context first, then the HTTP Basic username, then a client_id form field.
func ClientKeyExtractor(r *http.Request) string {
	if c, ok := ClaimsFromContext(r.Context()); ok {
		return c.AuthorizedParty()
	}
	if user, _, ok := r.BasicAuth(); ok {
		return user
	}
	if err := r.ParseForm(); err == nil {
		return r.PostFormValue("client_id")
	}
	return ""
}

// CompositeKeyExtractor joins the non-empty keys of extractors with sep.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		var parts []string
		for _, extractor := range extractors {
			if key := extractor(r); key != "" {
				parts = append(parts, key)
			}
		}
		return strings.Join(parts, sep)
	}
}

// rateLimiter manages rate limiters for different keys
type rateLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int

	mu          sync.Mutex
	lastCleanup time.Time
}

func (rl *rateLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := rl.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}

	actual, _ := rl.limiters.LoadOrStore(key, rate.NewLimiter(rl.rate, rl.burst))
	rl.maybeCleanup()

	return actual.(*rate.Limiter)
}

// maybeCleanup drops idle limiters (full buckets) at most every 5 minutes.
func (rl *rateLimiter) maybeCleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if time.Since(rl.lastCleanup) < 5*time.Minute {
		return
	}
	rl.lastCleanup = time.Now()

	rl.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(rl.burst) {
			rl.limiters.Delete(key)
		}
		return true
	})
}

// RateLimitMiddleware creates a rate limiting middleware with the given configuration.
// Requests for which keyExtractor returns "" are let through.
func RateLimitMiddleware(config RateLimitConfig, keyExtractor KeyExtractor) Middleware {
	rl := &rateLimiter{
		rate:        rate.Limit(float64(config.RequestsPerWindow) / config.Window.Seconds()),
		burst:       config.Burst,
		lastCleanup: time.Now(),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := keyExtractor(r)
			if key == "" {
				log.Warn("rate limit: unable to extract key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			limiter := rl.getLimiter(key)
			if !limiter.Allow() {
				reservation := limiter.Reserve()
				delay := reservation.Delay()
				reservation.Cancel()

				retryAfter := max(int(delay.Seconds()), 1)

				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerWindow))
				w.Header().Set("X-RateLimit-Window", config.Window.String())

				log.Warn("rate limit exceeded",
					"key", key,
					"endpoint", r.URL.Path,
					"retry_after", retryAfter,
				)

				WriteJSON(w, http.StatusTooManyRequests, map[string]string{
					"error":             "rate_limit_exceeded",
					"error_description": "Too many requests. Please try again later.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP limits by client IP address only.
func RateLimitByIP(config RateLimitConfig) Middleware {
	return RateLimitMiddleware(config, IPKeyExtractor)
}

// RateLimitByIPAndClient limits by IP plus the calling client identity, so one
// client cannot exhaust the budget of others behind the same address.
func RateLimitByIPAndClient(config RateLimitConfig) Middleware {
	return RateLimitMiddleware(config, CompositeKeyExtractor(":", IPKeyExtractor, ClientKeyExtractor))
}
