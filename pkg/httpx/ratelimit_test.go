package httpx_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/registrar/pkg/httpx"
	"github.com/aussiebroadwan/registrar/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestIPKeyExtractor(t *testing.T) {
	t.Run("extracts from RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		require.Equal(t, "192.168.1.1", httpx.IPKeyExtractor(req))
	})

	t.Run("prefers X-Forwarded-For", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.168.1.1")
		require.Equal(t, "203.0.113.1", httpx.IPKeyExtractor(req))
	})

	t.Run("uses X-Real-IP if X-Forwarded-For absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Real-IP", "203.0.113.2")
		require.Equal(t, "203.0.113.2", httpx.IPKeyExtractor(req))
	})
}

func TestClientKeyExtractor(t *testing.T) {
	t.Run("claims in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := httpx.ContextWithClaims(req.Context(), jwtx.Claims{AZP: "client-a"})
		require.Equal(t, "client-a", httpx.ClientKeyExtractor(req.WithContext(ctx)))
	})

	t.Run("basic auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.SetBasicAuth("client-b", "secret")
		require.Equal(t, "client-b", httpx.ClientKeyExtractor(req))
	})

	t.Run("form field", func(t *testing.T) {
		form := url.Values{"client_id": {"client-c"}}
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		require.Equal(t, "client-c", httpx.ClientKeyExtractor(req))
	})

	t.Run("none", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		require.Empty(t, httpx.ClientKeyExtractor(req))
	})
}

func TestCompositeKeyExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	req.SetBasicAuth("client-a", "x")

	extractor := httpx.CompositeKeyExtractor(":", httpx.IPKeyExtractor, httpx.ClientKeyExtractor)
	require.Equal(t, "192.168.1.1:client-a", extractor(req))

	skipEmpty := httpx.CompositeKeyExtractor(":", func(*http.Request) string { return "" }, httpx.IPKeyExtractor)
	require.Equal(t, "192.168.1.1", skipEmpty(req))
}

func serveFrom(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("allows requests under limit", func(t *testing.T) {
		h := httpx.RateLimitMiddleware(httpx.RateLimitConfig{RequestsPerWindow: 5, Window: time.Second, Burst: 5}, httpx.IPKeyExtractor)(okHandler)

		for i := range 5 {
			require.Equal(t, http.StatusOK, serveFrom(h, "192.168.1.1:12345").Code, "request %d should succeed", i+1)
		}
	})

	t.Run("blocks requests over limit", func(t *testing.T) {
		h := httpx.RateLimitMiddleware(httpx.RateLimitConfig{RequestsPerWindow: 3, Window: time.Minute, Burst: 3}, httpx.IPKeyExtractor)(okHandler)

		for range 3 {
			require.Equal(t, http.StatusOK, serveFrom(h, "192.168.1.1:12345").Code)
		}

		rec := serveFrom(h, "192.168.1.1:12345")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
	})

	t.Run("different keys are tracked separately", func(t *testing.T) {
		h := httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2})(okHandler)

		for range 2 {
			require.Equal(t, http.StatusOK, serveFrom(h, "192.168.1.1:12345").Code)
		}
		require.Equal(t, http.StatusTooManyRequests, serveFrom(h, "192.168.1.1:12345").Code)
		require.Equal(t, http.StatusOK, serveFrom(h, "192.168.1.2:12345").Code)
	})

	t.Run("allows request when key extractor returns empty", func(t *testing.T) {
		empty := func(*http.Request) string { return "" }
		h := httpx.RateLimitMiddleware(httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}, empty)(okHandler)

		for range 3 {
			require.Equal(t, http.StatusOK, serveFrom(h, "192.168.1.1:12345").Code)
		}
	})
}

func TestRateLimitByIPAndClient(t *testing.T) {
	h := httpx.RateLimitByIPAndClient(httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1})(okHandler)

	send := func(client string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.1:1"
		req.SetBasicAuth(client, "x")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, send("alpha"))
	require.Equal(t, http.StatusTooManyRequests, send("alpha"))
	require.Equal(t, http.StatusOK, send("beta"))
}

func TestRateLimitHeaders(t *testing.T) {
	h := httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1})(okHandler)

	require.Equal(t, http.StatusOK, serveFrom(h, "192.168.1.1:12345").Code)

	rec := serveFrom(h, "192.168.1.1:12345")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.Contains(t, rec.Body.String(), "rate_limit_exceeded")
}

func TestDefaultRateLimits(t *testing.T) {
	d := httpx.DefaultRateLimits()
	for name, cfg := range map[string]httpx.RateLimitConfig{"strict": d.Strict, "moderate": d.Moderate, "public": d.Public} {
		t.Run(name, func(t *testing.T) {
			require.Positive(t, cfg.RequestsPerWindow)
			require.Positive(t, cfg.Window)
			require.Positive(t, cfg.Burst)
		})
	}

	require.Less(t, d.Strict.RequestsPerWindow, d.Moderate.RequestsPerWindow)
	require.Less(t, d.Moderate.RequestsPerWindow, d.Public.RequestsPerWindow)
}

func TestRateLimitsFromEnv(t *testing.T) {
	t.Setenv("RATELIMIT_STRICT_REQUESTS", "500")
	t.Setenv("RATELIMIT_PUBLIC_BURST", "7")

	limits := httpx.RateLimitsFromEnv()
	require.Equal(t, 500, limits.Strict.RequestsPerWindow)
	require.Equal(t, 7, limits.Public.Burst)
	require.Equal(t, httpx.DefaultRateLimits().Moderate, limits.Moderate)
}

func TestParseRateLimitFromEnv(t *testing.T) {
	defaultConfig := httpx.RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute, Burst: 10}

	tests := []struct {
		name string
		env  map[string]string
		want httpx.RateLimitConfig
	}{
		{"no env vars", nil, defaultConfig},
		{
			"override all",
			map[string]string{"REQUESTS": "200", "WINDOW_SEC": "30", "BURST": "250"},
			httpx.RateLimitConfig{RequestsPerWindow: 200, Window: 30 * time.Second, Burst: 250},
		},
		{
			"invalid values",
			map[string]string{"REQUESTS": "invalid", "WINDOW_SEC": "-10", "BURST": "not-a-number"},
			defaultConfig,
		},
		{
			"zero values",
			map[string]string{"REQUESTS": "0", "WINDOW_SEC": "0", "BURST": "0"},
			defaultConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(fmt.Sprintf("RATELIMIT_TEST_%s", k), v)
			}
			require.Equal(t, tt.want, httpx.ParseRateLimitFromEnv("TEST", defaultConfig))
		})
	}
}

func BenchmarkRateLimitManyIPs(b *testing.B) {
	h := httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 1000000, Window: time.Minute, Burst: 1000})(okHandler)

	for i := 0; b.Loop(); i++ {
		serveFrom(h, fmt.Sprintf("192.168.%d.%d:12345", i%255, (i/255)%255))
	}
}
