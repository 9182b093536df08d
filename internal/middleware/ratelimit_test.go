package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newLimitedRouter(t *testing.T, cfg RateLimiterConfig) *gin.Engine {
	t.Helper()
	rl := NewRateLimiter(cfg)
	t.Cleanup(rl.Stop)

	router := gin.New()
	router.GET("/limited", rl.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func doFrom(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiterAllowsBurstThenRejects(t *testing.T) {
	router := newLimitedRouter(t, RateLimiterConfig{PerMinute: 30, Burst: 3})

	for i := 0; i < 3; i++ {
		if rec := doFrom(router, "10.0.0.1:1234"); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
		}
	}

	rec := doFrom(router, "10.0.0.1:1234")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("over-budget request status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("429 response missing Retry-After header")
	}
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	router := newLimitedRouter(t, RateLimiterConfig{PerMinute: 30, Burst: 1})

	if rec := doFrom(router, "10.0.0.1:1234"); rec.Code != http.StatusOK {
		t.Fatalf("first client status = %d, want 200", rec.Code)
	}
	if rec := doFrom(router, "10.0.0.1:1234"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("first client second request status = %d, want 429", rec.Code)
	}

	// A different client has its own bucket.
	if rec := doFrom(router, "10.0.0.2:1234"); rec.Code != http.StatusOK {
		t.Fatalf("second client status = %d, want 200", rec.Code)
	}
}

func TestRateLimiterCleanupDropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{PerMinute: 30, Burst: 1, CleanupInterval: 10 * time.Millisecond})
	defer rl.Stop()

	rl.allow("10.0.0.1")

	deadline := time.After(2 * time.Second)
	for {
		rl.mu.RLock()
		n := len(rl.limiters)
		rl.mu.RUnlock()
		if n == 0 {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("idle limiter entry not cleaned up, %d entries remain", n)
		case <-time.After(10 * time.Millisecond):
		}
	}
}
