package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vendstack/kiosk-backend/pkg/config"
)

type fakeLimiter struct {
	counts map[string]int64
}

func (f *fakeLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func TestAdminRateLimitBlocksAfterLimit(t *testing.T) {
	limiter := &fakeLimiter{}
	mw := AdminRateLimit(config.AdminRateLimitConfig{Window: time.Minute, IPLimit: 2}, limiter, nil)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/products", nil)
		req.RemoteAddr = "10.0.0.9:51000"
		resp := httptest.NewRecorder()
		mw(handler).ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i+1, resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/products", nil)
	req.RemoteAddr = "10.0.0.9:51000"
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
}

func TestAdminRateLimitSeparatesClients(t *testing.T) {
	limiter := &fakeLimiter{}
	mw := AdminRateLimit(config.AdminRateLimitConfig{Window: time.Minute, IPLimit: 1}, limiter, nil)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	first := httptest.NewRequest(http.MethodGet, "/api/v1/admin/products", nil)
	first.Header.Set("X-Forwarded-For", "203.0.113.5")
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, first)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	second := httptest.NewRequest(http.MethodGet, "/api/v1/admin/products", nil)
	second.Header.Set("X-Forwarded-For", "203.0.113.6")
	resp = httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, second)
	if resp.Code != http.StatusOK {
		t.Fatalf("other client must not be throttled, got %d", resp.Code)
	}
}

func TestAdminRateLimitDisabledWithoutStore(t *testing.T) {
	mw := AdminRateLimit(config.AdminRateLimitConfig{Window: time.Minute, IPLimit: 1}, nil, nil)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/products", nil)
		resp := httptest.NewRecorder()
		mw(handler).ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected passthrough without a store, got %d", resp.Code)
		}
	}
}
