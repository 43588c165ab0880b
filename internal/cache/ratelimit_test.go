package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestRateLimitKey(t *testing.T) {
	a := rateLimitKey("auth", "203.0.113.7")
	b := rateLimitKey("auth", "203.0.113.7")
	if a != b {
		t.Errorf("expected stable key, got %s and %s", a, b)
	}
	if strings.Contains(a, "203.0.113.7") {
		t.Error("raw client id must not appear in the key")
	}
	if !strings.HasPrefix(a, rateLimitPrefix+"auth:") {
		t.Errorf("unexpected key %s", a)
	}
	if a == rateLimitKey("auth", "203.0.113.8") || a == rateLimitKey("otp", "203.0.113.7") {
		t.Error("expected distinct keys per scope and client")
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		count     int64
		ttl       time.Duration
		allowed   bool
		remaining int64
		retry     time.Duration
	}{
		{name: "first_request", count: 1, ttl: time.Minute, allowed: true, remaining: 4},
		{name: "at_limit", count: 5, ttl: 30 * time.Second, allowed: true, remaining: 0},
		{name: "over_limit", count: 6, ttl: 30 * time.Second, allowed: false, retry: 30 * time.Second},
		{name: "over_limit_missing_ttl", count: 9, ttl: -1, allowed: false, retry: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluate(tt.count, 5, tt.ttl, time.Minute)
			if got.Allowed != tt.allowed || got.Remaining != tt.remaining || got.RetryAfter != tt.retry {
				t.Errorf("unexpected result %+v", got)
			}
		})
	}
}

func TestRateLimiter_Unlimited(t *testing.T) {
	l := NewRateLimiter(nil, 0, time.Minute)
	res, err := l.Allow(context.Background(), "auth", "1.2.3.4")
	if err != nil || !res.Allowed {
		t.Errorf("expected unlimited limiter to allow, got %+v, %v", res, err)
	}
}

func TestNew_InvalidURL(t *testing.T) {
	if _, err := New(context.Background(), "not-a-redis-url"); err == nil {
		t.Error("expected error for invalid URL")
	}
}
