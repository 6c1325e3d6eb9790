package ratelimiter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNewRateLimiter_Disabled(t *testing.T) {
	if rl := NewRateLimiter(0, time.Minute); rl != nil {
		t.Fatalf("expected nil limiter for limit 0, got %+v", rl)
	}
	var rl *RateLimiter
	if err := rl.Wait(context.Background()); err != nil {
		t.Errorf("nil limiter should never block, got %v", err)
	}
}

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if d := rl.reserve(); d != 0 {
			t.Fatalf("call %d: expected no wait, got %v", i+1, d)
		}
	}
	if d := rl.reserve(); d <= 0 {
		t.Errorf("expected a wait after exceeding the limit, got %v", d)
	}
}

func TestRateLimiter_ResetsAfterInterval(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	current := base
	rl.now = func() time.Time { return current }
	rl.lastReset = base

	if d := rl.reserve(); d != 0 {
		t.Fatalf("first call should pass, got %v", d)
	}
	current = base.Add(20 * time.Second)
	if d := rl.reserve(); d != 40*time.Second {
		t.Errorf("expected 40s wait, got %v", d)
	}
	current = base.Add(time.Minute)
	if d := rl.reserve(); d != 0 {
		t.Errorf("expected window reset, got %v", d)
	}
}

func TestRateLimiter_WaitCancelled(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}

func TestRateLimiter_Concurrent(t *testing.T) {
	rl := NewRateLimiter(50, time.Hour)

	var wg sync.WaitGroup
	var mu sync.Mutex
	passed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.reserve() == 0 {
				mu.Lock()
				passed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if passed != 50 {
		t.Errorf("expected exactly 50 calls to pass, got %d", passed)
	}
}
