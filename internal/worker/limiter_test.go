package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiterDisabled(t *testing.T) {
	l := NewLimiter(0, 5)
	if !l.Allow() {
		t.Error("disabled limiter refused a job")
	}
	if err := l.Wait(context.Background()); err != nil {
		t.Errorf("disabled limiter wait errored: %v", err)
	}

	neg := NewLimiter(-1, 5)
	if !neg.Allow() {
		t.Error("negative-rate limiter refused a job")
	}
}

func TestLimiterThrottles(t *testing.T) {
	// 10/s with burst 1: the second start must wait roughly 100ms.
	l := NewLimiter(10, 1)
	ctx := context.Background()

	if err := l.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	started := time.Now()
	if err := l.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(started); elapsed < 50*time.Millisecond {
		t.Errorf("second start waited %v, expected throttling", elapsed)
	}
}

func TestLimiterBurst(t *testing.T) {
	l := NewLimiter(1, 3)
	for i := 0; i < 3; i++ {
		if !l.Allow() {
			t.Fatalf("burst start %d refused", i)
		}
	}
	if l.Allow() {
		t.Error("start beyond the burst allowed without waiting")
	}
}

func TestLimiterRespectsContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_ = l.Wait(ctx) // consume the burst token
	if err := l.Wait(ctx); err == nil {
		t.Error("wait outlived its context")
	}
}
