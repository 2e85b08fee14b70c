package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(0, 5)

	if !l.Allow() {
		t.Error("disabled limiter should always allow")
	}
	if err := l.Wait(context.Background()); err != nil {
		t.Errorf("disabled limiter should not block: %v", err)
	}

	var nilLimiter *Limiter
	if !nilLimiter.Allow() {
		t.Error("nil limiter should always allow")
	}
}

func TestLimiter_BurstThenThrottle(t *testing.T) {
	l := NewLimiter(1, 2)

	if !l.Allow() || !l.Allow() {
		t.Fatal("burst slots should be available immediately")
	}
	if l.Allow() {
		t.Error("third immediate dispatch should be throttled")
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	if !l.Allow() {
		t.Fatal("first dispatch should pass")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx); err == nil {
		t.Error("wait should fail once the context expires")
	}
}

func TestLimiter_BurstFloor(t *testing.T) {
	l := NewLimiter(10, 0)
	if !l.Allow() {
		t.Error("limiter with defaulted burst should allow the first dispatch")
	}
}
