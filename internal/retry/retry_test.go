package retry

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func fastConfig(attempts int) Config {
	cfg := DefaultConfig()
	cfg.MaxAttempts = attempts
	cfg.InitialBackoff = time.Millisecond
	return cfg
}

func TestDelay_Linear(t *testing.T) {
	cfg := DefaultConfig()
	for attempt, want := range map[int]time.Duration{1: time.Second, 2: 2 * time.Second, 3: 3 * time.Second} {
		if got := Delay(attempt, cfg); got != want {
			t.Errorf("Expected %v after attempt %d, got %v", want, attempt, got)
		}
	}
}

func TestDelay_ExponentialCapped(t *testing.T) {
	cfg := Config{InitialBackoff: time.Second, MaxBackoff: 3 * time.Second, Multiplier: 2, Strategy: BackoffExponential}
	if got := Delay(1, cfg); got != time.Second {
		t.Errorf("Expected 1s, got %v", got)
	}
	if got := Delay(2, cfg); got != 2*time.Second {
		t.Errorf("Expected 2s, got %v", got)
	}
	if got := Delay(5, cfg); got != 3*time.Second {
		t.Errorf("Expected cap of 3s, got %v", got)
	}
}

func TestWithRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastConfig(3), func(attempt int) error {
		calls++
		if attempt < 3 {
			return NewHTTPError(http.StatusNotFound, "404 Not Found", "")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestWithRetry_Exhausted(t *testing.T) {
	calls := 0
	boom := errors.New("connection reset")
	err := WithRetry(context.Background(), fastConfig(3), func(int) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected wrapped error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestWithRetry_RestrictedStatusCodes(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), ServerErrorsOnly(fastConfig(3)), func(int) error {
		calls++
		return NewHTTPError(http.StatusForbidden, "403 Forbidden", "")
	})
	if err == nil {
		t.Fatal("Expected error")
	}
	if calls != 1 {
		t.Errorf("Expected 403 not to be retried, got %d calls", calls)
	}
}

func TestWithRetry_Permanent(t *testing.T) {
	calls := 0
	_ = WithRetry(context.Background(), fastConfig(3), func(int) error {
		calls++
		return Permanent(errors.New("bad url"))
	})
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig(5)
	cfg.InitialBackoff = time.Hour

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- WithRetry(ctx, cfg, func(int) error {
			calls++
			return errors.New("timeout")
		})
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("WithRetry did not return after cancellation")
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}
