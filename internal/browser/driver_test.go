package browser

import (
	"testing"
	"time"
)

func TestNewDriverLimiterValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewDriver(Config{MaxParallel: -1}); err == nil {
		t.Fatal("expected error for negative max parallel")
	}

	driver, err := NewDriver(Config{MaxParallel: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer driver.Close()

	if cap(driver.limiter) != 2 {
		t.Fatalf("expected limiter capacity 2, got %d", cap(driver.limiter))
	}
	if driver.cfg.SessionTimeout != 120*time.Second {
		t.Fatalf("expected default session timeout, got %v", driver.cfg.SessionTimeout)
	}
}

func TestDriverUnlimitedParallelism(t *testing.T) {
	t.Parallel()

	driver, err := NewDriver(Config{MaxParallel: 0, SessionTimeout: time.Minute})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer driver.Close()

	if driver.limiter != nil {
		t.Fatal("expected nil limiter when parallelism is unbounded")
	}
	if driver.cfg.SessionTimeout != time.Minute {
		t.Fatalf("expected configured session timeout, got %v", driver.cfg.SessionTimeout)
	}
}
