package resilience

import (
	"testing"
	"time"
)

func TestNormalizeZeroConfigMatchesDefaults(t *testing.T) {
	got := Config{}.normalize()
	want := DefaultConfig()
	want.BreakerEnabled = false // normalize never flips the enable switch

	if got != want {
		t.Fatalf("normalized zero config = %+v, want %+v", got, want)
	}
}

func TestNormalizeRaisesMaxBackoffToInitial(t *testing.T) {
	cfg := Config{
		RetryInitialBackoff: 2 * time.Second,
		RetryMaxBackoff:     200 * time.Millisecond,
	}.normalize()

	if cfg.RetryMaxBackoff != 2*time.Second {
		t.Fatalf("expected max backoff raised to initial, got %v", cfg.RetryMaxBackoff)
	}
}

func TestNormalizeKeepsValidOverrides(t *testing.T) {
	cfg := Config{
		RetryMaxAttempts:    7,
		RetryInitialBackoff: 50 * time.Millisecond,
		RetryMaxBackoff:     time.Second,
		RetryMultiplier:     1.5,
		BreakerFailureRatio: 0.9,
	}.normalize()

	if cfg.RetryMaxAttempts != 7 || cfg.RetryMultiplier != 1.5 || cfg.BreakerFailureRatio != 0.9 {
		t.Fatalf("expected overrides kept, got %+v", cfg)
	}
}
