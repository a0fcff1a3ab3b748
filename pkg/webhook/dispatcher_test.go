package webhook

import (
	"testing"
	"time"
)

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()

	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d", cfg.MaxAttempts)
	}
	if cfg.BackoffBase != 30*time.Second {
		t.Errorf("BackoffBase = %v", cfg.BackoffBase)
	}
	if cfg.RetryInterval != 15*time.Second {
		t.Errorf("RetryInterval = %v", cfg.RetryInterval)
	}
	if cfg.SettingsTTL != time.Minute {
		t.Errorf("SettingsTTL = %v", cfg.SettingsTTL)
	}

	// Explicit values survive.
	cfg = Config{MaxAttempts: 3, BackoffBase: time.Second}.withDefaults()
	if cfg.MaxAttempts != 3 || cfg.BackoffBase != time.Second {
		t.Errorf("explicit values overwritten: %+v", cfg)
	}
}

func TestBackoffDoubles(t *testing.T) {
	d := &Dispatcher{cfg: Config{BackoffBase: 30 * time.Second}.withDefaults()}

	tests := []struct {
		attempts int
		want     time.Duration
	}{
		{1, 30 * time.Second},
		{2, 60 * time.Second},
		{3, 120 * time.Second},
		{4, 240 * time.Second},
	}

	for _, tt := range tests {
		if got := d.backoff(tt.attempts); got != tt.want {
			t.Errorf("backoff(%d) = %v, want %v", tt.attempts, got, tt.want)
		}
	}
}
