package config

import (
	"testing"
	"time"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"redis": map[string]any{
			"sessionTtl": "12h",
		},
		"pipeline": map[string]any{
			"debounceWindow": "10s",
		},
		"messaging": map[string]any{
			"webhookUrl": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "REDIS_SESSIONTTL", want: "redis.sessionTtl"},
		{envKey: "PIPELINE_DEBOUNCEWINDOW", want: "pipeline.debounceWindow"},
		{envKey: "MESSAGING_WEBHOOKURL", want: "messaging.webhookUrl"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestApplyPipelineDefaults(t *testing.T) {
	cfg := &Config{Redis: &RedisConfig{Addr: "localhost:6379"}}

	applyPipelineDefaults(cfg)

	if cfg.Pipeline.DebounceWindow != 10*time.Second {
		t.Fatalf("DebounceWindow = %v, want 10s", cfg.Pipeline.DebounceWindow)
	}
	if cfg.Pipeline.MaxDispatchAttempts != 3 {
		t.Fatalf("MaxDispatchAttempts = %d, want 3", cfg.Pipeline.MaxDispatchAttempts)
	}
	if cfg.Pipeline.ConfirmationCountdown != 15*time.Second {
		t.Fatalf("ConfirmationCountdown = %v, want 15s", cfg.Pipeline.ConfirmationCountdown)
	}
	if cfg.Redis.SessionTTL != 12*time.Hour {
		t.Fatalf("SessionTTL = %v, want 12h", cfg.Redis.SessionTTL)
	}
}

func TestApplyPipelineDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Pipeline: &PipelineConfig{
			DebounceWindow:      3 * time.Second,
			MaxDispatchAttempts: 5,
		},
	}

	applyPipelineDefaults(cfg)

	if cfg.Pipeline.DebounceWindow != 3*time.Second {
		t.Fatalf("DebounceWindow = %v, want 3s", cfg.Pipeline.DebounceWindow)
	}
	if cfg.Pipeline.MaxDispatchAttempts != 5 {
		t.Fatalf("MaxDispatchAttempts = %d, want 5", cfg.Pipeline.MaxDispatchAttempts)
	}
}
