package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name: "default values",
			env:  map[string]string{},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Port != "8080" {
					t.Errorf("expected port 8080, got %s", cfg.Port)
				}
				if cfg.LogLevel != "info" {
					t.Errorf("expected log level info, got %s", cfg.LogLevel)
				}
				if cfg.SLAThresholdSecs != 180 {
					t.Errorf("expected SLA threshold 180, got %d", cfg.SLAThresholdSecs)
				}
				if cfg.FabricCommandTimeout != 5*time.Second {
					t.Errorf("expected fabric command timeout 5s, got %v", cfg.FabricCommandTimeout)
				}
				if cfg.AttentionSentiment != -0.3 {
					t.Errorf("expected attention sentiment -0.3, got %v", cfg.AttentionSentiment)
				}
				if cfg.BroadcastInterval != time.Second {
					t.Errorf("expected broadcast interval 1s, got %v", cfg.BroadcastInterval)
				}
			},
		},
		{
			name: "custom values",
			env: map[string]string{
				"PORT":                   "9000",
				"LOG_LEVEL":              "debug",
				"FABRIC_URL":             "http://fabric:9999",
				"FABRIC_COMMAND_TIMEOUT": "2",
				"SLA_THRESHOLD_SECS":     "120",
				"QUEUE_CRIT_WAITING":     "20",
				"ALLOWED_ORIGINS":        "http://example.com, http://test.com",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Port != "9000" {
					t.Errorf("expected port 9000, got %s", cfg.Port)
				}
				if cfg.FabricURL != "http://fabric:9999" {
					t.Errorf("expected fabric URL http://fabric:9999, got %s", cfg.FabricURL)
				}
				if cfg.FabricCommandTimeout != 2*time.Second {
					t.Errorf("expected fabric command timeout 2s, got %v", cfg.FabricCommandTimeout)
				}
				if cfg.SLAThresholdSecs != 120 {
					t.Errorf("expected SLA threshold 120, got %d", cfg.SLAThresholdSecs)
				}
				if cfg.CritWaitingCount != 20 {
					t.Errorf("expected critical waiting count 20, got %d", cfg.CritWaitingCount)
				}
				if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://test.com" {
					t.Errorf("unexpected allowed origins %v", cfg.AllowedOrigins)
				}
			},
		},
		{
			name: "invalid WS_READ_TIMEOUT",
			env: map[string]string{
				"WS_READ_TIMEOUT": "invalid",
			},
			wantErr: true,
		},
		{
			name: "invalid SLA_THRESHOLD_SECS",
			env: map[string]string{
				"SLA_THRESHOLD_SECS": "three minutes",
			},
			wantErr: true,
		},
		{
			name: "invalid ATTENTION_SENTIMENT",
			env: map[string]string{
				"ATTENTION_SENTIMENT": "grumpy",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			// Set test environment variables
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			// Load config
			cfg, err := Load()

			// Check error
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			// Run custom checks
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestWebSocketConstants(t *testing.T) {
	// Clear environment and set clean defaults
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// PongWait should equal WSReadTimeout
	if cfg.PongWait != cfg.WSReadTimeout {
		t.Errorf("PongWait (%v) should equal WSReadTimeout (%v)", cfg.PongWait, cfg.WSReadTimeout)
	}

	// PingPeriod should be less than PongWait
	if cfg.PingPeriod >= cfg.PongWait {
		t.Errorf("PingPeriod (%v) should be less than PongWait (%v)", cfg.PingPeriod, cfg.PongWait)
	}

	// WriteWait should equal WSWriteTimeout
	if cfg.WriteWait != cfg.WSWriteTimeout {
		t.Errorf("WriteWait (%v) should equal WSWriteTimeout (%v)", cfg.WriteWait, cfg.WSWriteTimeout)
	}

	// MaxMessageSize should be set
	if cfg.MaxMessageSize <= 0 {
		t.Errorf("MaxMessageSize should be positive, got %d", cfg.MaxMessageSize)
	}
}
