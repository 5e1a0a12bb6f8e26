package config

import "testing"

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		check func(*testing.T, *Config)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Port != 8000 {
					t.Errorf("Port = %d, want 8000", cfg.Port)
				}
				if cfg.MaxHoldYears != 50 {
					t.Errorf("MaxHoldYears = %d, want 50", cfg.MaxHoldYears)
				}
				if cfg.LogLevel != "INFO" {
					t.Errorf("LogLevel = %q, want INFO", cfg.LogLevel)
				}
			},
		},
		{
			name: "overrides",
			env: map[string]string{
				"PORT":           "9100",
				"MAX_PRICE":      "2500000",
				"MAX_HOLD_YEARS": "15",
				"DEAL_SEED_FILE": "deal.yaml",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Port != 9100 {
					t.Errorf("Port = %d, want 9100", cfg.Port)
				}
				if cfg.PriceCap() != 2500000 {
					t.Errorf("PriceCap() = %f, want 2500000", cfg.PriceCap())
				}
				if cfg.HoldYearsCap() != 15 {
					t.Errorf("HoldYearsCap() = %d, want 15", cfg.HoldYearsCap())
				}
				if cfg.DealSeedFile != "deal.yaml" {
					t.Errorf("DealSeedFile = %q", cfg.DealSeedFile)
				}
			},
		},
		{
			name: "malformed values fall back",
			env: map[string]string{
				"PORT":           "eighty",
				"MAX_HOLD_YEARS": "-3",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Port != 8000 {
					t.Errorf("Port = %d, want 8000", cfg.Port)
				}
				if cfg.MaxHoldYears != 1 {
					t.Errorf("MaxHoldYears = %d, want 1", cfg.MaxHoldYears)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"PORT", "MAX_PRICE", "MAX_HOLD_YEARS", "MAX_SCHEDULE_YEARS", "DEAL_SEED_FILE", "LOG_LEVEL"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadConfig()
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}
