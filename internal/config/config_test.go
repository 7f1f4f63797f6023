package config

import (
	"testing"
	"time"
)

func TestParseExpiry(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"7d", 7 * 24 * time.Hour, false},
		{"1d", 24 * time.Hour, false},
		{"12h", 12 * time.Hour, false},
		{"90m", 90 * time.Minute, false},
		{"xd", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseExpiry(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseExpiry(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseExpiry(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRES_IN", "")
	t.Setenv("ESTIMATOR_MODE", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("UPLOAD_BACKEND", "")
	t.Setenv("RATE_LIMIT_MAX", "")
	t.Setenv("RATE_LIMIT_WINDOW", "")
	t.Setenv("TRUST_PROXY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Auth.TokenExpiry != 7*24*time.Hour {
		t.Errorf("TokenExpiry = %v, want 168h", cfg.Auth.TokenExpiry)
	}
	if cfg.Auth.BCryptCost != 10 {
		t.Errorf("BCryptCost = %d, want 10", cfg.Auth.BCryptCost)
	}
	if cfg.RateLimit.Max != 3 || cfg.RateLimit.Window != time.Minute {
		t.Errorf("RateLimit = %+v, want 3 per 1m", cfg.RateLimit)
	}
	if cfg.Estimator.Mode != "heuristic" {
		t.Errorf("Estimator.Mode = %q, want heuristic", cfg.Estimator.Mode)
	}
	if cfg.Server.TrustProxy {
		t.Error("TrustProxy should be off unless TRUST_PROXY is set")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: 5000},
			Database:  DatabaseConfig{Driver: "sqlite"},
			Auth:      AuthConfig{JWTSecret: "s", TokenExpiry: time.Hour},
			Estimator: EstimatorConfig{Mode: "heuristic"},
			RateLimit: RateLimitConfig{Max: 3, Window: time.Minute},
			Storage:   StorageConfig{Backend: "local"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"mongo driver", func(c *Config) { c.Database.Driver = "mongo" }, false},
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }, true},
		{"bad driver", func(c *Config) { c.Database.Driver = "mysql" }, true},
		{"remote without url", func(c *Config) { c.Estimator.Mode = "remote"; c.Estimator.ServiceURL = "" }, true},
		{"unknown estimator", func(c *Config) { c.Estimator.Mode = "magic" }, true},
		{"s3 without bucket", func(c *Config) { c.Storage.Backend = "s3" }, true},
		{"zero window", func(c *Config) { c.RateLimit.Window = 0 }, true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
