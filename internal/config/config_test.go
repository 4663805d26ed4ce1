package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Provider: ProviderConfig{APIKey: "test-key"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 70000

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.Provider.APIKey = ""

	err := cfg.Validate()
	if err == nil || err.Error() != "provider.api_key is required" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_CacheDrivers(t *testing.T) {
	tests := []struct {
		driver  string
		addrs   []string
		wantErr bool
	}{
		{DriverMemory, nil, false},
		{DriverRedis, []string{"localhost:6379"}, false},
		{DriverValkey, []string{"localhost:6379"}, false},
		{DriverRedis, nil, true},
		{DriverValkey, []string{}, true},
		{"memcached", nil, true},
	}
	for _, tc := range tests {
		t.Run(tc.driver, func(t *testing.T) {
			cfg := validConfig()
			cfg.Cache.Driver = tc.driver
			cfg.Cache.Addrs = tc.addrs

			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("driver %q addrs %v: err=%v, wantErr=%v", tc.driver, tc.addrs, err, tc.wantErr)
			}
		})
	}
}

func TestValidate_Matching(t *testing.T) {
	cfg := validConfig()
	cfg.Matching.MinRating = 5.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for min_rating above 5")
	}

	cfg = validConfig()
	cfg.Matching.DefaultRadiusM = 60000
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for oversized default radius")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 3001 {
		t.Errorf("expected Port=3001, got %d", cfg.HTTP.Port)
	}
	if cfg.Provider.TimeoutSec != 10 {
		t.Errorf("expected TimeoutSec=10, got %d", cfg.Provider.TimeoutSec)
	}
	if cfg.Cache.Driver != DriverMemory {
		t.Errorf("expected Driver=memory, got %q", cfg.Cache.Driver)
	}
	if cfg.Cache.TTLSec != 3600 {
		t.Errorf("expected TTLSec=3600, got %d", cfg.Cache.TTLSec)
	}
	if cfg.Cache.SweepIntervalSec != 600 {
		t.Errorf("expected SweepIntervalSec=600, got %d", cfg.Cache.SweepIntervalSec)
	}
	if cfg.Cache.KeyPrefix != "bestnight:" {
		t.Errorf("expected KeyPrefix='bestnight:', got %q", cfg.Cache.KeyPrefix)
	}
	if cfg.Matching.MinRating != 4.0 || cfg.Matching.MaxWalkKm != 0.5 || cfg.Matching.TopN != 10 {
		t.Errorf("unexpected matching defaults: %+v", cfg.Matching)
	}
	if cfg.Matching.DefaultRadiusM != 1000 {
		t.Errorf("expected DefaultRadiusM=1000, got %d", cfg.Matching.DefaultRadiusM)
	}
	if cfg.RateLimit.Requests != 100 || cfg.RateLimit.WindowSec != 900 {
		t.Errorf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if cfg.Favorites.Limit != 100 {
		t.Errorf("expected Favorites.Limit=100, got %d", cfg.Favorites.Limit)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Cache:     CacheConfig{Driver: DriverRedis, TTLSec: 60, KeyPrefix: "custom:"},
		Matching:  MatchingConfig{MinRating: 3.5, TopN: -1},
		RateLimit: RateLimitConfig{Requests: -1},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Cache.Driver != DriverRedis || cfg.Cache.TTLSec != 60 || cfg.Cache.KeyPrefix != "custom:" {
		t.Errorf("cache overridden: %+v", cfg.Cache)
	}
	if cfg.Matching.MinRating != 3.5 || cfg.Matching.TopN != -1 {
		t.Errorf("matching overridden: %+v", cfg.Matching)
	}
	if cfg.RateLimit.Requests != -1 {
		t.Errorf("disabled rate limit overridden: %d", cfg.RateLimit.Requests)
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("BESTNIGHT_TEST_KEY", "from-env")

	cfg, err := Parse([]byte(`
http:
  port: ${BESTNIGHT_TEST_PORT:-4000}
provider:
  api_key: ${BESTNIGHT_TEST_KEY}
auth:
  admin_keys: ["${BESTNIGHT_TEST_ADMIN:-}"]
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.HTTP.Port != 4000 {
		t.Errorf("expected default port 4000, got %d", cfg.HTTP.Port)
	}
	if cfg.Provider.APIKey != "from-env" {
		t.Errorf("expected api key from env, got %q", cfg.Provider.APIKey)
	}
	if len(cfg.Auth.AdminKeys) != 1 || cfg.Auth.AdminKeys[0] != "" {
		t.Errorf("expected a single empty admin key, got %q", cfg.Auth.AdminKeys)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("expected parse error, got %v", err)
	}
	if _, err := Parse([]byte("http:\n  port: 8080\n")); err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestLoad_LocalConfig(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "k")

	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("load local config: %v", err)
	}
	if cfg.Cache.Driver != DriverMemory {
		t.Errorf("local config should use the memory cache, got %q", cfg.Cache.Driver)
	}
}
