package config

import (
	"strings"
	"testing"
	"time"
)

// setRequired provides the three variables without which Load() fails.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_CLIENT_ID", "cid")
	t.Setenv("DISCORD_CLIENT_SECRET", "csecret")
	t.Setenv("SESSION_SECRET", "ssecret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "3003" || cfg.GinMode != "release" || cfg.LogLevel != "info" {
		t.Fatalf("server defaults unexpected: %+v", cfg)
	}
	if cfg.PublicURL != "http://localhost:3001" {
		t.Fatalf("PublicURL default unexpected: %q", cfg.PublicURL)
	}
	if cfg.DBPath != "isobel.db" || cfg.DatabaseURL != "" {
		t.Fatalf("database defaults unexpected: %+v", cfg)
	}
	if cfg.BotHealthURL != "http://localhost:3002" || cfg.BotHealthTimeout != 5*time.Second {
		t.Fatalf("bot health defaults unexpected: %+v", cfg)
	}
	if cfg.Session.CookieName != "isobel_session" || cfg.Session.TTL != 30*24*time.Hour {
		t.Fatalf("session defaults unexpected: %+v", cfg.Session)
	}
	if cfg.RateRPS != 5.0 || cfg.RateBurst != 10 || cfg.AuthRateRPS != 0.5 || cfg.AuthRateBurst != 5 {
		t.Fatalf("rate limit defaults unexpected: %+v", cfg)
	}
	if cfg.OTEL.Enabled || cfg.OTEL.ServiceName != "isobel-web" || cfg.OTEL.SampleRatio != 1.0 {
		t.Fatalf("otel defaults unexpected: %+v", cfg.OTEL)
	}
}

func TestLoad_OverridesAndNormalization(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8088")
	t.Setenv("GIN_MODE", "weird")        // normalizes to release
	t.Setenv("LOG_LEVEL", "WARNING")     // lowercased, alias -> warn
	t.Setenv("PUBLIC_URL", "https://dash.example.com/") // trailing slash stripped
	t.Setenv("DATABASE_URL", "postgres://app:pw@db:5432/isobel")
	t.Setenv("SESSION_TTL", "720h")
	t.Setenv("SESSION_COOKIE_NAME", "sid")
	t.Setenv("RATE_RPS", "x")   // parse failure falls back to default
	t.Setenv("RATE_BURST", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , , https://b.example ")
	t.Setenv("ENABLE_HSTS", "TRUE")
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8088" || cfg.GinMode != "release" || cfg.LogLevel != "warn" {
		t.Fatalf("normalization unexpected: %+v", cfg)
	}
	if cfg.PublicURL != "https://dash.example.com" {
		t.Fatalf("trailing slash not stripped: %q", cfg.PublicURL)
	}
	if cfg.DatabaseURL == "" || cfg.Session.TTL != 720*time.Hour || cfg.Session.CookieName != "sid" {
		t.Fatalf("overrides unexpected: %+v", cfg)
	}
	if cfg.RateRPS != 5.0 || cfg.RateBurst != 3 {
		t.Fatalf("rate parsing unexpected: %+v", cfg)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 ||
		cfg.CORS.AllowedOrigins[0] != "https://a.example" ||
		cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("CSV parsing unexpected: %#v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Security.EnableHSTS || !cfg.OTEL.Enabled || cfg.OTEL.SampleRatio != 0.25 {
		t.Fatalf("flags unexpected: %+v", cfg)
	}
}

func TestLoad_MissingRequiredListsAllAtOnce(t *testing.T) {
	// None of the three required variables set.
	t.Setenv("DISCORD_CLIENT_ID", "")
	t.Setenv("DISCORD_CLIENT_SECRET", "")
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, name := range []string{"DISCORD_CLIENT_ID", "DISCORD_CLIENT_SECRET", "SESSION_SECRET"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error must name %s: %v", name, err)
		}
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	cases := []struct {
		key, value string
	}{
		{"LOG_LEVEL", "verbose"},
		{"READ_TIMEOUT", "-1s"},
		{"BOT_HEALTH_TIMEOUT", "-5s"},
		{"SESSION_TTL", "-1h"},
		{"RATE_BURST", "0"},
		{"OTEL_TRACES_SAMPLER_ARG", "1.5"},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("%s=%s must fail validation", tc.key, tc.value)
			}
		})
	}
}

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "verbose")
	defer func() {
		if recover() == nil {
			t.Fatal("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}
