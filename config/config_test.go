package config

import (
	"reflect"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "SUBMIT_RATE_PER_MIN", "CATALOG_CACHE_TTL", "CORS_ORIGINS", "RABBITMQ_URL", "API_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	if cfg.Server.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Server.SubmitPerMin != 10 || cfg.Server.SubmitBurst != 5 {
		t.Fatalf("submit limits = %d/%d", cfg.Server.SubmitPerMin, cfg.Server.SubmitBurst)
	}
	if cfg.Redis.CatalogTTL != 5*time.Minute {
		t.Fatalf("CatalogTTL = %v", cfg.Redis.CatalogTTL)
	}
	if cfg.RabbitMQ.URL != "" {
		t.Fatalf("RabbitMQ.URL = %q, want empty", cfg.RabbitMQ.URL)
	}
	// zero keeps the questionnaire client without a deadline
	if cfg.Client.Timeout != 0 {
		t.Fatalf("Client.Timeout = %v, want 0", cfg.Client.Timeout)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SUBMIT_RATE_PER_MIN", "30")
	t.Setenv("SUBMIT_RATE_BURST", "not-a-number")
	t.Setenv("CATALOG_CACHE_TTL", "90s")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("API_TIMEOUT", "3s")

	cfg := FromEnv()
	if cfg.Server.Port != "9000" {
		t.Fatalf("Port = %q", cfg.Server.Port)
	}
	if cfg.Server.SubmitPerMin != 30 {
		t.Fatalf("SubmitPerMin = %d", cfg.Server.SubmitPerMin)
	}
	if cfg.Server.SubmitBurst != 5 {
		t.Fatalf("SubmitBurst = %d, want default for unparsable value", cfg.Server.SubmitBurst)
	}
	if cfg.Redis.CatalogTTL != 90*time.Second {
		t.Fatalf("CatalogTTL = %v", cfg.Redis.CatalogTTL)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.Server.AllowedOrigins, want) {
		t.Fatalf("AllowedOrigins = %v, want %v", cfg.Server.AllowedOrigins, want)
	}
	if cfg.Client.Timeout != 3*time.Second {
		t.Fatalf("Client.Timeout = %v", cfg.Client.Timeout)
	}
}

func TestDSN(t *testing.T) {
	cfg := DBConfig{Host: "db", Port: "5433", User: "u", Password: "p", Name: "q", SSLMode: "require", TimeZone: "UTC"}
	want := "host=db user=u password=p dbname=q port=5433 sslmode=require TimeZone=UTC"
	if got := cfg.DSN(); got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}
}
