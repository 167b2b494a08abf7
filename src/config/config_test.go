package config

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "PAGE_SIZE", "SUGGEST_DEBOUNCE", "SUGGEST_CUTOFF", "CATALOG_BASE_URL", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}
	cfg := Load(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	if cfg.Port != "2000" {
		t.Fatalf("expected default port 2000, got %q", cfg.Port)
	}
	if cfg.PageSize != 10 {
		t.Fatalf("expected page size 10, got %d", cfg.PageSize)
	}
	if cfg.SuggestDebounce != 300*time.Millisecond {
		t.Fatalf("expected 300ms debounce, got %v", cfg.SuggestDebounce)
	}
	if cfg.SuggestCutoff != 30 || cfg.SuggestLimit != 5 {
		t.Fatalf("expected cutoff 30 / limit 5, got %d / %d", cfg.SuggestCutoff, cfg.SuggestLimit)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("expected wildcard CORS default, got %v", cfg.CORSOrigins)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("PAGE_SIZE", "ten")
	t.Setenv("SUGGEST_DEBOUNCE", "-5s")
	t.Setenv("COOKIE_SECURE", "maybe")
	t.Setenv("CATALOG_BASE_URL", "https://catalog.example.com/")

	var buf bytes.Buffer
	cfg := Load(slog.New(slog.NewTextHandler(&buf, nil)))

	if cfg.PageSize != 10 {
		t.Fatalf("expected fallback page size, got %d", cfg.PageSize)
	}
	if cfg.SuggestDebounce != 300*time.Millisecond {
		t.Fatalf("expected fallback debounce, got %v", cfg.SuggestDebounce)
	}
	if cfg.CookieSecure {
		t.Fatal("expected COOKIE_SECURE fallback to false")
	}
	if cfg.CatalogBaseURL != "https://catalog.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.CatalogBaseURL)
	}
	if got := strings.Count(buf.String(), "invalid config value"); got != 3 {
		t.Fatalf("expected 3 warnings, got %d: %s", got, buf.String())
	}
}

func TestLoadList(t *testing.T) {
	t.Setenv("CORS_ORIGINS", " https://a.example.com , ,https://b.example.com")
	cfg := Load(nil)
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example.com" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
}

func TestNewLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "debug", "json").Debug("hello", slog.String("k", "v"))
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"k":"v"`) {
		t.Fatalf("expected json debug line, got %q", buf.String())
	}

	buf.Reset()
	newLogger(&buf, "warn", "text").Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered at warn level, got %q", buf.String())
	}
}
