package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("default port = %q", cfg.Port)
	}
	if cfg.Height != 500 {
		t.Errorf("default height = %d, want 500", cfg.Height)
	}
	if cfg.Target != "#vetmed-news" {
		t.Errorf("default target = %q", cfg.Target)
	}
	if cfg.DebounceInterval != 200*time.Millisecond {
		t.Errorf("default debounce = %v", cfg.DebounceInterval)
	}
	if !cfg.EnableSearch || !cfg.EnableInfiniteScroll {
		t.Errorf("search and infinite scroll should default on")
	}
	if cfg.ExportMaxItems != 100 {
		t.Errorf("default export cap = %d", cfg.ExportMaxItems)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("WIDGET_HEIGHT", "320")
	t.Setenv("WIDGET_SEARCH", "false")
	t.Setenv("WIDGET_DEBOUNCE", "50ms")
	t.Setenv("FEED_UPSTREAM", "https://news.example.edu/news.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.Height != 320 {
		t.Errorf("height = %d", cfg.Height)
	}
	if cfg.EnableSearch {
		t.Errorf("search should be disabled")
	}
	if cfg.DebounceInterval != 50*time.Millisecond {
		t.Errorf("debounce = %v", cfg.DebounceInterval)
	}
	if cfg.FeedUpstream != "https://news.example.edu/news.json" {
		t.Errorf("upstream = %q", cfg.FeedUpstream)
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("WIDGET_HEIGHT", "-1")
	if _, err := Load(); err == nil {
		t.Fatalf("negative height should fail validation")
	}

	t.Setenv("WIDGET_HEIGHT", "500")
	t.Setenv("PORT", "not-a-port")
	if _, err := Load(); err == nil {
		t.Fatalf("non-numeric port should fail validation")
	}
}
