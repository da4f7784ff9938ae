package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	os.Setenv("OPENROUTER_API_KEY", "test_api_key")
	os.Setenv("MODEL", "test_model")
	os.Setenv("ENABLE_FILE_LOGGING", "true")
	os.Setenv("HOTKEY", "Ctrl+Shift+T")
	os.Setenv("LISTEN_ADDR", ":9090")
	os.Setenv("EXTRACT_TIMEOUT_SEC", "30")

	defer func() {
		os.Unsetenv("OPENROUTER_API_KEY")
		os.Unsetenv("MODEL")
		os.Unsetenv("ENABLE_FILE_LOGGING")
		os.Unsetenv("HOTKEY")
		os.Unsetenv("LISTEN_ADDR")
		os.Unsetenv("EXTRACT_TIMEOUT_SEC")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.OpenRouterAPIKey != "test_api_key" {
		t.Errorf("Expected OpenRouterAPIKey to be 'test_api_key', got '%s'", cfg.OpenRouterAPIKey)
	}
	if cfg.Model != "test_model" {
		t.Errorf("Expected Model to be 'test_model', got '%s'", cfg.Model)
	}
	if !cfg.EnableFileLogging {
		t.Errorf("Expected EnableFileLogging to be true, got %v", cfg.EnableFileLogging)
	}
	if cfg.Hotkey != "Ctrl+Shift+T" {
		t.Errorf("Expected Hotkey to be 'Ctrl+Shift+T', got '%s'", cfg.Hotkey)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("Expected ListenAddr to be ':9090', got '%s'", cfg.ListenAddr)
	}
	if cfg.ExtractTimeout != 30*time.Second {
		t.Errorf("Expected ExtractTimeout to be 30s, got %v", cfg.ExtractTimeout)
	}
	if cfg.CountPolicy != CountOncePerCapture {
		t.Errorf("Expected default CountPolicy, got '%s'", cfg.CountPolicy)
	}
}

func TestLoadProviders(t *testing.T) {
	os.Setenv("PROVIDERS", "OpenAI, Anthropic , ")
	defer os.Unsetenv("PROVIDERS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}
	if len(cfg.Providers) != 2 {
		t.Fatalf("Expected 2 providers, got %v", cfg.Providers)
	}
	if cfg.Providers[0] != "OpenAI" || cfg.Providers[1] != "Anthropic" {
		t.Errorf("Providers not trimmed correctly: %v", cfg.Providers)
	}
}

func TestLoadRejectsBadPolicy(t *testing.T) {
	os.Setenv("COUNT_POLICY", "twice-on-sundays")
	defer os.Unsetenv("COUNT_POLICY")

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid COUNT_POLICY")
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	os.Setenv("EXTRACT_TIMEOUT_SEC", "-5")
	defer os.Unsetenv("EXTRACT_TIMEOUT_SEC")

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid EXTRACT_TIMEOUT_SEC")
	}
}
