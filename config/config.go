package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// CountPolicy controls how duplicate names inside one capture are tallied.
type CountPolicy string

const (
	// CountOncePerCapture counts each distinct name once per capture event.
	CountOncePerCapture CountPolicy = "once-per-capture"
	// CountPerOccurrence counts every occurrence, duplicates included.
	CountPerOccurrence CountPolicy = "per-occurrence"
)

type Config struct {
	// Extraction backend: "openrouter", "gemini" or "mock".
	Extractor string

	// OpenRouter backend.
	OpenRouterAPIKey string
	Model            string
	Providers        []string

	// Gemini backend.
	GeminiAPIKey string
	GeminiModel  string

	ExtractTimeout time.Duration
	CountPolicy    CountPolicy

	// Desktop.
	Hotkey string

	// Web.
	ListenAddr string

	EnableFileLogging bool
	LogLevel          string
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or executable directory
	envPaths := []string{".env"}
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		envPaths = append(envPaths, filepath.Join(execDir, ".env"))
	}
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			godotenv.Load(envPath)
			break
		}
	}

	var providers []string
	if providersStr := os.Getenv("PROVIDERS"); providersStr != "" {
		for _, provider := range strings.Split(providersStr, ",") {
			if trimmed := strings.TrimSpace(provider); trimmed != "" {
				providers = append(providers, trimmed)
			}
		}
	}

	policy := CountPolicy(getEnvWithDefault("COUNT_POLICY", string(CountOncePerCapture)))
	if policy != CountOncePerCapture && policy != CountPerOccurrence {
		return nil, fmt.Errorf("invalid COUNT_POLICY %q", policy)
	}

	timeoutSec := 45
	if v := os.Getenv("EXTRACT_TIMEOUT_SEC"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid EXTRACT_TIMEOUT_SEC %q", v)
		}
		timeoutSec = n
	}

	cfg := &Config{
		Extractor:         strings.ToLower(getEnvWithDefault("EXTRACTOR", "openrouter")),
		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		Model:             getEnvWithDefault("MODEL", "openai/gpt-4o"),
		Providers:         providers,
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnvWithDefault("GEMINI_MODEL", "gemini-2.0-flash-lite"),
		ExtractTimeout:    time.Duration(timeoutSec) * time.Second,
		CountPolicy:       policy,
		Hotkey:            getEnvWithDefault("HOTKEY", "Ctrl+Alt+Q"),
		ListenAddr:        getEnvWithDefault("LISTEN_ADDR", ":8080"),
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
		LogLevel:          getEnvWithDefault("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
