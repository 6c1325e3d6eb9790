package config

import (
	"reflect"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "GEMINI_API_KEY", "GOOGLE_API_KEY", "GOOGLE_GENAI_USE_VERTEXAI",
		"GOOGLE_CLOUD_PROJECT", "GOOGLE_CLOUD_LOCATION", "GEMINI_MODELS", "GEMINI_TIMEOUT", "GEMINI_RPM",
		"VISION_ENABLED", "REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD",
		"SIGNAL_CACHE_TTL", "MAX_IMAGE_SIZE", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := LoadConfig()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if !reflect.DeepEqual(cfg.GenerativeModels, DefaultModels) {
		t.Errorf("GenerativeModels = %v, want %v", cfg.GenerativeModels, DefaultModels)
	}
	if cfg.GenerativeTimeout != 30*time.Second {
		t.Errorf("GenerativeTimeout = %v", cfg.GenerativeTimeout)
	}
	if !cfg.VisionEnabled {
		t.Error("VisionEnabled should default to true")
	}
	if cfg.SignalCacheTTL != 10*time.Minute {
		t.Errorf("SignalCacheTTL = %v", cfg.SignalCacheTTL)
	}
	if cfg.MaxImageSize != 16*1024*1024 {
		t.Errorf("MaxImageSize = %d", cfg.MaxImageSize)
	}
	if cfg.GenerativeRPM != 0 {
		t.Errorf("GenerativeRPM = %d, want 0", cfg.GenerativeRPM)
	}
	if cfg.GenerativeAvailable() {
		t.Error("GenerativeAvailable should be false without credentials")
	}
	if cfg.RedisConfigured() {
		t.Error("RedisConfigured should be false without REDIS_HOST")
	}
	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Errorf("CORSAllowedOrigins = %v, want empty", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("GOOGLE_API_KEY", "fallback-key")
	t.Setenv("GEMINI_MODELS", " gemini-a , ,gemini-b ")
	t.Setenv("GEMINI_TIMEOUT", "5s")
	t.Setenv("GEMINI_RPM", "15")
	t.Setenv("VISION_ENABLED", "false")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("SIGNAL_CACHE_TTL", "1h")
	t.Setenv("MAX_IMAGE_SIZE", "1024")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com")

	cfg := LoadConfig()

	if cfg.Port != "9000" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.GeminiAPIKey != "fallback-key" {
		t.Errorf("GeminiAPIKey = %q, want GOOGLE_API_KEY fallback", cfg.GeminiAPIKey)
	}
	if want := []string{"gemini-a", "gemini-b"}; !reflect.DeepEqual(cfg.GenerativeModels, want) {
		t.Errorf("GenerativeModels = %v, want %v", cfg.GenerativeModels, want)
	}
	if cfg.GenerativeTimeout != 5*time.Second {
		t.Errorf("GenerativeTimeout = %v", cfg.GenerativeTimeout)
	}
	if cfg.GenerativeRPM != 15 {
		t.Errorf("GenerativeRPM = %d", cfg.GenerativeRPM)
	}
	if cfg.VisionEnabled {
		t.Error("VisionEnabled should be false")
	}
	if cfg.SignalCacheTTL != time.Hour {
		t.Errorf("SignalCacheTTL = %v", cfg.SignalCacheTTL)
	}
	if cfg.MaxImageSize != 1024 {
		t.Errorf("MaxImageSize = %d", cfg.MaxImageSize)
	}
	if !cfg.GenerativeAvailable() {
		t.Error("GenerativeAvailable should be true with an API key")
	}
	if !cfg.RedisConfigured() {
		t.Error("RedisConfigured should be true")
	}
	if want := []string{"https://app.example.com"}; !reflect.DeepEqual(cfg.CORSAllowedOrigins, want) {
		t.Errorf("CORSAllowedOrigins = %v, want %v", cfg.CORSAllowedOrigins, want)
	}
}

func TestLoadConfig_GeminiKeyPreferred(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "primary")
	t.Setenv("GOOGLE_API_KEY", "secondary")

	if got := LoadConfig().GeminiAPIKey; got != "primary" {
		t.Errorf("GeminiAPIKey = %q, want primary", got)
	}
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_TIMEOUT", "soon")
	t.Setenv("VISION_ENABLED", "maybe")
	t.Setenv("SIGNAL_CACHE_TTL", "-5m")
	t.Setenv("MAX_IMAGE_SIZE", "big")
	t.Setenv("GEMINI_MODELS", " , ")

	cfg := LoadConfig()

	if cfg.GenerativeTimeout != 30*time.Second {
		t.Errorf("GenerativeTimeout = %v", cfg.GenerativeTimeout)
	}
	if !cfg.VisionEnabled {
		t.Error("VisionEnabled should keep its default")
	}
	if cfg.SignalCacheTTL != 10*time.Minute {
		t.Errorf("SignalCacheTTL = %v", cfg.SignalCacheTTL)
	}
	if cfg.MaxImageSize != 16*1024*1024 {
		t.Errorf("MaxImageSize = %d", cfg.MaxImageSize)
	}
	if !reflect.DeepEqual(cfg.GenerativeModels, DefaultModels) {
		t.Errorf("GenerativeModels = %v", cfg.GenerativeModels)
	}
}

func TestConfig_GenerativeAvailable(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"api key", Config{GeminiAPIKey: "k", GenerativeModels: []string{"m"}}, true},
		{"no models", Config{GeminiAPIKey: "k"}, false},
		{"vertex complete", Config{UseVertexAI: true, CloudProject: "p", CloudLocation: "us-central1", GenerativeModels: []string{"m"}}, true},
		{"vertex missing location", Config{UseVertexAI: true, CloudProject: "p", GenerativeModels: []string{"m"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.GenerativeAvailable(); got != tt.want {
				t.Errorf("GenerativeAvailable() = %v, want %v", got, tt.want)
			}
		})
	}
}
