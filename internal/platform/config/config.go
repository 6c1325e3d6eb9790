// Package config loads the process-wide, read-only configuration from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultModels is the ordered list of Gemini model variants tried when GEMINI_MODELS is unset.
var DefaultModels = []string{"gemini-2.5-flash", "gemini-2.0-flash", "gemini-1.5-flash"}

const (
	defaultPort              = "8080"
	defaultGenerativeTimeout = 30 * time.Second
	defaultSignalCacheTTL    = 10 * time.Minute
	defaultMaxImageSize      = 16 * 1024 * 1024
)

// Config holds configuration established once at startup.
type Config struct {
	Port string

	GeminiAPIKey      string        // GEMINI_API_KEY or GOOGLE_API_KEY
	UseVertexAI       bool          // GOOGLE_GENAI_USE_VERTEXAI
	CloudProject      string        // GOOGLE_CLOUD_PROJECT
	CloudLocation     string        // GOOGLE_CLOUD_LOCATION
	GenerativeModels  []string      // GEMINI_MODELS, comma separated, in fallback order
	GenerativeTimeout time.Duration // GEMINI_TIMEOUT
	GenerativeRPM     int           // GEMINI_RPM, 0 disables rate limiting

	VisionEnabled bool // VISION_ENABLED

	RedisHost      string
	RedisPort      string
	RedisPassword  string
	SignalCacheTTL time.Duration // SIGNAL_CACHE_TTL

	MaxImageSize int64 // MAX_IMAGE_SIZE in bytes

	CORSAllowedOrigins []string // CORS_ALLOWED_ORIGINS, empty allows all origins
}

// LoadConfig reads the configuration from environment variables.
func LoadConfig() Config {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	return Config{
		Port:              getString("PORT", defaultPort),
		GeminiAPIKey:      apiKey,
		UseVertexAI:       getBool("GOOGLE_GENAI_USE_VERTEXAI", false),
		CloudProject:      os.Getenv("GOOGLE_CLOUD_PROJECT"),
		CloudLocation:     os.Getenv("GOOGLE_CLOUD_LOCATION"),
		GenerativeModels:  getList("GEMINI_MODELS", DefaultModels),
		GenerativeTimeout: getDuration("GEMINI_TIMEOUT", defaultGenerativeTimeout),
		GenerativeRPM:     int(getInt64("GEMINI_RPM", 0)),
		VisionEnabled:     getBool("VISION_ENABLED", true),
		RedisHost:         os.Getenv("REDIS_HOST"),
		RedisPort:         os.Getenv("REDIS_PORT"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		SignalCacheTTL:    getDuration("SIGNAL_CACHE_TTL", defaultSignalCacheTTL),
		MaxImageSize:      getInt64("MAX_IMAGE_SIZE", defaultMaxImageSize),

		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", nil),
	}
}

// GenerativeAvailable reports whether Gemini credentials/configuration are present.
func (c Config) GenerativeAvailable() bool {
	if len(c.GenerativeModels) == 0 {
		return false
	}
	if c.UseVertexAI {
		return c.CloudProject != "" && c.CloudLocation != ""
	}
	return c.GeminiAPIKey != ""
}

// RedisConfigured reports whether a Redis host is set.
func (c Config) RedisConfigured() bool {
	return c.RedisHost != ""
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func getInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func getList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return append([]string(nil), def...)
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), def...)
	}
	return out
}
