package config

import (
	"os"
	"strconv"
	"strings"

	"docreview-backend/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port               string
	CORSAllowOrigin    []string
	ObjectStoreType    string
	LocalStoreDir      string
	AWSRegion          string
	S3Bucket           string
	S3Prefix           string
	SSEKMSKeyID        string
	LLMProvider        string
	LLMModel           string
	LLMBaseURL         string
	LLMAPIVersion      string
	LLMAPIKey          string
	DatabaseURL        string
	Env                string
	RateLimitLLMPerMin int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		telemetry.Error("config.database_url_missing", map[string]any{"env": env})
	}

	return Config{
		Port:               getEnv("PORT", "8080"),
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173,http://localhost:8080")),
		ObjectStoreType:    normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:      getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:          getEnv("AWS_REGION", ""),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3Prefix:           getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:        getEnv("SSE_KMS_KEY_ID", ""),
		LLMProvider:        normalizeProvider(getEnv("LLM_PROVIDER", "openai")),
		LLMModel:           getEnv("LLM_MODEL", "gpt-4.1"),
		LLMBaseURL:         getEnv("LLM_BASE_URL", ""),
		LLMAPIVersion:      getEnv("LLM_API_VERSION", "2025-01-01-preview"),
		LLMAPIKey:          firstEnv("OPENAI_API_KEY", "AZURE_OPENAI_API_KEY"),
		DatabaseURL:        dbURL,
		Env:                env,
		RateLimitLLMPerMin: getEnvInt("RATE_LIMIT_LLM_PER_MIN", 20),
	}
}

// IsDevLike reports whether env tolerates missing infrastructure.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if val := strings.TrimSpace(os.Getenv(k)); val != "" {
			return val
		}
	}
	return ""
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		telemetry.Error("config.invalid_int", map[string]any{"key": key, "error": err})
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "azure", "azure-openai":
		return "azure"
	case "none", "placeholder", "":
		return "none"
	default:
		return "openai"
	}
}
