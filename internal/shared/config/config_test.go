package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "PORT", "OBJECT_STORE", "LLM_PROVIDER", "RATE_LIMIT_LLM_PER_MIN", "CORS_ALLOW_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected dev env, got %q", cfg.Env)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.ObjectStoreType != "local" {
		t.Fatalf("expected local store, got %q", cfg.ObjectStoreType)
	}
	if cfg.RateLimitLLMPerMin != 20 {
		t.Fatalf("expected default llm rate 20, got %d", cfg.RateLimitLLMPerMin)
	}
	if !cfg.IsDevLike() {
		t.Fatal("expected dev-like config")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("OBJECT_STORE", "S3")
	t.Setenv("LLM_PROVIDER", "Azure-OpenAI")
	t.Setenv("RATE_LIMIT_LLM_PER_MIN", "nope")
	t.Setenv("CORS_ALLOW_ORIGINS", " https://a.test , ,https://b.test")

	cfg := Load()
	if cfg.Env != "production" || cfg.IsDevLike() {
		t.Fatalf("expected production env, got %q", cfg.Env)
	}
	if cfg.ObjectStoreType != "s3" {
		t.Fatalf("expected s3 store, got %q", cfg.ObjectStoreType)
	}
	if cfg.LLMProvider != "azure" {
		t.Fatalf("expected azure provider, got %q", cfg.LLMProvider)
	}
	if cfg.RateLimitLLMPerMin != 20 {
		t.Fatalf("invalid int should fall back to default, got %d", cfg.RateLimitLLMPerMin)
	}
	if len(cfg.CORSAllowOrigin) != 2 || cfg.CORSAllowOrigin[1] != "https://b.test" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowOrigin)
	}
}
