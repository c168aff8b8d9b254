package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NOTABASE_EMBEDDING_PROVIDER",
		"NOTABASE_EMBEDDING_MODEL",
		"NOTABASE_EMBEDDING_DIMENSIONS",
		"NOTABASE_OPENAI_API_KEY",
		"NOTABASE_OPENAI_BASE_URL",
	} {
		os.Unsetenv(key)
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	p := &Profile{}
	p.FromEnv()

	if p.EmbeddingProvider != "local" {
		t.Errorf("expected provider local, got %q", p.EmbeddingProvider)
	}
	if p.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("expected default model, got %q", p.EmbeddingModel)
	}
	if p.EmbeddingDimensions != 384 {
		t.Errorf("expected 384 dimensions, got %d", p.EmbeddingDimensions)
	}
	if p.OpenAIBaseURL != "https://api.openai.com/v1" {
		t.Errorf("unexpected base URL %q", p.OpenAIBaseURL)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("NOTABASE_EMBEDDING_PROVIDER", "openai")
	t.Setenv("NOTABASE_EMBEDDING_DIMENSIONS", "1536")
	t.Setenv("NOTABASE_OPENAI_API_KEY", "sk-test")

	p := &Profile{}
	p.FromEnv()

	if p.EmbeddingProvider != "openai" {
		t.Errorf("expected provider openai, got %q", p.EmbeddingProvider)
	}
	if p.EmbeddingDimensions != 1536 {
		t.Errorf("expected 1536 dimensions, got %d", p.EmbeddingDimensions)
	}
	if p.OpenAIAPIKey != "sk-test" {
		t.Errorf("expected API key to be read")
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	p := &Profile{Mode: "dev", Driver: "mysql"}
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestValidateSQLiteDefaultDSN(t *testing.T) {
	dir := t.TempDir()
	p := &Profile{Mode: "dev", Driver: "sqlite", Data: dir}
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(p.DSN, filepath.Join(dir, "notabase_dev.db")) {
		t.Errorf("unexpected sqlite DSN %q", p.DSN)
	}
}

func TestValidatePostgresRequiresDSN(t *testing.T) {
	dir := t.TempDir()
	p := &Profile{Mode: "prod", Driver: "postgres", Data: dir}
	if err := p.Validate(); err == nil {
		t.Fatal("expected error when postgres DSN is missing")
	}
}

func TestValidateNormalizesMode(t *testing.T) {
	dir := t.TempDir()
	p := &Profile{Mode: "invalid", Driver: "sqlite", Data: dir}
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Mode != "demo" {
		t.Errorf("expected mode to default to demo, got %q", p.Mode)
	}
}
