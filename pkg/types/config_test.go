package types

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_GeminiDefaults(t *testing.T) {
	t.Setenv("TRANSLATOR_PROVIDER", "")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("DB_HOST", "")

	cfg, err := loadConfig(filepath.Join(t.TempDir(), ".env"))
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.Server.Port != "6777" {
		t.Errorf("expected default port 6777, got %q", cfg.Server.Port)
	}
	if cfg.Translation.Provider != "gemini" {
		t.Errorf("expected gemini provider, got %q", cfg.Translation.Provider)
	}
	if cfg.Translation.Timeout != 2*time.Minute {
		t.Errorf("expected 2m translation timeout, got %v", cfg.Translation.Timeout)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected 10s shutdown timeout, got %v", cfg.Server.ShutdownTimeout)
	}
	model, streamModel := cfg.Models()
	if model != "gemini-2.5-flash" || streamModel != "gemini-2.5-flash" {
		t.Errorf("unexpected models %q / %q", model, streamModel)
	}
	if cfg.Database.Enabled() {
		t.Error("expected history to be disabled without DB_HOST")
	}
	if cfg.Kafka.Enabled() {
		t.Error("expected kafka to be disabled without brokers")
	}
}

func TestLoadConfig_MissingProviderKey(t *testing.T) {
	t.Setenv("TRANSLATOR_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "")

	_, err := loadConfig(filepath.Join(t.TempDir(), ".env"))
	if err == nil {
		t.Fatal("expected error for missing OPENAI_API_KEY")
	}
	if err.Error() != "OPENAI_API_KEY is required" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadConfig_UnsupportedProvider(t *testing.T) {
	t.Setenv("TRANSLATOR_PROVIDER", "claude-on-a-toaster")

	if _, err := loadConfig(filepath.Join(t.TempDir(), ".env")); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestLoadConfig_DatabaseRequiresFullSettings(t *testing.T) {
	t.Setenv("TRANSLATOR_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_NAME", "")

	if _, err := loadConfig(filepath.Join(t.TempDir(), ".env")); err == nil {
		t.Fatal("expected error when DB_HOST is set without DB_NAME")
	}
}

func TestLoadConfig_ReadsEnvFile(t *testing.T) {
	t.Setenv("TRANSLATOR_PROVIDER", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("KAFKA_BROKERS", "")

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "GEMINI_API_KEY=from-file\nKAFKA_BROKERS=broker-1:9092, broker-2:9092\nSERVER_PORT=8080\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := loadConfig(envFile)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Gemini.APIKey != "from-file" {
		t.Errorf("expected API key from file, got %q", cfg.Gemini.APIKey)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Server.Port)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "broker-2:9092" {
		t.Errorf("unexpected brokers: %v", cfg.Kafka.Brokers)
	}
	if cfg.Server.GetServerAddress() != ":8080" {
		t.Errorf("unexpected address %q", cfg.Server.GetServerAddress())
	}
}

func TestDefaultGenerationConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultGenerationConfig()
	if cfg.Temperature != 0.1 || cfg.TopP != 0.8 || cfg.TopK != 32 || cfg.MaxOutputTokens != 8192 {
		t.Errorf("unexpected generation config: %+v", cfg)
	}

	safety := DefaultSafetySettings()
	if len(safety) != 4 {
		t.Fatalf("expected 4 safety settings, got %d", len(safety))
	}
	for _, s := range safety {
		if s.Threshold != BlockLowAndAbove {
			t.Errorf("expected %s threshold for %s, got %s", BlockLowAndAbove, s.Category, s.Threshold)
		}
	}
}
