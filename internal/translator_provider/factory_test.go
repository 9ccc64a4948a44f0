package translator_provider

import (
	"codeshift/pkg/types"
	"testing"

	"go.uber.org/zap"
)

func TestCreateProvider(t *testing.T) {
	t.Parallel()

	cfg := &types.Config{
		OpenAI: types.OpenAIConfig{APIKey: "test", Model: "gpt-5-nano"},
		Ollama: types.OllamaConfig{BaseURL: "http://localhost:11434", Model: "qwen2.5-coder"},
	}
	factory := NewFactory(cfg, zap.NewNop())

	for _, tc := range []struct {
		providerType GenerativeProviderType
		name         string
	}{
		{ProviderOpenAI, "openai"},
		{ProviderOllama, "ollama"},
	} {
		provider, err := factory.CreateProvider(tc.providerType)
		if err != nil {
			t.Fatalf("CreateProvider(%s): %v", tc.providerType, err)
		}
		if provider.Name() != tc.name {
			t.Errorf("expected %s, got %s", tc.name, provider.Name())
		}
	}
}

func TestCreateProvider_Unsupported(t *testing.T) {
	t.Parallel()

	factory := NewFactory(&types.Config{}, zap.NewNop())
	if _, err := factory.CreateProvider("bard"); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestCreateConfigured(t *testing.T) {
	t.Parallel()

	cfg := &types.Config{
		Translation: types.TranslationConfig{Provider: "ollama"},
	}
	provider, err := NewFactory(cfg, zap.NewNop()).CreateConfigured()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Name() != "ollama" {
		t.Errorf("expected ollama, got %s", provider.Name())
	}
}
