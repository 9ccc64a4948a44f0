package translator_provider

import (
	"codeshift/internal/third_party/gemini"
	"codeshift/internal/third_party/ollama"
	codeshift_openai "codeshift/internal/third_party/openai"
	"codeshift/pkg/types"
	"fmt"

	"go.uber.org/zap"
)

// Factory creates translator providers based on the specified type
type Factory struct {
	config *types.Config
	logger *zap.Logger
}

// NewFactory creates a new provider factory
func NewFactory(config *types.Config, logger *zap.Logger) *Factory {
	return &Factory{
		config: config,
		logger: logger,
	}
}

// CreateProvider creates a translator provider based on the specified type
func (f *Factory) CreateProvider(providerType GenerativeProviderType) (TranslatorProvider, error) {
	logger := f.logger.With(zap.String("provider", string(providerType)))
	switch providerType {
	case ProviderOpenAI:
		return codeshift_openai.NewOpenAIClient(f.config.OpenAI, logger), nil
	case ProviderGemini:
		client, err := gemini.NewGeminiClient(f.config.Gemini, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	case ProviderOllama:
		return ollama.NewOllamaClient(f.config.Ollama, logger), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

// CreateConfigured creates the provider selected by TRANSLATOR_PROVIDER.
func (f *Factory) CreateConfigured() (TranslatorProvider, error) {
	return f.CreateProvider(GenerativeProviderType(f.config.Translation.Provider))
}
