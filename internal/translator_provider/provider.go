package translator_provider

import (
	"codeshift/pkg/types"
	"context"
	"iter"
)

// TranslatorProvider defines the interface that all translation providers must implement
type TranslatorProvider interface {
	GenerateStream(ctx context.Context, req types.GenerationRequest) iter.Seq2[string, error]
	Generate(ctx context.Context, req types.GenerationRequest) (string, error)
	Name() string
}

// GenerativeProviderType represents the type of translation provider
type GenerativeProviderType string

const (
	ProviderOpenAI GenerativeProviderType = "openai"
	ProviderGemini GenerativeProviderType = "gemini"
	ProviderOllama GenerativeProviderType = "ollama"
)
