package gemini

import (
	"codeshift/pkg/types"
	"context"
	"fmt"
	"iter"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

type Client struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func NewGeminiClient(geminiConfig types.GeminiConfig, logger *zap.Logger) (*Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  geminiConfig.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if geminiConfig.UsesVertex() {
		cfg = &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  geminiConfig.Project,
			Location: geminiConfig.Location,
		}
	}

	if geminiConfig.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: geminiConfig.BaseURL}
	}

	client, err := genai.NewClient(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := geminiConfig.Model
	if model == "" {
		model = defaultModel
	}
	return &Client{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (c *Client) Name() string { return "gemini" }

// GenerateStream implements streaming completion using Google Gemini API
func (c *Client) GenerateStream(ctx context.Context, req types.GenerationRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		model := c.modelFor(req)
		stream := c.client.Models.GenerateContentStream(ctx, model, userContent(req.Prompt), buildConfig(req))

		chunks := 0
		for chunk, err := range stream {
			if err != nil {
				yield("", fmt.Errorf("gemini stream: %w", err))
				return
			}
			if err := blockedError(chunk); err != nil {
				yield("", err)
				return
			}
			chunks++
			if !yield(chunk.Text(), nil) {
				c.logger.Debug("gemini stream stopped by consumer", zap.String("model", model), zap.Int("chunks", chunks))
				return
			}
		}
		c.logger.Debug("gemini stream finished", zap.String("model", model), zap.Int("chunks", chunks))
	}
}

func (c *Client) Generate(ctx context.Context, req types.GenerationRequest) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.modelFor(req), userContent(req.Prompt), buildConfig(req))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if err := blockedError(resp); err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func (c *Client) modelFor(req types.GenerationRequest) string {
	if req.Model != "" {
		return req.Model
	}
	return c.model
}

func userContent(prompt string) []*genai.Content {
	return []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{
					Text: prompt,
				},
			},
		},
	}
}

func buildConfig(req types.GenerationRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Config.Temperature),
		TopP:            genai.Ptr(req.Config.TopP),
		TopK:            genai.Ptr(float32(req.Config.TopK)),
		MaxOutputTokens: req.Config.MaxOutputTokens,
	}
	for _, s := range req.Safety {
		cfg.SafetySettings = append(cfg.SafetySettings, &genai.SafetySetting{
			Category:  genai.HarmCategory(s.Category),
			Threshold: genai.HarmBlockThreshold(s.Threshold),
		})
	}
	return cfg
}

// blockedError turns a safety block reported inside a response into an error.
func blockedError(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return nil
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return fmt.Errorf("gemini: prompt blocked by SAFETY filter (%s): %s", fb.BlockReason, fb.BlockReasonMessage)
	}
	for _, cand := range resp.Candidates {
		if cand != nil && cand.FinishReason == genai.FinishReasonSafety {
			return fmt.Errorf("gemini: response blocked by SAFETY filter")
		}
	}
	return nil
}
