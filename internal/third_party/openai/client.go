package codeshift_openai

import (
	"codeshift/pkg/types"
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

const defaultModel = "gpt-5-nano"

type Client struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenAIClient(openAIConfig types.OpenAIConfig, logger *zap.Logger, opts ...option.RequestOption) *Client {
	opts = append([]option.RequestOption{option.WithAPIKey(openAIConfig.APIKey)}, opts...)
	c := openai.NewClient(opts...)

	model := openAIConfig.Model
	if model == "" {
		model = defaultModel
	}
	return &Client{client: &c, model: model, logger: logger}
}

func (c *Client) Name() string { return "openai" }

// GenerateStream streams a chat completion, yielding each delta's content.
func (c *Client) GenerateStream(ctx context.Context, req types.GenerationRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		params := c.params(req)
		stream := c.client.Chat.Completions.NewStreaming(ctx, params)
		defer func() {
			if err := stream.Close(); err != nil {
				c.logger.Debug("failed to close openai stream", zap.Error(err))
			}
		}()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			if !yield(chunk.Choices[0].Delta.Content, nil) {
				return
			}
		}
		if err := stream.Err(); err != nil {
			yield("", fmt.Errorf("openai stream: %w", err))
		}
	}
}

func (c *Client) Generate(ctx context.Context, req types.GenerationRequest) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, c.params(req))
	if err != nil {
		return "", fmt.Errorf("openai generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai generate: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) params(req types.GenerationRequest) openai.ChatCompletionNewParams {
	model := req.Model
	if model == "" {
		model = c.model
	}
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
	}
	if req.Config.MaxOutputTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.Config.MaxOutputTokens))
	}
	if supportsSampling(model) {
		params.Temperature = openai.Float(float64(req.Config.Temperature))
		params.TopP = openai.Float(float64(req.Config.TopP))
	}
	return params
}

// supportsSampling reports whether model accepts temperature and top_p.
// Reasoning models reject anything but the defaults.
func supportsSampling(model string) bool {
	m := strings.ToLower(model)
	for _, prefix := range []string{"gpt-5", "o1", "o3", "o4"} {
		if strings.HasPrefix(m, prefix) {
			return false
		}
	}
	return true
}
