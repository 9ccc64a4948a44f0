package ollama

import (
	"bufio"
	"codeshift/pkg/types"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "qwen2.5-coder"
	maxLineBytes   = 1 << 20
)

// Client talks to a local Ollama server over its /api/generate endpoint.
type Client struct {
	http   *resty.Client
	model  string
	logger *zap.Logger
}

func NewOllamaClient(ollamaConfig types.OllamaConfig, logger *zap.Logger) *Client {
	base := ollamaConfig.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	model := ollamaConfig.Model
	if model == "" {
		model = defaultModel
	}
	// no client timeout: long generations are bounded by the caller's context
	c := resty.New().SetBaseURL(strings.TrimRight(base, "/"))
	return &Client{http: c, model: model, logger: logger}
}

func (c *Client) Name() string { return "ollama" }

type generateBody struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error"`
}

func (c *Client) body(req types.GenerationRequest, stream bool) generateBody {
	model := req.Model
	if model == "" {
		model = c.model
	}
	return generateBody{
		Model:  model,
		Prompt: req.Prompt,
		Stream: stream,
		Options: map[string]any{
			"temperature": req.Config.Temperature,
			"top_p":       req.Config.TopP,
			"top_k":       req.Config.TopK,
			"num_predict": req.Config.MaxOutputTokens,
		},
	}
}

// GenerateStream reads the newline-delimited JSON stream and yields each response piece.
func (c *Client) GenerateStream(ctx context.Context, req types.GenerationRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		rr, err := c.http.R().SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(c.body(req, true)).
			SetDoNotParseResponse(true).
			Post("/api/generate")
		if err != nil {
			yield("", fmt.Errorf("ollama generate: %w", err))
			return
		}
		raw := rr.RawBody()
		defer raw.Close()

		if rr.IsError() {
			body, _ := io.ReadAll(io.LimitReader(raw, 4096))
			yield("", fmt.Errorf("ollama generate: %s; body: %s", rr.Status(), strings.TrimSpace(string(body))))
			return
		}

		scanner := bufio.NewScanner(raw)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(strings.TrimSpace(string(line))) == 0 {
				continue
			}
			var chunk generateChunk
			if err := json.Unmarshal(line, &chunk); err != nil {
				yield("", fmt.Errorf("ollama generate: decode chunk: %w", err))
				return
			}
			if chunk.Error != "" {
				yield("", fmt.Errorf("ollama generate: %s", chunk.Error))
				return
			}
			if !yield(chunk.Response, nil) {
				return
			}
			if chunk.Done {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield("", fmt.Errorf("ollama generate: read stream: %w", err))
		}
	}
}

func (c *Client) Generate(ctx context.Context, req types.GenerationRequest) (string, error) {
	var resp generateChunk
	rr, err := c.http.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(c.body(req, false)).
		SetResult(&resp).
		Post("/api/generate")
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	if rr.IsError() {
		return "", fmt.Errorf("ollama generate: %s; body: %s", rr.Status(), rr.String())
	}
	if resp.Error != "" {
		return "", fmt.Errorf("ollama generate: %s", resp.Error)
	}
	c.logger.Debug("ollama generation finished", zap.Int("response_length", len(resp.Response)))
	return resp.Response, nil
}
