package code_translator

import (
	"codeshift/pkg/types"
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TranslatorProviderInterface defines the methods required for translation providers
type TranslatorProviderInterface interface {
	// GenerateStream returns a finite, single-pass sequence of text fragments.
	GenerateStream(ctx context.Context, req types.GenerationRequest) iter.Seq2[string, error]
	Generate(ctx context.Context, req types.GenerationRequest) (string, error)
	Name() string
}

// CancelSignal is a caller-owned flag polled between fragments.
type CancelSignal interface {
	Cancelled() bool
}

// FragmentSink receives each streamed fragment, in order, on the translating goroutine.
type FragmentSink func(fragment string) error

type TranslationRequest struct {
	SourceCode     string `json:"source_code"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

type TranslationResult struct {
	TranslatedCode string         `json:"translated_code"`
	Metrics        MetricsSummary `json:"metrics"`
	FullResponse   string         `json:"full_response"`
}

// Options tunes the translator. Empty models fall back to the provider default.
type Options struct {
	Model              string
	StreamModel        string
	Random             RandomSource
	CancelPollInterval time.Duration
}

const defaultCancelPollInterval = 100 * time.Millisecond

// CodeTranslatorService provides code translation functionalities
type CodeTranslatorService struct {
	logger   *zap.Logger
	provider TranslatorProviderInterface
	opts     Options
}

// NewCodeTranslatorService creates a new instance of CodeTranslatorService
func NewCodeTranslatorService(logger *zap.Logger, provider TranslatorProviderInterface, opts Options) *CodeTranslatorService {
	if opts.Random == nil {
		opts.Random = DefaultRandom
	}
	if opts.CancelPollInterval <= 0 {
		opts.CancelPollInterval = defaultCancelPollInterval
	}
	return &CodeTranslatorService{
		logger:   logger,
		provider: provider,
		opts:     opts,
	}
}

// ProviderName returns the name of the backing provider.
func (s *CodeTranslatorService) ProviderName() string {
	return s.provider.Name()
}

// Translate performs a single-shot translation. Source and target languages must differ.
// A signalled sig aborts the wait for the remote call with a cancelled error.
func (s *CodeTranslatorService) Translate(ctx context.Context, req TranslationRequest, sig CancelSignal) (*TranslationResult, error) {
	if err := validateRequest(req, true); err != nil {
		return nil, err
	}
	if isCancelled(sig) {
		return nil, cancelledError()
	}

	s.logger.Info("translating code",
		zap.String("mode", "single"),
		zap.String("source_language", req.SourceLanguage),
		zap.String("target_language", req.TargetLanguage),
		zap.Int("code_length", len(req.SourceCode)),
	)

	text, err := s.awaitGenerate(ctx, s.generationRequest(s.opts.Model, BuildVerbosePrompt(req)), sig)
	if err != nil {
		return nil, s.fail("single", err)
	}

	s.logger.Info("code translation completed", zap.Int("response_length", len(text)))
	return s.finish(req, text), nil
}

// TranslateStreaming streams the translation, handing every fragment to onFragment before polling
// sig. Unlike Translate it does not reject identical source and target languages.
func (s *CodeTranslatorService) TranslateStreaming(ctx context.Context, req TranslationRequest, onFragment FragmentSink, sig CancelSignal) (*TranslationResult, error) {
	if err := validateRequest(req, false); err != nil {
		return nil, err
	}
	if isCancelled(sig) {
		return nil, cancelledError()
	}

	s.logger.Info("translating code",
		zap.String("mode", "stream"),
		zap.String("source_language", req.SourceLanguage),
		zap.String("target_language", req.TargetLanguage),
		zap.Int("code_length", len(req.SourceCode)),
	)

	session := &streamSession{sink: onFragment, signal: sig}
	full, err := session.consume(s.provider.GenerateStream(ctx, s.generationRequest(s.opts.StreamModel, BuildStreamingPrompt(req))))
	if err != nil {
		s.logger.Debug("stream aborted", zap.Int("fragments_delivered", session.delivered))
		return nil, s.fail("stream", err)
	}

	s.logger.Info("code translation completed",
		zap.Int("fragments", session.delivered),
		zap.Int("response_length", len(full)),
	)
	return s.finish(req, full), nil
}

func (s *CodeTranslatorService) generationRequest(model, prompt string) types.GenerationRequest {
	return types.GenerationRequest{
		Model:  model,
		Prompt: prompt,
		Config: types.DefaultGenerationConfig(),
		Safety: types.DefaultSafetySettings(),
	}
}

func (s *CodeTranslatorService) awaitGenerate(ctx context.Context, req types.GenerationRequest, sig CancelSignal) (string, error) {
	if sig == nil {
		return s.provider.Generate(ctx, req)
	}

	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		text, err := s.provider.Generate(callCtx, req)
		done <- outcome{text: text, err: err}
	}()

	ticker := time.NewTicker(s.opts.CancelPollInterval)
	defer ticker.Stop()
	for {
		select {
		case o := <-done:
			return o.text, o.err
		case <-ticker.C:
			if sig.Cancelled() {
				return "", cancelledError()
			}
		}
	}
}

func (s *CodeTranslatorService) finish(req TranslationRequest, fullResponse string) *TranslationResult {
	code := ExtractCode(fullResponse, req.TargetLanguage)
	return &TranslationResult{
		TranslatedCode: code,
		Metrics:        ComputeMetrics(req.SourceCode, code, req.SourceLanguage, req.TargetLanguage, s.opts.Random),
		FullResponse:   fullResponse,
	}
}

func (s *CodeTranslatorService) fail(mode string, err error) *TranslationError {
	te := ClassifyError(err)
	s.logger.Warn("translation failed",
		zap.String("mode", mode),
		zap.String("provider", s.provider.Name()),
		zap.String("kind", string(te.Kind)),
		zap.NamedError("cause", te.Err),
	)
	return te
}

// streamSession accumulates one stream. It is used by a single call and then dropped.
type streamSession struct {
	buf       strings.Builder
	sink      FragmentSink
	signal    CancelSignal
	delivered int
}

func (ss *streamSession) consume(fragments iter.Seq2[string, error]) (string, error) {
	for fragment, err := range fragments {
		if err != nil {
			return "", err
		}
		if fragment != "" {
			ss.buf.WriteString(fragment)
			ss.delivered++
			if ss.sink != nil {
				if err := ss.sink(fragment); err != nil {
					return "", fmt.Errorf("deliver fragment %d: %w", ss.delivered, err)
				}
			}
		}
		if isCancelled(ss.signal) {
			return "", cancelledError()
		}
	}
	return ss.buf.String(), nil
}

func isCancelled(sig CancelSignal) bool {
	return sig != nil && sig.Cancelled()
}

func validateRequest(req TranslationRequest, requireDistinctLanguages bool) error {
	if strings.TrimSpace(req.SourceCode) == "" {
		return validationError("Please provide source code to translate.")
	}
	if !requireDistinctLanguages {
		return nil
	}
	if req.SourceLanguage == "" || req.TargetLanguage == "" {
		return validationError("Please specify both source and target languages.")
	}
	if req.SourceLanguage == req.TargetLanguage {
		return validationError("Source and target languages cannot be the same.")
	}
	return nil
}
