package services

import (
	"codeshift/internal/cancellation"
	"codeshift/internal/code_translator"
	"codeshift/internal/events"
	"codeshift/internal/history"
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

const (
	ModeSingle = "single"
	ModeStream = "stream"

	defaultTranslationTimeout = 2 * time.Minute
	recordTimeout             = 5 * time.Second
)

// Config carries the optional collaborators. Nil fields get in-process defaults.
type Config struct {
	Cancellations      cancellation.Registry
	History            history.Repository
	Events             events.Publisher
	TranslationTimeout time.Duration
}

// Services holds all application services
type Services struct {
	CodeTranslatorService *code_translator.CodeTranslatorService
	Cancellations         cancellation.Registry
	History               history.Repository
	Events                events.Publisher

	logger  *zap.Logger
	timeout time.Duration
}

// NewServices creates and initializes all services
func NewServices(logger *zap.Logger, translatorService *code_translator.CodeTranslatorService, cfg Config) *Services {
	if cfg.Cancellations == nil {
		cfg.Cancellations = cancellation.NewMemoryRegistry()
	}
	if cfg.Events == nil {
		cfg.Events = events.NopPublisher{}
	}
	if cfg.TranslationTimeout <= 0 {
		cfg.TranslationTimeout = defaultTranslationTimeout
	}
	return &Services{
		CodeTranslatorService: translatorService,
		Cancellations:         cfg.Cancellations,
		History:               cfg.History,
		Events:                cfg.Events,
		logger:                logger,
		timeout:               cfg.TranslationTimeout,
	}
}

func (s *Services) HistoryEnabled() bool {
	return s.History != nil
}

// RunTranslate performs a single-shot translation for job id. The job is cancelled by the
// registry or by any of extra; ctx only bounds the remote call.
func (s *Services) RunTranslate(ctx context.Context, id string, req code_translator.TranslationRequest, extra ...cancellation.Signal) (*code_translator.TranslationResult, error) {
	sig := s.signal(id, extra)
	defer s.Cancellations.Release(id)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	res, err := s.CodeTranslatorService.Translate(callCtx, req, sig)
	s.RecordOutcome(ctx, Outcome{ID: id, Mode: ModeSingle, Request: req, Result: res, Err: err, Duration: time.Since(start)})
	return res, err
}

// RunStream streams a translation for job id into sink.
func (s *Services) RunStream(ctx context.Context, id string, req code_translator.TranslationRequest, sink code_translator.FragmentSink, extra ...cancellation.Signal) (*code_translator.TranslationResult, error) {
	sig := s.signal(id, extra)
	defer s.Cancellations.Release(id)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	res, err := s.CodeTranslatorService.TranslateStreaming(callCtx, req, sink, sig)
	s.RecordOutcome(ctx, Outcome{ID: id, Mode: ModeStream, Request: req, Result: res, Err: err, Duration: time.Since(start)})
	return res, err
}

func (s *Services) signal(id string, extra []cancellation.Signal) cancellation.Signal {
	return cancellation.Any(append([]cancellation.Signal{s.Cancellations.Signal(id)}, extra...)...)
}

// Outcome is a finished translation job.
type Outcome struct {
	ID       string
	Mode     string
	Request  code_translator.TranslationRequest
	Result   *code_translator.TranslationResult
	Err      error
	Duration time.Duration
}

func (o Outcome) status() string {
	switch {
	case o.Err == nil:
		return history.StatusSucceeded
	case code_translator.IsKind(o.Err, code_translator.KindCancelled):
		return history.StatusCancelled
	default:
		return history.StatusFailed
	}
}

// RecordOutcome persists and publishes a finished job. Failures are logged, never returned.
func (s *Services) RecordOutcome(ctx context.Context, o Outcome) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	provider := s.CodeTranslatorService.ProviderName()
	status := o.status()
	ev := events.TranslationEvent{
		ID:             o.ID,
		Mode:           o.Mode,
		Provider:       provider,
		SourceLanguage: o.Request.SourceLanguage,
		TargetLanguage: o.Request.TargetLanguage,
		Status:         status,
		DurationMS:     o.Duration.Milliseconds(),
		OccurredAt:     time.Now().UTC(),
	}
	rec := &history.Record{
		ID:             o.ID,
		Mode:           o.Mode,
		Provider:       provider,
		SourceLanguage: o.Request.SourceLanguage,
		TargetLanguage: o.Request.TargetLanguage,
		SourceCode:     o.Request.SourceCode,
		Status:         status,
		DurationMS:     o.Duration.Milliseconds(),
	}

	if o.Err != nil {
		kind := string(code_translator.KindOf(o.Err))
		ev.ErrorKind = kind
		rec.ErrorKind = kind
		rec.ErrorMessage = o.Err.Error()
	} else if o.Result != nil {
		ev.Confidence = o.Result.Metrics.OverallConfidence
		metrics := o.Result.Metrics
		rec.Metrics = &metrics
		rec.TranslatedCode = o.Result.TranslatedCode
		rec.FullResponse = o.Result.FullResponse
	}

	if s.History != nil {
		if err := s.History.Save(ctx, rec); err != nil {
			s.logger.Error("failed to save translation history", zap.String("id", o.ID), zap.Error(err))
		}
	}
	if err := s.Events.Publish(ctx, ev); err != nil {
		s.logger.Error("failed to publish translation event", zap.String("id", o.ID), zap.Error(err))
	}
}

// Close releases the event publisher.
func (s *Services) Close() error {
	if s.Events == nil {
		return nil
	}
	return s.Events.Close()
}

// ErrHistoryDisabled is returned by history lookups when no database is configured.
var ErrHistoryDisabled = errors.New("translation history is not enabled")

func (s *Services) GetTranslation(ctx context.Context, id string) (*history.Record, error) {
	if s.History == nil {
		return nil, ErrHistoryDisabled
	}
	return s.History.Get(ctx, id)
}

func (s *Services) ListTranslations(ctx context.Context, limit int) ([]history.Record, error) {
	if s.History == nil {
		return nil, ErrHistoryDisabled
	}
	return s.History.List(ctx, history.ClampLimit(limit))
}
