// Package events publishes translation lifecycle events.
package events

import (
	"context"
	"time"
)

// TranslationEvent describes a finished translation job.
type TranslationEvent struct {
	ID             string    `json:"id"`
	Mode           string    `json:"mode"`
	Provider       string    `json:"provider"`
	SourceLanguage string    `json:"source_language"`
	TargetLanguage string    `json:"target_language"`
	Status         string    `json:"status"`
	ErrorKind      string    `json:"error_kind,omitempty"`
	Confidence     int       `json:"confidence,omitempty"`
	DurationMS     int64     `json:"duration_ms"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev TranslationEvent) error
	Close() error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, TranslationEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
