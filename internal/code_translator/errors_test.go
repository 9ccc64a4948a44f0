package code_translator

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "http 429", err: errors.New("Error 429, Message: Too Many Requests"), want: KindRateLimited},
		{name: "resource exhausted", err: errors.New("Status: RESOURCE_EXHAUSTED"), want: KindRateLimited},
		{name: "safety", err: errors.New("response blocked: SAFETY"), want: KindSafetyBlocked},
		{name: "aborted", err: errors.New("request aborted"), want: KindCancelled},
		{name: "context canceled", err: fmt.Errorf("stream: %w", context.Canceled), want: KindCancelled},
		{name: "timeout text", err: errors.New("i/o timeout"), want: KindTimeout},
		{name: "deadline", err: fmt.Errorf("call: %w", context.DeadlineExceeded), want: KindTimeout},
		{name: "api key", err: errors.New("API key not valid"), want: KindAuthFailure},
		{name: "permission denied", err: errors.New("Error 403, Status: PERMISSION_DENIED"), want: KindAuthFailure},
		{name: "quota", err: errors.New("You exceeded your current quota"), want: KindQuotaExceeded},
		{name: "billing", err: errors.New("billing account disabled"), want: KindQuotaExceeded},
		{name: "other", err: errors.New("connection refused"), want: KindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ClassifyError(tt.err)
			if got.Kind != tt.want {
				t.Errorf("ClassifyError(%q) kind = %s, want %s", tt.err, got.Kind, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("expected classified error to wrap the cause")
			}
		})
	}
}

func TestClassifyError_PassesThroughClassified(t *testing.T) {
	t.Parallel()

	original := validationError("Please provide source code to translate.")
	wrapped := fmt.Errorf("handler: %w", original)
	if got := ClassifyError(wrapped); got != original {
		t.Errorf("expected the existing translation error to be returned, got %v", got)
	}
	if ClassifyError(nil) != nil {
		t.Error("expected nil for nil error")
	}
}

func TestTranslationError_HidesCause(t *testing.T) {
	t.Parallel()

	err := ClassifyError(errors.New("dial tcp 10.0.0.1:443: secret internal detail"))
	if err.Error() != msgNetwork {
		t.Errorf("expected only the user-facing message, got %q", err.Error())
	}
	if KindOf(err) != KindNetwork {
		t.Errorf("expected network kind, got %s", KindOf(err))
	}
	if KindOf(errors.New("plain")) != KindNetwork {
		t.Error("expected unclassified errors to report network kind")
	}
}
