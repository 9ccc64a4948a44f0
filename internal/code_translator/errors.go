package code_translator

import (
	"context"
	"errors"
	"strings"
)

// ErrorKind classifies translation failures for callers.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindRateLimited   ErrorKind = "rate_limit"
	KindSafetyBlocked ErrorKind = "safety"
	KindCancelled     ErrorKind = "cancelled"
	KindTimeout       ErrorKind = "timeout"
	KindAuthFailure   ErrorKind = "api_key"
	KindQuotaExceeded ErrorKind = "quota"
	KindNetwork       ErrorKind = "network"
)

const (
	msgRateLimited   = "Rate limit exceeded. Please wait a moment before trying again."
	msgSafetyBlocked = "Content was blocked by safety filters. Please modify your request and try again."
	msgCancelled     = "Request was cancelled by user."
	msgTimeout       = "Request timed out. Please try again."
	msgAuthFailure   = "API key is invalid or missing. Please check your configuration."
	msgQuotaExceeded = "API quota exceeded or billing issue. Please check your Google AI Studio account."
	msgNetwork       = "An unexpected error occurred. Please check your internet connection and try again."
)

// TranslationError is the only error type returned by the translator service.
// Error returns the user-facing message; the underlying cause is kept for logging.
type TranslationError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *TranslationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *TranslationError) Unwrap() error { return e.Err }

func newError(kind ErrorKind, msg string, err error) *TranslationError {
	return &TranslationError{Kind: kind, Message: msg, Err: err}
}

func validationError(msg string) *TranslationError {
	return newError(KindValidation, msg, nil)
}

func cancelledError() *TranslationError {
	return newError(KindCancelled, msgCancelled, errors.New("cancellation observed"))
}

// KindOf returns the kind of a translation error, or KindNetwork for anything unclassified.
func KindOf(err error) ErrorKind {
	var te *TranslationError
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindNetwork
}

func IsKind(err error, kind ErrorKind) bool {
	var te *TranslationError
	return errors.As(err, &te) && te.Kind == kind
}

// ClassifyError maps a raw provider or transport failure into the translation error taxonomy.
func ClassifyError(err error) *TranslationError {
	if err == nil {
		return nil
	}
	var te *TranslationError
	if errors.As(err, &te) {
		return te
	}
	if errors.Is(err, context.Canceled) {
		return newError(KindCancelled, msgCancelled, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newError(KindTimeout, msgTimeout, err)
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "RESOURCE_EXHAUSTED") && !containsAny(lower, "quota", "billing"):
		return newError(KindRateLimited, msgRateLimited, err)
	case strings.Contains(msg, "SAFETY"):
		return newError(KindSafetyBlocked, msgSafetyBlocked, err)
	case containsAny(lower, "cancelled", "canceled", "aborted"):
		return newError(KindCancelled, msgCancelled, err)
	case strings.Contains(lower, "timeout"):
		return newError(KindTimeout, msgTimeout, err)
	case strings.Contains(msg, "API key"),
		strings.Contains(lower, "authentication"),
		containsAny(msg, "UNAUTHENTICATED", "PERMISSION_DENIED"):
		return newError(KindAuthFailure, msgAuthFailure, err)
	case containsAny(lower, "quota", "billing"):
		return newError(KindQuotaExceeded, msgQuotaExceeded, err)
	default:
		return newError(KindNetwork, msgNetwork, err)
	}
}
