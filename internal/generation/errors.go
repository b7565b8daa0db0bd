package generation

import (
	"errors"
	"fmt"
)

// Errors returned by the generation pipeline. Every failure is terminal for
// the request; the pipeline never retries on its own, and quota is never
// debited on any error path.
var (
	// ErrUpstreamUnavailable is returned when the generative model client is
	// not configured (missing credentials).
	ErrUpstreamUnavailable = errors.New("generative model is not configured")

	// ErrUpstreamAuth is returned when the model rejects our credentials.
	ErrUpstreamAuth = errors.New("generative model rejected credentials")

	// ErrUpstreamRateLimited is returned when the model throttles us.
	ErrUpstreamRateLimited = errors.New("generative model rate limit exceeded")

	// ErrUpstreamEmpty is returned when the model returns no content at all.
	ErrUpstreamEmpty = errors.New("generative model returned no content")

	// ErrUpstreamTimeout is returned when the overall generation deadline is
	// breached while waiting on the model.
	ErrUpstreamTimeout = errors.New("generation deadline exceeded")

	// ErrTruncated is returned when the model's finish reason shows the
	// response was cut off by the token ceiling. Partial batches are
	// discarded, never accepted.
	ErrTruncated = errors.New("generation truncated by token ceiling")

	// ErrDegenerate is returned when the reported completion-token usage is
	// implausibly low for the requested count, usually meaning the input was
	// too unclear for the model to process.
	ErrDegenerate = errors.New("generation output implausibly small")

	// ErrEmptyGeneration is returned when the model produced zero items.
	ErrEmptyGeneration = errors.New("generation produced no items")

	// ErrMalformedItem is returned when any item in the response is missing a
	// required field or carries a wrong type. A single bad item fails the
	// whole generation; mixed-quality batches are not partially accepted.
	ErrMalformedItem = errors.New("generated item failed shape validation")
)

// TruncatedError reports how many items actually arrived before the token
// ceiling cut the response off, so the caller can suggest a smaller request.
type TruncatedError struct {
	Received  int
	Requested int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("%v: received %d of %d requested items",
		ErrTruncated, e.Received, e.Requested)
}

func (e *TruncatedError) Unwrap() error { return ErrTruncated }

// DegenerateError carries the usage numbers behind a degenerate-output
// rejection for diagnosis.
type DegenerateError struct {
	CompletionTokens int
	Requested        int
}

func (e *DegenerateError) Error() string {
	return fmt.Sprintf("%v: %d completion tokens for %d requested items",
		ErrDegenerate, e.CompletionTokens, e.Requested)
}

func (e *DegenerateError) Unwrap() error { return ErrDegenerate }

// MalformedItemError names the offending item's 1-based position in the
// assembled collection and the field that failed.
type MalformedItemError struct {
	Position int
	Field    string
	Reason   string
}

func (e *MalformedItemError) Error() string {
	return fmt.Sprintf("%v: item %d field %q %s",
		ErrMalformedItem, e.Position, e.Field, e.Reason)
}

func (e *MalformedItemError) Unwrap() error { return ErrMalformedItem }
