package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dimitry-co/ai-study-buddy/internal/domain"
	"github.com/dimitry-co/ai-study-buddy/internal/generation"
	"github.com/dimitry-co/ai-study-buddy/internal/service/auth"
	"github.com/dimitry-co/ai-study-buddy/internal/service/entitlement"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{auth.ErrInvalidToken, http.StatusUnauthorized},
		{auth.ErrExpiredToken, http.StatusUnauthorized},
		{generation.ErrUpstreamAuth, http.StatusUnauthorized},
		{&entitlement.QuotaExceededError{Used: 4, Limit: 4}, http.StatusForbidden},
		{domain.ErrItemCountOutOfRange, http.StatusBadRequest},
		{domain.ErrEmptyNotes, http.StatusBadRequest},
		{domain.ErrTooManyImages, http.StatusBadRequest},
		{&generation.TruncatedError{Received: 2, Requested: 10}, http.StatusRequestEntityTooLarge},
		{&generation.DegenerateError{CompletionTokens: 10, Requested: 10}, http.StatusUnprocessableEntity},
		{generation.ErrUpstreamRateLimited, http.StatusTooManyRequests},
		{generation.ErrUpstreamTimeout, http.StatusGatewayTimeout},
		{generation.ErrEmptyGeneration, http.StatusInternalServerError},
		{&generation.MalformedItemError{Position: 1, Field: "id", Reason: "missing"}, http.StatusInternalServerError},
		{generation.ErrUpstreamUnavailable, http.StatusInternalServerError},
		{errors.New("something unexpected"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err), "error: %v", tc.err)
	}
}

func TestMapErrorToStatusCodeWrapped(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("batch 2: %w", &generation.TruncatedError{Received: 4, Requested: 10})
	assert.Equal(t, http.StatusRequestEntityTooLarge, MapErrorToStatusCode(wrapped))
}

func TestGetSafeErrorMessageNeverLeaksInternals(t *testing.T) {
	t.Parallel()

	internal := errors.New("pq: connection to 10.0.0.5:5432 refused (password=hunter2)")
	msg := GetSafeErrorMessage(internal)
	assert.Equal(t, "An unexpected error occurred", msg)
	assert.NotContains(t, msg, "hunter2")

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}

func TestGetSafeErrorMessagePassesDomainMessages(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("%w: got 61, want 1-60", domain.ErrItemCountOutOfRange)
	assert.Contains(t, GetSafeErrorMessage(err), "got 61")
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := errors.New(
		"Key: 'GenerateRequest.QuestionType' Error:Field validation for 'QuestionType' failed on the 'oneof' tag")
	assert.Equal(t, "Invalid QuestionType: invalid value", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("boom")))
}
