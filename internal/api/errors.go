package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dimitry-co/ai-study-buddy/internal/domain"
	"github.com/dimitry-co/ai-study-buddy/internal/generation"
	"github.com/dimitry-co/ai-study-buddy/internal/service/auth"
	"github.com/dimitry-co/ai-study-buddy/internal/service/entitlement"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, generation.ErrUpstreamAuth):
		return http.StatusUnauthorized

	// Entitlement errors
	case errors.Is(err, entitlement.ErrQuotaExceeded):
		return http.StatusForbidden

	// Request validation errors
	case errors.Is(err, domain.ErrInvalidContentMode),
		errors.Is(err, domain.ErrInvalidItemType),
		errors.Is(err, domain.ErrItemCountOutOfRange),
		errors.Is(err, domain.ErrEmptyNotes),
		errors.Is(err, domain.ErrNoImages),
		errors.Is(err, domain.ErrTooManyImages):
		return http.StatusBadRequest

	// Output quality errors. Truncation means the response blew past the
	// token budget, so the payload was effectively too large to produce.
	case errors.Is(err, generation.ErrTruncated):
		return http.StatusRequestEntityTooLarge

	case errors.Is(err, generation.ErrDegenerate):
		return http.StatusUnprocessableEntity

	case errors.Is(err, generation.ErrUpstreamRateLimited):
		return http.StatusTooManyRequests

	case errors.Is(err, generation.ErrUpstreamTimeout):
		return http.StatusGatewayTimeout

	// Malformed or empty model output is our problem, not the caller's
	case errors.Is(err, generation.ErrMalformedItem),
		errors.Is(err, generation.ErrEmptyGeneration),
		errors.Is(err, generation.ErrUpstreamEmpty),
		errors.Is(err, generation.ErrUpstreamUnavailable):
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, generation.ErrUpstreamAuth):
		return "Generation service credentials rejected"

	case errors.Is(err, entitlement.ErrQuotaExceeded):
		return "Free generation limit reached"

	// Domain validation messages are written for end users; pass them through
	case errors.Is(err, domain.ErrInvalidContentMode),
		errors.Is(err, domain.ErrInvalidItemType),
		errors.Is(err, domain.ErrItemCountOutOfRange),
		errors.Is(err, domain.ErrEmptyNotes),
		errors.Is(err, domain.ErrNoImages),
		errors.Is(err, domain.ErrTooManyImages):
		return err.Error()

	case errors.Is(err, generation.ErrTruncated):
		return "Generated response was cut off; try requesting fewer questions"

	case errors.Is(err, generation.ErrDegenerate):
		return "Could not extract enough content from the provided material"

	case errors.Is(err, generation.ErrUpstreamRateLimited):
		return "Generation service is busy; try again shortly"

	case errors.Is(err, generation.ErrUpstreamTimeout):
		return "Generation timed out; try again"

	case errors.Is(err, generation.ErrMalformedItem),
		errors.Is(err, generation.ErrEmptyGeneration),
		errors.Is(err, generation.ErrUpstreamEmpty):
		return "Generation produced an unusable response"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'GenerateRequest.QuestionType' Error:Field
	// validation for 'QuestionType' failed on the 'oneof' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too small"
	case "max":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
