package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dimitry-co/ai-study-buddy/internal/api/middleware"
	"github.com/dimitry-co/ai-study-buddy/internal/api/shared"
	"github.com/dimitry-co/ai-study-buddy/internal/domain"
	"github.com/dimitry-co/ai-study-buddy/internal/generation"
	"github.com/dimitry-co/ai-study-buddy/internal/service/entitlement"
)

// GenerationService produces study sets from normalized requests.
type GenerationService interface {
	Limits() domain.GenerationLimits
	Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.StudySet, error)
}

// EntitlementGate decides whether a caller may generate and debits the free
// tier after a successful generation.
type EntitlementGate interface {
	Authorize(ctx context.Context, identity domain.Identity) (domain.EntitlementState, error)
	RecordUsage(ctx context.Context, identity domain.Identity, state domain.EntitlementState) error
}

// GenerationHandler handles study-set generation HTTP requests.
type GenerationHandler struct {
	service GenerationService
	gate    EntitlementGate
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(service GenerationService, gate EntitlementGate) *GenerationHandler {
	return &GenerationHandler{
		service: service,
		gate:    gate,
	}
}

// Generate handles POST /api/generations requests.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	// Extract identity from context (set by auth middleware)
	identity, ok := middleware.GetIdentity(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var dto GenerateRequest
	if err := shared.DecodeJSON(r, &dto); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(dto); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	// Entitlement check runs before any expensive work
	state, err := h.gate.Authorize(r.Context(), identity)
	if err != nil {
		if errors.Is(err, entitlement.ErrQuotaExceeded) {
			shared.RespondWithErrorAndLog(w, r,
				http.StatusForbidden, GetSafeErrorMessage(err), err,
				shared.WithRequiresSubscription())
			return
		}
		slog.Error("entitlement check failed", "error", err, "user_id", identity.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	req, err := domain.NewGenerationRequest(
		domain.ContentMode(dto.ContentType),
		dto.Notes,
		dto.Images,
		dto.NumberOfQuestions,
		domain.ItemType(dto.QuestionType),
		h.service.Limits(),
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	set, err := h.service.Generate(r.Context(), req)
	if err != nil {
		var opts []shared.ResponseOption
		if errors.Is(err, generation.ErrUpstreamAuth) {
			// rejected model credentials are a deployment problem, not
			// request noise; surface at WARN
			opts = append(opts, shared.WithElevatedLogLevel())
		}
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err, opts...)
		return
	}

	// Debit the free tier only after the generation succeeded. A failed debit
	// must not take the result away from the caller.
	if err := h.gate.RecordUsage(r.Context(), identity, state); err != nil {
		slog.Error("failed to record free-tier usage",
			"error", err,
			"user_id", identity.ID,
			"trace_id", shared.GetTraceID(r.Context()))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, studySetToResponse(set))
}
