package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimitry-co/ai-study-buddy/internal/api"
	"github.com/dimitry-co/ai-study-buddy/internal/api/middleware"
	"github.com/dimitry-co/ai-study-buddy/internal/config"
	"github.com/dimitry-co/ai-study-buddy/internal/domain"
	"github.com/dimitry-co/ai-study-buddy/internal/service/auth"
)

type noopService struct{}

func (noopService) Limits() domain.GenerationLimits {
	return domain.GenerationLimits{MinItems: 1, MaxItems: 60, MaxImages: 15}
}

func (noopService) Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.StudySet, error) {
	return &domain.StudySet{Type: req.ItemType, Model: "test"}, nil
}

type noopGate struct{}

func (noopGate) Authorize(ctx context.Context, identity domain.Identity) (domain.EntitlementState, error) {
	return domain.EntitlementState{IsAdmin: true}, nil
}

func (noopGate) RecordUsage(ctx context.Context, identity domain.Identity, state domain.EntitlementState) error {
	return nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	authService, err := auth.NewService(config.AuthConfig{
		JWTSecret:            "router-test-secret-at-least-32-chars",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	genHandler := api.NewGenerationHandler(noopService{}, noopGate{})
	return newRouter(genHandler, middleware.NewAuthMiddleware(authService))
}

func TestHealthEndpointIsOpen(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)
}

func TestGenerationsRequiresAuth(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/api/generations",
		strings.NewReader(`{"content_type":"text","notes":"x","number_of_questions":3,"question_type":"mcq"}`))
	rr := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGenerationsRouteIsWired(t *testing.T) {
	t.Parallel()

	authService, err := auth.NewService(config.AuthConfig{
		JWTSecret:            "router-test-secret-at-least-32-chars",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	genHandler := api.NewGenerationHandler(noopService{}, noopGate{})
	router := newRouter(genHandler, middleware.NewAuthMiddleware(authService))

	token, err := authService.GenerateToken(context.Background(), uuid.New(), "user@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/generations",
		strings.NewReader(`{"content_type":"text","notes":"mitochondria","number_of_questions":3,"question_type":"mcq"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"metadata"`)
}
