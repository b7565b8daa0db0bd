package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dimitry-co/ai-study-buddy/internal/config"
	"github.com/dimitry-co/ai-study-buddy/internal/domain"
	"github.com/dimitry-co/ai-study-buddy/internal/platform/logger"
	"golang.org/x/sync/errgroup"
)

// Token budget coefficients: a linear function of the requested count, looser
// in batched mode where prompts cover more complex attachments. The product
// of count and per-item cost plus a flat overhead, capped at the model's hard
// per-response ceiling.
const (
	mcqTokensPerItem       = 200
	mcqTokenOverhead       = 500
	mcqBatchTokensPerItem  = 250
	mcqBatchTokenOverhead  = 1000
	cardTokensPerItem      = 100
	cardTokenOverhead      = 500
	cardBatchTokensPerItem = 120
	cardBatchTokenOverhead = 600
)

// Service orchestrates one generation: plan, prompt, invoke (single or
// parallel), validate, assemble. It holds no per-request state.
type Service struct {
	cfg     config.GenerationConfig
	oracle  Oracle
	timeout time.Duration
}

// NewService creates a generation Service. timeout bounds the whole oracle
// fan-out of one request; zero disables the bound.
func NewService(cfg config.GenerationConfig, oracle Oracle, timeout time.Duration) *Service {
	return &Service{cfg: cfg, oracle: oracle, timeout: timeout}
}

// Limits returns the request bounds the service enforces, for use by the
// input normalizer.
func (s *Service) Limits() domain.GenerationLimits {
	return domain.GenerationLimits{
		MinItems:  s.cfg.MinItems,
		MaxItems:  s.cfg.MaxItems,
		MaxImages: s.cfg.MaxImages,
	}
}

// Generate runs the pipeline for one normalized request. Batches execute
// concurrently with join-all semantics; a failure in any batch fails the
// whole generation and no partial results are returned.
func (s *Service) Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.StudySet, error) {
	log := logger.FromContext(ctx)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	plan := PlanExecution(req.ItemCount, s.cfg)
	log.Info("planned generation",
		"item_type", string(req.ItemType),
		"content_mode", string(req.Mode),
		"item_count", req.ItemCount,
		"batches", len(plan.Batches))

	completions := make([]*Completion, len(plan.Batches))

	g, groupCtx := errgroup.WithContext(ctx)
	for i, batch := range plan.Batches {
		g.Go(func() error {
			call := Call{
				Prompt:      BuildPrompt(req, batch.Size, batch.Focus),
				Temperature: s.temperature(plan),
				MaxTokens:   s.tokenBudget(req.ItemType, batch.Size, plan.Batched()),
			}
			completion, err := s.oracle.Complete(groupCtx, call)
			if err != nil {
				return fmt.Errorf("batch %d: %w", i+1, err)
			}
			completions[i] = completion
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		log.Warn("generation batch failed", "error", err)
		return nil, err
	}

	set, err := assembleStudySet(completions, plan, req.ItemType, req.ItemCount, s.cfg)
	if err != nil {
		log.Warn("generation output rejected", "error", err)
		return nil, err
	}
	set.Model = s.oracle.Model()

	log.Info("generation complete",
		"items", set.Len(),
		"tokens_used", set.TokensUsed,
		"model", set.Model)

	return set, nil
}

func (s *Service) temperature(plan ExecutionPlan) float32 {
	if plan.Batched() {
		return s.cfg.BatchTemperature
	}
	return s.cfg.SingleTemperature
}

func (s *Service) tokenBudget(itemType domain.ItemType, count int, batched bool) int {
	var budget int
	switch {
	case itemType == domain.ItemTypeMultipleChoice && batched:
		budget = count*mcqBatchTokensPerItem + mcqBatchTokenOverhead
	case itemType == domain.ItemTypeMultipleChoice:
		budget = count*mcqTokensPerItem + mcqTokenOverhead
	case batched:
		budget = count*cardBatchTokensPerItem + cardBatchTokenOverhead
	default:
		budget = count*cardTokensPerItem + cardTokenOverhead
	}

	if budget > s.cfg.MaxCompletionTokens {
		budget = s.cfg.MaxCompletionTokens
	}
	return budget
}
