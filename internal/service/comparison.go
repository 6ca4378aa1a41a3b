package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/holmanholdings/awakened-wisdom-demo/internal/domain"
	"github.com/holmanholdings/awakened-wisdom-demo/internal/prompt"
)

var ErrQuestionEmpty = errors.New("question is required")

// DefaultTopK is the number of wisdom nodes injected into the augmented prompt.
const DefaultTopK = 3

// ComparisonService runs one question through both pipeline arms, a bare
// baseline prompt and a context-augmented prompt, against the same backend.
// Either both generations succeed or the whole comparison fails; callers
// never see a half-filled result.
type ComparisonService struct {
	retriever domain.Retriever
	generator domain.Generator
	topK      int
	logger    *zap.Logger
}

func NewComparisonService(retriever domain.Retriever, generator domain.Generator, topK int, logger *zap.Logger) *ComparisonService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &ComparisonService{
		retriever: retriever,
		generator: generator,
		topK:      topK,
		logger:    logger,
	}
}

// Run validates the question, retrieves context, and issues both generation
// calls concurrently. The first failing side cancels the other and becomes
// the comparison's single error, prefixed with which side failed.
func (s *ComparisonService) Run(ctx context.Context, question string) (*domain.ComparisonResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrQuestionEmpty
	}

	retrieved := s.retriever.Retrieve(question, s.topK)
	s.logger.Debug("retrieved context nodes",
		zap.String("question", question),
		zap.Int("count", len(retrieved)))

	baselinePrompt := prompt.Baseline(question)
	augmentedPrompt := prompt.Augmented(question, retrieved)

	var baseline, augmented *domain.GenerationResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result, err := s.generator.Generate(gctx, baselinePrompt)
		if err != nil {
			return fmt.Errorf("baseline generation: %w", err)
		}
		baseline = result
		return nil
	})
	g.Go(func() error {
		result, err := s.generator.Generate(gctx, augmentedPrompt)
		if err != nil {
			return fmt.Errorf("augmented generation: %w", err)
		}
		augmented = result
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("comparison complete",
		zap.String("question", question),
		zap.Int("nodes_used", len(retrieved)),
		zap.Float64("baseline_s", baseline.TimeS),
		zap.Float64("augmented_s", augmented.TimeS))

	return &domain.ComparisonResult{
		Question:       question,
		Baseline:       *baseline,
		Augmented:      *augmented,
		Retrieved:      retrieved,
		ContextBullets: prompt.ContextBullets(retrieved),
	}, nil
}
