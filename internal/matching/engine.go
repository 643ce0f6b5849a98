package matching

import (
	"context"
	"fmt"
	"time"

	apperrors "caregiver-matcher/internal/common/errors"
	"caregiver-matcher/internal/models"

	"golang.org/x/sync/errgroup"
)

const (
	// MatchTTL is how long a pending match stays valid.
	MatchTTL = 24 * time.Hour
	// EstimateHours is the booking length behind EstimatedCost.TotalEstimate.
	EstimateHours = 40

	DefaultConcurrency = 8
)

// Engine scores candidates in parallel. It holds no per-request state and is safe
// for concurrent use.
type Engine struct {
	concurrency int
	now         func() time.Time
}

func NewEngine(concurrency int) *Engine {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Engine{concurrency: concurrency, now: time.Now}
}

// Score produces one MatchResult per candidate, in candidate order. Explanations
// are left empty. Any failure, including ctx expiring, discards every result.
func (e *Engine) Score(
	ctx context.Context,
	requestID string,
	req models.ClientRequirements,
	candidates []models.CaregiverProfile,
	algo AlgorithmConfig,
) ([]models.MatchResult, error) {
	results := make([]models.MatchResult, len(candidates))
	matchedAt := e.now().UTC()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i := range candidates {
		i := i
		if gctx.Err() != nil {
			break
		}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = apperrors.NewScoringError(candidates[i].CaregiverID, fmt.Sprintf("panic: %v", r))
				}
			}()

			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := scoreCandidate(requestID, req, candidates[i], algo, matchedAt)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// errgroup cancels gctx on Wait, so check the caller's context instead.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func scoreCandidate(
	requestID string,
	req models.ClientRequirements,
	cg models.CaregiverProfile,
	algo AlgorithmConfig,
	matchedAt time.Time,
) (models.MatchResult, error) {
	scores := ScoreDimensions(req, cg)
	if !scores.Finite() {
		return models.MatchResult{}, apperrors.NewScoringError(cg.CaregiverID, "non-finite dimension score")
	}

	return models.MatchResult{
		MatchID:      fmt.Sprintf("match_%s_%s", requestID, cg.CaregiverID),
		ClientID:     req.ClientID,
		CaregiverID:  cg.CaregiverID,
		OverallScore: OverallScore(scores, algo.Weights),
		Confidence:   Confidence(scores),
		MatchedAt:    matchedAt,
		ExpiresAt:    matchedAt.Add(MatchTTL),
		Breakdown:    scores.Breakdown(),
		EstimatedCost: models.EstimatedCost{
			HourlyRate:    cg.Pricing.BaseHourlyRate,
			TotalEstimate: cg.Pricing.BaseHourlyRate * EstimateHours,
		},
		Status: models.MatchStatusPending,
	}, nil
}
