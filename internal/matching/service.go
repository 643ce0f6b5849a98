package matching

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	apperrors "caregiver-matcher/internal/common/errors"
	"caregiver-matcher/internal/common/logger"
	"caregiver-matcher/internal/common/metrics"
	"caregiver-matcher/internal/common/observability"
	"caregiver-matcher/internal/common/retry"
	"caregiver-matcher/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// CandidateRepository returns caregivers that may serve the given requirements.
// Implementations may pre-filter coarsely; scoring decides the final order.
type CandidateRepository interface {
	GetCandidates(ctx context.Context, req models.ClientRequirements) ([]models.CaregiverProfile, error)
}

type AuditLogger interface {
	LogEvent(ctx context.Context, event models.AuditEvent) error
}

type FeedbackSink interface {
	Publish(ctx context.Context, feedback models.MatchFeedback) error
}

// AlgorithmResolver maps a request's algorithmId to a config snapshot. An empty
// id selects the default.
type AlgorithmResolver interface {
	Resolve(algorithmID string) (AlgorithmConfig, error)
}

// Stage names a step of a matching run.
type Stage string

const (
	StageReceived            Stage = "received"
	StageCandidatesRetrieved Stage = "candidates-retrieved"
	StageScored              Stage = "scored"
	StageFilteredRanked      Stage = "filtered-ranked"
	StageExplained           Stage = "explained"
	StageResponded           Stage = "responded"
	StageFailed              Stage = "failed"
)

// Search outcome reasons reported in response metadata.
const (
	ReasonNoneAvailable   = "No caregivers available in the specified location and time frame"
	ReasonLimited         = "Limited availability due to specific requirements"
	ReasonGoodSelection   = "Good selection of qualified caregivers found"
	ReasonExpandRadius    = "Consider expanding search radius for more options"
	limitedMatchThreshold = 3
	smallPoolThreshold    = 5
)

type Config struct {
	Concurrency       int
	RequestTimeout    time.Duration
	RepositoryTimeout time.Duration
	Retry             retry.Config
	// CandidateSource labels repository errors and log lines.
	CandidateSource string
}

func DefaultConfig() Config {
	return Config{
		Concurrency:       DefaultConcurrency,
		RequestTimeout:    30 * time.Second,
		RepositoryTimeout: 5 * time.Second,
		Retry:             retry.DefaultConfig,
		CandidateSource:   "memory",
	}
}

type Dependencies struct {
	Repository    CandidateRepository
	Audit         AuditLogger
	Feedback      FeedbackSink
	Algorithms    AlgorithmResolver
	Observability *observability.Observability
}

// Service runs the matching pipeline. It is safe for concurrent use; no request
// state outlives a call.
type Service struct {
	config     Config
	repo       CandidateRepository
	audit      AuditLogger
	feedback   FeedbackSink
	algorithms AlgorithmResolver
	obs        *observability.Observability
	engine     *Engine
	validate   *validator.Validate
	logger     logger.Logger
	now        func() time.Time
}

func NewService(config Config, deps Dependencies, log logger.Logger) *Service {
	if deps.Algorithms == nil {
		deps.Algorithms = defaultOnly{}
	}
	return &Service{
		config:     config,
		repo:       deps.Repository,
		audit:      deps.Audit,
		feedback:   deps.Feedback,
		algorithms: deps.Algorithms,
		obs:        deps.Observability,
		engine:     NewEngine(config.Concurrency),
		validate:   validator.New(),
		logger:     log.WithFields(map[string]interface{}{"component": "matching"}),
		now:        time.Now,
	}
}

// FindMatches runs one request through retrieval, scoring, ranking and
// explanation. It returns either a complete response or an error; never both.
// Errors other than validation failures are opaque: their message is always
// UnavailableMessage and the cause is only logged.
func (s *Service) FindMatches(ctx context.Context, req models.MatchingRequest) (*models.MatchingResponse, error) {
	start := s.now()
	log := s.logger.WithFields(map[string]interface{}{"requestId": req.RequestID})

	ctx, span := observability.StartSpan(ctx, "matching.FindMatches")
	defer span.End()
	span.SetAttributes(attribute.String("matching.request_id", req.RequestID))

	if s.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.RequestTimeout)
		defer cancel()
	}

	log.Debug("Matching stage", map[string]interface{}{"stage": StageReceived})

	resp, stage, err := s.run(ctx, req, start, log)
	if err == nil {
		s.observe(ctx, start, "success", resp.TotalCandidatesEvaluated)
		return resp, nil
	}

	code := apperrors.CodeOf(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, string(code))

	log.Error("Matching request failed", map[string]interface{}{
		"stage":       stage,
		"errorCode":   code,
		"error":       err.Error(),
		"sensitivity": models.SensitivityHigh,
	})
	s.logAudit(ctx, models.AuditEvent{
		EventType:    models.EventMatchingError,
		ResourceType: models.ResourceMatchingError,
		ResourceID:   req.RequestID,
		Details:      fmt.Sprintf("AI matching failed at stage %s with code %s", stage, code),
		Sensitivity:  models.SensitivityHigh,
	})

	outErr := s.callerError(ctx, req.RequestID, err)
	s.observe(ctx, start, string(apperrors.CodeOf(outErr)), 0)
	return nil, outErr
}

func (s *Service) run(
	ctx context.Context,
	req models.MatchingRequest,
	start time.Time,
	log logger.Logger,
) (*models.MatchingResponse, Stage, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, StageReceived, apperrors.NewValidationError(err.Error())
	}

	algo, err := s.algorithms.Resolve(req.AlgorithmID)
	if err != nil {
		return nil, StageReceived, apperrors.NewValidationError(err.Error())
	}

	s.logAudit(ctx, models.AuditEvent{
		EventType:    models.EventMatchingRequest,
		ResourceType: models.ResourceMatchingRequest,
		ResourceID:   req.RequestID,
		Details:      fmt.Sprintf("AI matching requested for client %s", req.ClientRequirements.ClientID),
		Sensitivity:  models.SensitivityMedium,
	})

	candidates, err := s.retrieve(ctx, req.ClientRequirements)
	if err != nil {
		return nil, StageReceived, err
	}
	log.Debug("Matching stage", map[string]interface{}{
		"stage":      StageCandidatesRetrieved,
		"candidates": len(candidates),
	})

	scoreCtx, span := observability.StartSpan(ctx, "matching.Score")
	scored, err := s.engine.Score(scoreCtx, req.RequestID, req.ClientRequirements, candidates, algo)
	span.End()
	if err != nil {
		return nil, StageCandidatesRetrieved, err
	}
	log.Debug("Matching stage", map[string]interface{}{"stage": StageScored})

	ranked := FilterAndRank(scored, req.MaxResults)
	log.Debug("Matching stage", map[string]interface{}{
		"stage":   StageFilteredRanked,
		"matches": len(ranked),
	})

	for i := range ranked {
		ranked[i].Explanation = Explain(ranked[i].Breakdown)
	}
	log.Debug("Matching stage", map[string]interface{}{"stage": StageExplained})

	if err := ctx.Err(); err != nil {
		return nil, StageExplained, err
	}

	processedAt := s.now()
	resp := &models.MatchingResponse{
		RequestID:                req.RequestID,
		Matches:                  ranked,
		ProcessedAt:              processedAt.UTC(),
		ProcessingTimeMs:         processedAt.Sub(start).Milliseconds(),
		AlgorithmUsed:            algo.Name,
		TotalCandidatesEvaluated: len(candidates),
		Metadata: models.ResponseMetadata{
			SearchRadius:        req.ClientRequirements.Location.Radius,
			AvailableCaregivers: len(candidates),
			QualifiedCaregivers: len(scored),
			Reasons:             SearchReasons(len(candidates), len(ranked)),
		},
	}

	s.logAudit(ctx, models.AuditEvent{
		EventType:    models.EventMatchingCompleted,
		ResourceType: models.ResourceMatchingResponse,
		ResourceID:   req.RequestID,
		Details:      fmt.Sprintf("AI matching completed with %d results in %dms", len(ranked), resp.ProcessingTimeMs),
		Sensitivity:  models.SensitivityLow,
	})

	log.Info("Matching request completed", map[string]interface{}{
		"stage":            StageResponded,
		"candidates":       len(candidates),
		"matches":          len(ranked),
		"processingTimeMs": resp.ProcessingTimeMs,
		"algorithm":        algo.AlgorithmID,
	})
	return resp, StageResponded, nil
}

// retrieve calls the repository once per attempt, each attempt under its own
// timeout, retrying transient failures with backoff.
func (s *Service) retrieve(ctx context.Context, req models.ClientRequirements) ([]models.CaregiverProfile, error) {
	ctx, span := observability.StartSpan(ctx, "matching.GetCandidates")
	defer span.End()

	var candidates []models.CaregiverProfile
	attempt := 0
	err := retry.Do(ctx, s.config.Retry, apperrors.IsTransient, func(ctx context.Context) error {
		attempt++
		attemptCtx := ctx
		if s.config.RepositoryTimeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, s.config.RepositoryTimeout)
			defer cancel()
		}

		found, err := s.repo.GetCandidates(attemptCtx, req)
		if err != nil {
			s.logger.Warn("Candidate lookup failed", map[string]interface{}{
				"source":  s.config.CandidateSource,
				"attempt": attempt,
				"error":   err.Error(),
			})
			return err
		}
		candidates = found
		return nil
	})
	if err != nil {
		if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewTimeoutError("candidate retrieval", ctx.Err())
		}
		return nil, apperrors.NewRepositoryUnavailableError(s.config.CandidateSource, err)
	}

	span.SetAttributes(attribute.Int("matching.candidates", len(candidates)))
	return candidates, nil
}

// callerError maps an internal failure to what the caller is allowed to see.
func (s *Service) callerError(ctx context.Context, requestID string, err error) error {
	if stderrors.Is(err, apperrors.ErrValidation) {
		return err
	}
	if stderrors.Is(err, apperrors.ErrTimeout) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.NewMatchingTimeoutError(requestID)
	}
	return apperrors.NewMatchingUnavailableError(requestID)
}

func (s *Service) observe(ctx context.Context, start time.Time, outcome string, candidates int) {
	elapsed := s.now().Sub(start)
	metrics.MatchingRequests.WithLabelValues(outcome).Inc()
	metrics.MatchingRequestDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	if outcome == "success" {
		metrics.MatchingCandidatesEvaluated.Observe(float64(candidates))
	}
	s.obs.RecordMatchingRun(ctx, elapsed, outcome)
}

// logAudit never fails the caller: audit errors are logged and dropped.
func (s *Service) logAudit(ctx context.Context, event models.AuditEvent) {
	if s.audit == nil {
		return
	}
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	event.UserEmail = models.SystemActor
	event.ComplianceLogged = true
	event.Timestamp = s.now().UTC()

	// The audit write must not be cut short by an expiring request deadline.
	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.audit.LogEvent(auditCtx, event); err != nil {
		s.logger.Warn("Audit logging failed", map[string]interface{}{
			"eventType":  event.EventType,
			"resourceId": event.ResourceID,
			"error":      err.Error(),
		})
	}
}

// RecordFeedback validates and audits client feedback, then forwards it to the
// feedback sink. Sink failures surface as the opaque unavailable error.
func (s *Service) RecordFeedback(ctx context.Context, feedback models.MatchFeedback) error {
	ctx, span := observability.StartSpan(ctx, "matching.RecordFeedback")
	defer span.End()

	if err := s.validate.Struct(feedback); err != nil {
		return apperrors.NewFeedbackRejectedError(err.Error())
	}
	if feedback.FeedbackID == "" {
		feedback.FeedbackID = uuid.NewString()
	}
	if feedback.SubmittedAt.IsZero() {
		feedback.SubmittedAt = s.now().UTC()
	}

	s.logAudit(ctx, models.AuditEvent{
		EventType:    models.EventMatchFeedback,
		ResourceType: models.ResourceMatchFeedback,
		ResourceID:   feedback.MatchID,
		Details:      fmt.Sprintf("Match feedback recorded with rating %d", feedback.Rating),
		Sensitivity:  models.SensitivityLow,
	})

	if s.feedback == nil {
		return nil
	}
	if err := s.feedback.Publish(ctx, feedback); err != nil {
		span.RecordError(err)
		s.logger.Error("Unable to record match feedback", map[string]interface{}{
			"matchId":     feedback.MatchID,
			"feedbackId":  feedback.FeedbackID,
			"error":       err.Error(),
			"sensitivity": models.SensitivityHigh,
		})
		return apperrors.NewMatchingUnavailableError(feedback.MatchID)
	}

	s.logger.Info("Match feedback recorded", map[string]interface{}{
		"matchId":    feedback.MatchID,
		"feedbackId": feedback.FeedbackID,
		"rating":     feedback.Rating,
	})
	return nil
}

// SearchReasons summarizes a search outcome from the candidate pool size and
// the number of matches returned.
func SearchReasons(candidates, matches int) []string {
	reasons := make([]string, 0, 2)
	switch {
	case matches == 0:
		reasons = append(reasons, ReasonNoneAvailable)
	case matches < limitedMatchThreshold:
		reasons = append(reasons, ReasonLimited)
	default:
		reasons = append(reasons, ReasonGoodSelection)
	}
	if candidates < smallPoolThreshold {
		reasons = append(reasons, ReasonExpandRadius)
	}
	return reasons
}

type defaultOnly struct{}

func (defaultOnly) Resolve(algorithmID string) (AlgorithmConfig, error) {
	if algorithmID == "" || algorithmID == DefaultAlgorithmID {
		return DefaultAlgorithm(), nil
	}
	return AlgorithmConfig{}, apperrors.NewAlgorithmNotFoundError(algorithmID)
}
