// internal/workers/matching/find-caregiver-matches/handler.go
package findcaregivermatches

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"caregiver-matcher/internal/common/camunda"
	"caregiver-matcher/internal/common/config"
	"caregiver-matcher/internal/common/errors"
	"caregiver-matcher/internal/common/logger"
	"caregiver-matcher/internal/common/metrics"
	"caregiver-matcher/internal/common/observability"
	"caregiver-matcher/internal/common/validation"
	"caregiver-matcher/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "find-caregiver-matches"

// Matcher runs a matching request.
type Matcher interface {
	FindMatches(ctx context.Context, req models.MatchingRequest) (*models.MatchingResponse, error)
}

type Handler struct {
	config       *Config
	matcher      Matcher
	schema       *validation.Validator
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
	obs          *observability.Observability
	now          func() time.Time
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Matcher       Matcher
	Logger        logger.Logger
	Observability *observability.Observability
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Matcher == nil {
		return nil, fmt.Errorf("%s requires a matcher", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	schema, err := validation.Load(validation.SchemaMatchingRequest)
	if err != nil {
		return nil, err
	}

	return &Handler{
		config:       workerConfig,
		matcher:      opts.Matcher,
		schema:       schema,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
		obs:          opts.Observability,
		now:          time.Now,
	}, nil
}

// Config exposes the resolved worker settings for registration.
func (h *Handler) Config() *Config {
	return h.config
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing caregiver matching job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.obs.RecordJobProcessed(ctx, "completed")
	h.obs.RecordJobDuration(ctx, time.Since(startTime), "completed")
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("job variables: %v", err))
	}
	if id, _ := variables["requestId"].(string); id == "" {
		variables["requestId"] = fmt.Sprintf("job-%d", job.GetKey())
	}

	result, err := h.schema.Validate(variables)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if !result.Valid {
		return nil, errors.NewValidationError(result.Error())
	}

	data, err := json.Marshal(variables)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	var input Input
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("matching request: %v", err))
	}
	if input.RequestedBy == "" {
		input.RequestedBy = fmt.Sprintf("process-%d", job.GetProcessInstanceKey())
	}
	return &input, nil
}

// Execute runs the request and shapes the process variables.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	resp, err := h.matcher.FindMatches(ctx, *input)
	if err != nil {
		return nil, err
	}

	// The response may have waited in the broker; never hand out lapsed offers.
	if expired := models.ExpireLapsed(resp.Matches, h.now()); expired > 0 {
		h.logger.Warn("Expired matches before completing job", map[string]interface{}{
			"requestId": resp.RequestID,
			"expired":   expired,
		})
	}

	out := &Output{MatchingResponse: resp, MatchCount: len(resp.Matches)}
	if len(resp.Matches) > 0 {
		out.TopMatchID = resp.Matches[0].MatchID
		out.TopCaregiverID = resp.Matches[0].CaregiverID
	}
	return out, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	err := camunda.Execute(ctx, h.config.Retry, "complete job", func(ctx context.Context) error {
		request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
		if err != nil {
			return err
		}
		_, err = request.Send(ctx)
		return err
	})
	if err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	h.logger.Info("Caregiver matching job completed", map[string]interface{}{
		"jobKey":     job.GetKey(),
		"matchCount": output.MatchCount,
	})
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.CodeOf(err))).Inc()
	h.obs.RecordJobProcessed(ctx, "failed")
	h.errorHandler.HandleJobError(ctx, client, job, err)
}
