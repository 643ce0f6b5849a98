// internal/workers/matching/record-match-feedback/handler.go
package recordmatchfeedback

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

const TaskType = "record-match-feedback"

type FeedbackRecorder interface {
	RecordFeedback(ctx context.Context, feedback models.MatchFeedback) error
}

type Handler struct {
	config       *Config
	recorder     FeedbackRecorder
	schema       *validation.Validator
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
	obs          *observability.Observability
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Recorder      FeedbackRecorder
	Logger        logger.Logger
	Observability *observability.Observability
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Recorder == nil {
		return nil, fmt.Errorf("%s requires a feedback recorder", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:       workerConfig,
		recorder:     opts.Recorder,
		schema:       validation.MustLoad(validation.SchemaMatchFeedback),
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
		obs:          opts.Observability,
	}, nil
}

func (h *Handler) Config() *Config {
	return h.config
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

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

	err = camunda.Execute(ctx, h.config.Retry, "complete job", func(ctx context.Context) error {
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

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.obs.RecordJobProcessed(ctx, "completed")
	h.obs.RecordJobDuration(ctx, time.Since(startTime), "completed")
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	result, err := h.schema.ValidateJSON([]byte(job.GetVariables()))
	if err != nil {
		return nil, errors.NewFeedbackRejectedError(err.Error())
	}
	if !result.Valid {
		return nil, errors.NewFeedbackRejectedError(result.Error())
	}

	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		return nil, errors.NewFeedbackRejectedError(err.Error())
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := h.recorder.RecordFeedback(ctx, *input); err != nil {
		return nil, err
	}
	return &Output{FeedbackRecorded: true, MatchID: input.MatchID}, nil
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.CodeOf(err))).Inc()
	h.obs.RecordJobProcessed(ctx, "failed")
	h.errorHandler.HandleJobError(ctx, client, job, err)
}
