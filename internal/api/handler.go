package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	apperrors "caregiver-matcher/internal/common/errors"
	"caregiver-matcher/internal/common/logger"
	"caregiver-matcher/internal/common/validation"
	"caregiver-matcher/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MatchingService is what the HTTP layer needs from the orchestrator.
type MatchingService interface {
	FindMatches(ctx context.Context, req models.MatchingRequest) (*models.MatchingResponse, error)
	RecordFeedback(ctx context.Context, feedback models.MatchFeedback) error
}

type Handler struct {
	service        MatchingService
	requestSchema  *validation.Validator
	feedbackSchema *validation.Validator
	logger         logger.Logger
	now            func() time.Time
}

func NewHandler(service MatchingService, log logger.Logger) *Handler {
	return &Handler{
		service:        service,
		requestSchema:  validation.MustLoad(validation.SchemaMatchingRequest),
		feedbackSchema: validation.MustLoad(validation.SchemaMatchFeedback),
		logger:         log,
		now:            time.Now,
	}
}

// FindMatches handles POST /api/v1/matches. A missing requestId is generated.
func (h *Handler) FindMatches(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid JSON body", err.Error())
		return
	}
	if id, _ := body["requestId"].(string); id == "" {
		body["requestId"] = uuid.NewString()
	}

	var req models.MatchingRequest
	if !h.decode(c, h.requestSchema, body, &req) {
		return
	}
	if req.RequestedAt.IsZero() {
		req.RequestedAt = h.now().UTC()
	}

	resp, err := h.service.FindMatches(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	if resp != nil {
		models.ExpireLapsed(resp.Matches, h.now())
	}
	c.JSON(http.StatusOK, resp)
}

// RecordFeedback handles POST /api/v1/matches/:matchId/feedback. The path
// parameter wins over any matchId in the body.
func (h *Handler) RecordFeedback(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid JSON body", err.Error())
		return
	}
	body["matchId"] = c.Param("matchId")

	var fb models.MatchFeedback
	if !h.decode(c, h.feedbackSchema, body, &fb) {
		return
	}

	if err := h.service.RecordFeedback(c.Request.Context(), fb); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "recorded", "matchId": fb.MatchID})
}

// decode validates body against schema and converts it into out. It writes
// the 400 response itself and reports false on failure.
func (h *Handler) decode(c *gin.Context, schema *validation.Validator, body map[string]interface{}, out interface{}) bool {
	result, err := schema.Validate(body)
	if err != nil {
		badRequest(c, "Invalid request body", err.Error())
		return false
	}
	if !result.Valid {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Request validation failed",
			"errors": result.Errors,
		})
		return false
	}

	data, err := json.Marshal(body)
	if err == nil {
		err = json.Unmarshal(data, out)
	}
	if err != nil {
		badRequest(c, "Invalid request body", err.Error())
		return false
	}
	return true
}

func badRequest(c *gin.Context, msg, details string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "details": details})
}

// writeError maps service errors to status codes. Only validation failures
// carry details; everything else gets the fixed unavailable message.
func writeError(c *gin.Context, err error) {
	var stdErr *apperrors.StandardError
	switch {
	case stderrors.Is(err, apperrors.ErrValidation), apperrors.CodeOf(err) == apperrors.ErrCodeFeedbackRejected:
		stderrors.As(err, &stdErr)
		c.JSON(http.StatusBadRequest, gin.H{"error": stdErr.Message, "details": stdErr.Details})
	case stderrors.Is(err, apperrors.ErrTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": apperrors.UnavailableMessage})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": apperrors.UnavailableMessage})
	}
}
