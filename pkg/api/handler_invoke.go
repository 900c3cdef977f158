package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	echo "github.com/labstack/echo/v5"

	"github.com/flightops/skymarshal/pkg/config"
	"github.com/flightops/skymarshal/pkg/model"
	"github.com/flightops/skymarshal/pkg/queue"
)

// defaultRequestTTL bounds how long a request record is considered live
// for polling purposes when no explicit TTL is configured.
const defaultRequestTTL = time.Hour

var bodyValidator = validator.New()

// invokeHandler handles POST /invoke: it persists a request record,
// dispatches the orchestration as a background job, and returns
// immediately (decouples client-facing latency from the
// orchestration's own up-to-ten-minute wall-clock budget).
func (s *Server) invokeHandler(c *echo.Context) error {
	var req InvokeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed request body")
	}
	if err := bodyValidator.Struct(&req); err != nil {
		return badRequest("prompt is required")
	}

	requestID := uuid.NewString()
	now := time.Now().UTC()

	record := &model.RequestRecord{
		RequestID: requestID,
		Status:    config.RequestStatusProcessing,
		Prompt:    req.Prompt,
		SessionID: req.SessionID,
		CreatedAt: now,
		UpdatedAt: now,
		TTL:       now.Add(s.requestTTL),
	}
	if err := s.store.CreateRequest(c.Request().Context(), record); err != nil {
		return internalError("failed to persist request")
	}

	job := queue.Job{
		RequestID: requestID,
		Prompt:    req.Prompt,
		SessionID: req.SessionID,
		CreatedAt: now,
	}
	if err := s.pool.Submit(job); err != nil {
		_ = s.store.ErrorRequest(c.Request().Context(), requestID, config.ErrorCodeProcessingError, "dispatch queue at capacity")
		return httpError(http.StatusServiceUnavailable, config.ErrorCodeProcessingError, "dispatch queue at capacity, retry shortly")
	}

	return c.JSON(http.StatusAccepted, &InvokeResponse{
		Status:    "accepted",
		RequestID: requestID,
		PollURL:   "/status/" + requestID,
	})
}
