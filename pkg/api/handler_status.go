package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/flightops/skymarshal/pkg/store"
)

// statusHandler handles GET /status/:request_id.
func (s *Server) statusHandler(c *echo.Context) error {
	requestID := c.Param("request_id")
	if requestID == "" {
		return badRequest("request_id is required")
	}

	record, err := s.store.GetRequest(c.Request().Context(), requestID)
	if err != nil {
		if store.IsNotFound(err) {
			return notFoundError("no request found for the given id")
		}
		return internalError("failed to load request status")
	}

	resp := &StatusResponse{
		RequestID:       record.RequestID,
		Status:          record.Status,
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
		SessionID:       record.SessionID,
		Assessment:      record.Assessment,
		ExecutionTimeMS: record.ExecutionTimeMS,
		Error:           record.Error,
		ErrorCode:       record.ErrorCode,
	}
	return c.JSON(http.StatusOK, resp)
}
