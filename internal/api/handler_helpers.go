package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"goaltracker/internal/analytics"
	"goaltracker/internal/engine"
	"goaltracker/internal/logging"
	"goaltracker/internal/storage"
)

func HandleError(c *gin.Context, logger logging.Logger, err error, status int, msg string) {
	requestID := c.GetString("request_id")
	if status >= http.StatusInternalServerError {
		logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
	} else {
		logger.Warnf("[request_id=%s] %s: %v", requestID, msg, err)
	}
	text := msg
	if err != nil {
		text += ": " + err.Error()
	}
	var resp APIResponse
	switch status {
	case http.StatusBadRequest:
		resp = BadRequest(text)
	case http.StatusNotFound:
		resp = NotFound(text)
	case http.StatusInternalServerError:
		resp = InternalError(text)
	default:
		resp = Failure(status, text)
	}
	c.AbortWithStatusJSON(status, resp)
}

func HandleSuccess(c *gin.Context, status int, data any, meta map[string]any) {
	c.JSON(status, Success(data, meta))
}

// statusFor maps core errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case engine.IsValidation(err),
		errors.Is(err, storage.ErrInvalidFormat),
		errors.Is(err, analytics.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error, msg string) {
	HandleError(c, s.logger, err, statusFor(err), msg)
}

func (s *Server) notFound(c *gin.Context, what string) {
	HandleError(c, s.logger, errors.New(what+" not found"), http.StatusNotFound, "lookup failed")
}
