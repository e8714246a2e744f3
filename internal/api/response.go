package api

import "net/http"

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func NewAppError(code int, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

// APIResponse is the envelope every JSON endpoint returns.
type APIResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *AppError      `json:"error,omitempty"`
}

func Success(data any, meta map[string]any) APIResponse {
	return APIResponse{Data: data, Meta: meta}
}

func BadRequest(msg string) APIResponse {
	return APIResponse{Error: NewAppError(http.StatusBadRequest, msg)}
}

func NotFound(msg string) APIResponse {
	return APIResponse{Error: NewAppError(http.StatusNotFound, msg)}
}

func InternalError(msg string) APIResponse {
	return APIResponse{Error: NewAppError(http.StatusInternalServerError, msg)}
}

func Failure(status int, msg string) APIResponse {
	return APIResponse{Error: NewAppError(status, msg)}
}
