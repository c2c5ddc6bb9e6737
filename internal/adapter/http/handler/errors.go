package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ressKim-io/shopper-predict/api-service/internal/usecase"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	StatusCode int
	Code       string
	Message    string
}

// MapUsecaseError maps usecase errors to HTTP error responses.
// Known errors keep their wrapped detail so callers see feature counts,
// remote error codes and the original failure text.
func MapUsecaseError(err error) ErrorResponse {
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       "INVALID_REQUEST",
			Message:    err.Error(),
		}
	case errors.Is(err, usecase.ErrEndpointError):
		return ErrorResponse{
			StatusCode: http.StatusServiceUnavailable,
			Code:       "ENDPOINT_ERROR",
			Message:    err.Error(),
		}
	case errors.Is(err, usecase.ErrEndpointUnavailable):
		return ErrorResponse{
			StatusCode: http.StatusServiceUnavailable,
			Code:       "ENDPOINT_UNAVAILABLE",
			Message:    err.Error(),
		}
	case errors.Is(err, usecase.ErrUnexpected):
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       "INTERNAL_ERROR",
			Message:    err.Error(),
		}
	case errors.Is(err, usecase.ErrInvalidResponse):
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       "INVALID_RESPONSE",
			Message:    err.Error(),
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       "INTERNAL_ERROR",
			Message:    "internal server error",
		}
	}
}

// HandleUsecaseError handles a usecase error by sending an appropriate HTTP response.
func HandleUsecaseError(c *gin.Context, err error) {
	errResp := MapUsecaseError(err)
	_ = c.Error(err)
	respondError(c, errResp.StatusCode, errResp.Code, errResp.Message)
}

// HandleInvalidRequest handles a generic invalid request error.
func HandleInvalidRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, "INVALID_REQUEST", message)
}
