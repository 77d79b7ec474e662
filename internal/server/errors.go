package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ali-gai/MCQs-Generator/internal/mcq"
	"github.com/ali-gai/MCQs-Generator/internal/pdftext"
	"github.com/ali-gai/MCQs-Generator/internal/service"
	"github.com/ali-gai/MCQs-Generator/internal/store"
)

// APIError is the JSON body of every failed API request.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewBadRequestError creates a 400 error.
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewValidationError creates a 400 error for a missing or malformed field.
func NewValidationError(field string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("validation failed for field: %s", field),
	}
}

// NewNotFoundError creates a 404 error.
func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NewInternalError creates a 500 error.
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// pipelineError maps a service error onto the API error it is reported
// as. Messages are the ones the HTML pages show.
func pipelineError(err error, resource, id string) *APIError {
	var apiErr *APIError
	msg := service.UserMessage(err)
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, pdftext.ErrNotPDF):
		return &APIError{Status: http.StatusUnsupportedMediaType, Code: "NOT_PDF", Message: msg}
	case errors.Is(err, pdftext.ErrTooShort):
		return &APIError{Status: http.StatusUnprocessableEntity, Code: "TEXT_TOO_SHORT", Message: msg, Details: err.Error()}
	case errors.Is(err, pdftext.ErrTooLong):
		return &APIError{Status: http.StatusUnprocessableEntity, Code: "TEXT_TOO_LONG", Message: msg, Details: err.Error()}
	case errors.Is(err, pdftext.ErrUnreadable):
		return &APIError{Status: http.StatusUnprocessableEntity, Code: "UNREADABLE_PDF", Message: msg, Details: err.Error()}
	case errors.Is(err, mcq.ErrInvalidCount):
		return &APIError{Status: http.StatusBadRequest, Code: "INVALID_COUNT", Message: msg, Details: err.Error()}
	case errors.Is(err, store.ErrNotFound):
		return NewNotFoundError(resource, id)
	case errors.Is(err, mcq.ErrGenerationFailed):
		return &APIError{Status: http.StatusBadGateway, Code: "GENERATION_FAILED", Message: msg, Details: err.Error()}
	}
	return NewInternalError("An unexpected error occurred", err)
}

// ErrorHandler renders errors as APIError JSON under /api and as plain
// text elsewhere.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &httpErr):
		apiErr = &APIError{
			Status:  httpErr.Code,
			Code:    "HTTP_ERROR",
			Message: fmt.Sprintf("%v", httpErr.Message),
		}
	default:
		apiErr = &APIError{
			Status:  http.StatusInternalServerError,
			Code:    "UNKNOWN_ERROR",
			Message: "An unexpected error occurred",
			Details: err.Error(),
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(apiErr.Status)
		return
	}
	if isAPI(c) {
		_ = c.JSON(apiErr.Status, apiErr)
		return
	}
	_ = c.String(apiErr.Status, apiErr.Message)
}
