package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// Error codes carried by APIError
const (
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeValidationFailed      = "VALIDATION_FAILED"
	CodeNotFound              = "NOT_FOUND"
	CodePayloadTooLarge       = "PAYLOAD_TOO_LARGE"
	CodeUnsupportedFile       = "UNSUPPORTED_FILE"
	CodeSpreadsheetUnreadable = "SPREADSHEET_UNREADABLE"
	CodeSpreadsheetSchema     = "SPREADSHEET_SCHEMA"
	CodeSpreadsheetValue      = "SPREADSHEET_VALUE"
	CodeRateLimitExceeded     = "RATE_LIMIT_EXCEEDED"
	CodeInternal              = "INTERNAL_SERVER_ERROR"
	CodeServiceUnavailable    = "SERVICE_UNAVAILABLE"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError is one rejected request field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined errors
var (
	ErrInvalidRequest     = New(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format")
	ErrNotFound           = New(http.StatusNotFound, CodeNotFound, "Resource not found")
	ErrRateLimitExceeded  = New(http.StatusTooManyRequests, CodeRateLimitExceeded, "Rate limit exceeded")
	ErrInternalServer     = New(http.StatusInternalServerError, CodeInternal, "Internal server error")
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, CodeServiceUnavailable, "Service temporarily unavailable")
)

// InvalidRequestWithError creates an invalid request error with details
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// ErrValidation creates a validation error for one field
func ErrValidation(field, message string) *APIError {
	return NewValidationErrors([]ValidationError{{Field: field, Message: message}})
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// NewValidationErrors creates validation errors from multiple fields
func NewValidationErrors(errors []ValidationError) *APIError {
	return NewWithDetails(
		http.StatusBadRequest,
		CodeValidationFailed,
		"Request validation failed",
		ValidationErrors{Errors: errors},
	)
}

// PayloadTooLarge rejects an upload above limit bytes
func PayloadTooLarge(limit int64) *APIError {
	return NewWithDetails(http.StatusRequestEntityTooLarge, CodePayloadTooLarge,
		fmt.Sprintf("upload exceeds the %d byte limit", limit),
		map[string]interface{}{"limit_bytes": limit})
}

// UnsupportedFile rejects an upload whose extension cannot be read
func UnsupportedFile(filename string, supported []string) *APIError {
	return NewWithDetails(http.StatusUnsupportedMediaType, CodeUnsupportedFile,
		fmt.Sprintf("%s is not a supported spreadsheet", filename),
		map[string]interface{}{"filename": filename, "supported": supported})
}

// SpreadsheetUnreadable reports a file that could not be parsed as a table
func SpreadsheetUnreadable(message string) *APIError {
	return New(http.StatusBadRequest, CodeSpreadsheetUnreadable, message)
}

// SpreadsheetSchema reports missing or ambiguous required columns
func SpreadsheetSchema(message string, missing, duplicates []string) *APIError {
	details := map[string]interface{}{}
	if len(missing) > 0 {
		details["missing_columns"] = missing
	}
	if len(duplicates) > 0 {
		details["duplicate_columns"] = duplicates
	}
	return NewWithDetails(http.StatusUnprocessableEntity, CodeSpreadsheetSchema, message, details)
}

// SpreadsheetValue reports a cell that could not be coerced
func SpreadsheetValue(message, column string, row int, value string) *APIError {
	return NewWithDetails(http.StatusUnprocessableEntity, CodeSpreadsheetValue, message,
		map[string]interface{}{"column": column, "row": row, "value": value})
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(err *APIError) *ErrorResponse {
	return &ErrorResponse{
		Success: false,
		Error:   err,
	}
}

// Render implements the render.Renderer interface
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return e.Error.Render(w, r)
}

// WriteError writes an error response without a chi render context
func WriteError(w http.ResponseWriter, err *APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	_ = json.NewEncoder(w).Encode(NewErrorResponse(err))
}
