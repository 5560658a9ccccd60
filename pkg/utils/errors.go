package utils

import (
	"errors"
	"fmt"
)

const (
	CodeListFetch   = 1001
	CodeConfigFetch = 1002
	CodeOverall     = 1003
	CodeRouters     = 1004
	CodeRecentLogs  = 1005
	CodeTransition  = 2001
	CodeLogFetch    = 3001
	CodeValidation  = 4001
	CodeSystem      = 5001
)

type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Err     error  `json:"-"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func NewListFetchError(err error) *APIError {
	return &APIError{
		Code:    CodeListFetch,
		Message: "failed to fetch node list",
		Details: err.Error(),
		Err:     err,
	}
}

func NewConfigFetchError(node string, err error) *APIError {
	return &APIError{
		Code:    CodeConfigFetch,
		Message: fmt.Sprintf("failed to fetch config for %s", node),
		Details: err.Error(),
		Err:     err,
	}
}

func NewOverallStateError(err error) *APIError {
	return &APIError{
		Code:    CodeOverall,
		Message: "failed to fetch overall state",
		Details: err.Error(),
		Err:     err,
	}
}

func NewRouterListError(err error) *APIError {
	return &APIError{
		Code:    CodeRouters,
		Message: "failed to fetch data routers",
		Details: err.Error(),
		Err:     err,
	}
}

func NewRecentLogsError(err error) *APIError {
	return &APIError{
		Code:    CodeRecentLogs,
		Message: "failed to fetch recent log entries",
		Details: err.Error(),
		Err:     err,
	}
}

func NewTransitionError(node, action string, err error) *APIError {
	return &APIError{
		Code:    CodeTransition,
		Message: fmt.Sprintf("%s on %s failed", action, node),
		Details: err.Error(),
		Err:     err,
	}
}

func NewLogFetchError(node string, err error) *APIError {
	return &APIError{
		Code:    CodeLogFetch,
		Message: fmt.Sprintf("failed to fetch log file for %s", node),
		Details: err.Error(),
		Err:     err,
	}
}

func NewValidationError(field string, value interface{}) *APIError {
	return &APIError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("invalid %s", field),
		Details: fmt.Sprintf("invalid value: %v", value),
	}
}

func NewSystemError(err error) *APIError {
	return &APIError{
		Code:    CodeSystem,
		Message: "internal error",
		Details: err.Error(),
		Err:     err,
	}
}

// AsAPIError unwraps err to an *APIError, wrapping unknown errors as
// system errors.
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewSystemError(err)
}
