// Package errors defines the structured error taxonomy for the AI request
// pipeline. Every error produced by the pipeline is terminal for the current
// call; none are retried internally.
package errors

import (
	"fmt"
)

// Code identifies a specific pipeline failure class.
type Code string

const (
	// CodeSecurityCheckFailed indicates the device security probe vetoed the request.
	CodeSecurityCheckFailed Code = "SECURITY_CHECK_FAILED"
	// CodeClientRateLimited indicates a client-side sliding-window limit was hit.
	CodeClientRateLimited Code = "CLIENT_RATE_LIMITED"
	// CodeNetworkError indicates a transport failure or timeout.
	CodeNetworkError Code = "NETWORK_ERROR"
	// CodeUpstreamRateLimited indicates the remote API answered HTTP 429.
	CodeUpstreamRateLimited Code = "UPSTREAM_RATE_LIMITED"
	// CodeAPIError indicates a non-2xx upstream response other than 429.
	CodeAPIError Code = "API_ERROR"
	// CodeInvalidResponse indicates a decode failure or missing text segment.
	CodeInvalidResponse Code = "INVALID_RESPONSE"
	// CodeFeatureDisabled indicates the consent or feature toggle is off.
	CodeFeatureDisabled Code = "FEATURE_DISABLED"
	// CodeUsageLimitReached indicates the product-level daily message quota is spent.
	CodeUsageLimitReached Code = "USAGE_LIMIT_REACHED"
)

// PipelineError is the structured error carried through the request pipeline.
type PipelineError struct {
	Code       Code
	Message    string // internal detail, never shown to the end user
	StatusCode int    // upstream HTTP status, 0 when not applicable
	Cause      error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// UserMessage maps the error to a short message safe to show to the end user.
// Raw transport and decoding detail is never exposed.
func (e *PipelineError) UserMessage() string {
	switch e.Code {
	case CodeSecurityCheckFailed:
		return "This device failed a security check, so AI features are unavailable."
	case CodeClientRateLimited:
		// Rate-limit reasons are written for the user and carry a wait hint.
		return e.Message
	case CodeUpstreamRateLimited:
		return "The assistant is busy right now. Please wait a moment and try again."
	case CodeNetworkError:
		return "Could not reach the assistant. Check your connection and try again."
	case CodeFeatureDisabled:
		return "This AI feature is turned off in your settings."
	case CodeUsageLimitReached:
		return "You have used all of today's free messages."
	default:
		return "Something went wrong while talking to the assistant. Please try again."
	}
}

// Constructors for each failure class.

// SecurityCheckFailed creates a security veto error.
func SecurityCheckFailed(msg string) *PipelineError {
	return &PipelineError{Code: CodeSecurityCheckFailed, Message: msg}
}

// ClientRateLimited creates a client-side rate limit error.
// reason is user-facing and names the violated window with a wait hint.
func ClientRateLimited(reason string) *PipelineError {
	return &PipelineError{Code: CodeClientRateLimited, Message: reason}
}

// NetworkError wraps a transport failure.
func NetworkError(detail string, cause error) *PipelineError {
	return &PipelineError{Code: CodeNetworkError, Message: detail, Cause: cause}
}

// UpstreamRateLimited creates an HTTP 429 error.
func UpstreamRateLimited() *PipelineError {
	return &PipelineError{Code: CodeUpstreamRateLimited, Message: "upstream rate limited", StatusCode: 429}
}

// APIError creates a non-2xx upstream error.
func APIError(statusCode int, msg string) *PipelineError {
	return &PipelineError{Code: CodeAPIError, Message: msg, StatusCode: statusCode}
}

// InvalidResponse creates a decode/extraction failure error.
func InvalidResponse(msg string) *PipelineError {
	return &PipelineError{Code: CodeInvalidResponse, Message: msg}
}

// FeatureDisabled creates a consent/toggle-off error.
func FeatureDisabled(feature string) *PipelineError {
	return &PipelineError{Code: CodeFeatureDisabled, Message: fmt.Sprintf("feature disabled: %s", feature)}
}

// UsageLimitReached creates a product-level quota error.
func UsageLimitReached(msg string) *PipelineError {
	return &PipelineError{Code: CodeUsageLimitReached, Message: msg}
}

// IsCode checks whether err is a PipelineError with the given code.
func IsCode(err error, code Code) bool {
	if pe, ok := err.(*PipelineError); ok {
		return pe.Code == code
	}
	return false
}

// GetCode extracts the code from any error, falling back to defaultCode.
func GetCode(err error, defaultCode Code) Code {
	if pe, ok := err.(*PipelineError); ok {
		return pe.Code
	}
	return defaultCode
}
