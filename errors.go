package openblox

import (
	"errors"
	"fmt"
)

// Error type tags carried by APIError.
const (
	ErrorTypeThrottled           = "Throttled"
	ErrorTypeAuthorizationDenied = "AuthorizationDenied"
	ErrorTypeInvalidRequestData  = "InvalidRequestData"
	ErrorTypeMissingCSRFToken    = "MissingCSRFToken"
	ErrorTypeUnexpected          = "Unexpected"
	ErrorTypeRateLimit           = "RateLimit"
	ErrorTypeCircuitOpen         = "CircuitOpen"
	ErrorTypeValidation          = "Validation"
)

// Sentinel errors for common failure scenarios
var (
	// ErrThrottled is returned when the platform responds with HTTP 429.
	ErrThrottled = errors.New("openblox: throttled")

	// ErrAuthorizationDenied is returned when the platform responds with HTTP 401.
	ErrAuthorizationDenied = errors.New("openblox: authorization denied")

	// ErrMissingCSRFToken is returned when a mutating call exhausts its CSRF
	// retry budget without obtaining a usable token.
	ErrMissingCSRFToken = errors.New("openblox: missing csrf token")

	// ErrCircuitOpen is returned when the circuit breaker is in open state.
	ErrCircuitOpen = errors.New("openblox: circuit open")

	// ErrRateLimited is returned when the local rate limiter denies a request.
	ErrRateLimited = errors.New("openblox: rate limited")
)

// ErrorDetail is one structured error parsed from a platform response body.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// APIError is the error value produced by the request pipeline. Type tags the
// kind; StatusCode, Errors and Response carry the originating exchange when
// one exists. Construction never fails and no method performs I/O.
type APIError struct {
	Type       string
	Message    string
	StatusCode int
	Errors     []ErrorDetail
	Response   *Response
	Cause      error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches either another *APIError of the same Type or the corresponding
// sentinel error, so callers can use errors.Is without holding the concrete type.
func (e *APIError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*APIError); ok {
		return e.Type == targetErr.Type
	}
	switch target {
	case ErrThrottled:
		return e.Type == ErrorTypeThrottled
	case ErrAuthorizationDenied:
		return e.Type == ErrorTypeAuthorizationDenied
	case ErrMissingCSRFToken:
		return e.Type == ErrorTypeMissingCSRFToken
	case ErrCircuitOpen:
		return e.Type == ErrorTypeCircuitOpen
	case ErrRateLimited:
		return e.Type == ErrorTypeRateLimit
	}
	return false
}

func newThrottledError(resp *Response) *APIError {
	return &APIError{
		Type:       ErrorTypeThrottled,
		Message:    "too many requests",
		StatusCode: resp.StatusCode,
		Errors:     resp.Errors,
		Response:   resp,
	}
}

func newAuthorizationDeniedError(resp *Response) *APIError {
	return &APIError{
		Type:       ErrorTypeAuthorizationDenied,
		Message:    "authorization has been denied for this request",
		StatusCode: resp.StatusCode,
		Errors:     resp.Errors,
		Response:   resp,
	}
}

func newMissingCSRFTokenError(resp *Response) *APIError {
	return &APIError{
		Type:       ErrorTypeMissingCSRFToken,
		Message:    "csrf retry budget exhausted without a usable token",
		StatusCode: resp.StatusCode,
		Errors:     resp.Errors,
		Response:   resp,
	}
}

func newUnexpectedError(cause error) *APIError {
	return &APIError{
		Type:    ErrorTypeUnexpected,
		Message: "request failed",
		Cause:   cause,
	}
}

// newUnhandledStatusError wraps an envelope whose status code the pipeline does
// not classify itself; the endpoint layer inspects it against its own known
// codes, typically via NewInvalidRequestDataError.
func newUnhandledStatusError(resp *Response) *APIError {
	return &APIError{
		Type:       ErrorTypeUnexpected,
		Message:    "unhandled response status",
		StatusCode: resp.StatusCode,
		Errors:     resp.Errors,
		Response:   resp,
	}
}

// NewInvalidRequestDataError builds the error an endpoint function raises when
// a response status is one of its declared known failure codes. The pipeline
// itself never constructs this; mapping known codes is the caller's concern.
func NewInvalidRequestDataError(resp *Response) *APIError {
	return &APIError{
		Type:       ErrorTypeInvalidRequestData,
		Message:    "the request data is invalid",
		StatusCode: resp.StatusCode,
		Errors:     resp.Errors,
		Response:   resp,
	}
}

// ErrorResponse extracts the originating envelope from an error returned by
// the client, when one exists.
func ErrorResponse(err error) (*Response, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Response != nil {
		return apiErr.Response, true
	}
	return nil, false
}
