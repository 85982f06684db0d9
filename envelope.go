package openblox

import (
	"encoding/json"
	"net/http"
)

// CacheResultType reports how the cache participated in a call.
type CacheResultType string

const (
	CacheResultHit      CacheResultType = "HIT"
	CacheResultMiss     CacheResultType = "MISS"
	CacheResultDisabled CacheResultType = "DISABLED"
)

// Response is the uniform envelope wrapping one completed transport exchange.
// All fields are fixed at construction except Errors, which the orchestrator
// attaches exactly once after classifying a non-success envelope.
type Response struct {
	// URL is the fully resolved request URL, search params included.
	URL string

	// StatusCode is the HTTP status returned by the transport.
	StatusCode int

	// Header holds the response headers (case-insensitive lookup).
	Header http.Header

	// Body is the parsed JSON body, or the raw text when the body is not JSON.
	Body any

	// RawBody is the body exactly as the transport returned it.
	RawBody []byte

	// Raw is the underlying transport response. Opaque to the orchestrator;
	// its body has already been consumed.
	Raw *http.Response

	// CacheResult records whether this envelope was served from cache.
	CacheResult CacheResultType

	// Errors holds classified error details for non-success envelopes.
	Errors []ErrorDetail

	errorsAttached bool
}

// newResponse constructs an envelope from a fully consumed transport response.
func newResponse(url string, statusCode int, header http.Header, rawBody []byte, raw *http.Response) *Response {
	return &Response{
		URL:        url,
		StatusCode: statusCode,
		Header:     header,
		Body:       parseBody(rawBody),
		RawBody:    rawBody,
		Raw:        raw,
	}
}

// parseBody attempts a JSON parse, falling back to the raw text.
func parseBody(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

// attachErrors records classified errors on the envelope. The first attachment
// wins; later calls are ignored so an envelope is classified at most once.
func (r *Response) attachErrors(details []ErrorDetail) {
	if r == nil || r.errorsAttached {
		return
	}
	r.Errors = details
	r.errorsAttached = true
}

// Decode unmarshals the raw response body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.RawBody, v)
}

// Success reports whether the status code is acceptable: exactly 200, or any
// status the caller declared valid for this request.
func (r *Response) success(validStatusCodes []int) bool {
	if r.StatusCode == http.StatusOK {
		return true
	}
	for _, code := range validStatusCodes {
		if r.StatusCode == code {
			return true
		}
	}
	return false
}
