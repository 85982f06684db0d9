package openblox

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// RequestConfig carries the per-call parameters an endpoint function supplies
// to the pipeline. Cache settings and credential overrides are consumed by the
// orchestrator and never reach the transport.
type RequestConfig struct {
	// SearchParams are serialized onto the URL as key=value pairs. Slice
	// values are joined with commas; nil values are omitted.
	SearchParams map[string]any

	// Headers are merged into the outgoing request. Entries whose value is
	// empty are dropped before transmission.
	Headers map[string]string

	// Body is the request payload for mutating verbs. Maps, slices and
	// structs are JSON-serialized; strings and []byte are sent verbatim.
	Body any

	// FormData, when non-empty, is encoded as multipart form data and takes
	// precedence over Body.
	FormData map[string]string

	// CacheSettings is the opaque per-adapter settings value for this call,
	// or CacheDisable to force caching off.
	CacheSettings any

	// CredentialsOverride replaces individual default credentials for this
	// call only.
	CredentialsOverride *CredentialsOverride

	// ValidStatusCodes lists status codes beyond 200 the caller treats as
	// non-exceptional.
	ValidStatusCodes []int
}

// newTransportConfig strips orchestrator-only fields and merges credential and
// CSRF headers over the caller's. Caller headers win over credential headers.
func newTransportConfig(cfg *RequestConfig, credHeaders map[string]string, csrfToken string) TransportConfig {
	tc := TransportConfig{
		Headers: make(map[string]string, len(credHeaders)+4),
	}
	if cfg != nil {
		tc.Body = cfg.Body
		tc.FormData = cfg.FormData
	}
	for k, v := range credHeaders {
		tc.Headers[k] = v
	}
	if cfg != nil {
		for k, v := range cfg.Headers {
			tc.Headers[k] = v
		}
	}
	if csrfToken != "" {
		tc.Headers[headerCSRFToken] = csrfToken
	}
	return tc
}

// serializeSearchParams renders the query string. Slices are joined with
// commas, nil entries are dropped, and keys are emitted in sorted order so a
// given parameter set always produces the same URL (and thus cache key).
func serializeSearchParams(params map[string]any) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == nil {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(searchParamValue(params[k])))
	}
	return b.String()
}

func searchParamValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		return strings.Join(val, ",")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			parts = append(parts, fmt.Sprintf("%v", item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprintf("%v", val)
	}
}

// fullURL appends the serialized search params to the base URL.
func fullURL(base string, params map[string]any) string {
	query := serializeSearchParams(params)
	if query == "" {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + query
}
