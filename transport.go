package openblox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// TransportConfig is the slice of a request the transport adapter sees:
// headers (already merged with credentials and any CSRF token), the body, and
// optional form data. Cache settings and retry state never appear here.
type TransportConfig struct {
	Headers  map[string]string
	Body     any
	FormData map[string]string
}

// Transport performs the four HTTP verbs against a URL and normalizes raw
// responses into envelopes. The returned *http.Response is opaque to the
// orchestrator until ParseResponse consumes it. Network-level failures are
// returned unchanged and surface from the pipeline as unexpected errors.
type Transport interface {
	Get(ctx context.Context, url string, cfg TransportConfig) (*http.Response, error)
	Post(ctx context.Context, url string, cfg TransportConfig) (*http.Response, error)
	Patch(ctx context.Context, url string, cfg TransportConfig) (*http.Response, error)
	Delete(ctx context.Context, url string, cfg TransportConfig) (*http.Response, error)

	// ParseResponse fully consumes the raw response body and wraps it in an
	// envelope, attempting a JSON parse with fallback to raw text.
	ParseResponse(resp *http.Response) (*Response, error)
}

// HTTPTransport is the net/http backed Transport. It adds no timeout of its
// own; cancellation and deadlines come from the caller's context or the
// injected *http.Client.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport constructs an HTTPTransport. A nil client falls back to a
// plain &http.Client{} so the ambient context stays the only deadline source.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPTransport{client: client}
}

func (t *HTTPTransport) Get(ctx context.Context, url string, cfg TransportConfig) (*http.Response, error) {
	return t.do(ctx, http.MethodGet, url, cfg)
}

func (t *HTTPTransport) Post(ctx context.Context, url string, cfg TransportConfig) (*http.Response, error) {
	return t.do(ctx, http.MethodPost, url, cfg)
}

func (t *HTTPTransport) Patch(ctx context.Context, url string, cfg TransportConfig) (*http.Response, error) {
	return t.do(ctx, http.MethodPatch, url, cfg)
}

func (t *HTTPTransport) Delete(ctx context.Context, url string, cfg TransportConfig) (*http.Response, error) {
	return t.do(ctx, http.MethodDelete, url, cfg)
}

func (t *HTTPTransport) do(ctx context.Context, method, url string, cfg TransportConfig) (*http.Response, error) {
	body, contentType, err := encodeBody(cfg)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	for k, v := range cfg.Headers {
		// Empty values mean "header not present", matching how optional
		// headers like a not-yet-known CSRF token stay off the wire.
		if v == "" {
			continue
		}
		req.Header.Set(k, v)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	return t.client.Do(req)
}

// encodeBody renders the request payload. Form data wins over the body and is
// encoded as multipart; structured bodies are JSON-serialized; strings and
// byte slices go out verbatim.
func encodeBody(cfg TransportConfig) (io.Reader, string, error) {
	if len(cfg.FormData) > 0 {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for field, value := range cfg.FormData {
			if err := w.WriteField(field, value); err != nil {
				return nil, "", fmt.Errorf("encode form field %q: %w", field, err)
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", err
		}
		return &buf, w.FormDataContentType(), nil
	}

	switch body := cfg.Body.(type) {
	case nil:
		return nil, "", nil
	case string:
		if body == "" {
			return nil, "", nil
		}
		return bytes.NewReader([]byte(body)), "", nil
	case []byte:
		if len(body) == 0 {
			return nil, "", nil
		}
		return bytes.NewReader(body), "", nil
	default:
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body: %w", err)
		}
		return bytes.NewReader(encoded), "application/json", nil
	}
}

// ParseResponse drains the raw response into an envelope.
func (t *HTTPTransport) ParseResponse(resp *http.Response) (*Response, error) {
	return ParseResponse(resp)
}

// ParseResponse converts a raw transport response into an envelope by reading
// the body to completion. Shared by transport implementations.
func ParseResponse(resp *http.Response) (*Response, error) {
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	url := ""
	if resp.Request != nil && resp.Request.URL != nil {
		url = resp.Request.URL.String()
	}

	return newResponse(url, resp.StatusCode, resp.Header, rawBody, resp), nil
}
