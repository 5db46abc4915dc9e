// Package api wraps the Athenaeum backend REST API. A single shared client
// attaches the bearer token to every outgoing request and handles 401
// responses globally: the session cache is cleared and the caller's
// forced-login hook fires, whichever call tripped it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// TokenSource supplies the bearer token for outgoing requests; it returns
// "" when no session is active.
type TokenSource interface {
	Token(ctx context.Context) string
}

// Error is an HTTP-level failure from the backend, carrying the decoded
// detail message when one was present.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api: unexpected status %d", e.StatusCode)
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// ErrStatus is returned when the backend envelope carries a non-success
// status.
var ErrStatus = errors.New("api: request rejected")

// Envelope is the {status, data, message} wrapper every list/detail
// response uses; status "1" denotes success.
type Envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
}

// Decode unwraps the envelope into out. A non-"1" status yields an error
// wrapping ErrStatus with the backend message.
func (e *Envelope) Decode(out any) error {
	if e.Status != "1" {
		if e.Message != "" {
			return fmt.Errorf("%w: %s", ErrStatus, e.Message)
		}
		return ErrStatus
	}
	if out == nil || len(e.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return fmt.Errorf("decode envelope data: %w", err)
	}
	return nil
}

// Client is the shared HTTP client for all backend resources.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*options)

type options struct {
	timeout        time.Duration
	limiter        *rate.Limiter
	tokens         TokenSource
	onUnauthorized func()
	transport      http.RoundTripper
}

// WithTimeout sets the per-request timeout (default 30s).
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) Option {
	return func(o *options) { o.tokens = ts }
}

// WithUnauthorizedHandler registers the global 401 hook. It runs once per
// 401 response, for any call, before the error reaches the call site.
func WithUnauthorizedHandler(fn func()) Option {
	return func(o *options) { o.onUnauthorized = fn }
}

// WithLimiter overrides the outbound request limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(o *options) { o.limiter = l }
}

// WithTransport overrides the underlying transport (used in tests).
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// NewClient creates an API client for the given base URL.
func NewClient(baseURL string, logger *zap.Logger, opts ...Option) *Client {
	o := &options{
		timeout: 30 * time.Second,
		limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
	for _, opt := range opts {
		opt(o)
	}
	base := o.transport
	if base == nil {
		base = http.DefaultTransport
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: o.timeout,
			Transport: &authTransport{
				base:           base,
				limiter:        o.limiter,
				tokens:         o.tokens,
				onUnauthorized: o.onUnauthorized,
			},
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// authTransport injects the bearer token, throttles outbound requests, and
// fires the global 401 hook. Cross-cutting policy lives here, not at call
// sites.
type authTransport struct {
	base           http.RoundTripper
	limiter        *rate.Limiter
	tokens         TokenSource
	onUnauthorized func()
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	req = req.Clone(req.Context())
	if t.tokens != nil {
		if tok := t.tokens.Token(req.Context()); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := t.base.RoundTrip(req)
	// A 401 from the login endpoint is a wrong password, not an expired
	// session; only the latter triggers the forced-login hook.
	if err == nil && resp.StatusCode == http.StatusUnauthorized &&
		t.onUnauthorized != nil && !strings.HasSuffix(req.URL.Path, "/auth/login") {
		t.onUnauthorized()
	}
	return resp, err
}

// doJSON performs an HTTP request with JSON serialization/deserialization.
func (c *Client) doJSON(ctx context.Context, method, path string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, result)
}

// do sends req and decodes the JSON response into result.
func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// doForm performs a POST with URL-encoded form data, as the token endpoint
// requires.
func (c *Client) doForm(ctx context.Context, path string, form url.Values, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	return c.do(req, result)
}

// doMultipart uploads a single file plus extra fields as multipart form data.
func (c *Client) doMultipart(ctx context.Context, path, fileName string, file io.Reader, fields map[string]string, result any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("write field %s: %w", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	return c.do(req, result)
}

// doBinary fetches a raw payload, returning the body bytes and content type.
func (c *Client) doBinary(ctx context.Context, path string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("http GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, "", decodeError(resp.StatusCode, body)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// decodeError extracts the backend's {"detail": "..."} message when present.
func decodeError(status int, body []byte) error {
	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		return &Error{StatusCode: status, Detail: detail.Detail}
	}
	return &Error{StatusCode: status, Detail: strings.TrimSpace(string(body))}
}
