// Package gateway is the typed HTTP client for the MRP backend. It holds
// no state beyond the connection pool and token source: one attempt per
// call, no retries, no circuit breaking; retry policy belongs to callers.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// TokenSource supplies the bearer token attached to every request.
// Implementations must return KindUnauthenticated-worthy errors when no
// usable token exists.
type TokenSource interface {
	Token() (string, error)
}

// Client issues requests against the backend base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithTokenSource attaches a session token source. Without one, requests
// go out unauthenticated (useful against local dev backends).
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a gateway client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorEnvelope matches the backend's error body. Some endpoints use
// detail, others message.
type errorEnvelope struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// doRequest executes one request. body is JSON-serialized when non-nil;
// result is JSON-deserialized when non-nil. Non-2xx responses are
// normalized into *Error with the detail/message field when parseable,
// falling back to the HTTP status text.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindValidation, Path: path, Message: "failed to encode request body", Err: err}
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return &Error{Kind: KindValidation, Path: path, Message: "failed to build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.send(req, path, result)
}

// send attaches auth and the request ID, executes, and decodes.
func (c *Client) send(req *http.Request, path string, result interface{}) error {
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return &Error{Kind: KindUnauthenticated, Path: path, Message: "no usable session token", Err: err}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", req.Method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return &Error{Kind: KindTransport, Path: path, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Path: path, Status: resp.StatusCode, Message: "failed to read response body", Err: err}
	}

	c.logger.Debug("request",
		zap.String("method", req.Method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := resp.Status
		var envelope errorEnvelope
		if jsonErr := json.Unmarshal(respBody, &envelope); jsonErr == nil {
			if envelope.Detail != "" {
				msg = envelope.Detail
			} else if envelope.Message != "" {
				msg = envelope.Message
			}
		}
		return &Error{Kind: KindRemote, Path: path, Status: resp.StatusCode, Message: msg}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return &Error{Kind: KindDecode, Path: path, Status: resp.StatusCode, Message: "failed to decode response body", Err: err}
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	return c.doRequest(ctx, http.MethodPost, path, body, result)
}

func (c *Client) put(ctx context.Context, path string, body, result interface{}) error {
	return c.doRequest(ctx, http.MethodPut, path, body, result)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}

// postMultipart uploads a single file field. Used by the CSV import
// endpoint, which does not speak JSON on the way in.
func (c *Client) postMultipart(ctx context.Context, path, fieldName, fileName string, content []byte, result interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(fieldName, fileName)
	if err != nil {
		return &Error{Kind: KindValidation, Path: path, Message: "failed to build multipart body", Err: err}
	}
	if _, err := fw.Write(content); err != nil {
		return &Error{Kind: KindValidation, Path: path, Message: "failed to write multipart body", Err: err}
	}
	if err := w.Close(); err != nil {
		return &Error{Kind: KindValidation, Path: path, Message: "failed to finalize multipart body", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return &Error{Kind: KindValidation, Path: path, Message: "failed to build request", Err: err}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.send(req, path, result)
}

// getRaw fetches a non-JSON response (file downloads). Returns the body
// and the Content-Disposition header value.
func (c *Client) getRaw(ctx context.Context, path string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, "", &Error{Kind: KindValidation, Path: path, Message: "failed to build request", Err: err}
	}

	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, "", &Error{Kind: KindUnauthenticated, Path: path, Message: "no usable session token", Err: err}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", &Error{Kind: KindTransport, Path: path, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &Error{Kind: KindTransport, Path: path, Status: resp.StatusCode, Message: "failed to read response body", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := resp.Status
		var envelope errorEnvelope
		if jsonErr := json.Unmarshal(body, &envelope); jsonErr == nil {
			if envelope.Detail != "" {
				msg = envelope.Detail
			} else if envelope.Message != "" {
				msg = envelope.Message
			}
		}
		return nil, "", &Error{Kind: KindRemote, Path: path, Status: resp.StatusCode, Message: msg}
	}
	return body, resp.Header.Get("Content-Disposition"), nil
}

// BaseURL reports the configured backend address.
func (c *Client) BaseURL() string { return c.baseURL }
