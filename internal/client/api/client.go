package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/buildhub/internal/client/models"
	"github.com/dmitrijs2005/buildhub/internal/logging"
	"github.com/google/uuid"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:5000/api"

const loginPath = "/auth/login"

// RequestIDHeader correlates a console request with the backend log line.
const RequestIDHeader = "X-Request-ID"

// TokenSource supplies the bearer token for outgoing requests.
type TokenSource interface {
	Token() string
}

// Multipart bodies are sent as multipart/form-data instead of JSON.
type Multipart interface {
	WriteMultipart(w *multipart.Writer) error
}

// Doer is the request surface consumed by the resource engine and the session.
type Doer interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Response is a decoded success envelope. Data is the "data" field, or the
// whole body when the server sent no such field. Fields keeps every top-level
// member for resource-specific extras ("vendor", "stats").
type Response struct {
	StatusCode int
	Message    string
	Data       json.RawMessage
	Pagination *models.Pagination
	Fields     map[string]json.RawMessage
}

// Decode unmarshals Data into v. An empty or null Data leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// Field unmarshals the named top-level member into v and reports whether it was present.
func (r *Response) Field(name string, v any) (bool, error) {
	raw, ok := r.Fields[name]
	if !ok || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}

type Client struct {
	baseURL string
	http    *http.Client
	log     logging.Logger

	mu             sync.RWMutex
	tokens         TokenSource
	onUnauthorized func(ctx context.Context)
}

type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets a per-request timeout; zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetTokenSource sets where bearer tokens come from.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = ts
}

// SetUnauthorizedHandler sets the callback run for a 401 outside the login endpoint.
func (c *Client) SetUnauthorizedHandler(fn func(ctx context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

// Do sends r. Every call carries a request id, the caller's one when ctx
// already has it.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	if logging.RequestIDFrom(ctx) == "" {
		ctx = logging.ContextWithRequestID(ctx, uuid.NewString())
	}
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", r.Method, "path", r.Path, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	c.log.Debug(ctx, "request done",
		"method", r.Method, "path", r.Path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized && !strings.Contains(r.Path, loginPath) {
			c.unauthorized(ctx, r.Path)
		}
		return nil, &Error{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	return decodeEnvelope(resp.StatusCode, body)
}

func (c *Client) unauthorized(ctx context.Context, path string) {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()

	c.log.Warn(ctx, "session rejected by server", "path", path)
	if fn != nil {
		fn(ctx)
	}
}

func (c *Client) newRequest(ctx context.Context, r Request) (*http.Request, error) {
	u := c.baseURL + "/" + strings.TrimLeft(r.Path, "/")
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch b := r.Body.(type) {
	case nil:
	case Multipart:
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		if err := b.WriteMultipart(w); err != nil {
			return nil, fmt.Errorf("encode multipart body: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("encode multipart body: %w", err)
		}
		body, contentType = &buf, w.FormDataContentType()
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode json body: %w", err)
		}
		body, contentType = bytes.NewReader(data), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if id := logging.RequestIDFrom(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.mu.RLock()
	ts := c.tokens
	c.mu.RUnlock()
	if ts != nil {
		if token := ts.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func decodeEnvelope(status int, body []byte) (*Response, error) {
	out := &Response{StatusCode: status}
	if len(bytes.TrimSpace(body)) == 0 {
		return out, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		// Not an object: the whole body is the data.
		out.Data = json.RawMessage(body)
		return out, nil
	}
	out.Fields = fields

	if raw, ok := fields["data"]; ok {
		out.Data = raw
	} else {
		out.Data = json.RawMessage(body)
	}
	if raw, ok := fields["message"]; ok {
		_ = json.Unmarshal(raw, &out.Message)
	}
	if raw, ok := fields["pagination"]; ok && string(raw) != "null" {
		var p models.Pagination
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode pagination: %w", err)
		}
		out.Pagination = &p
	}
	return out, nil
}

func errorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}
