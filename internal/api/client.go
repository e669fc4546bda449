// Package api is the authenticated HTTP layer over the tracker backend:
// one configured client with bearer-token injection and central 401
// handling, plus thin typed wrappers for each resource.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"coinwatch/internal/auth"
)

// DefaultTimeout bounds a single request when the caller's context carries
// no deadline of its own.
const DefaultTimeout = 30 * time.Second

// LoginRoute is where the client navigates after a rejected session.
const LoginRoute = "/login"

// Navigator performs route changes on the client's behalf. The 401 branch
// is a command handler, not a rendering concern: it asks the navigator to
// go to the login route. Tests inject a spy.
type Navigator interface {
	NavigateTo(route string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(route string)

func (f NavigatorFunc) NavigateTo(route string) { f(route) }

// Client is the single configured HTTP client. Every request attaches the
// stored bearer token (auth endpoints excepted); a 401 on a token-carrying
// request clears the token store and navigates to the login route.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     auth.TokenStore
	navigator  Navigator
	logger     *slog.Logger
	timeout    time.Duration
}

// Option configures Client.
type Option func(*Client)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the fallback per-request timeout. It never shortens a
// deadline the caller's context already carries.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithNavigator sets the navigator used on the 401 path.
func WithNavigator(n Navigator) Option {
	return func(c *Client) { c.navigator = n }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the backend at baseURL. The token store is
// read on every request and cleared on 401.
func NewClient(baseURL string, tokens auth.TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		tokens:     tokens,
		navigator:  NavigatorFunc(func(string) {}),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get issues an authenticated GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", true, out)
}

// post issues an authenticated POST with a JSON body.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, payload, "application/json", true, out)
}

// patch issues an authenticated PATCH with a JSON body.
func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	payload, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, path, payload, "application/json", true, out)
}

// delete issues an authenticated DELETE.
func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", true, out)
}

// postForm issues an unauthenticated form-encoded POST. Auth endpoints do
// not carry a bearer header.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	body := strings.NewReader(form.Encode())
	return c.do(ctx, http.MethodPost, path, body, "application/x-www-form-urlencoded", false, out)
}

// postNoAuth issues an unauthenticated JSON POST.
func (c *Client) postNoAuth(ctx context.Context, path string, body, out any) error {
	payload, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, payload, "application/json", false, out)
}

func encodeJSON(body any) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return bytes.NewReader(data), nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, attachAuth bool, out any) error {
	// Callers that budget their own time (the fetch coordinator's 60s
	// ceiling) keep their full budget; the fallback applies only when the
	// context is open-ended.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &APIError{Detail: fmt.Sprintf("create request: %v", err)}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if attachAuth {
		if token, ok := c.tokens.Get(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Context failures surface as their sentinel so callers can treat
		// cancellation as invisible rather than as a server error.
		if cause := ctx.Err(); cause != nil {
			return cause
		}
		return &APIError{Detail: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if cause := ctx.Err(); cause != nil {
			return cause
		}
		return &APIError{Status: resp.StatusCode, Detail: fmt.Sprintf("read response: %v", err)}
	}

	// Only session-carrying requests are logged out on 401. A rejected
	// login or registration is a plain error and keeps the server's detail
	// ("Incorrect email or password").
	if resp.StatusCode == http.StatusUnauthorized && attachAuth {
		c.logger.Warn("session rejected by backend, logging out",
			slog.String("method", method), slog.String("path", path))
		if err := c.tokens.Clear(); err != nil {
			c.logger.Error("clear token store", slog.Any("error", err))
		}
		c.navigator.NavigateTo(LoginRoute)
		return ErrSessionExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Detail: serverDetail(respBody, resp.Status)}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &APIError{Status: resp.StatusCode, Detail: fmt.Sprintf("decode response: %v", err)}
		}
	}
	return nil
}

// serverDetail prefers the backend's detail field over the transport status
// line. FastAPI validation failures carry a structured detail; those are
// passed through as their raw JSON text.
func serverDetail(body []byte, fallback string) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Detail) > 0 {
		var s string
		if err := json.Unmarshal(envelope.Detail, &s); err == nil {
			return s
		}
		return string(envelope.Detail)
	}
	return fallback
}
