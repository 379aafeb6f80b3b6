package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ngmaloney/tokyo-weekend/internal/credentials"
)

const (
	// DefaultBaseURL is the backend origin used when none is configured.
	DefaultBaseURL = "http://localhost:8000"
	userAgent      = "TokyoWeekend/1.0"
)

// Client talks to the Tokyo Weekend Events backend. It holds the bearer
// credential for the process; share one Client between callers.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      credentials.Store
	logger     zerolog.Logger
	timeout    time.Duration

	// mu guards token and orders writes to store
	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the backend origin, e.g. "https://api.example.jp".
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient replaces the underlying HTTP client. A nil client is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout. It applies to a copy of any
// client passed to WithHTTPClient, whatever the option order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithStore sets where the credential is persisted.
func WithStore(s credentials.Store) Option {
	return func(c *Client) { c.store = s }
}

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client and loads any stored credential.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		store:  credentials.NewMemoryStore(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")
	if c.timeout > 0 && c.httpClient.Timeout != c.timeout {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}

	token, ok, err := c.store.Load(credentials.AuthTokenKey)
	if err != nil {
		c.logger.Warn().Err(err).Msg("loading stored credential")
	} else if ok {
		c.token = token
	}
	return c
}

// HasCredential reports whether a bearer credential is held.
func (c *Client) HasCredential() bool {
	return c.credential() != ""
}

func (c *Client) credential() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// setCredential changes memory and store as one unit.
func (c *Client) setCredential(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token

	var err error
	if token == "" {
		err = c.store.Delete(credentials.AuthTokenKey)
	} else {
		err = c.store.Save(credentials.AuthTokenKey, token)
	}
	if err != nil {
		c.logger.Warn().Err(err).Msg("persisting credential")
	}
}

type authMode int

const (
	authNone authMode = iota
	authOptional
	authRequired
)

type request struct {
	op          string
	method      string
	path        string // escaped
	query       url.Values
	body        io.Reader
	contentType string
	auth        authMode
}

// send performs one round trip using a single snapshot of the credential.
func (c *Client) send(ctx context.Context, r request) (*http.Response, error) {
	token := c.credential()
	if r.auth == authRequired && token == "" {
		return nil, &Error{Kind: KindAuthenticationRequired, Op: r.op}
	}

	endpoint, err := c.endpoint(r.path, r.query)
	if err != nil {
		return nil, &Error{Kind: KindInvalidRequest, Op: r.op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, r.body)
	if err != nil {
		return nil, &Error{Kind: KindInvalidRequest, Op: r.op, Err: fmt.Errorf("creating request: %w", err)}
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.auth != authNone && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().
			Str("request_id", requestID).
			Str("method", r.method).
			Str("path", r.path).
			Dur("duration", time.Since(start)).
			Err(err).
			Msg("api request failed")
		return nil, &Error{Kind: KindTransport, Op: r.op, Err: err}
	}

	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api request")
	return resp, nil
}

// do sends r and decodes the body into out. The status code is not inspected;
// an error payload that does not fit out surfaces as KindDecoding.
func (c *Client) do(ctx context.Context, r request, out any) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Op: r.op, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	if err := decode(body, out); err != nil {
		return &Error{Kind: KindDecoding, Op: r.op, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

// doNoContent sends r and discards the response. Any response counts as
// success.
func (c *Client) doNoContent(ctx context.Context, r request) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug().
			Str("op", r.op).
			Str("path", r.path).
			Int("status", resp.StatusCode).
			Msg("non-2xx response ignored")
	}
	return nil
}

func (c *Client) endpoint(path string, query url.Values) (string, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("building URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("base URL %q is not absolute", c.baseURL)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}
