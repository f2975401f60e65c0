// Package client is a Go consumer of the session API. It mirrors the state
// container a browser front end would keep: credentials live in a durable
// cache, new processes rehydrate by replaying the cached token against the
// verify endpoint, and logout clears the cache even when the server call
// fails.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/jobhub/auth"
)

// Client talks to a running session API.
type Client struct {
	baseURL string
	http    *http.Client
	cache   CredentialCache
	logger  auth.Logger

	mu      sync.RWMutex
	current *Credentials
}

type Option func(*Client) *Client

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) *Client {
		if hc != nil {
			c.http = hc
		}
		return c
	}
}

// WithCache replaces the credential cache.
func WithCache(cache CredentialCache) Option {
	return func(c *Client) *Client {
		if cache != nil {
			c.cache = cache
		}
		return c
	}
}

// WithLogger sets the client logger.
func WithLogger(logger auth.Logger) Option {
	return func(c *Client) *Client {
		if logger != nil {
			c.logger = logger
		}
		return c
	}
}

// New builds a client against the given base URL, e.g. "http://localhost:9001".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		cache:   NewMemoryCache(),
	}

	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

// SignupParams is the account creation payload.
type SignupParams struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role,omitempty"`
	Organization string `json:"organization,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

type loginResponse struct {
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    *auth.PublicUser `json:"user"`
}

type verifyResponse struct {
	User *auth.PublicUser `json:"user"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Signup creates an account. It does not authenticate; call Login after.
func (c *Client) Signup(ctx context.Context, params SignupParams) error {
	res, err := c.do(ctx, http.MethodPost, "/api/auth/signup", params, "")
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusCreated {
		return apiError(res)
	}

	return nil
}

// Login authenticates, persists the returned credentials in the cache, and
// makes them the current session.
func (c *Client) Login(ctx context.Context, email, password string) (*auth.PublicUser, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	res, err := c.do(ctx, http.MethodPost, "/api/auth/login", payload, "")
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, apiError(res)
	}

	body := loginResponse{}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to decode login response")
	}

	if body.Token == "" {
		return nil, errors.New("login response missing token", errors.CategoryInternal)
	}

	creds := &Credentials{User: body.User, Token: body.Token}
	c.setCurrent(creds)

	if err := c.cache.Save(creds); err != nil {
		// The session is live either way; a cache failure only costs
		// rehydration on the next run.
		c.warn("failed to persist credentials", "error", err)
	}

	return body.User, nil
}

// Rehydrate restores a prior session from the cache. The cached token is
// replayed against the verify endpoint; when the server rejects it the cache
// is cleared and no session is restored.
func (c *Client) Rehydrate(ctx context.Context) (*auth.PublicUser, error) {
	creds, err := c.cache.Load()
	if err != nil {
		if errors.Is(err, ErrNoCredentials) {
			return nil, nil
		}
		return nil, err
	}

	res, err := c.do(ctx, http.MethodGet, "/api/auth/verify", nil, creds.Token)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		// Expired or revoked. Drop the stale entry so the next run
		// starts clean.
		c.setCurrent(nil)
		if cerr := c.cache.Clear(); cerr != nil {
			c.warn("failed to clear stale credentials", "error", cerr)
		}
		return nil, nil
	}

	body := verifyResponse{}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to decode verify response")
	}

	creds.User = body.User
	c.setCurrent(creds)

	if err := c.cache.Save(creds); err != nil {
		c.warn("failed to persist credentials", "error", err)
	}

	return body.User, nil
}

// Logout revokes the session on the server and forgets the local credentials.
// Local state is cleared even when the server call fails, so a broken network
// never pins a client to a dead session.
func (c *Client) Logout(ctx context.Context) error {
	creds := c.getCurrent()

	c.setCurrent(nil)
	if err := c.cache.Clear(); err != nil {
		c.warn("failed to clear credentials", "error", err)
	}

	if creds == nil {
		return nil
	}

	res, err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, creds.Token)
	if err != nil {
		c.warn("logout request failed", "error", err)
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return apiError(res)
	}

	return nil
}

// Current returns the identity and token of the active session, if any.
func (c *Client) Current() (*auth.PublicUser, string, bool) {
	creds := c.getCurrent()
	if creds == nil {
		return nil, "", false
	}
	return creds.User, creds.Token, true
}

// Token returns the active session token, or empty when logged out.
func (c *Client) Token() string {
	if creds := c.getCurrent(); creds != nil {
		return creds.Token
	}
	return ""
}

func (c *Client) setCurrent(creds *Credentials) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = creds
}

func (c *Client) getCurrent() *Credentials {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

func (c *Client) do(ctx context.Context, method, path string, payload any, token string) (*http.Response, error) {
	var body *bytes.Buffer = &bytes.Buffer{}
	if payload != nil {
		if err := json.NewEncoder(body).Encode(payload); err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to encode request payload")
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to build request")
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", auth.AuthScheme+" "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "request failed")
	}

	return res, nil
}

func (c *Client) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}

// apiError turns a non-success response into an error carrying the server's
// message and status code.
func apiError(res *http.Response) error {
	body := errorResponse{}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil || body.Message == "" {
		body.Message = fmt.Sprintf("unexpected status %d", res.StatusCode)
	}

	category := errors.CategoryOperation
	switch res.StatusCode {
	case http.StatusUnauthorized:
		category = errors.CategoryAuth
	case http.StatusForbidden:
		category = errors.CategoryAuthz
	case http.StatusBadRequest:
		category = errors.CategoryBadInput
	}

	return errors.New(body.Message, category).WithCode(res.StatusCode)
}
