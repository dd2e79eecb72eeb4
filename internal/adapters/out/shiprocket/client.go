// Package shiprocket is the HTTP adapter for the Shiprocket shipping aggregator. A
// Factory shares one HTTP client, circuit breaker and token cache between the
// per-client Clients it hands out.
package shiprocket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/resilience"
)

const (
	DefaultBaseURL  = "https://apiv2.shiprocket.in/v1/external"
	DefaultTimeout  = 5 * time.Second
	DefaultTokenTTL = 55 * time.Minute
)

// APIError is a non-200 answer from the carrier.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Shiprocket API error (status %d): %s", e.StatusCode, e.Body)
}

type transportError struct {
	err error
}

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// IsTransient reports failures worth retrying: transport errors, 5xx and 429.
func IsTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError || apiErr.StatusCode == http.StatusTooManyRequests
	}
	var tErr *transportError
	return errors.As(err, &tErr)
}

// Factory implements ports.CarrierClientFactory.
type Factory struct {
	baseURL       string
	httpClient    *http.Client
	retry         resilience.RetryConfig
	breakerConfig resilience.CircuitBreakerConfig
	breaker       *resilience.CircuitBreaker
	tokens        *tokenCache
	now           func() time.Time
	logger        *slog.Logger
}

var _ ports.CarrierClientFactory = (*Factory)(nil)

// Option configures optional factory behavior.
type Option func(*Factory)

func WithHTTPClient(client *http.Client) Option {
	return func(f *Factory) {
		if client != nil {
			f.httpClient = client
		}
	}
}

func WithBaseURL(baseURL string) Option {
	return func(f *Factory) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			f.baseURL = trimmed
		}
	}
}

func WithRetry(config resilience.RetryConfig) Option {
	return func(f *Factory) { f.retry = config }
}

func WithCircuitBreaker(config resilience.CircuitBreakerConfig) Option {
	return func(f *Factory) { f.breakerConfig = config }
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(f *Factory) {
		if ttl > 0 {
			f.tokens.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(f *Factory) {
		if now != nil {
			f.now = now
		}
	}
}

func NewFactory(logger *slog.Logger, opts ...Option) *Factory {
	f := &Factory{
		baseURL:       DefaultBaseURL,
		httpClient:    &http.Client{Timeout: DefaultTimeout},
		retry:         resilience.DefaultRetryConfig(),
		breakerConfig: resilience.DefaultCircuitBreakerConfig("shiprocket"),
		tokens:        &tokenCache{ttl: DefaultTokenTTL, entries: make(map[ports.CarrierCredentials]cachedToken)},
		now:           time.Now,
		logger:        logger.With("component", "ShiprocketClient"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	f.retry.Retryable = IsTransient
	f.breaker = resilience.NewCircuitBreaker(f.breakerConfig, IsTransient, logger)
	return f
}

func (f *Factory) ForClient(credentials ports.CarrierCredentials) ports.CarrierClient {
	return &Client{factory: f, credentials: credentials}
}

// send runs one logical request: retries wrap the breaker, so an open circuit ends
// the retry loop straight away.
func (f *Factory) send(ctx context.Context, method, path, token string, payload any) ([]byte, error) {
	var encoded []byte
	if payload != nil {
		var err error
		if encoded, err = json.Marshal(payload); err != nil {
			return nil, fmt.Errorf("encode %s request: %w", path, err)
		}
	}

	return resilience.RetryWithResult(ctx, f.retry, func() ([]byte, error) {
		return resilience.Call(ctx, f.breaker, func() ([]byte, error) {
			return f.once(ctx, method, path, token, encoded)
		})
	})
}

func (f *Factory) once(ctx context.Context, method, path, token string, encoded []byte) ([]byte, error) {
	var body io.Reader
	if encoded != nil {
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, f.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if encoded != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &transportError{err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &transportError{err: err}
	}

	if resp.StatusCode != http.StatusOK {
		f.logger.WarnContext(ctx, "carrier call failed", "method", method, "path", path, "status", resp.StatusCode)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

type cachedToken struct {
	value   string
	expires time.Time
}

type tokenCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[ports.CarrierCredentials]cachedToken
}

func (c *tokenCache) get(key ports.CarrierCredentials, now time.Time) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.entries[key]
	if !ok || !now.Before(t.expires) {
		return "", false
	}
	return t.value, true
}

func (c *tokenCache) put(key ports.CarrierCredentials, value string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cachedToken{value: value, expires: now.Add(c.ttl)}
}

func (c *tokenCache) drop(key ports.CarrierCredentials) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Client is a carrier client authenticated as one account.
type Client struct {
	factory     *Factory
	credentials ports.CarrierCredentials
}

func (c *Client) token(ctx context.Context) (string, error) {
	f := c.factory
	if token, ok := f.tokens.get(c.credentials, f.now()); ok {
		return token, nil
	}

	raw, err := f.send(ctx, http.MethodPost, "/auth/login", "", loginRequest{
		Email:    c.credentials.Email,
		Password: c.credentials.Password,
	})
	if err != nil {
		return "", fmt.Errorf("Shiprocket login failed: %w", err)
	}
	resp, err := decode[loginResponse](raw, "login")
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("Shiprocket login returned no token")
	}

	f.tokens.put(c.credentials, resp.Token, f.now())
	return resp.Token, nil
}

// call sends an authenticated request. A 401 evicts the cached token so the next call
// logs in again.
func (c *Client) call(ctx context.Context, method, path string, payload any) ([]byte, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := c.factory.send(ctx, method, path, token, payload)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		c.factory.tokens.drop(c.credentials)
	}
	return raw, err
}

func decode[T any](raw []byte, what string) (T, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode Shiprocket %s response: %w", what, err)
	}
	return out, nil
}
