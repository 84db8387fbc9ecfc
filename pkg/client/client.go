// Package client provides the core IT Glue HTTP client: request execution,
// envelope decoding, failure classification, and the retry machinery shared
// by single GETs and uploads.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/deskhound/itglue-go/pkg/cache"
	"github.com/deskhound/itglue-go/pkg/retry"
)

// Prometheus metrics for API requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "itglue_requests_total",
		Help: "Total IT Glue API requests by path and outcome",
	}, []string{"path", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "itglue_request_duration_seconds",
		Help:    "IT Glue API request duration in seconds by path",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"path"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "itglue_errors_total",
		Help: "Total IT Glue API errors by kind",
	}, []string{"kind"})
)

// Config holds the client configuration.
type Config struct {
	// BaseURL of the API, e.g. https://api.itglue.com (or the mobile host
	// when authenticated with user credentials).
	BaseURL string

	// Headers from the authenticator: x-api-key or authorization plus
	// content-type.
	Headers map[string]string

	// HTTPClient performs the requests. Defaults to a client with a 120
	// second timeout; large flexible-asset pages are slow.
	HTTPClient *http.Client

	// PageSize is the initial page size for paginated fetches.
	PageSize int

	// Policy holds the retry ceilings and backoff.
	Policy retry.Policy

	// Redis enables GET response caching when non-nil.
	Redis *redis.Client

	// CacheTTL is how long cached GET responses stay valid.
	CacheTTL time.Duration
}

// DefaultConfig returns the default configuration for the given base URL and
// auth headers.
func DefaultConfig(baseURL string, headers map[string]string) Config {
	return Config{
		BaseURL:  baseURL,
		Headers:  headers,
		PageSize: 1000,
		Policy:   retry.DefaultPolicy(),
		CacheTTL: 5 * time.Minute,
	}
}

// Client is the core IT Glue API client. It is safe for sequential use; the
// library never issues concurrent requests on its own.
type Client struct {
	httpClient *http.Client
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// New creates a client from cfg.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if len(cfg.Headers) == 0 {
		return nil, fmt.Errorf("auth headers are required")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 1000
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 120 * time.Second}
	}

	logger := log.With().Str("component", "itglue-client").Logger()

	var cacheManager *cache.Manager
	if cfg.Redis != nil {
		cacheManager = cache.NewManager(cfg.Redis)
	}

	return &Client{
		httpClient: cfg.HTTPClient,
		cache:      cacheManager,
		config:     cfg,
		logger:     logger,
	}, nil
}

// Config returns the client configuration.
func (c *Client) Config() Config {
	return c.config
}

// Do performs a single request attempt and decodes the response envelope.
// It never retries; retry decisions belong to the callers (Get, Upload, and
// pagination.Fetcher) so pagination can adjust page size between attempts.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body []byte) (*Document, error) {
	rawURL := strings.TrimRight(c.config.BaseURL, "/") + path
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}

	cacheable := method == http.MethodGet && c.cache != nil
	cacheKey := cache.Key{Path: path, Query: query}
	if cacheable {
		if entry, err := c.cache.Get(ctx, cacheKey); err == nil {
			c.logger.Debug().Str("path", path).Msg("Cache hit")
			return decodeDocument(entry.Body)
		} else if err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Str("path", path).Msg("Cache get error")
		}
	}

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, &APIError{Kind: KindUnexpected, Err: err}
	}
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	requestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())

	if err != nil {
		kind := classifyTransportError(err)
		errorsTotal.WithLabelValues(string(kind)).Inc()
		requestsTotal.WithLabelValues(path, "transport_error").Inc()
		c.logger.Error().Err(err).Str("path", path).Str("kind", string(kind)).Msg("Request failed")
		return nil, &APIError{Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		errorsTotal.WithLabelValues(string(KindUnexpected)).Inc()
		return nil, &APIError{Kind: KindUnexpected, Err: fmt.Errorf("read response body: %w", err)}
	}

	requestsTotal.WithLabelValues(path, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if apiErr := c.classifyResponse(resp.StatusCode, respBody); apiErr != nil {
		errorsTotal.WithLabelValues(string(apiErr.Kind)).Inc()
		c.logger.Warn().
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("kind", string(apiErr.Kind)).
			Str("detail", apiErr.Detail).
			Msg("API error response")
		return nil, apiErr
	}

	doc, err := decodeDocument(respBody)
	if err != nil {
		errorsTotal.WithLabelValues(string(KindUnexpected)).Inc()
		return nil, err
	}

	if cacheable {
		entry := cache.NewEntry(respBody, resp.StatusCode, c.config.CacheTTL)
		if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
			c.logger.Warn().Err(err).Str("path", path).Msg("Cache set error")
		}
	}

	return doc, nil
}

// classifyResponse maps a non-2xx status to an APIError, nil otherwise.
func (c *Client) classifyResponse(status int, body []byte) *APIError {
	if status < 400 {
		return nil
	}

	title, detail := parseErrorBody(body)

	switch {
	case status == http.StatusTooManyRequests:
		return &APIError{Kind: KindRateLimited, StatusCode: status, Title: title, Detail: detail}
	case isTimeoutShaped(title, detail):
		return &APIError{Kind: KindTimeout, StatusCode: status, Title: title, Detail: detail}
	case status == http.StatusNotFound:
		return &APIError{Kind: KindNotFound, StatusCode: status, Title: title, Detail: detail}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &APIError{Kind: KindAuthFailed, StatusCode: status, Title: title, Detail: detail}
	default:
		return &APIError{Kind: KindUnexpected, StatusCode: status, Title: title, Detail: detail}
	}
}

func decodeDocument(body []byte) (*Document, error) {
	var doc Document
	if err := codec.Unmarshal(body, &doc); err != nil {
		return nil, &APIError{Kind: KindUnexpected, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	return &doc, nil
}

// Get retrieves a single resource, running the shared retry machine without
// pagination. A timeout budget spent here is unrecoverable since there is no
// page size to shrink.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Document, error) {
	return c.doWithRetry(ctx, http.MethodGet, path, query, nil)
}

// doWithRetry wraps Do in the rate-limit/timeout retry machine for
// non-paginated calls.
func (c *Client) doWithRetry(ctx context.Context, method, path string, query url.Values, body []byte) (*Document, error) {
	state := retry.NewState(0)
	for {
		doc, err := c.Do(ctx, method, path, query, body)
		if err == nil {
			return doc, nil
		}

		class := RetryClassOf(err)
		if !class.Retryable() {
			return nil, err
		}

		if _, decideErr := c.config.Policy.Decide(ctx, state, class); decideErr != nil {
			return nil, fmt.Errorf("%w (last error: %v)", decideErr, err)
		}
	}
}
