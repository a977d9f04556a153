package serp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/RankOps/kwgroup/pkg/httpclient"
	"golang.org/x/time/rate"
)

// ErrMissingField marks a response that lacks a field the pipeline requires.
var ErrMissingField = errors.New("missing required field")

// HTTPConfig configures the HTTP-backed search client.
type HTTPConfig struct {
	// Endpoint is the search API base URL, e.g. "https://serpapi.com/search.json".
	Endpoint string
	Timeout  time.Duration
	// RequestsPerSecond caps the outbound call rate (0 = unlimited).
	RequestsPerSecond float64
	Transport         http.RoundTripper
}

// HTTPClient is the production search API client.
type HTTPClient struct {
	endpoint string
	client   *httpclient.Client
	limiter  *rate.Limiter
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a search API client for the given endpoint.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("search api endpoint required")
	}
	if _, err := url.Parse(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &HTTPClient{
		endpoint: cfg.Endpoint,
		client: httpclient.New(httpclient.Config{
			Timeout:      cfg.Timeout,
			MaxRedirects: 3,
			Transport:    cfg.Transport,
		}),
		limiter: limiter,
	}, nil
}

// Search executes one request for one keyword and decodes the payload.
func (c *HTTPClient) Search(ctx context.Context, params Params) (*Payload, error) {
	if params.APIKey == "" {
		return nil, fmt.Errorf("%w: api_key", ErrMissingField)
	}
	if params.Query == "" {
		return nil, fmt.Errorf("%w: q", ErrMissingField)
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	q := url.Values{}
	q.Set("engine", params.Engine)
	q.Set("q", params.Query)
	q.Set("location", params.Location)
	q.Set("gl", params.GL)
	q.Set("api_key", params.APIKey)
	num := params.Num
	if num <= 0 {
		num = 100
	}
	q.Set("num", strconv.Itoa(num))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", params.Query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search %q: unexpected status %d", params.Query, resp.StatusCode)
	}

	var payload Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode payload for %q: %w", params.Query, err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("search %q: api error: %s", params.Query, payload.Error)
	}
	return &payload, nil
}
