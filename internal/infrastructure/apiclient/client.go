// Package apiclient talks JSON to the Ratify REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ratify/ratify-web/internal/api/metrics"
	"github.com/ratify/ratify-web/internal/core/domain"
)

// maxErrorBody bounds how much of a failed response is decoded.
const maxErrorBody = 64 << 10

// Config parameterises a Client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
}

// Client is the shared HTTP client of every remote call. It is safe for
// concurrent use.
type Client struct {
	base    string
	http    *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 1
	}
	return &Client{
		base:    strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, cfg.RateBurst),
		log:     log.With().Str("component", "apiclient").Logger(),
	}
}

type call struct {
	method   string
	path     string
	endpoint string // metric label
	bearer   string
	body     any
	out      any
}

// do sends c and decodes a 2xx body into c.out. Non-2xx answers become
// *domain.APIError carrying the decoded {status, message, type} envelope.
func (cl *Client) do(ctx context.Context, c call) error {
	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.APIRequestsTotal.WithLabelValues(c.endpoint, outcome).Inc()
		metrics.APIRequestDuration.WithLabelValues(c.endpoint).Observe(time.Since(start).Seconds())
	}()

	if err := cl.limiter.Wait(ctx); err != nil {
		outcome = "transport_error"
		return fmt.Errorf("%s: rate limit: %w", c.endpoint, err)
	}

	var body io.Reader
	if c.body != nil {
		raw, err := json.Marshal(c.body)
		if err != nil {
			outcome = "transport_error"
			return fmt.Errorf("%s: encode body: %w", c.endpoint, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, cl.base+c.path, body)
	if err != nil {
		outcome = "transport_error"
		return fmt.Errorf("%s: build request: %w", c.endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	resp, err := cl.http.Do(req)
	if err != nil {
		outcome = "transport_error"
		return fmt.Errorf("%s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode >= 500 {
			outcome = "server_error"
		} else {
			outcome = "client_error"
		}
		apiErr := &domain.APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(apiErr); err != nil && !errors.Is(err, io.EOF) {
			cl.log.Debug().Err(err).Str("endpoint", c.endpoint).Msg("undecodable error body")
		}
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if c.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(c.out); err != nil {
		outcome = "transport_error"
		return fmt.Errorf("%s: decode response: %w", c.endpoint, err)
	}
	return nil
}
