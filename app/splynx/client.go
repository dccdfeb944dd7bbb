package splynx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/factory"
	"github.com/vibast-solutions/ms-go-billing-gateway/app/metrics"
	"golang.org/x/time/rate"
)

const maxErrorBodyLength = 512

type Config struct {
	BaseURL        string
	APIKey         string
	APISecret      string
	Timeout        time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

// Client performs signed calls against the Splynx admin API. Every call is
// attempted once; retry policy belongs to the caller.
type Client struct {
	cfg     Config
	client  *http.Client
	nonces  *NonceGenerator
	limiter *rate.Limiter
	logger  logrus.FieldLogger
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	cfg.Timeout = timeout
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}

	return &Client{
		cfg:     cfg,
		client:  &http.Client{Timeout: timeout},
		nonces:  NewNonceGenerator(),
		limiter: limiter,
		logger:  factory.NewModuleLogger("splynx-client"),
	}
}

// Do sends one signed request and returns the raw response body of a 2xx
// answer. Failures are always *APIError except for request construction errors.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body interface{}) ([]byte, error) {
	endpoint := c.cfg.BaseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode splynx request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &APIError{Kind: KindTimeout, Message: "rate limiter wait aborted", Cause: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", AuthorizationHeader(c.nonces.Next(), c.cfg.APIKey, c.cfg.APISecret))
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	l := c.logger.WithField("method", method).WithField("path", path)
	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		apiErr := classifyTransportError(err)
		metrics.ObserveUpstreamRequest(method, apiErr.Kind.String(), time.Since(start))
		l.WithError(err).Warn("Splynx request failed")
		return nil, apiErr
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		apiErr := classifyTransportError(err)
		metrics.ObserveUpstreamRequest(method, apiErr.Kind.String(), time.Since(start))
		return nil, apiErr
	}

	if apiErr := classifyStatus(resp.StatusCode, respBody); apiErr != nil {
		metrics.ObserveUpstreamRequest(method, apiErr.Kind.String(), time.Since(start))
		l.WithField("status", resp.StatusCode).Warn("Splynx request rejected")
		return nil, apiErr
	}

	metrics.ObserveUpstreamRequest(method, "ok", time.Since(start))
	l.WithField("status", resp.StatusCode).Debug("Splynx request completed")
	return respBody, nil
}

func classifyStatus(statusCode int, body []byte) *APIError {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	apiErr := &APIError{StatusCode: statusCode, Message: truncate(strings.TrimSpace(string(body)), maxErrorBodyLength)}
	switch {
	case statusCode == http.StatusUnauthorized:
		apiErr.Kind = KindUnauthorized
	case statusCode == http.StatusForbidden:
		apiErr.Kind = KindForbidden
	case statusCode == http.StatusNotFound:
		apiErr.Kind = KindNotFound
	case statusCode == http.StatusMethodNotAllowed:
		apiErr.Kind = KindMethodNotAllowed
	case statusCode >= 500:
		apiErr.Kind = KindServerError
	default:
		apiErr.Kind = KindUnknownStatus
	}
	return apiErr
}

func classifyTransportError(err error) *APIError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &APIError{Kind: KindTimeout, Message: "request timed out", Cause: err}
	}
	return &APIError{Kind: KindConnection, Message: err.Error(), Cause: err}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
