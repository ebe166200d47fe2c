// Package transport implements the HTTP client to the evaluation
// server's three endpoints (spec.md §6.1), generalized from the
// teacher's shared `iaros-core` HTTPClient: the same request/retry/
// circuit-breaker shape, with the linear retry interval replaced by
// the spec's exact exponential backoff with jitter, and JSON bodies
// fixed to this session's wire contract instead of a generic payload.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"iaros/kitlogistics/internal/errs"
	"iaros/kitlogistics/internal/events"
	"iaros/kitlogistics/internal/logging"
)

// Config controls the client's endpoint, credentials and retry policy
// (spec.md §6.1: base 100ms, factor 2, jitter ±20%, up to 3 retries).
type Config struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
	MaxRetries     int
	BackoffBase    time.Duration
	BackoffFactor  float64
	BackoffJitter  float64
}

// Client is a session-scoped handle to the evaluation server. SessionID
// is set by StartSession and attached to every subsequent request.
type Client struct {
	http      *http.Client
	cb        *gobreaker.CircuitBreaker
	cfg       Config
	logger    *logging.Logger
	SessionID string
}

// New builds a Client. A circuit breaker trips after 3 consecutive
// failures and probes again after 30s, the same thresholds the
// teacher's shared client uses for its own outbound dependencies.
func New(cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Nop()
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 10 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "evaluation-server",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 2
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("evaluation server circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		http:   &http.Client{Timeout: cfg.RequestTimeout},
		cb:     cb,
		cfg:    cfg,
		logger: logger,
	}
}

// StartSession calls POST /session/start. A 409 means a session is
// already active for this API key and is not retried.
func (c *Client) StartSession(ctx context.Context) (string, error) {
	var resp StartSessionResponse
	if err := c.do(ctx, http.MethodPost, "/session/start", nil, &resp); err != nil {
		return "", err
	}
	c.SessionID = resp.SessionID
	return resp.SessionID, nil
}

// PlayRound calls POST /play/round with the submitted decision.
func (c *Client) PlayRound(ctx context.Context, req PlayRoundRequest) (events.HourResponse, error) {
	var resp events.HourResponse
	err := c.do(ctx, http.MethodPost, "/play/round", req, &resp)
	return resp, err
}

// EndSession calls POST /session/end. The orchestrator must only call
// this on natural completion (hour 720) or an explicit operator stop
// (spec.md §6.1): early termination incurs a multiplier on remaining
// penalties, so this package never calls it on its own initiative.
func (c *Client) EndSession(ctx context.Context) (events.HourResponse, error) {
	var resp events.HourResponse
	err := c.do(ctx, http.MethodPost, "/session/end", nil, &resp)
	return resp, err
}

// do executes one logical call with retry and circuit breaking. 4xx
// responses are never retried (our own submission or session is at
// fault); 5xx responses are retried with exponential backoff and
// jitter up to MaxRetries times (MaxRetries+1 attempts in all), then
// reported FAILED.
func (c *Client) do(ctx context.Context, method, path string, body, target interface{}) error {
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		start := time.Now()
		statusCode, respBody, err := c.attempt(ctx, method, path, body)
		c.logger.ExternalCallLogger(method, path, time.Since(start), statusCode, err)

		if err == nil {
			if target != nil {
				if uerr := json.Unmarshal(respBody, target); uerr != nil {
					return errs.Protocol("transport."+method+path, "failed to decode response body", uerr)
				}
			}
			return nil
		}

		lastErr = err
		if !isRetryable(statusCode) {
			return classify(method, path, statusCode, err)
		}
		if attempt < c.cfg.MaxRetries {
			time.Sleep(c.backoff(attempt))
		}
	}

	return errs.Transport(fmt.Sprintf("transport.%s", path), fmt.Sprintf("request failed after %d attempts", c.cfg.MaxRetries+1), lastErr)
}

func (c *Client) attempt(ctx context.Context, method, path string, body interface{}) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("API-KEY", c.cfg.APIKey)
	if c.SessionID != "" {
		req.Header.Set("SESSION-ID", c.SessionID)
	}

	result, err := c.cb.Execute(func() (interface{}, error) {
		return c.http.Do(req)
	})
	if err != nil {
		return 0, nil, err
	}
	resp := result.(*http.Response)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return resp.StatusCode, respBody, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}
	return resp.StatusCode, respBody, nil
}

func isRetryable(statusCode int) bool {
	return statusCode >= 500
}

func classify(op, path string, statusCode int, err error) error {
	switch {
	case statusCode == http.StatusNotFound:
		return errs.Protocol("transport."+path, "session lost (404)", err)
	case statusCode == http.StatusConflict:
		return errs.Protocol("transport."+path, "session already active (409)", err)
	case statusCode >= 400 && statusCode < 500:
		return errs.Protocol("transport."+path, fmt.Sprintf("validation rejection (%d)", statusCode), err)
	default:
		return errs.Transport("transport."+path, "request failed", err)
	}
}

// backoff computes the exponential delay with jitter for one retry
// attempt (spec.md §6.1: base 100ms, factor 2, jitter ±20%).
func (c *Client) backoff(attempt int) time.Duration {
	base := float64(c.cfg.BackoffBase)
	delay := base * pow(c.cfg.BackoffFactor, attempt)
	jitter := 1 + c.cfg.BackoffJitter*(2*rand.Float64()-1)
	return time.Duration(delay * jitter)
}

func pow(base float64, exp int) float64 {
	result := 1.0
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}
