package beckn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/voltmesh/solarbot/internal/telemetry"
)

const (
	initialBackoff   = time.Second
	maxResponseBytes = 10 << 20 // cap reads from the gateway
)

// APIError is a non-2xx or in-band error from the Beckn gateway.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("beckn: gateway error %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("beckn: gateway returned status %d", e.Status)
}

// Client talks to a Beckn BAP client endpoint. All calls POST a
// {context, message} envelope to {base_url}/{action} and decode the
// aggregated responses array.
type Client struct {
	config  Config
	http    *http.Client
	logger  *slog.Logger
	metrics *telemetry.Metrics
	tracer  trace.Tracer

	// newID and now are injectable for deterministic tests.
	newID func() string
	now   func() time.Time
}

// NewClient creates a Beckn client from the given configuration.
// Metrics may be nil.
func NewClient(cfg Config, logger *slog.Logger, metrics *telemetry.Metrics) *Client {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		config:  cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
		metrics: metrics,
		tracer:  otel.Tracer("beckn"),
		newID:   func() string { return uuid.NewString() },
		now:     time.Now,
	}
}

// MockMode reports whether the client serves canned responses.
func (c *Client) MockMode() bool {
	return c.config.MockMode
}

// newContext builds the request context for an action in a domain.
func (c *Client) newContext(action, domain string) Context {
	return Context{
		Domain: domain,
		Action: action,
		Location: Location{
			Country: CodeRef{Code: c.config.CountryCode},
			City:    CodeRef{Code: c.config.CityCode},
		},
		Version:       "1.1.0",
		BAPID:         c.config.BAPID,
		BAPURI:        c.config.BAPURI,
		BPPID:         c.config.BPPID,
		BPPURI:        c.config.BPPURI,
		TransactionID: c.newID(),
		MessageID:     c.newID(),
		Timestamp:     c.now().UTC().Format("2006-01-02T15:04:05.000000Z"),
	}
}

// call POSTs the envelope to {base_url}/{action}, retrying transient
// failures (429, 5xx, network errors) with exponential backoff.
func (c *Client) call(ctx context.Context, req Request) (*Response, error) {
	action := req.Context.Action
	domain := req.Context.Domain

	ctx, span := c.tracer.Start(ctx, "beckn."+action,
		trace.WithAttributes(
			attribute.String("beckn.domain", domain),
			attribute.String("beckn.transaction_id", req.Context.TransactionID),
		))
	defer span.End()

	start := c.now()
	resp, err := c.doRetry(ctx, action, req)
	if c.metrics != nil {
		outcome := telemetry.OutcomeOK
		if err != nil {
			outcome = telemetry.OutcomeError
		}
		c.metrics.BecknRequests.WithLabelValues(domain, action, outcome).Inc()
		c.metrics.BecknSeconds.WithLabelValues(domain, action).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return resp, nil
}

func (c *Client) doRetry(ctx context.Context, action string, req Request) (*Response, error) {
	url := strings.TrimSuffix(c.config.BaseURL, "/") + "/" + action

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("beckn: marshal %s request: %w", action, err)
	}

	backoff := initialBackoff
	attempts := c.config.MaxRetries + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
			backoff *= 2
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("beckn: create %s request: %w", action, err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		httpResp, err := c.http.Do(httpReq)
		if err != nil {
			lastErr = fmt.Errorf("beckn: %s request failed: %w", action, err)
			c.logger.Warn("beckn request failed", "action", action, "attempt", attempt+1, "error", err)
			continue
		}

		body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
		_ = httpResp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("beckn: read %s response: %w", action, err)
			continue
		}

		if httpResp.StatusCode == http.StatusTooManyRequests || httpResp.StatusCode >= 500 {
			lastErr = &APIError{Status: httpResp.StatusCode}
			c.logger.Warn("beckn gateway retryable status",
				"action", action, "status", httpResp.StatusCode, "attempt", attempt+1)
			continue
		}
		if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
			return nil, &APIError{Status: httpResp.StatusCode}
		}

		var resp Response
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("beckn: decode %s response: %w", action, err)
		}
		if resp.Error != nil {
			return nil, &APIError{Status: httpResp.StatusCode, Code: resp.Error.Code, Message: resp.Error.Message}
		}
		return &resp, nil
	}

	return nil, fmt.Errorf("beckn: %s: retries exhausted: %w", action, lastErr)
}
