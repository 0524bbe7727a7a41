// Package collector is the HTTP client for the lineage collector. It
// performs exactly one POST per event batch and classifies the outcome;
// retry and redelivery are deliberately out of scope.
package collector

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
	"time"

	"github.com/correlator-io/correlator-go/openlineage"
)

const (
	headerAPIKey = "X-API-Key"

	maxResponseBytes = 2 << 20

	// maxDetailBytes bounds the response body carried in diagnostics.
	maxDetailBytes = 500
)

// StatusClass classifies one delivery attempt.
type StatusClass string

const (
	StatusSuccess        StatusClass = "success"
	StatusPartial        StatusClass = "partial"
	StatusClientError    StatusClass = "client_error"
	StatusServerError    StatusClass = "server_error"
	StatusTransportError StatusClass = "transport_error"
)

// Outcome reports one delivery attempt. It is consumed for logging only
// and never raised to the caller of the lifecycle entry point.
type Outcome struct {
	Attempted   bool
	StatusClass StatusClass
	StatusCode  int
	Details     string
}

// APIError is a non-2xx collector response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("collector api error (status=%d)", e.StatusCode)
	}
	return fmt.Sprintf("collector api error (status=%d): %s", e.StatusCode, body)
}

var ErrRateLimited = errors.New("rate limited by collector")

type Client struct {
	endpoint string
	apiKey   string
	logger   *slog.Logger
	http     *http.Client
}

func New(logger *slog.Logger, endpoint, apiKey string, timeout time.Duration) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("endpoint is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if timeout < time.Second {
		return nil, fmt.Errorf("timeout must be >= 1s, got %s", timeout)
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   strings.TrimSpace(apiKey),
		logger:   logger,
		http:     &http.Client{Timeout: timeout},
	}, nil
}

// batchSummary is the collector's best-effort response body on 200/207.
type batchSummary struct {
	Summary struct {
		Received   int `json:"received"`
		Successful int `json:"successful"`
		Failed     int `json:"failed"`
	} `json:"summary"`
	FailedEvents []failedEvent `json:"failed_events"`
}

type failedEvent struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// EmitEvents POSTs the whole batch as one JSON array. One attempt, no
// retries: the returned error is informational for the orchestrator, which
// logs it and swallows it.
func (c *Client) EmitEvents(ctx context.Context, events []openlineage.RunEvent) (Outcome, error) {
	if len(events) == 0 {
		return Outcome{}, errors.New("events are required")
	}
	for i, event := range events {
		if err := event.Validate(); err != nil {
			return Outcome{}, fmt.Errorf("events[%d]: %w", i, err)
		}
	}

	payload, err := json.Marshal(events)
	if err != nil {
		return Outcome{}, fmt.Errorf("marshal events: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Outcome{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set(headerAPIKey, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		outcome := Outcome{
			Attempted:   true,
			StatusClass: StatusTransportError,
			Details:     err.Error(),
		}
		return outcome, fmt.Errorf("emit events: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		outcome := Outcome{
			Attempted:   true,
			StatusClass: StatusTransportError,
			StatusCode:  resp.StatusCode,
			Details:     err.Error(),
		}
		return outcome, fmt.Errorf("read response: %w", err)
	}

	return c.classify(resp.StatusCode, body, len(events))
}

func (c *Client) classify(statusCode int, body []byte, eventCount int) (Outcome, error) {
	outcome := Outcome{Attempted: true, StatusCode: statusCode}

	switch {
	case statusCode >= 200 && statusCode < 300 && statusCode != http.StatusMultiStatus:
		outcome.StatusClass = StatusSuccess
		c.logger.Info("emitted events", "count", eventCount, "status", statusCode)
		if summary, ok := parseSummary(body); ok {
			c.logger.Info("collector summary",
				"received", summary.Summary.Received,
				"successful", summary.Summary.Successful,
				"failed", summary.Summary.Failed)
		}
		return outcome, nil

	case statusCode == http.StatusMultiStatus:
		outcome.StatusClass = StatusPartial
		outcome.Details = truncate(body)
		summary, ok := parseSummary(body)
		if !ok {
			c.logger.Warn("partial success but response body unparseable", "body", truncate(body))
			return outcome, nil
		}
		received := summary.Summary.Received
		if received == 0 {
			received = eventCount
		}
		c.logger.Warn("partial success", "successful", summary.Summary.Successful, "received", received)
		for _, failed := range summary.FailedEvents {
			c.logger.Error("event rejected", "index", failed.Index, "reason", failed.Reason)
		}
		return outcome, nil

	case statusCode == http.StatusTooManyRequests:
		outcome.StatusClass = StatusClientError
		outcome.Details = truncate(body)
		return outcome, ErrRateLimited

	case statusCode >= 400 && statusCode < 500:
		outcome.StatusClass = StatusClientError
		outcome.Details = truncate(body)
		return outcome, &APIError{StatusCode: statusCode, Body: truncate(body)}

	default:
		outcome.StatusClass = StatusServerError
		outcome.Details = truncate(body)
		return outcome, &APIError{StatusCode: statusCode, Body: truncate(body)}
	}
}

func parseSummary(body []byte) (batchSummary, bool) {
	if len(bytes.TrimSpace(body)) == 0 {
		return batchSummary{}, false
	}
	var summary batchSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return batchSummary{}, false
	}
	return summary, true
}

func truncate(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxDetailBytes {
		return s[:maxDetailBytes]
	}
	return s
}
