package poi

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

	"naviroute/gateway/pkg/navi"
)

// DetailPath is appended to the base URL for POI detail lookups.
const DetailPath = "getPoiDetailByPoiId"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// Config contains configuration for the POI search client.
type Config struct {
	// BaseURL is the search service root; DetailPath is appended verbatim,
	// so it normally ends with "/".
	BaseURL string

	// Timeout bounds a single lookup attempt.
	Timeout time.Duration

	// MaxRetries is the number of extra attempts after a transport error.
	// Non-200 responses and malformed bodies are never retried.
	MaxRetries int

	// RetryBackoff is the delay before the first retry, doubled each time.
	RetryBackoff time.Duration

	// MaxIdleConns and IdleConnTimeout tune the connection pool.
	MaxIdleConns    int
	IdleConnTimeout time.Duration
}

// Observer receives lookup outcomes. The metrics collector implements it.
type Observer interface {
	ObservePoiLookup(outcome string, duration time.Duration)
}

// Health describes the observed health of the search service.
type Health struct {
	IsHealthy           bool
	LastCheck           time.Time
	LastError           error
	ConsecutiveFailures int
	TotalRequests       int64
	FailedRequests      int64
}

// Client resolves POI ids against the search service over HTTP.
// It is safe for concurrent use.
type Client struct {
	config   Config
	url      string
	client   *http.Client
	observer Observer
	logger   *slog.Logger

	health   Health
	healthMu sync.RWMutex
}

type detailRequest struct {
	Data detailRequestData `json:"data"`
}

type detailRequestData struct {
	PoiID string `json:"poiId"`
}

type detailResponse struct {
	RtnCode string `json:"rtnCode"`
	TraceID string `json:"traceId"`
	Body    *struct {
		Data *navi.PoiDetail `json:"data"`
	} `json:"body"`
}

// NewClient creates a search client with a pooled transport.
// observer may be nil.
func NewClient(cfg Config, observer Observer) *Client {
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 100
	}
	if cfg.IdleConnTimeout == 0 {
		cfg.IdleConnTimeout = 90 * time.Second
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = 100 * time.Millisecond
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConns,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		config: cfg,
		url:    cfg.BaseURL + DetailPath,
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		observer: observer,
		logger:   slog.Default().With("component", "poi.client"),
		health: Health{
			IsHealthy: true,
			LastCheck: time.Now(),
		},
	}
}

// Resolve fetches the detail record for a POI id.
// Every failure is returned as a *navi.PoiResolutionError. Lookups
// abandoned through ctx cancellation do not count against service health.
func (c *Client) Resolve(ctx context.Context, id string) (*navi.PoiDetail, error) {
	start := time.Now()
	detail, err := c.resolve(ctx, id)

	outcome := "success"
	switch {
	case err == nil:
	case ctx.Err() != nil && errors.Is(err, context.Canceled):
		outcome = "canceled"
	default:
		outcome = "error"
	}
	if c.observer != nil {
		c.observer.ObservePoiLookup(outcome, time.Since(start))
	}
	if outcome != "canceled" {
		c.recordRequest(err)
	}

	return detail, err
}

func (c *Client) resolve(ctx context.Context, id string) (*navi.PoiDetail, error) {
	body, err := json.Marshal(detailRequest{Data: detailRequestData{PoiID: id}})
	if err != nil {
		return nil, &navi.PoiResolutionError{PoiID: id, Err: err}
	}

	resp, err := c.doRequest(ctx, id, body)
	if err != nil {
		return nil, &navi.PoiResolutionError{PoiID: id, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &navi.PoiResolutionError{PoiID: id, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &navi.PoiResolutionError{
			PoiID:      id,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", strings.TrimSpace(truncate(string(data), 200))),
		}
	}

	var parsed detailResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, &navi.PoiResolutionError{PoiID: id, StatusCode: resp.StatusCode, Err: fmt.Errorf("malformed response: %w", err)}
	}
	if parsed.Body == nil || parsed.Body.Data == nil {
		return nil, &navi.PoiResolutionError{PoiID: id, StatusCode: resp.StatusCode, Err: fmt.Errorf("malformed response: missing body.data")}
	}

	c.logger.DebugContext(ctx, "poi resolved",
		"poi_id", id,
		"poi_name", parsed.Body.Data.PoiName,
		"trace_id", parsed.TraceID,
		"rtn_code", parsed.RtnCode,
	)

	return parsed.Body.Data, nil
}

// doRequest posts the lookup body, retrying transport errors only.
func (c *Client) doRequest(ctx context.Context, id string, body []byte) (*http.Response, error) {
	var lastErr error
	backoff := c.config.RetryBackoff

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			c.logger.DebugContext(ctx, "retrying poi lookup",
				"poi_id", id,
				"attempt", attempt,
				"backoff", backoff,
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json;charset=UTF-8")

		resp, err := c.client.Do(req)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = err
		c.logger.WarnContext(ctx, "poi lookup failed",
			"poi_id", id,
			"attempt", attempt+1,
			"error", err,
		)
	}

	return nil, lastErr
}

// IsHealthy reports whether recent lookups have been succeeding.
func (c *Client) IsHealthy() bool {
	c.healthMu.RLock()
	defer c.healthMu.RUnlock()
	return c.health.IsHealthy
}

// GetHealth returns a snapshot of the client's health.
func (c *Client) GetHealth() Health {
	c.healthMu.RLock()
	defer c.healthMu.RUnlock()
	return c.health
}

// HealthCheck reports an error when the service is considered unhealthy.
func (c *Client) HealthCheck(ctx context.Context) error {
	h := c.GetHealth()
	if h.IsHealthy {
		return nil
	}
	return fmt.Errorf("poi service unhealthy after %d consecutive failures: %v", h.ConsecutiveFailures, h.LastError)
}

// recordRequest updates health after a lookup. Three consecutive failures
// mark the service unhealthy; one success restores it.
func (c *Client) recordRequest(err error) {
	c.healthMu.Lock()
	defer c.healthMu.Unlock()

	c.health.LastCheck = time.Now()
	c.health.TotalRequests++

	if err == nil {
		c.health.IsHealthy = true
		c.health.ConsecutiveFailures = 0
		c.health.LastError = nil
		return
	}

	c.health.FailedRequests++
	c.health.ConsecutiveFailures++
	c.health.LastError = err
	if c.health.ConsecutiveFailures >= 3 && c.health.IsHealthy {
		c.health.IsHealthy = false
		c.logger.Warn("poi service marked unhealthy",
			"consecutive_failures", c.health.ConsecutiveFailures,
			"error", err,
		)
	}
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
