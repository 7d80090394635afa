// Package api is the HTTP client for the orders backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cristianoliveira/orderdesk/internal/config"
	"github.com/cristianoliveira/orderdesk/internal/domain"
	"github.com/cristianoliveira/orderdesk/internal/logging"
	"github.com/cristianoliveira/orderdesk/internal/version"
	"github.com/sony/gobreaker/v2"
)

// Endpoint labels used in errors, logs and metrics.
const (
	EndpointList     = "list_orders"
	EndpointDetail   = "get_order"
	EndpointStatus   = "update_status"
	EndpointComplete = "complete_order"
)

// Config holds HTTP client configuration.
type Config struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	BreakerEnabled bool
	Breaker        BreakerConfig
	// HTTPClient overrides the tuned default client.
	HTTPClient *http.Client
}

// ConfigFromGlobal reads the api_* and breaker_* settings.
func ConfigFromGlobal() Config {
	br := DefaultBreakerConfig("orders-api")
	br.MinRequests = uint32(config.GetInt("breaker_min_requests", int(br.MinRequests)))
	br.FailureRatio = config.GetFloat("breaker_failure_ratio", br.FailureRatio)
	br.Timeout = config.GetSeconds("breaker_open_seconds", br.Timeout)
	return Config{
		BaseURL:        config.Get("api_base_url", "http://localhost:5000/api/admin"),
		Token:          config.Get("api_token", ""),
		Timeout:        config.GetSeconds("api_timeout_seconds", 30*time.Second),
		BreakerEnabled: config.GetBool("breaker_enabled", true),
		Breaker:        br,
	}
}

// Client talks to the orders endpoints. Requests are never retried.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	log        logging.Logger
}

// New creates a client with a pooled transport and an optional circuit breaker.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		transport := &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          20,
			MaxIdleConnsPerHost:   10,
			MaxConnsPerHost:       10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		}
		httpClient = &http.Client{Transport: transport, Timeout: cfg.Timeout}
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: httpClient,
		log:        logging.With("component", "api"),
	}
	if cfg.BreakerEnabled {
		c.breaker = newBreaker(cfg.Breaker)
	}
	return c
}

// BreakerState returns the breaker state, or closed when the breaker is disabled.
func (c *Client) BreakerState() gobreaker.State {
	if c.breaker == nil {
		return gobreaker.StateClosed
	}
	return c.breaker.State()
}

// ListOrders fetches one page of the list projection.
func (c *Client) ListOrders(ctx context.Context, p ListParams) (*ListResponse, error) {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	body, err := c.do(ctx, EndpointList, http.MethodGet, "/orders", q, nil)
	if err != nil {
		return nil, err
	}
	var resp ListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", EndpointList, err)
	}
	if resp.TotalPages == 0 && resp.Total > 0 && p.Limit > 0 {
		resp.TotalPages = (resp.Total + p.Limit - 1) / p.Limit
	}
	return &resp, nil
}

// GetOrder fetches the detail projection of one order.
func (c *Client) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	body, err := c.do(ctx, EndpointDetail, http.MethodGet, "/orders/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}
	var resp detailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", EndpointDetail, err)
	}
	if !resp.Success || resp.Data == nil {
		msg := resp.Message
		if msg == "" {
			msg = "empty order payload"
		}
		return nil, &Error{Endpoint: EndpointDetail, Status: http.StatusOK, Message: msg}
	}
	if resp.Data.Items == nil {
		resp.Data.Items = []domain.LineItem{}
	}
	return resp.Data, nil
}

// UpdateStatus sets the order status.
func (c *Client) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	payload, err := json.Marshal(statusRequest{Status: status})
	if err != nil {
		return fmt.Errorf("encode status request: %w", err)
	}
	_, err = c.do(ctx, EndpointStatus, http.MethodPatch, "/orders/"+url.PathEscape(id)+"/status", nil, payload)
	return err
}

// Complete marks the order completed.
func (c *Client) Complete(ctx context.Context, id string) error {
	_, err := c.do(ctx, EndpointComplete, http.MethodPost, "/orders/"+url.PathEscape(id)+"/complete", nil, nil)
	return err
}

func (c *Client) do(ctx context.Context, endpoint, method, path string, query url.Values, payload []byte) ([]byte, error) {
	start := time.Now()
	call := func() ([]byte, error) {
		return c.roundTrip(ctx, endpoint, method, path, query, payload)
	}
	var (
		body []byte
		err  error
	)
	if c.breaker != nil {
		body, err = c.breaker.Execute(call)
	} else {
		body, err = call()
	}

	elapsed := time.Since(start)
	requestsTotal.WithLabelValues(endpoint, outcome(err)).Inc()
	requestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
	if err != nil {
		c.log.Warn("request failed", "endpoint", endpoint, "method", method, "path", path,
			"duration_ms", elapsed.Milliseconds(), "error", err.Error())
		return nil, err
	}
	c.log.Debug("request", "endpoint", endpoint, "method", method, "path", path,
		"duration_ms", elapsed.Milliseconds())
	return body, nil
}

func (c *Client) roundTrip(ctx context.Context, endpoint, method, path string, query url.Values, payload []byte) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	var reqBody io.Reader = http.NoBody
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseError(resp, endpoint)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}
	return body, nil
}
