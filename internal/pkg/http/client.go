package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	appctx "github.com/piresc/settlement/internal/pkg/context"
	"github.com/piresc/settlement/internal/pkg/logger"
	nr "github.com/piresc/settlement/internal/pkg/newrelic"
)

// DefaultTimeout for HTTP requests that carry no deadline of their own
const DefaultTimeout = 30 * time.Second

// HTTPError is returned for any response with a status code >= 400
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: %d %s", e.StatusCode, e.Message)
}

// Client is a JSON HTTP client bound to a base URL
type Client struct {
	client      *nethttp.Client
	baseURL     string
	serviceName string
}

// NewClient creates a new JSON client. A zero timeout uses DefaultTimeout.
func NewClient(serviceName, baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		client:      &nethttp.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		serviceName: serviceName,
	}
}

// BaseURL returns the base URL requests are sent to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetJSON performs a GET request and decodes the JSON response into result
func (c *Client) GetJSON(ctx context.Context, endpoint string, result interface{}) error {
	return c.do(ctx, nethttp.MethodGet, endpoint, nil, result)
}

// PostJSON performs a POST request with a JSON body and decodes the response into result
func (c *Client) PostJSON(ctx context.Context, endpoint string, body interface{}, result interface{}) error {
	return c.do(ctx, nethttp.MethodPost, endpoint, body, result)
}

// PutJSON performs a PUT request with a JSON body and decodes the response into result
func (c *Client) PutJSON(ctx context.Context, endpoint string, body interface{}, result interface{}) error {
	return c.do(ctx, nethttp.MethodPut, endpoint, body, result)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body interface{}, result interface{}) error {
	url := c.baseURL + endpoint

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := nethttp.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	if requestID := appctx.GetRequestID(ctx); requestID != "" {
		req.Header.Set(echo.HeaderXRequestID, requestID)
	}

	logger.Debug("Making HTTP request",
		logger.String("method", method),
		logger.String("url", url),
		logger.String("service", c.serviceName))

	resp, err := nr.InstrumentHTTPRequest(ctx, req, func() (*nethttp.Response, error) {
		return c.client.Do(req)
	})
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	logger.Debug("HTTP request completed",
		logger.String("method", method),
		logger.String("url", url),
		logger.String("service", c.serviceName),
		logger.Int("status_code", resp.StatusCode))

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
		}
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
