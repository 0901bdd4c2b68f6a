// internal/pricing/client.go
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/solsweep/dust-sweeper/internal/retry"
)

const defaultTimeout = 15 * time.Second

// priceResponse mirrors the oracle's wire format:
// {"data":{"<mint>":{"price":1.23}}}
type priceResponse struct {
	Data map[string]struct {
		Price float64 `json:"price"`
	} `json:"data"`
}

// Client queries the price oracle by mint.
type Client struct {
	endpoint     string
	http         *http.Client
	extraHeaders http.Header
	logger       *zap.Logger
}

// Option configures Client.
type Option func(*Client)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithExtraHeaders attaches an additional header set to every request.
func WithExtraHeaders(headers http.Header) Option {
	return func(c *Client) {
		c.extraHeaders = headers
	}
}

// NewClient creates a price oracle client.
func NewClient(endpoint string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: defaultTimeout},
		logger:   logger.Named("pricing"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Price returns the unit price for mint. A mint the oracle has no quote for
// yields 0 with no error; the caller excludes it by value.
func (c *Client) Price(ctx context.Context, mint string) (float64, error) {
	params := url.Values{}
	params.Set("ids", mint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("build price request: %w", err)
	}
	for key, values := range c.extraHeaders {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read price response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("Price request failed",
			zap.String("mint", mint),
			zap.Int("status", resp.StatusCode))
		return 0, &retry.StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var parsed priceResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("decode price response: %w", err)
	}

	quote, ok := parsed.Data[mint]
	if !ok {
		return 0, nil
	}
	return quote.Price, nil
}
