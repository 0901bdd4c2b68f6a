// internal/aggregator/client.go
package aggregator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/solsweep/dust-sweeper/internal/retry"
)

const defaultTimeout = 30 * time.Second

// QuoteRequest asks for an exchange route of one input mint into the
// reference stablecoin. Amount is the raw integer amount, never UI-scaled.
type QuoteRequest struct {
	InputMint   string
	OutputMint  string
	Amount      uint64
	SlippageBps int
}

// SwapRequest asks the aggregator to build swap instructions from a quote.
// QuoteResponse is forwarded verbatim.
type SwapRequest struct {
	QuoteResponse    json.RawMessage `json:"quoteResponse"`
	UserPublicKey    string          `json:"userPublicKey"`
	WrapAndUnwrapSol bool            `json:"wrapUnwrapSOL"`
}

type swapResponse struct {
	SwapTransaction string `json:"swapTransaction"`
}

// Client talks to the Jupiter quote and swap endpoints.
type Client struct {
	quoteEndpoint string
	swapEndpoint  string
	http          *http.Client
	extraHeaders  http.Header
	logger        *zap.Logger
}

// Option configures Client.
type Option func(*Client)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithExtraHeaders attaches an additional header set to every outbound
// request. Some deployments forward the action protocol headers upstream.
func WithExtraHeaders(headers http.Header) Option {
	return func(c *Client) {
		c.extraHeaders = headers
	}
}

// NewClient creates a Jupiter aggregator client.
func NewClient(quoteEndpoint, swapEndpoint string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		quoteEndpoint: quoteEndpoint,
		swapEndpoint:  swapEndpoint,
		http:          &http.Client{Timeout: defaultTimeout},
		logger:        logger.Named("aggregator"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Quote requests an exchange route. The response body is returned as-is so
// it can be handed back to BuildSwap without reinterpretation.
func (c *Client) Quote(ctx context.Context, req QuoteRequest) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("inputMint", req.InputMint)
	params.Set("outputMint", req.OutputMint)
	params.Set("amount", strconv.FormatUint(req.Amount, 10))
	params.Set("slippageBps", strconv.Itoa(req.SlippageBps))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.quoteEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build quote request: %w", err)
	}
	c.applyHeaders(httpReq)

	body, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// BuildSwap asks the aggregator to assemble swap instructions from a quote.
// An empty return value means the aggregator produced no transaction for
// this leg.
func (c *Client) BuildSwap(ctx context.Context, req SwapRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal swap request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.swapEndpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build swap request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.applyHeaders(httpReq)

	body, err := c.do(httpReq)
	if err != nil {
		return "", err
	}

	var resp swapResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode swap response: %w", err)
	}
	return resp.SwapTransaction, nil
}

func (c *Client) applyHeaders(req *http.Request) {
	for key, values := range c.extraHeaders {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read aggregator response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("Aggregator request failed",
			zap.String("url", req.URL.Path),
			zap.Int("status", resp.StatusCode))
		return nil, &retry.StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
