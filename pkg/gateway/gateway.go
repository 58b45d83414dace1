// Package gateway is the client for the upstream chat-completion service.
// It sends one request per call and leaves status interpretation to callers.
package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gruhabuddy/gruha/pkg/llm"
	"github.com/gruhabuddy/gruha/pkg/llm/provider"
	"github.com/gruhabuddy/gruha/pkg/prompt"
)

const (
	// DefaultEndpoint is the hosted AI gateway chat completions URL.
	DefaultEndpoint = "https://ai.gateway.lovable.dev/v1/chat/completions"

	// DefaultModel is the model requested for every design action.
	DefaultModel = "google/gemini-3-flash-preview"

	// DefaultTemperature keeps structured output stable.
	DefaultTemperature = 0.3
)

// ErrMissingCredential is returned when the provider needs an API key and
// none was configured.
var ErrMissingCredential = errors.New("gateway API key is not configured")

// Config configures the gateway client.
type Config struct {
	// Endpoint is the full chat completions URL.
	Endpoint string

	// APIKey is sent as a bearer token.
	APIKey string

	// Model requested upstream.
	Model string

	// Temperature sent with every request.
	Temperature float64

	// ProviderType selects the wire format ("openai" or "ollama").
	ProviderType string

	// Timeout bounds a whole call. Zero means no client side timeout.
	Timeout time.Duration
}

// Response is the raw upstream reply.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the upstream answered with a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client talks to the configured chat-completion gateway. It is safe for
// concurrent use.
type Client struct {
	config     Config
	prov       provider.Provider
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a gateway client. Missing fields take the hosted gateway
// defaults. A missing API key is reported per call, not here.
func New(c Config, logger *zap.Logger) (*Client, error) {
	if c.ProviderType == "" {
		c.ProviderType = provider.OpenAI
	}
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}

	prov, err := provider.New(c.ProviderType)
	if err != nil {
		return nil, fmt.Errorf("could not create new provider: %w", err)
	}

	return &Client{
		config:     c,
		prov:       prov,
		httpClient: &http.Client{Timeout: c.Timeout},
		logger:     logger,
	}, nil
}

// Provider returns the wire format in use.
func (c *Client) Provider() provider.Provider {
	return c.prov
}

// Model returns the model requested upstream.
func (c *Client) Model() string {
	return c.config.Model
}

// Complete sends the prompt pair as a single non-streaming request and
// returns whatever the gateway answered. It fails only when the request
// cannot be made or its body cannot be read.
func (c *Client) Complete(ctx context.Context, pair prompt.Pair) (*Response, error) {
	temperature := c.config.Temperature
	req := llm.NewPromptRequest(c.config.Model, pair.System, pair.User, &temperature)

	httpResp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading gateway response: %w", err)
	}

	c.logger.Debug("gateway responded",
		zap.Int("status", httpResp.StatusCode),
		zap.Int("bytes", len(body)),
	)

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
	}, nil
}

// Content decodes a successful gateway body. The returned message text is
// empty when the gateway produced no choices.
func (c *Client) Content(body []byte) (*llm.ChatResponse, error) {
	resp, err := c.prov.ParseResponse(body)
	if err != nil {
		return nil, fmt.Errorf("decoding gateway response: %w", err)
	}
	return resp, nil
}

// Stream sends a streaming chat request. The caller owns the returned
// response body and must close it. Non-2xx statuses are returned as is.
func (c *Client) Stream(ctx context.Context, messages []llm.Message) (*http.Response, error) {
	temperature := c.config.Temperature
	req := &llm.ChatRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Stream:      true,
		Temperature: &temperature,
	}
	return c.send(ctx, req)
}

func (c *Client) send(ctx context.Context, req *llm.ChatRequest) (*http.Response, error) {
	if c.prov.RequiresAPIKey() && c.config.APIKey == "" {
		return nil, ErrMissingCredential
	}

	body, err := c.prov.BuildRequest(req)
	if err != nil {
		return nil, fmt.Errorf("encoding gateway request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating gateway request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}
	if req.Stream && c.prov.StreamFraming() == provider.FramingSSE {
		httpReq.Header.Set("Accept", "text/event-stream")
	}

	c.logger.Debug("forwarding request to gateway",
		zap.String("url", c.config.Endpoint),
		zap.String("model", req.Model),
		zap.Bool("stream", req.Stream),
	)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	return httpResp, nil
}
