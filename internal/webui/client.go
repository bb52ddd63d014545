package webui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/aicorp/aicorp/internal/config"
	"github.com/aicorp/aicorp/internal/observability"
)

// Fixed transport deadlines. Generation can be overridden per call via the
// reserved timeout parameter; model listing cannot.
const (
	listTimeout            = 10 * time.Second
	defaultGenerateTimeout = 30 * time.Second
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// Client talks to one WebUI service. It issues exactly one HTTP attempt per
// call and never retries.
type Client struct {
	cfg  *config.Config
	http *http.Client
	log  *observability.Logger
}

// New creates a client for the configured WebUI service.
func New(cfg *config.Config, log *observability.Logger, opts ...Option) *Client {
	c := &Client{
		cfg:  cfg,
		http: &http.Client{},
		log:  log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// modelsResponse mirrors GET /api/v1/models.
type modelsResponse struct {
	Data []struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		OwnedBy string `json:"owned_by"`
	} `json:"data"`
}

// ListModels fetches the provider's model list. The display name falls back
// to the id when the provider omits it.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	log := c.log.With("request_id", uuid.NewString())
	log.Info("fetching available models", "endpoint", c.cfg.ModelsEndpoint())

	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.ModelsEndpoint(), nil)
	if err != nil {
		return nil, &TransportError{Cause: fmt.Errorf("create request: %w", err)}
	}
	c.setHeaders(req, log)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error("model list request failed", "error", err)
		return nil, &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Cause: fmt.Errorf("read response: %w", err)}
	}
	log.Debug("model list response", "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed modelsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &TransportError{Cause: fmt.Errorf("unparsable model list: %w", err)}
	}

	models := make([]Model, 0, len(parsed.Data))
	for _, m := range parsed.Data {
		name := m.Name
		if name == "" {
			name = m.ID
		}
		models = append(models, Model{ID: m.ID, DisplayName: name, OwnedBy: m.OwnedBy})
	}
	log.Info("models fetched", "count", len(models))
	return models, nil
}

// SendPrompt validates a free-form prompt, builds the payload, and issues the
// completion request. Extra params pass through the allow-list; the reserved
// timeout param overrides the 30s default deadline.
func (c *Client) SendPrompt(ctx context.Context, prompt, model string, params map[string]any) (*Completion, error) {
	payload, err := buildPayload(prompt, model, c.cfg.DefaultModel, c.cfg.SystemPrompt, params, c.log)
	if err != nil {
		return nil, err
	}

	timeout := defaultGenerateTimeout
	if t, ok := timeoutFromParams(params); ok {
		timeout = t
	}
	return c.generate(ctx, payload, timeout)
}

// SendChat serializes a structured message list to a transcript and sends it
// as a free-form prompt.
func (c *Client) SendChat(ctx context.Context, messages []ChatMessage, model string, params map[string]any) (*Completion, error) {
	transcript, err := Transcript(messages)
	if err != nil {
		return nil, err
	}
	return c.SendPrompt(ctx, transcript, model, params)
}

// generate performs the single POST and classifies the outcome.
func (c *Client) generate(ctx context.Context, payload map[string]any, timeout time.Duration) (*Completion, error) {
	log := c.log.With("request_id", uuid.NewString())
	log.Info("sending completion request", "endpoint", c.cfg.GenerateEndpoint(), "model", payload["model"])

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransportError{Cause: fmt.Errorf("marshal request: %w", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GenerateEndpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Cause: fmt.Errorf("create request: %w", err)}
	}
	c.setHeaders(req, log)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Error("completion request failed", "error", err)
		return nil, &TransportError{Cause: err}
	}
	defer resp.Body.Close()
	elapsed := time.Since(start)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Cause: fmt.Errorf("read response: %w", err)}
	}
	log.Debug("completion response", "status", resp.StatusCode, "bytes", len(respBody), "elapsed", elapsed)

	result, err := classify(resp.StatusCode, respBody, elapsed)
	if err != nil {
		log.Error("completion failed", "error", err)
		return nil, err
	}
	log.Info("completion succeeded", "model", result.Model)
	return result, nil
}

// setHeaders applies the configured headers, logging them with the
// authorization value masked.
func (c *Client) setHeaders(req *http.Request, log *observability.Logger) {
	for key, values := range c.cfg.Headers() {
		for _, v := range values {
			req.Header.Set(key, v)
		}
	}
	safe := map[string]string{}
	for key := range req.Header {
		if key == "Authorization" || key == "X-Api-Key" {
			safe[key] = "***"
		} else {
			safe[key] = req.Header.Get(key)
		}
	}
	log.Debug("request headers", "headers", safe)
}
