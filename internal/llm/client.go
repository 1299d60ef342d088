// Package llm is a thin client for the Anthropic Messages API. It backs the
// optional README review and strategy enhancement steps; everything else in
// the agent works without it.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	cerrors "github.com/p-blackswan/contrib-agent/internal/errors"
)

const (
	defaultBaseURL   = "https://api.anthropic.com/v1"
	apiVersion       = "2023-06-01"
	defaultModel     = "claude-3-haiku-20240307"
	defaultMaxTokens = 1024
)

// Client talks to the Anthropic Messages API.
type Client struct {
	apiKey    string
	model     string
	maxTokens int
	baseURL   string
	http      *http.Client
	logger    zerolog.Logger
}

// Option configures the client.
type Option func(*Client)

func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

func WithMaxTokens(n int) Option {
	return func(c *Client) { c.maxTokens = n }
}

func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New constructs a client. The API key is required.
func New(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: anthropic api key is required", cerrors.ErrInvalidInput)
	}
	c := &Client{
		apiKey:    apiKey,
		model:     defaultModel,
		maxTokens: defaultMaxTokens,
		baseURL:   defaultBaseURL,
		http:      &http.Client{Timeout: 60 * time.Second},
		logger:    logger.With().Str("component", "llm").Logger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.model }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type messagesResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends a single-turn completion and returns the text response.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    system,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: anthropic: %v", cerrors.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	var mr messagesResponse
	if err := json.Unmarshal(raw, &mr); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if mr.Error != nil {
		return "", cerrors.NewAPIError("anthropic", resp.StatusCode, mr.Error.Type+": "+mr.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", cerrors.NewAPIError("anthropic", resp.StatusCode, "unexpected status")
	}

	var text string
	for _, block := range mr.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	c.logger.Debug().
		Str("model", c.model).
		Str("stop_reason", mr.StopReason).
		Int("input_tokens", mr.Usage.InputTokens).
		Int("output_tokens", mr.Usage.OutputTokens).
		Msg("completion finished")
	return text, nil
}

const reviewSystem = "You are an open source maintainer reviewing a project README. " +
	"Suggest up to three concrete improvements, one per line. Be brief."

// ReviewReadme asks the model for README improvement suggestions.
func (c *Client) ReviewReadme(ctx context.Context, readme string) (string, error) {
	const maxReadme = 4000
	if len(readme) > maxReadme {
		readme = readme[:maxReadme]
	}
	return c.Complete(ctx, reviewSystem, "Review this README:\n\n"+readme)
}

const enhanceSystem = "You are an experienced open source contributor advising on a " +
	"contribution plan. Point out what to watch for and how to maximize the chance " +
	"of the work being merged. Be brief and specific."

// EnhanceStrategy asks the model for commentary on a drafted contribution
// strategy summary.
func (c *Client) EnhanceStrategy(ctx context.Context, summary string) (string, error) {
	return c.Complete(ctx, enhanceSystem, summary)
}
