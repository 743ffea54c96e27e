package narrative

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
)

// Config configures the completion client.
type Config struct {
	// Endpoint is the base URL of the service (default: https://api.openai.com).
	Endpoint string `yaml:"endpoint"`

	// Model is the model name sent in the request (default: gpt-4o).
	Model string `yaml:"model"`

	// APIKey is the bearer credential. Required.
	APIKey string `yaml:"-"`

	// Timeout per HTTP request. 0 means no timeout: a stalled service
	// stalls the run, which is the accepted behavior.
	Timeout time.Duration `yaml:"timeout"`

	// Logger for debug messages. Defaults to slog.Default().
	Logger *slog.Logger `yaml:"-"`
}

func (c *Config) defaults() {
	if c.Endpoint == "" {
		c.Endpoint = "https://api.openai.com"
	}
	if c.Model == "" {
		c.Model = "gpt-4o"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Client talks to an OpenAI-compatible chat completion endpoint.
type Client struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
	logger   *slog.Logger
}

// NewClient creates a completion client.
func NewClient(cfg Config) *Client {
	cfg.defaults()
	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: cfg.Timeout},
		logger:   cfg.Logger,
	}
}

// chatRequest is the JSON body sent to /v1/chat/completions.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the JSON response (OpenAI format).
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete issues one blocking completion call and returns the generated
// text as an object-content Response.
func (c *Client) Complete(ctx context.Context, prompt string) (Response, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return Response{}, &ServiceError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	url := c.endpoint + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Response{}, &ServiceError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug("narrative call", "model", c.model, "prompt_bytes", len(prompt))

	resp, err := c.client.Do(req)
	if err != nil {
		return Response{}, &ServiceError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, &ServiceError{Err: fmt.Errorf("read response: %w", err)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return Response{}, &ServiceError{Status: resp.StatusCode, Message: fmt.Sprintf("invalid response body: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := http.StatusText(resp.StatusCode)
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return Response{}, &ServiceError{Status: resp.StatusCode, Message: msg}
	}
	if len(parsed.Choices) == 0 {
		return Response{}, &ServiceError{Status: resp.StatusCode, Message: "no choices in response"}
	}

	return Content(parsed.Choices[0].Message.Content), nil
}
