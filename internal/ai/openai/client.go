package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/spigell/resume-tailor/internal/ai"
	"go.uber.org/zap"
)

const (
	providerName       = "openai"
	defaultModel       = "gpt-4o-mini"
	defaultTemperature = float32(0.1)
	defaultMaxTokens   = 700
	defaultTimeout     = 60 * time.Second
)

// Config holds the settings of an OpenAI-compatible chat completions backend.
type Config struct {
	APIKey       string
	BaseURL      string
	Model        string
	MaxTokens    int
	Timeout      time.Duration
	MaxLogLength int
}

// Client sends prompts to the chat completions endpoint.
type Client struct {
	client      *goopenai.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key: %w", ai.ErrMissingCredential)
	}

	clientCfg := goopenai.DefaultConfig(apiKey)
	if baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	clientCfg.HTTPClient = &http.Client{}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Client{
		client:      goopenai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: defaultTemperature,
		maxTokens:   maxTokens,
	}, nil
}

func (c *Client) Model() string { return c.model }

// Complete sends the prompt as a single user message and returns the first choice.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", toStatusError(err))
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in chat completion", ai.ErrMalformed)
	}

	return resp.Choices[0].Message.Content, nil
}

func toStatusError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		status := ""
		if code, ok := apiErr.Code.(string); ok {
			status = code
		}
		return &ai.StatusError{Code: apiErr.HTTPStatusCode, Status: status, Body: apiErr.Message}
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		body := ""
		if reqErr.Err != nil {
			body = reqErr.Err.Error()
		}
		return &ai.StatusError{Code: reqErr.HTTPStatusCode, Body: body}
	}

	return err
}

// NewProvider builds the OpenAI provider. Without an API key it returns a
// provider that reports AuthMissing on every call.
func NewProvider(cfg Config, logger *zap.Logger) (ai.Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return ai.Unconfigured(providerName, "OPENAI_API_KEY is not set"), nil
	}

	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return ai.NewCompletionProvider(ai.CompletionConfig{
		Name:         providerName,
		Model:        client.Model(),
		Timeout:      timeout,
		MaxLogLength: cfg.MaxLogLength,
	}, client, logger), nil
}
