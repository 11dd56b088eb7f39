package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spigell/resume-tailor/internal/ai"
	"go.uber.org/zap"
)

const (
	providerName   = "huggingface"
	defaultURL     = "https://router.huggingface.co/hf-inference/models/google/gemma-2b-it"
	defaultTimeout = 120 * time.Second

	maxNewTokens = 512
	temperature  = 0.4
	maxErrorBody = 2048
)

// Config holds the settings of the Hugging Face inference provider.
type Config struct {
	APIKey       string
	URL          string
	Timeout      time.Duration
	MaxLogLength int
}

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type generation struct {
	GeneratedText *string `json:"generated_text"`
}

// Client calls a text-generation model through the inference router.
type Client struct {
	url    string
	apiKey string
	http   *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("huggingface api key: %w", ai.ErrMissingCredential)
	}

	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		url = defaultURL
	}

	return &Client{url: url, apiKey: apiKey, http: &http.Client{}}, nil
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(inferenceRequest{
		Inputs: prompt,
		Parameters: inferenceParameters{
			MaxNewTokens:   maxNewTokens,
			Temperature:    temperature,
			ReturnFullText: false,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text := strings.TrimSpace(string(body))
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return "", &ai.StatusError{Code: resp.StatusCode, Status: resp.Status, Body: text}
	}

	return generatedText(body), nil
}

// generatedText accepts a list of generations or a single object. Anything
// else is handed to the parser as is.
func generatedText(body []byte) string {
	var list []generation
	if err := json.Unmarshal(body, &list); err == nil && len(list) > 0 && list[0].GeneratedText != nil {
		return *list[0].GeneratedText
	}

	var single generation
	if err := json.Unmarshal(body, &single); err == nil && single.GeneratedText != nil {
		return *single.GeneratedText
	}

	return string(body)
}

// NewProvider builds the Hugging Face provider. Without an API key it returns
// a provider that reports AuthMissing on every call.
func NewProvider(cfg Config, logger *zap.Logger) (ai.Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return ai.Unconfigured(providerName, "HUGGINGFACE_API_KEY is not set"), nil
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
		Model:        modelFromURL(client.url),
		Timeout:      timeout,
		MaxLogLength: cfg.MaxLogLength,
	}, client, logger), nil
}

func modelFromURL(url string) string {
	if _, model, ok := strings.Cut(url, "/models/"); ok {
		return model
	}
	return ""
}
