package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spigell/resume-tailor/internal/ai"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	providerName       = "gemini"
	defaultModel       = "gemini-2.5-flash"
	defaultTemperature = float32(0.2)
	defaultTimeout     = 60 * time.Second
)

// Config holds the settings of the Gemini provider.
type Config struct {
	APIKey       string
	Model        string
	Timeout      time.Duration
	MaxLogLength int
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator wraps the Google GenAI client to provide simple prompt-based interactions.
type Generator struct {
	models      contentGenerator
	modelName   string
	temperature float32
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key: %w", ai.ErrMissingCredential)
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(client.Models, model), nil
}

func newGenerator(models contentGenerator, model string) *Generator {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	return &Generator{models: models, modelName: model, temperature: defaultTemperature}
}

// Complete sends the prompt to Gemini asking for a JSON answer and returns the
// concatenated text parts of the response.
func (g *Generator) Complete(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      &temperature,
	}

	resp, err := g.models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", toStatusError(err))
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", fmt.Errorf("%w: gemini api returned empty response", ai.ErrMalformed)
	}

	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}

// toStatusError keeps the API error text and exposes its HTTP code to the classifier.
func toStatusError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ai.StatusError{Code: apiErr.Code, Status: apiErr.Status, Body: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &ai.StatusError{Code: apiErrPtr.Code, Status: apiErrPtr.Status, Body: apiErrPtr.Message}
	}
	return err
}

// NewProvider builds the Gemini provider. Without an API key it returns a
// provider that reports AuthMissing on every call.
func NewProvider(ctx context.Context, cfg Config, logger *zap.Logger) (ai.Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return ai.Unconfigured(providerName, "GEMINI_API_KEY is not set"), nil
	}

	generator, err := NewGenerator(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return nil, err
	}

	return newProvider(generator, cfg, logger), nil
}

func newProvider(generator *Generator, cfg Config, logger *zap.Logger) ai.Provider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return ai.NewCompletionProvider(ai.CompletionConfig{
		Name:         providerName,
		Model:        generator.Model(),
		Timeout:      cfg.Timeout,
		MaxLogLength: cfg.MaxLogLength,
	}, generator, logger)
}
