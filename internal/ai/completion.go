package ai

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/spigell/resume-tailor/internal/logger"
	"github.com/spigell/resume-tailor/internal/utils"
	"go.uber.org/zap"
)

const defaultMaxLogLength = 200

// Completer sends a prompt to a text-generation backend and returns its raw answer.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompletionConfig describes a prompt-driven provider.
type CompletionConfig struct {
	Name         string
	Model        string
	Timeout      time.Duration
	MaxLogLength int
}

// CompletionProvider turns a Completer into a Provider. Every error of the
// backend and every unusable answer is reported as a classified failure.
type CompletionProvider struct {
	name      string
	completer Completer
	timeout   time.Duration
	logger    *zap.Logger
	maxLogLen int
}

func NewCompletionProvider(cfg CompletionConfig, completer Completer, log *zap.Logger) *CompletionProvider {
	if cfg.MaxLogLength <= 0 {
		cfg.MaxLogLength = defaultMaxLogLength
	}

	return &CompletionProvider{
		name:      cfg.Name,
		completer: completer,
		timeout:   cfg.Timeout,
		logger:    logger.WithProvider(log, cfg.Name, cfg.Model),
		maxLogLen: cfg.MaxLogLength,
	}
}

func (p *CompletionProvider) Name() string { return p.name }

func (p *CompletionProvider) Generate(ctx context.Context, req Request) Outcome {
	if p.completer == nil {
		return Failed(FailureAuthMissing, "%s provider is not configured", p.name)
	}

	prompt := BuildPrompt(req)

	p.logger.Debug("generate content request",
		zap.String("job_title", req.JobTitle),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, p.maxLogLen)),
	)

	callCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	raw, err := p.completer.Complete(callCtx, prompt)
	if err != nil {
		kind := Classify(err)
		if kind == FailureUnknown && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			kind = FailureNetwork
		}
		return Failed(kind, "%s", err.Error())
	}

	p.logger.Debug("generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, p.maxLogLen)),
	)

	update, err := ParseUpdate(raw)
	if err != nil {
		return Failed(FailureMalformedResponse, "%s", err.Error())
	}

	return Succeeded(update)
}

type unconfigured struct {
	name   string
	reason string
}

// Unconfigured returns a provider that fails every call with AuthMissing
// without touching the network. It stands in for a backend whose credential
// was absent at construction.
func Unconfigured(name, reason string) Provider {
	return &unconfigured{name: name, reason: reason}
}

func (u *unconfigured) Name() string { return u.name }

func (u *unconfigured) Generate(context.Context, Request) Outcome {
	return Failed(FailureAuthMissing, "%s: %s", ErrMissingCredential, u.reason)
}
