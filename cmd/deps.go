package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-tailor/internal/ai"
	"github.com/spigell/resume-tailor/internal/ai/gemini"
	"github.com/spigell/resume-tailor/internal/ai/heuristic"
	"github.com/spigell/resume-tailor/internal/ai/huggingface"
	"github.com/spigell/resume-tailor/internal/ai/openai"
	"github.com/spigell/resume-tailor/internal/jobsearch"
	"github.com/spigell/resume-tailor/internal/notify"
	"github.com/spigell/resume-tailor/internal/render"
	"github.com/spigell/resume-tailor/internal/secrets"
	"github.com/spigell/resume-tailor/internal/tailor"
)

// buildChain assembles gemini, openai and huggingface in that order and always
// terminates the chain with the heuristic provider.
func buildChain(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (*ai.Chain, error) {
	if cfg == nil {
		cfg = &AIConfig{}
	}

	providers := make([]ai.Provider, 0, 4)

	if g := cfg.Gemini; g == nil || !g.Disabled {
		if g == nil {
			g = &GeminiConfig{}
		}
		key, err := secrets.LoadOptional(secrets.Source{Name: "gemini api key", Value: g.APIKey, File: g.APIKeyFile})
		if err != nil {
			return nil, err
		}
		p, err := gemini.NewProvider(ctx, gemini.Config{
			APIKey:       key,
			Model:        g.Model,
			Timeout:      g.Timeout,
			MaxLogLength: cfg.MaxLogLength,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("building gemini provider: %w", err)
		}
		providers = append(providers, p)
	}

	if o := cfg.OpenAI; o == nil || !o.Disabled {
		if o == nil {
			o = &OpenAIConfig{}
		}
		key, err := secrets.LoadOptional(secrets.Source{Name: "openai api key", Value: o.APIKey, File: o.APIKeyFile})
		if err != nil {
			return nil, err
		}
		p, err := openai.NewProvider(openai.Config{
			APIKey:       key,
			BaseURL:      o.BaseURL,
			Model:        o.Model,
			MaxTokens:    o.MaxTokens,
			Timeout:      o.Timeout,
			MaxLogLength: cfg.MaxLogLength,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("building openai provider: %w", err)
		}
		providers = append(providers, p)
	}

	if h := cfg.HuggingFace; h == nil || !h.Disabled {
		if h == nil {
			h = &HuggingFaceConfig{}
		}
		key, err := secrets.LoadOptional(secrets.Source{Name: "huggingface api key", Value: h.APIKey, File: h.APIKeyFile})
		if err != nil {
			return nil, err
		}
		p, err := huggingface.NewProvider(huggingface.Config{
			APIKey:       key,
			URL:          h.URL,
			Timeout:      h.Timeout,
			MaxLogLength: cfg.MaxLogLength,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("building huggingface provider: %w", err)
		}
		providers = append(providers, p)
	}

	providers = append(providers, heuristic.New())

	return ai.NewChain(logger, providers...)
}

// useBasePDF points the pipeline at the PDF résumé when the base document is
// missing and reports whether it did.
func useBasePDF(cfg *tailor.Config, logger *zap.Logger) bool {
	if cfg == nil || strings.TrimSpace(cfg.BasePDF) == "" {
		return false
	}
	if _, err := os.Stat(cfg.BaseResume); err == nil {
		return false
	}
	if _, err := os.Stat(cfg.BasePDF); err != nil {
		return false
	}

	logger.Info("base resume not found, reading the pdf instead",
		zap.String("base_resume", cfg.BaseResume),
		zap.String("base_pdf", cfg.BasePDF),
	)
	cfg.BaseResume = cfg.BasePDF
	return true
}

func buildPipeline(ctx context.Context, config *Config, logger *zap.Logger) (*tailor.Pipeline, error) {
	chain, err := buildChain(ctx, config.AI, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("provider chain is ready", zap.Strings("providers", chain.Names()))

	var opts []tailor.Option
	if config.Render != nil && config.Render.PDF {
		opts = append(opts, tailor.WithRenderer(render.NewLibreOffice(config.Render.Binary, config.Render.Timeout, logger)))
	}

	return tailor.New(*config.Tailor, chain, logger, opts...)
}

// buildNotifier returns every configured channel. Without any it falls back to the log.
func buildNotifier(config *Config, logger *zap.Logger) (notify.Notifier, error) {
	var channels notify.Multi

	if config.Notify != nil && config.Notify.Telegram != nil {
		tg := config.Notify.Telegram
		token, err := secrets.LoadOptional(secrets.Source{Name: "telegram bot token", Value: tg.Token, File: tg.TokenFile})
		if err != nil {
			return nil, err
		}
		if token != "" && strings.TrimSpace(tg.ChatID) != "" {
			telegram, err := notify.NewTelegram(token, tg.ChatID, logger)
			if err != nil {
				return nil, err
			}
			channels = append(channels, telegram)
		}
	}

	if config.Notify != nil && config.Notify.Email != nil {
		em := config.Notify.Email
		password, err := secrets.LoadOptional(secrets.Source{Name: "email password", Value: em.Password, File: em.PasswordFile})
		if err != nil {
			return nil, err
		}
		if em.Sender != "" && em.To != "" && password != "" {
			email, err := notify.NewEmail(notify.EmailConfig{
				Host:     em.Host,
				Port:     em.Port,
				Sender:   em.Sender,
				Password: password,
				To:       em.To,
				Subject:  em.Subject,
			})
			if err != nil {
				return nil, err
			}
			channels = append(channels, email)
		}
	}

	if len(channels) == 0 {
		return &notify.Log{Logger: logger}, nil
	}

	return channels, nil
}

// buildSource returns the live search client wrapped with the cache, or the
// cache alone when fromCache is set.
func buildSource(config *Config, fromCache bool, logger *zap.Logger) (jobsearch.Source, error) {
	if fromCache {
		return &jobsearch.FileSource{Path: config.CacheFile}, nil
	}

	google := config.Google
	if google == nil {
		google = &GoogleConfig{}
	}

	key, err := secrets.Load(secrets.Source{Name: "google api key", Value: google.APIKey, File: google.APIKeyFile})
	if err != nil {
		return nil, fmt.Errorf("%w (set GOOGLE_API_KEY or google.api_key_file)", err)
	}
	if strings.TrimSpace(google.CX) == "" {
		return nil, fmt.Errorf("google search engine id is not configured (set GOOGLE_CXID or google.cx)")
	}

	var source jobsearch.Source = jobsearch.New(logger, key, google.CX)
	if config.CacheFile != "" {
		source = &jobsearch.CachingSource{Source: source, Path: config.CacheFile}
	}

	return source, nil
}
