package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrChainExhausted is returned when no provider of a chain produced an update.
var ErrChainExhausted = errors.New("every provider failed")

// Attempt records one provider call made by a chain.
type Attempt struct {
	Provider string
	Failure  *Failure
	Duration time.Duration
}

// Result is the update produced by a chain together with the provider that produced it.
type Result struct {
	Update   TailorUpdate
	Provider string
	Attempts []Attempt
}

// Chain tries providers strictly in order until one succeeds.
type Chain struct {
	providers []Provider
	logger    *zap.Logger
}

func NewChain(logger *zap.Logger, providers ...Provider) (*Chain, error) {
	if len(providers) == 0 {
		return nil, errors.New("at least one provider is required")
	}
	for idx, p := range providers {
		if p == nil {
			return nil, fmt.Errorf("provider at position %d is nil", idx)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Chain{providers: providers, logger: logger}, nil
}

// Names returns provider names in chain order.
func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return names
}

// Run calls every provider in order, advancing on any failure kind.
func (c *Chain) Run(ctx context.Context, req Request) (*Result, error) {
	attempts := make([]Attempt, 0, len(c.providers))

	for _, provider := range c.providers {
		started := time.Now()
		outcome := provider.Generate(ctx, req)
		attempt := Attempt{Provider: provider.Name(), Duration: time.Since(started)}

		if outcome.OK() {
			attempts = append(attempts, attempt)
			c.logger.Info("provider produced an update",
				zap.String("provider", provider.Name()),
				zap.Int("attempts", len(attempts)),
				zap.Duration("duration", attempt.Duration),
			)
			return &Result{Update: *outcome.Update, Provider: provider.Name(), Attempts: attempts}, nil
		}

		attempt.Failure = outcome.Failure
		if attempt.Failure == nil {
			attempt.Failure = &Failure{Kind: FailureUnknown, Message: "provider returned an empty outcome"}
		}
		attempts = append(attempts, attempt)

		c.logger.Warn("provider failed, falling back to the next one",
			zap.String("provider", provider.Name()),
			zap.String("failure_kind", string(attempt.Failure.Kind)),
			zap.String("failure", attempt.Failure.Message),
		)
	}

	return &Result{Attempts: attempts}, ErrChainExhausted
}
