package ai

import (
	"context"
	"errors"
	"slices"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubProvider struct {
	name    string
	outcome Outcome
	calls   int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Generate(context.Context, Request) Outcome {
	s.calls++
	return s.outcome
}

func TestChainFallsThroughToTerminalProvider(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	primary := &stubProvider{name: "primary", outcome: Failed(FailureQuota, "quota exhausted")}
	secondary := &stubProvider{name: "secondary", outcome: Failed(FailureNetwork, "connection reset")}
	terminal := &stubProvider{name: "terminal", outcome: Succeeded(TailorUpdate{Summary: "local"})}

	chain, err := NewChain(zap.New(core), primary, secondary, terminal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := chain.Run(context.Background(), Request{JobTitle: "QA"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Provider != "terminal" || result.Update.Summary != "local" {
		t.Fatalf("expected terminal update, got %+v", result)
	}

	if primary.calls != 1 || secondary.calls != 1 || terminal.calls != 1 {
		t.Fatalf("expected one call each, got %d/%d/%d", primary.calls, secondary.calls, terminal.calls)
	}

	if len(result.Attempts) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(result.Attempts))
	}
	if result.Attempts[0].Failure.Kind != FailureQuota || result.Attempts[1].Failure.Kind != FailureNetwork {
		t.Fatalf("unexpected attempt failures: %+v", result.Attempts)
	}
	if result.Attempts[2].Failure != nil {
		t.Fatalf("successful attempt should not carry a failure")
	}

	if warnings := observed.FilterLevelExact(zapcore.WarnLevel).Len(); warnings != 2 {
		t.Fatalf("expected 2 fallback warnings, got %d", warnings)
	}
}

func TestChainNeverSkipsLaterProviders(t *testing.T) {
	kinds := []FailureKind{
		FailureAuthMissing, FailureQuota, FailureRateLimited,
		FailureNetwork, FailureMalformedResponse, FailureUnknown,
	}

	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			first := &stubProvider{name: "first", outcome: Failed(kind, "failed")}
			last := &stubProvider{name: "last", outcome: Succeeded(TailorUpdate{})}

			chain, err := NewChain(nil, first, last)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			result, err := chain.Run(context.Background(), Request{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Provider != "last" || last.calls != 1 {
				t.Fatalf("expected the last provider to run after %s", kind)
			}
		})
	}
}

func TestChainStopsAtFirstSuccess(t *testing.T) {
	first := &stubProvider{name: "first", outcome: Succeeded(TailorUpdate{Skills: []string{"Go"}})}
	second := &stubProvider{name: "second", outcome: Succeeded(TailorUpdate{})}

	chain, _ := NewChain(zap.NewNop(), first, second)
	result, err := chain.Run(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Provider != "first" || second.calls != 0 {
		t.Fatalf("expected chain to stop at first provider")
	}
	if !slices.Equal(chain.Names(), []string{"first", "second"}) {
		t.Fatalf("unexpected names: %v", chain.Names())
	}
}

func TestChainExhausted(t *testing.T) {
	broken := &stubProvider{name: "broken"}
	chain, _ := NewChain(zap.NewNop(), broken, &stubProvider{name: "down", outcome: Failed(FailureNetwork, "down")})

	result, err := chain.Run(context.Background(), Request{})
	if !errors.Is(err, ErrChainExhausted) {
		t.Fatalf("expected ErrChainExhausted, got %v", err)
	}
	if len(result.Attempts) != 2 || result.Attempts[0].Failure.Kind != FailureUnknown {
		t.Fatalf("unexpected attempts: %+v", result.Attempts)
	}
}

func TestNewChainValidation(t *testing.T) {
	if _, err := NewChain(nil); err == nil {
		t.Fatal("expected error for empty chain")
	}
	if _, err := NewChain(nil, &stubProvider{name: "a"}, nil); err == nil {
		t.Fatal("expected error for nil provider")
	}
}
