package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"fraudscan/internal/ai"
)

type scriptedCaller struct {
	calls     []string
	responses map[string]string
	errs      map[string]error
}

func (s *scriptedCaller) Generate(_ context.Context, model, _ string) (string, error) {
	s.calls = append(s.calls, model)
	if err, ok := s.errs[model]; ok {
		return "", err
	}
	if resp, ok := s.responses[model]; ok {
		return resp, nil
	}
	return "", errors.New("no script for model " + model)
}

func TestChainFirstModelSucceeds(t *testing.T) {
	t.Parallel()

	caller := &scriptedCaller{responses: map[string]string{"m1": "hello"}}
	chain := NewChain(caller, []string{"m1", "m2"}, zap.NewNop())

	out, err := chain.GenerateContent(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hello" {
		t.Fatalf("unexpected output: %q", out)
	}
	if len(caller.calls) != 1 {
		t.Fatalf("expected 1 call, got %v", caller.calls)
	}
}

func TestChainAdvancesOnTransientFailure(t *testing.T) {
	t.Parallel()

	caller := &scriptedCaller{
		errs:      map[string]error{"m1": errors.New("internal error")},
		responses: map[string]string{"m2": "from m2"},
	}
	chain := NewChain(caller, []string{"m1", "m2"}, zap.NewNop())

	out, err := chain.GenerateContent(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "from m2" {
		t.Fatalf("unexpected output: %q", out)
	}
	if len(caller.calls) != 2 || caller.calls[0] != "m1" || caller.calls[1] != "m2" {
		t.Fatalf("unexpected call order: %v", caller.calls)
	}
}

func TestChainStopsOnQuotaError(t *testing.T) {
	t.Parallel()

	caller := &scriptedCaller{
		errs: map[string]error{"m1": errors.New("429 quota exceeded, retry in 12.5s")},
	}
	chain := NewChain(caller, []string{"m1", "m2", "m3"}, zap.NewNop())

	_, err := chain.GenerateContent(context.Background(), "prompt")

	var quota *ai.QuotaError
	if !errors.As(err, &quota) {
		t.Fatalf("expected QuotaError, got %v", err)
	}
	if quota.Provider != "m1" {
		t.Fatalf("unexpected provider: %q", quota.Provider)
	}
	if quota.RetryAfter != 12500*time.Millisecond {
		t.Fatalf("unexpected retry hint: %s", quota.RetryAfter)
	}
	if len(caller.calls) != 1 {
		t.Fatalf("quota failure must not advance the chain, calls: %v", caller.calls)
	}

	// A second request walks the list from the top again.
	_, _ = chain.GenerateContent(context.Background(), "prompt")
	if len(caller.calls) != 2 || caller.calls[1] != "m1" {
		t.Fatalf("expected request-scoped cursor, calls: %v", caller.calls)
	}
}

func TestChainExhausted(t *testing.T) {
	t.Parallel()

	caller := &scriptedCaller{
		errs: map[string]error{
			"m1": errors.New("boom"),
			"m2": errors.New("also boom"),
		},
	}
	chain := NewChain(caller, []string{"m1", "m2"}, zap.NewNop())

	_, err := chain.GenerateContent(context.Background(), "prompt")

	var exhausted *ai.ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
	if exhausted.Attempts != 2 {
		t.Fatalf("unexpected attempts: %d", exhausted.Attempts)
	}
	if len(caller.calls) != 2 {
		t.Fatalf("expected both models tried, got %v", caller.calls)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		quota      bool
		retryAfter time.Duration
	}{
		{
			name:       "quota by message token",
			err:        errors.New("rate limit reached"),
			quota:      true,
			retryAfter: 30 * time.Second,
		},
		{
			name:       "billing is quota",
			err:        errors.New("billing account not active"),
			quota:      true,
			retryAfter: 30 * time.Second,
		},
		{
			name:       "retry hint parsed",
			err:        errors.New("quota exhausted, please retry in 42s"),
			quota:      true,
			retryAfter: 42 * time.Second,
		},
		{
			name:  "plain failure is transient",
			err:   errors.New("connection reset by peer"),
			quota: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			classified := Classify("model-x", tt.err)
			if got := ai.IsQuota(classified); got != tt.quota {
				t.Fatalf("IsQuota=%v, want %v", got, tt.quota)
			}

			if tt.quota {
				var quota *ai.QuotaError
				if !errors.As(classified, &quota) {
					t.Fatalf("expected QuotaError")
				}
				if quota.RetryAfter != tt.retryAfter {
					t.Fatalf("retryAfter=%s, want %s", quota.RetryAfter, tt.retryAfter)
				}
			} else {
				var transient *ai.TransientError
				if !errors.As(classified, &transient) {
					t.Fatalf("expected TransientError, got %v", classified)
				}
			}
		})
	}
}
