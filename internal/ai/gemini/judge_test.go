package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"fraudscan/internal/ai"
	"fraudscan/internal/search"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestJudgeSearchResults(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{
		response: "```json\n{\"riskScore\": 80, \"riskLevel\": \"High\", \"insight\": \"Multiple scam reports\", \"warnings\": [\"asks for deposits\"]}\n```",
	}
	judge := NewJudge(stub, zap.NewNop(), 0)

	results := []search.Result{
		{Title: "Acme scam report", Snippet: "many complaints about deposits"},
	}

	judgment, err := judge.JudgeSearchResults(context.Background(), "Acme", results)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if judgment.RiskScore != 80 {
		t.Fatalf("unexpected score: %d", judgment.RiskScore)
	}
	if judgment.RiskLevel != "High" {
		t.Fatalf("unexpected level: %q", judgment.RiskLevel)
	}
	if len(judgment.Warnings) != 1 || judgment.Warnings[0] != "asks for deposits" {
		t.Fatalf("unexpected warnings: %v", judgment.Warnings)
	}
	if judgment.Raw == "" {
		t.Fatal("expected raw response to be kept")
	}

	if !strings.Contains(stub.lastPrompt, "Acme scam report: many complaints about deposits") {
		t.Fatalf("search context missing from prompt: %s", stub.lastPrompt)
	}
}

func TestJudgeSearchResultsEmpty(t *testing.T) {
	t.Parallel()

	judge := NewJudge(&stubGenerator{}, zap.NewNop(), 0)
	if _, err := judge.JudgeSearchResults(context.Background(), "Acme", nil); err == nil {
		t.Fatal("expected error for empty results")
	}
}

func TestJudgeCoercesLooseTypes(t *testing.T) {
	t.Parallel()

	// Models frequently return numbers as strings.
	stub := &stubGenerator{
		response: `{"riskScore": "65", "riskLevel": "Medium", "insight": "so-so"}`,
	}
	judge := NewJudge(stub, zap.NewNop(), 0)

	judgment, err := judge.JudgeSearchResults(context.Background(), "Acme", []search.Result{{Title: "x"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if judgment.RiskScore != 65 {
		t.Fatalf("expected coerced score 65, got %d", judgment.RiskScore)
	}
}

func TestJudgeClampsScore(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{
		response: `{"riskScore": 250, "riskLevel": "High", "insight": "x"}`,
	}
	judge := NewJudge(stub, zap.NewNop(), 0)

	judgment, err := judge.JudgeSearchResults(context.Background(), "Acme", []search.Result{{Title: "x"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if judgment.RiskScore != 100 {
		t.Fatalf("expected clamp to 100, got %d", judgment.RiskScore)
	}
}

func TestJudgeMalformedResponse(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{response: "I cannot help with that."}
	judge := NewJudge(stub, zap.NewNop(), 0)

	if _, err := judge.JudgeSearchResults(context.Background(), "Acme", []search.Result{{Title: "x"}}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestAnalyzeCompanyQuotaDegradesToPlaceholder(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{
		err: &ai.QuotaError{Provider: "m1", Err: errors.New("429")},
	}
	judge := NewJudge(stub, zap.NewNop(), 0)

	judgment, err := judge.AnalyzeCompany(context.Background(), "Acme", "description")
	if err != nil {
		t.Fatalf("quota must degrade, not fail: %v", err)
	}
	if judgment.RiskScore != 0 || judgment.RiskLevel != "Low" {
		t.Fatalf("unexpected placeholder: %+v", judgment)
	}
	if !strings.Contains(judgment.Insight, "quota") {
		t.Fatalf("placeholder insight should mention quota: %q", judgment.Insight)
	}
}

func TestAnalyzeCompanyOtherErrorsPropagate(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{err: errors.New("network down")}
	judge := NewJudge(stub, zap.NewNop(), 0)

	if _, err := judge.AnalyzeCompany(context.Background(), "Acme", "description"); err == nil {
		t.Fatal("expected error to propagate")
	}
}
