package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"fraudscan/internal/ai"
	"fraudscan/internal/search"
	"fraudscan/internal/utils"
)

//go:embed judge_prompt.md
var judgePromptTemplate string

//go:embed analyze_prompt.md
var analyzePromptTemplate string

const defaultMaxLogLength = 200

// contentGenerator lets tests substitute the chain.
type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Judge turns research material into a structured risk judgment.
type Judge struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewJudge(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Judge {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Judge{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// JudgeSearchResults asks the model to score the company given search
// results about it.
func (j *Judge) JudgeSearchResults(ctx context.Context, companyName string, results []search.Result) (*ai.Judgment, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("no search results to judge")
	}

	var contextBuilder strings.Builder
	for _, r := range results {
		contextBuilder.WriteString(r.Title)
		contextBuilder.WriteString(": ")
		contextBuilder.WriteString(r.Snippet)
		contextBuilder.WriteString("\n")
	}

	prompt := strings.ReplaceAll(judgePromptTemplate, "{{COMPANY}}", companyName)
	prompt = strings.ReplaceAll(prompt, "{{SEARCH_RESULTS}}", contextBuilder.String())

	return j.judge(ctx, companyName, prompt)
}

// AnalyzeCompany asks the model to score the company from its own
// description alone. A quota failure degrades to the documented
// zero-risk placeholder instead of an error, so callers can always fall
// back to ML-only scoring.
func (j *Judge) AnalyzeCompany(ctx context.Context, companyName, description string) (*ai.Judgment, error) {
	prompt := strings.ReplaceAll(analyzePromptTemplate, "{{COMPANY}}", companyName)
	prompt = strings.ReplaceAll(prompt, "{{DESCRIPTION}}", description)

	judgment, err := j.judge(ctx, companyName, prompt)
	if err != nil {
		if ai.IsQuota(err) {
			j.logger.Warn("quota exceeded during analysis, degrading to ML-only placeholder",
				zap.String("company", companyName),
			)
			return &ai.Judgment{
				RiskScore: 0,
				RiskLevel: "Low",
				Insight:   "API quota exceeded - using ML model only",
			}, nil
		}
		return nil, err
	}

	return judgment, nil
}

func (j *Judge) judge(ctx context.Context, companyName, prompt string) (*ai.Judgment, error) {
	j.logger.Debug("judgment request",
		zap.String("company", companyName),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, j.maxLogLen)),
	)

	raw, err := j.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	j.logger.Debug("judgment response",
		zap.String("company", companyName),
		zap.String("response_preview", utils.TruncateForLog(raw, j.maxLogLen)),
	)

	judgment, err := parseJudgment(raw)
	if err != nil {
		return nil, err
	}

	judgment.Raw = raw
	return judgment, nil
}

func parseJudgment(raw string) (*ai.Judgment, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse judgment response: %w", err)
	}

	var judgment ai.Judgment
	cfg := &mapstructure.DecoderConfig{
		Result: &judgment,
		// Models return scores as strings or floats interchangeably.
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode judgment: %w", err)
	}

	if judgment.RiskScore < 0 {
		judgment.RiskScore = 0
	}
	if judgment.RiskScore > 100 {
		judgment.RiskScore = 100
	}

	return &judgment, nil
}

// extractJSON strips markdown code fences the models like to wrap JSON
// in.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
