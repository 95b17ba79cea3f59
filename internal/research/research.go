// Package research runs the web-search-plus-model-judgment enrichment
// pass for a company.
package research

import (
	"context"
	"strings"
	"time"

	_ "embed"

	"go.uber.org/zap"

	"fraudscan/internal/ai"
	"fraudscan/internal/search"
	"fraudscan/internal/utils"
)

//go:embed research_prompt.md
var fallbackPromptTemplate string

// Query angles probed for every company.
var querySuffixes = []string{"company reviews", "scam", "fraud", "complaints"}

const (
	perQueryLimit  = 5
	maxResults     = 10
	snippetLimit   = 1000
	interQueryWait = time.Second
)

// Searcher is the slice of the search client this package needs.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]search.Result, error)
}

// Judge converts search material into a structured judgment.
type Judge interface {
	JudgeSearchResults(ctx context.Context, companyName string, results []search.Result) (*ai.Judgment, error)
}

// Report is the outcome of one research pass. A missing Judgment is a
// normal outcome, not a failure: the aggregator falls back to ML-only
// scoring.
type Report struct {
	Results  []search.Result `json:"results"`
	Judgment *ai.Judgment    `json:"judgment,omitempty"`

	// QuotaLimited records that the model quota blocked the pass, so
	// callers can skip further model calls for this request.
	QuotaLimited bool `json:"quotaLimited,omitempty"`
	// AIFallback marks results synthesized by a model because the
	// search provider was unreachable.
	AIFallback bool `json:"aiFallback,omitempty"`
}

// Succeeded reports whether the pass produced usable search material.
func (r *Report) Succeeded() bool {
	return r != nil && len(r.Results) > 0
}

type Researcher struct {
	searcher  Searcher
	judge     Judge
	generator ai.Generator
	logger    *zap.Logger
	delay     time.Duration
}

func New(searcher Searcher, judge Judge, generator ai.Generator, logger *zap.Logger) *Researcher {
	return &Researcher{
		searcher:  searcher,
		judge:     judge,
		generator: generator,
		logger:    logger,
		delay:     interQueryWait,
	}
}

// Research probes several search angles for the company, dedupes the
// hits and asks the model to judge them. Every failure mode degrades:
// searches that fail fall back to an AI research summary, and a failed
// judgment leaves the report without one.
func (r *Researcher) Research(ctx context.Context, companyName string) *Report {
	var (
		collected []search.Result
		failures  int
	)

	for i, suffix := range querySuffixes {
		if i > 0 {
			if err := utils.WaitFor(ctx, r.delay); err != nil {
				break
			}
		}

		results, err := r.searcher.Search(ctx, companyName+" "+suffix, perQueryLimit)
		if err != nil {
			failures++
			r.logger.Warn("research query failed",
				zap.String("company", companyName),
				zap.String("angle", suffix),
				zap.Error(err),
			)
			continue
		}

		collected = append(collected, results...)
	}

	unique := search.Dedupe(collected)
	if len(unique) > maxResults {
		unique = unique[:maxResults]
	}

	if len(unique) == 0 {
		if failures > 0 {
			return r.fallbackResearch(ctx, companyName)
		}
		r.logger.Debug("no research results", zap.String("company", companyName))
		return &Report{}
	}

	report := &Report{Results: unique}
	r.attachJudgment(ctx, companyName, report)
	return report
}

// fallbackResearch asks the model itself for a research summary when
// the search provider is unreachable.
func (r *Researcher) fallbackResearch(ctx context.Context, companyName string) *Report {
	r.logger.Info("search unreachable, using model research fallback",
		zap.String("company", companyName),
	)

	prompt := strings.ReplaceAll(fallbackPromptTemplate, "{{COMPANY}}", companyName)

	text, err := r.generator.GenerateContent(ctx, prompt)
	if err != nil {
		if ai.IsQuota(err) {
			r.logger.Warn("model quota exceeded during research fallback", zap.Error(err))
			return &Report{QuotaLimited: true}
		}
		r.logger.Warn("research fallback failed", zap.Error(err))
		return &Report{}
	}

	report := &Report{
		Results: []search.Result{{
			Title:   "AI Research: " + companyName,
			Snippet: utils.TruncateForLog(text, snippetLimit),
		}},
		AIFallback: true,
	}

	r.attachJudgment(ctx, companyName, report)
	return report
}

func (r *Researcher) attachJudgment(ctx context.Context, companyName string, report *Report) {
	judgment, err := r.judge.JudgeSearchResults(ctx, companyName, report.Results)
	if err != nil {
		if ai.IsQuota(err) {
			report.QuotaLimited = true
			r.logger.Warn("model quota exceeded, skipping judgment",
				zap.String("company", companyName),
			)
			return
		}
		r.logger.Warn("judgment failed",
			zap.String("company", companyName),
			zap.Error(err),
		)
		return
	}

	report.Judgment = judgment
}
