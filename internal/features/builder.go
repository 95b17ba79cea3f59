package features

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"fraudscan/internal/catalog"
	"fraudscan/internal/extract"
	"fraudscan/internal/jobsearch"
)

// indeedJobsCap bounds the jobsOnIndeed feature. The value is a training
// constant, not a derived quantity.
const indeedJobsCap = 10

// Enricher resolves the company's job-board presence.
type Enricher interface {
	Presence(ctx context.Context, companyName string) *jobsearch.Presence
}

// Set bundles the vector with the intermediate extractions that produced
// it, so callers do not rescan the text.
type Set struct {
	Vector   Vector
	Signals  []string
	Info     extract.Info
	Presence *jobsearch.Presence
}

type Builder struct {
	enricher Enricher
	logger   *zap.Logger
}

func NewBuilder(enricher Enricher, logger *zap.Logger) *Builder {
	return &Builder{enricher: enricher, logger: logger}
}

// Build runs signal extraction, info extraction and the job-board lookup
// concurrently, joins them and assembles the vector. The three branches
// share no data; the lookup is the only slow one.
func (b *Builder) Build(ctx context.Context, companyName, description string) *Set {
	set := &Set{}

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		set.Signals = extract.Signals(description)
	}()
	go func() {
		defer wg.Done()
		set.Info = extract.ParseInfo(description)
	}()
	go func() {
		defer wg.Done()
		set.Presence = b.enricher.Presence(ctx, companyName)
	}()

	wg.Wait()

	lower := strings.ToLower(description)

	set.Vector = Vector{
		HasUrgent:       boolFeature(containsAny(lower, catalog.UrgencyTerms)),
		NoInterview:     boolFeature(containsAny(lower, catalog.NoInterviewTerms)),
		QuickMoney:      boolFeature(containsAny(lower, catalog.QuickMoneyTerms)),
		KeywordCount:    len(set.Signals),
		DomainMismatch:  domainMismatch(companyName, set.Info.ContactEmail),
		FoundOnLinkedIn: boolFeature(set.Presence.FoundOnLinkedIn),
		JobsOnIndeed:    indeedJobs(set.Presence),
		FoundOnNaukri:   boolFeature(set.Presence.FoundOnNaukri),
		TotalJobs:       set.Presence.TotalResults,
	}

	b.logger.Debug("feature vector built",
		zap.String("company", companyName),
		zap.Int("keyword_count", set.Vector.KeywordCount),
		zap.Int("total_jobs", set.Vector.TotalJobs),
	)

	return set
}

// domainMismatch flags a contact email with no textual relation to the
// company name. Without an email or a name there is nothing to assess,
// so the feature stays 0.
func domainMismatch(companyName, email string) int {
	if email == extract.NoEmail || strings.TrimSpace(companyName) == "" {
		return 0
	}

	compact := strings.Join(strings.Fields(strings.ToLower(companyName)), "")
	if compact == "" {
		return 0
	}

	if strings.Contains(strings.ToLower(email), compact) {
		return 0
	}
	return 1
}

func indeedJobs(p *jobsearch.Presence) int {
	if !p.FoundOnIndeed {
		return 0
	}
	jobs := p.TotalResults
	if jobs < 1 {
		jobs = 1
	}
	if jobs > indeedJobsCap {
		jobs = indeedJobsCap
	}
	return jobs
}

func containsAny(lower string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func boolFeature(b bool) int {
	if b {
		return 1
	}
	return 0
}
