// Package jobsearch resolves whether a company has a visible hiring
// footprint on the major job boards.
package jobsearch

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"fraudscan/internal/catalog"
	"fraudscan/internal/search"
	"fraudscan/internal/utils"
)

const (
	knownCompanyResults = 50
	perBoardLimit       = 10

	// Courtesy pause between board queries so the search provider does
	// not throttle us mid-lookup.
	interQueryDelay = 500 * time.Millisecond
)

// Searcher is the slice of the search client this package needs.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]search.Result, error)
}

// Presence describes a company's job-board footprint.
type Presence struct {
	FoundOnLinkedIn bool
	FoundOnIndeed   bool
	FoundOnNaukri   bool
	TotalResults    int

	// IsKnownCompany marks the short-circuit for well-known employers.
	IsKnownCompany bool
	// NoResults marks that every board came back empty.
	NoResults bool
}

type Lookup struct {
	searcher Searcher
	logger   *zap.Logger
	delay    time.Duration
}

func New(searcher Searcher, logger *zap.Logger) *Lookup {
	return &Lookup{
		searcher: searcher,
		logger:   logger,
		delay:    interQueryDelay,
	}
}

type board struct {
	name string
	mark func(*Presence)
}

var boards = []board{
	{name: "linkedin", mark: func(p *Presence) { p.FoundOnLinkedIn = true }},
	{name: "indeed", mark: func(p *Presence) { p.FoundOnIndeed = true }},
	{name: "naukri", mark: func(p *Presence) { p.FoundOnNaukri = true }},
}

// Presence looks the company up on each board. Known employers skip the
// lookup entirely and get a fixed positive result. A failed board query
// counts as zero hits for that board only.
func (l *Lookup) Presence(ctx context.Context, companyName string) *Presence {
	lower := strings.ToLower(companyName)
	for _, brand := range catalog.KnownLegitEmployers {
		if strings.Contains(lower, brand) {
			l.logger.Debug("known employer, skipping board lookup", zap.String("company", companyName))
			return &Presence{
				FoundOnLinkedIn: true,
				FoundOnIndeed:   true,
				FoundOnNaukri:   true,
				TotalResults:    knownCompanyResults,
				IsKnownCompany:  true,
			}
		}
	}

	presence := &Presence{}

	for i, b := range boards {
		if i > 0 {
			if err := utils.WaitFor(ctx, l.delay); err != nil {
				break
			}
		}

		query := companyName + " jobs " + b.name
		results, err := l.searcher.Search(ctx, query, perBoardLimit)
		if err != nil {
			l.logger.Warn("board lookup failed",
				zap.String("board", b.name),
				zap.String("company", companyName),
				zap.Error(err),
			)
			continue
		}

		hits := countJobRelated(results)
		if hits > 0 {
			presence.TotalResults += hits
			b.mark(presence)
		}

		l.logger.Debug("board lookup",
			zap.String("board", b.name),
			zap.Int("hits", hits),
		)
	}

	if presence.TotalResults == 0 {
		presence.NoResults = true
	}

	return presence
}

func countJobRelated(results []search.Result) int {
	count := 0
	for _, r := range results {
		text := strings.ToLower(r.Title + " " + r.Snippet)
		for _, word := range catalog.JobVocabulary {
			if strings.Contains(text, word) {
				count++
				break
			}
		}
	}
	return count
}
