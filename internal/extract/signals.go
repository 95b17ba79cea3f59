// Package extract provides the local, zero-I/O text analysis: fraud
// signal scanning and entity info extraction.
package extract

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"fraudscan/internal/catalog"
)

// contextWindow is the number of bytes inspected around a money term when
// deciding whether nearby text legitimizes it.
const contextWindow = 40

// plainKeywords are all catalog entries matched by plain substring
// presence. Money terms are excluded: they need positional context.
var plainKeywords []string

var keywordMatcher *ahocorasick.Matcher

func init() {
	plainKeywords = make([]string, 0,
		len(catalog.ScamKeywords)+len(catalog.BehavioralTriggers)+len(catalog.SensitiveDocs))
	plainKeywords = append(plainKeywords, catalog.ScamKeywords...)
	plainKeywords = append(plainKeywords, catalog.BehavioralTriggers...)
	plainKeywords = append(plainKeywords, catalog.SensitiveDocs...)

	keywordMatcher = ahocorasick.NewStringMatcher(plainKeywords)
}

// Signals scans free text for fraud indicators and returns the detected
// signals without duplicates. Empty or near-empty input yields nothing.
func Signals(text string) []string {
	if len(strings.TrimSpace(text)) < 2 {
		return nil
	}

	lower := strings.ToLower(text)

	seen := make(map[string]bool)
	signals := make([]string, 0)

	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			signals = append(signals, s)
		}
	}

	// Single automaton pass covers the scam, behavioral and document
	// catalogs. The matcher reports every pattern at most once.
	for _, hit := range keywordMatcher.Match([]byte(lower)) {
		if hit < len(plainKeywords) {
			add(plainKeywords[hit])
		}
	}

	// Money terms are suspicious only without salary vocabulary nearby.
	// Only the first occurrence of each term is inspected; scanning the
	// rest would change the detection results the model was tuned on.
	for _, term := range catalog.MoneyTerms {
		idx := strings.Index(lower, term)
		if idx < 0 {
			continue
		}

		if !legitContext(lower, idx) {
			add(term)
		}
	}

	return signals
}

func legitContext(lower string, idx int) bool {
	start := idx - contextWindow
	if start < 0 {
		start = 0
	}
	end := idx + contextWindow
	if end > len(lower) {
		end = len(lower)
	}

	window := lower[start:end]
	for _, safe := range catalog.SafeLexicon {
		if strings.Contains(window, safe) {
			return true
		}
	}

	return false
}
