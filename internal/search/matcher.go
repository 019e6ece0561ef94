package search

import (
	"fmt"

	"blogsearch/internal/domain"
	"blogsearch/internal/fuzzy"
)

// Field names as reported in matches
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldTags        = "tags"
	FieldBodyText    = "bodyText"
)

// Fixed field weights; ranking compatibility depends on them
var fieldWeights = []fuzzy.Key{
	{Name: FieldTitle, Weight: 0.40},
	{Name: FieldDescription, Weight: 0.25},
	{Name: FieldCategory, Weight: 0.15},
	{Name: FieldTags, Weight: 0.10},
	{Name: FieldBodyText, Weight: 0.10},
}

// RawMatch is what a Matcher reports for one document
type RawMatch struct {
	Index   int      // position in the indexed slice
	Score   *float64 // nil when the matcher does not score
	Matches []domain.Match
}

// Matcher is the approximate matching capability behind the engine
type Matcher interface {
	Index(docs []domain.Document) error
	Search(query string, limit int) []RawMatch
}

// FuzzyMatcher is the default Matcher: weighted Bitap matching with the
// extended token syntax.
type FuzzyMatcher struct {
	index *fuzzy.Fuse
}

// NewFuzzyMatcher creates an empty matcher
func NewFuzzyMatcher() *FuzzyMatcher {
	return &FuzzyMatcher{}
}

// MatcherOptions returns the matching parameters used for blog documents
func MatcherOptions() fuzzy.Options {
	o := fuzzy.DefaultOptions(fieldWeights...)
	o.Threshold = 0.4
	o.Distance = 100
	o.MinMatchCharLength = 2
	o.IgnoreLocation = true
	o.IncludeMatches = true
	o.UseExtendedSearch = true
	return o
}

// Index replaces the index with docs
func (m *FuzzyMatcher) Index(docs []domain.Document) error {
	seen := make(map[string]bool, len(docs))
	entries := make([]fuzzy.Entry, 0, len(docs))
	for i, d := range docs {
		if d.Path == "" {
			return fmt.Errorf("document %d has no path", i)
		}
		if seen[d.Path] {
			return fmt.Errorf("duplicate document path %s", d.Path)
		}
		seen[d.Path] = true
		entries = append(entries, fuzzy.Entry{
			{d.Title},
			{d.Description},
			{d.Category},
			d.Tags,
			{d.BodyText},
		})
	}
	m.index = fuzzy.New(entries, MatcherOptions())
	return nil
}

// Search matches query against the index
func (m *FuzzyMatcher) Search(query string, limit int) []RawMatch {
	if m.index == nil {
		return nil
	}
	results := m.index.Search(query, limit)
	out := make([]RawMatch, 0, len(results))
	for _, r := range results {
		score := r.Score
		raw := RawMatch{Index: r.RefIndex, Score: &score}
		for _, fm := range r.Matches {
			ranges := make([]domain.Range, len(fm.Indices))
			for i, ix := range fm.Indices {
				ranges[i] = domain.Range{Start: ix[0], End: ix[1]}
			}
			raw.Matches = append(raw.Matches, domain.Match{Field: fm.Key, Value: fm.Value, Ranges: ranges})
		}
		out = append(out, raw)
	}
	return out
}
