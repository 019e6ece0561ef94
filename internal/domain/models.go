package domain

import "time"

// Document is one published article projected into its searchable fields
type Document struct {
	Path        string    // unique id, e.g. "/articles/vue-basics"
	Title       string
	Description string
	Category    string
	Tags        []string
	BodyText    string    // plain text derived from the body, at most 500 runes
	Date        time.Time // display only, not indexed
}

// Node is one node of a parsed rich-text body tree
type Node struct {
	Type     string  `json:"type,omitempty"`
	Tag      string  `json:"tag,omitempty"`
	Value    *string `json:"value,omitempty"`
	Children []Node  `json:"children,omitempty"`
}

// TextNode builds a leaf node holding value
func TextNode(value string) Node {
	return Node{Type: "text", Value: &value}
}

// Range is an inclusive [Start, End] rune offset pair inside a field value
type Range struct {
	Start int
	End   int
}

// Match describes where a query hit one field of a document
type Match struct {
	Field  string // title, description, category, tags or bodyText
	Value  string // the field value that matched (one tag for tags)
	Ranges []Range
}

// SearchResult is one ranked hit
type SearchResult struct {
	Document Document
	Score    float64 // 0 is a perfect match, 1 is no match
	Matches  []Match
}

// MatchFor returns the first match on field, if any
func (r SearchResult) MatchFor(field string) (Match, bool) {
	for _, m := range r.Matches {
		if m.Field == field {
			return m, true
		}
	}
	return Match{}, false
}
