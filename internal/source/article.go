// Package source loads blog articles and projects them into searchable
// documents.
package source

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"blogsearch/internal/domain"
	"blogsearch/internal/textextract"
)

// DocumentSource supplies the documents an index is built from
type DocumentSource interface {
	FetchPublishedDocuments(ctx context.Context) ([]domain.Document, error)
}

// Article is a parsed content record
type Article struct {
	Path        string          `json:"_path"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Updated     string          `json:"updated,omitempty"`
	Category    string          `json:"category"`
	Tags        []string        `json:"tags"`
	Cover       string          `json:"cover,omitempty"`
	Featured    bool            `json:"featured,omitempty"`
	Published   *bool           `json:"published,omitempty"`
	Body        json.RawMessage `json:"body,omitempty"`
}

// IsPublished reports whether the article is visible. A missing flag means
// published.
func (a Article) IsPublished() bool {
	return a.Published == nil || *a.Published
}

// PublishedAt parses the article date; the zero time when absent or invalid
func (a Article) PublishedAt() time.Time {
	return parseDate(a.Date)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Project converts an article into a search document. Blank tags are dropped
// and body text is extracted from the parsed body tree.
func Project(a Article) domain.Document {
	var tags []string
	for _, t := range a.Tags {
		if strings.TrimSpace(t) != "" {
			tags = append(tags, t)
		}
	}
	return domain.Document{
		Path:        a.Path,
		Title:       a.Title,
		Description: a.Description,
		Category:    a.Category,
		Tags:        tags,
		BodyText:    textextract.ExtractJSON(a.Body),
		Date:        a.PublishedAt(),
	}
}

// Published keeps published articles, newest first, ties by path
func Published(articles []Article) []Article {
	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		if a.IsPublished() {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].PublishedAt(), out[j].PublishedAt()
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// Documents projects the published articles
func Documents(articles []Article) []domain.Document {
	published := Published(articles)
	docs := make([]domain.Document, len(published))
	for i, a := range published {
		docs[i] = Project(a)
	}
	return docs
}

// Categories returns the distinct non-empty categories of docs, sorted
func Categories(docs []domain.Document) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range docs {
		if d.Category == "" || seen[d.Category] {
			continue
		}
		seen[d.Category] = true
		out = append(out, d.Category)
	}
	sort.Strings(out)
	return out
}

// MemorySource serves a fixed set of articles
type MemorySource struct {
	Articles []Article
}

// NewMemorySource creates a source over articles
func NewMemorySource(articles ...Article) *MemorySource {
	return &MemorySource{Articles: articles}
}

// FetchPublishedDocuments implements DocumentSource
func (s *MemorySource) FetchPublishedDocuments(ctx context.Context) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Documents(s.Articles), nil
}
