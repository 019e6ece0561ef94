package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"blogsearch/internal/domain"
	"blogsearch/internal/highlight"
	"blogsearch/internal/search"
)

// ResultRenderer draws ranked search results
type ResultRenderer struct {
	styles *Styles
}

// NewResultRenderer creates a result renderer
func NewResultRenderer(styles *Styles) *ResultRenderer {
	return &ResultRenderer{styles: styles}
}

// field returns the value to display for field with its match ranges
func field(r domain.SearchResult, name, value string) (string, []domain.Range) {
	for _, m := range r.Matches {
		if m.Field == name && m.Value == value {
			return value, m.Ranges
		}
	}
	return value, nil
}

func (rr *ResultRenderer) mark(text string, ranges []domain.Range, base lipgloss.Style) string {
	if len(ranges) == 0 {
		return base.Render(text)
	}
	match := rr.styles.Match.Inherit(base)
	return highlight.ApplyStyled(text, ranges,
		func(s string) string { return base.Render(s) },
		func(s string) string { return match.Render(s) })
}

// RenderResult renders one result block
func (rr *ResultRenderer) RenderResult(r domain.SearchResult, selected, showPreview bool, width int) string {
	var lines []string

	cursor := "  "
	if selected {
		cursor = rr.styles.Prompt.Render("▸ ")
	}

	doc := r.Document
	title, ranges := field(r, search.FieldTitle, doc.Title)
	if title == "" {
		title = doc.Path
	}
	lines = append(lines, cursor+rr.mark(title, ranges, rr.styles.ResultTitle))

	var meta []string
	if doc.Category != "" {
		c, cr := field(r, search.FieldCategory, doc.Category)
		meta = append(meta, rr.mark(c, cr, rr.styles.Category))
	}
	if !doc.Date.IsZero() {
		meta = append(meta, rr.styles.Date.Render(doc.Date.Format("2006-01-02")))
	}
	for _, tag := range doc.Tags {
		t, tr := field(r, search.FieldTags, tag)
		meta = append(meta, rr.mark("#"+t, shift(tr, 1), rr.styles.Tag))
	}
	if len(meta) > 0 {
		lines = append(lines, "  "+strings.Join(meta, rr.styles.Dim.Render(" · ")))
	}

	if doc.Description != "" {
		d, dr := field(r, search.FieldDescription, doc.Description)
		lines = append(lines, "  "+rr.mark(d, dr, rr.styles.Dim))
	}

	if showPreview && doc.BodyText != "" {
		limit := width - 8
		if limit < 20 {
			limit = 60
		}
		body, br := field(r, search.FieldBodyText, doc.BodyText)
		snippet, sr := Snippet(body, br, limit)
		lines = append(lines, "  "+rr.mark(snippet, sr, rr.styles.Preview))
	}

	block := strings.Join(lines, "\n")
	if selected {
		block = rr.styles.SelectionBg.Render(block)
	}
	return block
}

// RenderResults renders the result list, keeping the selection on screen
// within maxLines
func (rr *ResultRenderer) RenderResults(results []domain.SearchResult, selectedIndex int, showPreview bool, width, maxLines int) string {
	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = rr.RenderResult(r, i == selectedIndex, showPreview, width)
	}

	start := 0
	if maxLines > 0 {
		for start < selectedIndex && linesIn(blocks[start:selectedIndex+1]) > maxLines {
			start++
		}
	}

	var out []string
	used := 0
	for i := start; i < len(blocks); i++ {
		h := lipgloss.Height(blocks[i]) + 1
		if maxLines > 0 && used+h > maxLines && i > selectedIndex {
			out = append(out, rr.styles.Dim.Render(fmt.Sprintf("  … %d more", len(blocks)-i)))
			break
		}
		out = append(out, blocks[i])
		used += h
	}
	return strings.Join(out, "\n\n")
}

func linesIn(blocks []string) int {
	n := 0
	for _, b := range blocks {
		n += lipgloss.Height(b) + 1
	}
	return n
}

func shift(ranges []domain.Range, by int) []domain.Range {
	out := make([]domain.Range, len(ranges))
	for i, r := range ranges {
		out[i] = domain.Range{Start: r.Start + by, End: r.End + by}
	}
	return out
}

// Snippet cuts a window of at most limit runes from text centered on the
// first range and rebases the ranges into it
func Snippet(text string, ranges []domain.Range, limit int) (string, []domain.Range) {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text, ranges
	}

	start := 0
	if len(ranges) > 0 {
		first := ranges[0]
		for _, r := range ranges[1:] {
			if r.Start < first.Start {
				first = r
			}
		}
		start = first.Start - limit/3
	}
	if start < 0 {
		start = 0
	}
	if start+limit > len(runes) {
		start = len(runes) - limit
	}
	end := start + limit

	var rebased []domain.Range
	for _, r := range ranges {
		if r.End < start || r.Start >= end {
			continue
		}
		s, e := r.Start-start, r.End-start
		if s < 0 {
			s = 0
		}
		if e > limit-1 {
			e = limit - 1
		}
		rebased = append(rebased, domain.Range{Start: s, End: e})
	}

	prefix, suffix := "", ""
	if start > 0 {
		prefix = "…"
	}
	if end < len(runes) {
		suffix = "…"
	}
	if prefix != "" {
		rebased = shift(rebased, 1)
	}
	return prefix + string(runes[start:end]) + suffix, rebased
}
