// Package highlight marks matched ranges inside field values.
package highlight

import (
	"sort"
	"strings"

	"blogsearch/internal/domain"
)

// Mark wraps s in <mark> tags
func Mark(s string) string {
	return "<mark>" + s + "</mark>"
}

// Highlight wraps every range of text in <mark> tags. Ranges are inclusive
// rune offsets; see Apply.
func Highlight(text string, ranges []domain.Range) string {
	return Apply(text, ranges, Mark)
}

// Apply wraps every range of text with wrap. Ranges are applied in ascending
// start order (stable) by slicing from the end of the previous range.
// Overlapping ranges are not merged, so overlapped text can repeat. Offsets
// past the end of text are clamped.
func Apply(text string, ranges []domain.Range, wrap func(string) string) string {
	if len(ranges) == 0 {
		return text
	}
	return ApplyStyled(text, ranges, func(s string) string { return s }, wrap)
}

// ApplyStyled is Apply with a second function for the unmatched stretches.
// plain is only called for non-empty text.
func ApplyStyled(text string, ranges []domain.Range, plain, hit func(string) string) string {
	if len(ranges) == 0 {
		if text == "" {
			return ""
		}
		return plain(text)
	}

	sorted := make([]domain.Range, len(ranges))
	copy(sorted, ranges)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	runes := []rune(text)
	var b strings.Builder
	writePlain := func(s string) {
		if s != "" {
			b.WriteString(plain(s))
		}
	}
	last := 0
	for _, r := range sorted {
		writePlain(slice(runes, last, r.Start))
		b.WriteString(hit(slice(runes, r.Start, r.End+1)))
		last = r.End + 1
	}
	writePlain(slice(runes, last, len(runes)))
	return b.String()
}

// slice returns runes[from:to] with both bounds clamped; empty when from >= to
func slice(runes []rune, from, to int) string {
	from = clamp(from, len(runes))
	to = clamp(to, len(runes))
	if from >= to {
		return ""
	}
	return string(runes[from:to])
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
