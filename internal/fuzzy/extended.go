package fuzzy

import (
	"regexp"
	"strings"
)

// Extended query syntax. Tokens separated by spaces are ANDed, groups
// separated by "|" are ORed:
//
//	jscript      fuzzy match
//	=scheme      exact match
//	'python      include match
//	!ruby        does not include
//	^java        starts with
//	!^earlang    does not start with
//	.js$         ends with
//	!.go$        does not end with
//
// A token may be double quoted to include spaces, e.g. ^"hello world".

type tokenMatcher interface {
	search(text string) result
}

type tokenKind struct {
	multi  *regexp.Regexp
	single *regexp.Regexp
	build  func(token string, o *Options) tokenMatcher
}

// Order is significant: the first kind whose expression captures a non-empty token wins.
var tokenKinds = []tokenKind{
	{regexp.MustCompile(`^="(.*)"$`), regexp.MustCompile(`^=(.*)$`), func(t string, _ *Options) tokenMatcher { return exactMatch(t) }},
	{regexp.MustCompile(`^'"(.*)"$`), regexp.MustCompile(`^'(.*)$`), func(t string, _ *Options) tokenMatcher { return includeMatch(t) }},
	{regexp.MustCompile(`^\^"(.*)"$`), regexp.MustCompile(`^\^(.*)$`), func(t string, _ *Options) tokenMatcher { return prefixMatch(t) }},
	{regexp.MustCompile(`^!\^"(.*)"$`), regexp.MustCompile(`^!\^(.*)$`), func(t string, _ *Options) tokenMatcher { return inversePrefixMatch(t) }},
	{regexp.MustCompile(`^!"(.*)"\$$`), regexp.MustCompile(`^!(.*)\$$`), func(t string, _ *Options) tokenMatcher { return inverseSuffixMatch(t) }},
	{regexp.MustCompile(`^"(.*)"\$$`), regexp.MustCompile(`^(.*)\$$`), func(t string, _ *Options) tokenMatcher { return suffixMatch(t) }},
	{regexp.MustCompile(`^!"(.*)"$`), regexp.MustCompile(`^!(.*)$`), func(t string, _ *Options) tokenMatcher { return inverseExactMatch(t) }},
	{regexp.MustCompile(`^"(.*)"$`), regexp.MustCompile(`^(.*)$`), func(t string, o *Options) tokenMatcher { return fuzzyMatch{newBitapSearch(t, o)} }},
}

func capture(re *regexp.Regexp, item string) string {
	m := re.FindStringSubmatch(item)
	if m == nil {
		return ""
	}
	return m[1]
}

// parseQuery splits pattern into OR groups of AND token matchers
func parseQuery(pattern string, o *Options) [][]tokenMatcher {
	var groups [][]tokenMatcher
	for _, item := range strings.Split(pattern, "|") {
		var group []tokenMatcher
		for _, token := range splitTokens(strings.TrimSpace(item)) {
			if m := buildToken(token, o); m != nil {
				group = append(group, m)
			}
		}
		groups = append(groups, group)
	}
	return groups
}

func buildToken(item string, o *Options) tokenMatcher {
	for _, k := range tokenKinds {
		if t := capture(k.multi, item); t != "" {
			return k.build(t, o)
		}
	}
	for _, k := range tokenKinds {
		if t := capture(k.single, item); t != "" {
			return k.build(t, o)
		}
	}
	return nil
}

// splitTokens splits on runs of spaces that are outside double quotes
func splitTokens(s string) []string {
	r := []rune(s)
	quotesAfter := make([]int, len(r)+1)
	for i := len(r) - 1; i >= 0; i-- {
		quotesAfter[i] = quotesAfter[i+1]
		if r[i] == '"' {
			quotesAfter[i]++
		}
	}

	var tokens []string
	start := 0
	for i := 0; i < len(r); {
		if r[i] != ' ' {
			i++
			continue
		}
		end := i
		for end < len(r) && r[end] == ' ' {
			end++
		}
		if quotesAfter[end]%2 == 0 {
			tokens = appendToken(tokens, string(r[start:i]))
			start = end
		}
		i = end
	}
	return appendToken(tokens, string(r[start:]))
}

func appendToken(tokens []string, t string) []string {
	if strings.TrimSpace(t) == "" {
		return tokens
	}
	return append(tokens, t)
}

// extendedSearch evaluates a parsed query against one text
type extendedSearch struct {
	query [][]tokenMatcher
	opts  *Options
}

func newExtendedSearch(pattern string, o *Options) *extendedSearch {
	if !o.CaseSensitive {
		pattern = strings.ToLower(pattern)
	}
	return &extendedSearch{query: parseQuery(pattern, o), opts: o}
}

func (e *extendedSearch) searchIn(text string) result {
	if !e.opts.CaseSensitive {
		text = strings.ToLower(text)
	}

	for _, group := range e.query {
		var all []Indices
		total := 0.0
		matched := 0
		for _, m := range group {
			r := m.search(text)
			if !r.isMatch {
				matched = 0
				all = nil
				break
			}
			matched++
			total += r.score
			all = append(all, r.indices...)
		}
		if matched > 0 {
			res := result{isMatch: true, score: total / float64(matched)}
			if e.opts.IncludeMatches {
				res.indices = all
			}
			return res
		}
	}
	return result{score: 1}
}

type exactMatch string

func (p exactMatch) search(text string) result {
	if text == string(p) {
		return result{isMatch: true, score: 0, indices: []Indices{{0, runeLen(string(p)) - 1}}}
	}
	return result{score: 1, indices: []Indices{{0, runeLen(string(p)) - 1}}}
}

type includeMatch string

func (p includeMatch) search(text string) result {
	t, pat := []rune(text), []rune(string(p))
	var indices []Indices
	for from := 0; ; {
		index := indexRunes(t, pat, from)
		if index < 0 {
			break
		}
		from = index + len(pat)
		indices = append(indices, Indices{index, from - 1})
	}
	if len(indices) == 0 {
		return result{score: 1}
	}
	return result{isMatch: true, score: 0, indices: indices}
}

type prefixMatch string

func (p prefixMatch) search(text string) result {
	return boolResult(strings.HasPrefix(text, string(p)), Indices{0, runeLen(string(p)) - 1})
}

type inversePrefixMatch string

func (p inversePrefixMatch) search(text string) result {
	return boolResult(!strings.HasPrefix(text, string(p)), Indices{0, runeLen(text) - 1})
}

type suffixMatch string

func (p suffixMatch) search(text string) result {
	n := runeLen(text)
	return boolResult(strings.HasSuffix(text, string(p)), Indices{n - runeLen(string(p)), n - 1})
}

type inverseSuffixMatch string

func (p inverseSuffixMatch) search(text string) result {
	return boolResult(!strings.HasSuffix(text, string(p)), Indices{0, runeLen(text) - 1})
}

type inverseExactMatch string

func (p inverseExactMatch) search(text string) result {
	return boolResult(!strings.Contains(text, string(p)), Indices{0, runeLen(text) - 1})
}

type fuzzyMatch struct {
	*bitapSearch
}

func (f fuzzyMatch) search(text string) result {
	return f.searchIn(text)
}

func boolResult(ok bool, span Indices) result {
	if !ok {
		return result{score: 1, indices: []Indices{span}}
	}
	return result{isMatch: true, score: 0, indices: []Indices{span}}
}

func runeLen(s string) int {
	return len([]rune(s))
}
