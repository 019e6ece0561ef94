// Package fuzzy implements weighted multi-field approximate string matching.
//
// Each item holds string values for a fixed list of weighted keys. A query is
// matched against every value with a Bitap (shift-or) approximate search, or
// with the extended token syntax when enabled. An item's score is the product
// of its per-value scores raised to the key weight times a field-length norm,
// so 0 is a perfect match and 1 is no match.
package fuzzy

import (
	"math"
	"sort"
	"strings"
)

// Indices is an inclusive [start, end] rune range
type Indices [2]int

// Key is a weighted field name
type Key struct {
	Name   string
	Weight float64
}

// Options tune matching. Zero values are not defaults; start from DefaultOptions.
type Options struct {
	Keys               []Key
	Threshold          float64 // 0 exact … 1 match anything
	Distance           int
	Location           int
	MinMatchCharLength int
	IgnoreLocation     bool
	FindAllMatches     bool
	IncludeMatches     bool
	CaseSensitive      bool
	UseExtendedSearch  bool
}

// DefaultOptions returns the library defaults for keys
func DefaultOptions(keys ...Key) Options {
	return Options{
		Keys:               keys,
		Threshold:          0.6,
		Distance:           100,
		MinMatchCharLength: 1,
		IncludeMatches:     true,
	}
}

// Entry holds one item's values per key, in key order. Keys with several values
// (tags) list them all; blank values are ignored.
type Entry [][]string

// Match is one matched value in a result
type Match struct {
	Key      string
	Value    string
	RefIndex int // position of Value within its key's values
	Indices  []Indices
}

// Result is one ranked item
type Result struct {
	RefIndex int // insertion position of the item
	Score    float64
	Matches  []Match
}

type value struct {
	text     string
	norm     float64
	refIndex int
}

type record struct {
	idx    int
	values [][]value
}

// Fuse is an immutable index over a collection of entries
type Fuse struct {
	opts    Options
	weights []float64
	records []record
}

// New indexes entries with opts
func New(entries []Entry, opts Options) *Fuse {
	f := &Fuse{opts: opts}

	total := 0.0
	for _, k := range opts.Keys {
		total += k.Weight
	}
	f.weights = make([]float64, len(opts.Keys))
	for i, k := range opts.Keys {
		if total > 0 {
			f.weights[i] = k.Weight / total
		}
	}

	norms := make(map[int]float64)
	for idx, entry := range entries {
		rec := record{idx: idx, values: make([][]value, len(opts.Keys))}
		for ki := range opts.Keys {
			if ki >= len(entry) {
				continue
			}
			for vi, text := range entry[ki] {
				if strings.TrimSpace(text) == "" {
					continue
				}
				rec.values[ki] = append(rec.values[ki], value{text: text, norm: fieldNorm(text, norms), refIndex: vi})
			}
		}
		f.records = append(f.records, rec)
	}
	return f
}

// Len returns the number of indexed items
func (f *Fuse) Len() int {
	return len(f.records)
}

type searcher interface {
	searchIn(text string) result
}

// Search ranks items against query, best first. A negative limit returns all matches.
func (f *Fuse) Search(query string, limit int) []Result {
	var s searcher
	if f.opts.UseExtendedSearch {
		s = newExtendedSearch(query, &f.opts)
	} else {
		s = newBitapSearch(query, &f.opts)
	}

	type hit struct {
		key   int
		score float64
		norm  float64
		match Match
	}

	var results []Result
	for _, rec := range f.records {
		var hits []hit
		for ki, values := range rec.values {
			for _, v := range values {
				r := s.searchIn(v.text)
				if !r.isMatch {
					continue
				}
				hits = append(hits, hit{
					key:   ki,
					score: r.score,
					norm:  v.norm,
					match: Match{Key: f.opts.Keys[ki].Name, Value: v.text, RefIndex: v.refIndex, Indices: r.indices},
				})
			}
		}
		if len(hits) == 0 {
			continue
		}

		score := 1.0
		res := Result{RefIndex: rec.idx}
		for _, h := range hits {
			weight := f.weights[h.key]
			hs := h.score
			if hs == 0 && weight != 0 {
				hs = epsilon
			}
			if weight == 0 {
				weight = 1
			}
			score *= math.Pow(hs, weight*h.norm)
			if len(h.match.Indices) > 0 {
				res.Matches = append(res.Matches, h.match)
			}
		}
		res.Score = score
		results = append(results, res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score == results[j].Score {
			return results[i].RefIndex < results[j].RefIndex
		}
		return results[i].Score < results[j].Score
	})

	if limit >= 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// epsilon is the gap between 1 and the next float64
const epsilon = 2.220446049250313e-16

// fieldNorm penalises long values: 1/sqrt(tokens), rounded to three decimals
func fieldNorm(text string, cache map[int]float64) float64 {
	tokens := len(strings.FieldsFunc(text, func(r rune) bool { return r == ' ' }))
	if tokens == 0 {
		tokens = 1
	}
	if n, ok := cache[tokens]; ok {
		return n
	}
	n := math.Round(1/math.Sqrt(float64(tokens))*1000) / 1000
	cache[tokens] = n
	return n
}
