package fuzzy

import (
	"math"
	"strings"
)

// maxBits is the widest pattern chunk the bit-parallel matcher handles at once
const maxBits = 32

// result of matching one pattern against one text
type result struct {
	isMatch bool
	score   float64
	indices []Indices
}

type chunk struct {
	pattern    []rune
	alphabet   map[rune]uint32
	startIndex int
}

// bitapSearch is an approximate matcher for one pattern. Patterns longer than
// maxBits are split into chunks whose scores are averaged.
type bitapSearch struct {
	pattern []rune
	chunks  []chunk
	opts    *Options
}

func newBitapSearch(pattern string, opts *Options) *bitapSearch {
	if !opts.CaseSensitive {
		pattern = strings.ToLower(pattern)
	}
	p := []rune(pattern)
	b := &bitapSearch{pattern: p, opts: opts}
	if len(p) == 0 {
		return b
	}

	add := func(sub []rune, start int) {
		b.chunks = append(b.chunks, chunk{pattern: sub, alphabet: patternAlphabet(sub), startIndex: start})
	}

	if len(p) > maxBits {
		remainder := len(p) % maxBits
		end := len(p) - remainder
		for i := 0; i < end; i += maxBits {
			add(p[i:i+maxBits], i)
		}
		if remainder > 0 {
			start := len(p) - maxBits
			add(p[start:], start)
		}
	} else {
		add(p, 0)
	}
	return b
}

func (b *bitapSearch) searchIn(text string) result {
	if !b.opts.CaseSensitive {
		text = strings.ToLower(text)
	}
	t := []rune(text)

	if equalRunes(b.pattern, t) {
		r := result{isMatch: true, score: 0}
		if b.opts.IncludeMatches {
			r.indices = []Indices{{0, len(t) - 1}}
		}
		return r
	}

	var all []Indices
	total := 0.0
	hasMatches := false
	for _, c := range b.chunks {
		r := bitap(t, c.pattern, c.alphabet, b.opts.Location+c.startIndex, b.opts)
		if r.isMatch {
			hasMatches = true
			all = append(all, r.indices...)
		}
		total += r.score
	}

	if !hasMatches {
		return result{score: 1}
	}
	r := result{isMatch: true, score: total / float64(len(b.chunks))}
	if b.opts.IncludeMatches {
		r.indices = all
	}
	return r
}

// bitap runs the shift-or approximate search of pattern (≤ maxBits runes) in text.
func bitap(text, pattern []rune, alphabet map[rune]uint32, location int, o *Options) result {
	patternLen := len(pattern)
	textLen := len(text)
	expected := max(0, min(location, textLen))

	threshold := o.Threshold
	best := expected

	computeMatches := o.MinMatchCharLength > 1 || o.IncludeMatches
	var matchMask []bool
	if computeMatches {
		matchMask = make([]bool, textLen)
	}

	// Exact occurrences tighten the threshold before the fuzzy pass
	for {
		index := indexRunes(text, pattern, best)
		if index < 0 {
			break
		}
		score := computeScore(patternLen, 0, index, expected, o)
		threshold = math.Min(score, threshold)
		best = index + patternLen
		if computeMatches {
			for i := 0; i < patternLen; i++ {
				matchMask[index+i] = true
			}
		}
	}

	best = -1
	var lastBits []uint32
	finalScore := 1.0
	binMax := patternLen + textLen
	mask := uint32(1) << uint(patternLen-1)

	for i := 0; i < patternLen; i++ {
		// How far from the expected location can we stray at this error level
		binMin, binMid := 0, binMax
		for binMin < binMid {
			score := computeScore(patternLen, i, expected+binMid, expected, o)
			if score <= threshold {
				binMin = binMid
			} else {
				binMax = binMid
			}
			binMid = (binMax-binMin)/2 + binMin
		}
		binMax = binMid

		start := max(1, expected-binMid+1)
		finish := textLen
		if !o.FindAllMatches {
			finish = min(expected+binMid, textLen) + patternLen
		}

		bits := make([]uint32, finish+2)
		bits[finish+1] = (uint32(1) << uint(i)) - 1

		for j := finish; j >= start; j-- {
			loc := j - 1
			var charMatch uint32
			if loc < textLen {
				charMatch = alphabet[text[loc]]
				if computeMatches {
					matchMask[loc] = charMatch != 0
				}
			}

			bits[j] = ((bits[j+1] << 1) | 1) & charMatch
			if i > 0 {
				bits[j] |= ((at(lastBits, j+1) | at(lastBits, j)) << 1) | 1 | at(lastBits, j+1)
			}

			if bits[j]&mask != 0 {
				finalScore = computeScore(patternLen, i, loc, expected, o)
				if finalScore <= threshold {
					threshold = finalScore
					best = loc
					if best <= expected {
						break
					}
					start = max(1, 2*expected-best)
				}
			}
		}

		// No hope for a better match at a higher error level
		if computeScore(patternLen, i+1, expected, expected, o) > threshold {
			break
		}
		lastBits = bits
	}

	r := result{isMatch: best >= 0, score: math.Max(0.001, finalScore)}
	if computeMatches {
		indices := maskToIndices(matchMask, o.MinMatchCharLength)
		if len(indices) == 0 {
			r.isMatch = false
		} else if o.IncludeMatches {
			r.indices = indices
		}
	}
	return r
}

func computeScore(patternLen, errors, current, expected int, o *Options) float64 {
	accuracy := float64(errors) / float64(patternLen)
	if o.IgnoreLocation {
		return accuracy
	}
	proximity := expected - current
	if proximity < 0 {
		proximity = -proximity
	}
	if o.Distance == 0 {
		if proximity != 0 {
			return 1.0
		}
		return accuracy
	}
	return accuracy + float64(proximity)/float64(o.Distance)
}

func patternAlphabet(pattern []rune) map[rune]uint32 {
	alphabet := make(map[rune]uint32, len(pattern))
	n := len(pattern)
	for i, r := range pattern {
		alphabet[r] |= 1 << uint(n-i-1)
	}
	return alphabet
}

// maskToIndices turns runs of matched runes into ranges of at least minLen
func maskToIndices(mask []bool, minLen int) []Indices {
	var indices []Indices
	start := -1
	i := 0
	for ; i < len(mask); i++ {
		if mask[i] && start == -1 {
			start = i
		} else if !mask[i] && start != -1 {
			end := i - 1
			if end-start+1 >= minLen {
				indices = append(indices, Indices{start, end})
			}
			start = -1
		}
	}
	if i > 0 && mask[i-1] && i-start >= minLen {
		indices = append(indices, Indices{start, i - 1})
	}
	return indices
}

func at(bits []uint32, i int) uint32 {
	if i < 0 || i >= len(bits) {
		return 0
	}
	return bits[i]
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// indexRunes is strings.Index over rune slices, starting at from
func indexRunes(text, pattern []rune, from int) int {
	if from < 0 {
		from = 0
	}
	n := len(pattern)
	for i := from; i+n <= len(text); i++ {
		if equalRunes(text[i:i+n], pattern) {
			return i
		}
	}
	return -1
}
