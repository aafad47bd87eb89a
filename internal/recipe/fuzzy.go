package recipe

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// fuzzyCutoff is the minimum token-set similarity for the whole-step pass.
const fuzzyCutoff = 90

// tokens lowercases s, treats anything that is not a letter or digit as a
// separator and returns the remaining words.
func tokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// ratio is a 0..100 similarity derived from the Levenshtein distance.
func ratio(a, b string) int {
	if a == "" && b == "" {
		return 100
	}
	longest := len([]rune(a))
	if n := len([]rune(b)); n > longest {
		longest = n
	}
	dist := fuzzy.LevenshteinDistance(a, b)
	return int(math.Round(100 * float64(longest-dist) / float64(longest)))
}

// tokenSetRatio compares the word sets of a and b: shared words are
// compared against each side's shared-plus-remaining words, so a short
// name fully contained in a long sentence scores 100.
func tokenSetRatio(a, b string) int {
	setA := toSet(tokens(a))
	setB := toSet(tokens(b))
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var inter, onlyA, onlyB []string
	for w := range setA {
		if setB[w] {
			inter = append(inter, w)
		} else {
			onlyA = append(onlyA, w)
		}
	}
	for w := range setB {
		if !setA[w] {
			onlyB = append(onlyB, w)
		}
	}
	sort.Strings(inter)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	sect := strings.Join(inter, " ")
	combinedA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	best := ratio(combinedA, combinedB)
	if sect != "" {
		if r := ratio(sect, combinedA); r > best {
			best = r
		}
		if r := ratio(sect, combinedB); r > best {
			best = r
		}
	}
	return best
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

type span struct {
	start, end int
}

// wordSpans returns the byte offsets of each word in s.
func wordSpans(s string) []span {
	var spans []span
	start := -1
	for i, r := range s {
		isWord := unicode.IsLetter(r) || unicode.IsNumber(r)
		switch {
		case isWord && start < 0:
			start = i
		case !isWord && start >= 0:
			spans = append(spans, span{start, i})
			start = -1
		}
	}
	if start >= 0 {
		spans = append(spans, span{start, len(s)})
	}
	return spans
}

// locate finds where name is mentioned in text and how well it matches:
// an exact case-insensitive hit on whole words scores 100, otherwise the
// run of words (same word count as name) most similar to it wins. The
// score is -1 when text has too few words.
func locate(text, name string) (span, int) {
	if name == "" {
		return span{}, -1
	}
	words := wordSpans(text)
	if at, ok := exactWordMatch(text, name, words); ok {
		return at, 100
	}

	size := len(tokens(name))
	if size == 0 || size > len(words) {
		return span{}, -1
	}
	target := strings.Join(tokens(name), " ")
	best, bestScore := span{}, -1
	for i := 0; i+size <= len(words); i++ {
		candidate := span{words[i].start, words[i+size-1].end}
		score := ratio(strings.Join(tokens(text[candidate.start:candidate.end]), " "), target)
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}
	return best, bestScore
}

// exactWordMatch finds the first case-insensitive occurrence of name that
// starts and ends on word boundaries, so "salt" never matches inside
// "unsalted".
func exactWordMatch(text, name string, words []span) (span, bool) {
	starts := make(map[int]bool, len(words))
	ends := make(map[int]bool, len(words))
	for _, w := range words {
		starts[w.start] = true
		ends[w.end] = true
	}
	for i := range text {
		end := i + len(name)
		if end > len(text) {
			break
		}
		if starts[i] && ends[end] && strings.EqualFold(text[i:end], name) {
			return span{i, end}, true
		}
	}
	return span{}, false
}

// containsFold reports whether substr is within s, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
