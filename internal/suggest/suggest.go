// Package suggest offers "did you mean" alternatives for queries that
// produced no results, ranking vocabulary terms by string similarity.
package suggest

import (
	"sort"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"

	"github.com/dshills/fuzzyfind-mcp/internal/getter"
)

// Suggestion is one candidate replacement term.
type Suggestion struct {
	Term       string
	Similarity float64
}

// Suggester ranks vocabulary terms against a query term using Jaro-Winkler
// similarity. Terms below the threshold are dropped.
type Suggester struct {
	threshold float64
	algorithm edlib.Algorithm
}

// New creates a Suggester. Thresholds outside [0, 1] fall back to 0.8.
func New(threshold float64) *Suggester {
	if threshold < 0 || threshold > 1 {
		threshold = 0.8
	}
	return &Suggester{
		threshold: threshold,
		algorithm: edlib.JaroWinkler,
	}
}

// Suggest returns up to limit vocabulary terms similar to term, best first.
func (s *Suggester) Suggest(term string, vocabulary []string, limit int) []Suggestion {
	if term == "" || limit <= 0 {
		return nil
	}
	term = strings.ToLower(term)

	var out []Suggestion
	for _, cand := range vocabulary {
		if cand == "" || cand == term {
			continue
		}
		sim, err := edlib.StringsSimilarity(term, cand, s.algorithm)
		if err != nil {
			continue
		}
		if float64(sim) >= s.threshold {
			out = append(out, Suggestion{Term: cand, Similarity: float64(sim)})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Vocabulary collects the unique lowercased words found under the given
// keys across a record collection. For flat string collections pass no
// keys; the records themselves are tokenized.
func Vocabulary(records []any, keys []string) []string {
	seen := make(map[string]struct{})
	var vocab []string

	add := func(text string) {
		for _, word := range splitWords(text) {
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			vocab = append(vocab, word)
		}
	}

	for _, rec := range records {
		if len(keys) == 0 {
			if s, ok := rec.(string); ok {
				add(s)
			}
			continue
		}
		for _, key := range keys {
			for _, v := range getter.Strings(rec, key) {
				add(v.Text)
			}
		}
	}

	sort.Strings(vocab)
	return vocab
}

func splitWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
