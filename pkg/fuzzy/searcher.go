package fuzzy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"regexp"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/fuzzyfind-mcp/internal/bitap"
	"github.com/dshills/fuzzyfind-mcp/internal/getter"
	"github.com/dshills/fuzzyfind-mcp/pkg/types"
)

// Searcher runs approximate searches over one collection. Create it once
// per collection with New and reuse it; each Search call is independent and
// leaves no state behind.
type Searcher struct {
	records []any
	flat    bool
	cfg     types.Config
	weights map[string]float64
	log     *slog.Logger
}

// New creates a Searcher for collection. The collection must be a slice or
// array; []string collections are matched directly, anything else is
// searched through cfg.Keys. The config is validated eagerly.
func New(collection any, cfg types.Config) (*Searcher, error) {
	if collection == nil {
		return nil, types.ErrNilCollection
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid search config: %w", err)
	}

	records, flat, err := normalize(collection)
	if err != nil {
		return nil, err
	}

	weights := make(map[string]float64, len(cfg.Keys))
	for _, k := range cfg.Keys {
		weights[k.Name] = k.Weight
	}

	return &Searcher{
		records: records,
		flat:    flat,
		cfg:     cfg,
		weights: weights,
		log:     traceLogger(cfg),
	}, nil
}

// Len returns the number of records in the collection.
func (s *Searcher) Len() int { return len(s.records) }

// Search matches pattern against every record and returns the ranked
// results. An empty pattern matches everything: the whole collection is
// returned in input order with score 0 and no match metadata.
func (s *Searcher) Search(ctx context.Context, pattern string) ([]types.Result, error) {
	if pattern == "" {
		return s.everything(), nil
	}

	q, err := s.compileQuery(pattern)
	if err != nil {
		return nil, err
	}

	// Dense arena of result slots keyed by record position. Workers own
	// disjoint indices, so parallel writes need no lock, and repeated
	// encounters of a record accumulate into one slot.
	arena := make([]*types.Result, len(s.records))

	if s.cfg.Concurrency > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.cfg.Concurrency)
		for i := range s.records {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				arena[i] = s.analyze(q, s.records[i], i, 0)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, rec := range s.records {
			if i%64 == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			arena[i] = s.analyze(q, rec, i, 0)
		}
	}

	return s.finalize(arena), nil
}

// query holds the compiled pattern(s) for one Search call: the full-text
// pattern plus one pattern per query token when tokenization is enabled.
type query struct {
	full   *bitap.Pattern
	tokens []*bitap.Pattern
}

func (s *Searcher) compileQuery(pattern string) (*query, error) {
	full, err := bitap.Compile(pattern, s.bitapOptions())
	if err != nil {
		return nil, err
	}
	if full.Truncated() {
		s.log.Warn("pattern truncated to maximum length",
			"pattern", pattern, "max_length", s.cfg.MaxPatternLength)
	}
	s.log.Debug("pattern compiled", "pattern", pattern, "blocks", full.Blocks())

	q := &query{full: full}
	if !s.cfg.Tokenize {
		return q, nil
	}

	for _, tok := range splitNonEmpty(s.cfg.TokenSeparator, pattern) {
		tp, err := bitap.Compile(tok, s.bitapOptions())
		if err != nil {
			continue
		}
		if tp.Truncated() {
			s.log.Warn("query token truncated to maximum length",
				"token", tok, "max_length", s.cfg.MaxPatternLength)
		}
		q.tokens = append(q.tokens, tp)
	}
	return q, nil
}

func (s *Searcher) bitapOptions() bitap.Options {
	return bitap.Options{
		Location:           s.cfg.Location,
		Distance:           s.cfg.Distance,
		Threshold:          s.cfg.Threshold,
		MaxPatternLength:   s.cfg.MaxPatternLength,
		CaseSensitive:      s.cfg.CaseSensitive,
		FindAllMatches:     s.cfg.FindAllMatches,
		MinMatchCharLength: s.cfg.MinMatchCharLength,
	}
}

// analyze matches one record against the query, returning nil when nothing
// in the record (or its children) matched.
func (s *Searcher) analyze(q *query, record any, idx, depth int) *types.Result {
	var fieldMatches []types.FieldMatch

	if s.flat {
		text, _ := record.(string)
		if fm, ok := s.matchField(q, "", -1, text); ok {
			fieldMatches = append(fieldMatches, fm)
		}
	} else {
		for _, key := range s.cfg.Keys {
			for _, val := range getter.Strings(record, key.Name) {
				if fm, ok := s.matchField(q, key.Name, val.ArrayIndex, val.Text); ok {
					fieldMatches = append(fieldMatches, fm)
				}
			}
		}
	}

	childScore := 1.0
	var spliced any
	hasChildren := false
	if s.cfg.RecurseKey != "" && depth < s.cfg.MaxDepth {
		childScore, spliced, hasChildren = s.searchChildren(q, record, depth)
	}

	if len(fieldMatches) == 0 && !hasChildren {
		return nil
	}

	score := s.aggregate(idx, fieldMatches)
	if hasChildren && childScore < score {
		score = childScore
	}

	item := record
	if spliced != nil {
		item = spliced
	}

	return &types.Result{
		Item:    item,
		Index:   idx,
		Score:   score,
		Matches: fieldMatches,
	}
}

// searchChildren descends into the record's child collection under
// RecurseKey. It returns the best child score and, for map records, a
// copy-on-write projection of the record with only the matching children
// spliced under the key. The input record is never mutated.
func (s *Searcher) searchChildren(q *query, record any, depth int) (float64, any, bool) {
	raw, found := getter.Get(record, s.cfg.RecurseKey)
	if !found {
		return 1, nil, false
	}
	children, _, err := normalize(raw)
	if err != nil {
		return 1, nil, false
	}

	best := 1.0
	var matched []any
	for i, child := range children {
		r := s.analyze(q, child, i, depth+1)
		if r == nil {
			continue
		}
		if r.Score < best {
			best = r.Score
		}
		matched = append(matched, r.Item)
	}
	if len(matched) == 0 {
		return 1, nil, false
	}

	if m, ok := record.(map[string]any); ok {
		cp := make(map[string]any, len(m))
		for k, v := range m {
			cp[k] = v
		}
		cp[s.cfg.RecurseKey] = matched
		return best, cp, true
	}
	return best, nil, true
}

// matchField scores one field text against the query. The full-text match
// always runs; token matching refines the score when enabled.
func (s *Searcher) matchField(q *query, key string, arrayIndex int, text string) (types.FieldMatch, bool) {
	if text == "" {
		return types.FieldMatch{}, false
	}

	full := q.full.Search(text)
	score := full.Score
	included := full.IsMatch

	if s.cfg.Tokenize && len(q.tokens) > 0 {
		words := splitNonEmpty(s.cfg.TokenSeparator, text)

		tokenTotal := 0.0
		matchedTokens := 0
		for _, tp := range q.tokens {
			best := 1.0
			hit := false
			for _, w := range words {
				m := tp.Search(w)
				if m.IsMatch {
					hit = true
					if m.Score < best {
						best = m.Score
					}
				}
			}
			if hit {
				matchedTokens++
				tokenTotal += best
			} else {
				// Full penalty for a query token that hits nothing.
				tokenTotal += 1
			}
		}

		if s.cfg.MatchAllTokens && matchedTokens < len(q.tokens) {
			return types.FieldMatch{}, false
		}

		tokenAvg := tokenTotal / float64(len(q.tokens))
		score = (full.Score + tokenAvg) / 2
		included = full.IsMatch || matchedTokens > 0
	}

	if !included {
		return types.FieldMatch{}, false
	}

	s.log.Debug("field scored", "key", key, "score", score, "value", text)

	return types.FieldMatch{
		Key:        key,
		ArrayIndex: arrayIndex,
		Value:      text,
		Score:      score,
		Indices:    full.Indices,
	}, true
}

// everything implements the empty-pattern policy: every record, input
// order, perfect score, no match metadata.
func (s *Searcher) everything() []types.Result {
	results := make([]types.Result, len(s.records))
	for i, rec := range s.records {
		results[i] = types.Result{Item: s.project(rec), Index: i}
	}
	return results
}

// finalize collapses the arena into the ranked output slice.
func (s *Searcher) finalize(arena []*types.Result) []types.Result {
	results := make([]types.Result, 0, len(arena))
	for _, r := range arena {
		if r == nil {
			continue
		}
		if !s.cfg.IncludeMatches {
			r.Matches = nil
		}
		r.Item = s.project(r.Item)
		results = append(results, *r)
	}

	if s.cfg.ShouldSort {
		less := s.cfg.SortFn
		if less == nil {
			less = func(a, b types.Result) bool { return a.Score < b.Score }
		}
		sort.SliceStable(results, func(i, j int) bool {
			return less(results[i], results[j])
		})
	}

	return results
}

// project remaps an item to its identifier field when Config.ID is set.
func (s *Searcher) project(item any) any {
	if s.cfg.ID == "" {
		return item
	}
	if v, ok := getter.Get(item, s.cfg.ID); ok {
		return v
	}
	return item
}

// normalize converts any slice or array collection into []any and reports
// whether it is a flat string collection.
func normalize(collection any) ([]any, bool, error) {
	rv := reflect.ValueOf(collection)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil, false, types.ErrNilCollection
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false, types.ErrUnsupportedCollection
	}

	records := make([]any, rv.Len())
	flat := rv.Len() > 0
	for i := 0; i < rv.Len(); i++ {
		records[i] = rv.Index(i).Interface()
		if _, ok := records[i].(string); !ok {
			flat = false
		}
	}
	return records, flat, nil
}

func splitNonEmpty(sep *regexp.Regexp, s string) []string {
	var out []string
	for _, part := range sep.Split(s, -1) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// traceLogger builds the debug trace sink: the configured logger, a stderr
// debug logger when Verbose is set, or a discard logger otherwise.
func traceLogger(cfg types.Config) *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	if cfg.Verbose {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
