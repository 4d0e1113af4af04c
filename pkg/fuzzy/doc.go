// Package fuzzy implements approximate record search: bitap matching per
// field, weighted score aggregation per record, and ranked results.
//
// # Basic Usage
//
//	books := []map[string]any{
//	    {"title": "The Great Gatsby", "author": "F. Scott Fitzgerald"},
//	    {"title": "The Grapes of Wrath", "author": "John Steinbeck"},
//	}
//
//	cfg := types.DefaultConfig()
//	cfg.Keys = []types.Key{{Name: "title"}, {Name: "author"}}
//
//	s, err := fuzzy.New(books, cfg)
//	if err != nil {
//	    // e.g. types.ErrInvalidWeight
//	}
//
//	results, err := s.Search(ctx, "gatby") // typo still matches
//	for _, r := range results {
//	    fmt.Printf("%v (score %.2f)\n", r.Item, r.Score)
//	}
//
// # Collections
//
// Flat []string collections are matched directly. Structured collections
// (slices of maps or structs) are searched through the configured Keys;
// dotted keys traverse nested values and slice-valued fields fan out per
// element. Missing fields contribute nothing and are never an error.
//
// # Scoring
//
// Each field score combines edit-error ratio with proximity to the expected
// location (see internal/bitap). Per record, any key with a weight other
// than 1 gates the aggregate: the record score is the minimum weighted
// field score. With only unweighted keys the aggregate is the arithmetic
// mean of the field scores.
//
// # Tokenized Search
//
// With Config.Tokenize the query and each field text are additionally split
// on Config.TokenSeparator. Every query token is scored against every field
// token; unmatched query tokens cost the full 1.0 penalty, and
// Config.MatchAllTokens excludes fields that miss any query token. The
// field score is then the mean of the full-text score and the token
// average.
//
// # Concurrency
//
// A Searcher is safe for concurrent Search calls; no state outlives a call.
// Config.Concurrency > 1 fans record matching out across workers, writing
// into an index-partitioned arena so no locking is needed. Cancellation is
// checked between records.
package fuzzy
