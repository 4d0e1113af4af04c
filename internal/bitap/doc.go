// Package bitap implements bit-parallel approximate string matching
// (Wu-Manber bitap) with location-aware scoring.
//
// A pattern is compiled once into per-character position bitmasks and then
// reused across every candidate text:
//
//	p, err := bitap.Compile("hello", bitap.Options{
//	    Threshold: 0.6,
//	    Distance:  100,
//	})
//	if err != nil {
//	    // types.ErrEmptyPattern
//	}
//
//	match := p.Search("say hello to the world")
//	if match.IsMatch {
//	    fmt.Printf("score %.2f at %v\n", match.Score, match.Indices)
//	}
//
// # Scoring
//
// A candidate occurrence ending at text position x with e accumulated edit
// errors scores
//
//	e/patternLen + |x - Location|/Distance
//
// clamped to [0, 1]; lower is better, 0 is a perfect match at the expected
// location. Distance 0 demands the exact location. A text matches when its
// best score is at or under Threshold and the matched span is at least
// MinMatchCharLength runes long.
//
// # Registers
//
// Match vectors are fixed-width 32-bit registers (types.WordSize). Patterns
// longer than one word are split into an explicit array of word-sized blocks,
// each with its own alphabet; block results are averaged and their matched
// ranges merged. Patterns longer than Options.MaxPatternLength are truncated
// rather than rejected; Pattern.Truncated reports the degradation so callers
// can surface a warning.
package bitap
