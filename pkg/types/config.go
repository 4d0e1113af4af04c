package types

import (
	"log/slog"
	"regexp"
)

// Bitap machine constants. The matcher operates on fixed-width 32-bit
// registers; patterns longer than WordSize runes are split into multiple
// mask blocks rather than promoted to a wider integer type.
const (
	// WordSize is the width in bits of a single bitap match register.
	WordSize = 32

	// DefaultMaxPatternLength is the default hard cap on pattern length.
	// Patterns longer than the cap are truncated (non-fatal degradation).
	DefaultMaxPatternLength = 32
)

// Default scoring parameters.
const (
	DefaultThreshold = 0.6
	DefaultDistance  = 100
)

// DefaultTokenSeparator splits queries and field text into tokens.
var DefaultTokenSeparator = regexp.MustCompile(` +`)

// Key names a searched field, optionally carrying a scoring weight.
// A dotted Name ("author.firstName") traverses nested records.
type Key struct {
	Name string

	// Weight biases the aggregate score. Zero means unset and is treated
	// as the default weight 1 ("unweighted"). Any field with weight != 1
	// acts as a gating signal: the record score becomes the minimum of
	// all weighted field scores, overriding unweighted contributions.
	Weight float64
}

// Config is the immutable search session configuration. Build one with
// DefaultConfig, adjust fields, then call Validate before use. A Config is
// never mutated during a search.
type Config struct {
	// Location is the text offset where a match is expected. Matches
	// further from Location score worse.
	Location int

	// Distance controls how quickly the score degrades as a match drifts
	// from Location. Zero demands the exact location; larger values
	// tolerate more drift.
	Distance int

	// Threshold is the maximum acceptable match score (lower is better).
	Threshold float64

	// MaxPatternLength is the hard cap on pattern length in runes.
	// Patterns over the cap are truncated with a warning-level trace.
	// Values above WordSize engage multi-block mask chaining.
	MaxPatternLength int

	// CaseSensitive disables the default per-rune case folding.
	CaseSensitive bool

	// MinMatchCharLength drops matched index ranges (and matches) shorter
	// than this many runes.
	MinMatchCharLength int

	// FindAllMatches forces a full scan of each text instead of stopping
	// once a score at or under Threshold is locked in.
	FindAllMatches bool

	// Tokenize additionally splits the query and each field text on
	// TokenSeparator and scores every (query-token, field-token) pair.
	Tokenize bool

	// MatchAllTokens requires every query token to match at least one
	// field token, otherwise the field is excluded entirely.
	MatchAllTokens bool

	// TokenSeparator splits text into tokens when Tokenize is set.
	// Nil falls back to DefaultTokenSeparator.
	TokenSeparator *regexp.Regexp

	// Keys are the record fields to search. Empty Keys with a structured
	// collection yields no results; flat string collections ignore Keys.
	Keys []Key

	// ID, when set, projects each result's Item to the value at this key
	// instead of the original record.
	ID string

	// ShouldSort orders results by ascending score. When false the input
	// collection order is preserved.
	ShouldSort bool

	// SortFn overrides the default ascending-score comparator. It reports
	// whether the result at i ranks before the result at j.
	SortFn func(i, j Result) bool

	// IncludeMatches attaches per-field match details to each result.
	IncludeMatches bool

	// RecurseKey names a child-collection field to descend into. Child
	// matches are spliced back into a copy of the parent record. Record
	// graphs are assumed acyclic; MaxDepth bounds the descent regardless.
	RecurseKey string

	// MaxDepth bounds recursive descent through RecurseKey. Zero means
	// DefaultMaxDepth.
	MaxDepth int

	// Concurrency fans record matching out across this many workers.
	// Values <= 1 search serially.
	Concurrency int

	// Logger receives structured trace events (pattern compiled, field
	// scored, aggregate computed) when Verbose is set. Nil with Verbose
	// logs to stderr; nil without Verbose discards all events.
	Logger *slog.Logger

	// Verbose enables debug tracing.
	Verbose bool
}

// DefaultMaxDepth bounds recursive child-collection descent.
const DefaultMaxDepth = 10

// DefaultConfig returns a Config with documented defaults applied.
func DefaultConfig() Config {
	return Config{
		Location:           0,
		Distance:           DefaultDistance,
		Threshold:          DefaultThreshold,
		MaxPatternLength:   DefaultMaxPatternLength,
		MinMatchCharLength: 1,
		TokenSeparator:     DefaultTokenSeparator,
		ShouldSort:         true,
		MaxDepth:           DefaultMaxDepth,
	}
}

// Validate checks the configuration, applying defaults for zero values.
// It fails with ErrInvalidWeight for any key weight outside (0, 1].
func (c *Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return ErrInvalidThreshold
	}

	if c.Distance < 0 {
		return ErrInvalidDistance
	}

	if c.MaxPatternLength <= 0 {
		c.MaxPatternLength = DefaultMaxPatternLength
	}

	if c.MinMatchCharLength < 1 {
		c.MinMatchCharLength = 1
	}

	if c.TokenSeparator == nil {
		c.TokenSeparator = DefaultTokenSeparator
	}

	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}

	for i := range c.Keys {
		if c.Keys[i].Name == "" {
			return ErrEmptyKeyName
		}
		w := c.Keys[i].Weight
		if w == 0 {
			c.Keys[i].Weight = 1
			continue
		}
		if w < 0 || w > 1 {
			return ErrInvalidWeight
		}
	}

	return nil
}
