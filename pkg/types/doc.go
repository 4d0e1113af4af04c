// Package types provides shared type definitions for the FuzzyFind MCP server.
//
// This package defines domain types used across multiple components of
// FuzzyFind, including the search configuration, per-text match outcomes,
// per-field match details, and ranked record results.
//
// # Core Types
//
// Config controls a search session and is validated eagerly:
//
//	cfg := types.DefaultConfig()
//	cfg.Keys = []types.Key{
//	    {Name: "title", Weight: 0.7},
//	    {Name: "author.firstName"},
//	}
//	if err := cfg.Validate(); err != nil {
//	    // e.g. types.ErrInvalidWeight
//	}
//
// Match is the outcome of running one compiled pattern against one text:
//
//	match := types.Match{
//	    IsMatch: true,
//	    Score:   0.25,             // 0 = perfect, 1 = no match
//	    Indices: [][2]int{{4, 9}}, // inclusive rune ranges
//	}
//
// Result ties a record back to its position in the input collection along
// with its aggregate score and the per-field matches that produced it.
package types
