package types

// Match is the outcome of matching one compiled pattern against one text.
// Score 0 is a perfect match, 1 is no match. Indices are inclusive
// [start, end] rune ranges over the original (not case-folded) text so a
// highlighting pass can slice it directly.
type Match struct {
	IsMatch bool
	Score   float64
	Indices [][2]int
}

// FieldMatch records one field (or one element of an array-valued field)
// of a record that produced a match.
type FieldMatch struct {
	// Key is the configured field key, empty for flat string collections.
	Key string

	// ArrayIndex is the element index when the field value is a sequence,
	// -1 for scalar values.
	ArrayIndex int

	// Value is the original field text the match was found in.
	Value string

	Score   float64
	Indices [][2]int
}

// Result is one ranked record in the search output. Index is the record's
// position in the input collection; repeated encounters of the same record
// accumulate into a single Result keyed by that position.
type Result struct {
	// Item is the original record, or its ID projection when Config.ID is
	// set. For recursive searches Item is a copy of the record with
	// matching children spliced under the recurse key.
	Item any

	// Index is the record's position in the input collection.
	Index int

	// Score is the aggregate record score; lower is better.
	Score float64

	// Matches holds per-field details when Config.IncludeMatches is set.
	Matches []FieldMatch
}

// Validate checks if the result is internally consistent
func (r *Result) Validate() error {
	if r.Index < 0 {
		return ErrInvalidIndex
	}

	if r.Score < 0 || r.Score > 1 {
		return ErrInvalidScore
	}

	for i := range r.Matches {
		if err := r.Matches[i].Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Validate checks if the field match is internally consistent
func (m *FieldMatch) Validate() error {
	if m.Score < 0 || m.Score > 1 {
		return ErrInvalidScore
	}

	if m.ArrayIndex < -1 {
		return ErrInvalidArrayIndex
	}

	for _, r := range m.Indices {
		if r[0] < 0 || r[1] < r[0] {
			return ErrInvalidIndexRange
		}
	}

	return nil
}
