package bitap

import (
	"unicode"

	"github.com/dshills/fuzzyfind-mcp/pkg/types"
)

// Options configures pattern compilation and matching. The zero value is
// not useful; callers normally derive Options from a validated types.Config.
type Options struct {
	// Location is the expected match offset in the text.
	Location int

	// Distance softens the penalty for matching away from Location.
	// Zero demands the exact location.
	Distance int

	// Threshold is the maximum acceptable score for a match.
	Threshold float64

	// MaxPatternLength caps the pattern length in runes; longer patterns
	// are truncated. Zero means types.DefaultMaxPatternLength.
	MaxPatternLength int

	// CaseSensitive disables per-rune case folding.
	CaseSensitive bool

	// FindAllMatches scans the whole text instead of stopping once a
	// score at or under Threshold cannot be improved.
	FindAllMatches bool

	// MinMatchCharLength drops matched ranges shorter than this.
	MinMatchCharLength int
}

// block holds the compiled masks for one word-sized chunk of the pattern.
// The least-significant bit of a mask corresponds to the chunk's last rune,
// so the matcher can shift match vectors left as it consumes text.
type block struct {
	runes    []rune
	alphabet map[rune]uint32
}

// Pattern is a compiled, reusable representation of a query string.
// Immutable once built; one Pattern serves all candidate texts for a query.
type Pattern struct {
	opts      Options
	original  string
	runes     []rune // folded, possibly truncated
	blocks    []block
	truncated bool
}

// Compile builds the per-character position bitmasks for pattern.
// It returns types.ErrEmptyPattern when the normalized pattern is empty.
// Patterns longer than MaxPatternLength are truncated, not rejected;
// check Truncated on the result.
func Compile(pattern string, opts Options) (*Pattern, error) {
	if opts.MaxPatternLength <= 0 {
		opts.MaxPatternLength = types.DefaultMaxPatternLength
	}
	if opts.MinMatchCharLength < 1 {
		opts.MinMatchCharLength = 1
	}

	runes := fold(pattern, opts.CaseSensitive)
	if len(runes) == 0 {
		return nil, types.ErrEmptyPattern
	}

	truncated := false
	if len(runes) > opts.MaxPatternLength {
		runes = runes[:opts.MaxPatternLength]
		truncated = true
	}

	p := &Pattern{
		opts:      opts,
		original:  pattern,
		runes:     runes,
		truncated: truncated,
	}

	for start := 0; start < len(runes); start += types.WordSize {
		end := start + types.WordSize
		if end > len(runes) {
			end = len(runes)
		}
		p.blocks = append(p.blocks, compileBlock(runes[start:end]))
	}

	return p, nil
}

// compileBlock builds a chunk's alphabet. Bit (len-1-i) is set for the rune
// at position i, placing the last rune at the least-significant bit.
func compileBlock(chunk []rune) block {
	alphabet := make(map[rune]uint32, len(chunk))
	for i, r := range chunk {
		alphabet[r] |= 1 << (len(chunk) - i - 1)
	}
	return block{runes: chunk, alphabet: alphabet}
}

// String returns the original pattern text as given.
func (p *Pattern) String() string { return p.original }

// Len returns the compiled pattern length in runes after any truncation.
func (p *Pattern) Len() int { return len(p.runes) }

// Blocks returns the number of word-sized mask blocks.
func (p *Pattern) Blocks() int { return len(p.blocks) }

// Truncated reports whether the pattern exceeded MaxPatternLength and was
// truncated to the cap.
func (p *Pattern) Truncated() bool { return p.truncated }

// fold lowercases every rune unless matching is case sensitive. Folding is
// per rune so positions in the folded text line up with the original.
func fold(s string, caseSensitive bool) []rune {
	runes := []rune(s)
	if caseSensitive {
		return runes
	}
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}
