package bitap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/fuzzyfind-mcp/pkg/types"
)

func defaultOptions() Options {
	return Options{
		Location:           0,
		Distance:           types.DefaultDistance,
		Threshold:          types.DefaultThreshold,
		MaxPatternLength:   types.DefaultMaxPatternLength,
		MinMatchCharLength: 1,
	}
}

func TestCompile_EmptyPattern(t *testing.T) {
	_, err := Compile("", defaultOptions())
	assert.ErrorIs(t, err, types.ErrEmptyPattern)
}

func TestCompile_Alphabet(t *testing.T) {
	p, err := Compile("hello", defaultOptions())
	require.NoError(t, err)

	require.Equal(t, 1, p.Blocks())
	alphabet := p.blocks[0].alphabet

	// LSB corresponds to the last pattern rune.
	assert.Equal(t, uint32(0b10000), alphabet['h'])
	assert.Equal(t, uint32(0b01000), alphabet['e'])
	assert.Equal(t, uint32(0b00110), alphabet['l'], "both l positions set")
	assert.Equal(t, uint32(0b00001), alphabet['o'])
}

func TestCompile_CaseFolding(t *testing.T) {
	p, err := Compile("HeLLo", defaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []rune("hello"), p.runes)

	opts := defaultOptions()
	opts.CaseSensitive = true
	p, err = Compile("HeLLo", opts)
	require.NoError(t, err)
	assert.Equal(t, []rune("HeLLo"), p.runes)
}

func TestCompile_Truncation(t *testing.T) {
	opts := defaultOptions()
	opts.MaxPatternLength = 8

	p, err := Compile("abcdefghij", opts)
	require.NoError(t, err)

	assert.True(t, p.Truncated())
	assert.Equal(t, 8, p.Len())
	assert.Equal(t, "abcdefghij", p.String(), "original text preserved")

	// The truncated pattern still matches.
	m := p.Search("abcdefgh")
	assert.True(t, m.IsMatch)
	assert.Equal(t, 0.0, m.Score)
}

func TestCompile_MultiBlock(t *testing.T) {
	opts := defaultOptions()
	opts.MaxPatternLength = 64

	// 40 distinct runes: two blocks of 32 and 8.
	long := "abcdefghijklmnopqrstuvwxyz0123456789+-*/"
	p, err := Compile(long, opts)
	require.NoError(t, err)

	assert.Equal(t, 2, p.Blocks())
	assert.Equal(t, 32, len(p.blocks[0].runes))
	assert.Equal(t, 8, len(p.blocks[1].runes))
	assert.False(t, p.Truncated())
}

func TestCompile_WordSizePattern(t *testing.T) {
	// Exactly one full word must not spill into a second block.
	exact := "abcdefghijklmnopqrstuvwxyz012345"
	require.Len(t, []rune(exact), types.WordSize)

	p, err := Compile(exact, defaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, p.Blocks())
}
