package bitap

import (
	"math"

	"github.com/dshills/fuzzyfind-mcp/pkg/types"
)

// Search finds the best approximate occurrence of the pattern in text.
// It never fails: malformed or empty text yields a definitive no-match.
// Returned indices are inclusive rune ranges over the original text.
func (p *Pattern) Search(text string) types.Match {
	textRunes := fold(text, p.opts.CaseSensitive)
	if len(textRunes) == 0 {
		return types.Match{Score: 1}
	}

	// Identical text short-circuits the scan entirely.
	if runesEqual(p.runes, textRunes) {
		m := types.Match{Score: 0}
		if len(textRunes) >= p.opts.MinMatchCharLength {
			m.IsMatch = true
			m.Indices = [][2]int{{0, len(textRunes) - 1}}
		}
		return m
	}

	// One scan per word-sized block. Each block searches near its own
	// expected location, offset by the block's position in the pattern.
	matchMask := make([]bool, len(textRunes))
	total := 0.0
	found := false
	for i, b := range p.blocks {
		score, ok := p.searchBlock(textRunes, b, p.opts.Location+i*types.WordSize, matchMask)
		total += score
		if ok {
			found = true
		}
	}

	score := math.Min(1, total/float64(len(p.blocks)))
	indices := matchedRanges(matchMask, p.opts.MinMatchCharLength)

	return types.Match{
		IsMatch: found && score <= p.opts.Threshold && len(indices) > 0,
		Score:   score,
		Indices: indices,
	}
}

// searchBlock runs the bit-parallel scan for one pattern block. It returns
// the best score seen and whether any candidate beat the threshold. Text
// positions whose rune occurs in the block's alphabet are recorded in
// matchMask for later range reconstruction.
func (p *Pattern) searchBlock(text []rune, b block, expected int, matchMask []bool) (float64, bool) {
	patLen := len(b.runes)
	textLen := len(text)
	currentThreshold := p.opts.Threshold

	// An exact substring occurrence tightens the score we are willing to
	// accept before the approximate scan even starts.
	if !p.opts.FindAllMatches {
		if idx := indexOf(text, b.runes, expected); idx >= 0 {
			currentThreshold = math.Min(p.scoreAt(0, patLen, idx, expected), currentThreshold)
			if last := lastIndexOf(text, b.runes, expected+patLen); last >= 0 {
				currentThreshold = math.Min(p.scoreAt(0, patLen, last, expected), currentThreshold)
			}
		}
	}

	bestLocation := -1
	finalScore := 1.0
	binMax := patLen + textLen
	topBit := uint32(1) << (patLen - 1)

	var lastBits []uint32

	for e := 0; e < patLen; e++ {
		// Widest radius around the expected location that could still
		// produce an acceptable score at this error count.
		binMin := 0
		binMid := binMax
		for binMin < binMid {
			if p.scoreAt(e, patLen, expected+binMid, expected) <= currentThreshold {
				binMin = binMid
			} else {
				binMax = binMid
			}
			binMid = (binMax-binMin)/2 + binMin
		}
		binMax = binMid

		start := expected - binMid + 1
		if start < 1 {
			start = 1
		}
		finish := textLen
		if !p.opts.FindAllMatches {
			finish = expected + binMid
			if finish > textLen {
				finish = textLen
			}
			finish += patLen
		}

		bits := make([]uint32, finish+2)
		bits[finish+1] = 1<<e - 1

		for j := finish; j >= start; j-- {
			cur := j - 1
			var charMatch uint32
			if cur < textLen {
				charMatch = b.alphabet[text[cur]]
			}
			if charMatch != 0 {
				matchMask[cur] = true
			}

			// Row zero is exact matching; deeper rows fold in the
			// previous error level's vector to admit substitutions,
			// insertions and deletions.
			bits[j] = (bits[j+1]<<1 | 1) & charMatch
			if e > 0 {
				bits[j] |= (lastBits[j+1]|lastBits[j])<<1 | 1 | lastBits[j+1]
			}

			if bits[j]&topBit == 0 {
				continue
			}

			score := p.scoreAt(e, patLen, cur, expected)
			if score > currentThreshold {
				continue
			}

			currentThreshold = score
			bestLocation = cur
			finalScore = score

			if bestLocation <= expected {
				// Nothing to the left can score better.
				break
			}
			// Positions before the mirror of the best location
			// cannot improve on it.
			if s := 2*expected - bestLocation; s > start {
				start = s
			}
		}

		// One more error at the expected location already exceeds the
		// acceptable score, so deeper error levels cannot help.
		if p.scoreAt(e+1, patLen, expected, expected) > currentThreshold {
			break
		}
		lastBits = bits
	}

	return finalScore, bestLocation >= 0
}

// scoreAt computes the combined error-and-proximity score for a candidate
// occurrence at location, clamped to [0, 1]. Lower is better.
func (p *Pattern) scoreAt(errs, patLen, location, expected int) float64 {
	accuracy := float64(errs) / float64(patLen)
	proximity := location - expected
	if proximity < 0 {
		proximity = -proximity
	}

	if p.opts.Distance == 0 {
		if proximity == 0 {
			return math.Min(1, accuracy)
		}
		return 1
	}

	return math.Min(1, accuracy+float64(proximity)/float64(p.opts.Distance))
}

// matchedRanges consolidates the match mask into inclusive [start, end]
// ranges, dropping runs shorter than minLen.
func matchedRanges(mask []bool, minLen int) [][2]int {
	var ranges [][2]int
	start := -1
	for i, on := range mask {
		if on {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if i-start >= minLen {
				ranges = append(ranges, [2]int{start, i - 1})
			}
			start = -1
		}
	}
	if start >= 0 && len(mask)-start >= minLen {
		ranges = append(ranges, [2]int{start, len(mask) - 1})
	}
	return ranges
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// indexOf returns the first exact occurrence of pat in text at or after
// from, or -1.
func indexOf(text, pat []rune, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i+len(pat) <= len(text); i++ {
		if runesEqual(text[i:i+len(pat)], pat) {
			return i
		}
	}
	return -1
}

// lastIndexOf returns the last exact occurrence of pat in text starting at
// or before until, or -1.
func lastIndexOf(text, pat []rune, until int) int {
	start := until
	if start > len(text)-len(pat) {
		start = len(text) - len(pat)
	}
	for i := start; i >= 0; i-- {
		if runesEqual(text[i:i+len(pat)], pat) {
			return i
		}
	}
	return -1
}
