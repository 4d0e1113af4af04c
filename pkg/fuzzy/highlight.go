package fuzzy

import "strings"

// Highlight wraps each matched range of value in pre/post markers. Indices
// are the inclusive rune ranges produced by a search over value; they must
// be ordered and non-overlapping, which is how the matcher emits them.
func Highlight(value string, indices [][2]int, pre, post string) string {
	if len(indices) == 0 {
		return value
	}

	runes := []rune(value)
	var b strings.Builder
	b.Grow(len(value) + len(indices)*(len(pre)+len(post)))

	next := 0
	for _, r := range indices {
		start, end := r[0], r[1]
		if start < 0 || start >= len(runes) || end < start {
			continue
		}
		if end >= len(runes) {
			end = len(runes) - 1
		}
		b.WriteString(string(runes[next:start]))
		b.WriteString(pre)
		b.WriteString(string(runes[start : end+1]))
		b.WriteString(post)
		next = end + 1
	}
	b.WriteString(string(runes[next:]))
	return b.String()
}
