package fuzzy

import "github.com/dshills/fuzzyfind-mcp/pkg/types"

// aggregate combines a record's per-field scores into one ranking score.
//
// Any key with weight != 1 is a gating signal: the aggregate is the minimum
// of all weighted field scores, overriding unweighted contributions
// entirely. With only unweighted keys the aggregate is the arithmetic mean
// of the field scores. The asymmetry is intentional: a strongly weighted
// field gates the record rather than blending into it.
func (s *Searcher) aggregate(idx int, matches []types.FieldMatch) float64 {
	if len(matches) == 0 {
		return 1
	}

	bestWeighted := 1.0
	hasWeighted := false
	total := 0.0

	for _, m := range matches {
		w, ok := s.weights[m.Key]
		if !ok || w == 0 {
			w = 1
		}
		if w != 1 {
			hasWeighted = true
			if n := m.Score * w; n < bestWeighted {
				bestWeighted = n
			}
		} else {
			total += m.Score
		}
	}

	score := total / float64(len(matches))
	if hasWeighted {
		score = bestWeighted
	}

	s.log.Debug("aggregate computed", "record", idx, "fields", len(matches), "score", score)
	return score
}
