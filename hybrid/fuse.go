package hybrid

import (
	"slices"
	"sort"

	"github.com/poiesic/recall/core"
)

// Fusion selects how per-source scores combine into a final score.
type Fusion int

const (
	// FusionWeightedSum accumulates weight x score across sources. A document
	// absent from a source contributes 0 for that source, not a penalty, and
	// weights are used as given without normalization.
	FusionWeightedSum Fusion = iota

	// FusionMax keeps the best single weighted score across sources.
	FusionMax
)

// sourceResult is one subquery's contribution to fusion.
type sourceResult struct {
	name    string
	weight  float64
	results []core.ScoredResult
}

// fuse merges the per-source result sets into one ranked, deduplicated list.
// Final scores are clamped to [0,1]; ties order by document id ascending for
// determinism.
func fuse(strategy Fusion, sources []sourceResult, limit int) []core.ScoredResult {
	merged := make(map[string]*core.ScoredResult)

	for _, src := range sources {
		for _, r := range src.results {
			weighted := src.weight * r.Score

			m, ok := merged[r.DocumentID]
			if !ok {
				m = &core.ScoredResult{
					DocumentID:   r.DocumentID,
					SourceScores: make(map[string]float64),
				}
				merged[r.DocumentID] = m
			}
			m.SourceScores[src.name] = r.Score

			switch strategy {
			case FusionMax:
				if weighted > m.Score {
					m.Score = weighted
				}
			default:
				m.Score += weighted
			}

			// Carry match payloads through fusion.
			m.MatchCount += r.MatchCount
			for _, f := range r.MatchedFields {
				if !slices.Contains(m.MatchedFields, f) {
					m.MatchedFields = append(m.MatchedFields, f)
				}
			}
			m.Matches = append(m.Matches, r.Matches...)
			if m.Highlight == nil {
				m.Highlight = r.Highlight
			}
		}
	}

	results := make([]core.ScoredResult, 0, len(merged))
	for _, m := range merged {
		m.Score = core.ClampScore(m.Score)
		results = append(results, *m)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocumentID < results[j].DocumentID
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
