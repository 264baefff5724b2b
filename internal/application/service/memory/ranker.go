package memory

import (
	"sort"

	"github.com/majordome-app/majordome/internal/types"
)

// Ranker orders memory candidates by relevance to a query. The storage
// contract stays untouched when the policy is swapped, e.g. for a vector
// similarity ranker once the embedding column is populated.
type Ranker interface {
	Rank(query string, candidates []*types.Memory) []*types.Memory
}

// HeuristicRanker is the default policy: declared importance first,
// recency of access second. These are proxy signals for relevance in the
// absence of real semantic search; callers must not assume semantic
// relevance.
type HeuristicRanker struct{}

// Rank sorts candidates by importance descending, ties broken by
// last_accessed descending
func (HeuristicRanker) Rank(query string, candidates []*types.Memory) []*types.Memory {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Importance != candidates[j].Importance {
			return candidates[i].Importance > candidates[j].Importance
		}
		return candidates[i].LastAccessed.After(candidates[j].LastAccessed)
	})
	return candidates
}
