package search

import (
	"sort"

	"github.com/kailas-cloud/prodsearch/internal/domain"
)

// tagCandidates wraps one source's ordered ID list into candidates, capturing
// each ID's rank before the lists are merged. The rank is what lets the
// merged output keep each source's own relative order after deduplication.
func tagCandidates(ids []string, source domain.Source) []domain.Candidate {
	candidates := make([]domain.Candidate, len(ids))
	for i, id := range ids {
		candidates[i] = domain.Candidate{ExternalID: id, Source: source, Rank: i}
	}
	return candidates
}

// mergeCandidates deduplicates candidates by external ID and orders the
// survivors. When both sources propose the same ID the text match survives:
// text relevance is trusted over vector similarity. Final order is text
// matches first, then embedding matches, each group in its source's rank
// order.
func mergeCandidates(candidates []domain.Candidate) []string {
	best := make(map[string]domain.Candidate, len(candidates))
	for _, c := range candidates {
		cur, ok := best[c.ExternalID]
		if !ok || c.Source < cur.Source {
			best[c.ExternalID] = c
		}
	}

	merged := make([]domain.Candidate, 0, len(best))
	for _, c := range best {
		merged = append(merged, c)
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Source != merged[j].Source {
			return merged[i].Source < merged[j].Source
		}
		return merged[i].Rank < merged[j].Rank
	})

	ids := make([]string, len(merged))
	for i, c := range merged {
		ids[i] = c.ExternalID
	}
	return ids
}
