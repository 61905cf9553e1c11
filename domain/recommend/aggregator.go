package recommend

import "videorec/domain/graph"

// Score is the accumulated rating mass for one candidate video.
type Score struct {
	Candidate graph.Vertex
	Total     int
}

// Aggregate folds sampled edge ratings into a per-candidate score keyed by
// candidate identity: score[candidate] += rating. Raw rating sum is the
// ranking signal; no averaging, so candidates reached through more and higher
// rated paths score higher.
func Aggregate(samples []Sample) map[string]*Score {
	scores := make(map[string]*Score, len(samples))
	for _, s := range samples {
		sc, ok := scores[s.Candidate.Key]
		if !ok {
			sc = &Score{Candidate: s.Candidate}
			scores[s.Candidate.Key] = sc
		}
		sc.Total += s.Rating
	}
	return scores
}
