package analyze

import "sort"

// Select picks the final set of windows to render: best score first,
// greedily skipping windows that overlap an accepted one, stopping at
// maxShorts. Windows at or below minScore are not considered. When nothing
// clears the threshold the single highest-scoring window is accepted
// anyway, so a job that got this far always yields at least one short.
func Select(scored []ScoredCandidate, minScore float64, maxShorts int) []ScoredCandidate {
	if len(scored) == 0 {
		return nil
	}
	if maxShorts <= 0 {
		maxShorts = 1
	}

	ranked := make([]ScoredCandidate, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Overall > ranked[j].Overall
	})

	var accepted []ScoredCandidate
	for _, c := range ranked {
		if c.Overall <= minScore {
			break // ranked descending, nothing further clears the threshold
		}
		if overlapsAny(accepted, c) {
			continue
		}
		accepted = append(accepted, c)
		if len(accepted) >= maxShorts {
			break
		}
	}

	if len(accepted) == 0 {
		accepted = append(accepted, ranked[0])
	}

	// Present accepted windows in timeline order.
	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].Start < accepted[j].Start
	})
	return accepted
}

func overlapsAny(accepted []ScoredCandidate, c ScoredCandidate) bool {
	for _, a := range accepted {
		if c.Start < a.End && a.Start < c.End {
			return true
		}
	}
	return false
}
