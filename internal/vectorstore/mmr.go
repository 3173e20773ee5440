// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package vectorstore

// selectMMR picks k candidates by maximal marginal relevance.
//
// Each round selects the candidate maximizing
//
//	lambda*sim(query, c) - (1-lambda)*max(sim(c, selected))
//
// so the first pick is the most relevant candidate and later picks are
// penalized for redundancy with what is already selected. Candidates must
// arrive sorted by query similarity (rankAll guarantees this).
func selectMMR(candidates []candidate, k int, lambda float64) []candidate {
	if len(candidates) <= k {
		return candidates
	}

	selected := make([]candidate, 0, k)
	remaining := make([]candidate, len(candidates))
	copy(remaining, candidates)

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := 0
		bestScore := mmrScore(remaining[0], selected, lambda)
		for i := 1; i < len(remaining); i++ {
			if score := mmrScore(remaining[i], selected, lambda); score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}

		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}

// mmrScore computes the marginal relevance of c given what is selected.
func mmrScore(c candidate, selected []candidate, lambda float64) float64 {
	redundancy := 0.0
	for _, s := range selected {
		if sim := cosine(c.vec, s.vec); sim > redundancy {
			redundancy = sim
		}
	}
	return lambda*c.score - (1-lambda)*redundancy
}
