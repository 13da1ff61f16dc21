package retrieval

import (
	"math"
	"strings"
)

// Candidate is a scored index hit with its vector, as needed for re-ranking.
type Candidate struct {
	ID        string
	Text      string
	Source    string
	Score     float64
	Embedding []float32
}

// MMR selects up to k candidates maximizing
// lambda*sim(query, d) - (1-lambda)*max sim(d, selected).
// Candidates whose normalized text was already selected are skipped.
func MMR(query []float32, candidates []Candidate, k int, lambda float64) []Candidate {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}

	relevance := make([]float64, len(candidates))
	for i, c := range candidates {
		if len(c.Embedding) > 0 && len(query) > 0 {
			relevance[i] = Cosine(query, c.Embedding)
		} else {
			relevance[i] = c.Score
		}
	}

	used := make([]bool, len(candidates))
	seen := make(map[string]bool)
	var selected []Candidate

	for len(selected) < k {
		best, bestScore := -1, math.Inf(-1)

		for i, c := range candidates {
			if used[i] {
				continue
			}
			if seen[textKey(c.Text)] {
				used[i] = true
				continue
			}

			redundancy := 0.0
			for _, s := range selected {
				if sim := Cosine(c.Embedding, s.Embedding); sim > redundancy {
					redundancy = sim
				}
			}

			score := lambda*relevance[i] - (1-lambda)*redundancy
			if score > bestScore {
				best, bestScore = i, score
			}
		}

		if best < 0 {
			break
		}
		used[best] = true
		seen[textKey(candidates[best].Text)] = true
		selected = append(selected, candidates[best])
	}

	return selected
}

// Cosine returns the cosine similarity of a and b, 0 for mismatched or zero vectors.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func textKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
