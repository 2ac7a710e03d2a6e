package refiner

import (
	"fmt"
	"math"
	"sort"

	"refine/config"
	"refine/internal/adapter/analyzer"
	"refine/internal/domain"
)

// Item is the (id, score, content) shape the MMR core operates on.
type Item struct {
	ID      string
	Score   float64
	Content string
}

// MMRReranker reorders results by Maximal Marginal Relevance, trading
// relevance against redundancy with already-selected results:
//
//	MMR(c) = λ * normalizedRelevance(c) - (1-λ) * maxSimilarity(c, selected)
//
// The output is always a permutation of the input.
type MMRReranker struct {
	cfg config.DiversityConfig
}

// NewMMRReranker creates a new MMRReranker.
func NewMMRReranker(cfg config.DiversityConfig) *MMRReranker {
	return &MMRReranker{cfg: cfg}
}

// Refine adapts hybrid search results onto the MMR core. Each result
// gets a synthetic per-call identity (path + line + ordinal) so that
// bookkeeping stays correct even when two results share a path and
// content, then the reranked items are mapped back to their originals.
func (r *MMRReranker) Refine(results []domain.ScoredResult) []domain.ScoredResult {
	out := make([]domain.ScoredResult, len(results))
	copy(out, results)

	if !r.cfg.Enabled || len(out) <= 1 {
		return out
	}

	items := make([]Item, len(out))
	byID := make(map[string]domain.ScoredResult, len(out))
	for i, res := range out {
		id := fmt.Sprintf("%s#%d#%d", res.Path, res.Line, i)
		items[i] = Item{ID: id, Score: res.Score, Content: res.Content}
		byID[id] = res
	}

	ranked := r.Rerank(items)

	for i, it := range ranked {
		out[i] = byID[it.ID]
	}
	return out
}

// Rerank greedily selects items in MMR order until none remain.
func (r *MMRReranker) Rerank(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)

	if !r.cfg.Enabled || len(out) <= 1 {
		return out
	}

	lambda := clampLambda(r.cfg.Lambda)
	if lambda == 1 {
		// Pure relevance: the greedy loop would produce the same order at
		// quadratic cost, so sort directly.
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Score > out[j].Score
		})
		return out
	}

	n := len(out)
	tokens := make([]map[string]struct{}, n)
	for i, it := range out {
		tokens[i] = analyzer.TokenSet(it.Content)
	}

	norm := normalizeScores(out)

	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}
	// maxSim[i] is the largest similarity between item i and any selected
	// item so far, updated incrementally after each selection.
	maxSim := make([]float64, n)

	selected := make([]Item, 0, n)
	for len(remaining) > 0 {
		bestPos := -1
		bestMMR := math.Inf(-1)
		for pos, idx := range remaining {
			mmr := lambda*norm[idx] - (1-lambda)*maxSim[idx]
			switch {
			case bestPos == -1 || mmr > bestMMR:
				bestPos, bestMMR = pos, mmr
			case mmr == bestMMR && out[idx].Score > out[remaining[bestPos]].Score:
				// Equal MMR: prefer the higher original score.
				bestPos = pos
			}
		}
		if bestPos < 0 {
			panic("refiner: mmr selection found no candidate")
		}

		winner := remaining[bestPos]
		remaining[bestPos] = remaining[len(remaining)-1]
		remaining = remaining[:len(remaining)-1]
		selected = append(selected, out[winner])

		for _, idx := range remaining {
			if sim := jaccardSimilarity(tokens[winner], tokens[idx]); sim > maxSim[idx] {
				maxSim[idx] = sim
			}
		}
	}

	return selected
}

// normalizeScores rescales scores to [0, 1] across the batch, relative
// to the maximum. When all scores are equal (or none is positive) every
// normalized relevance is 1.
func normalizeScores(items []Item) []float64 {
	min, max := items[0].Score, items[0].Score
	for _, it := range items[1:] {
		if it.Score < min {
			min = it.Score
		}
		if it.Score > max {
			max = it.Score
		}
	}

	norm := make([]float64, len(items))
	if max == min || max <= 0 {
		for i := range norm {
			norm[i] = 1
		}
		return norm
	}
	for i, it := range items {
		n := it.Score / max
		if n < 0 {
			n = 0
		}
		norm[i] = n
	}
	return norm
}

// clampLambda clamps the trade-off parameter into [0, 1]. NaN falls back
// to the documented default rather than poisoning every comparison.
func clampLambda(l float64) float64 {
	if math.IsNaN(l) {
		return 0.7
	}
	if l < 0 {
		return 0
	}
	if l > 1 {
		return 1
	}
	return l
}

// jaccardSimilarity computes the Jaccard similarity between two token
// sets. Two empty sets are maximally similar; an empty set and a
// non-empty set are maximally dissimilar.
func jaccardSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	intersection := 0
	for t := range a {
		if _, exists := b[t]; exists {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
