package port

import "refine/internal/domain"

// Refiner is one stage of the result refinement pipeline. A stage never
// mutates its input slice; disabled stages return a copy unchanged.
type Refiner interface {
	Refine(results []domain.ScoredResult) []domain.ScoredResult
}
