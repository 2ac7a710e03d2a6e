package usecase

import (
	"refine/internal/domain"
	"refine/internal/port"
)

// RefineUseCase runs the refinement pipeline over a batch of scored
// results: temporal decay first, then diversity reranking. Each stage is
// independently toggleable; with both disabled the batch passes through
// unchanged.
type RefineUseCase struct {
	decay port.Refiner
	mmr   port.Refiner
}

// NewRefineUseCase creates a new refine use case.
func NewRefineUseCase(decay, mmr port.Refiner) *RefineUseCase {
	return &RefineUseCase{
		decay: decay,
		mmr:   mmr,
	}
}

// Refine returns a refined copy of results. The input is never mutated.
func (u *RefineUseCase) Refine(results []domain.ScoredResult) []domain.ScoredResult {
	out := make([]domain.ScoredResult, len(results))
	copy(out, results)

	if u.decay != nil {
		out = u.decay.Refine(out)
	}
	if u.mmr != nil {
		out = u.mmr.Refine(out)
	}
	return out
}
