package refiner

import (
	"math"
	"regexp"
	"strconv"
	"sync"
	"time"

	"refine/config"
	"refine/internal/adapter/cache"
	"refine/internal/domain"
	"refine/internal/port"
)

// DecayScorer applies exponential temporal decay to result scores.
// Each score is multiplied by exp(-ln2/halfLife * ageDays); evergreen
// results and results without a resolvable timestamp keep their score.
type DecayScorer struct {
	cfg    config.DecayConfig
	source port.ModTimeSource
	// reference is the fixed "now" for all age calculations in one batch.
	// Zero means wall clock, captured once per Refine call.
	reference time.Time
}

// NewDecayScorer creates a new DecayScorer. The source is responsible for
// resolving relative result paths against its base directory.
func NewDecayScorer(cfg config.DecayConfig, source port.ModTimeSource, reference time.Time) *DecayScorer {
	return &DecayScorer{
		cfg:       cfg,
		source:    source,
		reference: reference,
	}
}

// Refine returns a copy of results with decayed scores. Only Score is
// rewritten; order and all other fields are preserved. When the stage is
// disabled the copy is returned unchanged without any lookups.
func (s *DecayScorer) Refine(results []domain.ScoredResult) []domain.ScoredResult {
	out := make([]domain.ScoredResult, len(results))
	copy(out, results)

	if !s.cfg.Enabled || len(out) == 0 {
		return out
	}

	now := s.reference
	if now.IsZero() {
		now = time.Now().UTC()
	}

	// Fresh per-invocation cache: lookups for the same (source, path) key
	// are coalesced and resolved once.
	mtimes := cache.NewModTimeCache(s.source)

	var wg sync.WaitGroup
	for i := range out {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ts, ok := s.timestamp(mtimes, out[i])
			if !ok {
				return
			}
			age := now.Sub(ts).Hours() / 24
			out[i].Score *= multiplier(s.cfg.HalfLifeDays, age)
		}(i)
	}
	wg.Wait()

	return out
}

// timestamp resolves the content timestamp for r, in priority order:
// embedded calendar date, evergreen exemption (no timestamp), mod-time
// lookup. ok=false means the result is never decayed.
func (s *DecayScorer) timestamp(mtimes *cache.ModTimeCache, r domain.ScoredResult) (time.Time, bool) {
	if t, ok := datedTimestamp(r.Path); ok {
		return t, true
	}

	switch r.Source {
	case domain.SourceKnowledge, domain.SourceMemory:
		// Root-level knowledge files and non-dated memory files are
		// evergreen regardless of actual file age.
		return time.Time{}, false
	}

	return mtimes.Lookup(r.Source+"\x00"+r.Path, r.Path)
}

// datedMemoryRe matches a trailing memory/YYYY-MM-DD.<ext> path component.
// The memory directory segment is case-sensitive and may appear anywhere
// in the path.
var datedMemoryRe = regexp.MustCompile(`(?:^|/)memory/(\d{4})-(\d{2})-(\d{2})\.[^/]+$`)

// datedTimestamp parses the calendar date embedded in a dated memory
// path, interpreted as UTC midnight. Dates that overflow the calendar
// (e.g. 2024-02-30) are rejected rather than rolled over.
func datedTimestamp(path string) (time.Time, bool) {
	m := datedMemoryRe.FindStringSubmatch(path)
	if m == nil {
		return time.Time{}, false
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// multiplier computes the decay factor for an age in days. Always in
// (0, 1]: future timestamps clamp to age zero, and a non-positive or
// non-finite half-life disables decay entirely.
func multiplier(halfLifeDays, ageDays float64) float64 {
	if math.IsNaN(ageDays) || math.IsInf(ageDays, 0) {
		return 1
	}
	if ageDays < 0 {
		ageDays = 0
	}

	lambda := 0.0
	if halfLifeDays > 0 && !math.IsInf(halfLifeDays, 1) {
		lambda = math.Ln2 / halfLifeDays
	}
	return math.Exp(-lambda * ageDays)
}
