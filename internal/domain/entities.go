package domain

// Source tags classifying where a result came from. The tag decides
// whether temporal decay applies and how a timestamp is resolved.
const (
	// SourceKnowledge marks root-level knowledge files. Evergreen: never decayed.
	SourceKnowledge = "knowledge"
	// SourceMemory marks files under a memory/ namespace. Dated files
	// (memory/YYYY-MM-DD.<ext>) decay by their embedded date; non-dated
	// files in the namespace are evergreen.
	SourceMemory = "memory"
	// SourceSession marks transient session content. Decays by file mod time.
	SourceSession = "session"
)

// ScoredResult is one candidate hit produced by the retrieval engine.
type ScoredResult struct {
	// Path identifies the source content. Usually unique within a batch;
	// when it is not, Line plus the batch ordinal disambiguates.
	Path    string  `json:"path"`
	Score   float64 `json:"score"`
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Line    int     `json:"line,omitempty"`
}
