package port

import "time"

// ModTimeSource resolves a path to its last-modified time.
type ModTimeSource interface {
	// ModTime returns the last-modified time for path, or an error if the
	// path cannot be resolved. Callers treat any error as "no timestamp".
	ModTime(path string) (time.Time, error)
}
