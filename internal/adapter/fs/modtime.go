package fs

import (
	"os"
	"path/filepath"
	"time"
)

// ModTimes resolves last-modified times with os.Stat. Relative paths are
// resolved against a base directory.
type ModTimes struct {
	baseDir string
}

// NewModTimes creates a stat-backed mod-time source.
func NewModTimes(baseDir string) *ModTimes {
	return &ModTimes{baseDir: baseDir}
}

// ModTime returns the last-modified time of the file at path.
func (m *ModTimes) ModTime(path string) (time.Time, error) {
	if !filepath.IsAbs(path) && m.baseDir != "" {
		path = filepath.Join(m.baseDir, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
