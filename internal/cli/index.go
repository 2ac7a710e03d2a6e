package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"refine/config"
	"refine/internal/adapter/fs"
	"refine/internal/adapter/store"
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Record file mod times for offline timestamp lookups",
	Long: `Walk the specified directory and record each file's last-modified time
in a mod-time index (.refine/mtimes.db). 'refine run --mtime-index' can
then resolve result timestamps from the index instead of live stat calls,
which covers results whose backing files have since moved.

Examples:
  refine index .                 # Index current directory
  refine index /path/to/corpus   # Index specific directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	cfg := GetConfig()

	if err := config.EnsureRefineDir(path); err != nil {
		return fmt.Errorf("failed to create .refine directory: %w", err)
	}

	st, err := store.NewMTimeStore(config.MTimeIndexPath(path))
	if err != nil {
		return fmt.Errorf("failed to open mod-time index: %w", err)
	}
	defer st.Close()

	walker := fs.NewWalker(cfg.Index.Includes, cfg.Index.Excludes)

	fmt.Printf("Scanning %s...\n", path)
	files, err := walker.Walk(path)
	if err != nil {
		return fmt.Errorf("walk failed: %w", err)
	}

	bar := progressbar.Default(int64(len(files)), "indexing mod times")
	batch := make(map[string]time.Time, len(files))
	for _, f := range files {
		batch[f.Path] = time.Unix(f.ModTime, 0)
		bar.Add(1)
	}
	if err := st.PutBatch(batch); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}

	fmt.Printf("Indexed mod times for %d files\n", len(files))
	return nil
}
