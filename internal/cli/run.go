package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"refine/internal/adapter/fs"
	"refine/internal/adapter/refiner"
	"refine/internal/adapter/store"
	"refine/internal/domain"
	"refine/internal/port"
	"refine/internal/usecase"
)

var (
	runInput      string
	runJSON       bool
	runDecay      bool
	runDiversity  bool
	runHalfLife   float64
	runLambda     float64
	runNow        string
	runMTimeIndex string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Refine a batch of scored search results",
	Long: `Read a JSON array of scored results, apply temporal decay and MMR
diversity reranking per the configuration, and write the refined results.

Input shape: [{"path": ..., "score": ..., "content": ..., "source": ..., "line": ...}]

Examples:
  refine run -i results.json --decay --half-life 30
  cat results.json | refine run --diversity --lambda 0.5 --json`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runInput, "input", "i", "", "input file (default is stdin)")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "output as JSON")
	runCmd.Flags().BoolVar(&runDecay, "decay", false, "enable the temporal decay stage")
	runCmd.Flags().BoolVar(&runDiversity, "diversity", false, "enable the diversity reranking stage")
	runCmd.Flags().Float64Var(&runHalfLife, "half-life", 0, "decay half-life in days (default from config)")
	runCmd.Flags().Float64Var(&runLambda, "lambda", 0, "MMR relevance/diversity trade-off in [0,1] (default from config)")
	runCmd.Flags().StringVar(&runNow, "now", "", "RFC3339 reference time for age calculations (default is wall clock)")
	runCmd.Flags().StringVar(&runMTimeIndex, "mtime-index", "", "serve timestamp lookups from this mod-time index instead of stat")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	decayCfg := cfg.Decay
	diversityCfg := cfg.Diversity
	if cmd.Flags().Changed("decay") {
		decayCfg.Enabled = runDecay
	}
	if cmd.Flags().Changed("half-life") {
		decayCfg.HalfLifeDays = runHalfLife
	}
	if cmd.Flags().Changed("diversity") {
		diversityCfg.Enabled = runDiversity
	}
	if cmd.Flags().Changed("lambda") {
		diversityCfg.Lambda = runLambda
	}

	var reference time.Time
	if runNow != "" {
		var err error
		reference, err = time.Parse(time.RFC3339, runNow)
		if err != nil {
			return fmt.Errorf("invalid --now value: %w", err)
		}
	}

	results, err := readResults(runInput)
	if err != nil {
		return fmt.Errorf("failed to read results: %w", err)
	}

	baseDir := cfg.BaseDir
	if baseDir == "" {
		baseDir = GetRootDir()
	}

	var mtimes port.ModTimeSource
	if runMTimeIndex != "" {
		st, err := store.NewMTimeStore(runMTimeIndex)
		if err != nil {
			return fmt.Errorf("failed to open mod-time index: %w", err)
		}
		defer st.Close()
		mtimes = st
	} else {
		mtimes = fs.NewModTimes(baseDir)
	}

	decay := refiner.NewDecayScorer(decayCfg, mtimes, reference)
	mmr := refiner.NewMMRReranker(diversityCfg)
	refined := usecase.NewRefineUseCase(decay, mmr).Refine(results)

	if runJSON {
		output, _ := json.MarshalIndent(refined, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(refined) == 0 {
		fmt.Println("No results.")
		return nil
	}
	for i, r := range refined {
		fmt.Printf("--- [%d] %s (score: %.4f, source: %s) ---\n", i+1, r.Path, r.Score, r.Source)
		text := r.Content
		if len(text) > 500 {
			text = text[:500] + "..."
		}
		fmt.Println(text)
		fmt.Println()
	}

	return nil
}

func readResults(path string) ([]domain.ScoredResult, error) {
	var data []byte
	var err error
	if path == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	var results []domain.ScoredResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, err
	}
	return results, nil
}
