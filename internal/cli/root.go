package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"refine/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "refine",
	Short: "Refine hybrid search results with temporal decay and MMR diversity",
	Long: `refine is a post-retrieval result refinement pipeline. It takes a ranked
list of scored search results, rewrites scores by an age-based exponential
decay, and reorders the list with Maximal Marginal Relevance to reduce
redundancy among top results.

Example usage:
  refine run -i results.json --diversity --lambda 0.5
  refine index .    # record file mod times for offline timestamp lookups`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./refine.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
