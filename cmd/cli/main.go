package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgPath  string // YAML config path
	outDir   string // output directory for JSON, CSV and PNG files
	logLevel string // log verbosity
	withPNG  bool   // also render every chart to PNG
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "wealthsim",
	Short: "Run wealth simulations and export the derived dashboard series",
	Long: `wealthsim submits a parameter set to the simulation service, derives the
dashboard series from the returned snapshots and writes them as CSV (and
optionally PNG charts).

examples:
  wealthsim run --config examples/config.yaml --out results/
  wealthsim derive --data results/snapshots.json --out results/ --png
  wealthsim params --config examples/config.yaml --fields`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config (defaults when empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error)")

	for _, c := range []*cobra.Command{runCmd, deriveCmd} {
		c.Flags().StringVar(&outDir, "out", "results", "Output directory")
		c.Flags().BoolVar(&withPNG, "png", false, "Also render every chart to PNG")
	}
	deriveCmd.Flags().StringVar(&dataPath, "data", "results/snapshots.json", "Saved simulation response (JSON array of snapshots)")
	paramsCmd.Flags().BoolVar(&listFields, "fields", false, "List editable fields instead of values")

	rootCmd.AddCommand(runCmd, deriveCmd, paramsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
