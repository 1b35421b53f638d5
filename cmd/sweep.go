package cmd

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/haru1843/mobile-info-network-rep02/sim/sweep"
)

var (
	sweepConfigPath string // YAML sweep definition
	sweepOutputDir  string // Overrides output_dir from the YAML file
	sweepErlangDir  string // Overrides erlang_dir from the YAML file
)

// runSweep loads the sweep file, simulates the grid and writes one JSON file
// per cell length. Non-empty outputDir and erlangDir override the file. It
// returns the written paths.
func runSweep(path, outputDir, erlangDir string) ([]string, error) {
	cfg, err := sweep.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if erlangDir != "" {
		cfg.ErlangDir = erlangDir
	}
	sets, err := sweep.RunAll(cfg)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(sets))
	for _, set := range sets {
		p, err := sweep.Write(cfg.OutputDir, cfg, set)
		if err != nil {
			return paths, err
		}
		logrus.Infof("Wrote %s", p)
		paths = append(paths, p)
	}
	return paths, nil
}

// sweepCmd runs a parameter sweep described by a YAML file
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the simulation over a grid of arrival rates and cell lengths",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		if sweepConfigPath == "" {
			logrus.Fatalf("Sweep config not provided. Use --config.")
		}
		startTime := time.Now()
		paths, err := runSweep(sweepConfigPath, sweepOutputDir, sweepErlangDir)
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}
		logrus.Infof("Sweep complete: %d result sets in %s.", len(paths), time.Since(startTime))
	},
}

func init() {
	sweepCmd.Flags().StringVar(&sweepConfigPath, "config", "", "Path to the sweep YAML file")
	sweepCmd.Flags().StringVar(&sweepOutputDir, "output-dir", "", "Directory for result sets (overrides output_dir)")
	sweepCmd.Flags().StringVar(&sweepErlangDir, "erlang-dir", "", "Directory holding erlang_cap=<servers>.csv (overrides erlang_dir)")
}
