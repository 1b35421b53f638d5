package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/haru1843/mobile-info-network-rep02/sim/erlang"
)

var (
	erlangServers   int     // Total servers (cells × per-cell capacity for a ring)
	erlangFrom      float64 // First traffic intensity
	erlangTo        float64 // Last traffic intensity
	erlangStep      float64 // Traffic intensity increment
	erlangOutputDir string  // Directory for the CSV table
)

// writeErlangTable generates and saves the reference table.
func writeErlangTable(servers int, from, to, step float64, dir string) (string, error) {
	tbl, err := erlang.NewTable(servers, from, to, step)
	if err != nil {
		return "", err
	}
	return erlang.Save(dir, tbl)
}

// erlangCmd writes the Erlang-B reference table used for comparison plots
var erlangCmd = &cobra.Command{
	Use:   "erlang",
	Short: "Write an Erlang-B reference table as CSV",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		path, err := writeErlangTable(erlangServers, erlangFrom, erlangTo, erlangStep, erlangOutputDir)
		if err != nil {
			logrus.Fatalf("Erlang table failed: %v", err)
		}
		logrus.Infof("Wrote %s", path)
	},
}

func init() {
	erlangCmd.Flags().IntVar(&erlangServers, "servers", 15, "Number of servers")
	erlangCmd.Flags().Float64Var(&erlangFrom, "from", 0.1, "First traffic intensity")
	erlangCmd.Flags().Float64Var(&erlangTo, "to", 20, "Last traffic intensity")
	erlangCmd.Flags().Float64Var(&erlangStep, "step", 0.1, "Traffic intensity increment")
	erlangCmd.Flags().StringVar(&erlangOutputDir, "output-dir", "output", "Directory for the CSV table")
}
