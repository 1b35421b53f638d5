package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/haru1843/mobile-info-network-rep02/sim"
)

var (
	// CLI flags shared by all subcommands
	logLevel string // Log verbosity level

	// CLI flags for a single simulation run
	seed               int64   // Master seed for all random streams
	arrivalRate        float64 // λ, call arrivals per unit time
	averageServiceTime float64 // 1/μ
	perCellCapacity    int     // Slots per cell
	cellCount          int     // Cells on the ring
	cellLength         float64 // Length of one cell
	velocity           float64 // Terminal speed
	stopAllCall        int64   // Stop after this many call events (arrivals + handoffs)
	tiePolicy          string  // What to do when an arrival ties with an internal event
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "ringsim",
	Short: "Discrete-event simulator for call and handoff blocking on a ring of cells",
}

// setupLogging applies the --log flag.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// runConfigFromFlags collects the single-run flags.
func runConfigFromFlags() sim.RunConfig {
	return sim.RunConfig{
		ArrivalRate:        arrivalRate,
		AverageServiceTime: averageServiceTime,
		PerCellCapacity:    perCellCapacity,
		CellCount:          cellCount,
		CellLength:         cellLength,
		Velocity:           velocity,
		StopAllCall:        stopAllCall,
		Seed:               seed,
		TiePolicy:          sim.TiePolicy(tiePolicy),
	}
}

// runSingle simulates one parameter point and prints its metrics to w.
func runSingle(cfg sim.RunConfig, w io.Writer) (sim.Stats, error) {
	s, err := sim.NewSimulator(cfg)
	if err != nil {
		return sim.Stats{}, err
	}
	if err := s.Run(); err != nil {
		return s.Stats(), err
	}
	stats := s.Stats()
	fmt.Fprintf(w, "Traffic Intensity    : %.4f\n", s.TrafficIntensity())
	fmt.Fprintf(w, "Segment Time         : %g\n", s.Config.SegmentTime())
	fmt.Fprintf(w, "Simulated Time       : %.4f\n", s.Clock())
	stats.Print(w)
	return stats, nil
}

// runCmd executes one simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation for a single parameter point",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg := runConfigFromFlags()
		logrus.Infof("Starting simulation with seed=%d, λ=%g, 1/μ=%g, capacity=%d×%d, cell length=%g",
			cfg.Seed, cfg.ArrivalRate, cfg.AverageServiceTime, cfg.CellCount, cfg.PerCellCapacity, cfg.CellLength)

		startTime := time.Now()
		if _, err := runSingle(cfg, os.Stdout); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Infof("Simulation complete in %s.", time.Since(startTime))
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for arrival, service, placement and motion draws")
	runCmd.Flags().Float64Var(&arrivalRate, "arrival-rate", 1.0, "Call arrivals per unit time (λ)")
	runCmd.Flags().Float64Var(&averageServiceTime, "ave-service-time", 1.0, "Average call holding time (1/μ)")
	runCmd.Flags().IntVar(&perCellCapacity, "capacity", 3, "Simultaneous calls each cell can carry")
	runCmd.Flags().IntVar(&cellCount, "cells", 5, "Number of cells on the ring")
	runCmd.Flags().Float64Var(&cellLength, "cell-length", 1.0, "Length of one cell")
	runCmd.Flags().Float64Var(&velocity, "velocity", sim.DefaultVelocity, "Terminal speed")
	runCmd.Flags().Int64Var(&stopAllCall, "stop-all-call", 100000, "Stop after this many call events, handoffs included")
	runCmd.Flags().StringVar(&tiePolicy, "tie-policy", string(sim.TieArrivalFirst), "Arrival/internal event tie handling (arrival-first, fail)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(erlangCmd)
}
