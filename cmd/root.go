package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/factory-sim/factory-sim/sim"
	"github.com/factory-sim/factory-sim/sim/config"
	"github.com/factory-sim/factory-sim/sim/results"
	"github.com/factory-sim/factory-sim/sim/trace"
)

var (
	configPath string // Path to the YAML line configuration
	seed       int64  // Seed override for all random streams
	horizon    int64  // Horizon override (in ticks)
	logLevel   string // Log verbosity level
	tracePath  string // Event trace JSON output path
	resultsDB  string // Sqlite results database path
	schemaOut  string // Schema output path
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "factory-sim",
	Short: "Discrete-event simulator for production lines",
}

// runCmd executes one simulation run from a line configuration file
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the production-line simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := config.Load(configPath)
		if err != nil {
			logrus.Fatalf("Loading configuration: %v", err)
		}

		// CLI overrides apply only when the flag was given explicitly,
		// so config values survive the flag defaults.
		if cmd.Flags().Changed("seed") {
			cfg.Seed = seed
		}
		if cmd.Flags().Changed("horizon") {
			cfg.SimulationTime = horizon
		}

		params, err := cfg.Params()
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		if tracePath != "" {
			params.TraceLevel = trace.LevelEvents
		}

		f, err := sim.NewFactory(params)
		if err != nil {
			logrus.Fatalf("Building factory: %v", err)
		}

		logrus.Infof("Starting run: %d processes, %d part types, %d workers, horizon=%d %s",
			len(params.Processes), len(params.PartTypes), len(params.Workers), params.Horizon, params.TimeUnit)

		startTime := time.Now() // Get current time (start)

		if err := f.Run(); err != nil {
			logrus.Fatalf("Run failed: %v", err)
		}
		f.Metrics.Print(f.Clock, f.Pool)

		if tracePath != "" {
			if err := f.Trace.WriteFile(tracePath); err != nil {
				logrus.Fatalf("Writing trace: %v", err)
			}
			logrus.Infof("Trace written to %s", tracePath)
		}

		if resultsDB != "" {
			store, err := results.Open(resultsDB)
			if err != nil {
				logrus.Fatalf("Opening results store: %v", err)
			}
			sum := results.Summarize(f, configPath, params.Seed, startTime, time.Since(startTime))
			id, err := store.SaveRun(context.Background(), sum)
			if err != nil {
				logrus.Fatalf("Saving results: %v", err)
			}
			logrus.Infof("Results saved: run %s", id)
		}

		logrus.Info("Simulation complete.")
	},
}

// validateCmd checks a configuration file without running anything
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a line configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(configPath)
		if err != nil {
			logrus.Fatalf("Loading configuration: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		fmt.Println("configuration OK")
	},
}

// schemaCmd emits the JSON schema for line configuration files
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the line configuration JSON schema",
	Run: func(cmd *cobra.Command, args []string) {
		data, err := json.MarshalIndent(config.GenerateSchema(), "", "  ")
		if err != nil {
			logrus.Fatalf("Encoding schema: %v", err)
		}
		if schemaOut == "" {
			fmt.Println(string(data))
			return
		}
		if err := os.WriteFile(schemaOut, data, 0o644); err != nil {
			logrus.Fatalf("Writing schema: %v", err)
		}
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
	runCmd.Flags().StringVar(&configPath, "config", "line.yaml", "Path to the YAML line configuration")
	runCmd.Flags().Int64Var(&seed, "seed", 1, "Seed for all random streams (overrides the config value)")
	runCmd.Flags().Int64Var(&horizon, "horizon", 0, "Simulation horizon in ticks (overrides the config value)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&tracePath, "trace", "", "Write an event trace JSON to this path")
	runCmd.Flags().StringVar(&resultsDB, "results-db", "", "Persist the run summary to this sqlite database")

	validateCmd.Flags().StringVar(&configPath, "config", "line.yaml", "Path to the YAML line configuration")

	schemaCmd.Flags().StringVar(&schemaOut, "output", "", "Write the schema to this path instead of stdout")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(schemaCmd)
}
