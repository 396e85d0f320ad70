package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joshuapare/segpool/internal/logger"
)

var (
	// Global flags, resolved through viper before every command runs
	verbose bool
	jsonOut bool

	// Configuration merged from flags, SEGPOOL_* env and the config file
	conf *viper.Viper

	// Output destinations, swapped by tests
	out    io.Writer = os.Stdout
	errOut io.Writer = os.Stderr
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segpool",
		Short: "Inspect and exercise fixed-size segment pools",
		Long: `segpool reports the memory layout of segment pools and runs allocation
workloads against them, printing pool and system allocator statistics.

Every flag can also be set through a SEGPOOL_<FLAG> environment variable
(dashes become underscores) or a config file passed with --config.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output and debug logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("config", "", "Config file (yaml, toml or json)")
	cmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(newInfoCmd(), newBenchCmd(), newVersionCmd())
	return cmd
}

// setup loads configuration and initializes logging for the running command.
func setup(cmd *cobra.Command, _ []string) error {
	v, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	conf = v
	verbose = v.GetBool("verbose")
	jsonOut = v.GetBool("json")

	level, err := logger.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return err
	}
	if verbose && v.GetString("log-level") == "" {
		level = slog.LevelDebug
	}
	logger.Init(logger.Options{
		Enabled: verbose || v.GetString("log-level") != "",
		Output:  errOut,
		Level:   level,
		JSON:    jsonOut,
	})
	logger.L.Debug("configuration loaded", "config_file", v.ConfigFileUsed())
	return nil
}

func execute() {
	if err := newRootCmd().Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message
func printInfo(format string, args ...any) {
	fmt.Fprintf(out, format, args...)
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(errOut, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(out, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
