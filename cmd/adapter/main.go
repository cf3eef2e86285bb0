// Command adapter cleans a tabular data file and optionally resamples it
// onto a uniform time grid: parse, clean, align, write.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"adapter/internal/config"
	"adapter/internal/infrastructure"
	"adapter/internal/operations"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("adapter", flag.ContinueOnError)
	output := fs.String("output", "", "output file path (default: <input>_cleaned.csv)")
	fs.StringVar(output, "o", "", "shorthand for -output")
	timeColumn := fs.String("time", "", "time column name for alignment")
	fs.StringVar(timeColumn, "t", "", "shorthand for -time")
	dependent := fs.String("dependent", "", "comma-separated dependent variable names")
	fs.StringVar(dependent, "d", "", "shorthand for -dependent")
	independent := fs.String("independent", "", "comma-separated independent variable names")
	fs.StringVar(independent, "i", "", "shorthand for -independent")
	configPath := fs.String("config", "", "configuration file path (yaml or key=value)")
	fs.StringVar(configPath, "c", "", "shorthand for -config")
	delimiter := fs.String("delimiter", "", "CSV delimiter character (default: comma)")
	strategy := fs.String("strategy", "", "missing value strategy: mean | median | zero")
	precision := fs.Int("precision", -1, "numeric precision for normalized values")
	interval := fs.Float64("interval", 0, "target time interval for the uniform grid")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: adapter [options] <input_file>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}

	input := fs.Arg(0)
	if input == "" {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		fs.Usage()
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	// Flags override file and environment settings.
	cfg.Pipeline.InputFile = input
	if *output != "" {
		cfg.Pipeline.OutputFile = *output
	}
	if cfg.Pipeline.OutputFile == "" {
		cfg.Pipeline.OutputFile = defaultOutputPath(input)
	}
	if *timeColumn != "" {
		cfg.Pipeline.TimeColumn = *timeColumn
	}
	if *dependent != "" {
		cfg.Pipeline.DependentVars = splitVars(*dependent)
	}
	if *independent != "" {
		cfg.Pipeline.IndependentVars = splitVars(*independent)
	}
	if *delimiter != "" {
		cfg.Pipeline.Delimiter = *delimiter
	}
	if *strategy != "" {
		cfg.Pipeline.Strategy = *strategy
	}
	if *precision >= 0 {
		cfg.Pipeline.Precision = *precision
	}
	if *interval > 0 {
		cfg.Pipeline.TargetInterval = *interval
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", slog.String("error", err.Error()))
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger.Info("Starting pipeline",
		slog.String("input", cfg.Pipeline.InputFile),
		slog.String("output", cfg.Pipeline.OutputFile),
		slog.String("time_column", cfg.Pipeline.TimeColumn),
		slog.String("strategy", cfg.Pipeline.Strategy))

	state := operations.NewState(cfg.Pipeline)
	runner := operations.NewRunner(logger, operations.DefaultSteps(logger)...)
	if err := runner.Run(context.Background(), state); err != nil {
		logger.Error("Pipeline failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	printSummary(state)
	return 0
}

// printSummary writes the human-readable run report to stdout, warnings
// included.
func printSummary(state *operations.State) {
	fmt.Printf("Removed %d duplicate rows\n", state.CleanStats.DuplicatesRemoved)
	fmt.Printf("Imputed %d missing cells\n", state.CleanStats.CellsImputed)
	if state.AlignResult.Aligned {
		fmt.Printf("Aligned time series to %d grid points\n", state.AlignResult.GridPoints)
	}
	for _, d := range state.Diagnostics {
		fmt.Printf("Warning: %s\n", d)
	}
	fmt.Printf("Successfully processed %d rows\n", state.Table.RowCount())
	fmt.Printf("Output written to: %s\n", state.Config.OutputFile)
}

// defaultOutputPath derives "<input>_cleaned.csv" from the input path.
func defaultOutputPath(input string) string {
	if dot := strings.LastIndex(input, "."); dot > strings.LastIndexByte(input, '/') {
		return input[:dot] + "_cleaned.csv"
	}
	return input + "_cleaned.csv"
}

// splitVars parses a comma-separated variable list, trimming whitespace.
func splitVars(value string) []string {
	parts := strings.Split(value, ",")
	vars := make([]string, 0, len(parts))
	for _, part := range parts {
		if v := strings.TrimSpace(part); v != "" {
			vars = append(vars, v)
		}
	}
	return vars
}
