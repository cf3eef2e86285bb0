package operations

import (
	"context"
	"fmt"
	"log/slog"

	"adapter/internal/aligner"
	"adapter/internal/cleaner"
	"adapter/internal/exporter"
	"adapter/internal/parser"
)

// ParseStep reads the configured input file into the run state's table.
type ParseStep struct {
	logger *slog.Logger
}

// NewParseStep creates the parse step.
func NewParseStep(logger *slog.Logger) *ParseStep {
	return &ParseStep{logger: logger}
}

func (s *ParseStep) ID() string   { return "parse" }
func (s *ParseStep) Name() string { return "Parse input file" }

func (s *ParseStep) Execute(ctx context.Context, state *State) error {
	if state.Config.InputFile == "" {
		return fmt.Errorf("no input file configured")
	}
	t, err := parser.ParseFile(s.logger, state.Config.InputFile, state.Config.DelimiterRune())
	if err != nil {
		return err
	}
	state.Table = t
	return nil
}

// CleanStep runs the cleaning engine over the table in place.
type CleanStep struct {
	logger *slog.Logger
}

// NewCleanStep creates the clean step.
func NewCleanStep(logger *slog.Logger) *CleanStep {
	return &CleanStep{logger: logger}
}

func (s *CleanStep) ID() string   { return "clean" }
func (s *CleanStep) Name() string { return "Clean data" }

func (s *CleanStep) Execute(ctx context.Context, state *State) error {
	if state.Table == nil {
		return fmt.Errorf("no table to clean")
	}
	c := cleaner.New(s.logger, cleaner.Config{
		Strategy:  cleaner.Strategy(state.Config.Strategy),
		Precision: state.Config.Precision,
	})
	state.CleanStats = c.CleanWithStats(state.Table)
	return nil
}

// AlignStep resamples the table onto a uniform time grid. Skipped when no
// time column is configured, matching the CLI's optional alignment stage.
type AlignStep struct {
	logger *slog.Logger
}

// NewAlignStep creates the align step.
func NewAlignStep(logger *slog.Logger) *AlignStep {
	return &AlignStep{logger: logger}
}

func (s *AlignStep) ID() string   { return "align" }
func (s *AlignStep) Name() string { return "Align time series" }

func (s *AlignStep) Execute(ctx context.Context, state *State) error {
	if state.Config.TimeColumn == "" {
		return fmt.Errorf("%w: no time column configured", ErrSkipped)
	}
	if state.Table == nil {
		return fmt.Errorf("no table to align")
	}
	a := aligner.New(s.logger, aligner.Config{
		TargetInterval: state.Config.TargetInterval,
		Solver:         aligner.SolverMethod(state.Config.Solver),
	})
	result := a.Align(state.Table, state.Config.TimeColumn,
		state.Config.DependentVars, state.Config.IndependentVars)
	state.AlignResult = result
	state.Diagnostics = append(state.Diagnostics, result.Diagnostics...)
	return nil
}

// ExportStep writes the table to the configured output file.
type ExportStep struct {
	logger *slog.Logger
}

// NewExportStep creates the export step.
func NewExportStep(logger *slog.Logger) *ExportStep {
	return &ExportStep{logger: logger}
}

func (s *ExportStep) ID() string   { return "export" }
func (s *ExportStep) Name() string { return "Write output file" }

func (s *ExportStep) Execute(ctx context.Context, state *State) error {
	if state.Table == nil {
		return fmt.Errorf("no table to export")
	}
	if state.Config.OutputFile == "" {
		return fmt.Errorf("no output file configured")
	}
	w := exporter.NewCSVWriter(s.logger)
	return w.WriteTable(state.Config.OutputFile, state.Table, exporter.WriteOptions{
		Delimiter: state.Config.DelimiterRune(),
	})
}

// DefaultSteps returns the standard pipeline: parse, clean, align, export.
func DefaultSteps(logger *slog.Logger) []Step {
	return []Step{
		NewParseStep(logger),
		NewCleanStep(logger),
		NewAlignStep(logger),
		NewExportStep(logger),
	}
}
